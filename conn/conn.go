// Package conn drives the four-phase connection state machine spec §4.3
// describes: handshake, login (including encryption, compression, and
// session-server authentication), configuration (registry data), and the
// handoff into play.
//
// Grounded on spec §4.3 directly for the phase sequencing, and on the
// teacher's overall handshake → login → configuration shape as expressed
// across java_protocol/packets/c2s_handshake.go, s2c_login.go, and
// c2s_login.go (field names/ids carried into protocol/packets).
package conn

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/go-mclib/botclient/codec"
	"github.com/go-mclib/botclient/mcerr"
	"github.com/go-mclib/botclient/profile"
	"github.com/go-mclib/botclient/protocol"
	"github.com/go-mclib/botclient/protocol/packets"
	"github.com/go-mclib/botclient/session"
	"github.com/go-mclib/botclient/transport"
)

// ProtocolVersion is the single compile-time protocol-version constant
// spec §6 requires ("no protocol version negotiation beyond a single
// compile-time constant"). 770 is the 1.21.4 Java Edition protocol number.
const ProtocolVersion = 770

// Account is the external credential source spec §6 names.
type Account = session.Account

// Result is everything the handshake/login/configuration pipeline hands
// back to the caller once the connection has reached Play.
type Result struct {
	Raw     *transport.RawConn
	Profile *profile.Profile
	State   protocol.State
}

// Establish runs the full connection sequence for address: dial, handshake
// with Intent=Login, login (encryption/compression/auth), configuration
// (advertising clientInfo, then registry data/known-packs negotiation),
// and finish — handing back a RawConn already sitting in the Play state.
// It does not read the Play-state GameJoin packet; that is the router's
// job (spec §4.4), since Play-state packet routing belongs to the
// connection's steady-state loop, not its setup.
func Establish(ctx context.Context, address string, account Account, sessionClient *session.SessionServerClient, clientInfo *packets.ClientInformation) (*Result, error) {
	netConn, err := transport.Dial(address)
	if err != nil {
		return nil, err
	}
	raw := transport.NewRawConn(netConn)
	return establish(ctx, raw, address, account, sessionClient, clientInfo)
}

// EstablishWithProxy is Establish dialed through a SOCKS5 proxy (spec §6's
// proxy option).
func EstablishWithProxy(ctx context.Context, address string, proxyCfg transport.ProxyConfig, account Account, sessionClient *session.SessionServerClient, clientInfo *packets.ClientInformation) (*Result, error) {
	netConn, err := transport.DialWithProxy(address, proxyCfg)
	if err != nil {
		return nil, err
	}
	raw := transport.NewRawConn(netConn)
	return establish(ctx, raw, address, account, sessionClient, clientInfo)
}

func establish(ctx context.Context, raw *transport.RawConn, address string, account Account, sessionClient *session.SessionServerClient, clientInfo *packets.ClientInformation) (*Result, error) {
	host, port, err := splitHostPort(address)
	if err != nil {
		_ = raw.Close()
		return nil, mcerr.New(mcerr.InvalidAddress, "parse "+address, err)
	}

	if err := raw.WritePacket(&packets.Intention{
		ProtocolVersion: ProtocolVersion,
		ServerAddress:   codec.String(host),
		ServerPort:      codec.Uint16(port),
		Intent:          packets.IntentLogin,
	}); err != nil {
		_ = raw.Close()
		return nil, err
	}

	if err := raw.WritePacket(&packets.Hello{
		Name:       codec.String(account.Username()),
		PlayerUUID: account.UUIDOrOffline(),
	}); err != nil {
		_ = raw.Close()
		return nil, err
	}

	prof, err := runLoginPhase(ctx, raw, account, sessionClient)
	if err != nil {
		_ = raw.Close()
		return nil, err
	}

	// ClientInformation must reach the server before it advances past
	// configuration; sending it first thing on entering the configuration
	// state (rather than waiting for a prompt) matches vanilla's own client.
	if err := raw.WritePacket(clientInfo); err != nil {
		_ = raw.Close()
		return nil, err
	}

	if err := runConfigurationPhase(raw); err != nil {
		_ = raw.Close()
		return nil, err
	}

	return &Result{Raw: raw, Profile: prof, State: protocol.StatePlay}, nil
}

// runLoginPhase handles every inbound login-state packet until
// LoginFinished, per spec §4.3's login-phase bullet list.
func runLoginPhase(ctx context.Context, raw *transport.RawConn, account Account, sessionClient *session.SessionServerClient) (*profile.Profile, error) {
	refreshedOnce := false

	for {
		wp, err := raw.ReadPacket()
		if err != nil {
			return nil, err
		}

		switch wp.PacketID {
		case (&packets.DisconnectLogin{}).ID():
			var p packets.DisconnectLogin
			if err := wp.ReadInto(&p); err != nil {
				return nil, mcerr.New(mcerr.ReadPacket, "decode DisconnectLogin", err)
			}
			return nil, mcerr.New(mcerr.Disconnect, string(p.Reason), nil)

		case (&packets.EncryptionRequest{}).ID():
			var p packets.EncryptionRequest
			if err := wp.ReadInto(&p); err != nil {
				return nil, mcerr.New(mcerr.ReadPacket, "decode EncryptionRequest", err)
			}
			if err := handleEncryptionRequest(ctx, raw, account, sessionClient, &p, &refreshedOnce); err != nil {
				return nil, err
			}

		case (&packets.LoginCompression{}).ID():
			var p packets.LoginCompression
			if err := wp.ReadInto(&p); err != nil {
				return nil, mcerr.New(mcerr.ReadPacket, "decode LoginCompression", err)
			}
			raw.SetCompressionThreshold(int(p.Threshold))

		case (&packets.LoginFinished{}).ID():
			var p packets.LoginFinished
			if err := wp.ReadInto(&p); err != nil {
				return nil, mcerr.New(mcerr.ReadPacket, "decode LoginFinished", err)
			}
			if err := raw.WritePacket(&packets.LoginAcknowledged{}); err != nil {
				return nil, err
			}
			return profile.FromWire(p.Profile), nil

		case (&packets.CustomQueryLogin{}).ID():
			var p packets.CustomQueryLogin
			if err := wp.ReadInto(&p); err != nil {
				return nil, mcerr.New(mcerr.ReadPacket, "decode CustomQueryLogin", err)
			}
			// No registered responder: reply understood=false, per spec §4.3.
			if err := raw.WritePacket(&packets.LoginPluginResponse{MessageID: p.MessageID, Understood: false}); err != nil {
				return nil, err
			}

		case (&packets.CookieRequestLogin{}).ID():
			var p packets.CookieRequestLogin
			if err := wp.ReadInto(&p); err != nil {
				return nil, mcerr.New(mcerr.ReadPacket, "decode CookieRequestLogin", err)
			}
			resp := packets.CookieResponseLogin{Key: p.Key}
			if err := raw.WritePacket(&resp); err != nil {
				return nil, err
			}

		default:
			return nil, mcerr.New(mcerr.ReadPacket, fmt.Sprintf("unexpected login packet id 0x%02x", wp.PacketID), nil)
		}
	}
}

// handleEncryptionRequest implements spec §4.3's HelloEncryptionRequest
// bullet: compute the shared secret/challenge, authenticate with the
// session server when an access token is present, retrying once on
// refresh, then install encryption.
func handleEncryptionRequest(ctx context.Context, raw *transport.RawConn, account Account, sessionClient *session.SessionServerClient, p *packets.EncryptionRequest, refreshedOnce *bool) error {
	enc := raw.Encryption()
	secret, err := enc.GenerateSharedSecret()
	if err != nil {
		return mcerr.New(mcerr.Auth, "generate shared secret", err)
	}

	encryptedSecret, err := enc.EncryptWithPublicKey(p.PublicKey, secret)
	if err != nil {
		return mcerr.New(mcerr.Auth, "encrypt shared secret", err)
	}
	encryptedToken, err := enc.EncryptWithPublicKey(p.PublicKey, p.VerifyToken)
	if err != nil {
		return mcerr.New(mcerr.Auth, "encrypt verify token", err)
	}

	if sessionClient != nil {
		accessToken, hasToken, err := account.AccessToken(ctx)
		if err != nil {
			return mcerr.New(mcerr.Auth, "fetch access token", err)
		}
		if hasToken {
			uuid, _ := account.UUID()
			authErr := sessionClient.Authenticate(ctx, accessToken, uuid, secret, p.PublicKey, string(p.ServerID))
			if authErr != nil && !*refreshedOnce {
				*refreshedOnce = true
				if refreshErr := account.Refresh(ctx); refreshErr != nil {
					return mcerr.New(mcerr.Auth, "refresh after session server rejection", refreshErr)
				}
				accessToken, _, err = account.AccessToken(ctx)
				if err != nil {
					return mcerr.New(mcerr.Auth, "fetch access token after refresh", err)
				}
				authErr = sessionClient.Authenticate(ctx, accessToken, uuid, secret, p.PublicKey, string(p.ServerID))
			}
			if authErr != nil {
				return mcerr.New(mcerr.Auth, "session server rejected after refresh", authErr)
			}
		}
	}

	if err := raw.WritePacket(&packets.Key{SharedSecret: encryptedSecret, VerifyToken: encryptedToken}); err != nil {
		return err
	}
	if err := enc.EnableEncryption(); err != nil {
		return mcerr.New(mcerr.Auth, "enable encryption", err)
	}
	return nil
}

// runConfigurationPhase handles registry data and known-packs negotiation
// until the server's FinishConfiguration, per spec §4.3's configuration
// bullet and spec §3's RegistryHolder.
func runConfigurationPhase(raw *transport.RawConn) error {
	for {
		wp, err := raw.ReadPacket()
		if err != nil {
			return err
		}

		switch wp.PacketID {
		case packets.NewClientboundCustomPayloadConfiguration().ID():
			var p packets.CustomPayloadConfiguration
			if err := wp.ReadInto(&p); err != nil {
				return mcerr.New(mcerr.ReadPacket, "decode CustomPayloadConfiguration", err)
			}

		case packets.NewClientboundKeepAliveConfiguration().ID():
			var p packets.KeepAliveConfiguration
			if err := wp.ReadInto(&p); err != nil {
				return mcerr.New(mcerr.ReadPacket, "decode KeepAliveConfiguration", err)
			}
			echo := packets.NewServerboundKeepAliveConfiguration()
			echo.ID64 = p.ID64
			if err := raw.WritePacket(echo); err != nil {
				return err
			}

		case (&packets.RegistryData{}).ID():
			var p packets.RegistryData
			if err := wp.ReadInto(&p); err != nil {
				return mcerr.New(mcerr.ReadPacket, "decode RegistryData", err)
			}
			// Entry-level NBT decoding is out of scope (spec §1); the raw
			// payload is discarded here since Establish has no Instance to
			// hand it to. No later stage installs registry data either: an
			// Instance's RegistryHolder stays empty.

		case packets.NewClientboundSelectKnownPacks().ID():
			var p packets.SelectKnownPacks
			if err := wp.ReadInto(&p); err != nil {
				return mcerr.New(mcerr.ReadPacket, "decode SelectKnownPacks", err)
			}
			// We declare no known packs: the server resends full registry
			// data for everything, which this client always wants since it
			// keeps no persistent cache across sessions.
			reply := packets.NewServerboundSelectKnownPacks()
			if err := raw.WritePacket(reply); err != nil {
				return err
			}

		case (&packets.FinishConfiguration{}).ID():
			return raw.WritePacket(&packets.AcknowledgeFinishConfiguration{})

		case (&packets.CookieRequestConfiguration{}).ID():
			var p packets.CookieRequestConfiguration
			if err := wp.ReadInto(&p); err != nil {
				return mcerr.New(mcerr.ReadPacket, "decode CookieRequestConfiguration", err)
			}
			resp := packets.CookieResponseConfiguration{Key: p.Key}
			if err := raw.WritePacket(&resp); err != nil {
				return err
			}

		default:
			// Unknown configuration packets (e.g. feature flags, tags,
			// resource-pack prompts) are ignored rather than rejected: the
			// client has no handler for them yet and spec §4.3 only
			// requires the registry/known-packs/finish sequence to
			// progress, not full coverage of every configuration packet.
		}
	}
}

// splitHostPort extracts the hostname and numeric port conn advertises in
// its Intention packet, defaulting to the vanilla port 25565 when address
// carries none (the SRV-resolved address transport.Dial/DialWithProxy
// already connected to may differ; the Intention packet always carries the
// address the caller asked for).
func splitHostPort(address string) (string, uint16, error) {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return address, 25565, nil
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port %q: %w", portStr, err)
	}
	return host, uint16(port), nil
}
