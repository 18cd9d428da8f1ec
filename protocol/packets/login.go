package packets

import (
	"github.com/go-mclib/botclient/codec"
	"github.com/go-mclib/botclient/protocol"
)

// Hello (serverbound/login, 0x00), "Login Start": the client's announced
// username and (ignored by vanilla) claimed UUID.
type Hello struct {
	Name       codec.String
	PlayerUUID codec.UUID
}

func (*Hello) ID() codec.VarInt      { return 0x00 }
func (*Hello) State() protocol.State { return protocol.StateLogin }
func (*Hello) Bound() protocol.Bound { return protocol.C2S }

func (p *Hello) Read(buf *codec.PacketBuffer) error {
	var err error
	if p.Name, err = buf.ReadString(16); err != nil {
		return err
	}
	p.PlayerUUID, err = buf.ReadUUID()
	return err
}

func (p *Hello) Write(buf *codec.PacketBuffer) error {
	if err := buf.WriteString(p.Name); err != nil {
		return err
	}
	return buf.WriteUUID(p.PlayerUUID)
}

// Key (serverbound/login, 0x01), "Encryption Response": the shared secret
// and verify token, both RSA-encrypted with the server's public key.
type Key struct {
	SharedSecret codec.ByteArray
	VerifyToken  codec.ByteArray
}

func (*Key) ID() codec.VarInt      { return 0x01 }
func (*Key) State() protocol.State { return protocol.StateLogin }
func (*Key) Bound() protocol.Bound { return protocol.C2S }

func (p *Key) Read(buf *codec.PacketBuffer) error {
	var err error
	if p.SharedSecret, err = buf.ReadByteArray(4096); err != nil {
		return err
	}
	p.VerifyToken, err = buf.ReadByteArray(4096)
	return err
}

func (p *Key) Write(buf *codec.PacketBuffer) error {
	if err := buf.WriteByteArray(p.SharedSecret); err != nil {
		return err
	}
	return buf.WriteByteArray(p.VerifyToken)
}

// LoginAcknowledged (serverbound/login, 0x03) has no fields: it confirms
// receipt of LoginSuccess and switches the connection to configuration.
type LoginAcknowledged struct{}

func (*LoginAcknowledged) ID() codec.VarInt                      { return 0x03 }
func (*LoginAcknowledged) State() protocol.State                 { return protocol.StateLogin }
func (*LoginAcknowledged) Bound() protocol.Bound                 { return protocol.C2S }
func (*LoginAcknowledged) Read(buf *codec.PacketBuffer) error    { return nil }
func (*LoginAcknowledged) Write(buf *codec.PacketBuffer) error   { return nil }

// LoginPluginResponse (serverbound/login, 0x02) answers a CustomQueryLogin.
// A client with no registered responder for the channel replies with
// Understood=false and no payload.
type LoginPluginResponse struct {
	MessageID  codec.VarInt
	Understood codec.Boolean
	Data       codec.ByteArray
}

func (*LoginPluginResponse) ID() codec.VarInt      { return 0x02 }
func (*LoginPluginResponse) State() protocol.State { return protocol.StateLogin }
func (*LoginPluginResponse) Bound() protocol.Bound { return protocol.C2S }

func (p *LoginPluginResponse) Read(buf *codec.PacketBuffer) error {
	var err error
	if p.MessageID, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.Understood, err = buf.ReadBool(); err != nil {
		return err
	}
	if !bool(p.Understood) {
		return nil
	}
	p.Data, err = buf.ReadByteArray(1048576)
	return err
}

func (p *LoginPluginResponse) Write(buf *codec.PacketBuffer) error {
	if err := buf.WriteVarInt(p.MessageID); err != nil {
		return err
	}
	if err := buf.WriteBool(p.Understood); err != nil {
		return err
	}
	if !bool(p.Understood) {
		return nil
	}
	return buf.WriteByteArray(p.Data)
}

// CookieResponseLogin (serverbound/login, 0x04) answers a login-phase
// CookieRequest.
type CookieResponseLogin struct {
	Key     codec.Identifier
	Payload codec.PrefixedOptional[codec.ByteArray]
}

func (*CookieResponseLogin) ID() codec.VarInt      { return 0x04 }
func (*CookieResponseLogin) State() protocol.State { return protocol.StateLogin }
func (*CookieResponseLogin) Bound() protocol.Bound { return protocol.C2S }

func (p *CookieResponseLogin) Read(buf *codec.PacketBuffer) error {
	var err error
	if p.Key, err = buf.ReadIdentifier(); err != nil {
		return err
	}
	return p.Payload.DecodeWith(buf, func(b *codec.PacketBuffer) (codec.ByteArray, error) {
		return b.ReadByteArray(5120)
	})
}

func (p *CookieResponseLogin) Write(buf *codec.PacketBuffer) error {
	if err := buf.WriteIdentifier(p.Key); err != nil {
		return err
	}
	return p.Payload.EncodeWith(buf, func(b *codec.PacketBuffer, v codec.ByteArray) error {
		return b.WriteByteArray(v)
	})
}

// DisconnectLogin (clientbound/login, 0x00) terminates the connection
// during login with a JSON-text reason.
type DisconnectLogin struct {
	Reason codec.String
}

func (*DisconnectLogin) ID() codec.VarInt      { return 0x00 }
func (*DisconnectLogin) State() protocol.State { return protocol.StateLogin }
func (*DisconnectLogin) Bound() protocol.Bound { return protocol.S2C }

func (p *DisconnectLogin) Read(buf *codec.PacketBuffer) error {
	var err error
	p.Reason, err = buf.ReadString(262144)
	return err
}

func (p *DisconnectLogin) Write(buf *codec.PacketBuffer) error {
	return buf.WriteString(p.Reason)
}

// EncryptionRequest (clientbound/login, 0x01) carries the server's public
// key and a verify token the client must echo back (after RSA-encrypting
// both alongside the freshly generated shared secret).
type EncryptionRequest struct {
	ServerID    codec.String
	PublicKey   codec.ByteArray
	VerifyToken codec.ByteArray
}

func (*EncryptionRequest) ID() codec.VarInt      { return 0x01 }
func (*EncryptionRequest) State() protocol.State { return protocol.StateLogin }
func (*EncryptionRequest) Bound() protocol.Bound { return protocol.S2C }

func (p *EncryptionRequest) Read(buf *codec.PacketBuffer) error {
	var err error
	if p.ServerID, err = buf.ReadString(20); err != nil {
		return err
	}
	if p.PublicKey, err = buf.ReadByteArray(4096); err != nil {
		return err
	}
	p.VerifyToken, err = buf.ReadByteArray(4096)
	return err
}

func (p *EncryptionRequest) Write(buf *codec.PacketBuffer) error {
	if err := buf.WriteString(p.ServerID); err != nil {
		return err
	}
	if err := buf.WriteByteArray(p.PublicKey); err != nil {
		return err
	}
	return buf.WriteByteArray(p.VerifyToken)
}

// LoginFinished (clientbound/login, 0x02), "Login Success": the
// authoritative GameProfile for this session.
type LoginFinished struct {
	Profile codec.GameProfile
}

func (*LoginFinished) ID() codec.VarInt      { return 0x02 }
func (*LoginFinished) State() protocol.State { return protocol.StateLogin }
func (*LoginFinished) Bound() protocol.Bound { return protocol.S2C }

func (p *LoginFinished) Read(buf *codec.PacketBuffer) error {
	var err error
	p.Profile, err = buf.ReadGameProfile()
	return err
}

func (p *LoginFinished) Write(buf *codec.PacketBuffer) error {
	return buf.WriteGameProfile(p.Profile)
}

// LoginCompression (clientbound/login, 0x03), "Set Compression": the
// threshold both halves of the connection must apply from this point on.
type LoginCompression struct {
	Threshold codec.VarInt
}

func (*LoginCompression) ID() codec.VarInt      { return 0x03 }
func (*LoginCompression) State() protocol.State { return protocol.StateLogin }
func (*LoginCompression) Bound() protocol.Bound { return protocol.S2C }

func (p *LoginCompression) Read(buf *codec.PacketBuffer) error {
	var err error
	p.Threshold, err = buf.ReadVarInt()
	return err
}

func (p *LoginCompression) Write(buf *codec.PacketBuffer) error {
	return buf.WriteVarInt(p.Threshold)
}

// CustomQueryLogin (clientbound/login, 0x04), "Login Plugin Request": an
// implementation-defined query the client must answer (vanilla clients with
// no registered responder reply with an empty/understood=false payload).
type CustomQueryLogin struct {
	MessageID codec.VarInt
	Channel   codec.Identifier
	Data      codec.ByteArray
}

func (*CustomQueryLogin) ID() codec.VarInt      { return 0x04 }
func (*CustomQueryLogin) State() protocol.State { return protocol.StateLogin }
func (*CustomQueryLogin) Bound() protocol.Bound { return protocol.S2C }

func (p *CustomQueryLogin) Read(buf *codec.PacketBuffer) error {
	var err error
	if p.MessageID, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.Channel, err = buf.ReadIdentifier(); err != nil {
		return err
	}
	p.Data, err = buf.ReadByteArray(1048576)
	return err
}

func (p *CustomQueryLogin) Write(buf *codec.PacketBuffer) error {
	if err := buf.WriteVarInt(p.MessageID); err != nil {
		return err
	}
	if err := buf.WriteIdentifier(p.Channel); err != nil {
		return err
	}
	return buf.WriteByteArray(p.Data)
}

// CookieRequestLogin (clientbound/login, 0x05) asks the client to echo back
// a previously stored cookie; a client with none replies with Payload unset.
type CookieRequestLogin struct {
	Key codec.Identifier
}

func (*CookieRequestLogin) ID() codec.VarInt      { return 0x05 }
func (*CookieRequestLogin) State() protocol.State { return protocol.StateLogin }
func (*CookieRequestLogin) Bound() protocol.Bound { return protocol.S2C }

func (p *CookieRequestLogin) Read(buf *codec.PacketBuffer) error {
	var err error
	p.Key, err = buf.ReadIdentifier()
	return err
}

func (p *CookieRequestLogin) Write(buf *codec.PacketBuffer) error {
	return buf.WriteIdentifier(p.Key)
}
