package packets

import (
	"io"

	"github.com/go-mclib/botclient/codec"
	"github.com/go-mclib/botclient/protocol"
)

// ClientInformation (serverbound/configuration, 0x00) is sent on connect and
// whenever the player changes settings.
type ClientInformation struct {
	Locale              codec.String
	ViewDistance        codec.Int8
	ChatMode            codec.VarInt
	ChatColors          codec.Boolean
	DisplayedSkinParts  codec.Uint8
	MainHand            codec.VarInt
	EnableTextFiltering codec.Boolean
	AllowServerListings codec.Boolean
	ParticleStatus      codec.VarInt
}

func (*ClientInformation) ID() codec.VarInt      { return 0x00 }
func (*ClientInformation) State() protocol.State { return protocol.StateConfiguration }
func (*ClientInformation) Bound() protocol.Bound { return protocol.C2S }

func (p *ClientInformation) Read(buf *codec.PacketBuffer) error {
	var err error
	if p.Locale, err = buf.ReadString(16); err != nil {
		return err
	}
	if p.ViewDistance, err = buf.ReadInt8(); err != nil {
		return err
	}
	if p.ChatMode, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.ChatColors, err = buf.ReadBool(); err != nil {
		return err
	}
	if p.DisplayedSkinParts, err = buf.ReadUint8(); err != nil {
		return err
	}
	if p.MainHand, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.EnableTextFiltering, err = buf.ReadBool(); err != nil {
		return err
	}
	if p.AllowServerListings, err = buf.ReadBool(); err != nil {
		return err
	}
	p.ParticleStatus, err = buf.ReadVarInt()
	return err
}

func (p *ClientInformation) Write(buf *codec.PacketBuffer) error {
	if err := buf.WriteString(p.Locale); err != nil {
		return err
	}
	if err := buf.WriteInt8(p.ViewDistance); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.ChatMode); err != nil {
		return err
	}
	if err := buf.WriteBool(p.ChatColors); err != nil {
		return err
	}
	if err := buf.WriteUint8(p.DisplayedSkinParts); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.MainHand); err != nil {
		return err
	}
	if err := buf.WriteBool(p.EnableTextFiltering); err != nil {
		return err
	}
	if err := buf.WriteBool(p.AllowServerListings); err != nil {
		return err
	}
	return buf.WriteVarInt(p.ParticleStatus)
}

// CookieResponseConfiguration (serverbound/configuration, 0x01).
type CookieResponseConfiguration struct {
	Key     codec.Identifier
	Payload codec.PrefixedOptional[codec.ByteArray]
}

func (*CookieResponseConfiguration) ID() codec.VarInt      { return 0x01 }
func (*CookieResponseConfiguration) State() protocol.State { return protocol.StateConfiguration }
func (*CookieResponseConfiguration) Bound() protocol.Bound { return protocol.C2S }

func (p *CookieResponseConfiguration) Read(buf *codec.PacketBuffer) error {
	var err error
	if p.Key, err = buf.ReadIdentifier(); err != nil {
		return err
	}
	return p.Payload.DecodeWith(buf, func(b *codec.PacketBuffer) (codec.ByteArray, error) {
		return b.ReadByteArray(5120)
	})
}

func (p *CookieResponseConfiguration) Write(buf *codec.PacketBuffer) error {
	if err := buf.WriteIdentifier(p.Key); err != nil {
		return err
	}
	return p.Payload.EncodeWith(buf, func(b *codec.PacketBuffer, v codec.ByteArray) error {
		return b.WriteByteArray(v)
	})
}

// CustomPayloadConfiguration carries plugin-channel data in either direction
// during configuration (serverbound 0x02 / clientbound 0x01). The payload
// length has no prefix; it is whatever remains of the frame.
type CustomPayloadConfiguration struct {
	Channel codec.Identifier
	Data    codec.ByteArray
	bound   protocol.Bound
}

func NewServerboundCustomPayloadConfiguration() *CustomPayloadConfiguration {
	return &CustomPayloadConfiguration{bound: protocol.C2S}
}

func NewClientboundCustomPayloadConfiguration() *CustomPayloadConfiguration {
	return &CustomPayloadConfiguration{bound: protocol.S2C}
}

func (p *CustomPayloadConfiguration) ID() codec.VarInt {
	if p.bound == protocol.S2C {
		return 0x01
	}
	return 0x02
}
func (*CustomPayloadConfiguration) State() protocol.State { return protocol.StateConfiguration }
func (p *CustomPayloadConfiguration) Bound() protocol.Bound {
	if p.bound == protocol.S2C {
		return protocol.S2C
	}
	return protocol.C2S
}

func (p *CustomPayloadConfiguration) Read(buf *codec.PacketBuffer) error {
	var err error
	if p.Channel, err = buf.ReadIdentifier(); err != nil {
		return err
	}
	p.Data, err = io.ReadAll(buf.Reader())
	return err
}

func (p *CustomPayloadConfiguration) Write(buf *codec.PacketBuffer) error {
	if err := buf.WriteIdentifier(p.Channel); err != nil {
		return err
	}
	_, err := buf.Write(p.Data)
	return err
}

// FinishConfiguration (clientbound/configuration, 0x03) has no fields; it
// signals the server is ready to move to play once the client acknowledges.
type FinishConfiguration struct{}

func (*FinishConfiguration) ID() codec.VarInt                    { return 0x03 }
func (*FinishConfiguration) State() protocol.State               { return protocol.StateConfiguration }
func (*FinishConfiguration) Bound() protocol.Bound                { return protocol.S2C }
func (*FinishConfiguration) Read(buf *codec.PacketBuffer) error  { return nil }
func (*FinishConfiguration) Write(buf *codec.PacketBuffer) error { return nil }

// AcknowledgeFinishConfiguration (serverbound/configuration, 0x03) has no
// fields; sending it switches the connection to play.
type AcknowledgeFinishConfiguration struct{}

func (*AcknowledgeFinishConfiguration) ID() codec.VarInt                    { return 0x03 }
func (*AcknowledgeFinishConfiguration) State() protocol.State               { return protocol.StateConfiguration }
func (*AcknowledgeFinishConfiguration) Bound() protocol.Bound                { return protocol.C2S }
func (*AcknowledgeFinishConfiguration) Read(buf *codec.PacketBuffer) error  { return nil }
func (*AcknowledgeFinishConfiguration) Write(buf *codec.PacketBuffer) error { return nil }

// KeepAliveConfiguration carries a keep-alive echo ID in either direction
// (clientbound 0x04 / serverbound 0x04 — they share the ID by coincidence).
type KeepAliveConfiguration struct {
	ID64  codec.Int64
	bound protocol.Bound
}

func NewClientboundKeepAliveConfiguration() *KeepAliveConfiguration {
	return &KeepAliveConfiguration{bound: protocol.S2C}
}

func NewServerboundKeepAliveConfiguration() *KeepAliveConfiguration {
	return &KeepAliveConfiguration{bound: protocol.C2S}
}

func (*KeepAliveConfiguration) ID() codec.VarInt         { return 0x04 }
func (*KeepAliveConfiguration) State() protocol.State    { return protocol.StateConfiguration }
func (p *KeepAliveConfiguration) Bound() protocol.Bound  { return p.bound }

func (p *KeepAliveConfiguration) Read(buf *codec.PacketBuffer) error {
	var err error
	p.ID64, err = buf.ReadInt64()
	return err
}

func (p *KeepAliveConfiguration) Write(buf *codec.PacketBuffer) error {
	return buf.WriteInt64(p.ID64)
}

// RegistryData (clientbound/configuration, 0x07) delivers one named
// registry's entries. Entry contents are NBT-encoded and their exact byte
// boundaries are only knowable by parsing that NBT — per spec §1 that
// decoder is an external collaborator, so RawEntries is handed over
// unparsed for the caller's NBT reader to walk.
type RegistryData struct {
	RegistryID codec.Identifier
	EntryCount codec.VarInt
	RawEntries codec.ByteArray
}

func (*RegistryData) ID() codec.VarInt      { return 0x07 }
func (*RegistryData) State() protocol.State { return protocol.StateConfiguration }
func (*RegistryData) Bound() protocol.Bound { return protocol.S2C }

func (p *RegistryData) Read(buf *codec.PacketBuffer) error {
	var err error
	if p.RegistryID, err = buf.ReadIdentifier(); err != nil {
		return err
	}
	if p.EntryCount, err = buf.ReadVarInt(); err != nil {
		return err
	}
	p.RawEntries, err = io.ReadAll(buf.Reader())
	return err
}

func (p *RegistryData) Write(buf *codec.PacketBuffer) error {
	if err := buf.WriteIdentifier(p.RegistryID); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.EntryCount); err != nil {
		return err
	}
	_, err := buf.Write(p.RawEntries)
	return err
}

// CookieRequestConfiguration (clientbound/configuration, 0x00) asks the
// client to echo back a previously stored cookie; a client with none
// replies with Payload unset.
type CookieRequestConfiguration struct {
	Key codec.Identifier
}

func (*CookieRequestConfiguration) ID() codec.VarInt      { return 0x00 }
func (*CookieRequestConfiguration) State() protocol.State { return protocol.StateConfiguration }
func (*CookieRequestConfiguration) Bound() protocol.Bound { return protocol.S2C }

func (p *CookieRequestConfiguration) Read(buf *codec.PacketBuffer) error {
	var err error
	p.Key, err = buf.ReadIdentifier()
	return err
}

func (p *CookieRequestConfiguration) Write(buf *codec.PacketBuffer) error {
	return buf.WriteIdentifier(p.Key)
}

// KnownPack identifies one data pack by namespace/id/version.
type KnownPack struct {
	Namespace codec.String
	ID        codec.String
	Version   codec.String
}

func (k *KnownPack) decode(buf *codec.PacketBuffer) error {
	var err error
	if k.Namespace, err = buf.ReadString(32767); err != nil {
		return err
	}
	if k.ID, err = buf.ReadString(32767); err != nil {
		return err
	}
	k.Version, err = buf.ReadString(32767)
	return err
}

func (k *KnownPack) encode(buf *codec.PacketBuffer) error {
	if err := buf.WriteString(k.Namespace); err != nil {
		return err
	}
	if err := buf.WriteString(k.ID); err != nil {
		return err
	}
	return buf.WriteString(k.Version)
}

// SelectKnownPacks tells the other side which data packs are already present
// (clientbound 0x0e / serverbound 0x07).
type SelectKnownPacks struct {
	KnownPacks codec.PrefixedArray[KnownPack]
	bound      protocol.Bound
}

func NewClientboundSelectKnownPacks() *SelectKnownPacks {
	return &SelectKnownPacks{bound: protocol.S2C}
}

func NewServerboundSelectKnownPacks() *SelectKnownPacks {
	return &SelectKnownPacks{bound: protocol.C2S}
}

func (p *SelectKnownPacks) ID() codec.VarInt {
	if p.bound == protocol.S2C {
		return 0x0e
	}
	return 0x07
}
func (*SelectKnownPacks) State() protocol.State   { return protocol.StateConfiguration }
func (p *SelectKnownPacks) Bound() protocol.Bound { return p.bound }

func (p *SelectKnownPacks) Read(buf *codec.PacketBuffer) error {
	return p.KnownPacks.DecodeWith(buf, func(b *codec.PacketBuffer) (KnownPack, error) {
		var k KnownPack
		err := k.decode(b)
		return k, err
	})
}

func (p *SelectKnownPacks) Write(buf *codec.PacketBuffer) error {
	return p.KnownPacks.EncodeWith(buf, func(b *codec.PacketBuffer, k KnownPack) error {
		return k.encode(b)
	})
}
