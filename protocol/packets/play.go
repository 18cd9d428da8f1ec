package packets

import (
	"fmt"

	"github.com/go-mclib/botclient/codec"
	"github.com/go-mclib/botclient/protocol"
)

// GameJoin (clientbound/play) hands over the entity ID, world list, and
// dimension/gamemode the client is entering play with.
type GameJoin struct {
	EntityID            codec.Int32
	IsHardcore          codec.Boolean
	DimensionNames      codec.PrefixedArray[codec.Identifier]
	MaxPlayers          codec.VarInt
	ViewDistance        codec.VarInt
	SimulationDistance  codec.VarInt
	ReducedDebugInfo    codec.Boolean
	EnableRespawnScreen codec.Boolean
	DoLimitedCrafting   codec.Boolean
	DimensionType       codec.VarInt
	DimensionName       codec.Identifier
	HashedSeed          codec.Int64
	GameMode            codec.Uint8
	PreviousGameMode    codec.Int8
	IsDebug             codec.Boolean
	IsFlat              codec.Boolean
	PortalCooldown      codec.VarInt
	SeaLevel            codec.VarInt
	EnforcesSecureChat  codec.Boolean
}

func (*GameJoin) ID() codec.VarInt      { return 0x2b }
func (*GameJoin) State() protocol.State { return protocol.StatePlay }
func (*GameJoin) Bound() protocol.Bound { return protocol.S2C }

func (p *GameJoin) Read(buf *codec.PacketBuffer) error {
	var err error
	if p.EntityID, err = buf.ReadInt32(); err != nil {
		return err
	}
	if p.IsHardcore, err = buf.ReadBool(); err != nil {
		return err
	}
	if err := p.DimensionNames.DecodeWith(buf, func(b *codec.PacketBuffer) (codec.Identifier, error) {
		return b.ReadIdentifier()
	}); err != nil {
		return err
	}
	if p.MaxPlayers, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.ViewDistance, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.SimulationDistance, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.ReducedDebugInfo, err = buf.ReadBool(); err != nil {
		return err
	}
	if p.EnableRespawnScreen, err = buf.ReadBool(); err != nil {
		return err
	}
	if p.DoLimitedCrafting, err = buf.ReadBool(); err != nil {
		return err
	}
	if p.DimensionType, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.DimensionName, err = buf.ReadIdentifier(); err != nil {
		return err
	}
	if p.HashedSeed, err = buf.ReadInt64(); err != nil {
		return err
	}
	if p.GameMode, err = buf.ReadUint8(); err != nil {
		return err
	}
	if p.PreviousGameMode, err = buf.ReadInt8(); err != nil {
		return err
	}
	if p.IsDebug, err = buf.ReadBool(); err != nil {
		return err
	}
	if p.IsFlat, err = buf.ReadBool(); err != nil {
		return err
	}
	hasDeathLocation, err := buf.ReadBool()
	if err != nil {
		return err
	}
	if bool(hasDeathLocation) {
		if _, err := buf.ReadIdentifier(); err != nil {
			return err
		}
		if _, err := buf.ReadPosition(); err != nil {
			return err
		}
	}
	if p.PortalCooldown, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.SeaLevel, err = buf.ReadVarInt(); err != nil {
		return err
	}
	p.EnforcesSecureChat, err = buf.ReadBool()
	return err
}

func (p *GameJoin) Write(buf *codec.PacketBuffer) error {
	if err := buf.WriteInt32(p.EntityID); err != nil {
		return err
	}
	if err := buf.WriteBool(p.IsHardcore); err != nil {
		return err
	}
	if err := p.DimensionNames.EncodeWith(buf, func(b *codec.PacketBuffer, v codec.Identifier) error {
		return b.WriteIdentifier(v)
	}); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.MaxPlayers); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.ViewDistance); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.SimulationDistance); err != nil {
		return err
	}
	if err := buf.WriteBool(p.ReducedDebugInfo); err != nil {
		return err
	}
	if err := buf.WriteBool(p.EnableRespawnScreen); err != nil {
		return err
	}
	if err := buf.WriteBool(p.DoLimitedCrafting); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.DimensionType); err != nil {
		return err
	}
	if err := buf.WriteIdentifier(p.DimensionName); err != nil {
		return err
	}
	if err := buf.WriteInt64(p.HashedSeed); err != nil {
		return err
	}
	if err := buf.WriteUint8(p.GameMode); err != nil {
		return err
	}
	if err := buf.WriteInt8(p.PreviousGameMode); err != nil {
		return err
	}
	if err := buf.WriteBool(p.IsDebug); err != nil {
		return err
	}
	if err := buf.WriteBool(p.IsFlat); err != nil {
		return err
	}
	if err := buf.WriteBool(false); err != nil { // HasDeathLocation: never re-sent by the client
		return err
	}
	if err := buf.WriteVarInt(p.PortalCooldown); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.SeaLevel); err != nil {
		return err
	}
	return buf.WriteBool(p.EnforcesSecureChat)
}

// KeepAlivePlay carries a keep-alive echo ID during play, in either
// direction (clientbound 0x26 / serverbound 0x1b).
type KeepAlivePlay struct {
	KeepAliveID codec.Int64
	bound       protocol.Bound
}

func NewClientboundKeepAlivePlay() *KeepAlivePlay { return &KeepAlivePlay{bound: protocol.S2C} }
func NewServerboundKeepAlivePlay() *KeepAlivePlay { return &KeepAlivePlay{bound: protocol.C2S} }

func (p *KeepAlivePlay) ID() codec.VarInt {
	if p.bound == protocol.S2C {
		return 0x26
	}
	return 0x1b
}
func (*KeepAlivePlay) State() protocol.State   { return protocol.StatePlay }
func (p *KeepAlivePlay) Bound() protocol.Bound { return p.bound }

func (p *KeepAlivePlay) Read(buf *codec.PacketBuffer) error {
	var err error
	p.KeepAliveID, err = buf.ReadInt64()
	return err
}

func (p *KeepAlivePlay) Write(buf *codec.PacketBuffer) error {
	return buf.WriteInt64(p.KeepAliveID)
}

// PlayerPosition (clientbound/play) is a server-issued teleport the client
// must accept by echoing AcceptTeleportation with the same TeleportID.
type PlayerPosition struct {
	TeleportID codec.VarInt
	X, Y, Z    codec.Float64
	VX, VY, VZ codec.Float64
	Yaw, Pitch codec.Float32
	Flags      codec.Int32
}

func (*PlayerPosition) ID() codec.VarInt      { return 0x42 }
func (*PlayerPosition) State() protocol.State { return protocol.StatePlay }
func (*PlayerPosition) Bound() protocol.Bound { return protocol.S2C }

func (p *PlayerPosition) Read(buf *codec.PacketBuffer) error {
	var err error
	if p.TeleportID, err = buf.ReadVarInt(); err != nil {
		return err
	}
	if p.X, err = buf.ReadFloat64(); err != nil {
		return err
	}
	if p.Y, err = buf.ReadFloat64(); err != nil {
		return err
	}
	if p.Z, err = buf.ReadFloat64(); err != nil {
		return err
	}
	if p.VX, err = buf.ReadFloat64(); err != nil {
		return err
	}
	if p.VY, err = buf.ReadFloat64(); err != nil {
		return err
	}
	if p.VZ, err = buf.ReadFloat64(); err != nil {
		return err
	}
	if p.Yaw, err = buf.ReadFloat32(); err != nil {
		return err
	}
	if p.Pitch, err = buf.ReadFloat32(); err != nil {
		return err
	}
	p.Flags, err = buf.ReadInt32()
	return err
}

func (p *PlayerPosition) Write(buf *codec.PacketBuffer) error {
	if err := buf.WriteVarInt(p.TeleportID); err != nil {
		return err
	}
	if err := buf.WriteFloat64(p.X); err != nil {
		return err
	}
	if err := buf.WriteFloat64(p.Y); err != nil {
		return err
	}
	if err := buf.WriteFloat64(p.Z); err != nil {
		return err
	}
	if err := buf.WriteFloat64(p.VX); err != nil {
		return err
	}
	if err := buf.WriteFloat64(p.VY); err != nil {
		return err
	}
	if err := buf.WriteFloat64(p.VZ); err != nil {
		return err
	}
	if err := buf.WriteFloat32(p.Yaw); err != nil {
		return err
	}
	if err := buf.WriteFloat32(p.Pitch); err != nil {
		return err
	}
	return buf.WriteInt32(p.Flags)
}

// AcceptTeleportation (serverbound/play) echoes a PlayerPosition's
// TeleportID to confirm the client applied it.
type AcceptTeleportation struct {
	TeleportID codec.VarInt
}

func (*AcceptTeleportation) ID() codec.VarInt      { return 0x00 }
func (*AcceptTeleportation) State() protocol.State { return protocol.StatePlay }
func (*AcceptTeleportation) Bound() protocol.Bound { return protocol.C2S }

func (p *AcceptTeleportation) Read(buf *codec.PacketBuffer) error {
	var err error
	p.TeleportID, err = buf.ReadVarInt()
	return err
}

func (p *AcceptTeleportation) Write(buf *codec.PacketBuffer) error {
	return buf.WriteVarInt(p.TeleportID)
}

// MovePlayerPos (serverbound/play) is the smallest-footprint movement
// packet: position only, no look change.
type MovePlayerPos struct {
	X, Y, Z  codec.Float64
	OnGround codec.Boolean
}

func (*MovePlayerPos) ID() codec.VarInt      { return 0x1d }
func (*MovePlayerPos) State() protocol.State { return protocol.StatePlay }
func (*MovePlayerPos) Bound() protocol.Bound { return protocol.C2S }

func (p *MovePlayerPos) Read(buf *codec.PacketBuffer) error {
	var err error
	if p.X, err = buf.ReadFloat64(); err != nil {
		return err
	}
	if p.Y, err = buf.ReadFloat64(); err != nil {
		return err
	}
	if p.Z, err = buf.ReadFloat64(); err != nil {
		return err
	}
	p.OnGround, err = buf.ReadBool()
	return err
}

func (p *MovePlayerPos) Write(buf *codec.PacketBuffer) error {
	if err := buf.WriteFloat64(p.X); err != nil {
		return err
	}
	if err := buf.WriteFloat64(p.Y); err != nil {
		return err
	}
	if err := buf.WriteFloat64(p.Z); err != nil {
		return err
	}
	return buf.WriteBool(p.OnGround)
}

// MovePlayerPosRot (serverbound/play) carries both a position and look
// change in one packet.
type MovePlayerPosRot struct {
	X, Y, Z    codec.Float64
	Yaw, Pitch codec.Float32
	OnGround   codec.Boolean
}

func (*MovePlayerPosRot) ID() codec.VarInt      { return 0x1e }
func (*MovePlayerPosRot) State() protocol.State { return protocol.StatePlay }
func (*MovePlayerPosRot) Bound() protocol.Bound { return protocol.C2S }

func (p *MovePlayerPosRot) Read(buf *codec.PacketBuffer) error {
	var err error
	if p.X, err = buf.ReadFloat64(); err != nil {
		return err
	}
	if p.Y, err = buf.ReadFloat64(); err != nil {
		return err
	}
	if p.Z, err = buf.ReadFloat64(); err != nil {
		return err
	}
	if p.Yaw, err = buf.ReadFloat32(); err != nil {
		return err
	}
	if p.Pitch, err = buf.ReadFloat32(); err != nil {
		return err
	}
	p.OnGround, err = buf.ReadBool()
	return err
}

func (p *MovePlayerPosRot) Write(buf *codec.PacketBuffer) error {
	if err := buf.WriteFloat64(p.X); err != nil {
		return err
	}
	if err := buf.WriteFloat64(p.Y); err != nil {
		return err
	}
	if err := buf.WriteFloat64(p.Z); err != nil {
		return err
	}
	if err := buf.WriteFloat32(p.Yaw); err != nil {
		return err
	}
	if err := buf.WriteFloat32(p.Pitch); err != nil {
		return err
	}
	return buf.WriteBool(p.OnGround)
}

// MovePlayerRot (serverbound/play) carries a look change only.
type MovePlayerRot struct {
	Yaw, Pitch codec.Float32
	OnGround   codec.Boolean
}

func (*MovePlayerRot) ID() codec.VarInt      { return 0x1f }
func (*MovePlayerRot) State() protocol.State { return protocol.StatePlay }
func (*MovePlayerRot) Bound() protocol.Bound { return protocol.C2S }

func (p *MovePlayerRot) Read(buf *codec.PacketBuffer) error {
	var err error
	if p.Yaw, err = buf.ReadFloat32(); err != nil {
		return err
	}
	if p.Pitch, err = buf.ReadFloat32(); err != nil {
		return err
	}
	p.OnGround, err = buf.ReadBool()
	return err
}

func (p *MovePlayerRot) Write(buf *codec.PacketBuffer) error {
	if err := buf.WriteFloat32(p.Yaw); err != nil {
		return err
	}
	if err := buf.WriteFloat32(p.Pitch); err != nil {
		return err
	}
	return buf.WriteBool(p.OnGround)
}

// MovePlayerStatusOnly (serverbound/play) carries neither position nor look
// change, just the on-ground flag — sent as the unconditional keep-position
// every 20 ticks when nothing else moved.
type MovePlayerStatusOnly struct {
	OnGround codec.Boolean
}

func (*MovePlayerStatusOnly) ID() codec.VarInt      { return 0x20 }
func (*MovePlayerStatusOnly) State() protocol.State { return protocol.StatePlay }
func (*MovePlayerStatusOnly) Bound() protocol.Bound { return protocol.C2S }

func (p *MovePlayerStatusOnly) Read(buf *codec.PacketBuffer) error {
	var err error
	p.OnGround, err = buf.ReadBool()
	return err
}

func (p *MovePlayerStatusOnly) Write(buf *codec.PacketBuffer) error {
	return buf.WriteBool(p.OnGround)
}

// ChunkBatchStart (clientbound/play) opens a chunk batch; the client starts
// timing from here.
type ChunkBatchStart struct{}

func (*ChunkBatchStart) ID() codec.VarInt                    { return 0x0c }
func (*ChunkBatchStart) State() protocol.State               { return protocol.StatePlay }
func (*ChunkBatchStart) Bound() protocol.Bound                { return protocol.S2C }
func (*ChunkBatchStart) Read(buf *codec.PacketBuffer) error  { return nil }
func (*ChunkBatchStart) Write(buf *codec.PacketBuffer) error { return nil }

// ChunkBatchFinished (clientbound/play) closes a chunk batch and reports how
// many chunks it contained, feeding the rate estimator.
type ChunkBatchFinished struct {
	BatchSize codec.VarInt
}

func (*ChunkBatchFinished) ID() codec.VarInt      { return 0x0d }
func (*ChunkBatchFinished) State() protocol.State { return protocol.StatePlay }
func (*ChunkBatchFinished) Bound() protocol.Bound { return protocol.S2C }

func (p *ChunkBatchFinished) Read(buf *codec.PacketBuffer) error {
	var err error
	p.BatchSize, err = buf.ReadVarInt()
	return err
}

func (p *ChunkBatchFinished) Write(buf *codec.PacketBuffer) error {
	return buf.WriteVarInt(p.BatchSize)
}

// ChunkBatchReceived (serverbound/play) reports the estimator's current
// desired_chunks_per_tick back to the server.
type ChunkBatchReceived struct {
	ChunksPerTick codec.Float32
}

func (*ChunkBatchReceived) ID() codec.VarInt      { return 0x0a }
func (*ChunkBatchReceived) State() protocol.State { return protocol.StatePlay }
func (*ChunkBatchReceived) Bound() protocol.Bound { return protocol.C2S }

func (p *ChunkBatchReceived) Read(buf *codec.PacketBuffer) error {
	var err error
	p.ChunksPerTick, err = buf.ReadFloat32()
	return err
}

func (p *ChunkBatchReceived) Write(buf *codec.PacketBuffer) error {
	return buf.WriteFloat32(p.ChunksPerTick)
}

// Disconnect (clientbound/play) terminates the connection with a JSON-text
// reason while already in play.
type Disconnect struct {
	Reason codec.String
}

func (*Disconnect) ID() codec.VarInt      { return 0x1d }
func (*Disconnect) State() protocol.State { return protocol.StatePlay }
func (*Disconnect) Bound() protocol.Bound { return protocol.S2C }

func (p *Disconnect) Read(buf *codec.PacketBuffer) error {
	var err error
	p.Reason, err = buf.ReadString(262144)
	return err
}

func (p *Disconnect) Write(buf *codec.PacketBuffer) error {
	return buf.WriteString(p.Reason)
}

// StartConfiguration (clientbound/play) asks the client to re-enter
// configuration mid-game (e.g. for a resource-pack reload).
type StartConfiguration struct{}

func (*StartConfiguration) ID() codec.VarInt                    { return 0x6b }
func (*StartConfiguration) State() protocol.State               { return protocol.StatePlay }
func (*StartConfiguration) Bound() protocol.Bound                { return protocol.S2C }
func (*StartConfiguration) Read(buf *codec.PacketBuffer) error  { return nil }
func (*StartConfiguration) Write(buf *codec.PacketBuffer) error { return nil }

// playerInfoAction bits, per the Java Edition Player Info Update packet.
const (
	playerInfoAddPlayer      = 0x01
	playerInfoInitializeChat = 0x02
	playerInfoUpdateGameMode = 0x04
	playerInfoUpdateListed   = 0x08
	playerInfoUpdateLatency  = 0x10
	playerInfoDisplayName    = 0x20
)

// PlayerInfoProperty is one signed profile property carried on a
// PlayerInfoUpdate add-player entry.
type PlayerInfoProperty struct {
	Name      codec.String
	Value     codec.String
	Signature codec.PrefixedOptional[codec.String]
}

// PlayerInfoEntry is one player's slice of a PlayerInfoUpdate packet. Only
// the actions this client decodes populate their corresponding fields; see
// PlayerInfoUpdate's doc comment for what is intentionally left unhandled.
type PlayerInfoEntry struct {
	UUID       codec.UUID
	Name       codec.String
	Properties codec.PrefixedArray[PlayerInfoProperty]
	GameMode   codec.VarInt
	Listed     codec.Boolean
	Latency    codec.VarInt
}

// PlayerInfoUpdate (clientbound/play) adds or updates tab-list entries.
// Actions requiring a text-component payload (InitializeChat's signing key,
// UpdateDisplayName's NBT component) are not decodable without an NBT
// reader — the same exclusion RegistryData documents for registry entries
// (spec §1 scopes item/NBT decoding out) — so an entry carrying either of
// those two action bits fails with a decode error rather than silently
// misreading the remaining entries in the array.
type PlayerInfoUpdate struct {
	Actions codec.Uint8
	Entries []PlayerInfoEntry
}

func (*PlayerInfoUpdate) ID() codec.VarInt      { return 0x3f }
func (*PlayerInfoUpdate) State() protocol.State { return protocol.StatePlay }
func (*PlayerInfoUpdate) Bound() protocol.Bound { return protocol.S2C }

func (p *PlayerInfoUpdate) Read(buf *codec.PacketBuffer) error {
	actions, err := buf.ReadUint8()
	if err != nil {
		return err
	}
	p.Actions = actions

	if actions&(playerInfoInitializeChat|playerInfoDisplayName) != 0 {
		return fmt.Errorf("player info action mask 0x%02x requires NBT/signature decoding, unsupported", byte(actions))
	}

	count, err := buf.ReadVarInt()
	if err != nil {
		return err
	}
	p.Entries = make([]PlayerInfoEntry, count)
	for i := range p.Entries {
		e := &p.Entries[i]
		if e.UUID, err = buf.ReadUUID(); err != nil {
			return err
		}
		if actions&playerInfoAddPlayer != 0 {
			if e.Name, err = buf.ReadString(16); err != nil {
				return err
			}
			if err := e.Properties.DecodeWith(buf, func(b *codec.PacketBuffer) (PlayerInfoProperty, error) {
				var prop PlayerInfoProperty
				var err error
				if prop.Name, err = b.ReadString(32767); err != nil {
					return prop, err
				}
				if prop.Value, err = b.ReadString(32767); err != nil {
					return prop, err
				}
				err = prop.Signature.DecodeWith(b, func(b *codec.PacketBuffer) (codec.String, error) {
					return b.ReadString(32767)
				})
				return prop, err
			}); err != nil {
				return err
			}
		}
		if actions&playerInfoUpdateGameMode != 0 {
			if e.GameMode, err = buf.ReadVarInt(); err != nil {
				return err
			}
		}
		if actions&playerInfoUpdateListed != 0 {
			if e.Listed, err = buf.ReadBool(); err != nil {
				return err
			}
		}
		if actions&playerInfoUpdateLatency != 0 {
			if e.Latency, err = buf.ReadVarInt(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *PlayerInfoUpdate) Write(buf *codec.PacketBuffer) error {
	return fmt.Errorf("PlayerInfoUpdate is clientbound-only, encoding unsupported")
}

// PlayerInfoRemove (clientbound/play) drops tab-list entries by UUID.
type PlayerInfoRemove struct {
	UUIDs codec.PrefixedArray[codec.UUID]
}

func (*PlayerInfoRemove) ID() codec.VarInt      { return 0x3e }
func (*PlayerInfoRemove) State() protocol.State { return protocol.StatePlay }
func (*PlayerInfoRemove) Bound() protocol.Bound { return protocol.S2C }

func (p *PlayerInfoRemove) Read(buf *codec.PacketBuffer) error {
	return p.UUIDs.DecodeWith(buf, func(b *codec.PacketBuffer) (codec.UUID, error) {
		return b.ReadUUID()
	})
}

func (p *PlayerInfoRemove) Write(buf *codec.PacketBuffer) error {
	return p.UUIDs.EncodeWith(buf, func(b *codec.PacketBuffer, v codec.UUID) error {
		return b.WriteUUID(v)
	})
}

// SetHealth (clientbound/play) reports the local player's health and food.
// A health of 0 or below is the only death signal this client watches for
// (spec §6's Death event); the server's own Death combat-tracking packets
// carry a text-component death message this client has no NBT reader for.
type SetHealth struct {
	Health     codec.Float32
	Food       codec.VarInt
	Saturation codec.Float32
}

func (*SetHealth) ID() codec.VarInt      { return 0x62 }
func (*SetHealth) State() protocol.State { return protocol.StatePlay }
func (*SetHealth) Bound() protocol.Bound { return protocol.S2C }

func (p *SetHealth) Read(buf *codec.PacketBuffer) error {
	var err error
	if p.Health, err = buf.ReadFloat32(); err != nil {
		return err
	}
	if p.Food, err = buf.ReadVarInt(); err != nil {
		return err
	}
	p.Saturation, err = buf.ReadFloat32()
	return err
}

func (p *SetHealth) Write(buf *codec.PacketBuffer) error {
	if err := buf.WriteFloat32(p.Health); err != nil {
		return err
	}
	if err := buf.WriteVarInt(p.Food); err != nil {
		return err
	}
	return buf.WriteFloat32(p.Saturation)
}
