// Package ecs implements the entity/world/instance model spec.md §3 and §1
// describe as an assumed external collaborator ("a world store that can
// hold typed components keyed by entity and dispatch per-tick systems").
// SPEC_FULL.md §4.9 commits to a concrete implementation: a struct-of-
// components entity rather than a sparse-set ECS, guarded by the locks
// spec §5 specifies exactly (one mutex for the World, one RWMutex per
// Instance).
package ecs

import "github.com/go-mclib/botclient/codec"

// EntityID is an opaque local entity identifier.
type EntityID int32

// Position is a double-precision world-space position.
type Position struct {
	X, Y, Z float64
}

// Velocity is the entity's current velocity in blocks/tick.
type Velocity struct {
	X, Y, Z float64
}

// Rotation is yaw/pitch in degrees.
type Rotation struct {
	Yaw, Pitch float32
}

// StateMarker flags which protocol phase an entity (always the local
// player, for a headless client) currently occupies. Spec §3: "state
// markers (InConfigState / InGameState / InLoginState)".
type StateMarker int

const (
	StateInLogin StateMarker = iota
	StateInConfig
	StateInGame
)

// ScratchState holds the per-tick bookkeeping spec §3 assigns to Entity:
// "last-sent look direction, current sequence number, mining state, attack
// state" — consumed by the tick scheduler's movement emitter (spec §4.5).
type ScratchState struct {
	LastSentPosition Position
	LastSentRotation Rotation
	LastSentOnGround bool
	TicksSinceSend   int

	SequenceNumber int32

	Mining bool
	MiningBlock codec.Position

	Attacking     bool
	AttackTargetID EntityID
}

// PlayerMetadata mirrors the subset of entity-metadata fields relevant to a
// headless client (gamemode and display flags); full entity-metadata tables
// are out of scope per spec §1.
type PlayerMetadata struct {
	Gamemode int32
	OnFire   bool
	Sneaking bool
	Sprinting bool
}

// InventorySlot is a single inventory slot. Item/NBT decoding is out of
// scope per spec §1 — ItemData is the codec-level opaque payload for
// whatever slot-format bytes the server sent.
type InventorySlot struct {
	Present bool
	ItemID  int32
	Count   int8
	ItemData []byte
}

// Entity is the component bundle spec §3 assigns to an ECS entity:
// "position, velocity, rotation, eye height, health, hunger, inventory,
// player metadata, instance-holder, raw-connection, game-profile,
// client-information, state markers, and per-tick scratch".
type Entity struct {
	ID EntityID

	Position  Position
	Velocity  Velocity
	Rotation  Rotation
	EyeHeight float64
	OnGround  bool

	Health float32
	Hunger int32

	Inventory []InventorySlot

	Metadata PlayerMetadata
	State    StateMarker
	Scratch  ScratchState
}

// NewEntity creates an entity with vanilla default component values.
func NewEntity(id EntityID) *Entity {
	return &Entity{
		ID:        id,
		EyeHeight: 1.62,
		Health:    20,
		Hunger:    20,
		State:     StateInLogin,
	}
}

// EyePosition returns Position offset by EyeHeight along Y, per spec §6's
// "eye position" accessor.
func (e *Entity) EyePosition() Position {
	p := e.Position
	p.Y += e.EyeHeight
	return p
}
