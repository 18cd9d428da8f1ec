// Package router drives the inbound side of an established play-state
// connection: a single read-owning task that decodes each frame, mutates
// the shared ECS world under its lock, and emits Events for the client
// package to relay — plus the MPSC Outbound write side handlers and the
// tick scheduler share (spec §4.4, §5).
//
// Grounded on the teacher's java_protocol/tcp_client.go read loop shape
// (decode, switch on id, dispatch), generalized from one monolithic
// dispatcher into the three-tier error classification spec §4.4 requires:
// a transport error is fatal, a decode error is logged-or-panicked per
// Options, and a handler-logic error becomes a disconnect event rather
// than tearing down the process.
package router

import (
	"fmt"
	"log"
	"os"

	"github.com/go-mclib/botclient/chunkbatch"
	"github.com/go-mclib/botclient/ecs"
	"github.com/go-mclib/botclient/mcerr"
	"github.com/go-mclib/botclient/protocol"
	"github.com/go-mclib/botclient/protocol/packets"
	"github.com/go-mclib/botclient/transport"
)

// Options toggles router behavior spec §4.4 leaves as a deployment choice.
type Options struct {
	// PanicOnDecodeError panics on a malformed Play-state frame instead of
	// logging and skipping it. Off by default: a headless client driving
	// unattended automation should keep running past one bad frame.
	PanicOnDecodeError bool
}

// Router owns the read half of an established play-state connection and
// the shared state its handlers mutate.
type Router struct {
	Raw      *transport.RawConn
	World    *ecs.World
	Instance *ecs.PartialInstance
	Batch    *chunkbatch.Info
	Outbound *Outbound
	Options  Options
	Logger   *log.Logger

	Events chan<- Event

	player *ecs.Entity
	wasDead bool
}

// New builds a Router. events may be nil, in which case events are
// dropped rather than blocking the inbound task on a full channel.
func New(raw *transport.RawConn, world *ecs.World, instance *ecs.PartialInstance, batch *chunkbatch.Info, outbound *Outbound, events chan<- Event, opts Options) *Router {
	return &Router{
		Raw:      raw,
		World:    world,
		Instance: instance,
		Batch:    batch,
		Outbound: outbound,
		Events:   events,
		Options:  opts,
		Logger:   log.New(os.Stdout, "[router] ", log.LstdFlags),
	}
}

func (r *Router) emit(e Event) {
	if r.Events == nil {
		return
	}
	select {
	case r.Events <- e:
	default:
		r.Logger.Printf("event channel full, dropping %s", e.Kind)
	}
}

// Player returns the local player entity, valid once Run has processed the
// GameJoin handshake packet.
func (r *Router) Player() *ecs.Entity { return r.player }

// Run blocks reading and dispatching frames until a transport error, a
// server Disconnect, or ctx-independent EOF ends the connection (spec
// §4.4: this is the "single task that owns the read half" for the
// lifetime of the play-state connection). It returns the error that ended
// the loop, which is nil only if the caller never gets it to stop any
// other way — in practice every exit path returns a non-nil reason.
func (r *Router) Run() error {
	if err := r.awaitGameJoin(); err != nil {
		return err
	}

	for {
		wp, err := r.Raw.ReadPacket()
		if err != nil {
			// Transport-fatal: the socket itself is gone or desynchronized.
			r.emit(Event{Kind: EventDisconnect, DisconnectReason: err.Error()})
			return err
		}

		// Anything dispatch returns (a server Disconnect, or any other
		// handler-logic failure) ends the connection: the only non-fatal
		// outcome of a frame is decodeError's log-and-continue, which
		// reports nil here.
		if err := r.dispatch(wp); err != nil {
			r.emit(Event{Kind: EventDisconnect, DisconnectReason: err.Error()})
			return err
		}
	}
}

// awaitGameJoin reads frames until GameJoin arrives, spawning the local
// player entity and recording its assigned protocol entity id. Any
// configuration-phase straggler packets (a late KeepAliveConfiguration
// racing the state switch) are tolerated by simply being ignored, since
// conn.Establish has already completed the configuration handshake.
func (r *Router) awaitGameJoin() error {
	for {
		wp, err := r.Raw.ReadPacket()
		if err != nil {
			return err
		}
		if wp.PacketID != (&packets.GameJoin{}).ID() {
			continue
		}

		var p packets.GameJoin
		if err := wp.ReadInto(&p); err != nil {
			return r.decodeError("GameJoin", err)
		}

		e := r.World.Spawn()
		e.State = ecs.StateInGame
		e.Metadata.Gamemode = int32(p.GameMode)
		r.player = e

		r.emit(Event{Kind: EventLogin, PlayerEntityID: e.ID})
		return nil
	}
}

// dispatch decodes and handles one Play-state frame. A decode failure is
// reported via decodeError (log-or-panic per Options); a handler-logic
// failure is returned as-is for Run to turn into a disconnect event.
func (r *Router) dispatch(wp *protocol.WirePacket) error {
	switch wp.PacketID {
	case packets.NewClientboundKeepAlivePlay().ID():
		var p packets.KeepAlivePlay
		if err := wp.ReadInto(&p); err != nil {
			return r.decodeError("KeepAlivePlay", err)
		}
		r.emit(Event{Kind: EventKeepAlive, KeepAliveID: int64(p.KeepAliveID)})
		return r.Outbound.Enqueue(func() *packets.KeepAlivePlay {
			echo := packets.NewServerboundKeepAlivePlay()
			echo.KeepAliveID = p.KeepAliveID
			return echo
		}())

	case (&packets.PlayerPosition{}).ID():
		var p packets.PlayerPosition
		if err := wp.ReadInto(&p); err != nil {
			return r.decodeError("PlayerPosition", err)
		}
		if r.player != nil {
			r.player.Position = ecs.Position{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)}
			r.player.Velocity = ecs.Velocity{X: float64(p.VX), Y: float64(p.VY), Z: float64(p.VZ)}
			r.player.Rotation = ecs.Rotation{Yaw: float32(p.Yaw), Pitch: float32(p.Pitch)}
			r.player.Scratch.LastSentPosition = r.player.Position
			r.player.Scratch.LastSentRotation = r.player.Rotation
		}
		return r.Outbound.Enqueue(&packets.AcceptTeleportation{TeleportID: p.TeleportID})

	case (&packets.PlayerInfoUpdate{}).ID():
		var p packets.PlayerInfoUpdate
		if err := wp.ReadInto(&p); err != nil {
			return r.decodeError("PlayerInfoUpdate", err)
		}
		if p.Actions&0x01 != 0 { // playerInfoAddPlayer
			r.emit(Event{Kind: EventAddPlayer, Packet: &p})
		} else {
			r.emit(Event{Kind: EventUpdatePlayer, Packet: &p})
		}
		return nil

	case (&packets.PlayerInfoRemove{}).ID():
		var p packets.PlayerInfoRemove
		if err := wp.ReadInto(&p); err != nil {
			return r.decodeError("PlayerInfoRemove", err)
		}
		r.emit(Event{Kind: EventRemovePlayer, Packet: &p})
		return nil

	case (&packets.SetHealth{}).ID():
		var p packets.SetHealth
		if err := wp.ReadInto(&p); err != nil {
			return r.decodeError("SetHealth", err)
		}
		if r.player != nil {
			r.player.Health = float32(p.Health)
			r.player.Hunger = int32(p.Food)
		}
		dead := p.Health <= 0
		if dead && !r.wasDead {
			r.emit(Event{Kind: EventDeath})
		}
		r.wasDead = dead
		return nil

	case (&packets.ChunkBatchStart{}).ID():
		// No fields to decode; batch timing is owned by the tick package:
		// the client package relays this event to Scheduler.OnChunkBatchStart.
		r.emit(Event{Kind: EventPacket, Packet: &packets.ChunkBatchStart{}})
		return nil

	case (&packets.ChunkBatchFinished{}).ID():
		var p packets.ChunkBatchFinished
		if err := wp.ReadInto(&p); err != nil {
			return r.decodeError("ChunkBatchFinished", err)
		}
		r.emit(Event{Kind: EventPacket, Packet: &p})
		return nil

	case (&packets.Disconnect{}).ID():
		var p packets.Disconnect
		if err := wp.ReadInto(&p); err != nil {
			return r.decodeError("Disconnect", err)
		}
		return mcerr.New(mcerr.Disconnect, string(p.Reason), nil)

	case (&packets.StartConfiguration{}).ID():
		// Re-entering configuration mid-game (e.g. a resource-pack reload)
		// is not modeled as a distinct state transition here; spec §1 scopes
		// the client to a single play session per connection, so this is
		// surfaced as a disconnect rather than looping the state machine.
		return mcerr.New(mcerr.Disconnect, "server requested re-entry to configuration", nil)

	default:
		// Unhandled Play-state packets (entity spawns/metadata, chunk data,
		// inventory, etc.) are out of scope per spec §1 and silently
		// ignored rather than treated as an error.
		return nil
	}
}

func (r *Router) decodeError(name string, err error) error {
	wrapped := mcerr.New(mcerr.ReadPacket, fmt.Sprintf("decode %s", name), err)
	if r.Options.PanicOnDecodeError {
		panic(wrapped)
	}
	r.Logger.Printf("%v", wrapped)
	return nil
}
