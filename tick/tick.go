// Package tick implements the 20 Hz simulation scheduler spec §4.5
// describes: a fixed-rate task that integrates physics, emits the
// smallest-footprint movement packet, advances mining/attack cooldowns,
// and reports chunk-batch throughput back to the server.
//
// Grounded on original_source/azalea-client/src/client.rs's
// tick_run_schedule_loop/run_schedule_loop pair: a 50ms interval with
// burst-catch-up (explicitly flagged there as a TODO azalea never
// implemented — "Minecraft bursts up to 10 ticks and then skips, we
// should too" — which this package does implement, per spec §4.5), plus
// an external signal channel to force a run outside the regular cadence.
package tick

import (
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/go-mclib/botclient/chunkbatch"
	"github.com/go-mclib/botclient/codec"
	"github.com/go-mclib/botclient/ecs"
	"github.com/go-mclib/botclient/protocol/packets"
	"github.com/go-mclib/botclient/router"
)

const (
	// Interval is the 20 Hz tick cadence spec §4.5 requires.
	Interval = 50 * time.Millisecond

	// MaxBurstTicks caps how many catch-up ticks run_schedule_loop runs
	// after falling behind before it gives up and resynchronizes to now,
	// matching vanilla's behavior that azalea's TODO names but never wires up.
	MaxBurstTicks = 10

	// keepPositionEveryTicks forces an unconditional position resend even
	// with no movement, so the server's anti-cheat never sees a client go
	// silent for multiple seconds (spec §4.5: "every 20 ticks unconditionally").
	keepPositionEveryTicks = 20

	// positionEpsilon and rotationEpsilonDeg are the smallest deltas worth
	// spending a packet on; below these the last-sent values are left
	// untouched until they accumulate past the threshold.
	positionEpsilon    = 0.03
	rotationEpsilonDeg = 1.0

	// gravityPerTick approximates vanilla's per-tick downward acceleration
	// in blocks/tick^2. Collision resolution against real chunk data is out
	// of scope (spec §1 treats chunk/world storage as an external
	// collaborator), so this never actually lands the player on a block —
	// it only keeps Velocity.Y consistent with falling while airborne.
	gravityPerTick = 0.08
)

// Scheduler drives the tick loop for one connection's local player.
type Scheduler struct {
	World    *ecs.World
	Outbound *router.Outbound
	Batch    *chunkbatch.Info
	Events   chan<- router.Event
	Logger   *log.Logger

	player atomic.Pointer[ecs.Entity]

	forceRun chan struct{}
	stop     chan struct{}

	batching   bool
	batchStart time.Time
}

// New builds a Scheduler. Call SetPlayer once the local player entity is
// known (after GameJoin) and Run in its own goroutine.
func New(world *ecs.World, outbound *router.Outbound, batch *chunkbatch.Info, events chan<- router.Event) *Scheduler {
	return &Scheduler{
		World:    world,
		Outbound: outbound,
		Batch:    batch,
		Events:   events,
		Logger:   log.New(os.Stdout, "[tick] ", log.LstdFlags),
		forceRun: make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
}

// SetPlayer installs the local player entity the tick systems act on.
func (s *Scheduler) SetPlayer(e *ecs.Entity) { s.player.Store(e) }

// Player returns the currently installed local player entity, or nil
// before SetPlayer has been called.
func (s *Scheduler) Player() *ecs.Entity { return s.player.Load() }

// ForceRun requests an immediate out-of-band tick, per spec §4.5's
// "signal channel exists so external code can force an immediate
// schedule run outside the 50ms cadence." Non-blocking: a pending
// request already queued is enough, so a second one is dropped.
func (s *Scheduler) ForceRun() {
	select {
	case s.forceRun <- struct{}{}:
	default:
	}
}

// Stop ends Run.
func (s *Scheduler) Stop() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
}

// OnChunkBatchStart marks the beginning of a chunk batch's timing window;
// the client package calls this when the router emits ChunkBatchStart.
func (s *Scheduler) OnChunkBatchStart() {
	s.batching = true
	s.batchStart = time.Now()
}

// OnChunkBatchFinished folds a completed batch into the estimator and
// reports the new desired rate back to the server, per spec §4.5/§4.7.
func (s *Scheduler) OnChunkBatchFinished(size int) error {
	if !s.batching {
		return nil
	}
	durationMs := float64(time.Since(s.batchStart).Microseconds()) / 1000
	s.Batch.BatchFinished(size, durationMs)
	s.batching = false

	return s.Outbound.Enqueue(&packets.ChunkBatchReceived{
		ChunksPerTick: codec.Float32(s.Batch.DesiredChunksPerTick()),
	})
}

// Run blocks, firing Tick every Interval (with up-to-MaxBurstTicks
// catch-up on a stall) or immediately on a ForceRun signal, until Stop is
// called. It is meant to run in its own goroutine for the connection's
// lifetime.
func (s *Scheduler) Run() {
	ticker := time.NewTicker(Interval)
	defer ticker.Stop()

	lastTick := time.Now()

	runCatchUp := func() {
		elapsed := time.Since(lastTick)
		n := int(elapsed / Interval)
		if n <= 0 {
			return
		}
		if n > MaxBurstTicks {
			n = MaxBurstTicks
			lastTick = time.Now()
		} else {
			lastTick = lastTick.Add(time.Duration(n) * Interval)
		}
		for i := 0; i < n; i++ {
			s.Tick()
		}
	}

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			runCatchUp()
		case <-s.forceRun:
			s.Tick()
		}
	}
}

// Tick runs exactly one game tick's systems in spec §4.5's order: physics,
// movement emission, cooldown progression. Chunk-batch accounting is
// event-driven (OnChunkBatchStart/Finished) rather than per-tick.
func (s *Scheduler) Tick() {
	e := s.player.Load()
	if e == nil {
		s.emit()
		return
	}

	s.integratePhysics(e)
	if err := s.emitMovement(e); err != nil {
		s.Logger.Printf("emit movement: %v", err)
	}
	s.progressCooldowns(e)
	s.emit()
}

func (s *Scheduler) emit() {
	if s.Events == nil {
		return
	}
	select {
	case s.Events <- router.Event{Kind: router.EventTick}:
	default:
	}
}

// integratePhysics applies vanilla-shaped gravity and integrates position
// from velocity. There is no collision resolution against real chunk data
// (spec §1 scopes world storage out), so OnGround only ever reflects what
// the server's last PlayerPosition/teleport told us.
func (s *Scheduler) integratePhysics(e *ecs.Entity) {
	if !e.OnGround {
		e.Velocity.Y -= gravityPerTick
	}
	e.Position.X += e.Velocity.X
	e.Position.Y += e.Velocity.Y
	e.Position.Z += e.Velocity.Z
}

// emitMovement compares the entity's current position/rotation against
// what was last sent and emits the smallest-footprint movement packet
// that covers the change, per spec §4.5. A send is forced every
// keepPositionEveryTicks ticks regardless of whether anything moved; with
// no position or rotation change that send is MovePlayerStatusOnly.
func (s *Scheduler) emitMovement(e *ecs.Entity) error {
	sc := &e.Scratch
	sc.TicksSinceSend++

	movedPos := squaredDistance(e.Position, sc.LastSentPosition) > positionEpsilon*positionEpsilon
	movedRot := angleDelta(e.Rotation, sc.LastSentRotation) > rotationEpsilonDeg
	forceSend := sc.TicksSinceSend >= keepPositionEveryTicks

	if !movedPos && !movedRot && !forceSend {
		return nil
	}

	var err error
	switch {
	case movedPos && movedRot:
		err = s.Outbound.Enqueue(&packets.MovePlayerPosRot{
			X: codec.Float64(e.Position.X), Y: codec.Float64(e.Position.Y), Z: codec.Float64(e.Position.Z),
			Yaw: codec.Float32(e.Rotation.Yaw), Pitch: codec.Float32(e.Rotation.Pitch),
			OnGround: codec.Boolean(e.OnGround),
		})
	case movedPos:
		err = s.Outbound.Enqueue(&packets.MovePlayerPos{
			X: codec.Float64(e.Position.X), Y: codec.Float64(e.Position.Y), Z: codec.Float64(e.Position.Z),
			OnGround: codec.Boolean(e.OnGround),
		})
	case movedRot:
		err = s.Outbound.Enqueue(&packets.MovePlayerRot{
			Yaw: codec.Float32(e.Rotation.Yaw), Pitch: codec.Float32(e.Rotation.Pitch),
			OnGround: codec.Boolean(e.OnGround),
		})
	default:
		err = s.Outbound.Enqueue(&packets.MovePlayerStatusOnly{OnGround: codec.Boolean(e.OnGround)})
	}
	if err != nil {
		return err
	}

	sc.LastSentPosition = e.Position
	sc.LastSentRotation = e.Rotation
	sc.LastSentOnGround = e.OnGround
	sc.TicksSinceSend = 0
	return nil
}

// progressCooldowns advances mining/attack scratch state. Full mining
// progress tracking (block-breaking animation, tool speed) is out of
// scope per spec §1's item/block decoder exclusion; this only clears a
// finished attack/mining state once its target is gone, which is the
// part the scheduler itself owns.
func (s *Scheduler) progressCooldowns(e *ecs.Entity) {
	if e.Scratch.Attacking {
		if _, ok := s.World.Get(e.Scratch.AttackTargetID); !ok {
			e.Scratch.Attacking = false
		}
	}
}

func squaredDistance(a, b ecs.Position) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return dx*dx + dy*dy + dz*dz
}

func angleDelta(a, b ecs.Rotation) float64 {
	dy := float64(a.Yaw - b.Yaw)
	dp := float64(a.Pitch - b.Pitch)
	if dy < 0 {
		dy = -dy
	}
	if dp < 0 {
		dp = -dp
	}
	if dy > dp {
		return dy
	}
	return dp
}
