package tick_test

import (
	"net"
	"testing"

	"github.com/go-mclib/botclient/chunkbatch"
	"github.com/go-mclib/botclient/ecs"
	"github.com/go-mclib/botclient/protocol"
	"github.com/go-mclib/botclient/protocol/packets"
	"github.com/go-mclib/botclient/router"
	"github.com/go-mclib/botclient/tick"
	"github.com/go-mclib/botclient/transport"
)

// keepPositionEveryTicks mirrors the package's unexported cadence constant;
// duplicated here since tests live in the external tick_test package.
const keepPositionEveryTicks = 20

func newTestScheduler(t *testing.T) (*tick.Scheduler, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() { _ = server.Close(); _ = client.Close() })

	raw := transport.NewRawConn(client)
	out := router.NewOutbound(raw)
	go func() { _ = out.Run() }()
	t.Cleanup(out.Close)

	world := ecs.NewWorld()
	return tick.New(world, out, chunkbatch.New(), nil), server
}

func readFrame(t *testing.T, conn net.Conn, into protocol.Packet) {
	t.Helper()
	wp, err := protocol.ReadWirePacketFrom(conn, -1)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if err := wp.ReadInto(into); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
}

func TestSchedulerHasNoPlayerUntilSet(t *testing.T) {
	s, _ := newTestScheduler(t)
	if s.Player() != nil {
		t.Fatal("expected no player before SetPlayer")
	}
	player := &ecs.Entity{ID: 1}
	s.SetPlayer(player)
	if s.Player() != player {
		t.Fatal("expected Player() to return the entity passed to SetPlayer")
	}
}

func TestTickForcesKeepPositionAfterThreshold(t *testing.T) {
	s, server := newTestScheduler(t)
	player := &ecs.Entity{ID: 1, OnGround: true}
	s.SetPlayer(player)

	// Stationary and grounded: no packet should be produced for the first
	// keepPositionEveryTicks-1 ticks. Outbound.Enqueue does not block here
	// (its queue holds 256 packets), so a packet sent too early would be the
	// first frame read below and fail to decode as MovePlayerStatusOnly.
	for i := 0; i < keepPositionEveryTicks-1; i++ {
		s.Tick()
	}

	done := make(chan struct{})
	go func() {
		s.Tick() // the threshold tick: forces an unconditional resend
		close(done)
	}()

	var got packets.MovePlayerStatusOnly
	readFrame(t, server, &got)
	<-done

	if !bool(got.OnGround) {
		t.Fatalf("expected forced keep-position packet to carry OnGround=true")
	}
}

func TestTickEmitsPositionOnMovement(t *testing.T) {
	s, server := newTestScheduler(t)
	player := &ecs.Entity{ID: 1, OnGround: true}
	player.Velocity = ecs.Velocity{X: 1}
	s.SetPlayer(player)

	done := make(chan struct{})
	go func() {
		s.Tick()
		close(done)
	}()

	var got packets.MovePlayerPos
	readFrame(t, server, &got)
	<-done

	if float64(got.X) != 1 {
		t.Fatalf("expected X=1 after one tick of velocity 1, got %v", got.X)
	}
}

func TestChunkBatchFinishedWithNoBatchIsNoop(t *testing.T) {
	s, _ := newTestScheduler(t)
	if err := s.OnChunkBatchFinished(5); err != nil {
		t.Fatalf("unexpected error finishing with no batch open: %v", err)
	}
}

func TestChunkBatchAccountingReportsRate(t *testing.T) {
	s, server := newTestScheduler(t)

	s.OnChunkBatchStart()
	errCh := make(chan error, 1)
	go func() { errCh <- s.OnChunkBatchFinished(10) }()

	var got packets.ChunkBatchReceived
	readFrame(t, server, &got)

	if err := <-errCh; err != nil {
		t.Fatalf("OnChunkBatchFinished: %v", err)
	}
	if got.ChunksPerTick <= 0 {
		t.Fatalf("expected a positive desired chunks-per-tick, got %v", got.ChunksPerTick)
	}
}

func TestForceRunTriggersImmediateTick(t *testing.T) {
	s, server := newTestScheduler(t)
	player := &ecs.Entity{ID: 1, OnGround: true}
	player.Velocity = ecs.Velocity{X: 2}
	s.SetPlayer(player)

	go s.Run()
	t.Cleanup(s.Stop)

	s.ForceRun()

	var got packets.MovePlayerPos
	readFrame(t, server, &got)
	if float64(got.X) != 2 {
		t.Fatalf("expected X=2 from forced tick, got %v", got.X)
	}
}
