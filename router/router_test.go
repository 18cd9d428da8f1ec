package router_test

import (
	"net"
	"testing"
	"time"

	"github.com/go-mclib/botclient/chunkbatch"
	"github.com/go-mclib/botclient/ecs"
	"github.com/go-mclib/botclient/protocol"
	"github.com/go-mclib/botclient/protocol/packets"
	"github.com/go-mclib/botclient/router"
	"github.com/go-mclib/botclient/transport"
)

// writeWire encodes and writes p onto conn uncompressed, as the server
// side of the pipe would.
func writeWire(t *testing.T, conn net.Conn, p protocol.Packet) {
	t.Helper()
	wp, err := protocol.ToWire(p)
	if err != nil {
		t.Fatalf("ToWire: %v", err)
	}
	if err := wp.WriteTo(conn, -1); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
}

func newTestRouter(t *testing.T) (*router.Router, net.Conn, chan router.Event) {
	t.Helper()
	serverSide, clientSide := net.Pipe()
	t.Cleanup(func() { _ = serverSide.Close(); _ = clientSide.Close() })

	raw := transport.NewRawConn(clientSide)
	world := ecs.NewWorld()
	instance := ecs.NewPartialInstance(ecs.NewInstance(), 8)
	outbound := router.NewOutbound(raw)
	go func() { _ = outbound.Run() }()
	t.Cleanup(outbound.Close)

	events := make(chan router.Event, 16)
	r := router.New(raw, world, instance, chunkbatch.New(), outbound, events, router.Options{})
	return r, serverSide, events
}

func TestRouterAwaitsGameJoinAndSpawnsPlayer(t *testing.T) {
	r, server, events := newTestRouter(t)

	done := make(chan error, 1)
	go func() { done <- r.Run() }()

	writeWire(t, server, &packets.GameJoin{
		EntityID: 42,
		GameMode: 0,
	})

	select {
	case ev := <-events:
		if ev.Kind != router.EventLogin {
			t.Fatalf("expected EventLogin, got %s", ev.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for login event")
	}

	if r.World.Len() != 1 {
		t.Fatalf("expected 1 entity in world, got %d", r.World.Len())
	}
	if r.Player() == nil {
		t.Fatal("expected Player() to be populated after GameJoin")
	}

	// Clean up: close the server side so Run's next ReadPacket fails and
	// the goroutine exits instead of leaking past the test.
	_ = server.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not exit after server close")
	}
}

func TestRouterEchoesKeepAlive(t *testing.T) {
	r, server, _ := newTestRouter(t)

	done := make(chan error, 1)
	go func() { done <- r.Run() }()

	writeWire(t, server, &packets.GameJoin{EntityID: 1})

	ka := packets.NewClientboundKeepAlivePlay()
	ka.KeepAliveID = 7
	writeWire(t, server, ka)

	wp, err := protocol.ReadWirePacketFrom(server, -1)
	if err != nil {
		t.Fatalf("read echoed keepalive: %v", err)
	}
	var echoed packets.KeepAlivePlay
	if err := wp.ReadInto(&echoed); err != nil {
		t.Fatalf("decode echoed keepalive: %v", err)
	}
	if echoed.KeepAliveID != 7 {
		t.Fatalf("expected echoed id 7, got %d", echoed.KeepAliveID)
	}

	_ = server.Close()
	<-done
}

func TestRouterTeleportRoundTrip(t *testing.T) {
	r, server, _ := newTestRouter(t)

	done := make(chan error, 1)
	go func() { done <- r.Run() }()

	writeWire(t, server, &packets.GameJoin{EntityID: 1})
	writeWire(t, server, &packets.PlayerPosition{TeleportID: 99, X: 1, Y: 2, Z: 3})

	wp, err := protocol.ReadWirePacketFrom(server, -1)
	if err != nil {
		t.Fatalf("read accept teleportation: %v", err)
	}
	var accept packets.AcceptTeleportation
	if err := wp.ReadInto(&accept); err != nil {
		t.Fatalf("decode accept teleportation: %v", err)
	}
	if accept.TeleportID != 99 {
		t.Fatalf("expected teleport id 99, got %d", accept.TeleportID)
	}
	if r.Player().Position.X != 1 || r.Player().Position.Y != 2 || r.Player().Position.Z != 3 {
		t.Fatalf("player position not updated: %+v", r.Player().Position)
	}

	_ = server.Close()
	<-done
}

func TestRouterDisconnectEndsRun(t *testing.T) {
	r, server, events := newTestRouter(t)

	done := make(chan error, 1)
	go func() { done <- r.Run() }()

	writeWire(t, server, &packets.GameJoin{EntityID: 1})
	<-events // login event

	writeWire(t, server, &packets.Disconnect{Reason: `{"text":"kicked"}`})

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected Run to return an error on disconnect")
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not exit after Disconnect")
	}

	select {
	case ev := <-events:
		if ev.Kind != router.EventDisconnect {
			t.Fatalf("expected EventDisconnect, got %s", ev.Kind)
		}
	default:
		t.Fatal("expected a disconnect event to have been emitted")
	}
}
