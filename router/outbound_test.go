package router_test

import (
	"net"
	"testing"
	"time"

	"github.com/go-mclib/botclient/protocol"
	"github.com/go-mclib/botclient/protocol/packets"
	"github.com/go-mclib/botclient/router"
	"github.com/go-mclib/botclient/transport"
)

func TestOutboundDrainsInOrder(t *testing.T) {
	server, client := net.Pipe()
	defer func() { _ = server.Close(); _ = client.Close() }()

	raw := transport.NewRawConn(client)
	out := router.NewOutbound(raw)
	go func() { _ = out.Run() }()
	defer out.Close()

	ka1 := packets.NewServerboundKeepAlivePlay()
	ka1.KeepAliveID = 1
	ka2 := packets.NewServerboundKeepAlivePlay()
	ka2.KeepAliveID = 2

	if err := out.Enqueue(ka1); err != nil {
		t.Fatalf("enqueue 1: %v", err)
	}
	if err := out.Enqueue(ka2); err != nil {
		t.Fatalf("enqueue 2: %v", err)
	}

	for _, want := range []int64{1, 2} {
		wp, err := protocol.ReadWirePacketFrom(server, -1)
		if err != nil {
			t.Fatalf("read frame: %v", err)
		}
		var got packets.KeepAlivePlay
		if err := wp.ReadInto(&got); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		if int64(got.KeepAliveID) != want {
			t.Fatalf("expected keep-alive id %d, got %d", want, got.KeepAliveID)
		}
	}
}

func TestOutboundEnqueueAfterCloseFails(t *testing.T) {
	server, client := net.Pipe()
	defer func() { _ = server.Close(); _ = client.Close() }()

	raw := transport.NewRawConn(client)
	out := router.NewOutbound(raw)
	go func() { _ = out.Run() }()
	out.Close()

	// Give Run a moment to observe the close; Enqueue must not block forever.
	done := make(chan error, 1)
	go func() { done <- out.Enqueue(&packets.AcceptTeleportation{TeleportID: 1}) }()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected Enqueue to fail after Close")
		}
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked after Close")
	}
}
