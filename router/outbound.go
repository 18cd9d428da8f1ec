package router

import (
	"sync/atomic"

	"github.com/go-mclib/botclient/mcerr"
	"github.com/go-mclib/botclient/protocol"
	"github.com/go-mclib/botclient/transport"
)

// outboundQueueDepth bounds how many packets may be pending a write before
// Enqueue blocks; any caller enqueuing faster than the socket can drain has
// a bug elsewhere, so this is generous rather than tuned.
const outboundQueueDepth = 256

// Outbound is the MPSC write side spec §5 describes: any number of
// goroutines (command handlers, the tick scheduler, the public client API)
// may call Enqueue concurrently, and a single consumer goroutine drains the
// channel into the RawConn's write half in enqueue order.
type Outbound struct {
	raw    *transport.RawConn
	queue  chan protocol.Packet
	done   chan struct{}
	errCh  chan error
	closed atomic.Bool
}

// NewOutbound builds an Outbound over raw. Run must be started in its own
// goroutine before Enqueue is called with a queue deep enough to drain.
func NewOutbound(raw *transport.RawConn) *Outbound {
	return &Outbound{
		raw:   raw,
		queue: make(chan protocol.Packet, outboundQueueDepth),
		done:  make(chan struct{}),
		errCh: make(chan error, 1),
	}
}

// Enqueue submits p for writing. It blocks if the queue is full rather than
// drop a packet; callers on a suspending call path should watch ctx
// cancellation themselves since Enqueue does not take one (spec §5: the
// write half never suspends the caller on socket I/O, only on queue depth).
func (o *Outbound) Enqueue(p protocol.Packet) error {
	if o.closed.Load() {
		return mcerr.New(mcerr.Io, "enqueue after outbound closed", nil)
	}
	select {
	case o.queue <- p:
		return nil
	case <-o.done:
		return mcerr.New(mcerr.Io, "enqueue after outbound closed", nil)
	}
}

// Run drains the queue into raw.WritePacket until Close is called or a
// write fails. It is meant to run in its own goroutine for the lifetime of
// the connection.
func (o *Outbound) Run() error {
	for {
		select {
		case p := <-o.queue:
			if err := o.raw.WritePacket(p); err != nil {
				o.errCh <- err
				return err
			}
		case <-o.done:
			return nil
		}
	}
}

// Close stops Run and prevents further enqueues.
func (o *Outbound) Close() {
	o.closed.Store(true)
	select {
	case <-o.done:
	default:
		close(o.done)
	}
}

// Err returns the error that stopped Run, if Run exited because a write
// failed rather than because Close was called.
func (o *Outbound) Err() error {
	select {
	case err := <-o.errCh:
		return err
	default:
		return nil
	}
}
