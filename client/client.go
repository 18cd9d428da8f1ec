// Package client is the public surface spec §6 describes: join a server,
// write packets, read/mutate the local player's components, and receive
// an event stream — wiring conn's handshake/login/configuration pipeline,
// router's inbound dispatcher, and tick's 20 Hz scheduler into one handle
// per connection.
//
// Grounded on the teacher's top-level connection-handle shape (one struct
// owning the TCP connection plus a background read-loop goroutine, exposed
// through a small set of methods) generalized across four cooperating
// goroutines instead of one, per spec §5's scheduling model.
package client

import (
	"context"
	"log"
	"os"

	"github.com/go-mclib/botclient/chunkbatch"
	"github.com/go-mclib/botclient/codec"
	"github.com/go-mclib/botclient/conn"
	"github.com/go-mclib/botclient/ecs"
	"github.com/go-mclib/botclient/profile"
	"github.com/go-mclib/botclient/protocol"
	"github.com/go-mclib/botclient/protocol/packets"
	"github.com/go-mclib/botclient/router"
	"github.com/go-mclib/botclient/session"
	"github.com/go-mclib/botclient/tick"
	"github.com/go-mclib/botclient/transport"
)

// Account is the external credential source spec §6 names.
type Account = session.Account

// ProxyConfig is the SOCKS5 proxy option spec §6's configuration table
// names, re-exported from transport so callers never import it directly.
type ProxyConfig = transport.ProxyConfig

// ChatVisibility mirrors the three values the configuration packet's
// chat_visibility field recognizes.
type ChatVisibility int32

const (
	ChatVisibilityFull ChatVisibility = iota
	ChatVisibilitySystemOnly
	ChatVisibilityHidden
)

// MainHand mirrors the configuration packet's main_hand field.
type MainHand int32

const (
	MainHandLeft MainHand = iota
	MainHandRight
)

// Information is the full set of configuration options spec §6's table
// recognizes on connect, sent to the server as ClientInformation.
type Information struct {
	Locale               string
	ViewDistance         uint8
	ChatVisibility       ChatVisibility
	ChatColors           bool
	ModelCustomisation   uint8
	MainHand             MainHand
	TextFilteringEnabled bool
	AllowsListing        bool
}

// DefaultInformation matches vanilla's own client defaults.
func DefaultInformation() Information {
	return Information{
		Locale:        "en_us",
		ViewDistance:  10,
		ChatColors:    true,
		MainHand:      MainHandRight,
		AllowsListing: true,
	}
}

func (i Information) toPacket() *packets.ClientInformation {
	return &packets.ClientInformation{
		Locale:              codec.String(i.Locale),
		ViewDistance:        codec.Int8(i.ViewDistance),
		ChatMode:            codec.VarInt(i.ChatVisibility),
		ChatColors:          codec.Boolean(i.ChatColors),
		DisplayedSkinParts:  codec.Uint8(i.ModelCustomisation),
		MainHand:            codec.VarInt(i.MainHand),
		EnableTextFiltering: codec.Boolean(i.TextFilteringEnabled),
		AllowServerListings: codec.Boolean(i.AllowsListing),
		// ParticleStatus has no corresponding Information field (spec §6's
		// configuration-option table doesn't name it); vanilla's "all"
		// default (0) is always sent.
	}
}

// options collects everything Join/JoinWithProxy can be configured with.
type options struct {
	information   Information
	events        chan<- router.Event
	sessionClient *session.SessionServerClient
	routerOptions router.Options
}

// Option configures a Join call, functional-options style.
type Option func(*options)

// WithInformation sets the ClientInformation sent during configuration.
// Defaults to DefaultInformation() when not given.
func WithInformation(info Information) Option {
	return func(o *options) { o.information = info }
}

// WithEvents installs a channel Join sends Events on. Nil (the default)
// means events are dropped without blocking — see router.New and
// tick.New's own "events may be nil" contract.
func WithEvents(events chan<- router.Event) Option {
	return func(o *options) { o.events = events }
}

// WithSessionServerClient installs the session-server authenticator used
// during the encryption handshake. Nil (the default) skips authentication
// entirely, appropriate for offline-mode servers.
func WithSessionServerClient(c *session.SessionServerClient) Option {
	return func(o *options) { o.sessionClient = c }
}

// WithRouterOptions forwards router.Options (e.g. PanicOnDecodeError) to
// the inbound dispatcher.
func WithRouterOptions(opts router.Options) Option {
	return func(o *options) { o.routerOptions = opts }
}

// Client is one established connection's handle: the ECS world holding the
// local player entity, the shared Instance view, the chunk-batch
// estimator, the inbound router and outbound write queue, and the tick
// scheduler — everything spec §6's public surface operates on.
type Client struct {
	raw      *transport.RawConn
	world    *ecs.World
	instance *ecs.PartialInstance
	batch    *chunkbatch.Info
	outbound *router.Outbound
	router   *router.Router
	tick     *tick.Scheduler
	profile  *profile.Profile

	tabList *TabList
	logger  *log.Logger

	runErr chan error
}

// World returns the ECS world holding every entity this client knows
// about (spec §6's world()).
func (c *Client) World() *ecs.World { return c.world }

// PartialWorld returns this client's chunk-subscription view over the
// shared Instance (spec §6's partial_world()).
func (c *Client) PartialWorld() *ecs.PartialInstance { return c.instance }

// Join dials address, completes the handshake/login/configuration pipeline
// as account, and starts the inbound router and tick scheduler. It returns
// once configuration has finished and the connection is in Play; GameJoin
// is awaited afterwards by the router in the background (see LoggedIn).
func Join(ctx context.Context, address string, account Account, opts ...Option) (*Client, error) {
	return join(ctx, address, account, nil, opts)
}

// JoinWithProxy is Join dialed through a SOCKS5 proxy (spec §6's proxy
// option).
func JoinWithProxy(ctx context.Context, address string, account Account, proxy ProxyConfig, opts ...Option) (*Client, error) {
	return join(ctx, address, account, &proxy, opts)
}

func join(ctx context.Context, address string, account Account, proxy *ProxyConfig, optFns []Option) (*Client, error) {
	o := options{information: DefaultInformation()}
	for _, fn := range optFns {
		fn(&o)
	}

	var result *conn.Result
	var err error
	if proxy != nil {
		result, err = conn.EstablishWithProxy(ctx, address, *proxy, account, o.sessionClient, o.information.toPacket())
	} else {
		result, err = conn.Establish(ctx, address, account, o.sessionClient, o.information.toPacket())
	}
	if err != nil {
		return nil, err
	}

	c := &Client{
		raw:      result.Raw,
		world:    ecs.NewWorld(),
		instance: ecs.NewPartialInstance(ecs.NewInstance(), int32(o.information.ViewDistance)),
		batch:    chunkbatch.New(),
		profile:  result.Profile,
		tabList:  newTabList(),
		logger:   log.New(os.Stdout, "[client] ", log.LstdFlags),
		runErr:   make(chan error, 2),
	}
	internal := make(chan router.Event, 64)
	c.outbound = router.NewOutbound(c.raw)
	c.router = router.New(c.raw, c.world, c.instance, c.batch, c.outbound, internal, o.routerOptions)
	c.tick = tick.New(c.world, c.outbound, c.batch, o.events)

	go func() { _ = c.outbound.Run() }()
	go c.pump(internal, o.events)
	go func() {
		c.runErr <- c.router.Run()
		close(internal)
	}()
	go c.tick.Run()

	return c, nil
}

// pump relays router events this client owns bookkeeping for (tab list,
// the tick scheduler's player handle) without requiring the caller's own
// event consumer to also do that wiring. It drains internal until the
// router closes it on exit.
func (c *Client) pump(internal <-chan router.Event, events chan<- router.Event) {
	for e := range internal {
		switch e.Kind {
		case router.EventLogin:
			c.tick.SetPlayer(mustGet(c.world, e.PlayerEntityID))
		case router.EventAddPlayer, router.EventUpdatePlayer:
			if p, ok := e.Packet.(*packets.PlayerInfoUpdate); ok {
				c.tabList.apply(p)
			}
		case router.EventRemovePlayer:
			if p, ok := e.Packet.(*packets.PlayerInfoRemove); ok {
				c.tabList.remove(p)
			}
		case router.EventPacket:
			switch p := e.Packet.(type) {
			case *packets.ChunkBatchStart:
				c.tick.OnChunkBatchStart()
			case *packets.ChunkBatchFinished:
				if err := c.tick.OnChunkBatchFinished(int(p.BatchSize)); err != nil {
					c.logger.Printf("chunk batch accounting: %v", err)
				}
			}
		}
		if events != nil {
			select {
			case events <- e:
			default:
				c.logger.Printf("caller event channel full, dropping %s", e.Kind)
			}
		}
	}
}

func mustGet(w *ecs.World, id ecs.EntityID) *ecs.Entity {
	e, _ := w.Get(id)
	return e
}

// WritePacket enqueues p on the outbound write queue (spec §6's
// write_packet operation).
func (c *Client) WritePacket(p protocol.Packet) error {
	return c.outbound.Enqueue(p)
}

// Disconnect ends the connection: the tick scheduler stops, the outbound
// queue closes (failing the inbound task's next write and the tick task's
// next send per spec §5's cancellation model), and the socket closes when
// the last half is dropped.
func (c *Client) Disconnect() error {
	c.tick.Stop()
	c.outbound.Close()
	return c.raw.Close()
}

// LoggedIn reports whether the local player entity has been spawned (i.e.
// GameJoin has been observed).
func (c *Client) LoggedIn() bool {
	return c.tick.Player() != nil
}

// Player returns the local player entity, or nil before LoggedIn.
func (c *Client) Player() *ecs.Entity {
	return c.tick.Player()
}

// SetClientInformation re-sends ClientInformation mid-session (e.g. after
// the user changes their render distance).
func (c *Client) SetClientInformation(info Information) error {
	return c.WritePacket(info.toPacket())
}

// TabList returns the client's view of the server's player list, built
// from PlayerInfoUpdate/PlayerInfoRemove.
func (c *Client) TabList() *TabList { return c.tabList }

// Position returns the local player's position, or the zero Position
// before LoggedIn.
func (c *Client) Position() ecs.Position {
	if e := c.Player(); e != nil {
		return e.Position
	}
	return ecs.Position{}
}

// EyePosition returns the local player's eye-height-adjusted position.
func (c *Client) EyePosition() ecs.Position {
	if e := c.Player(); e != nil {
		return e.EyePosition()
	}
	return ecs.Position{}
}

// Health returns the local player's last-known health.
func (c *Client) Health() float32 {
	if e := c.Player(); e != nil {
		return e.Health
	}
	return 0
}

// Hunger returns the local player's last-known food level.
func (c *Client) Hunger() int32 {
	if e := c.Player(); e != nil {
		return e.Hunger
	}
	return 0
}

// Username returns the authenticated account's username.
func (c *Client) Username() string { return c.profile.Username() }

// UUID returns the authenticated account's profile UUID.
func (c *Client) UUID() codec.UUID { return c.profile.UUID() }

// Profile returns the full GameProfile (uuid, username, signed properties)
// the login phase resolved.
func (c *Client) Profile() *profile.Profile { return c.profile }

// Err returns the error that ended the router's Run loop, once the
// connection has actually ended; it never blocks.
func (c *Client) Err() error {
	select {
	case err := <-c.runErr:
		return err
	default:
		return nil
	}
}
