// Command mclib-join joins a server as an offline-mode account and logs the
// event stream until interrupted, demonstrating the client package's public
// surface end to end.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/go-mclib/botclient/client"
	"github.com/go-mclib/botclient/router"
	"github.com/go-mclib/botclient/session"
)

func main() {
	address := flag.String("address", "localhost:25565", "server address (host:port)")
	username := flag.String("username", "mclib", "offline-mode username")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	events := make(chan router.Event, 64)
	account := session.NewOfflineAccount(*username)

	c, err := client.Join(ctx, *address, account, client.WithEvents(events))
	if err != nil {
		log.Fatalf("join %s: %v", *address, err)
	}
	defer c.Disconnect()

	log.Printf("connected to %s as %s", *address, c.Username())

	for {
		select {
		case ev := <-events:
			switch ev.Kind {
			case router.EventLogin:
				log.Printf("joined: entity id %d", ev.PlayerEntityID)
			case router.EventDeath:
				log.Printf("died at %+v", c.Position())
			case router.EventDisconnect:
				log.Printf("disconnected: %s", ev.DisconnectReason)
				return
			}
		case <-ctx.Done():
			log.Print("interrupted, disconnecting")
			return
		}
	}
}
