package router

import (
	"github.com/go-mclib/botclient/ecs"
	"github.com/go-mclib/botclient/protocol"
)

// EventKind tags the variant of Event, matching spec §6's "Events emitted"
// list. Router constructs Login (on GameJoin) and the packet-routing subset
// (Packet/AddPlayer/RemovePlayer/UpdatePlayer/Death/KeepAlive/Disconnect);
// the tick package constructs Tick. Init, ChatSystem and ChatPlayer are
// defined but never emitted. The client and tick packages import router to
// reuse this one type rather than define their own.
type EventKind int

const (
	EventInit EventKind = iota
	EventLogin
	EventChatSystem
	EventChatPlayer
	EventTick
	EventPacket
	EventAddPlayer
	EventRemovePlayer
	EventUpdatePlayer
	EventDeath
	EventKeepAlive
	EventDisconnect
)

func (k EventKind) String() string {
	switch k {
	case EventInit:
		return "init"
	case EventLogin:
		return "login"
	case EventChatSystem:
		return "chat_system"
	case EventChatPlayer:
		return "chat_player"
	case EventTick:
		return "tick"
	case EventPacket:
		return "packet"
	case EventAddPlayer:
		return "add_player"
	case EventRemovePlayer:
		return "remove_player"
	case EventUpdatePlayer:
		return "update_player"
	case EventDeath:
		return "death"
	case EventKeepAlive:
		return "keep_alive"
	case EventDisconnect:
		return "disconnect"
	default:
		return "unknown"
	}
}

// Event is the tagged union spec §6 describes, flattened into one struct
// since Go has no sum types; only the fields relevant to Kind are set.
type Event struct {
	Kind EventKind

	ChatMessage string
	ChatSender  ecs.EntityID

	Packet protocol.Packet

	PlayerEntityID ecs.EntityID

	KeepAliveID int64

	DisconnectReason string
}
