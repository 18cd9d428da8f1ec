package client

import (
	"sync"

	"github.com/go-mclib/botclient/codec"
	"github.com/go-mclib/botclient/protocol/packets"
)

// TabListEntry is one player's row in the server's player list.
type TabListEntry struct {
	UUID     codec.UUID
	Name     string
	GameMode int32
	Listed   bool
	Latency  int32
}

// TabList is the client's view of the server's player list, built from
// PlayerInfoUpdate (add/update) and PlayerInfoRemove events — the "tab
// list" accessor spec §6 names.
type TabList struct {
	mu      sync.Mutex
	entries map[codec.UUID]TabListEntry
}

func newTabList() *TabList {
	return &TabList{entries: make(map[codec.UUID]TabListEntry)}
}

func (t *TabList) apply(p *packets.PlayerInfoUpdate) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range p.Entries {
		entry := t.entries[e.UUID]
		entry.UUID = e.UUID
		if p.Actions&0x01 != 0 { // add player
			entry.Name = string(e.Name)
		}
		if p.Actions&0x04 != 0 { // update game mode
			entry.GameMode = int32(e.GameMode)
		}
		if p.Actions&0x08 != 0 { // update listed
			entry.Listed = bool(e.Listed)
		}
		if p.Actions&0x10 != 0 { // update latency
			entry.Latency = int32(e.Latency)
		}
		t.entries[e.UUID] = entry
	}
}

func (t *TabList) remove(p *packets.PlayerInfoRemove) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range p.UUIDs {
		delete(t.entries, id)
	}
}

// Get returns the tab-list entry for uuid, if present.
func (t *TabList) Get(uuid codec.UUID) (TabListEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[uuid]
	return e, ok
}

// Each calls fn for every current tab-list entry under the list's lock;
// fn must not call back into TabList.
func (t *TabList) Each(fn func(TabListEntry)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.entries {
		fn(e)
	}
}

// Len returns the number of tab-list entries currently tracked.
func (t *TabList) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
