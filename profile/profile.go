// Package profile models a Minecraft GameProfile: a UUID, a username, and a
// signed property set. Property maps are shared across many entity
// representations and are exposed as immutable snapshots — see Snapshot.
package profile

import (
	"sync/atomic"

	"github.com/go-mclib/botclient/codec"
)

// Property is a single signed profile property (e.g. "textures").
type Property struct {
	Value     string
	Signature *string // nil if unsigned
}

// Snapshot is an immutable view over a profile's property set. Multiple
// Profile values may share the same Snapshot; a write rebuilds a new one
// rather than mutating in place.
type Snapshot struct {
	properties map[string]Property
}

// Get returns the named property and whether it is present.
func (s *Snapshot) Get(name string) (Property, bool) {
	if s == nil {
		return Property{}, false
	}
	p, ok := s.properties[name]
	return p, ok
}

// Len returns the number of properties in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.properties)
}

// Range calls fn for every property in the snapshot. fn must not mutate.
func (s *Snapshot) Range(fn func(name string, p Property)) {
	if s == nil {
		return
	}
	for name, p := range s.properties {
		fn(name, p)
	}
}

func emptySnapshot() *Snapshot {
	return &Snapshot{properties: map[string]Property{}}
}

// Profile is the client-side representation of a GameProfile. UUID is set
// exactly once per session (at login) and never mutated afterward; the
// property snapshot may be replaced wholesale via SetProperties.
type Profile struct {
	uuid     codec.UUID
	username string
	snapshot atomic.Pointer[Snapshot]
}

// New builds a Profile with an empty property snapshot.
func New(uuid codec.UUID, username string) *Profile {
	p := &Profile{uuid: uuid, username: username}
	p.snapshot.Store(emptySnapshot())
	return p
}

// FromWire builds a Profile from the wire-format GameProfile decoded off a
// login-success or player-info packet.
func FromWire(w codec.GameProfile) *Profile {
	p := New(w.UUID, string(w.Username))
	props := make(map[string]Property, len(w.Properties))
	for _, wp := range w.Properties {
		prop := Property{Value: string(wp.Value)}
		if sig, ok := wp.Signature.Get(); ok {
			s := string(sig)
			prop.Signature = &s
		}
		props[string(wp.Name)] = prop
	}
	p.snapshot.Store(&Snapshot{properties: props})
	return p
}

// UUID returns the profile's UUID.
func (p *Profile) UUID() codec.UUID { return p.uuid }

// Username returns the profile's current username.
func (p *Profile) Username() string { return p.username }

// Properties returns the current immutable property snapshot. Safe for
// concurrent use; the returned value never changes underfoot.
func (p *Profile) Properties() *Snapshot {
	return p.snapshot.Load()
}

// SetProperty rebuilds the property snapshot with name set to prop, leaving
// all other properties unchanged. Mutation is expected to be rare (spec: the
// properties mapping is shared, many readers, rare writers).
func (p *Profile) SetProperty(name string, prop Property) {
	old := p.snapshot.Load()
	next := make(map[string]Property, old.Len()+1)
	old.Range(func(n string, pr Property) { next[n] = pr })
	next[name] = prop
	p.snapshot.Store(&Snapshot{properties: next})
}
