package profile_test

import (
	"testing"

	"github.com/go-mclib/botclient/codec"
	"github.com/go-mclib/botclient/profile"
)

func TestFromWire(t *testing.T) {
	var uuid codec.UUID
	copy(uuid[:], []byte{0xf1, 0xa2, 0xb3, 0xc4, 0xd5, 0xe6, 0xf7, 0xa8, 0xb9, 0xc0, 0xd1, 0xe2, 0xf3, 0xa4, 0xb5, 0xc6})

	wire := codec.GameProfile{
		UUID:     uuid,
		Username: "Notch",
		Properties: codec.PrefixedArray[codec.ProfileProperty]{
			{
				Name:      "qwer",
				Value:     "asdf",
				Signature: codec.Some(codec.String("zxcv")),
			},
		},
	}

	p := profile.FromWire(wire)
	if p.UUID() != uuid {
		t.Fatalf("UUID mismatch")
	}
	if p.Username() != "Notch" {
		t.Fatalf("Username = %q, want Notch", p.Username())
	}

	snap := p.Properties()
	if snap.Len() != 1 {
		t.Fatalf("expected 1 property, got %d", snap.Len())
	}
	prop, ok := snap.Get("qwer")
	if !ok {
		t.Fatalf("expected property qwer to be present")
	}
	if prop.Value != "asdf" {
		t.Fatalf("Value = %q, want asdf", prop.Value)
	}
	if prop.Signature == nil || *prop.Signature != "zxcv" {
		t.Fatalf("Signature = %v, want zxcv", prop.Signature)
	}
}

func TestSetPropertyRebuildsSnapshot(t *testing.T) {
	p := profile.New(codec.UUID{}, "Steve")
	before := p.Properties()

	p.SetProperty("textures", profile.Property{Value: "abc"})

	after := p.Properties()
	if before == after {
		t.Fatalf("expected SetProperty to replace the snapshot, not mutate it")
	}
	if before.Len() != 0 {
		t.Fatalf("original snapshot must remain unchanged, got len %d", before.Len())
	}
	if after.Len() != 1 {
		t.Fatalf("new snapshot should have 1 property, got %d", after.Len())
	}
}
