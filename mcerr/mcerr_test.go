package mcerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-mclib/botclient/mcerr"
)

func TestErrorFormatting(t *testing.T) {
	base := errors.New("connection reset")
	err := mcerr.New(mcerr.Io, "write failed", base)

	if got, want := err.Error(), "io: write failed: connection reset"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected errors.Is to unwrap to base error")
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", mcerr.New(mcerr.Auth, "session rejected", nil))
	if !mcerr.Is(err, mcerr.Auth) {
		t.Fatalf("expected Is(err, Auth) to be true through fmt.Errorf wrapping")
	}
	if mcerr.Is(err, mcerr.Io) {
		t.Fatalf("expected Is(err, Io) to be false")
	}
}

func TestKindString(t *testing.T) {
	cases := map[mcerr.Kind]string{
		mcerr.Resolver:            "resolver",
		mcerr.Connection:          "connection",
		mcerr.ReadPacket:          "read_packet",
		mcerr.Disconnect:         "disconnect",
		mcerr.CommandSyntaxError: "command_syntax_error",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
