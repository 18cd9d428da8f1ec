package session

import (
	"context"
	"sync"

	"github.com/go-mclib/botclient/auth"
	"github.com/go-mclib/botclient/codec"
	"github.com/go-mclib/botclient/mcerr"
)

// Account is the interface spec.md §6 consumes: a username, an optional
// UUID, an optional refreshable access token, and an offline-mode fallback
// UUID. The connection state machine calls Refresh on auth failure and
// reads AccessToken thereafter (spec §4.3 HelloEncryptionRequest handling).
type Account interface {
	Username() string
	UUID() (codec.UUID, bool)
	AccessToken(ctx context.Context) (string, bool, error)
	Refresh(ctx context.Context) error
	UUIDOrOffline() codec.UUID
}

// OfflineAccount is an Account with no Microsoft login: its UUID is derived
// deterministically from the username (see OfflineUUID), and it carries no
// access token, matching how offline-mode servers authenticate clients.
type OfflineAccount struct {
	username string
}

// NewOfflineAccount builds an Account for connecting to offline-mode servers.
func NewOfflineAccount(username string) *OfflineAccount {
	return &OfflineAccount{username: username}
}

func (a *OfflineAccount) Username() string { return a.username }

func (a *OfflineAccount) UUID() (codec.UUID, bool) { return codec.UUID{}, false }

func (a *OfflineAccount) AccessToken(context.Context) (string, bool, error) { return "", false, nil }

func (a *OfflineAccount) Refresh(context.Context) error { return nil }

func (a *OfflineAccount) UUIDOrOffline() codec.UUID { return OfflineUUID(a.username) }

// MicrosoftAccount is an Account backed by the Microsoft/Xbox/Mojang
// authentication chain (auth.AuthClient), with the resulting access token
// cached in memory and refreshed via the client's file-backed token store.
type MicrosoftAccount struct {
	client *auth.AuthClient

	mu          sync.Mutex
	username    string
	uuid        codec.UUID
	uuidSet     bool
	accessToken string
}

// NewMicrosoftAccount wraps an already-configured auth.AuthClient. Call
// Refresh (or let the connection engine call it on first use) to populate
// the username/UUID/access token via auth.AuthClient.Login.
func NewMicrosoftAccount(client *auth.AuthClient) *MicrosoftAccount {
	return &MicrosoftAccount{client: client}
}

func (a *MicrosoftAccount) Username() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.username
}

func (a *MicrosoftAccount) UUID() (codec.UUID, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.uuid, a.uuidSet
}

func (a *MicrosoftAccount) UUIDOrOffline() codec.UUID {
	if u, ok := a.UUID(); ok {
		return u
	}
	return OfflineUUID(a.Username())
}

func (a *MicrosoftAccount) AccessToken(ctx context.Context) (string, bool, error) {
	a.mu.Lock()
	token := a.accessToken
	a.mu.Unlock()
	if token != "" {
		return token, true, nil
	}
	if err := a.Refresh(ctx); err != nil {
		return "", false, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.accessToken, a.accessToken != "", nil
}

// Refresh performs (or re-performs) the full login chain, per spec §4.3:
// on session-server rejection the caller is expected to call Refresh once
// and retry; Refresh itself always re-runs auth.AuthClient.Login.
func (a *MicrosoftAccount) Refresh(ctx context.Context) error {
	data, err := a.client.Login(ctx)
	if err != nil {
		return mcerr.New(mcerr.Auth, "microsoft login failed", err)
	}

	uuid, err := codec.UUIDFromString(data.UUID)
	if err != nil {
		return mcerr.New(mcerr.Auth, "invalid profile uuid from minecraft services", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.username = data.Username
	a.uuid = uuid
	a.uuidSet = true
	a.accessToken = data.AccessToken
	return nil
}
