// Package session implements the client-facing Account and Session-server
// interfaces spec.md §6 treats as external collaborators: Microsoft/Xbox/
// Mojang authentication and the Mojang session server's join/hasJoined
// handshake used during the login phase (spec §4.3).
package session

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-mclib/botclient/codec"
	"github.com/go-mclib/botclient/crypto"
	"github.com/go-mclib/botclient/mcerr"
)

// SessionServerClient satisfies spec.md §6's Session-server interface:
// authenticate(access_token, uuid, shared_secret, server_hello) → Result.
type SessionServerClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewSessionServerClient builds a client pointed at the real Mojang session server.
func NewSessionServerClient() *SessionServerClient {
	return &SessionServerClient{
		baseURL:    "https://sessionserver.mojang.com",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type joinRequest struct {
	AccessToken     string `json:"accessToken"`
	SelectedProfile string `json:"selectedProfile"`
	ServerID        string `json:"serverId"`
}

type errorResponse struct {
	Error        string `json:"error"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

func (e errorResponse) String() string {
	if e.ErrorMessage != "" {
		return fmt.Sprintf("%s: %s", e.Error, e.ErrorMessage)
	}
	return e.Error
}

// ComputeServerHash computes the Mojang server-hash used as the ServerID
// field of a join request: SHA1(serverID || sharedSecret || publicKey),
// hex-encoded with two's-complement sign handling.
func ComputeServerHash(serverID string, sharedSecret, publicKey []byte) string {
	hasher := crypto.NewMinecraftSHA1()
	hasher.Write([]byte(serverID))
	hasher.Write(sharedSecret)
	hasher.Write(publicKey)
	return hasher.HexDigest()
}

// Authenticate performs the client-side half of spec §4.3's
// HelloEncryptionRequest handling: POST to /session/minecraft/join with the
// computed server hash. Errors are classified into mcerr.SessionServer with
// a Reason distinguishing an invalid/expired session from other failures,
// so callers can decide whether to retry after Account.Refresh.
func (c *SessionServerClient) Authenticate(ctx context.Context, accessToken string, uuid codec.UUID, sharedSecret, serverPublicKey []byte, serverID string) error {
	req := joinRequest{
		AccessToken:     accessToken,
		SelectedProfile: uuid.String(),
		ServerID:        ComputeServerHash(serverID, sharedSecret, serverPublicKey),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return mcerr.New(mcerr.SessionServer, "marshal join request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/session/minecraft/join", bytes.NewReader(body))
	if err != nil {
		return mcerr.New(mcerr.SessionServer, "build join request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", "go-mclib-botclient")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return mcerr.New(mcerr.SessionServer, "join request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, _ := io.ReadAll(resp.Body)
	var errResp errorResponse
	_ = json.Unmarshal(respBody, &errResp)

	switch resp.StatusCode {
	case http.StatusForbidden:
		return mcerr.New(mcerr.SessionServer, "ForbiddenOperation: "+errResp.String(), nil)
	case http.StatusUnauthorized:
		return mcerr.New(mcerr.SessionServer, "InvalidSession: "+errResp.String(), nil)
	default:
		return mcerr.New(mcerr.SessionServer, fmt.Sprintf("join failed (status %d): %s", resp.StatusCode, errResp.String()), nil)
	}
}

// OfflineUUID derives the deterministic UUID offline-mode servers assign to
// a username: version-3 (name-based) UUID over "OfflinePlayer:<name>",
// the same construction vanilla/offline servers use.
func OfflineUUID(username string) codec.UUID {
	sum := md5.Sum([]byte("OfflinePlayer:" + username))
	sum[6] = (sum[6] & 0x0f) | 0x30 // version 3
	sum[8] = (sum[8] & 0x3f) | 0x80 // RFC 4122 variant
	var u codec.UUID
	copy(u[:], sum[:])
	return u
}
