package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StoredToken is the on-disk form of the session token. Expiry mirrors
// the 7-day cookie the web client sets.
type StoredToken struct {
	Token  string    `json:"token"`
	Expiry time.Time `json:"expiry"`
}

// TokenStore owns the bearer token's two stores: a persisted file (the
// cookie analog, with a fixed expiry) and an in-memory fast-access
// cache read by every outgoing request. The invariant is that the two
// are cleared together on logout; a 401 clears the cache immediately
// and the session invalidation that follows clears the file.
type TokenStore struct {
	path string
	ttl  time.Duration

	mu     sync.Mutex
	cached string
	loaded bool
}

// NewTokenStore creates a token store persisting to path.
func NewTokenStore(path string, ttl time.Duration) *TokenStore {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenStore{path: path, ttl: ttl}
}

// Set writes the token to both stores.
func (ts *TokenStore) Set(token string) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	stored := StoredToken{
		Token:  token,
		Expiry: time.Now().Add(ts.ttl),
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(ts.path), 0755); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(ts.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	ts.cached = token
	ts.loaded = true
	return nil
}

// Get returns the current token, or "" when no valid token exists.
// The persisted store is consulted once and mirrored into the cache;
// an expired persisted token counts as absent.
func (ts *TokenStore) Get() string {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.loaded {
		return ts.cached
	}
	ts.loaded = true

	data, err := os.ReadFile(ts.path)
	if err != nil {
		return ""
	}

	var stored StoredToken
	if err := json.Unmarshal(data, &stored); err != nil {
		LogWarn("Discarding unreadable token file: %v", err)
		return ""
	}
	if !stored.Expiry.IsZero() && time.Now().After(stored.Expiry) {
		LogDebug("Persisted token expired at %s", stored.Expiry.Format(time.RFC3339))
		return ""
	}

	ts.cached = stored.Token
	return ts.cached
}

// ClearCache drops only the in-memory copy. The HTTP client calls this
// on a 401 before surfacing the auth error.
func (ts *TokenStore) ClearCache() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.cached = ""
	ts.loaded = true
}

// Clear removes the token from both stores.
func (ts *TokenStore) Clear() error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.cached = ""
	ts.loaded = true

	if err := os.Remove(ts.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
