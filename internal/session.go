package internal

import (
	"context"
	"fmt"
	"sync"
)

// SessionState tracks where the session is in its lifecycle.
type SessionState int

const (
	// StateUnknown is the initial state, before the first check.
	StateUnknown SessionState = iota
	// StateChecking means a profile fetch for a persisted token is in
	// flight.
	StateChecking
	// StateAuthenticated means a user is logged in.
	StateAuthenticated
	// StateAnonymous means no valid session exists.
	StateAnonymous
)

// String returns a human-readable state name.
func (s SessionState) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// SessionManager owns the session: the bearer token lifecycle and the
// current-user identity. It is the single point of session
// invalidation; every component that observes an AuthRequiredError
// routes it here through HandleAuthError.
type SessionManager struct {
	client *Client
	tokens *TokenStore
	nav    Navigator

	mu      sync.Mutex
	state   SessionState
	user    *User
	lastErr error
}

// NewSessionManager creates a session manager in the Unknown state.
func NewSessionManager(client *Client, tokens *TokenStore, nav Navigator) *SessionManager {
	return &SessionManager{
		client: client,
		tokens: tokens,
		nav:    nav,
		state:  StateUnknown,
	}
}

// State returns the current session state.
func (sm *SessionManager) State() SessionState {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.state
}

// User returns the authenticated user, or nil.
func (sm *SessionManager) User() *User {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.user
}

// Loading reports whether the initial check is in flight.
func (sm *SessionManager) Loading() bool {
	return sm.State() == StateChecking
}

// Err returns the last surfaced error, cleared by the next successful
// action.
func (sm *SessionManager) Err() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.lastErr
}

// IsAuthenticated reports whether a user is logged in.
func (sm *SessionManager) IsAuthenticated() bool {
	return sm.State() == StateAuthenticated
}

// CheckAuth resolves the initial Unknown state. A persisted token is
// validated by fetching the profile; any failure clears the stored
// token and settles on Anonymous.
func (sm *SessionManager) CheckAuth(ctx context.Context) error {
	sm.mu.Lock()
	sm.state = StateChecking
	sm.mu.Unlock()

	if sm.tokens.Get() == "" {
		sm.invalidate()
		return nil
	}

	user, err := sm.client.Profile(ctx)
	if err != nil {
		LogDebug("Auth check failed: %v", err)
		sm.invalidate()
		return nil
	}

	sm.mu.Lock()
	sm.state = StateAuthenticated
	sm.user = user
	sm.lastErr = nil
	sm.mu.Unlock()
	return nil
}

// Login exchanges credentials for a session. On success the token is
// dual-written (persisted store + cache) and the navigator is pointed
// home; on failure the state is left unchanged and the error surfaced.
func (sm *SessionManager) Login(ctx context.Context, creds Credentials) (*User, error) {
	sm.clearErr()

	resp, err := sm.client.Login(ctx, creds)
	if err != nil {
		sm.setErr(err)
		return nil, err
	}

	if err := sm.establish(resp); err != nil {
		sm.setErr(err)
		return nil, err
	}
	return &resp.User, nil
}

// Register creates an account and logs in with the same contract as
// Login. The password confirmation is checked client-side first; a
// mismatch fails fast without contacting the backend.
func (sm *SessionManager) Register(ctx context.Context, reg Registration) (*User, error) {
	sm.clearErr()

	if reg.Password != reg.ConfirmPassword {
		err := &ValidationError{Message: "Passwords do not match"}
		sm.setErr(err)
		return nil, err
	}

	resp, err := sm.client.Register(ctx, reg)
	if err != nil {
		sm.setErr(err)
		return nil, err
	}

	if err := sm.establish(resp); err != nil {
		sm.setErr(err)
		return nil, err
	}
	return &resp.User, nil
}

// establish persists the token and moves to Authenticated.
func (sm *SessionManager) establish(resp *AuthResponse) error {
	if err := sm.tokens.Set(resp.Token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}

	sm.mu.Lock()
	sm.state = StateAuthenticated
	user := resp.User
	sm.user = &user
	sm.mu.Unlock()

	if sm.nav != nil {
		sm.nav.NavigateTo(NavHome)
	}
	return nil
}

// Logout clears both token stores and the user, forces Anonymous, and
// navigates to login.
func (sm *SessionManager) Logout() {
	sm.invalidate()
	if sm.nav != nil {
		sm.nav.NavigateTo(NavLogin)
	}
}

// HandleAuthError funnels an observed error into session invalidation
// when it is an authentication failure. It reports whether it acted.
func (sm *SessionManager) HandleAuthError(err error) bool {
	if !IsAuthRequired(err) {
		return false
	}
	sm.Logout()
	return true
}

// invalidate clears session state without a navigation effect.
func (sm *SessionManager) invalidate() {
	if err := sm.tokens.Clear(); err != nil {
		LogWarn("Failed to clear token store: %v", err)
	}

	sm.mu.Lock()
	sm.state = StateAnonymous
	sm.user = nil
	sm.mu.Unlock()
}

func (sm *SessionManager) setErr(err error) {
	sm.mu.Lock()
	sm.lastErr = err
	sm.mu.Unlock()
}

func (sm *SessionManager) clearErr() {
	sm.mu.Lock()
	sm.lastErr = nil
	sm.mu.Unlock()
}
