package internal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/iksnae/devbook/testutil"
)

// harness wires a full client stack against a fake API for tests.
type harness struct {
	api       *testutil.MockAPI
	nav       *testutil.NavRecorder
	tokens    *TokenStore
	tokenPath string
	client    *Client
	session   *SessionManager
	diagrams  *DiagramManager
	chat      *ChatManager
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	api := testutil.NewMockAPI(t)
	nav := &testutil.NavRecorder{}
	tokenPath := filepath.Join(t.TempDir(), "token.json")
	tokens := NewTokenStore(tokenPath, time.Hour)
	client := NewClient(api.URL(), tokens, nav)
	session := NewSessionManager(client, tokens, nav)
	diagrams := NewDiagramManager(client, session)
	chat := NewChatManager(client, session, diagrams)

	return &harness{
		api:       api,
		nav:       nav,
		tokens:    tokens,
		tokenPath: tokenPath,
		client:    client,
		session:   session,
		diagrams:  diagrams,
		chat:      chat,
	}
}

// login establishes an authenticated session using the fake API's
// accepted credentials.
func (h *harness) login(t *testing.T) {
	t.Helper()

	_, err := h.session.Login(context.Background(), Credentials{
		Email:    h.api.Email,
		Password: h.api.Password,
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
}
