package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// MockAPI is an httptest-backed fake of the DevBook backend. Payloads
// are plain JSON maps so the package stays free of internal imports
// and usable from in-package tests.
type MockAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	requests []string

	// Accepted credentials and the token issued for them.
	Token    string
	Email    string
	Password string
	Username string
	UserID   string

	// Canned responses.
	ChatReply   map[string]interface{}
	History     []map[string]interface{}
	Diagrams    []map[string]interface{}
	Generated   map[string]interface{}
	Books       []map[string]interface{}

	// When ForceStatus is non-zero every request answers with it and
	// ForceMessage (auth endpoints included).
	ForceStatus  int
	ForceMessage string

	// When set, GET /diagrams/<DelayDiagramID> blocks until
	// DelayRelease is closed, so tests can interleave responses.
	DelayDiagramID string
	DelayRelease   chan struct{}
}

// NewMockAPI starts a fake DevBook API with sensible defaults. The
// server is shut down when the test finishes.
func NewMockAPI(t *testing.T) *MockAPI {
	t.Helper()

	m := &MockAPI{
		Token:    "test-token-123",
		Email:    "a@b.com",
		Password: "secret123",
		Username: "tester",
		UserID:   "user-1",
		ChatReply: map[string]interface{}{
			"response": "Here is an answer.",
			"context":  map[string]interface{}{"processedCount": 1},
		},
		Generated: map[string]interface{}{
			"id":          "diagram-1",
			"description": "login flow",
			"content":     map[string]interface{}{"mermaid": "```mermaid\ngraph TD;A-->B```"},
			"createdAt":   "2024-05-01T10:00:00Z",
		},
	}

	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(m.Server.Close)
	return m
}

// URL returns the base URL of the fake API.
func (m *MockAPI) URL() string {
	return m.Server.URL
}

// Requests returns the "METHOD path" log of every request received.
func (m *MockAPI) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.requests))
	copy(out, m.requests)
	return out
}

// RequestCount returns how many requests the fake API has received.
func (m *MockAPI) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *MockAPI) handle(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.requests = append(m.requests, r.Method+" "+r.URL.Path)
	forceStatus, forceMessage := m.ForceStatus, m.ForceMessage
	m.mu.Unlock()

	if forceStatus != 0 {
		writeJSON(w, forceStatus, map[string]interface{}{"message": forceMessage})
		return
	}

	path := r.URL.Path
	switch {
	case r.Method == http.MethodPost && path == "/auth/login":
		m.handleLogin(w, r)
	case r.Method == http.MethodPost && path == "/auth/register":
		m.handleRegister(w, r)
	case r.Method == http.MethodGet && path == "/auth/profile":
		if !m.authorized(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, m.user())
	case r.Method == http.MethodPost && path == "/chat/message":
		if !m.authorized(w, r) {
			return
		}
		m.mu.Lock()
		reply := m.ChatReply
		m.mu.Unlock()
		writeJSON(w, http.StatusOK, reply)
	case r.Method == http.MethodGet && path == "/chat/history":
		if !m.authorized(w, r) {
			return
		}
		m.mu.Lock()
		history := m.History
		m.mu.Unlock()
		writeJSONList(w, history)
	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/chat/"):
		if !m.authorized(w, r) {
			return
		}
		m.deleteFrom(&m.History, strings.TrimPrefix(path, "/chat/"))
		writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
	case r.Method == http.MethodPost && path == "/diagrams":
		if !m.authorized(w, r) {
			return
		}
		m.mu.Lock()
		generated := m.Generated
		m.mu.Unlock()
		writeJSON(w, http.StatusOK, generated)
	case r.Method == http.MethodGet && path == "/diagrams":
		if !m.authorized(w, r) {
			return
		}
		m.mu.Lock()
		diagrams := m.Diagrams
		m.mu.Unlock()
		writeJSONList(w, diagrams)
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/diagrams/"):
		if !m.authorized(w, r) {
			return
		}
		m.findDiagram(w, strings.TrimPrefix(path, "/diagrams/"))
	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/diagrams/"):
		if !m.authorized(w, r) {
			return
		}
		m.deleteFrom(&m.Diagrams, strings.TrimPrefix(path, "/diagrams/"))
		writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/books"):
		if !m.authorized(w, r) {
			return
		}
		m.mu.Lock()
		books := m.Books
		m.mu.Unlock()
		writeJSONList(w, books)
	default:
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"message": "not found"})
	}
}

func (m *MockAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": "bad request"})
		return
	}
	if creds.Email != m.Email || creds.Password != m.Password {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"token": m.Token, "user": m.user()})
}

func (m *MockAPI) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": "bad request"})
		return
	}
	if _, ok := reg["confirmPassword"]; ok {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": "unexpected field: confirmPassword"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"token": m.Token, "user": m.user()})
}

func (m *MockAPI) user() map[string]interface{} {
	return map[string]interface{}{
		"id":       m.UserID,
		"username": m.Username,
		"email":    m.Email,
	}
}

// authorized enforces the bearer token and answers 401 otherwise.
func (m *MockAPI) authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != "Bearer "+m.Token {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"message": "Authentication required"})
		return false
	}
	return true
}

func (m *MockAPI) findDiagram(w http.ResponseWriter, id string) {
	m.mu.Lock()
	delayID, release := m.DelayDiagramID, m.DelayRelease
	m.mu.Unlock()
	if id == delayID && release != nil {
		<-release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.Diagrams {
		if d["id"] == id {
			writeJSON(w, http.StatusOK, d)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]interface{}{"message": "Diagram not found"})
}

func (m *MockAPI) deleteFrom(list *[]map[string]interface{}, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []map[string]interface{}
	for _, item := range *list {
		if item["id"] != id {
			kept = append(kept, item)
		}
	}
	*list = kept
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONList always encodes a JSON array, never null.
func writeJSONList(w http.ResponseWriter, list []map[string]interface{}) {
	if list == nil {
		list = []map[string]interface{}{}
	}
	writeJSON(w, http.StatusOK, list)
}

// NavRecorder records navigation effects for assertions. It satisfies
// the client's Navigator interface.
type NavRecorder struct {
	mu      sync.Mutex
	Targets []string
}

// NavigateTo records the target.
func (n *NavRecorder) NavigateTo(target string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Targets = append(n.Targets, target)
}

// Last returns the most recent target, or "".
func (n *NavRecorder) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Targets) == 0 {
		return ""
	}
	return n.Targets[len(n.Targets)-1]
}
