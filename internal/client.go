package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Navigation targets. The client never decides navigation policy; it
// reports the effect through the injected Navigator and the top level
// (CLI, TUI, tests) interprets it.
const (
	NavLogin = "/auth/login"
	NavHome  = "/"
)

// Navigator receives navigation side effects: the forced move to the
// login screen on session expiry, and the move home after login.
type Navigator interface {
	NavigateTo(target string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(target string)

// NavigateTo calls f(target).
func (f NavigatorFunc) NavigateTo(target string) { f(target) }

// Client talks to the DevBook REST API. It attaches the bearer token
// from the token store to every request and converts failures into the
// typed errors in errors.go. A 401 clears the cached token, reports a
// navigation to login, and surfaces AuthRequiredError; it is never
// silently retried.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  *TokenStore
	nav     Navigator
}

// NewClient creates an API client. nav may be nil when no navigation
// effects are wanted (e.g. one-shot scripts).
func NewClient(baseURL string, tokens *TokenStore, nav Navigator) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		nav:     nav,
	}
}

// errorBody is the JSON error envelope the backend uses for non-2xx
// responses.
type errorBody struct {
	Message string `json:"message"`
}

// do executes one API round-trip. body and out may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Get(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	LogDebug("%s %s", method, path)
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// The cached token is dead. Drop it and report the forced
		// move to login; the session manager clears the rest.
		c.tokens.ClearCache()
		if c.nav != nil {
			c.nav.NavigateTo(NavLogin)
		}
		return &AuthRequiredError{}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := fmt.Sprintf("request failed with status %d", resp.StatusCode)
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil && eb.Message != "" {
			message = eb.Message
		}
		return &RequestError{Message: message, Status: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &InvalidResponseError{Endpoint: path, Reason: "malformed JSON body"}
		}
	}
	return nil
}

// Login exchanges credentials for a token and user.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &InvalidResponseError{Endpoint: "/auth/login", Reason: "missing token"}
	}
	return &resp, nil
}

// Register creates an account. The confirmation field of reg is never
// serialized.
func (c *Client) Register(ctx context.Context, reg Registration) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", reg, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &InvalidResponseError{Endpoint: "/auth/register", Reason: "missing token"}
	}
	return &resp, nil
}

// Profile fetches the user behind the current token.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// chatRequest is the POST /chat/message payload.
type chatRequest struct {
	Message string `json:"message"`
}

// SendChatMessage sends one chat message. A response without the
// response text field violates the endpoint schema.
func (c *Client) SendChatMessage(ctx context.Context, message string) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat/message", chatRequest{Message: message}, &resp); err != nil {
		return nil, err
	}
	if resp.Response == "" {
		return nil, &InvalidResponseError{Endpoint: "/chat/message", Reason: "missing response field"}
	}
	return &resp, nil
}

// ChatHistory lists past chat entries.
func (c *Client) ChatHistory(ctx context.Context) ([]ChatHistoryEntry, error) {
	var entries []ChatHistoryEntry
	if err := c.do(ctx, http.MethodGet, "/chat/history", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteChat deletes one chat entry.
func (c *Client) DeleteChat(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/chat/"+url.PathEscape(id), nil, nil)
}

// GenerateDiagram asks the backend to generate a diagram.
func (c *Client) GenerateDiagram(ctx context.Context, req DiagramRequest) (*Diagram, error) {
	var d Diagram
	if err := c.do(ctx, http.MethodPost, "/diagrams", req, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Diagrams lists all diagrams belonging to the session.
func (c *Client) Diagrams(ctx context.Context) ([]Diagram, error) {
	var ds []Diagram
	if err := c.do(ctx, http.MethodGet, "/diagrams", nil, &ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// DiagramByID fetches one diagram.
func (c *Client) DiagramByID(ctx context.Context, id string) (*Diagram, error) {
	var d Diagram
	if err := c.do(ctx, http.MethodGet, "/diagrams/"+url.PathEscape(id), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// DeleteDiagram deletes one diagram.
func (c *Client) DeleteDiagram(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/diagrams/"+url.PathEscape(id), nil, nil)
}

// Books lists the book catalog. params is optional.
func (c *Client) Books(ctx context.Context, params url.Values) ([]Book, error) {
	path := "/books"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var books []Book
	if err := c.do(ctx, http.MethodGet, path, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// BookByID fetches one book.
func (c *Client) BookByID(ctx context.Context, id string) (*Book, error) {
	var b Book
	if err := c.do(ctx, http.MethodGet, "/books/"+url.PathEscape(id), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// SearchBooks searches the catalog by free text.
func (c *Client) SearchBooks(ctx context.Context, query string) ([]Book, error) {
	var books []Book
	if err := c.do(ctx, http.MethodGet, "/books/search/"+url.PathEscape(query), nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// RecommendBooks fetches recommendations for a niche. difficulty is
// optional.
func (c *Client) RecommendBooks(ctx context.Context, niche, difficulty string) ([]Book, error) {
	path := "/books/recommend/" + url.PathEscape(niche)
	if difficulty != "" {
		path += "?difficulty=" + url.QueryEscape(difficulty)
	}
	var books []Book
	if err := c.do(ctx, http.MethodGet, path, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}
