package internal

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message types.
const (
	TypeChat    = "chat"
	TypeDiagram = "diagram"
)

// User represents the authenticated account behind a session.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Credentials is the login request payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register form. ConfirmPassword is validated
// client-side and never sent to the backend.
type Registration struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
}

// AuthResponse is returned by /auth/login and /auth/register.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// MessageContext carries optional metadata attached to an assistant
// response.
type MessageContext struct {
	ProcessedCount int       `json:"processedCount,omitempty"`
	Timestamp      time.Time `json:"timestamp,omitempty"`
	DiagramType    string    `json:"diagramType,omitempty"`
}

// Message is one entry in the live transcript. Insertion order is
// chronological and append-only for the life of a conversation.
type Message struct {
	ID        string          `json:"id"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Type      string          `json:"type"`
	Context   *MessageContext `json:"context,omitempty"`
	Diagram   string          `json:"diagram,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// ChatResponse is returned by POST /chat/message.
type ChatResponse struct {
	Response string          `json:"response"`
	Context  *MessageContext `json:"context,omitempty"`
}

// ChatHistoryEntry is a persisted record of a past exchange. Read-only
// from the client's perspective except for delete.
type ChatHistoryEntry struct {
	ID        string    `json:"id"`
	Message   string    `json:"message,omitempty"`
	Content   string    `json:"content,omitempty"`
	Type      string    `json:"type,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// DisplayText returns the entry's displayable text. Content wins over
// Message when both are set.
func (e ChatHistoryEntry) DisplayText() string {
	if e.Content != "" {
		return e.Content
	}
	return e.Message
}

// DiagramContent wraps the raw diagram source as stored by the backend.
// The mermaid text may still be wrapped in fence markers; it must pass
// through StripFences before rendering.
type DiagramContent struct {
	Mermaid string `json:"mermaid"`
}

// Diagram is a generated diagram artifact, owned by the backend and
// cached transiently on the client.
type Diagram struct {
	ID          string         `json:"id"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Content     DiagramContent `json:"content"`
	CreatedAt   time.Time      `json:"createdAt,omitempty"`
	GeneratedAt time.Time      `json:"generatedAt,omitempty"`
}

// EffectiveTimestamp returns CreatedAt, falling back to GeneratedAt
// when the backend omitted it.
func (d Diagram) EffectiveTimestamp() time.Time {
	if !d.CreatedAt.IsZero() {
		return d.CreatedAt
	}
	return d.GeneratedAt
}

// DiagramRequest is the POST /diagrams payload.
type DiagramRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// Transcript is an exportable snapshot of the live conversation.
type Transcript struct {
	User       string    `json:"user,omitempty" yaml:"user,omitempty"`
	ExportedAt time.Time `json:"exportedAt" yaml:"exported_at"`
	Messages   []Message `json:"messages" yaml:"messages"`
}

// Book is an entry in the book catalog. The catalog endpoints sit
// outside the chat core but share the same client.
type Book struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Author     string  `json:"author,omitempty"`
	Niche      string  `json:"niche,omitempty"`
	Difficulty string  `json:"difficulty,omitempty"`
	Rating     float64 `json:"rating,omitempty"`
}
