package internal

import (
	"context"
	"sync"
	"time"
)

// Fixed parameters for diagram generation requested through the chat
// flow.
const (
	GeneratedDiagramTitle = "Generated Diagram"
	GeneratedDiagramKind  = "flowchart"
	DiagramDoneMessage    = "Diagram generated successfully."
)

// ChatManager mediates between user input and the chat/diagram
// endpoints, maintaining an optimistic local transcript: the user's
// message is appended before the network round-trip completes.
type ChatManager struct {
	client   *Client
	session  *SessionManager
	diagrams *DiagramManager

	mu       sync.Mutex
	messages []Message
	history  []ChatHistoryEntry
	loading  bool
	lastErr  error
}

// NewChatManager creates a chat manager. diagrams receives the
// "current diagram" produced by diagram-type sends.
func NewChatManager(client *Client, session *SessionManager, diagrams *DiagramManager) *ChatManager {
	return &ChatManager{
		client:   client,
		session:  session,
		diagrams: diagrams,
	}
}

// Messages returns a snapshot of the live transcript.
func (cm *ChatManager) Messages() []Message {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	out := make([]Message, len(cm.messages))
	copy(out, cm.messages)
	return out
}

// History returns a snapshot of the chat-history cache.
func (cm *ChatManager) History() []ChatHistoryEntry {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	out := make([]ChatHistoryEntry, len(cm.history))
	copy(out, cm.history)
	return out
}

// Loading reports whether a send/receive cycle is in flight.
func (cm *ChatManager) Loading() bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.loading
}

// Err returns the transcript-level error, cleared by the next send or
// by ClearChat.
func (cm *ChatManager) Err() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.lastErr
}

// SendMessage runs one send/receive cycle. An authenticated session is
// required up front; without one it fails immediately and no backend
// call is made. On success the transcript grows by two messages (user,
// then assistant); on failure by one (the optimistic user message),
// with the error stored. Authentication failures anywhere in the cycle
// invalidate the session.
func (cm *ChatManager) SendMessage(ctx context.Context, content, msgType string) (*Message, error) {
	if msgType == "" {
		msgType = TypeChat
	}

	cm.mu.Lock()
	cm.loading = true
	cm.lastErr = nil
	cm.mu.Unlock()
	defer func() {
		cm.mu.Lock()
		cm.loading = false
		cm.mu.Unlock()
	}()

	if !cm.session.IsAuthenticated() {
		err := &AuthRequiredError{Reason: "not logged in"}
		cm.fail(err)
		return nil, err
	}

	cm.append(Message{
		ID:        NewMessageID(),
		Role:      RoleUser,
		Content:   content,
		Type:      msgType,
		Timestamp: time.Now(),
	})

	assistant, err := cm.exchange(ctx, content, msgType)
	if err != nil {
		cm.fail(err)
		return nil, err
	}
	cm.append(*assistant)

	// The history cache is replaced wholesale after every successful
	// exchange; a refresh failure does not undo the exchange.
	if err := cm.LoadHistory(ctx); err != nil {
		LogWarn("Failed to refresh chat history: %v", err)
	}

	return assistant, nil
}

// exchange performs the type-specific backend call and builds the
// assistant message.
func (cm *ChatManager) exchange(ctx context.Context, content, msgType string) (*Message, error) {
	switch msgType {
	case TypeDiagram:
		d, err := cm.client.GenerateDiagram(ctx, DiagramRequest{
			Title:       GeneratedDiagramTitle,
			Description: content,
			Type:        GeneratedDiagramKind,
		})
		if err != nil {
			return nil, err
		}

		mermaid := NormalizeDiagram(d)
		if cm.diagrams != nil {
			cm.diagrams.SetCurrent(mermaid)
		}

		return &Message{
			ID:        NewMessageID(),
			Role:      RoleAssistant,
			Content:   DiagramDoneMessage,
			Type:      TypeDiagram,
			Context:   &MessageContext{DiagramType: GeneratedDiagramKind},
			Diagram:   mermaid,
			Timestamp: time.Now(),
		}, nil

	case TypeChat:
		resp, err := cm.client.SendChatMessage(ctx, content)
		if err != nil {
			return nil, err
		}

		ts := time.Now()
		if resp.Context != nil && !resp.Context.Timestamp.IsZero() {
			ts = resp.Context.Timestamp
		}
		return &Message{
			ID:        NewMessageID(),
			Role:      RoleAssistant,
			Content:   resp.Response,
			Type:      TypeChat,
			Context:   resp.Context,
			Timestamp: ts,
		}, nil

	default:
		return nil, &ValidationError{Field: "type", Message: "must be chat or diagram"}
	}
}

// ClearChat resets the transcript, the current diagram, and the error.
// Purely local; no backend call.
func (cm *ChatManager) ClearChat() {
	cm.mu.Lock()
	cm.messages = nil
	cm.lastErr = nil
	cm.mu.Unlock()

	if cm.diagrams != nil {
		cm.diagrams.ClearCurrent()
	}
}

// DeleteEntry removes one persisted chat entry and refreshes the
// history cache so listings reflect the deletion. An authentication
// failure invalidates the session.
func (cm *ChatManager) DeleteEntry(ctx context.Context, id string) error {
	if err := cm.client.DeleteChat(ctx, id); err != nil {
		cm.session.HandleAuthError(err)
		return err
	}

	if err := cm.LoadHistory(ctx); err != nil {
		LogWarn("Failed to refresh chat history: %v", err)
	}
	return nil
}

// LoadHistory fetches and replaces the chat-history cache. An
// authentication failure invalidates the session.
func (cm *ChatManager) LoadHistory(ctx context.Context) error {
	entries, err := cm.client.ChatHistory(ctx)
	if err != nil {
		cm.session.HandleAuthError(err)
		return err
	}

	cm.mu.Lock()
	cm.history = entries
	cm.mu.Unlock()
	return nil
}

func (cm *ChatManager) append(msg Message) {
	cm.mu.Lock()
	cm.messages = append(cm.messages, msg)
	cm.mu.Unlock()
}

// fail records err as the transcript-level error and routes
// authentication failures into session invalidation.
func (cm *ChatManager) fail(err error) {
	cm.mu.Lock()
	cm.lastErr = err
	cm.mu.Unlock()

	cm.session.HandleAuthError(err)
}
