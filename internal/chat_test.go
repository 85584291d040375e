package internal

import (
	"context"
	"net/http"
	"os"
	"testing"
)

func TestSendMessageChat(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	ctx := context.Background()

	reply, err := h.chat.SendMessage(ctx, "What is a goroutine?", TypeChat)
	if err != nil {
		t.Fatalf("SendMessage() failed: %v", err)
	}
	if reply.Role != RoleAssistant {
		t.Errorf("reply role = %q, want %q", reply.Role, RoleAssistant)
	}
	if reply.Content != "Here is an answer." {
		t.Errorf("reply content = %q, want %q", reply.Content, "Here is an answer.")
	}

	// One cycle appends the user message then the assistant reply.
	messages := h.chat.Messages()
	if len(messages) != 2 {
		t.Fatalf("transcript has %d messages, want 2", len(messages))
	}
	if messages[0].Role != RoleUser || messages[0].Content != "What is a goroutine?" {
		t.Errorf("messages[0] = %+v, want optimistic user message", messages[0])
	}
	if messages[1].Role != RoleAssistant {
		t.Errorf("messages[1].Role = %q, want %q", messages[1].Role, RoleAssistant)
	}

	if h.chat.Err() != nil {
		t.Errorf("transcript error = %v, want nil", h.chat.Err())
	}
	if h.chat.Loading() {
		t.Error("loading should be false after the cycle completes")
	}
}

func TestSendMessageDefaultsToChat(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	reply, err := h.chat.SendMessage(context.Background(), "hello", "")
	if err != nil {
		t.Fatalf("SendMessage() failed: %v", err)
	}
	if reply.Type != TypeChat {
		t.Errorf("reply type = %q, want %q", reply.Type, TypeChat)
	}
}

func TestSendMessageDiagram(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	reply, err := h.chat.SendMessage(context.Background(), "login flow", TypeDiagram)
	if err != nil {
		t.Fatalf("SendMessage() failed: %v", err)
	}

	if reply.Content != DiagramDoneMessage {
		t.Errorf("reply content = %q, want %q", reply.Content, DiagramDoneMessage)
	}
	if reply.Type != TypeDiagram {
		t.Errorf("reply type = %q, want %q", reply.Type, TypeDiagram)
	}
	if reply.Context == nil || reply.Context.DiagramType != GeneratedDiagramKind {
		t.Errorf("reply context = %+v, want diagram type %q", reply.Context, GeneratedDiagramKind)
	}

	// The fake API wraps its mermaid in fence markers; the reply and the
	// current-diagram slot both carry the stripped source.
	want := "graph TD;A-->B"
	if reply.Diagram != want {
		t.Errorf("reply diagram = %q, want %q", reply.Diagram, want)
	}
	if got := h.diagrams.Current(); got != want {
		t.Errorf("current diagram = %q, want %q", got, want)
	}
}

func TestSendMessageFailure(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	h.api.ForceStatus = http.StatusInternalServerError
	h.api.ForceMessage = "model unavailable"

	_, err := h.chat.SendMessage(context.Background(), "hello", TypeChat)
	if err == nil {
		t.Fatal("SendMessage() should fail when the backend errors")
	}

	// The optimistic user message survives; no assistant reply follows.
	messages := h.chat.Messages()
	if len(messages) != 1 {
		t.Fatalf("transcript has %d messages, want 1", len(messages))
	}
	if messages[0].Role != RoleUser {
		t.Errorf("messages[0].Role = %q, want %q", messages[0].Role, RoleUser)
	}
	if h.chat.Err() == nil {
		t.Error("transcript error should be stored on failure")
	}
}

func TestSendMessageUnauthenticated(t *testing.T) {
	h := newHarness(t)

	_, err := h.chat.SendMessage(context.Background(), "hello", TypeChat)
	if !IsAuthRequired(err) {
		t.Fatalf("error = %v, want AuthRequiredError", err)
	}

	// Fails before the optimistic append and before any backend call.
	if got := len(h.chat.Messages()); got != 0 {
		t.Errorf("transcript has %d messages, want 0", got)
	}
	if got := h.api.RequestCount(); got != 0 {
		t.Errorf("backend requests = %d, want 0", got)
	}
}

func TestSendMessageExpiredSession(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	// Invalidate the token server-side without telling the client.
	h.api.Token = "rotated"

	_, err := h.chat.SendMessage(context.Background(), "hello", TypeChat)
	if !IsAuthRequired(err) {
		t.Fatalf("error = %v, want AuthRequiredError", err)
	}

	// The optimistic append already happened; the session is torn down.
	if got := len(h.chat.Messages()); got != 1 {
		t.Errorf("transcript has %d messages, want 1", got)
	}
	if h.session.IsAuthenticated() {
		t.Error("session should be invalidated after a 401 mid-send")
	}
	if got := h.nav.Last(); got != NavLogin {
		t.Errorf("navigation target = %q, want %q", got, NavLogin)
	}
}

func TestSendMessageInvalidType(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	_, err := h.chat.SendMessage(context.Background(), "hello", "video")
	if !IsValidation(err) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}

func TestSendMessageRefreshesHistory(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	h.api.History = []map[string]interface{}{
		{"id": "h1", "message": "earlier question", "createdAt": "2024-05-01T10:00:00Z"},
	}

	if _, err := h.chat.SendMessage(context.Background(), "hello", TypeChat); err != nil {
		t.Fatalf("SendMessage() failed: %v", err)
	}

	history := h.chat.History()
	if len(history) != 1 {
		t.Fatalf("history has %d entries, want 1", len(history))
	}
	if history[0].ID != "h1" {
		t.Errorf("history[0].ID = %q, want %q", history[0].ID, "h1")
	}
}

func TestClearChat(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	ctx := context.Background()

	if _, err := h.chat.SendMessage(ctx, "login flow", TypeDiagram); err != nil {
		t.Fatalf("SendMessage() failed: %v", err)
	}
	if len(h.chat.Messages()) == 0 {
		t.Fatal("expected a non-empty transcript before clearing")
	}

	h.chat.ClearChat()

	if got := len(h.chat.Messages()); got != 0 {
		t.Errorf("transcript has %d messages after clear, want 0", got)
	}
	if got := h.diagrams.Current(); got != "" {
		t.Errorf("current diagram after clear = %q, want empty", got)
	}
	if h.chat.Err() != nil {
		t.Errorf("transcript error after clear = %v, want nil", h.chat.Err())
	}
}

func TestDeleteEntry(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	ctx := context.Background()

	h.api.History = []map[string]interface{}{
		{"id": "h1", "message": "first"},
		{"id": "h2", "message": "second"},
	}

	if err := h.chat.DeleteEntry(ctx, "h1"); err != nil {
		t.Fatalf("DeleteEntry() failed: %v", err)
	}

	// The history cache is refreshed after the confirmed deletion.
	history := h.chat.History()
	if len(history) != 1 {
		t.Fatalf("history has %d entries after delete, want 1", len(history))
	}
	if history[0].ID != "h2" {
		t.Errorf("history[0].ID = %q, want %q", history[0].ID, "h2")
	}
}

func TestDeleteEntryExpiredSession(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	// Invalidate the token server-side without telling the client.
	h.api.Token = "rotated"

	err := h.chat.DeleteEntry(context.Background(), "h1")
	if !IsAuthRequired(err) {
		t.Fatalf("error = %v, want AuthRequiredError", err)
	}

	// A 401 mid-delete tears the whole session down: both token stores
	// empty, state anonymous, navigation pointed at login.
	if h.session.IsAuthenticated() {
		t.Error("session should be invalidated after a 401 mid-delete")
	}
	if got := h.tokens.Get(); got != "" {
		t.Errorf("cached token after 401 = %q, want empty", got)
	}
	if _, err := os.Stat(h.tokenPath); !os.IsNotExist(err) {
		t.Error("persisted token file should be removed after 401")
	}
	if got := h.nav.Last(); got != NavLogin {
		t.Errorf("navigation target = %q, want %q", got, NavLogin)
	}
}

func TestLoadHistoryReplaces(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	ctx := context.Background()

	h.api.History = []map[string]interface{}{
		{"id": "h1", "message": "first"},
		{"id": "h2", "message": "second"},
	}
	if err := h.chat.LoadHistory(ctx); err != nil {
		t.Fatalf("LoadHistory() failed: %v", err)
	}
	if got := len(h.chat.History()); got != 2 {
		t.Fatalf("history has %d entries, want 2", got)
	}

	// The cache is replaced wholesale, never merged.
	h.api.History = []map[string]interface{}{
		{"id": "h3", "message": "third"},
	}
	if err := h.chat.LoadHistory(ctx); err != nil {
		t.Fatalf("LoadHistory() failed: %v", err)
	}

	history := h.chat.History()
	if len(history) != 1 {
		t.Fatalf("history has %d entries, want 1", len(history))
	}
	if history[0].ID != "h3" {
		t.Errorf("history[0].ID = %q, want %q", history[0].ID, "h3")
	}
}
