package internal

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// DiagramManager owns the single-slot "currently displayed diagram"
// and the cached list of persisted diagrams. The slot holds normalized
// mermaid source ready for rendering.
type DiagramManager struct {
	client  *Client
	session *SessionManager

	mu          sync.Mutex
	diagrams    []Diagram
	current     string
	selectToken string
}

// NewDiagramManager creates a diagram manager.
func NewDiagramManager(client *Client, session *SessionManager) *DiagramManager {
	return &DiagramManager{client: client, session: session}
}

// Current returns the normalized source of the current diagram, or ""
// when none is selected.
func (dm *DiagramManager) Current() string {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.current
}

// Diagrams returns a snapshot of the cached diagram list.
func (dm *DiagramManager) Diagrams() []Diagram {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	out := make([]Diagram, len(dm.diagrams))
	copy(out, dm.diagrams)
	return out
}

// SetCurrent replaces the current diagram unconditionally. Used by the
// chat flow when a generation response arrives.
func (dm *DiagramManager) SetCurrent(mermaid string) {
	dm.mu.Lock()
	dm.current = mermaid
	dm.mu.Unlock()
}

// ClearCurrent empties the slot.
func (dm *DiagramManager) ClearCurrent() {
	dm.mu.Lock()
	dm.current = ""
	dm.selectToken = ""
	dm.mu.Unlock()
}

// LoadAll fetches all diagrams belonging to the session, replacing the
// cached list. An authentication failure invalidates the session.
func (dm *DiagramManager) LoadAll(ctx context.Context) error {
	ds, err := dm.client.Diagrams(ctx)
	if err != nil {
		dm.session.HandleAuthError(err)
		return err
	}

	dm.mu.Lock()
	dm.diagrams = ds
	dm.mu.Unlock()
	return nil
}

// SelectByID fetches one diagram and, when it carries mermaid content,
// makes it current. Selection is request-scoped: each call claims the
// slot with a fresh token and only the response matching the most
// recent claim wins, so an out-of-order response can never clobber a
// newer selection.
func (dm *DiagramManager) SelectByID(ctx context.Context, id string) (*Diagram, error) {
	token := uuid.NewString()
	dm.mu.Lock()
	dm.selectToken = token
	dm.mu.Unlock()

	d, err := dm.client.DiagramByID(ctx, id)
	if err != nil {
		dm.session.HandleAuthError(err)
		return nil, err
	}

	mermaid := NormalizeDiagram(d)

	dm.mu.Lock()
	if dm.selectToken != token {
		// A newer selection superseded this request.
		dm.mu.Unlock()
		LogDebug("Dropping stale diagram selection %s", id)
		return d, nil
	}
	if mermaid != "" {
		dm.current = mermaid
	}
	dm.mu.Unlock()

	return d, nil
}

// Delete removes a diagram and reloads the full list. The cached list
// is only updated after the backend confirms; there is no optimistic
// removal.
func (dm *DiagramManager) Delete(ctx context.Context, id string) error {
	if err := dm.client.DeleteDiagram(ctx, id); err != nil {
		dm.session.HandleAuthError(err)
		return err
	}
	return dm.LoadAll(ctx)
}
