package preinvoice

import (
	"sync"

	"github.com/google/uuid"
	"github.com/preinvoice/backend/internal/domain/preinvoice"
	"github.com/preinvoice/backend/internal/domain/shared"
)

// SessionManager holds the draft of every open editing session. Exactly one
// draft exists per session: created empty when the session opens, replaced
// wholesale by a successful import, discarded when the session closes.
// Access from multiple surfaces of the same session is last-write-wins;
// the mutex only guards the session map itself.
type SessionManager struct {
	mu     sync.RWMutex
	drafts map[uuid.UUID]*preinvoice.Draft
}

// NewSessionManager creates an empty session manager
func NewSessionManager() *SessionManager {
	return &SessionManager{
		drafts: make(map[uuid.UUID]*preinvoice.Draft),
	}
}

// Open starts a new editing session with an empty draft
func (m *SessionManager) Open() (uuid.UUID, *preinvoice.Draft) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessionID := uuid.New()
	draft := preinvoice.NewDraft()
	m.drafts[sessionID] = draft
	return sessionID, draft
}

// Get returns the draft of an open session
func (m *SessionManager) Get(sessionID uuid.UUID) (*preinvoice.Draft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	draft, ok := m.drafts[sessionID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return draft, nil
}

// Close ends an editing session and discards its draft
func (m *SessionManager) Close(sessionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.drafts[sessionID]; !ok {
		return shared.ErrNotFound
	}
	delete(m.drafts, sessionID)
	return nil
}

// Count returns the number of open sessions
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.drafts)
}
