package engine

import (
	"sync"

	"github.com/varunhm/honeynet/internal/domain"
	"github.com/varunhm/honeynet/internal/store"
)

// SessionStore is the persistence contract for sessions. Load and Save are
// atomic at whole-session granularity; a missing session loads as nil
// without error.
type SessionStore interface {
	// Load returns the session or nil if it does not exist.
	Load(id string) (*domain.Session, error)

	// Save persists the whole session atomically.
	Save(s *domain.Session) error

	// MarkCallbackSent atomically flips the callback flag from false to
	// true, returning true only for the caller that made the transition.
	MarkCallbackSent(id string) (bool, error)

	// RecordDeadLetter stores a permanently failed callback delivery.
	RecordDeadLetter(payload domain.CallbackPayload, reason string) error

	// List returns all known session ids.
	List() ([]string, error)

	// DeadLetters returns recorded delivery failures, optionally filtered
	// by session id.
	DeadLetters(sessionID string) ([]store.DeadLetter, error)
}

// MemoryStore is a volatile SessionStore for tests and single-process
// deployments. Sessions are cloned on the way in and out so callers never
// hold a live reference to stored state.
type MemoryStore struct {
	mu          sync.RWMutex
	sessions    map[string]*domain.Session
	deadLetters []store.DeadLetter
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*domain.Session)}
}

func (m *MemoryStore) Load(id string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return sess.Clone(), nil
}

func (m *MemoryStore) Save(s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := s.Clone()
	if prev, ok := m.sessions[s.ID]; ok && prev.CallbackSent {
		// the flag never reverses once set
		cp.CallbackSent = true
	}
	m.sessions[s.ID] = cp
	return nil
}

func (m *MemoryStore) MarkCallbackSent(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok || sess.CallbackSent {
		return false, nil
	}
	sess.CallbackSent = true
	return true, nil
}

func (m *MemoryStore) RecordDeadLetter(payload domain.CallbackPayload, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deadLetters = append(m.deadLetters, store.DeadLetter{
		SessionID: payload.SessionID,
		Reason:    reason,
	})
	return nil
}

func (m *MemoryStore) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *MemoryStore) DeadLetters(sessionID string) ([]store.DeadLetter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []store.DeadLetter
	for _, dl := range m.deadLetters {
		if sessionID == "" || dl.SessionID == sessionID {
			out = append(out, dl)
		}
	}
	return out, nil
}
