package engine

import "sync"

// sessionLocks serializes turn processing per session id. Different
// sessions proceed fully in parallel; two turns for the same session are
// processed in lock-acquisition order, which preserves the monotonicity of
// turn indexes and the snapshot.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sync.Mutex)}
}

// get returns the mutex for a session id, creating it on first use.
func (s *sessionLocks) get(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}
