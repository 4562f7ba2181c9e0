// Package session holds per-session student contexts in memory. State lives
// only for the process lifetime; a restart starts every session fresh.
package session

import (
	"sync"

	"advisor/internal/logging"
	"advisor/internal/types"
)

// Store is a concurrency-safe session registry. Contexts are created on
// first access and evicted arbitrarily once the cap is reached.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*types.StudentContext
	max      int
}

// NewStore creates a store. max <= 0 selects the default cap of 1024.
func NewStore(max int) *Store {
	if max <= 0 {
		max = 1024
	}
	return &Store{
		sessions: make(map[string]*types.StudentContext),
		max:      max,
	}
}

// Get returns the context for a session, creating it if absent. The caller
// serializes access to the returned context per session.
func (s *Store) Get(sessionID string) *types.StudentContext {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sctx, ok := s.sessions[sessionID]; ok {
		return sctx
	}

	if len(s.sessions) >= s.max {
		// Evict one arbitrary session rather than refuse the new one. Session
		// state is advisory; losing it degrades to an empty context.
		for id := range s.sessions {
			delete(s.sessions, id)
			logging.Session("evicted session %s (cap %d reached)", id, s.max)
			break
		}
	}

	sctx := types.NewStudentContext(sessionID)
	s.sessions[sessionID] = sctx
	logging.Session("created session %s (%d active)", sessionID, len(s.sessions))
	return sctx
}

// Len reports the number of active sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Reset drops a single session's state.
func (s *Store) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
