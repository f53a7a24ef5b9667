// In-memory exchange history.
//
// Information Hiding:
// - Map storage structure hidden from users
// - Thread-safe access via RWMutex hidden behind interface
// - Suitable for testing and ephemeral sessions

package storage

import (
	"context"
	"sync"
)

// InMemoryStore implements HistoryStore using an in-memory map.
// Data is lost when the process terminates.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]Exchange
}

// NewInMemoryStore creates a new in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string][]Exchange),
	}
}

// Append records one exchange.
func (s *InMemoryStore) Append(ctx context.Context, ex Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[ex.SessionID] = append(s.sessions[ex.SessionID], ex)
	return nil
}

// Recent returns up to limit exchanges for a session, oldest first.
// Returns an empty slice for unknown sessions.
func (s *InMemoryStore) Recent(ctx context.Context, sessionID string, limit int) ([]Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.sessions[sessionID]
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}

	// Return a copy to avoid external mutations
	copied := make([]Exchange, len(history))
	copy(copied, history)
	return copied, nil
}

// Sessions lists all known session ids.
func (s *InMemoryStore) Sessions(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		sessions = append(sessions, id)
	}
	return sessions, nil
}

// Delete removes every exchange for a session.
func (s *InMemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

// Verify InMemoryStore implements HistoryStore
var _ HistoryStore = (*InMemoryStore)(nil)
