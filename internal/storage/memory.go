package storage

import (
	"context"
	"slices"
	"sync"

	"moneymanager/internal/core"
)

// MemoryStore keeps states in process memory. Values are deep-copied on
// the way in and out so callers never share slices with the store.
type MemoryStore struct {
	mu     sync.Mutex
	states map[string]core.UserLedgerState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]core.UserLedgerState)}
}

func (s *MemoryStore) Load(_ context.Context, username string) (core.UserLedgerState, error) {
	if err := ValidateUsername(username); err != nil {
		return core.UserLedgerState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[username].Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, username string, state core.UserLedgerState) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[username] = state.Clone()
	return nil
}

// Users returns the usernames with a saved state.
func (s *MemoryStore) Users(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.states))
	for u := range s.states {
		out = append(out, u)
	}
	slices.Sort(out)
	return out, nil
}
