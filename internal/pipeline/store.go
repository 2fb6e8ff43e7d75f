package pipeline

import "sync"

// Store owns the session State. Reads get deep clones; writes go through
// apply, which replaces fields atomically under the lock so a render
// never observes a half-updated stage.
type Store struct {
	mu    sync.RWMutex
	state State
}

// NewStore creates a store holding the initial session snapshot.
func NewStore() *Store {
	return &Store{state: initialState()}
}

// Snapshot returns an independent copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// apply runs one mutation atomically. All mutation entry points live on
// Machine; nothing outside this package writes state.
func (s *Store) apply(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}
