// Package memstore keeps the engine snapshot in process memory.
//
// It backs tests and embedded use where durability across restarts is
// not required.
package memstore

import (
	"context"
	"sync"
)

// Store is an in-memory snapshot store.
type Store struct {
	mu    sync.Mutex
	state []byte
	saves int
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{}
}

// Load returns the current snapshot, or (nil, nil) when none was saved.
func (s *Store) Load(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil, nil
	}
	out := make([]byte, len(s.state))
	copy(out, s.state)
	return out, nil
}

// Save replaces the current snapshot.
func (s *Store) Save(_ context.Context, state []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = make([]byte, len(state))
	copy(s.state, state)
	s.saves++
	return nil
}

// Saves returns the number of Save calls. Used by tests asserting
// snapshot-policy behavior.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// SetState seeds the store with a blob, as if it had been saved by an
// earlier run.
func (s *Store) SetState(state []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = make([]byte, len(state))
	copy(s.state, state)
}
