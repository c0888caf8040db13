// Package storage persists the ledger engine state as a single opaque blob.
//
// The engine owns its state wholesale and replaces it on every mutation, so
// the store contract is deliberately narrow: load the blob (or report that
// none exists yet) and atomically replace it.
package storage

import "sync"

// Store is the persistence contract the ledger engine depends on.
type Store interface {
	// Load returns the last saved state blob, or (nil, nil) when no state
	// has been saved yet.
	Load() ([]byte, error)
	// Save atomically replaces the state blob.
	Save(blob []byte) error
}

// MemoryStore is an in-process Store used in tests and throwaway setups.
type MemoryStore struct {
	mu   sync.Mutex
	blob []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored blob.
func (s *MemoryStore) Load() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blob == nil {
		return nil, nil
	}
	out := make([]byte, len(s.blob))
	copy(out, s.blob)
	return out, nil
}

// Save replaces the stored blob.
func (s *MemoryStore) Save(blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = make([]byte, len(blob))
	copy(s.blob, blob)
	return nil
}
