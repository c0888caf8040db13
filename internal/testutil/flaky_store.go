package testutil

import (
	"errors"
	"sync"
)

// FlakyStore is an in-memory store whose Save can be made to fail on demand,
// for exercising persist-failure paths.
type FlakyStore struct {
	mu      sync.Mutex
	blob    []byte
	failing bool
}

// ErrSaveFailed is returned by Save while the store is failing.
var ErrSaveFailed = errors.New("save failed")

// FailSaves toggles whether subsequent Save calls fail.
func (s *FlakyStore) FailSaves(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = fail
}

// Load returns the stored blob.
func (s *FlakyStore) Load() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blob == nil {
		return nil, nil
	}
	out := make([]byte, len(s.blob))
	copy(out, s.blob)
	return out, nil
}

// Save replaces the stored blob, or fails when armed.
func (s *FlakyStore) Save(blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return ErrSaveFailed
	}
	s.blob = make([]byte, len(blob))
	copy(s.blob, blob)
	return nil
}
