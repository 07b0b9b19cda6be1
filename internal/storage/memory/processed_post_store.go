package memory

import (
	"context"
	"sync"

	"petpad-launchpad/internal/storage"
)

// ProcessedPostStore is an in-memory implementation of storage.ProcessedPostStore.
type ProcessedPostStore struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewProcessedPostStore creates a new in-memory processed-post store.
func NewProcessedPostStore() *ProcessedPostStore {
	return &ProcessedPostStore{
		seen: make(map[string]struct{}),
	}
}

// Contains reports whether a post id has been marked processed.
func (s *ProcessedPostStore) Contains(_ context.Context, postID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.seen[postID]
	return ok, nil
}

// Add marks a post id as processed. Adding an already-present id is a no-op.
func (s *ProcessedPostStore) Add(_ context.Context, postID string) error {
	if postID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seen[postID] = struct{}{}
	return nil
}

// Count returns the number of processed post ids.
func (s *ProcessedPostStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.seen), nil
}

// Verify interface compliance at compile time.
var _ storage.ProcessedPostStore = (*ProcessedPostStore)(nil)
