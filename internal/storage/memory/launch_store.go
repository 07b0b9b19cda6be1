package memory

import (
	"context"
	"sort"
	"sync"

	"petpad-launchpad/internal/domain"
	"petpad-launchpad/internal/storage"
)

// LaunchStore is an in-memory implementation of storage.LaunchStore.
type LaunchStore struct {
	mu   sync.RWMutex
	data map[string]*domain.LaunchRecord // keyed by symbol
}

// NewLaunchStore creates a new in-memory launch store.
func NewLaunchStore() *LaunchStore {
	return &LaunchStore{
		data: make(map[string]*domain.LaunchRecord),
	}
}

// Insert adds a new launch record. Returns ErrDuplicateKey if the symbol exists.
func (s *LaunchStore) Insert(_ context.Context, r *domain.LaunchRecord) error {
	if r == nil || r.Request.Symbol == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.Request.Symbol]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	recordCopy := *r
	s.data[r.Request.Symbol] = &recordCopy
	return nil
}

// GetBySymbol retrieves a record by its symbol. Returns ErrNotFound if not exists.
func (s *LaunchStore) GetBySymbol(_ context.Context, symbol string) (*domain.LaunchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[symbol]
	if !exists {
		return nil, storage.ErrNotFound
	}

	recordCopy := *r
	return &recordCopy, nil
}

// GetAll retrieves all records ordered by launched_at DESC.
func (s *LaunchStore) GetAll(_ context.Context) ([]*domain.LaunchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.LaunchRecord, 0, len(s.data))
	for _, r := range s.data {
		recordCopy := *r
		result = append(result, &recordCopy)
	}

	// Newest first; symbol breaks ties for deterministic ordering
	sort.Slice(result, func(i, j int) bool {
		if result[i].LaunchedAt != result[j].LaunchedAt {
			return result[i].LaunchedAt > result[j].LaunchedAt
		}
		return result[i].Request.Symbol < result[j].Request.Symbol
	})

	return result, nil
}

// Count returns the number of launch records.
func (s *LaunchStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data), nil
}

// Verify interface compliance at compile time.
var _ storage.LaunchStore = (*LaunchStore)(nil)
