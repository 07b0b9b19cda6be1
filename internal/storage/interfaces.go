package storage

import (
	"context"

	"petpad-launchpad/internal/domain"
)

// ProcessedPostStore tracks which feed posts have already been examined.
// Posts are added at most once and never removed.
type ProcessedPostStore interface {
	// Contains reports whether a post id has been marked processed.
	Contains(ctx context.Context, postID string) (bool, error)

	// Add marks a post id as processed. Adding an already-present id is a no-op.
	Add(ctx context.Context, postID string) error

	// Count returns the number of processed post ids.
	Count(ctx context.Context) (int, error)
}

// LaunchStore provides access to completed launch records, keyed by symbol.
type LaunchStore interface {
	// Insert adds a new launch record. Returns ErrDuplicateKey if the symbol exists.
	Insert(ctx context.Context, r *domain.LaunchRecord) error

	// GetBySymbol retrieves a record by its symbol. Returns ErrNotFound if not exists.
	GetBySymbol(ctx context.Context, symbol string) (*domain.LaunchRecord, error)

	// GetAll retrieves all records ordered by launched_at DESC.
	GetAll(ctx context.Context) ([]*domain.LaunchRecord, error)

	// Count returns the number of launch records.
	Count(ctx context.Context) (int, error)
}
