package postgres

import (
	"context"
	"fmt"
	"time"

	"petpad-launchpad/internal/storage"
)

// ProcessedPostStore implements storage.ProcessedPostStore using PostgreSQL.
type ProcessedPostStore struct {
	pool *Pool
}

// NewProcessedPostStore creates a new ProcessedPostStore.
func NewProcessedPostStore(pool *Pool) *ProcessedPostStore {
	return &ProcessedPostStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ProcessedPostStore = (*ProcessedPostStore)(nil)

// Contains reports whether a post id has been marked processed.
func (s *ProcessedPostStore) Contains(ctx context.Context, postID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM processed_posts WHERE post_id = $1)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, postID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check processed post: %w", err)
	}
	return exists, nil
}

// Add marks a post id as processed. Adding an already-present id is a no-op.
func (s *ProcessedPostStore) Add(ctx context.Context, postID string) error {
	if postID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO processed_posts (post_id, processed_at)
		VALUES ($1, $2)
		ON CONFLICT (post_id) DO NOTHING
	`

	if _, err := s.pool.Exec(ctx, query, postID, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("add processed post: %w", err)
	}
	return nil
}

// Count returns the number of processed post ids.
func (s *ProcessedPostStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM processed_posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count processed posts: %w", err)
	}
	return count, nil
}
