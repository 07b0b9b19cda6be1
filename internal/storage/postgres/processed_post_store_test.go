package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessedPostStore_AddAndContains(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProcessedPostStore(pool)
	ctx := context.Background()

	seen, err := store.Contains(ctx, "post-1")
	require.NoError(t, err)
	assert.False(t, seen)

	err = store.Add(ctx, "post-1")
	require.NoError(t, err)

	seen, err = store.Contains(ctx, "post-1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestProcessedPostStore_AddIdempotent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProcessedPostStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "post-1"))
	require.NoError(t, store.Add(ctx, "post-1"))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
