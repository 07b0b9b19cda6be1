package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petpad-launchpad/internal/domain"
	"petpad-launchpad/internal/storage"
)

func TestLaunchStore_InsertAndGetBySymbol(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewLaunchStore(pool)
	ctx := context.Background()

	record := &domain.LaunchRecord{
		Request: domain.LaunchRequest{
			Name:        "Doge Prime",
			Symbol:      "DOGEP",
			Wallet:      "0x1234567890abcdef1234567890abcdef12345678",
			Description: "the first dog",
			PetType:     domain.PetDog,
			Website:     ptr("https://dogep.example"),
		},
		ImageURL:        "https://iili.io/abc.png",
		ContractAddress: "0xc0ffee254729296a45a3885639ac7e10f9d54979",
		TxHash:          "0xdeadbeef",
		LaunchPageURL:   "https://clawn.ch/t/dogep",
		SourcePostID:    "post-1",
		SourcePostURL:   "https://www.moltbook.com/post/post-1",
		AnnouncePostID:  "post-2",
		AnnouncePostURL: "https://www.moltbook.com/post/post-2",
		AgentName:       "agent-smith",
		LaunchedAt:      1700000000000,
	}

	err := store.Insert(ctx, record)
	require.NoError(t, err)

	retrieved, err := store.GetBySymbol(ctx, "DOGEP")
	require.NoError(t, err)

	assert.Equal(t, record.Request.Name, retrieved.Request.Name)
	assert.Equal(t, record.Request.Symbol, retrieved.Request.Symbol)
	assert.Equal(t, record.Request.Wallet, retrieved.Request.Wallet)
	assert.Equal(t, record.Request.PetType, retrieved.Request.PetType)
	require.NotNil(t, retrieved.Request.Website)
	assert.Equal(t, *record.Request.Website, *retrieved.Request.Website)
	assert.Nil(t, retrieved.Request.Twitter)
	assert.Equal(t, record.ImageURL, retrieved.ImageURL)
	assert.Equal(t, record.ContractAddress, retrieved.ContractAddress)
	assert.Equal(t, record.TxHash, retrieved.TxHash)
	assert.Equal(t, record.LaunchPageURL, retrieved.LaunchPageURL)
	assert.Equal(t, record.SourcePostID, retrieved.SourcePostID)
	assert.Equal(t, record.AnnouncePostURL, retrieved.AnnouncePostURL)
	assert.Equal(t, record.AgentName, retrieved.AgentName)
	assert.Equal(t, record.LaunchedAt, retrieved.LaunchedAt)
}

func TestLaunchStore_InsertDuplicateSymbol(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewLaunchStore(pool)
	ctx := context.Background()

	record := &domain.LaunchRecord{
		Request: domain.LaunchRequest{
			Name:        "Cat Coin",
			Symbol:      "MEOW",
			Wallet:      "0x1234567890abcdef1234567890abcdef12345678",
			Description: "cats",
			PetType:     domain.PetCat,
		},
		ImageURL:        "https://iili.io/cat.png",
		ContractAddress: "0xaaa",
		TxHash:          "0xbbb",
		LaunchPageURL:   "https://clawn.ch/t/meow",
		SourcePostID:    "post-3",
		SourcePostURL:   "https://www.moltbook.com/post/post-3",
		AnnouncePostID:  "post-4",
		AnnouncePostURL: "https://www.moltbook.com/post/post-4",
		AgentName:       "agent-a",
		LaunchedAt:      1700000000000,
	}

	err := store.Insert(ctx, record)
	require.NoError(t, err)

	dup := *record
	dup.ContractAddress = "0xccc"
	err = store.Insert(ctx, &dup)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Original record survives untouched
	retrieved, err := store.GetBySymbol(ctx, "MEOW")
	require.NoError(t, err)
	assert.Equal(t, "0xaaa", retrieved.ContractAddress)
}

func TestLaunchStore_GetBySymbolNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewLaunchStore(pool)

	_, err := store.GetBySymbol(context.Background(), "MISSING")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLaunchStore_GetAllOrderedNewestFirst(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewLaunchStore(pool)
	ctx := context.Background()

	symbols := []struct {
		symbol     string
		launchedAt int64
	}{
		{"OLD", 1700000000000},
		{"NEW", 1700000200000},
		{"MID", 1700000100000},
	}

	for _, s := range symbols {
		record := &domain.LaunchRecord{
			Request: domain.LaunchRequest{
				Name:        s.symbol,
				Symbol:      s.symbol,
				Wallet:      "0x1234567890abcdef1234567890abcdef12345678",
				Description: "d",
				PetType:     domain.PetBunny,
			},
			ImageURL:        "https://iili.io/x.png",
			ContractAddress: "0x1",
			TxHash:          "0x2",
			LaunchPageURL:   "https://clawn.ch/t/x",
			SourcePostID:    "src-" + s.symbol,
			SourcePostURL:   "https://www.moltbook.com/post/src-" + s.symbol,
			AnnouncePostID:  "ann-" + s.symbol,
			AnnouncePostURL: "https://www.moltbook.com/post/ann-" + s.symbol,
			AgentName:       "agent",
			LaunchedAt:      s.launchedAt,
		}
		require.NoError(t, store.Insert(ctx, record))
	}

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, "NEW", all[0].Request.Symbol)
	assert.Equal(t, "MID", all[1].Request.Symbol)
	assert.Equal(t, "OLD", all[2].Request.Symbol)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
