// Package ledger is the in-process record of examined posts and completed
// launches. It enforces exactly-once processing per post id and at most one
// launch per symbol, and serves ordered snapshots to the query API.
package ledger

import (
	"context"
	"fmt"

	"petpad-launchpad/internal/domain"
	"petpad-launchpad/internal/storage"
)

// DefaultListLimit is applied when a list request carries no explicit limit.
const DefaultListLimit = 50

// Ledger tracks processed posts and completed launches through
// injectable storage backends.
type Ledger struct {
	posts    storage.ProcessedPostStore
	launches storage.LaunchStore
}

// New creates a Ledger over the given stores.
func New(posts storage.ProcessedPostStore, launches storage.LaunchStore) *Ledger {
	return &Ledger{posts: posts, launches: launches}
}

// HasProcessed reports whether a post id has already been examined.
func (l *Ledger) HasProcessed(ctx context.Context, postID string) (bool, error) {
	return l.posts.Contains(ctx, postID)
}

// MarkProcessed records a post id as examined. Marking twice is a no-op.
func (l *Ledger) MarkProcessed(ctx context.Context, postID string) error {
	return l.posts.Add(ctx, postID)
}

// IsSymbolTaken reports whether a launch record exists for the symbol.
func (l *Ledger) IsSymbolTaken(ctx context.Context, symbol string) (bool, error) {
	_, err := l.launches.GetBySymbol(ctx, symbol)
	if err == nil {
		return true, nil
	}
	if err == storage.ErrNotFound {
		return false, nil
	}
	return false, fmt.Errorf("lookup symbol %s: %w", symbol, err)
}

// Commit stores a completed launch. Returns storage.ErrDuplicateKey if the
// symbol is already taken; the existing record is never overwritten.
func (l *Ledger) Commit(ctx context.Context, r *domain.LaunchRecord) error {
	return l.launches.Insert(ctx, r)
}

// Records returns all launch records, newest first.
func (l *Ledger) Records(ctx context.Context) ([]*domain.LaunchRecord, error) {
	return l.launches.GetAll(ctx)
}

// LaunchCount returns the number of completed launches.
func (l *Ledger) LaunchCount(ctx context.Context) (int, error) {
	return l.launches.Count(ctx)
}

// ProcessedCount returns the number of examined posts.
func (l *Ledger) ProcessedCount(ctx context.Context) (int, error) {
	return l.posts.Count(ctx)
}

// ListFilter selects and pages launch records.
// Zero-valued fields are ignored; Limit defaults to DefaultListLimit.
type ListFilter struct {
	Agent   string
	PetType string
	Offset  int
	Limit   int
}

// Page is one page of launch records, newest first.
type Page struct {
	Records []*domain.LaunchRecord
	Limit   int
	Offset  int
	Total   int
	HasMore bool
}

// List returns launch records matching the filter, sorted by launch time
// descending, with offset/limit pagination. Paging past the end yields the
// remaining items (possibly none); HasMore is offset+limit < total, where
// total counts records after filtering.
func (l *Ledger) List(ctx context.Context, f ListFilter) (*Page, error) {
	all, err := l.launches.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list launches: %w", err)
	}

	filtered := all[:0:0]
	for _, r := range all {
		if f.Agent != "" && r.AgentName != f.Agent {
			continue
		}
		if f.PetType != "" && string(r.Request.PetType) != f.PetType {
			continue
		}
		filtered = append(filtered, r)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	total := len(filtered)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &Page{
		Records: filtered[start:end],
		Limit:   limit,
		Offset:  offset,
		Total:   total,
		HasMore: offset+limit < total,
	}, nil
}

// Stats returns the number of launches per pet type.
func (l *Ledger) Stats(ctx context.Context) (map[domain.PetType]int, error) {
	all, err := l.launches.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}

	counts := make(map[domain.PetType]int)
	for _, r := range all {
		counts[r.Request.PetType]++
	}
	return counts, nil
}
