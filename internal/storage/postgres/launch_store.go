package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"petpad-launchpad/internal/domain"
	"petpad-launchpad/internal/storage"
)

// LaunchStore implements storage.LaunchStore using PostgreSQL.
type LaunchStore struct {
	pool *Pool
}

// NewLaunchStore creates a new LaunchStore.
func NewLaunchStore(pool *Pool) *LaunchStore {
	return &LaunchStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LaunchStore = (*LaunchStore)(nil)

const launchColumns = `
	symbol, name, wallet, description, pet_type, website, twitter,
	image_url, contract_address, tx_hash, launch_page_url,
	source_post_id, source_post_url, announce_post_id, announce_post_url,
	agent_name, launched_at
`

// Insert adds a new launch record. Returns ErrDuplicateKey if the symbol exists.
func (s *LaunchStore) Insert(ctx context.Context, r *domain.LaunchRecord) error {
	if r == nil || r.Request.Symbol == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO launches (` + launchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := s.pool.Exec(ctx, query,
		r.Request.Symbol,
		r.Request.Name,
		r.Request.Wallet,
		r.Request.Description,
		string(r.Request.PetType),
		r.Request.Website,
		r.Request.Twitter,
		r.ImageURL,
		r.ContractAddress,
		r.TxHash,
		r.LaunchPageURL,
		r.SourcePostID,
		r.SourcePostURL,
		r.AnnouncePostID,
		r.AnnouncePostURL,
		r.AgentName,
		r.LaunchedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert launch: %w", err)
	}
	return nil
}

// GetBySymbol retrieves a record by its symbol. Returns ErrNotFound if not exists.
func (s *LaunchStore) GetBySymbol(ctx context.Context, symbol string) (*domain.LaunchRecord, error) {
	query := `SELECT ` + launchColumns + ` FROM launches WHERE symbol = $1`

	row := s.pool.QueryRow(ctx, query, symbol)
	r, err := scanLaunch(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get launch by symbol: %w", err)
	}
	return r, nil
}

// GetAll retrieves all records ordered by launched_at DESC.
func (s *LaunchStore) GetAll(ctx context.Context) ([]*domain.LaunchRecord, error) {
	query := `SELECT ` + launchColumns + ` FROM launches ORDER BY launched_at DESC, symbol ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all launches: %w", err)
	}
	defer rows.Close()

	var records []*domain.LaunchRecord
	for rows.Next() {
		r, err := scanLaunch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan launch row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate launch rows: %w", err)
	}

	return records, nil
}

// Count returns the number of launch records.
func (s *LaunchStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM launches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count launches: %w", err)
	}
	return count, nil
}

// scanLaunch scans a single row into a LaunchRecord.
func scanLaunch(row pgx.Row) (*domain.LaunchRecord, error) {
	var r domain.LaunchRecord
	var petTypeStr string

	err := row.Scan(
		&r.Request.Symbol,
		&r.Request.Name,
		&r.Request.Wallet,
		&r.Request.Description,
		&petTypeStr,
		&r.Request.Website,
		&r.Request.Twitter,
		&r.ImageURL,
		&r.ContractAddress,
		&r.TxHash,
		&r.LaunchPageURL,
		&r.SourcePostID,
		&r.SourcePostURL,
		&r.AnnouncePostID,
		&r.AnnouncePostURL,
		&r.AgentName,
		&r.LaunchedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Request.PetType = domain.PetType(petTypeStr)
	return &r, nil
}
