package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marketlens/backend/internal/contracts"
)

// Repository persists the analysis audit log in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new history repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the analyses table if it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS analyses (
			id          BIGSERIAL PRIMARY KEY,
			company     TEXT NOT NULL,
			ticker      TEXT NOT NULL,
			top_tickers TEXT[] NOT NULL DEFAULT '{}',
			duration_ms BIGINT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create analyses table: %w", err)
	}
	return nil
}

// Record inserts one analysis entry.
func (r *Repository) Record(ctx context.Context, entry contracts.AnalysisEntry) error {
	query := `
		INSERT INTO analyses (company, ticker, top_tickers, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.Company, entry.Ticker, entry.TopTickers, entry.DurationMS, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// Recent returns the most recent analyses, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]contracts.AnalysisEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, company, ticker, top_tickers, duration_ms, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var entries []contracts.AnalysisEntry
	for rows.Next() {
		var e contracts.AnalysisEntry
		if err := rows.Scan(&e.ID, &e.Company, &e.Ticker, &e.TopTickers, &e.DurationMS, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
