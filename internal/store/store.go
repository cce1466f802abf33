// Package store persists portfolio positions, watchlist entries, and
// run history in Postgres via pgx.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps a pgx connection pool. Zero-value Store is unusable;
// create one with Open.
type Store struct {
	pool *pgxpool.Pool

	Portfolio *PortfolioRepository
	Watchlist *WatchlistRepository
	Runs      *RunRepository
}

// Open connects to Postgres, verifies the connection, and applies
// migrations.
func Open(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	s.Portfolio = &PortfolioRepository{pool: pool}
	s.Watchlist = &WatchlistRepository{pool: pool}
	s.Runs = &RunRepository{pool: pool}
	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// migrate creates the schema. Statements are idempotent so startup can
// always run them.
func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS positions (
			id          BIGSERIAL PRIMARY KEY,
			ticker      TEXT NOT NULL,
			shares      DOUBLE PRECISION NOT NULL,
			cost_basis  DOUBLE PRECISION NOT NULL,
			bought_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
			notes       TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS watchlist (
			id       BIGSERIAL PRIMARY KEY,
			ticker   TEXT NOT NULL UNIQUE,
			notes    TEXT NOT NULL DEFAULT '',
			added_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id          BIGSERIAL PRIMARY KEY,
			universe    TEXT NOT NULL,
			variant     TEXT NOT NULL,
			started_at  TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL,
			ranked      INT NOT NULL,
			result      JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_positions_ticker ON positions (ticker)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs (started_at DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
