package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khanrehan/halalinvest/pkg/models"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// PortfolioRepository stores portfolio positions.
type PortfolioRepository struct {
	pool *pgxpool.Pool
}

// Add inserts a position and returns it with its assigned ID.
func (r *PortfolioRepository) Add(ctx context.Context, p models.Position) (models.Position, error) {
	if p.BoughtAt.IsZero() {
		p.BoughtAt = time.Now()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO positions (ticker, shares, cost_basis, bought_at, notes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		p.Ticker, p.Shares, p.CostBasis, p.BoughtAt, p.Notes,
	).Scan(&p.ID)
	if err != nil {
		return models.Position{}, fmt.Errorf("add position: %w", err)
	}
	return p, nil
}

// List returns all positions, oldest purchase first.
func (r *PortfolioRepository) List(ctx context.Context) ([]models.Position, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, ticker, shares, cost_basis, bought_at, notes
		 FROM positions
		 ORDER BY bought_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	var positions []models.Position
	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.ID, &p.Ticker, &p.Shares, &p.CostBasis, &p.BoughtAt, &p.Notes); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// Get returns one position by ID.
func (r *PortfolioRepository) Get(ctx context.Context, id int64) (models.Position, error) {
	var p models.Position
	err := r.pool.QueryRow(ctx,
		`SELECT id, ticker, shares, cost_basis, bought_at, notes
		 FROM positions WHERE id = $1`, id,
	).Scan(&p.ID, &p.Ticker, &p.Shares, &p.CostBasis, &p.BoughtAt, &p.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Position{}, fmt.Errorf("position %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Position{}, fmt.Errorf("get position: %w", err)
	}
	return p, nil
}

// Remove deletes a position.
func (r *PortfolioRepository) Remove(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM positions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("remove position: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("position %d: %w", id, ErrNotFound)
	}
	return nil
}

// WatchlistRepository stores watched tickers.
type WatchlistRepository struct {
	pool *pgxpool.Pool
}

// Add inserts a ticker; adding an existing ticker updates its notes.
func (r *WatchlistRepository) Add(ctx context.Context, e models.WatchlistEntry) (models.WatchlistEntry, error) {
	if e.AddedAt.IsZero() {
		e.AddedAt = time.Now()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO watchlist (ticker, notes, added_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (ticker) DO UPDATE SET notes = EXCLUDED.notes
		 RETURNING id, added_at`,
		e.Ticker, e.Notes, e.AddedAt,
	).Scan(&e.ID, &e.AddedAt)
	if err != nil {
		return models.WatchlistEntry{}, fmt.Errorf("add watchlist entry: %w", err)
	}
	return e, nil
}

// List returns all watched tickers, oldest first.
func (r *WatchlistRepository) List(ctx context.Context) ([]models.WatchlistEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, ticker, notes, added_at FROM watchlist ORDER BY added_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	defer rows.Close()

	var entries []models.WatchlistEntry
	for rows.Next() {
		var e models.WatchlistEntry
		if err := rows.Scan(&e.ID, &e.Ticker, &e.Notes, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("scan watchlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Remove deletes a ticker from the watchlist.
func (r *WatchlistRepository) Remove(ctx context.Context, ticker string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM watchlist WHERE ticker = $1`, ticker)
	if err != nil {
		return fmt.Errorf("remove watchlist entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("watchlist %s: %w", ticker, ErrNotFound)
	}
	return nil
}
