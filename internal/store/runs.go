package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khanrehan/halalinvest/internal/pipeline"
)

// RunSummary is one stored pipeline run without its full payload.
type RunSummary struct {
	ID         int64     `json:"id"`
	Universe   string    `json:"universe"`
	Variant    string    `json:"variant"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Ranked     int       `json:"ranked"`
}

// RunRepository stores pipeline run history. The full run result is
// kept as JSONB so old runs stay inspectable as the schema evolves.
type RunRepository struct {
	pool *pgxpool.Pool
}

// Save persists a finished run and returns its ID.
func (r *RunRepository) Save(ctx context.Context, res *pipeline.RunResult) (int64, error) {
	payload, err := json.Marshal(res)
	if err != nil {
		return 0, fmt.Errorf("marshal run result: %w", err)
	}

	var id int64
	err = r.pool.QueryRow(ctx,
		`INSERT INTO runs (universe, variant, started_at, finished_at, ranked, result)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		res.Universe, res.Variant, res.StartedAt, res.FinishedAt, len(res.Ranked), payload,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save run: %w", err)
	}
	return id, nil
}

// Recent returns summaries of the latest runs, newest first.
func (r *RunRepository) Recent(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, universe, variant, started_at, finished_at, ranked
		 FROM runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.ID, &s.Universe, &s.Variant, &s.StartedAt, &s.FinishedAt, &s.Ranked); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Load returns the full stored result of one run.
func (r *RunRepository) Load(ctx context.Context, id int64) (*pipeline.RunResult, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx, `SELECT result FROM runs WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load run %d: %w", id, err)
	}
	var res pipeline.RunResult
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, fmt.Errorf("unmarshal run %d: %w", id, err)
	}
	return &res, nil
}
