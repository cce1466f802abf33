package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/khanrehan/halalinvest/pkg/models"
)

// Static is an in-memory Provider backed by pre-built snapshots. It
// serves tests and offline runs against saved data.
type Static struct {
	name  string
	snaps map[string]*models.StockSnapshot
}

// NewStatic creates a static provider over the given snapshots, keyed
// by ticker.
func NewStatic(snaps ...*models.StockSnapshot) *Static {
	s := &Static{name: "static", snaps: make(map[string]*models.StockSnapshot, len(snaps))}
	for _, snap := range snaps {
		s.snaps[snap.Ticker] = snap
	}
	return s
}

// Name returns the provider name.
func (s *Static) Name() string { return s.name }

// Snapshot returns the stored snapshot for the ticker.
func (s *Static) Snapshot(_ context.Context, ticker string) (*models.StockSnapshot, error) {
	snap, ok := s.snaps[ticker]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}
	return snap, nil
}

// History returns the stored snapshot's bars clipped to the range.
func (s *Static) History(_ context.Context, ticker string, from, to time.Time) ([]models.OHLCV, error) {
	snap, ok := s.snaps[ticker]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}
	var out []models.OHLCV
	for _, bar := range snap.History {
		if !bar.Timestamp.Before(from) && !bar.Timestamp.After(to) {
			out = append(out, bar)
		}
	}
	return out, nil
}
