package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/khanrehan/halalinvest/internal/pipeline"
	"github.com/khanrehan/halalinvest/pkg/models"
)

// These tests need a real Postgres. Point HALALINVEST_TEST_DATABASE_URL
// at a scratch database to run them.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("HALALINVEST_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("HALALINVEST_TEST_DATABASE_URL not set")
	}
	s, err := Open(context.Background(), url)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestPortfolioRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p, err := s.Portfolio.Add(ctx, models.Position{
		Ticker:    "AAPL",
		Shares:    10,
		CostBasis: 180.5,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("Add should assign an ID")
	}
	defer s.Portfolio.Remove(ctx, p.ID)

	got, err := s.Portfolio.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Ticker != "AAPL" || got.Shares != 10 {
		t.Errorf("got %+v", got)
	}

	if err := s.Portfolio.Remove(ctx, p.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := s.Portfolio.Get(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestWatchlistUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e1, err := s.Watchlist.Add(ctx, models.WatchlistEntry{Ticker: "MSFT", Notes: "first"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	defer s.Watchlist.Remove(ctx, "MSFT")

	e2, err := s.Watchlist.Add(ctx, models.WatchlistEntry{Ticker: "MSFT", Notes: "updated"})
	if err != nil {
		t.Fatalf("Add again: %v", err)
	}
	if e1.ID != e2.ID {
		t.Errorf("re-adding should keep the row: %d vs %d", e1.ID, e2.ID)
	}

	entries, err := s.Watchlist.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found := false
	for _, e := range entries {
		if e.Ticker == "MSFT" && e.Notes == "updated" {
			found = true
		}
	}
	if !found {
		t.Error("updated entry not found in list")
	}
}

func TestRunHistory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	res := &pipeline.RunResult{
		Universe:   "sp500",
		Variant:    "gated",
		StartedAt:  time.Now().Add(-time.Minute),
		FinishedAt: time.Now(),
		Ranked: []models.ScoreResult{
			{Ticker: "AAPL", Composite: models.Some(71.5)},
		},
	}
	id, err := s.Runs.Save(ctx, res)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Runs.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Ranked) != 1 || loaded.Ranked[0].Ticker != "AAPL" {
		t.Errorf("loaded = %+v", loaded.Ranked)
	}

	recent, err := s.Runs.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) == 0 || recent[0].Universe == "" {
		t.Error("expected at least the run just saved")
	}
}
