// Package pipeline orchestrates a full screening-and-scoring run over
// a stock universe: fetch each snapshot and its price history, apply
// the compliance gate when the variant calls for it, extract
// fundamentals and technicals, and rank the survivors by composite
// score. Stocks are processed concurrently with a bounded worker
// count; one stock's failure never aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/khanrehan/halalinvest/internal/datasource"
	"github.com/khanrehan/halalinvest/internal/fundamentals"
	"github.com/khanrehan/halalinvest/internal/scoring"
	"github.com/khanrehan/halalinvest/internal/screener"
	"github.com/khanrehan/halalinvest/internal/technicals"
	"github.com/khanrehan/halalinvest/internal/universe"
	"github.com/khanrehan/halalinvest/pkg/models"
)

// Event reports per-stock progress during a run.
type Event struct {
	Ticker  string `json:"ticker"`
	Done    int    `json:"done"`
	Total   int    `json:"total"`
	Stage   string `json:"stage"` // "scored", "excluded", "failed"
	Message string `json:"message,omitempty"`
}

// ProgressFunc receives events as stocks finish. It is called from
// worker goroutines and must be safe for concurrent use.
type ProgressFunc func(Event)

// StockResult is everything the pipeline produced for one ticker.
type StockResult struct {
	Ticker       string                      `json:"ticker"`
	Snapshot     *models.StockSnapshot       `json:"snapshot,omitempty"`
	Compliance   *models.ComplianceResult    `json:"compliance,omitempty"`
	Fundamentals *models.FundamentalMetrics  `json:"fundamentals,omitempty"`
	Technical    *models.TechnicalSignal     `json:"technical,omitempty"`
	Score        *models.ScoreResult         `json:"score,omitempty"`
	Excluded     bool                        `json:"excluded"`
	Reason       string                      `json:"reason,omitempty"`
	Err          error                       `json:"-"`
}

// RunResult is the outcome of one pipeline run.
type RunResult struct {
	Universe   string               `json:"universe"`
	Variant    string               `json:"variant"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	Stocks     []StockResult        `json:"stocks"`
	Ranked     []models.ScoreResult `json:"ranked"`
}

// Pipeline wires a provider, the compliance screener, and a scorer
// into one runnable unit.
type Pipeline struct {
	provider     datasource.Provider
	screener     *screener.Screener
	scorer       *scoring.Scorer
	concurrency  int
	historyYears int
	log          zerolog.Logger
}

// Options configure a pipeline.
type Options struct {
	Provider     datasource.Provider
	Screener     *screener.Screener
	Scorer       *scoring.Scorer
	Concurrency  int
	HistoryYears int
	Logger       zerolog.Logger
}

// New creates a pipeline. Zero Concurrency defaults to 8 workers and
// zero HistoryYears to 10.
func New(opts Options) *Pipeline {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.HistoryYears <= 0 {
		opts.HistoryYears = 10
	}
	if opts.Screener == nil {
		opts.Screener = screener.NewDefault()
	}
	return &Pipeline{
		provider:     opts.Provider,
		screener:     opts.Screener,
		scorer:       opts.Scorer,
		concurrency:  opts.Concurrency,
		historyYears: opts.HistoryYears,
		log:          opts.Logger,
	}
}

// Run processes every listing and returns the per-stock results plus
// the ranked shortlist. The context cancels in-flight fetches; a
// cancelled run returns the context error.
func (p *Pipeline) Run(ctx context.Context, universeName string, listings []universe.Listing, progress ProgressFunc) (*RunResult, error) {
	result := &RunResult{
		Universe:  universeName,
		Variant:   p.scorer.Policy().Name,
		StartedAt: time.Now(),
		Stocks:    make([]StockResult, len(listings)),
	}

	p.log.Info().
		Str("universe", universeName).
		Str("variant", result.Variant).
		Int("stocks", len(listings)).
		Int("workers", p.concurrency).
		Msg("pipeline run started")

	var (
		mu   sync.Mutex
		done int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, listing := range listings {
		i, listing := i, listing
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sr := p.processStock(gctx, listing)
			result.Stocks[i] = sr

			mu.Lock()
			done++
			n := done
			mu.Unlock()

			if progress != nil {
				progress(Event{
					Ticker:  sr.Ticker,
					Done:    n,
					Total:   len(listings),
					Stage:   stage(sr),
					Message: sr.Reason,
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, sr := range result.Stocks {
		if !sr.Excluded && sr.Err == nil && sr.Score != nil {
			result.Ranked = append(result.Ranked, *sr.Score)
		}
	}
	result.Ranked = scoring.Rank(result.Ranked)
	result.FinishedAt = time.Now()

	p.log.Info().
		Int("ranked", len(result.Ranked)).
		Dur("elapsed", result.FinishedAt.Sub(result.StartedAt)).
		Msg("pipeline run finished")
	return result, nil
}

// processStock runs the full per-ticker flow. Errors are captured on
// the result, never returned.
func (p *Pipeline) processStock(ctx context.Context, listing universe.Listing) StockResult {
	sr := StockResult{Ticker: listing.Ticker}

	snap, err := p.provider.Snapshot(ctx, listing.Ticker)
	if err != nil {
		p.log.Warn().Err(err).Str("ticker", listing.Ticker).Msg("snapshot fetch failed")
		sr.Err = fmt.Errorf("snapshot %s: %w", listing.Ticker, err)
		return sr
	}
	fillFromListing(snap, listing)
	sr.Snapshot = snap

	if len(snap.History) == 0 {
		to := time.Now()
		from := to.AddDate(-p.historyYears, 0, 0)
		history, err := p.provider.History(ctx, listing.Ticker, from, to)
		if err != nil {
			// Fundamentals can still be scored without bars.
			p.log.Warn().Err(err).Str("ticker", listing.Ticker).Msg("history fetch failed")
		} else {
			snap.History = history
		}
	}

	// Compliance is evaluated for every stock so reports can show the
	// rule table, but it only gates when the variant says so.
	compliance := p.screener.Evaluate(snap)
	sr.Compliance = &compliance
	if p.scorer.Policy().ComplianceGate && !compliance.Compliant {
		sr.Excluded = true
		sr.Reason = "non-compliant: " + strings.Join(compliance.FailedRules(), ", ")
		return sr
	}

	// Fundamentals and technicals are independent; run them in parallel.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		fund, err := fundamentals.Extract(snap)
		if err != nil {
			p.log.Debug().Err(err).Str("ticker", listing.Ticker).Msg("fundamentals unavailable")
			return
		}
		sr.Fundamentals = fund
	}()
	go func() {
		defer wg.Done()
		tech, err := technicals.Analyze(listing.Ticker, snap.History)
		if err != nil {
			p.log.Debug().Err(err).Str("ticker", listing.Ticker).Msg("technicals unavailable")
			return
		}
		sr.Technical = tech
	}()
	wg.Wait()

	score := p.scorer.Score(snap, sr.Fundamentals, sr.Technical)
	if !score.Composite.Valid() {
		sr.Excluded = true
		sr.Reason = "no usable data"
		return sr
	}
	sr.Score = &score
	return sr
}

// fillFromListing backfills identity fields the provider left empty.
func fillFromListing(snap *models.StockSnapshot, listing universe.Listing) {
	if snap.Company == "" {
		snap.Company = listing.Company
	}
	if snap.Sector == "" {
		snap.Sector = listing.Sector
	}
	if snap.Industry == "" {
		snap.Industry = listing.SubIndustry
	}
}

func stage(sr StockResult) string {
	switch {
	case sr.Err != nil:
		return "failed"
	case sr.Excluded:
		return "excluded"
	default:
		return "scored"
	}
}
