// Package api exposes the screening engine over HTTP: per-ticker
// compliance, fundamentals, technicals and scores, full pipeline runs
// with WebSocket progress streaming, and portfolio/watchlist storage.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/khanrehan/halalinvest/internal/config"
	"github.com/khanrehan/halalinvest/internal/datasource"
	"github.com/khanrehan/halalinvest/internal/fundamentals"
	"github.com/khanrehan/halalinvest/internal/news"
	"github.com/khanrehan/halalinvest/internal/pipeline"
	"github.com/khanrehan/halalinvest/internal/scoring"
	"github.com/khanrehan/halalinvest/internal/screener"
	"github.com/khanrehan/halalinvest/internal/store"
	"github.com/khanrehan/halalinvest/internal/technicals"
	"github.com/khanrehan/halalinvest/internal/universe"
	"github.com/khanrehan/halalinvest/pkg/models"
	"github.com/khanrehan/halalinvest/pkg/utils"
)

// ListingsFunc resolves a universe name to its constituent listings.
type ListingsFunc func(ctx context.Context, name string) ([]universe.Listing, error)

// Options wires the server's collaborators. Provider is required;
// everything else has a sensible default, and a nil Store disables the
// persistence endpoints.
type Options struct {
	Provider datasource.Provider
	Screener *screener.Screener
	News     *news.Fetcher
	Store    *store.Store
	Listings ListingsFunc
	Logger   zerolog.Logger
}

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	provider datasource.Provider
	screener *screener.Screener
	news     *news.Fetcher
	st       *store.Store
	listings ListingsFunc
	hub      *WSHub
	log      zerolog.Logger

	runMu   sync.Mutex
	running bool
	lastRun *pipeline.RunResult
}

// NewServer creates a configured server with all routes and middleware.
func NewServer(cfg *config.Config, opts Options) (*Server, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("api: a data provider is required")
	}
	if opts.Screener == nil {
		opts.Screener = screener.New(screener.Thresholds{
			Debt:         cfg.Screening.DebtRatioMax,
			LiquidAssets: cfg.Screening.LiquidAssetsMax,
			Receivables:  cfg.Screening.ReceivablesMax,
			ImpureIncome: cfg.Screening.ImpureIncomeMax,
		})
	}
	if opts.News == nil {
		opts.News = news.NewFetcher()
	}
	if opts.Listings == nil {
		opts.Listings = func(ctx context.Context, name string) ([]universe.Listing, error) {
			src, err := universe.ByName(name)
			if err != nil {
				return nil, err
			}
			return src.Listings(ctx)
		}
	}

	s := &Server{
		cfg:      cfg,
		provider: opts.Provider,
		screener: opts.Screener,
		news:     opts.News,
		st:       opts.Store,
		listings: opts.Listings,
		hub:      NewWSHub(opts.Logger),
		log:      opts.Logger,
	}
	s.router = s.buildRouter()
	return s, nil
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the server and blocks until SIGINT/SIGTERM,
// then shuts down gracefully.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.hub.Run()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.log.Info().Str("addr", addr).Msg("api server listening")

	select {
	case err := <-errCh:
		return err
	case <-done:
	}

	s.log.Info().Msg("shutting down api server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/screen/{ticker}", s.handleScreen)
		r.Get("/fundamentals/{ticker}", s.handleFundamentals)
		r.Get("/signals/{ticker}", s.handleSignals)
		r.Get("/score/{ticker}", s.handleScore)
		r.Get("/news/{ticker}", s.handleNews)

		r.Post("/pipeline/run", s.handlePipelineRun)
		r.Get("/pipeline/last", s.handlePipelineLast)
		r.Post("/allocate", s.handleAllocate)

		r.Get("/runs", s.handleRuns)
		r.Get("/runs/{id}", s.handleRunByID)

		r.Get("/portfolio", s.handlePortfolioList)
		r.Post("/portfolio", s.handlePortfolioAdd)
		r.Delete("/portfolio/{id}", s.handlePortfolioRemove)

		r.Get("/watchlist", s.handleWatchlistList)
		r.Post("/watchlist", s.handleWatchlistAdd)
		r.Delete("/watchlist/{ticker}", s.handleWatchlistRemove)

		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]any{
			"status":   "ok",
			"provider": s.provider.Name(),
			"store":    s.st != nil,
			"time":     time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// ── per-ticker endpoints ──

func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.fetchSnapshot(w, r, false)
	if !ok {
		return
	}
	result := s.screener.Evaluate(snap)
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: result})
}

func (s *Server) handleFundamentals(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.fetchSnapshot(w, r, true)
	if !ok {
		return
	}
	fund, err := fundamentals.Extract(snap)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: fund})
}

func (s *Server) handleSignals(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.fetchSnapshot(w, r, true)
	if !ok {
		return
	}
	sig, err := technicals.Analyze(snap.Ticker, snap.History)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: sig})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	variant := r.URL.Query().Get("variant")
	if variant == "" {
		variant = s.cfg.Scoring.Variant
	}
	policy, ok := scoring.PolicyByName(variant)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown scoring variant: "+variant)
		return
	}

	snap, ok := s.fetchSnapshot(w, r, true)
	if !ok {
		return
	}

	if policy.ComplianceGate {
		if c := s.screener.Evaluate(snap); !c.Compliant {
			writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: map[string]any{
				"ticker":     snap.Ticker,
				"compliance": c,
				"excluded":   true,
			}})
			return
		}
	}

	fund, _ := fundamentals.Extract(snap)
	tech, _ := technicals.Analyze(snap.Ticker, snap.History)
	result := scoring.New(policy).Score(snap, fund, tech)
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: result})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerParam(w, r)
	if !ok {
		return
	}
	limit := s.cfg.News.Limit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	articles, err := s.news.Headlines(r.Context(), ticker, limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: articles})
}

// fetchSnapshot resolves the ticker URL param and loads its snapshot,
// optionally backfilling price history. It writes the error response
// itself and reports success through the second return.
func (s *Server) fetchSnapshot(w http.ResponseWriter, r *http.Request, withHistory bool) (*models.StockSnapshot, bool) {
	ticker, ok := tickerParam(w, r)
	if !ok {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	snap, err := s.provider.Snapshot(ctx, ticker)
	if err != nil {
		if errors.Is(err, datasource.ErrTickerNotFound) {
			writeError(w, http.StatusNotFound, "ticker not found: "+ticker)
		} else {
			writeError(w, http.StatusBadGateway, err.Error())
		}
		return nil, false
	}

	if withHistory && len(snap.History) == 0 {
		to := time.Now()
		from := to.AddDate(-s.cfg.Pipeline.HistoryYears, 0, 0)
		history, err := s.provider.History(ctx, ticker, from, to)
		if err != nil {
			s.log.Warn().Err(err).Str("ticker", ticker).Msg("history fetch failed")
		} else {
			snap.History = history
		}
	}
	return snap, true
}

func tickerParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	ticker := utils.NormalizeTicker(chi.URLParam(r, "ticker"))
	if !utils.IsPlainTicker(ticker) {
		writeError(w, http.StatusBadRequest, "invalid ticker")
		return "", false
	}
	return ticker, true
}

// ── pipeline endpoints ──

// PipelineRunRequest is the body for POST /api/v1/pipeline/run. Empty
// fields fall back to the configured universe and variant.
type PipelineRunRequest struct {
	Universe string `json:"universe,omitempty"`
	Variant  string `json:"variant,omitempty"`
}

func (s *Server) handlePipelineRun(w http.ResponseWriter, r *http.Request) {
	var req PipelineRunRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.Universe == "" {
		req.Universe = s.cfg.Universe.Name
	}
	if req.Variant == "" {
		req.Variant = s.cfg.Scoring.Variant
	}

	policy, ok := scoring.PolicyByName(req.Variant)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown scoring variant: "+req.Variant)
		return
	}

	s.runMu.Lock()
	if s.running {
		s.runMu.Unlock()
		writeError(w, http.StatusConflict, "a pipeline run is already in progress")
		return
	}
	s.running = true
	s.runMu.Unlock()

	go s.runPipeline(req.Universe, policy)

	writeJSON(w, http.StatusAccepted, APIResponse{Success: true, Data: map[string]any{
		"universe": req.Universe,
		"variant":  policy.Name,
		"status":   "started",
	}})
}

// runPipeline executes a full pipeline run in the background,
// streaming progress over the WebSocket hub.
func (s *Server) runPipeline(universeName string, policy scoring.Policy) {
	defer func() {
		s.runMu.Lock()
		s.running = false
		s.runMu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	listings, err := s.listings(ctx, universeName)
	if err != nil {
		s.log.Error().Err(err).Str("universe", universeName).Msg("universe fetch failed")
		s.hub.Broadcast(WSMessage{Type: "pipeline_failed", Data: map[string]any{"error": err.Error()}})
		return
	}

	p := pipeline.New(pipeline.Options{
		Provider:     s.provider,
		Screener:     s.screener,
		Scorer:       scoring.New(policy),
		Concurrency:  s.cfg.Pipeline.Concurrency,
		HistoryYears: s.cfg.Pipeline.HistoryYears,
		Logger:       s.log,
	})

	run, err := p.Run(ctx, universeName, listings, func(ev pipeline.Event) {
		s.hub.Broadcast(WSMessage{Type: "pipeline_progress", Data: ev})
	})
	if err != nil {
		s.log.Error().Err(err).Msg("pipeline run failed")
		s.hub.Broadcast(WSMessage{Type: "pipeline_failed", Data: map[string]any{"error": err.Error()}})
		return
	}

	s.runMu.Lock()
	s.lastRun = run
	s.runMu.Unlock()

	summary := map[string]any{
		"universe": run.Universe,
		"variant":  run.Variant,
		"ranked":   len(run.Ranked),
		"stocks":   len(run.Stocks),
	}

	if s.st != nil {
		id, err := s.st.Runs.Save(ctx, run)
		if err != nil {
			s.log.Error().Err(err).Msg("saving run failed")
		} else {
			summary["run_id"] = id
		}
	}

	s.hub.Broadcast(WSMessage{Type: "pipeline_complete", Data: summary})
}

func (s *Server) handlePipelineLast(w http.ResponseWriter, r *http.Request) {
	s.runMu.Lock()
	run := s.lastRun
	s.runMu.Unlock()
	if run == nil {
		writeError(w, http.StatusNotFound, "no pipeline run yet")
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: run})
}

// AllocateRequest is the body for POST /api/v1/allocate. Budget is in
// dollars and applies to the ranked shortlist of the last run.
type AllocateRequest struct {
	Budget         float64 `json:"budget"`
	Shortlist      int     `json:"shortlist,omitempty"`
	SkipOverpriced bool    `json:"skip_overpriced,omitempty"`
}

func (s *Server) handleAllocate(w http.ResponseWriter, r *http.Request) {
	var req AllocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Budget <= 0 {
		writeError(w, http.StatusBadRequest, "budget must be positive")
		return
	}

	s.runMu.Lock()
	run := s.lastRun
	s.runMu.Unlock()
	if run == nil {
		writeError(w, http.StatusNotFound, "no pipeline run yet")
		return
	}

	plan := scoring.Allocate(run.Ranked, int64(req.Budget*100), scoring.AllocationOptions{
		Shortlist:      req.Shortlist,
		SkipOverpriced: req.SkipOverpriced,
	})
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: plan})
}

// ── persistence endpoints ──

// requireStore writes 503 when no database is configured.
func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.st == nil {
		writeError(w, http.StatusServiceUnavailable, "database not configured")
		return false
	}
	return true
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	runs, err := s.st.Runs.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: runs})
}

func (s *Server) handleRunByID(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}
	run, err := s.st.Runs.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: run})
}

func (s *Server) handlePortfolioList(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	positions, err := s.st.Portfolio.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: positions})
}

func (s *Server) handlePortfolioAdd(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var p models.Position
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p.Ticker = utils.NormalizeTicker(p.Ticker)
	if !utils.IsPlainTicker(p.Ticker) || p.Shares <= 0 {
		writeError(w, http.StatusBadRequest, "ticker and positive shares are required")
		return
	}
	saved, err := s.st.Portfolio.Add(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Data: saved})
}

func (s *Server) handlePortfolioRemove(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid position id")
		return
	}
	if err := s.st.Portfolio.Remove(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "position not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true})
}

func (s *Server) handleWatchlistList(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	entries, err := s.st.Watchlist.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: entries})
}

func (s *Server) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var e models.WatchlistEntry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	e.Ticker = utils.NormalizeTicker(e.Ticker)
	if !utils.IsPlainTicker(e.Ticker) {
		writeError(w, http.StatusBadRequest, "invalid ticker")
		return
	}
	saved, err := s.st.Watchlist.Add(r.Context(), e)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, APIResponse{Success: true, Data: saved})
}

func (s *Server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	ticker := utils.NormalizeTicker(chi.URLParam(r, "ticker"))
	if err := s.st.Watchlist.Remove(r.Context(), ticker); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "ticker not on watchlist")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true})
}

// ── helpers ──

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{Success: false, Error: msg})
}
