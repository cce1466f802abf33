// halalinvest — Sharia-compliant stock screening, scoring and
// allocation.
//
// Main CLI entrypoint using the cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/khanrehan/halalinvest/api"
	"github.com/khanrehan/halalinvest/internal/config"
	"github.com/khanrehan/halalinvest/internal/datasource"
	"github.com/khanrehan/halalinvest/internal/fundamentals"
	"github.com/khanrehan/halalinvest/internal/logging"
	"github.com/khanrehan/halalinvest/internal/news"
	"github.com/khanrehan/halalinvest/internal/pipeline"
	"github.com/khanrehan/halalinvest/internal/report"
	"github.com/khanrehan/halalinvest/internal/scoring"
	"github.com/khanrehan/halalinvest/internal/screener"
	"github.com/khanrehan/halalinvest/internal/store"
	"github.com/khanrehan/halalinvest/internal/technicals"
	"github.com/khanrehan/halalinvest/internal/universe"
	"github.com/khanrehan/halalinvest/pkg/models"
	"github.com/khanrehan/halalinvest/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	cfg *config.Config
	log zerolog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "halalinvest",
	Short: "Sharia-compliant stock screening, scoring and allocation",
	Long: `halalinvest screens equity universes against the AAOIFI compliance
rules, scores the survivors on fundamentals and technicals, and splits
an investment budget across the ranked shortlist.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Logging.Level
		if override, _ := cmd.Flags().GetString("log-level"); override != "" {
			level = override
		}
		log = logging.New(level, cfg.Logging.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(screenCmd)
	rootCmd.AddCommand(signalsCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(researchCmd)
	rootCmd.AddCommand(pipelineCmd)
	rootCmd.AddCommand(allocateCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scheduleCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("halalinvest %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Screen Command ---

var screenCmd = &cobra.Command{
	Use:   "screen [ticker]",
	Short: "Run the Sharia compliance screen on a stock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		snap, err := fetchSnapshot(ctx, args[0], false)
		if err != nil {
			return err
		}

		result := newScreener().Evaluate(snap)
		printCompliance(&result, snap)
		return nil
	},
}

// --- Signals Command ---

var signalsCmd = &cobra.Command{
	Use:   "signals [ticker]",
	Short: "Compute technical indicator signals for a stock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		snap, err := fetchSnapshot(ctx, args[0], true)
		if err != nil {
			return err
		}
		sig, err := technicals.Analyze(snap.Ticker, snap.History)
		if err != nil {
			return err
		}
		printSignals(sig)
		return nil
	},
}

// --- Score Command ---

var scoreCmd = &cobra.Command{
	Use:   "score [ticker]",
	Short: "Compute the composite investability score for a stock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := policyFromFlags(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext()
		defer cancel()

		snap, err := fetchSnapshot(ctx, args[0], true)
		if err != nil {
			return err
		}

		if policy.ComplianceGate {
			if c := newScreener().Evaluate(snap); !c.Compliant {
				fmt.Printf("❌ %s is non-compliant (%s); no score under the %q variant\n",
					snap.Ticker, strings.Join(c.FailedRules(), ", "), policy.Name)
				return nil
			}
		}

		fund, _ := fundamentals.Extract(snap)
		tech, _ := technicals.Analyze(snap.Ticker, snap.History)
		result := scoring.New(policy).Score(snap, fund, tech)
		printScore(&result, policy)
		return nil
	},
}

func init() {
	scoreCmd.Flags().String("variant", "", "scoring variant: prescreened or gated (default from config)")
}

// --- Research Command ---

var researchCmd = &cobra.Command{
	Use:   "research [ticker]",
	Short: "Generate a full research report for a stock",
	Long: `Generate a research report covering the compliance rule table,
fundamentals, technical signals, price chart and recent headlines,
written to the configured report directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asPDF, _ := cmd.Flags().GetBool("pdf")
		if !cmd.Flags().Changed("pdf") {
			asPDF = cfg.Report.PDF
		}

		ctx, cancel := commandContext()
		defer cancel()

		snap, err := fetchSnapshot(ctx, args[0], true)
		if err != nil {
			return err
		}

		compliance := newScreener().Evaluate(snap)
		fund, _ := fundamentals.Extract(snap)
		tech, _ := technicals.Analyze(snap.Ticker, snap.History)

		var score *models.ScoreResult
		policy := scoring.VariantPrescreened()
		if named, ok := scoring.PolicyByName(cfg.Scoring.Variant); ok {
			policy = named
		}
		if !policy.ComplianceGate || compliance.Compliant {
			r := scoring.New(policy).Score(snap, fund, tech)
			score = &r
		}

		headlines, err := news.NewFetcher().Headlines(ctx, snap.Ticker, cfg.News.Limit)
		if err != nil {
			log.Warn().Err(err).Msg("news fetch failed")
		}

		gen, err := report.New(cfg.Report.OutputDir)
		if err != nil {
			return err
		}
		path, err := gen.SaveResearch(report.ResearchInput{
			Snapshot:     snap,
			Compliance:   &compliance,
			Fundamentals: fund,
			Technical:    tech,
			Score:        score,
			News:         headlines,
		}, asPDF)
		if err != nil {
			return err
		}

		fmt.Printf("📄 Report written to %s\n", path)
		return nil
	},
}

func init() {
	researchCmd.Flags().Bool("pdf", false, "convert the report to PDF (default from config)")
}

// --- Pipeline Command ---

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Screen, score and rank a whole universe",
	Long: `Fetch the configured universe, screen every constituent, score the
survivors, and write a ranked run report with an allocation plan for
the configured budget.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := policyFromFlags(cmd)
		if err != nil {
			return err
		}
		universeName, _ := cmd.Flags().GetString("universe")
		if universeName == "" {
			universeName = cfg.Universe.Name
		}
		budget, _ := cmd.Flags().GetFloat64("budget")
		if budget == 0 {
			budget = cfg.Allocation.Budget
		}
		asPDF, _ := cmd.Flags().GetBool("pdf")
		if !cmd.Flags().Changed("pdf") {
			asPDF = cfg.Report.PDF
		}
		sendEmail, _ := cmd.Flags().GetBool("email")

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		run, err := executePipeline(ctx, universeName, policy, true)
		if err != nil {
			return err
		}

		plan := scoring.Allocate(run.Ranked, int64(budget*100), scoring.AllocationOptions{
			Shortlist:      cfg.Allocation.Shortlist,
			SkipOverpriced: cfg.Scoring.SkipOverpriced,
		})

		printRunSummary(run, &plan)

		gen, err := report.New(cfg.Report.OutputDir)
		if err != nil {
			return err
		}
		path, err := gen.SaveRun(run, &plan, asPDF)
		if err != nil {
			return err
		}
		fmt.Printf("\n📄 Report written to %s\n", path)

		if cfg.Database.URL != "" {
			st, err := store.Open(ctx, cfg.Database.URL)
			if err != nil {
				log.Warn().Err(err).Msg("database unavailable; run not persisted")
			} else {
				defer st.Close()
				if id, err := st.Runs.Save(ctx, run); err != nil {
					log.Warn().Err(err).Msg("saving run failed")
				} else {
					fmt.Printf("💾 Run saved as #%d\n", id)
				}
			}
		}

		if sendEmail {
			if err := emailReport(gen, run, &plan, path); err != nil {
				return err
			}
			fmt.Println("✉️  Report emailed")
		}
		return nil
	},
}

func init() {
	pipelineCmd.Flags().String("universe", "", "universe to screen: sp500 or spus (default from config)")
	pipelineCmd.Flags().String("variant", "", "scoring variant: prescreened or gated (default from config)")
	pipelineCmd.Flags().Float64("budget", 0, "allocation budget in dollars (default from config)")
	pipelineCmd.Flags().Bool("pdf", false, "convert the report to PDF (default from config)")
	pipelineCmd.Flags().Bool("email", false, "email the report to the configured recipients")
}

// --- Allocate Command ---

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Split a budget across the shortlist of a stored run",
	Long: `Load a stored pipeline run and distribute a budget across its ranked
shortlist in proportion to composite score. Defaults to the most
recent run; requires a configured database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Database.URL == "" {
			return fmt.Errorf("no database configured; use \"halalinvest pipeline --budget\" for a one-shot plan")
		}

		budget, _ := cmd.Flags().GetFloat64("budget")
		if budget == 0 {
			budget = cfg.Allocation.Budget
		}
		if budget <= 0 {
			return fmt.Errorf("budget must be positive")
		}

		ctx, cancel := commandContext()
		defer cancel()

		st, err := store.Open(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer st.Close()

		runID, _ := cmd.Flags().GetInt64("run")
		if runID == 0 {
			recent, err := st.Runs.Recent(ctx, 1)
			if err != nil {
				return err
			}
			if len(recent) == 0 {
				return fmt.Errorf("no stored runs; run \"halalinvest pipeline\" first")
			}
			runID = recent[0].ID
		}

		run, err := st.Runs.Load(ctx, runID)
		if err != nil {
			return err
		}

		plan := scoring.Allocate(run.Ranked, int64(budget*100), scoring.AllocationOptions{
			Shortlist:      cfg.Allocation.Shortlist,
			SkipOverpriced: cfg.Scoring.SkipOverpriced,
		})
		fmt.Printf("Run #%d (%s, %s) — %d ranked stocks\n", runID, run.Universe, run.Variant, len(run.Ranked))
		printRunSummary(run, &plan)
		return nil
	},
}

func init() {
	allocateCmd.Flags().Float64("budget", 0, "budget in dollars (default from config)")
	allocateCmd.Flags().Int64("run", 0, "stored run ID (default: most recent)")
}

// --- Runs Command ---

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored pipeline runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Database.URL == "" {
			return fmt.Errorf("no database configured; set database.url or HALALINVEST_DATABASE_URL")
		}

		ctx, cancel := commandContext()
		defer cancel()

		st, err := store.Open(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer st.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := st.Runs.Recent(ctx, limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No stored runs.")
			return nil
		}

		fmt.Printf("%-6s %-8s %-12s %-18s %s\n", "ID", "UNIVERSE", "VARIANT", "FINISHED", "RANKED")
		for _, r := range runs {
			fmt.Printf("%-6d %-8s %-12s %-18s %d\n",
				r.ID, r.Universe, r.Variant, r.FinishedAt.Format("2006-01-02 15:04"), r.Ranked)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().Int("limit", 20, "number of runs to list")
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := api.Options{
			Provider: datasource.NewYahoo(),
			Screener: newScreener(),
			Logger:   log,
		}

		if cfg.Database.URL != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			st, err := store.Open(ctx, cfg.Database.URL)
			cancel()
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer st.Close()
			opts.Store = st
		}

		srv, err := api.NewServer(cfg, opts)
		if err != nil {
			return err
		}

		fmt.Printf("🌐 API server listening on %s\n", cfg.API.Addr())
		return srv.ListenAndServe(cfg.API.Addr())
	},
}

// --- Schedule Command ---

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the pipeline on the configured cron schedule",
	Long: `Run the full pipeline on the cron expression in schedule.cron,
emailing the run report after each pass when SMTP is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, ok := scoring.PolicyByName(cfg.Scoring.Variant)
		if !ok {
			return fmt.Errorf("unknown scoring variant %q", cfg.Scoring.Variant)
		}

		c := cron.New()
		_, err := c.AddFunc(cfg.Schedule.Cron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
			defer cancel()

			run, err := executePipeline(ctx, cfg.Universe.Name, policy, false)
			if err != nil {
				log.Error().Err(err).Msg("scheduled run failed")
				return
			}

			plan := scoring.Allocate(run.Ranked, int64(cfg.Allocation.Budget*100), scoring.AllocationOptions{
				Shortlist:      cfg.Allocation.Shortlist,
				SkipOverpriced: cfg.Scoring.SkipOverpriced,
			})

			gen, err := report.New(cfg.Report.OutputDir)
			if err != nil {
				log.Error().Err(err).Msg("report setup failed")
				return
			}
			path, err := gen.SaveRun(run, &plan, cfg.Report.PDF)
			if err != nil {
				log.Error().Err(err).Msg("report write failed")
				return
			}
			log.Info().Str("path", path).Int("ranked", len(run.Ranked)).Msg("scheduled run complete")

			if cfg.Database.URL != "" {
				if st, err := store.Open(ctx, cfg.Database.URL); err == nil {
					if _, err := st.Runs.Save(ctx, run); err != nil {
						log.Warn().Err(err).Msg("saving run failed")
					}
					st.Close()
				}
			}

			if cfg.Report.Email.Enabled() {
				if err := emailReport(gen, run, &plan, path); err != nil {
					log.Error().Err(err).Msg("report email failed")
				}
			}
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression %q: %w", cfg.Schedule.Cron, err)
		}

		fmt.Printf("⏰ Scheduler running (%s); Ctrl-C to stop\n", cfg.Schedule.Cron)
		c.Start()
		defer c.Stop()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		<-ctx.Done()
		return nil
	},
}

// --- shared helpers ---

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Minute)
}

func newScreener() *screener.Screener {
	return screener.New(screener.Thresholds{
		Debt:         cfg.Screening.DebtRatioMax,
		LiquidAssets: cfg.Screening.LiquidAssetsMax,
		Receivables:  cfg.Screening.ReceivablesMax,
		ImpureIncome: cfg.Screening.ImpureIncomeMax,
	})
}

func policyFromFlags(cmd *cobra.Command) (scoring.Policy, error) {
	variant, _ := cmd.Flags().GetString("variant")
	if variant == "" {
		variant = cfg.Scoring.Variant
	}
	policy, ok := scoring.PolicyByName(variant)
	if !ok {
		return scoring.Policy{}, fmt.Errorf("unknown scoring variant %q", variant)
	}
	return policy, nil
}

func fetchSnapshot(ctx context.Context, raw string, withHistory bool) (*models.StockSnapshot, error) {
	ticker := utils.NormalizeTicker(raw)
	if !utils.IsPlainTicker(ticker) {
		return nil, fmt.Errorf("invalid ticker %q", raw)
	}

	provider := datasource.NewYahoo()
	snap, err := provider.Snapshot(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if withHistory && len(snap.History) == 0 {
		to := time.Now()
		from := to.AddDate(-cfg.Pipeline.HistoryYears, 0, 0)
		history, err := provider.History(ctx, ticker, from, to)
		if err != nil {
			log.Warn().Err(err).Str("ticker", ticker).Msg("history fetch failed")
		} else {
			snap.History = history
		}
	}
	return snap, nil
}

func executePipeline(ctx context.Context, universeName string, policy scoring.Policy, showProgress bool) (*pipeline.RunResult, error) {
	src, err := universe.ByName(universeName)
	if err != nil {
		return nil, err
	}
	fmt.Printf("🔍 Fetching %s constituents from %s...\n", universeName, src.Name())
	listings, err := src.Listings(ctx)
	if err != nil {
		return nil, err
	}
	fmt.Printf("   %d listings; screening with the %q variant\n\n", len(listings), policy.Name)

	p := pipeline.New(pipeline.Options{
		Provider:     datasource.NewYahoo(),
		Screener:     newScreener(),
		Scorer:       scoring.New(policy),
		Concurrency:  cfg.Pipeline.Concurrency,
		HistoryYears: cfg.Pipeline.HistoryYears,
		Logger:       log,
	})

	var progress pipeline.ProgressFunc
	if showProgress {
		progress = func(ev pipeline.Event) {
			fmt.Printf("\r   [%d/%d] %-8s %-8s", ev.Done, ev.Total, ev.Ticker, ev.Stage)
		}
	}

	run, err := p.Run(ctx, universeName, listings, progress)
	if showProgress {
		fmt.Println()
	}
	return run, err
}

func emailReport(gen *report.Generator, run *pipeline.RunResult, plan *models.AllocationPlan, attachment string) error {
	if !cfg.Report.Email.Enabled() {
		return fmt.Errorf("smtp is not configured; set report.email in the config")
	}
	body, err := gen.RenderRun(run, plan)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Halal screening run — %s, %d ranked", strings.ToUpper(run.Universe), len(run.Ranked))
	return report.NewMailer(cfg.Report.Email).Send(subject, body, attachment)
}

// --- printing ---

func printCompliance(c *models.ComplianceResult, snap *models.StockSnapshot) {
	verdict := "✅ COMPLIANT"
	if !c.Compliant {
		verdict = "❌ NON-COMPLIANT"
	}
	fmt.Printf("%s — %s (%s)\n", snap.Ticker, snap.Company, snap.Sector)
	fmt.Printf("Verdict: %s\n\n", verdict)

	fmt.Printf("%-28s %-6s %-10s %s\n", "RULE", "PASS", "VALUE", "DETAIL")
	for _, r := range c.Rules {
		mark := "✅"
		if !r.Passed {
			mark = "❌"
		}
		value := "-"
		if v, ok := r.Value.Value(); ok {
			value = fmt.Sprintf("%.2f%%", v*100)
		}
		fmt.Printf("%-28s %-6s %-10s %s\n", r.Name, mark, value, r.Reason)
	}
}

func printSignals(sig *models.TechnicalSignal) {
	fmt.Printf("%s — technical signals\n\n", sig.Ticker)
	rows := []struct {
		name   string
		vote   models.Vote
		detail string
	}{
		{"RSI (14)", sig.RSI.Vote, sig.RSI.Detail},
		{"MACD", sig.MACD.Vote, sig.MACD.Detail},
		{"SMA 50/200", sig.SMACross.Vote, sig.SMACross.Detail},
		{"Bollinger", sig.Bollinger.Vote, sig.Bollinger.Detail},
	}
	fmt.Printf("%-14s %-6s %s\n", "INDICATOR", "VOTE", "DETAIL")
	for _, r := range rows {
		fmt.Printf("%-14s %-6s %s\n", r.name, r.vote, r.detail)
	}
	fmt.Printf("%-14s %-6s %s\n", "Volume", "-", sig.Volume.Detail)
	fmt.Printf("\nOverall: %s (%s)\n", sig.Overall, sig.Detail)
}

func printScore(r *models.ScoreResult, policy scoring.Policy) {
	comp, ok := r.Composite.Value()
	if !ok {
		fmt.Printf("%s: no usable data to score\n", r.Ticker)
		return
	}

	fmt.Printf("%s — composite score %.2f/100 (%s variant)\n", r.Ticker, comp, policy.Name)
	if r.Tag != "" {
		fmt.Printf("Valuation: %s\n", r.Tag)
	}
	fmt.Println()

	cats := make([]models.Category, 0, len(r.Categories))
	for cat := range r.Categories {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

	fmt.Printf("%-20s %-8s %s\n", "CATEGORY", "SCORE", "WEIGHT")
	for _, cat := range cats {
		cs := r.Categories[cat]
		score := "-"
		if v, ok := cs.Score.Value(); ok {
			score = fmt.Sprintf("%.1f", v)
		}
		fmt.Printf("%-20s %-8s %.0f%%\n", cat, score, cs.Weight*100)
	}
}

func printRunSummary(run *pipeline.RunResult, plan *models.AllocationPlan) {
	fmt.Printf("\nRanked shortlist (%d of %d stocks):\n\n", len(run.Ranked), len(run.Stocks))
	fmt.Printf("%-4s %-8s %-28s %-10s %-8s %s\n", "#", "TICKER", "COMPANY", "PRICE", "SCORE", "VALUATION")
	for i, r := range run.Ranked {
		if i >= len(plan.Entries) && i >= 10 {
			fmt.Printf("   ... and %d more\n", len(run.Ranked)-i)
			break
		}
		price := "-"
		if v, ok := r.Price.Value(); ok {
			price = fmt.Sprintf("%.2f", v)
		}
		score := "-"
		if v, ok := r.Composite.Value(); ok {
			score = fmt.Sprintf("%.2f", v)
		}
		fmt.Printf("%-4d %-8s %-28s %-10s %-8s %s\n", i+1, r.Ticker, truncate(r.Company, 28), price, score, r.Tag)
	}

	if len(plan.Entries) > 0 {
		fmt.Printf("\nAllocation of %s:\n\n", utils.FormatMoney(float64(plan.BudgetCents)/100))
		fmt.Printf("%-8s %-12s %s\n", "TICKER", "AMOUNT", "SHARES")
		for _, e := range plan.Entries {
			fmt.Printf("%-8s %-12s %.2f\n", e.Ticker, utils.FormatMoney(e.Amount), e.Shares)
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
