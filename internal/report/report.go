// Package report renders pipeline runs and per-stock research into
// HTML, with optional PDF conversion and email delivery.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/khanrehan/halalinvest/internal/pipeline"
	"github.com/khanrehan/halalinvest/pkg/models"
	"github.com/khanrehan/halalinvest/pkg/utils"
)

// Generator renders reports into OutputDir.
type Generator struct {
	outputDir string
	runTmpl   *template.Template
	stockTmpl *template.Template
}

// New returns a Generator writing into outputDir.
func New(outputDir string) (*Generator, error) {
	runTmpl, err := template.New("run").Parse(runTemplate)
	if err != nil {
		return nil, fmt.Errorf("report: parsing run template: %w", err)
	}
	stockTmpl, err := template.New("research").Parse(researchTemplate)
	if err != nil {
		return nil, fmt.Errorf("report: parsing research template: %w", err)
	}
	return &Generator{outputDir: outputDir, runTmpl: runTmpl, stockTmpl: stockTmpl}, nil
}

// ResearchInput bundles everything that can appear in a single-stock
// research report. Every field except Snapshot is optional.
type ResearchInput struct {
	Snapshot     *models.StockSnapshot
	Compliance   *models.ComplianceResult
	Fundamentals *models.FundamentalMetrics
	Technical    *models.TechnicalSignal
	Score        *models.ScoreResult
	News         []models.NewsArticle
}

// RenderRun renders a pipeline run report. The allocation plan is
// optional.
func (g *Generator) RenderRun(run *pipeline.RunResult, plan *models.AllocationPlan) (string, error) {
	var buf bytes.Buffer
	if err := g.runTmpl.Execute(&buf, buildRunView(run, plan)); err != nil {
		return "", fmt.Errorf("report: rendering run: %w", err)
	}
	return buf.String(), nil
}

// RenderResearch renders a single-stock research report.
func (g *Generator) RenderResearch(in ResearchInput) (string, error) {
	if in.Snapshot == nil {
		return "", fmt.Errorf("report: snapshot is required")
	}
	var buf bytes.Buffer
	if err := g.stockTmpl.Execute(&buf, buildResearchView(in)); err != nil {
		return "", fmt.Errorf("report: rendering research: %w", err)
	}
	return buf.String(), nil
}

// SaveRun renders a run report and writes it to OutputDir. With asPDF
// it converts through the detected engine, falling back to HTML when
// none is installed. It returns the written path.
func (g *Generator) SaveRun(run *pipeline.RunResult, plan *models.AllocationPlan, asPDF bool) (string, error) {
	html, err := g.RenderRun(run, plan)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("run_%s_%s", run.Universe, run.StartedAt.Format("2006-01-02_1504"))
	return g.save(html, name, asPDF)
}

// SaveResearch renders a research report and writes it to OutputDir.
func (g *Generator) SaveResearch(in ResearchInput, asPDF bool) (string, error) {
	html, err := g.RenderResearch(in)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%s", strings.ToLower(in.Snapshot.Ticker), time.Now().Format("2006-01-02"))
	return g.save(html, name, asPDF)
}

func (g *Generator) save(html, name string, asPDF bool) (string, error) {
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("report: creating output directory: %w", err)
	}
	if asPDF {
		cfg := DefaultPDFConfig()
		cfg.OutputPath = filepath.Join(g.outputDir, name+".pdf")
		if err := WritePDF(html, cfg); err != nil {
			return "", err
		}
		if DetectPDFEngine() == EngineNone {
			return filepath.Join(g.outputDir, name+".html"), nil
		}
		return cfg.OutputPath, nil
	}
	path := filepath.Join(g.outputDir, name+".html")
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("report: writing %s: %w", path, err)
	}
	return path, nil
}

// ── view models ──

type runView struct {
	Title       string
	Universe    string
	Variant     string
	StocksTotal int
	GeneratedAt string
	Ranked      []rankedRow
	Allocation  []allocationRow
	Budget      string
	Excluded    []excludedRow
}

type rankedRow struct {
	Rank     int
	Ticker   string
	Company  string
	Sector   string
	Price    string
	Score    string
	Tag      string
	TagClass string
}

type allocationRow struct {
	Ticker  string
	Company string
	Score   string
	Amount  string
	Shares  string
}

type excludedRow struct {
	Ticker string
	Reason string
}

func buildRunView(run *pipeline.RunResult, plan *models.AllocationPlan) runView {
	v := runView{
		Title:       "Halal Screening Run — " + strings.ToUpper(run.Universe),
		Universe:    run.Universe,
		Variant:     run.Variant,
		StocksTotal: len(run.Stocks),
		GeneratedAt: run.FinishedAt.Format("Jan 2, 2006 15:04 MST"),
	}

	for i, r := range run.Ranked {
		v.Ranked = append(v.Ranked, rankedRow{
			Rank:     i + 1,
			Ticker:   r.Ticker,
			Company:  r.Company,
			Sector:   r.Sector,
			Price:    fmtMoneyMetric(r.Price),
			Score:    fmtMetric(r.Composite, "%.2f"),
			Tag:      string(r.Tag),
			TagClass: tagClass(r.Tag),
		})
	}

	if plan != nil && len(plan.Entries) > 0 {
		v.Budget = utils.FormatMoney(float64(plan.BudgetCents) / 100)
		for _, e := range plan.Entries {
			v.Allocation = append(v.Allocation, allocationRow{
				Ticker:  e.Ticker,
				Company: e.Company,
				Score:   fmt.Sprintf("%.2f", e.Score),
				Amount:  utils.FormatMoney(e.Amount),
				Shares:  fmt.Sprintf("%.2f", e.Shares),
			})
		}
	}

	for _, s := range run.Stocks {
		switch {
		case s.Err != nil:
			v.Excluded = append(v.Excluded, excludedRow{Ticker: s.Ticker, Reason: "fetch failed: " + s.Err.Error()})
		case s.Excluded:
			v.Excluded = append(v.Excluded, excludedRow{Ticker: s.Ticker, Reason: s.Reason})
		}
	}
	return v
}

type researchView struct {
	Title             string
	Ticker            string
	Company           string
	Sector            string
	Industry          string
	Price             string
	GeneratedAt       string
	Compliance        []ruleRow
	ComplianceVerdict string
	ComplianceClass   string
	HasScore          bool
	Composite         string
	Tag               string
	TagClass          string
	Categories        []categoryRow
	Ratios            []ratioCard
	Signals           []signalRow
	Overall           string
	OverallClass      string
	ChartURI          template.URL
	News              []newsRow
}

type ruleRow struct {
	Name        string
	Status      string
	StatusClass string
	Value       string
	Threshold   string
	Reason      string
}

type categoryRow struct {
	Name   string
	Score  string
	Weight string
}

type ratioCard struct {
	Label string
	Value string
}

type signalRow struct {
	Name      string
	Vote      string
	VoteClass string
	Detail    string
}

type newsRow struct {
	Date  string
	Title string
	URL   template.URL
}

// categoryOrder fixes the display order of score categories.
var categoryOrder = []models.Category{
	models.CategoryValuation,
	models.CategoryProfitability,
	models.CategoryGrowth,
	models.CategoryHistoricalGrowth,
	models.CategoryHealth,
	models.CategoryTechnical,
}

var categoryLabels = map[models.Category]string{
	models.CategoryValuation:        "Valuation",
	models.CategoryProfitability:    "Profitability",
	models.CategoryGrowth:           "Growth",
	models.CategoryHistoricalGrowth: "Historical Growth",
	models.CategoryHealth:           "Financial Health",
	models.CategoryTechnical:        "Technical",
}

var ruleLabels = map[string]string{
	models.RuleBusinessActivity: "Business Activity",
	models.RuleDebtRatio:        "Debt / Market Cap",
	models.RuleLiquidAssets:     "Liquid Assets / Market Cap",
	models.RuleReceivables:      "Receivables / Market Cap",
	models.RuleImpureIncome:     "Impure Income / Revenue",
}

func buildResearchView(in ResearchInput) researchView {
	snap := in.Snapshot
	v := researchView{
		Title:       snap.Ticker + " Research Report",
		Ticker:      snap.Ticker,
		Company:     snap.Company,
		Sector:      snap.Sector,
		Industry:    snap.Industry,
		Price:       fmtMoneyMetric(snap.Price),
		GeneratedAt: time.Now().Format("Jan 2, 2006 15:04 MST"),
	}
	if v.Price == absentValue {
		v.Price = ""
	}

	if c := in.Compliance; c != nil {
		if c.Compliant {
			v.ComplianceVerdict, v.ComplianceClass = "COMPLIANT", "pass"
		} else {
			v.ComplianceVerdict, v.ComplianceClass = "NON-COMPLIANT", "fail"
		}
		for _, r := range c.Rules {
			row := ruleRow{Name: ruleLabel(r.Name), Reason: r.Reason}
			if r.Threshold > 0 {
				row.Threshold = fmt.Sprintf("%.0f%%", r.Threshold*100)
			} else {
				row.Threshold = absentValue
			}
			if val, ok := r.Value.Value(); ok {
				row.Value = fmt.Sprintf("%.2f%%", val*100)
			} else {
				row.Value = absentValue
			}
			if r.Passed {
				row.Status, row.StatusClass = "PASS", "pass"
			} else {
				row.Status, row.StatusClass = "FAIL", "fail"
			}
			v.Compliance = append(v.Compliance, row)
		}
	}

	if s := in.Score; s != nil {
		if comp, ok := s.Composite.Value(); ok {
			v.HasScore = true
			v.Composite = fmt.Sprintf("%.2f", comp)
			v.Tag = string(s.Tag)
			v.TagClass = tagClass(s.Tag)
			for _, cat := range categoryOrder {
				cs, ok := s.Categories[cat]
				if !ok {
					continue
				}
				v.Categories = append(v.Categories, categoryRow{
					Name:   categoryLabels[cat],
					Score:  fmtMetric(cs.Score, "%.1f"),
					Weight: fmt.Sprintf("%.0f%%", cs.Weight*100),
				})
			}
		}
	}

	if f := in.Fundamentals; f != nil {
		v.Ratios = fundamentalCards(snap, f)
	}

	if t := in.Technical; t != nil {
		v.Overall = string(t.Overall)
		v.OverallClass = voteClass(t.Overall)
		v.Signals = []signalRow{
			{Name: "RSI (14)", Vote: string(t.RSI.Vote), VoteClass: voteClass(t.RSI.Vote), Detail: t.RSI.Detail},
			{Name: "MACD", Vote: string(t.MACD.Vote), VoteClass: voteClass(t.MACD.Vote), Detail: t.MACD.Detail},
			{Name: "SMA 50/200", Vote: string(t.SMACross.Vote), VoteClass: voteClass(t.SMACross.Vote), Detail: t.SMACross.Detail},
			{Name: "Bollinger Bands", Vote: string(t.Bollinger.Vote), VoteClass: voteClass(t.Bollinger.Vote), Detail: t.Bollinger.Detail},
			{Name: "Volume", Vote: "INFO", VoteClass: "unknown", Detail: t.Volume.Detail},
		}
	}

	if len(snap.History) > 0 {
		v.ChartURI = template.URL(PriceChartDataURI(snap.Ticker, snap.History))
	}

	for _, a := range in.News {
		v.News = append(v.News, newsRow{
			Date:  a.PublishedAt.Format("Jan 2"),
			Title: a.Title,
			URL:   template.URL(a.URL),
		})
	}
	return v
}

func fundamentalCards(snap *models.StockSnapshot, f *models.FundamentalMetrics) []ratioCard {
	var cards []ratioCard
	add := func(label string, m models.Metric, format string) {
		if m.Valid() {
			cards = append(cards, ratioCard{Label: label, Value: fmtMetric(m, format)})
		}
	}

	if mc, ok := snap.MarketCap.Value(); ok {
		cards = append(cards, ratioCard{Label: "Market Cap", Value: utils.FormatMarketCap(mc)})
	}
	add("P/E", f.Valuation.PE, "%.2f")
	add("P/B", f.Valuation.PB, "%.2f")
	add("PEG", f.Valuation.PEG, "%.2f")
	add("Net Margin", f.Profitability.NetMargin, "%.1f%%")
	add("ROE", f.Profitability.ROE, "%.1f%%")
	add("ROA", f.Profitability.ROA, "%.1f%%")
	add("Revenue Growth", f.Growth.Revenue, "%.1f%%")
	add("Earnings Growth", f.Growth.Earnings, "%.1f%%")
	add("Debt / Equity", f.Health.DebtToEquity, "%.1f%%")
	add("Current Ratio", f.Health.CurrentRatio, "%.2f")
	add("Interest Coverage", f.Health.InterestCoverage, "%.1fx")
	if fcf, ok := f.Health.FreeCashFlow.Value(); ok {
		cards = append(cards, ratioCard{Label: "Free Cash Flow", Value: utils.FormatMarketCap(fcf)})
	}
	for _, h := range models.CAGRHorizons {
		if m, ok := f.HistoricalCAGR[h]; ok && m.Valid() {
			add(fmt.Sprintf("%dY CAGR", h), m, "%.1f%%")
		}
	}
	add("52wk High", f.FiftyTwoWeekHigh, "$%.2f")
	add("52wk Low", f.FiftyTwoWeekLow, "$%.2f")
	return cards
}

const absentValue = "—"

func fmtMetric(m models.Metric, format string) string {
	v, ok := m.Value()
	if !ok {
		return absentValue
	}
	return fmt.Sprintf(format, v)
}

func fmtMoneyMetric(m models.Metric) string {
	v, ok := m.Value()
	if !ok {
		return absentValue
	}
	return utils.FormatMoney(v)
}

func tagClass(tag models.ValuationTag) string {
	switch tag {
	case models.TagUnderpriced:
		return "underpriced"
	case models.TagOverpriced:
		return "overpriced"
	case models.TagFairValue:
		return "fair_value"
	default:
		return "unknown"
	}
}

func voteClass(v models.Vote) string {
	switch v {
	case models.VoteBuy:
		return "buy"
	case models.VoteSell:
		return "sell"
	case models.VoteHold:
		return "hold"
	default:
		return "unknown"
	}
}

func ruleLabel(name string) string {
	if label, ok := ruleLabels[name]; ok {
		return label
	}
	return name
}
