package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/khanrehan/halalinvest/internal/config"
	"github.com/khanrehan/halalinvest/internal/pipeline"
	"github.com/khanrehan/halalinvest/pkg/models"
)

func newGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func sampleRun() *pipeline.RunResult {
	started := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	return &pipeline.RunResult{
		Universe:   "sp500",
		Variant:    "gated",
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Minute),
		Stocks: []pipeline.StockResult{
			{Ticker: "MSFT"},
			{Ticker: "AAPL"},
			{Ticker: "JPM", Excluded: true, Reason: "non-compliant: business_activity"},
		},
		Ranked: []models.ScoreResult{
			{
				Ticker: "MSFT", Company: "Microsoft", Sector: "Technology",
				Price: models.Some(410.50), Composite: models.Some(87.25),
				Tag: models.TagFairValue,
			},
			{
				Ticker: "AAPL", Company: "Apple", Sector: "Technology",
				Price: models.Some(225.10), Composite: models.Some(81.40),
				Tag: models.TagOverpriced,
			},
		},
	}
}

func samplePlan() *models.AllocationPlan {
	return &models.AllocationPlan{
		BudgetCents: 1_000_000,
		Entries: []models.AllocationEntry{
			{Ticker: "MSFT", Company: "Microsoft", Score: 87.25, Cents: 517_200, Amount: 5172, Shares: 12.6},
			{Ticker: "AAPL", Company: "Apple", Score: 81.40, Cents: 482_800, Amount: 4828, Shares: 21.45},
		},
	}
}

func dailyHistory(n int) []models.OHLCV {
	bars := make([]models.OHLCV, n)
	start := time.Now().AddDate(0, 0, -n)
	for i := range bars {
		price := 100 + float64(i)*0.1
		bars[i] = models.OHLCV{
			Timestamp: start.AddDate(0, 0, i),
			Open:      price, High: price + 1, Low: price - 1, Close: price,
			Volume: 1_000_000,
		}
	}
	return bars
}

func sampleResearch() ResearchInput {
	snap := &models.StockSnapshot{
		Ticker:    "MSFT",
		Company:   "Microsoft Corporation",
		Sector:    "Technology",
		Industry:  "Software - Infrastructure",
		Price:     models.Some(410.50),
		MarketCap: models.Some(3.05e12),
		History:   dailyHistory(90),
	}
	return ResearchInput{
		Snapshot: snap,
		Compliance: &models.ComplianceResult{
			Ticker:    "MSFT",
			Compliant: true,
			Rules: []models.RuleResult{
				{Name: models.RuleBusinessActivity, Passed: true, Reason: "sector permitted"},
				{Name: models.RuleDebtRatio, Passed: true, Value: models.Some(0.0318), Threshold: 0.33, Reason: "within threshold"},
			},
		},
		Fundamentals: &models.FundamentalMetrics{
			Ticker: "MSFT",
			Valuation: models.ValuationMetrics{
				PE: models.Some(35.2), PB: models.Some(12.1),
			},
			Profitability: models.ProfitabilityMetrics{
				NetMargin: models.Some(35.6), ROE: models.Some(38.5),
			},
			Health: models.HealthMetrics{
				CurrentRatio: models.Some(1.27),
			},
			HistoricalCAGR: map[int]models.Metric{5: models.Some(24.3)},
		},
		Technical: &models.TechnicalSignal{
			Ticker:   "MSFT",
			RSI:      models.RSISignal{Value: models.Some(58.2), Vote: models.VoteHold, Detail: "RSI 58.2 neutral"},
			MACD:     models.MACDSignal{Vote: models.VoteBuy, Detail: "MACD above signal line"},
			SMACross: models.SMACrossSignal{Vote: models.VoteBuy, Detail: "50-day above 200-day"},
			Bollinger: models.BollingerSignal{
				Vote: models.VoteHold, Detail: "price within bands",
			},
			Volume:  models.VolumeSignal{Detail: "volume near average"},
			Overall: models.VoteBuy,
		},
		Score: &models.ScoreResult{
			Ticker:    "MSFT",
			Composite: models.Some(87.25),
			Tag:       models.TagFairValue,
			Categories: map[models.Category]models.CategoryScore{
				models.CategoryValuation:     {Score: models.Some(60), Weight: 0.30},
				models.CategoryProfitability: {Score: models.Some(95), Weight: 0.25},
			},
		},
		News: []models.NewsArticle{
			{Title: "Microsoft expands cloud region", URL: "https://example.com/a", PublishedAt: time.Now()},
		},
	}
}

func TestRenderRunReport(t *testing.T) {
	g := newGenerator(t)
	html, err := g.RenderRun(sampleRun(), samplePlan())
	if err != nil {
		t.Fatalf("RenderRun: %v", err)
	}

	for _, want := range []string{
		"SP500",
		"MSFT", "Microsoft",
		"87.25",
		"FAIR_VALUE", "OVERPRICED",
		"Allocation Plan",
		"$10,000.00",
		"$5,172.00",
		"non-compliant: business_activity",
		"Disclaimer",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("run report missing %q", want)
		}
	}
}

func TestRenderRunWithoutAllocation(t *testing.T) {
	g := newGenerator(t)
	html, err := g.RenderRun(sampleRun(), nil)
	if err != nil {
		t.Fatalf("RenderRun: %v", err)
	}
	if strings.Contains(html, "Allocation Plan") {
		t.Error("run report should omit the allocation section without a plan")
	}
}

func TestRenderResearchReport(t *testing.T) {
	g := newGenerator(t)
	html, err := g.RenderResearch(sampleResearch())
	if err != nil {
		t.Fatalf("RenderResearch: %v", err)
	}

	for _, want := range []string{
		"MSFT", "Microsoft Corporation",
		"COMPLIANT",
		"Business Activity", "Debt / Market Cap", "3.18%",
		"87.25", "Valuation", "Profitability", "30%",
		"P/E", "35.20",
		"5Y CAGR",
		"RSI (14)", "Bollinger Bands",
		"data:image/png;base64,",
		"Microsoft expands cloud region",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("research report missing %q", want)
		}
	}
}

func TestRenderResearchSnapshotOnly(t *testing.T) {
	g := newGenerator(t)
	html, err := g.RenderResearch(ResearchInput{
		Snapshot: &models.StockSnapshot{Ticker: "AAPL", Company: "Apple"},
	})
	if err != nil {
		t.Fatalf("RenderResearch: %v", err)
	}
	if strings.Contains(html, "Sharia Compliance") {
		t.Error("research report should omit the compliance section without a result")
	}
	if strings.Contains(html, "Composite Score") {
		t.Error("research report should omit the score section without a score")
	}
}

func TestRenderResearchRequiresSnapshot(t *testing.T) {
	g := newGenerator(t)
	if _, err := g.RenderResearch(ResearchInput{}); err == nil {
		t.Fatal("expected error for missing snapshot")
	}
}

func TestSaveRunWritesHTML(t *testing.T) {
	g := newGenerator(t)
	path, err := g.SaveRun(sampleRun(), nil, false)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if filepath.Ext(path) != ".html" {
		t.Fatalf("got %s, want .html output", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if !strings.Contains(string(data), "MSFT") {
		t.Error("saved report missing ranked ticker")
	}
}

func TestFmtMetric(t *testing.T) {
	if got := fmtMetric(models.None(), "%.2f"); got != absentValue {
		t.Errorf("absent metric rendered %q", got)
	}
	if got := fmtMetric(models.Some(1.236), "%.2f"); got != "1.24" {
		t.Errorf("got %q, want 1.24", got)
	}
}

func TestMailerRequiresConfig(t *testing.T) {
	m := NewMailer(config.SMTPConfig{})
	if err := m.Send("subject", "<p>body</p>"); err == nil {
		t.Fatal("expected error for unconfigured smtp")
	}
}

func TestMailerBuildsMultipartMessage(t *testing.T) {
	dir := t.TempDir()
	attachment := filepath.Join(dir, "report.pdf")
	if err := os.WriteFile(attachment, []byte("%PDF-1.4 test"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewMailer(config.SMTPConfig{
		Host: "smtp.example.com",
		Port: 587,
		From: "reports@example.com",
		To:   []string{"me@example.com"},
	})
	msg, err := m.buildMessage("Weekly Screen", "<h1>Results</h1>", []string{attachment})
	if err != nil {
		t.Fatalf("buildMessage: %v", err)
	}

	for _, want := range []string{
		"From: reports@example.com",
		"To: me@example.com",
		"multipart/mixed",
		"application/pdf",
		"filename=\"report.pdf\"",
		"Content-Transfer-Encoding: base64",
		"<h1>Results</h1>",
	} {
		if !strings.Contains(string(msg), want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestMailerPlainHTMLMessage(t *testing.T) {
	m := NewMailer(config.SMTPConfig{
		Host: "smtp.example.com",
		From: "reports@example.com",
		To:   []string{"a@example.com", "b@example.com"},
	})
	msg, err := m.buildMessage("Screen", "<p>hi</p>", nil)
	if err != nil {
		t.Fatalf("buildMessage: %v", err)
	}
	s := string(msg)
	if strings.Contains(s, "multipart") {
		t.Error("plain message should not be multipart")
	}
	if !strings.Contains(s, "To: a@example.com, b@example.com") {
		t.Error("message missing recipient list")
	}
}
