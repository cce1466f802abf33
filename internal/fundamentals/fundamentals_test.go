package fundamentals

import (
	"math"
	"testing"
	"time"

	"github.com/khanrehan/halalinvest/pkg/models"
)

// makeHistory builds years of synthetic daily bars ending today, with
// prices growing at the given annual rate.
func makeHistory(years int, startPrice, annualGrowth float64) []models.OHLCV {
	days := years * 365
	bars := make([]models.OHLCV, 0, days)
	dailyGrowth := math.Pow(1+annualGrowth, 1.0/365)
	price := startPrice
	now := time.Now()
	for i := days; i > 0; i-- {
		bars = append(bars, models.OHLCV{
			Timestamp: now.AddDate(0, 0, -i),
			Open:      price,
			High:      price * 1.01,
			Low:       price * 0.99,
			Close:     price,
			Volume:    1_000_000,
		})
		price *= dailyGrowth
	}
	return bars
}

func sampleSnapshot() *models.StockSnapshot {
	return &models.StockSnapshot{
		Ticker:          "AAPL",
		Price:           models.Some(190),
		PE:              models.Some(28.5),
		PB:              models.Some(45),
		PEG:             models.Some(2.1),
		GrossMargin:     models.Some(0.44),
		OperatingMargin: models.Some(0.30),
		NetMargin:       models.Some(0.25),
		ROE:             models.Some(1.5), // already percentage-like? no: >=1, kept as-is
		ROA:             models.Some(0.28),
		RevenueGrowth:   models.Some(0.06),
		EarningsGrowth:  models.Some(0.11),
		DebtToEquity:    models.Some(170),
		CurrentRatio:    models.Some(0.95),
		FreeCashFlow:    models.Some(9.9e10),
		History:         makeHistory(11, 50, 0.12),
	}
}

func TestExtractCarriesValuation(t *testing.T) {
	m, err := Extract(sampleSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := m.Valuation.PE.Value(); !ok || v != 28.5 {
		t.Errorf("PE = %v,%v, want 28.5", v, ok)
	}
	if v, ok := m.Valuation.PEG.Value(); !ok || v != 2.1 {
		t.Errorf("PEG = %v,%v, want 2.1", v, ok)
	}
}

func TestNegativePEIsUnavailable(t *testing.T) {
	snap := sampleSnapshot()
	snap.PE = models.Some(-12)
	m, err := Extract(snap)
	if err != nil {
		t.Fatal(err)
	}
	if m.Valuation.PE.Valid() {
		t.Error("negative P/E should be unavailable, not banded")
	}
}

func TestMarginsNormalizedToPercent(t *testing.T) {
	m, err := Extract(sampleSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := m.Profitability.NetMargin.Value(); v != 25 {
		t.Errorf("net margin = %v, want 25 (percent)", v)
	}
	if v, _ := m.Growth.Revenue.Value(); math.Abs(v-6) > 1e-9 {
		t.Errorf("revenue growth = %v, want 6 (percent)", v)
	}
	// Values at or above 1 in magnitude are taken as percentages already.
	if v, _ := m.Profitability.ROE.Value(); v != 1.5 {
		t.Errorf("ROE = %v, want 1.5 passed through", v)
	}
}

func TestMissingFieldDegradesToAbsent(t *testing.T) {
	snap := sampleSnapshot()
	snap.PE = models.None()
	snap.CurrentRatio = models.None()

	m, err := Extract(snap)
	if err != nil {
		t.Fatal(err)
	}
	if m.Valuation.PE.Valid() {
		t.Error("missing P/E should stay absent")
	}
	if m.Health.CurrentRatio.Valid() {
		t.Error("missing current ratio should stay absent")
	}
	// Other metrics are unaffected.
	if !m.Valuation.PB.Valid() {
		t.Error("P/B should still be present")
	}
}

func TestCAGRIdentity(t *testing.T) {
	// (1+CAGR)^h must recover price_now/price_then.
	start, end := 100.0, 176.23
	for _, h := range models.CAGRHorizons {
		c, ok := CAGR(start, end, h).Value()
		if !ok {
			t.Fatalf("CAGR(%d) absent", h)
		}
		ratio := math.Pow(1+c/100, float64(h))
		if math.Abs(ratio-end/start) > 1e-9 {
			t.Errorf("horizon %dy: (1+CAGR)^h = %v, want %v", h, ratio, end/start)
		}
	}
}

func TestHistoricalCAGRAllHorizons(t *testing.T) {
	m, err := Extract(sampleSnapshot()) // 11 years of ~12% growth
	if err != nil {
		t.Fatal(err)
	}
	for _, h := range models.CAGRHorizons {
		v, ok := m.HistoricalCAGR[h].Value()
		if !ok {
			t.Fatalf("horizon %dy should be available with 11y of history", h)
		}
		if v < 8 || v > 16 {
			t.Errorf("horizon %dy CAGR = %.2f%%, want near 12%%", h, v)
		}
	}
}

func TestShortHistoryLeavesLongHorizonsAbsent(t *testing.T) {
	snap := sampleSnapshot()
	snap.History = makeHistory(2, 100, 0.10)

	m, err := Extract(snap)
	if err != nil {
		t.Fatal(err)
	}
	if !m.HistoricalCAGR[1].Valid() {
		t.Error("1y horizon should be available with 2y of history")
	}
	for _, h := range []int{3, 5, 10} {
		if m.HistoricalCAGR[h].Valid() {
			t.Errorf("%dy horizon should be absent with 2y of history", h)
		}
	}
}

func TestEmptyHistoryYieldsNoCAGR(t *testing.T) {
	snap := sampleSnapshot()
	snap.History = nil

	m, err := Extract(snap)
	if err != nil {
		t.Fatal(err)
	}
	for _, h := range models.CAGRHorizons {
		if m.HistoricalCAGR[h].Valid() {
			t.Errorf("%dy horizon should be absent with no history", h)
		}
	}
}

func TestMalformedHistoryFailsFast(t *testing.T) {
	snap := sampleSnapshot()
	snap.History[10].Close = -5
	if _, err := Extract(snap); err == nil {
		t.Error("negative close price should be an error")
	}

	snap = sampleSnapshot()
	snap.History[10].Timestamp = snap.History[20].Timestamp
	if _, err := Extract(snap); err == nil {
		t.Error("non-monotonic timestamps should be an error")
	}
}
