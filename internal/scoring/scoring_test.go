package scoring

import (
	"math"
	"testing"

	"github.com/khanrehan/halalinvest/pkg/models"
)

func snapFor(ticker string) *models.StockSnapshot {
	return &models.StockSnapshot{
		Ticker:  ticker,
		Company: ticker + " Inc.",
		Sector:  "Technology",
		Price:   models.Some(100),
	}
}

func strongFund() *models.FundamentalMetrics {
	return &models.FundamentalMetrics{
		Ticker: "STRONG",
		Price:  models.Some(100),
		Valuation: models.ValuationMetrics{
			PE:  models.Some(12),
			PB:  models.Some(1.2),
			PEG: models.Some(0.8),
		},
		Profitability: models.ProfitabilityMetrics{
			NetMargin: models.Some(25),
			ROE:       models.Some(30),
			ROA:       models.Some(20),
		},
		Growth: models.GrowthMetrics{
			Revenue:  models.Some(30),
			Earnings: models.Some(35),
		},
		Health: models.HealthMetrics{
			DebtToEquity:     models.Some(20),
			CurrentRatio:     models.Some(2.5),
			InterestCoverage: models.Some(15),
			FreeCashFlow:     models.Some(20e9),
		},
		HistoricalCAGR: map[int]models.Metric{
			1: models.Some(30), 3: models.Some(28), 5: models.Some(27), 10: models.Some(26),
		},
		FiftyTwoWeekHigh: models.Some(180),
		FiftyTwoWeekLow:  models.Some(90),
	}
}

func weakFund() *models.FundamentalMetrics {
	return &models.FundamentalMetrics{
		Ticker: "WEAK",
		Price:  models.Some(100),
		Valuation: models.ValuationMetrics{
			PE:  models.Some(40),
			PB:  models.Some(6),
			PEG: models.Some(3.5),
		},
		Profitability: models.ProfitabilityMetrics{
			NetMargin: models.Some(-5),
			ROE:       models.Some(-2),
			ROA:       models.Some(-1),
		},
		Growth: models.GrowthMetrics{
			Revenue:  models.Some(-10),
			Earnings: models.Some(-12),
		},
		Health: models.HealthMetrics{
			DebtToEquity:     models.Some(200),
			CurrentRatio:     models.Some(0.8),
			InterestCoverage: models.Some(0.5),
			FreeCashFlow:     models.Some(-1e9),
		},
		FiftyTwoWeekHigh: models.Some(110),
		FiftyTwoWeekLow:  models.Some(40),
	}
}

func signal(overall models.Vote) *models.TechnicalSignal {
	return &models.TechnicalSignal{Ticker: "T", Overall: overall}
}

func TestScoreStrongStockHitsCeiling(t *testing.T) {
	s := New(VariantGated())
	res := s.Score(snapFor("STRONG"), strongFund(), signal(models.VoteBuy))

	got, ok := res.Composite.Value()
	if !ok {
		t.Fatal("expected composite to be available")
	}
	if got != 100 {
		t.Fatalf("composite = %v, want 100", got)
	}
}

func TestScoreWeakStock(t *testing.T) {
	s := New(VariantGated())
	res := s.Score(snapFor("WEAK"), weakFund(), signal(models.VoteSell))

	got, ok := res.Composite.Value()
	if !ok {
		t.Fatal("expected composite to be available")
	}
	// val 10, prof 10, growth 20, health 12.5, tech 10 under
	// weights .30/.25/.20/.15/.10.
	want := 12.38
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("composite = %v, want %v", got, want)
	}
}

func TestScoreBounds(t *testing.T) {
	for _, tc := range []struct {
		name string
		fund *models.FundamentalMetrics
		tech *models.TechnicalSignal
	}{
		{"strong", strongFund(), signal(models.VoteBuy)},
		{"weak", weakFund(), signal(models.VoteSell)},
		{"fundamentals only", strongFund(), nil},
		{"technicals only", nil, signal(models.VoteHold)},
	} {
		for _, policy := range []Policy{VariantPrescreened(), VariantGated()} {
			res := New(policy).Score(snapFor("X"), tc.fund, tc.tech)
			v, ok := res.Composite.Value()
			if !ok {
				t.Fatalf("%s/%s: composite unavailable", tc.name, policy.Name)
			}
			if v < 0 || v > 100 {
				t.Errorf("%s/%s: composite %v out of [0,100]", tc.name, policy.Name, v)
			}
		}
	}
}

func TestScoreMonotonicInNetMargin(t *testing.T) {
	s := New(VariantGated())
	worse := weakFund()
	worse.Profitability.NetMargin = models.Some(3)
	better := weakFund()
	better.Profitability.NetMargin = models.Some(25)

	lo := s.Score(snapFor("X"), worse, signal(models.VoteHold)).Composite.Or(0)
	hi := s.Score(snapFor("X"), better, signal(models.VoteHold)).Composite.Or(0)
	if hi < lo {
		t.Fatalf("composite decreased when net margin improved: %v -> %v", lo, hi)
	}
	if hi == lo {
		t.Fatalf("composite unchanged when net margin crossed bands: %v", lo)
	}
}

func TestScoreValuationWithoutPE(t *testing.T) {
	s := New(VariantGated())
	fund := strongFund()
	fund.Valuation.PE = models.None()

	res := s.Score(snapFor("X"), fund, signal(models.VoteBuy))
	val := res.Categories[models.CategoryValuation]
	got, ok := val.Score.Value()
	if !ok {
		t.Fatal("valuation score unavailable with PB and PEG present")
	}
	// PB and PEG both band to 10, so the average ignores the missing PE.
	if got != 100 {
		t.Fatalf("valuation score = %v, want 100", got)
	}
}

func TestScoreRedistributesMissingCategoryWeight(t *testing.T) {
	s := New(VariantGated())
	fund := &models.FundamentalMetrics{
		Ticker:    "X",
		Valuation: models.ValuationMetrics{PE: models.Some(12)},
	}

	res := s.Score(snapFor("X"), fund, nil)
	got, ok := res.Composite.Value()
	if !ok {
		t.Fatal("composite unavailable")
	}
	// Valuation is the only category with data, so it carries all weight.
	if got != 100 {
		t.Fatalf("composite = %v, want 100", got)
	}
	if w := res.Categories[models.CategoryValuation].Weight; math.Abs(w-1) > 1e-9 {
		t.Errorf("valuation weight = %v, want 1", w)
	}
	if res.Categories[models.CategoryTechnical].Score.Valid() {
		t.Error("technical score should be absent without a signal")
	}
}

func TestScoreNoDataAtAll(t *testing.T) {
	s := New(VariantPrescreened())
	res := s.Score(snapFor("X"), nil, nil)
	if res.Composite.Valid() {
		t.Fatalf("composite should be absent with no inputs, got %v", res.Composite.Or(0))
	}
}

func TestTechnicalScoreMapping(t *testing.T) {
	for vote, want := range map[models.Vote]float64{
		models.VoteBuy:  100,
		models.VoteHold: 50,
		models.VoteSell: 10,
	} {
		got, ok := technicalScore(signal(vote)).Value()
		if !ok || got != want {
			t.Errorf("technicalScore(%s) = %v, want %v", vote, got, want)
		}
	}
	if technicalScore(nil).Valid() {
		t.Error("technicalScore(nil) should be absent")
	}
}

func TestPrescreenedUsesHistoricalGrowth(t *testing.T) {
	res := New(VariantPrescreened()).Score(snapFor("X"), strongFund(), signal(models.VoteBuy))
	cs, ok := res.Categories[models.CategoryHistoricalGrowth]
	if !ok || !cs.Score.Valid() {
		t.Fatal("prescreened variant should score historical growth")
	}
	if _, ok := New(VariantGated()).Policy().Weights[models.CategoryHistoricalGrowth]; ok {
		t.Fatal("gated variant should not weight historical growth")
	}
}

func TestValuationTagUnderpriced(t *testing.T) {
	fund := strongFund() // PE 12, PB 1.2, PEG 0.8 all cheap; 52wk position ~0.11
	if tag := ValuationTagFor(fund); tag != models.TagUnderpriced {
		t.Fatalf("tag = %s, want %s", tag, models.TagUnderpriced)
	}
}

func TestValuationTagOverpriced(t *testing.T) {
	fund := weakFund() // PE 40, PB 6, PEG 3.5 expensive; position ~0.86
	if tag := ValuationTagFor(fund); tag != models.TagOverpriced {
		t.Fatalf("tag = %s, want %s", tag, models.TagOverpriced)
	}
}

func TestValuationTagMissingVotersCountFair(t *testing.T) {
	fund := &models.FundamentalMetrics{
		Valuation: models.ValuationMetrics{PE: models.Some(40)},
	}
	// One expensive vote against three fair defaults.
	if tag := ValuationTagFor(fund); tag != models.TagFairValue {
		t.Fatalf("tag = %s, want %s", tag, models.TagFairValue)
	}
}

func TestValuationTagCheapWinsTies(t *testing.T) {
	fund := &models.FundamentalMetrics{
		Price: models.Some(95),
		Valuation: models.ValuationMetrics{
			PE:  models.Some(10),
			PB:  models.Some(1.0),
			PEG: models.Some(3),
		},
		FiftyTwoWeekHigh: models.Some(100),
		FiftyTwoWeekLow:  models.Some(50),
	}
	// Two cheap votes, two expensive: the conservative-buy side wins.
	if tag := ValuationTagFor(fund); tag != models.TagUnderpriced {
		t.Fatalf("tag = %s, want %s", tag, models.TagUnderpriced)
	}
}

func TestValuationTagNilFundamentals(t *testing.T) {
	if tag := ValuationTagFor(nil); tag != models.TagFairValue {
		t.Fatalf("tag = %s, want %s", tag, models.TagFairValue)
	}
}

func TestPolicyWeightsSumToOne(t *testing.T) {
	for _, p := range []Policy{VariantPrescreened(), VariantGated()} {
		var sum float64
		for _, w := range p.Weights {
			sum += w
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("%s weights sum to %v, want 1", p.Name, sum)
		}
	}
}

func TestPolicyByName(t *testing.T) {
	if p, ok := PolicyByName("gated"); !ok || !p.ComplianceGate {
		t.Fatal("gated policy should exist and gate on compliance")
	}
	if p, ok := PolicyByName("prescreened"); !ok || p.ComplianceGate {
		t.Fatal("prescreened policy should exist without a compliance gate")
	}
	if _, ok := PolicyByName("bogus"); ok {
		t.Fatal("unknown policy name should not resolve")
	}
}
