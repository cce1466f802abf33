// Package scoring combines fundamental metrics and the technical vote
// into a weighted 0-100 composite score, assigns a valuation tag, and
// plans fixed-budget allocations for a shortlist.
//
// Every sub-metric is banded onto a fixed 0-10 curve, categories
// average only their available sub-metrics, and the weights of
// categories with no data at all are redistributed proportionally
// across the rest — missing data never drags a score toward zero.
package scoring

import (
	"github.com/khanrehan/halalinvest/pkg/models"
	"github.com/khanrehan/halalinvest/pkg/utils"
)

// Policy is one pipeline variant's weight table. Weights must sum to 1.
type Policy struct {
	Name           string
	ComplianceGate bool
	Weights        map[models.Category]float64
}

// VariantPrescreened is the weight set for a universe that is already
// Sharia-screened (e.g. SPUS holdings): no compliance gate, historical
// growth scored as its own category.
func VariantPrescreened() Policy {
	return Policy{
		Name:           "prescreened",
		ComplianceGate: false,
		Weights: map[models.Category]float64{
			models.CategoryValuation:        0.25,
			models.CategoryProfitability:    0.20,
			models.CategoryGrowth:           0.15,
			models.CategoryHistoricalGrowth: 0.15,
			models.CategoryHealth:           0.15,
			models.CategoryTechnical:        0.10,
		},
	}
}

// VariantGated is the weight set for a full universe (e.g. the S&P 500)
// where the compliance screen gates stocks out before scoring.
func VariantGated() Policy {
	return Policy{
		Name:           "gated",
		ComplianceGate: true,
		Weights: map[models.Category]float64{
			models.CategoryValuation:     0.30,
			models.CategoryProfitability: 0.25,
			models.CategoryGrowth:        0.20,
			models.CategoryHealth:        0.15,
			models.CategoryTechnical:     0.10,
		},
	}
}

// PolicyByName resolves a variant name from configuration.
func PolicyByName(name string) (Policy, bool) {
	switch name {
	case "prescreened":
		return VariantPrescreened(), true
	case "gated":
		return VariantGated(), true
	default:
		return Policy{}, false
	}
}

// Scorer computes composite scores under one policy.
type Scorer struct {
	policy Policy
}

// New creates a Scorer for the given policy.
func New(p Policy) *Scorer {
	return &Scorer{policy: p}
}

// Policy returns the scorer's policy.
func (s *Scorer) Policy() Policy {
	return s.policy
}

// Score combines fundamentals and the technical signal into a composite
// result. Either input may be nil; categories without any available
// sub-metric end up absent and their weight is redistributed. When no
// category has data the composite itself is absent and the stock is
// excluded from ranking rather than scored as zero.
func (s *Scorer) Score(snap *models.StockSnapshot, fund *models.FundamentalMetrics, tech *models.TechnicalSignal) models.ScoreResult {
	raw := map[models.Category]models.Metric{}
	for cat := range s.policy.Weights {
		raw[cat] = s.categoryScore(cat, fund, tech)
	}

	// Redistribute weight over the categories that have data.
	var availableWeight float64
	for cat, w := range s.policy.Weights {
		if raw[cat].Valid() {
			availableWeight += w
		}
	}

	categories := make(map[models.Category]models.CategoryScore, len(raw))
	composite := models.None()
	if availableWeight > 0 {
		var sum float64
		for cat, w := range s.policy.Weights {
			score := raw[cat]
			eff := 0.0
			if score.Valid() {
				eff = w / availableWeight
				sum += score.Or(0) * eff
			}
			categories[cat] = models.CategoryScore{Score: score, Weight: eff}
		}
		composite = models.Some(utils.Round2(clamp(sum, 0, 100)))
	} else {
		for cat := range s.policy.Weights {
			categories[cat] = models.CategoryScore{Score: models.None()}
		}
	}

	return models.ScoreResult{
		Ticker:     snap.Ticker,
		Company:    snap.Company,
		Sector:     snap.Sector,
		Price:      snap.Price,
		Composite:  composite,
		Categories: categories,
		Tag:        ValuationTagFor(fund),
	}
}

func (s *Scorer) categoryScore(cat models.Category, fund *models.FundamentalMetrics, tech *models.TechnicalSignal) models.Metric {
	switch cat {
	case models.CategoryTechnical:
		return technicalScore(tech)
	case models.CategoryHistoricalGrowth:
		if fund == nil {
			return models.None()
		}
		var subs []models.Metric
		for _, h := range models.CAGRHorizons {
			subs = append(subs, banded(fund.HistoricalCAGR[h], scoreCAGR))
		}
		return categoryAvg(subs)
	case models.CategoryValuation:
		if fund == nil {
			return models.None()
		}
		return categoryAvg([]models.Metric{
			banded(fund.Valuation.PE, scorePE),
			banded(fund.Valuation.PB, scorePB),
			banded(fund.Valuation.PEG, scorePEG),
		})
	case models.CategoryProfitability:
		if fund == nil {
			return models.None()
		}
		return categoryAvg([]models.Metric{
			banded(fund.Profitability.NetMargin, scoreNetMargin),
			banded(fund.Profitability.ROE, scoreROE),
			banded(fund.Profitability.ROA, scoreROA),
		})
	case models.CategoryGrowth:
		if fund == nil {
			return models.None()
		}
		return categoryAvg([]models.Metric{
			banded(fund.Growth.Revenue, scoreRevenueGrowth),
			banded(fund.Growth.Earnings, scoreEarningsGrowth),
		})
	case models.CategoryHealth:
		if fund == nil {
			return models.None()
		}
		return categoryAvg([]models.Metric{
			banded(fund.Health.DebtToEquity, scoreDebtToEquity),
			banded(fund.Health.CurrentRatio, scoreCurrentRatio),
			banded(fund.Health.FreeCashFlow, scoreFreeCashFlow),
			banded(fund.Health.InterestCoverage, scoreInterestCoverage),
		})
	}
	return models.None()
}

// technicalScore maps the overall vote onto the 0-100 scale.
func technicalScore(tech *models.TechnicalSignal) models.Metric {
	if tech == nil {
		return models.None()
	}
	switch tech.Overall {
	case models.VoteBuy:
		return models.Some(100)
	case models.VoteSell:
		return models.Some(10)
	case models.VoteHold:
		return models.Some(50)
	}
	return models.None()
}

// banded applies a 0-10 band curve to an available metric.
func banded(m models.Metric, curve func(float64) float64) models.Metric {
	v, ok := m.Value()
	if !ok {
		return models.None()
	}
	return models.Some(curve(v))
}

// categoryAvg averages the available sub-scores and scales to 0-100.
// Absent when every sub-metric is absent.
func categoryAvg(subs []models.Metric) models.Metric {
	var sum float64
	var n int
	for _, s := range subs {
		if v, ok := s.Value(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return models.None()
	}
	return models.Some(sum / float64(n) * 10)
}

// Valuation-band thresholds for the tag vote.
const (
	tagPECheap  = 15.0
	tagPEFair   = 25.0
	tagPBCheap  = 1.5
	tagPBFair   = 3.0
	tagPEGCheap = 1.0
	tagPEGFair  = 2.0
	tagPosLow   = 0.33
	tagPosHigh  = 0.66
)

// ValuationTagFor classifies price level by majority vote across four
// fixed bands: P/E, P/B, PEG, and the position within the 52-week
// range. A missing voter counts as fair.
func ValuationTagFor(fund *models.FundamentalMetrics) models.ValuationTag {
	cheap, fair, expensive := 0, 0, 0
	voteBand := func(m models.Metric, cheapMax, fairMax float64) {
		v, ok := m.Value()
		switch {
		case !ok:
			fair++
		case v < cheapMax:
			cheap++
		case v <= fairMax:
			fair++
		default:
			expensive++
		}
	}

	if fund == nil {
		return models.TagFairValue
	}

	voteBand(fund.Valuation.PE, tagPECheap, tagPEFair)
	voteBand(fund.Valuation.PB, tagPBCheap, tagPBFair)
	voteBand(fund.Valuation.PEG, tagPEGCheap, tagPEGFair)
	voteBand(weekPosition(fund), tagPosLow, tagPosHigh)

	switch {
	case cheap >= fair && cheap >= expensive:
		return models.TagUnderpriced
	case expensive >= fair && expensive > cheap:
		return models.TagOverpriced
	default:
		return models.TagFairValue
	}
}

// weekPosition returns where the price sits in the 52-week range, 0 at
// the low and 1 at the high.
func weekPosition(fund *models.FundamentalMetrics) models.Metric {
	price, ok1 := fund.Price.Value()
	high, ok2 := fund.FiftyTwoWeekHigh.Value()
	low, ok3 := fund.FiftyTwoWeekLow.Value()
	if !ok1 || !ok2 || !ok3 || high <= low {
		return models.None()
	}
	return models.Some((price - low) / (high - low))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
