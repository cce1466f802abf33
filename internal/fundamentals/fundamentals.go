// Package fundamentals derives valuation, profitability, growth, and
// financial-health metrics from a stock snapshot. Metric extraction
// never fails on missing fields — those degrade to absent metrics — but
// it does fail fast on malformed price history.
package fundamentals

import (
	"fmt"
	"math"
	"time"

	"github.com/khanrehan/halalinvest/pkg/models"
)

// Extract derives the full fundamental picture from one snapshot.
// It returns an error only for malformed input (non-positive prices or
// non-monotonic timestamps in the history); missing fundamental fields
// simply yield absent metrics.
func Extract(snap *models.StockSnapshot) (*models.FundamentalMetrics, error) {
	if err := validateHistory(snap.History); err != nil {
		return nil, fmt.Errorf("extract %s: %w", snap.Ticker, err)
	}

	m := &models.FundamentalMetrics{
		Ticker: snap.Ticker,
		Price:  snap.Price,
		Valuation: models.ValuationMetrics{
			PE:  positive(snap.PE),
			PB:  positive(snap.PB),
			PEG: positive(snap.PEG),
		},
		Profitability: models.ProfitabilityMetrics{
			GrossMargin:     asPercent(snap.GrossMargin),
			OperatingMargin: asPercent(snap.OperatingMargin),
			NetMargin:       asPercent(snap.NetMargin),
			ROE:             asPercent(snap.ROE),
			ROA:             asPercent(snap.ROA),
		},
		Growth: models.GrowthMetrics{
			Revenue:  asPercent(snap.RevenueGrowth),
			Earnings: asPercent(snap.EarningsGrowth),
		},
		Health: models.HealthMetrics{
			CurrentRatio:     snap.CurrentRatio,
			DebtToEquity:     snap.DebtToEquity,
			InterestCoverage: snap.InterestCoverage,
			FreeCashFlow:     snap.FreeCashFlow,
		},
		HistoricalCAGR:   historicalCAGR(snap.History),
		FiftyTwoWeekHigh: snap.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  snap.FiftyTwoWeekLow,
	}

	return m, nil
}

// CAGR computes the compound annual growth rate in percent between two
// prices over the given number of years. Absent when either price is
// non-positive.
func CAGR(start, end float64, years int) models.Metric {
	if start <= 0 || end <= 0 || years <= 0 {
		return models.None()
	}
	return models.Some((math.Pow(end/start, 1/float64(years)) - 1) * 100)
}

// historicalCAGR computes price CAGR for each standard horizon. A
// horizon is present only when the history holds a bar at or before
// now-h years; short histories leave the horizon absent rather than
// defaulting it to zero.
func historicalCAGR(history []models.OHLCV) map[int]models.Metric {
	out := make(map[int]models.Metric, len(models.CAGRHorizons))
	for _, h := range models.CAGRHorizons {
		out[h] = models.None()
	}
	if len(history) == 0 {
		return out
	}

	last := history[len(history)-1]
	for _, h := range models.CAGRHorizons {
		target := last.Timestamp.AddDate(-h, 0, 0)
		if bar, ok := barAtOrBefore(history, target); ok {
			out[h] = CAGR(bar.Close, last.Close, h)
		}
	}
	return out
}

// barAtOrBefore returns the latest bar whose timestamp is at or before
// target.
func barAtOrBefore(history []models.OHLCV, target time.Time) (models.OHLCV, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if !history[i].Timestamp.After(target) {
			return history[i], true
		}
	}
	return models.OHLCV{}, false
}

func validateHistory(history []models.OHLCV) error {
	for i, bar := range history {
		if bar.Close <= 0 {
			return fmt.Errorf("malformed history: non-positive close %.4f at bar %d", bar.Close, i)
		}
		if i > 0 && !history[i-1].Timestamp.Before(bar.Timestamp) {
			return fmt.Errorf("malformed history: non-monotonic timestamps at bar %d", i)
		}
	}
	return nil
}

// positive keeps a metric only when it is present and positive. A
// negative P/E (negative earnings) carries no valuation information, so
// it is treated as unavailable instead of being banded.
func positive(m models.Metric) models.Metric {
	if v, ok := m.Value(); ok && v > 0 {
		return m
	}
	return models.None()
}

// asPercent normalizes a rate to percentage form. Providers report
// margins and growth either as decimal fractions (0.21) or percentages
// (21); values with magnitude below 1 are taken as fractions.
func asPercent(m models.Metric) models.Metric {
	v, ok := m.Value()
	if !ok {
		return models.None()
	}
	if math.Abs(v) < 1 {
		return models.Some(v * 100)
	}
	return models.Some(v)
}
