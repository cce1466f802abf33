// Package models defines the core data structures shared across the
// halal-invest screening and scoring engine.
package models

import "time"

// OHLCV represents a single daily price bar.
type OHLCV struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
	AdjClose  float64   `json:"adj_close,omitempty"`
}

// StockSnapshot is the immutable per-ticker input bundle handed to the
// engine by a data provider. The engine only reads it; every optional
// field is an explicit Metric so missing provider data degrades to an
// absent value instead of a fake zero.
type StockSnapshot struct {
	Ticker   string `json:"ticker"`
	Company  string `json:"company"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`

	Price     Metric `json:"price"`
	MarketCap Metric `json:"market_cap"`

	// Valuation
	PE  Metric `json:"pe"`
	PB  Metric `json:"pb"`
	PEG Metric `json:"peg"`

	// Profitability (decimal fractions, e.g. 0.21 for 21%)
	GrossMargin     Metric `json:"gross_margin"`
	OperatingMargin Metric `json:"operating_margin"`
	NetMargin       Metric `json:"net_margin"`
	ROE             Metric `json:"roe"`
	ROA             Metric `json:"roa"`

	// Trailing growth over the latest reported period
	RevenueGrowth  Metric `json:"revenue_growth"`
	EarningsGrowth Metric `json:"earnings_growth"`

	// Financial health
	DebtToEquity     Metric `json:"debt_to_equity"` // percentage form, e.g. 45 for 45%
	CurrentRatio     Metric `json:"current_ratio"`
	InterestCoverage Metric `json:"interest_coverage"`
	FreeCashFlow     Metric `json:"free_cash_flow"`

	// Balance-sheet items used by the compliance screens
	TotalDebt            Metric `json:"total_debt"`
	TotalCash            Metric `json:"total_cash"`
	ShortTermInvestments Metric `json:"short_term_investments"`
	NetReceivables       Metric `json:"net_receivables"`
	TotalRevenue         Metric `json:"total_revenue"`
	InterestIncome       Metric `json:"interest_income"`
	InterestExpense      Metric `json:"interest_expense"`

	FiftyTwoWeekHigh Metric `json:"week_high_52"`
	FiftyTwoWeekLow  Metric `json:"week_low_52"`

	// Daily close-price history in ascending timestamp order, spanning
	// up to ten years where the provider has it.
	History []OHLCV `json:"history,omitempty"`

	FetchedAt time.Time `json:"fetched_at"`
}

// HasFundamentals reports whether the snapshot carries any usable
// fundamental field at all.
func (s *StockSnapshot) HasFundamentals() bool {
	for _, m := range []Metric{
		s.PE, s.PB, s.PEG,
		s.GrossMargin, s.OperatingMargin, s.NetMargin, s.ROE, s.ROA,
		s.RevenueGrowth, s.EarningsGrowth,
		s.DebtToEquity, s.CurrentRatio, s.InterestCoverage, s.FreeCashFlow,
	} {
		if m.Valid() {
			return true
		}
	}
	return false
}
