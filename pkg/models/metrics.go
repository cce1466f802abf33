package models

// CAGRHorizons are the lookback horizons, in years, for historical
// price growth.
var CAGRHorizons = []int{1, 3, 5, 10}

// ValuationMetrics are price-relative valuation ratios.
type ValuationMetrics struct {
	PE  Metric `json:"pe"`
	PB  Metric `json:"pb"`
	PEG Metric `json:"peg"`
}

// ProfitabilityMetrics are margin and return ratios, in percent.
type ProfitabilityMetrics struct {
	GrossMargin     Metric `json:"gross_margin"`
	OperatingMargin Metric `json:"operating_margin"`
	NetMargin       Metric `json:"net_margin"`
	ROE             Metric `json:"roe"`
	ROA             Metric `json:"roa"`
}

// GrowthMetrics are trailing growth rates over the latest reported
// period, in percent.
type GrowthMetrics struct {
	Revenue  Metric `json:"revenue"`
	Earnings Metric `json:"earnings"`
}

// HealthMetrics are balance-sheet strength indicators.
type HealthMetrics struct {
	CurrentRatio     Metric `json:"current_ratio"`
	DebtToEquity     Metric `json:"debt_to_equity"`
	InterestCoverage Metric `json:"interest_coverage"`
	FreeCashFlow     Metric `json:"free_cash_flow"`
}

// FundamentalMetrics is the full fundamental picture for one stock.
// Every field that could not be derived from the snapshot is absent,
// and absent fields are excluded from category averages during scoring.
type FundamentalMetrics struct {
	Ticker        string               `json:"ticker"`
	Price         Metric               `json:"price"`
	Valuation     ValuationMetrics     `json:"valuation"`
	Profitability ProfitabilityMetrics `json:"profitability"`
	Growth        GrowthMetrics        `json:"growth"`
	Health        HealthMetrics        `json:"health"`

	// HistoricalCAGR holds the annualized price growth rate in percent
	// per horizon in CAGRHorizons. A horizon without a price point at
	// or before now-h years is absent, never defaulted to zero.
	HistoricalCAGR map[int]Metric `json:"historical_cagr"`

	FiftyTwoWeekHigh Metric `json:"week_high_52"`
	FiftyTwoWeekLow  Metric `json:"week_low_52"`
}
