package models

// Category identifies one scoring category.
type Category string

const (
	CategoryValuation        Category = "valuation"
	CategoryProfitability    Category = "profitability"
	CategoryGrowth           Category = "growth"
	CategoryHistoricalGrowth Category = "historical_growth"
	CategoryHealth           Category = "health"
	CategoryTechnical        Category = "technical"
)

// ValuationTag classifies a stock's price level.
type ValuationTag string

const (
	TagUnderpriced ValuationTag = "UNDERPRICED"
	TagFairValue   ValuationTag = "FAIR_VALUE"
	TagOverpriced  ValuationTag = "OVERPRICED"
)

// CategoryScore is one category's normalized 0-100 score together with
// the weight it carried in the composite. The score is absent when the
// category had no available sub-metric, in which case its weight was
// redistributed across the remaining categories.
type CategoryScore struct {
	Score  Metric  `json:"score"`
	Weight float64 `json:"weight"`
}

// ScoreResult is the composite investability score for one stock.
// Composite is absent when no category had usable data; such stocks are
// excluded from ranking rather than scored as zero.
type ScoreResult struct {
	Ticker     string                     `json:"ticker"`
	Company    string                     `json:"company"`
	Sector     string                     `json:"sector"`
	Price      Metric                     `json:"price"`
	Composite  Metric                     `json:"composite"` // 0-100, two decimals
	Categories map[Category]CategoryScore `json:"categories"`
	Tag        ValuationTag               `json:"valuation_tag"`
}

// AllocationEntry is one stock's share of a fixed investment budget.
// Cents is authoritative; Amount is its dollar rendering.
type AllocationEntry struct {
	Ticker  string  `json:"ticker"`
	Company string  `json:"company"`
	Price   Metric  `json:"price"`
	Score   float64 `json:"score"`
	Cents   int64   `json:"cents"`
	Amount  float64 `json:"amount"`
	Shares  float64 `json:"approx_shares"`
}

// AllocationPlan distributes a fixed budget across a shortlist in
// proportion to composite score. Entries always sum exactly to
// BudgetCents.
type AllocationPlan struct {
	BudgetCents int64             `json:"budget_cents"`
	Entries     []AllocationEntry `json:"entries"`
}

// TotalCents returns the sum of all entry amounts in cents.
func (p *AllocationPlan) TotalCents() int64 {
	var total int64
	for _, e := range p.Entries {
		total += e.Cents
	}
	return total
}
