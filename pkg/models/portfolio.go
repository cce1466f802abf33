package models

import "time"

// Position is one portfolio holding.
type Position struct {
	ID        int64     `json:"id"`
	Ticker    string    `json:"ticker"`
	Shares    float64   `json:"shares"`
	CostBasis float64   `json:"cost_basis"` // per-share purchase price
	BoughtAt  time.Time `json:"bought_at"`
	Notes     string    `json:"notes,omitempty"`
}

// MarketValue returns the position value at the given price.
func (p Position) MarketValue(price float64) float64 {
	return p.Shares * price
}

// UnrealizedPL returns the gain or loss at the given price.
func (p Position) UnrealizedPL(price float64) float64 {
	return p.Shares * (price - p.CostBasis)
}

// WatchlistEntry is one watched ticker.
type WatchlistEntry struct {
	ID      int64     `json:"id"`
	Ticker  string    `json:"ticker"`
	Notes   string    `json:"notes,omitempty"`
	AddedAt time.Time `json:"added_at"`
}
