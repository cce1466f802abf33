// Package universe resolves the set of tickers a pipeline run covers:
// either the full S&P 500 scraped from Wikipedia or the pre-screened
// holdings of the SPUS Sharia ETF.
package universe

import (
	"context"
	"fmt"
)

// Listing is one constituent of a stock universe.
type Listing struct {
	Ticker      string `json:"ticker"`
	Company     string `json:"company"`
	Sector      string `json:"sector"`
	SubIndustry string `json:"sub_industry,omitempty"`
	Weight      float64 `json:"weight,omitempty"` // ETF weight in percent, when known
}

// Source lists the constituents of one universe.
type Source interface {
	// Name returns the universe name, e.g. "sp500".
	Name() string

	// Listings returns all constituents.
	Listings(ctx context.Context) ([]Listing, error)
}

// ByName resolves a universe source from configuration.
func ByName(name string) (Source, error) {
	switch name {
	case "sp500":
		return NewSP500(), nil
	case "spus":
		return NewSPUS(), nil
	default:
		return nil, fmt.Errorf("unknown universe %q", name)
	}
}

// Tickers extracts the ticker symbols from listings.
func Tickers(listings []Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.Ticker
	}
	return out
}
