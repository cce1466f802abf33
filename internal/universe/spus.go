package universe

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/khanrehan/halalinvest/pkg/utils"
)

const spusURL = "https://www.sp-funds.com/wp-content/uploads/holdings/SPUS_holdings.csv"

// SPUS lists the holdings of the SP Funds S&P 500 Sharia Industry
// Exclusions ETF. The fund publishes a daily holdings CSV; its stocks
// are already Sharia-screened, so pipelines over this universe skip
// the compliance gate.
type SPUS struct {
	url    string
	client *http.Client
}

// NewSPUS creates a SPUS holdings universe source.
func NewSPUS() *SPUS {
	return &SPUS{
		url:    spusURL,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewSPUSWithURL points the source at a custom holdings file. Used by tests.
func NewSPUSWithURL(url string) *SPUS {
	s := NewSPUS()
	s.url = url
	return s
}

// Name returns the universe name.
func (s *SPUS) Name() string { return "spus" }

// Listings downloads and parses the holdings CSV.
func (s *SPUS) Listings(ctx context.Context) ([]Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch SPUS holdings: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch SPUS holdings: HTTP %s", resp.Status)
	}

	listings, err := ParseHoldings(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, fmt.Errorf("no holdings found at %s", s.url)
	}
	return listings, nil
}

// ParseHoldings parses a fund holdings CSV. The header row is located
// by its ticker column, so leading disclaimer lines and column order
// changes are tolerated. Cash and other non-equity rows are skipped.
func ParseHoldings(r io.Reader) ([]Listing, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var (
		listings  []Listing
		tickerCol = -1
		nameCol   = -1
		weightCol = -1
	)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse holdings CSV: %w", err)
		}

		if tickerCol < 0 {
			for i, field := range record {
				switch normalizeHeader(field) {
				case "ticker", "stockticker", "symbol":
					tickerCol = i
				case "name", "security", "securityname", "description":
					nameCol = i
				case "weight", "weightings", "weightpct":
					weightCol = i
				}
			}
			continue
		}

		if tickerCol >= len(record) {
			continue
		}
		ticker := strings.TrimSpace(record[tickerCol])
		if ticker == "" || !utils.IsPlainTicker(ticker) {
			// Cash positions show up as "CASH&OTHER" or similar.
			continue
		}

		l := Listing{Ticker: utils.NormalizeTicker(ticker)}
		if nameCol >= 0 && nameCol < len(record) {
			l.Company = strings.TrimSpace(record[nameCol])
		}
		if weightCol >= 0 && weightCol < len(record) {
			w := strings.TrimSuffix(strings.TrimSpace(record[weightCol]), "%")
			if v, err := strconv.ParseFloat(w, 64); err == nil {
				l.Weight = v
			}
		}
		listings = append(listings, l)
	}

	if tickerCol < 0 {
		return nil, fmt.Errorf("parse holdings CSV: no ticker column found")
	}
	return listings, nil
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "(%)", "")
	return s
}
