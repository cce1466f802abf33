package universe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/khanrehan/halalinvest/pkg/utils"
)

const sp500URL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

// SP500 lists the S&P 500 constituents from the Wikipedia table.
type SP500 struct {
	url    string
	client *http.Client
}

// NewSP500 creates an S&P 500 universe source.
func NewSP500() *SP500 {
	return &SP500{
		url:    sp500URL,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewSP500WithURL points the source at a custom page. Used by tests.
func NewSP500WithURL(url string) *SP500 {
	s := NewSP500()
	s.url = url
	return s
}

// Name returns the universe name.
func (s *SP500) Name() string { return "sp500" }

// Listings downloads and parses the constituents table.
func (s *SP500) Listings(ctx context.Context) ([]Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch S&P 500 constituents: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch S&P 500 constituents: HTTP %s", resp.Status)
	}

	listings, err := ParseSP500(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, fmt.Errorf("no constituents found at %s", s.url)
	}
	return listings, nil
}

// ParseSP500 parses the Wikipedia constituents table. Column layout:
// Symbol, Security, GICS Sector, GICS Sub-Industry, ...
func ParseSP500(r io.Reader) ([]Listing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse constituents HTML: %w", err)
	}

	var listings []Listing
	doc.Find("table#constituents tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return // header row
		}
		ticker := strings.TrimSpace(cells.Eq(0).Text())
		if ticker == "" {
			return
		}
		listings = append(listings, Listing{
			Ticker:      utils.NormalizeTicker(ticker),
			Company:     strings.TrimSpace(cells.Eq(1).Text()),
			Sector:      strings.TrimSpace(cells.Eq(2).Text()),
			SubIndustry: strings.TrimSpace(cells.Eq(3).Text()),
		})
	})
	return listings, nil
}
