package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/khanrehan/halalinvest/pkg/models"
)

const summaryFixture = `{
  "quoteSummary": {
    "result": [{
      "price": {
        "symbol": "MSFT",
        "shortName": "Microsoft",
        "longName": "Microsoft Corporation",
        "regularMarketPrice": {"raw": 410.5, "fmt": "410.50"},
        "marketCap": {"raw": 3050000000000, "fmt": "3.05T"}
      },
      "assetProfile": {"sector": "Technology", "industry": "Software - Infrastructure"},
      "summaryDetail": {
        "trailingPE": {"raw": 35.2, "fmt": "35.20"},
        "fiftyTwoWeekHigh": {"raw": 430.8, "fmt": "430.80"},
        "fiftyTwoWeekLow": {"raw": 309.4, "fmt": "309.40"}
      },
      "defaultKeyStatistics": {
        "priceToBook": {"raw": 12.1, "fmt": "12.10"}
      },
      "financialData": {
        "profitMargins": {"raw": 0.36, "fmt": "36.00%"},
        "returnOnEquity": {"raw": 0.38, "fmt": "38.00%"},
        "debtToEquity": {"raw": 42.5, "fmt": "42.50"},
        "currentRatio": {"raw": 1.77, "fmt": "1.77"},
        "totalDebt": {"raw": 97000000000, "fmt": "97B"},
        "totalCash": {"raw": 80000000000, "fmt": "80B"},
        "totalRevenue": {"raw": 236000000000, "fmt": "236B"}
      },
      "balanceSheetHistory": {
        "balanceSheetStatements": [
          {"shortTermInvestments": {"raw": 57000000000}, "netReceivables": {"raw": 48000000000}}
        ]
      },
      "incomeStatementHistory": {
        "incomeStatementHistory": [
          {"interestExpense": {"raw": -2900000000}, "ebit": {"raw": 105000000000}}
        ]
      }
    }],
    "error": null
  }
}`

const chartFixture = `{
  "chart": {
    "result": [{
      "timestamp": [1700000000, 1700086400, 1700172800],
      "indicators": {
        "quote": [{
          "open":   [100.0, 101.0, null],
          "high":   [102.0, 103.0, null],
          "low":    [99.0, 100.5, null],
          "close":  [101.0, 102.5, null],
          "volume": [1000000, 1100000, null]
        }],
        "adjclose": [{"adjclose": [100.8, 102.3, null]}]
      }
    }],
    "error": null
  }
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/quoteSummary/MSFT"):
			w.Write([]byte(summaryFixture))
		case strings.Contains(r.URL.Path, "/chart/MSFT"):
			w.Write([]byte(chartFixture))
		case strings.Contains(r.URL.Path, "/quoteSummary/"):
			w.Write([]byte(`{"quoteSummary": {"result": [], "error": null}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestYahooSnapshotMapsFields(t *testing.T) {
	y := NewYahooWithBaseURL(newTestServer(t).URL)

	snap, err := y.Snapshot(context.Background(), "MSFT")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	if snap.Company != "Microsoft Corporation" {
		t.Errorf("Company = %q", snap.Company)
	}
	if snap.Sector != "Technology" {
		t.Errorf("Sector = %q", snap.Sector)
	}
	if v, ok := snap.Price.Value(); !ok || v != 410.5 {
		t.Errorf("Price = %v (valid=%v)", v, ok)
	}
	if v, ok := snap.PE.Value(); !ok || v != 35.2 {
		t.Errorf("PE = %v (valid=%v)", v, ok)
	}
	if v, ok := snap.TotalDebt.Value(); !ok || v != 97e9 {
		t.Errorf("TotalDebt = %v (valid=%v)", v, ok)
	}
	if v, ok := snap.ShortTermInvestments.Value(); !ok || v != 57e9 {
		t.Errorf("ShortTermInvestments = %v (valid=%v)", v, ok)
	}
	// EBIT 105B over |interest expense| 2.9B.
	if v, ok := snap.InterestCoverage.Value(); !ok || v < 36 || v > 37 {
		t.Errorf("InterestCoverage = %v (valid=%v)", v, ok)
	}
}

func TestYahooSnapshotMissingFieldsStayAbsent(t *testing.T) {
	y := NewYahooWithBaseURL(newTestServer(t).URL)

	snap, err := y.Snapshot(context.Background(), "MSFT")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	// The fixture omits PEG, margins growth figures, and FCF entirely.
	if snap.PEG.Valid() {
		t.Error("PEG should be absent")
	}
	if snap.RevenueGrowth.Valid() {
		t.Error("RevenueGrowth should be absent")
	}
	if snap.FreeCashFlow.Valid() {
		t.Error("FreeCashFlow should be absent")
	}
	if snap.InterestIncome.Valid() {
		t.Error("InterestIncome should be absent")
	}
}

func TestYahooSnapshotUnknownTicker(t *testing.T) {
	y := NewYahooWithBaseURL(newTestServer(t).URL)

	_, err := y.Snapshot(context.Background(), "NOPE")
	if !errors.Is(err, ErrTickerNotFound) {
		t.Fatalf("err = %v, want ErrTickerNotFound", err)
	}
}

func TestYahooHistoryDropsNullBars(t *testing.T) {
	y := NewYahooWithBaseURL(newTestServer(t).URL)

	from := time.Unix(1690000000, 0)
	to := time.Unix(1710000000, 0)
	bars, err := y.History(context.Background(), "MSFT", from, to)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	// The third bar has a null close and is dropped.
	if len(bars) != 2 {
		t.Fatalf("bars = %d, want 2", len(bars))
	}
	if bars[0].Close != 101.0 || bars[1].Close != 102.5 {
		t.Errorf("closes = %v/%v", bars[0].Close, bars[1].Close)
	}
	if !bars[0].Timestamp.Before(bars[1].Timestamp) {
		t.Error("bars should be ascending")
	}
	if bars[0].AdjClose != 100.8 {
		t.Errorf("AdjClose = %v", bars[0].AdjClose)
	}
}

func TestStaticProvider(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	snap := &models.StockSnapshot{
		Ticker: "AAPL",
		History: []models.OHLCV{
			{Timestamp: now.AddDate(0, 0, -2), Close: 100},
			{Timestamp: now.AddDate(0, 0, -1), Close: 101},
			{Timestamp: now, Close: 102},
		},
	}
	p := NewStatic(snap)

	got, err := p.Snapshot(context.Background(), "AAPL")
	if err != nil || got.Ticker != "AAPL" {
		t.Fatalf("Snapshot = %v, %v", got, err)
	}

	bars, err := p.History(context.Background(), "AAPL", now.AddDate(0, 0, -1), now)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("bars = %d, want 2 inside the range", len(bars))
	}

	if _, err := p.Snapshot(context.Background(), "NOPE"); !errors.Is(err, ErrTickerNotFound) {
		t.Fatalf("err = %v, want ErrTickerNotFound", err)
	}
}
