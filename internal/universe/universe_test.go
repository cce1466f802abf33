package universe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const constituentsHTML = `<html><body>
<table id="constituents" class="wikitable">
<tbody>
<tr><th>Symbol</th><th>Security</th><th>GICS Sector</th><th>GICS Sub-Industry</th><th>HQ</th></tr>
<tr><td>MMM</td><td>3M</td><td>Industrials</td><td>Industrial Conglomerates</td><td>Saint Paul, MN</td></tr>
<tr><td>AAPL</td><td>Apple Inc.</td><td>Information Technology</td><td>Technology Hardware</td><td>Cupertino, CA</td></tr>
<tr><td>BRK.B</td><td>Berkshire Hathaway</td><td>Financials</td><td>Multi-Sector Holdings</td><td>Omaha, NE</td></tr>
</tbody>
</table>
<table id="changes"><tbody><tr><td>JNJ</td><td>noise</td><td>x</td><td>y</td></tr></tbody></table>
</body></html>`

const holdingsCSV = `Account,StockTicker,SecurityName,Shares,Weightings
SPUS,AAPL,Apple Inc,120000,6.91%
SPUS,MSFT,Microsoft Corp,95000,6.52%
SPUS,BRK.B,Berkshire Hathaway,1000,0.40%
SPUS,Cash&Other,Cash & Other,0,0.35%
`

func TestParseSP500(t *testing.T) {
	listings, err := ParseSP500(strings.NewReader(constituentsHTML))
	if err != nil {
		t.Fatalf("ParseSP500: %v", err)
	}
	if len(listings) != 3 {
		t.Fatalf("listings = %d, want 3", len(listings))
	}
	if listings[0].Ticker != "MMM" || listings[0].Sector != "Industrials" {
		t.Errorf("first listing = %+v", listings[0])
	}
	if listings[1].Company != "Apple Inc." {
		t.Errorf("company = %q", listings[1].Company)
	}
	// Class-share dots come out in dash form.
	if listings[2].Ticker != "BRK-B" {
		t.Errorf("ticker = %q, want BRK-B", listings[2].Ticker)
	}
}

func TestParseSP500IgnoresOtherTables(t *testing.T) {
	listings, _ := ParseSP500(strings.NewReader(constituentsHTML))
	for _, l := range listings {
		if l.Ticker == "JNJ" {
			t.Fatal("picked up a row from the changes table")
		}
	}
}

func TestSP500ListingsFromServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(constituentsHTML))
	}))
	defer srv.Close()

	src := NewSP500WithURL(srv.URL)
	if src.Name() != "sp500" {
		t.Fatalf("Name() = %q", src.Name())
	}
	listings, err := src.Listings(context.Background())
	if err != nil {
		t.Fatalf("Listings: %v", err)
	}
	if len(listings) != 3 {
		t.Fatalf("listings = %d, want 3", len(listings))
	}
}

func TestParseHoldings(t *testing.T) {
	listings, err := ParseHoldings(strings.NewReader(holdingsCSV))
	if err != nil {
		t.Fatalf("ParseHoldings: %v", err)
	}
	if len(listings) != 3 {
		t.Fatalf("listings = %d, want 3 (cash row skipped)", len(listings))
	}
	if listings[0].Ticker != "AAPL" || listings[0].Company != "Apple Inc" {
		t.Errorf("first listing = %+v", listings[0])
	}
	if listings[0].Weight != 6.91 {
		t.Errorf("weight = %v, want 6.91", listings[0].Weight)
	}
	if listings[2].Ticker != "BRK-B" {
		t.Errorf("ticker = %q, want BRK-B", listings[2].Ticker)
	}
}

func TestParseHoldingsNoTickerColumn(t *testing.T) {
	csv := "A,B\n1,2\n"
	if _, err := ParseHoldings(strings.NewReader(csv)); err == nil {
		t.Fatal("expected an error for a CSV without a ticker column")
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"sp500", "spus"} {
		src, err := ByName(name)
		if err != nil || src.Name() != name {
			t.Errorf("ByName(%q) = %v, %v", name, src, err)
		}
	}
	if _, err := ByName("nasdaq"); err == nil {
		t.Error("unknown universe should error")
	}
}

func TestTickers(t *testing.T) {
	got := Tickers([]Listing{{Ticker: "A"}, {Ticker: "B"}})
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("Tickers = %v", got)
	}
}
