package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/khanrehan/halalinvest/pkg/models"
	"github.com/khanrehan/halalinvest/pkg/utils"
)

// Yahoo implements Provider against the Yahoo Finance quoteSummary and
// chart APIs.
type Yahoo struct {
	baseURL string
	cache   *cache
	limiter *rateLimiter
}

// NewYahoo creates a Yahoo Finance provider.
func NewYahoo() *Yahoo {
	return &Yahoo{
		baseURL: "https://query1.finance.yahoo.com",
		cache:   newCache(15 * time.Minute),
		limiter: newRateLimiter(5, time.Second),
	}
}

// NewYahooWithBaseURL creates a provider pointed at a custom endpoint.
// Used by tests to hit a local server.
func NewYahooWithBaseURL(baseURL string) *Yahoo {
	y := NewYahoo()
	y.baseURL = baseURL
	return y
}

// Name returns the provider name.
func (y *Yahoo) Name() string { return "Yahoo Finance" }

// summaryModules are the quoteSummary modules the snapshot needs:
// identity and price, sector classification, valuation ratios, margin
// and growth figures, and the balance-sheet items the compliance
// screens divide by market cap.
const summaryModules = "price,assetProfile,summaryDetail,defaultKeyStatistics,financialData,balanceSheetHistory,incomeStatementHistory"

// --- Yahoo Finance API types ---

// yValue is Yahoo's {raw, fmt} number wrapper. A nil Raw means the
// field is missing upstream and maps to an absent Metric.
type yValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

func (v *yValue) metric() models.Metric {
	if v == nil || v.Raw == nil {
		return models.None()
	}
	return models.Some(*v.Raw)
}

type yError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type ySummaryResponse struct {
	QuoteSummary struct {
		Result []ySummaryResult `json:"result"`
		Error  *yError          `json:"error"`
	} `json:"quoteSummary"`
}

type ySummaryResult struct {
	Price *struct {
		Symbol             string  `json:"symbol"`
		ShortName          string  `json:"shortName"`
		LongName           string  `json:"longName"`
		RegularMarketPrice *yValue `json:"regularMarketPrice"`
		MarketCap          *yValue `json:"marketCap"`
	} `json:"price"`
	AssetProfile *struct {
		Sector   string `json:"sector"`
		Industry string `json:"industry"`
	} `json:"assetProfile"`
	SummaryDetail *struct {
		TrailingPE       *yValue `json:"trailingPE"`
		FiftyTwoWeekHigh *yValue `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow  *yValue `json:"fiftyTwoWeekLow"`
	} `json:"summaryDetail"`
	DefaultKeyStatistics *struct {
		PriceToBook *yValue `json:"priceToBook"`
		PegRatio    *yValue `json:"pegRatio"`
	} `json:"defaultKeyStatistics"`
	FinancialData *struct {
		GrossMargins   *yValue `json:"grossMargins"`
		OperatingMargins *yValue `json:"operatingMargins"`
		ProfitMargins  *yValue `json:"profitMargins"`
		ReturnOnEquity *yValue `json:"returnOnEquity"`
		ReturnOnAssets *yValue `json:"returnOnAssets"`
		RevenueGrowth  *yValue `json:"revenueGrowth"`
		EarningsGrowth *yValue `json:"earningsGrowth"`
		DebtToEquity   *yValue `json:"debtToEquity"`
		CurrentRatio   *yValue `json:"currentRatio"`
		FreeCashflow   *yValue `json:"freeCashflow"`
		TotalDebt      *yValue `json:"totalDebt"`
		TotalCash      *yValue `json:"totalCash"`
		TotalRevenue   *yValue `json:"totalRevenue"`
	} `json:"financialData"`
	BalanceSheetHistory *struct {
		Statements []struct {
			ShortTermInvestments *yValue `json:"shortTermInvestments"`
			NetReceivables       *yValue `json:"netReceivables"`
		} `json:"balanceSheetStatements"`
	} `json:"balanceSheetHistory"`
	IncomeStatementHistory *struct {
		Statements []struct {
			InterestExpense *yValue `json:"interestExpense"`
			InterestIncome  *yValue `json:"interestIncome"`
			Ebit            *yValue `json:"ebit"`
		} `json:"incomeStatementHistory"`
	} `json:"incomeStatementHistory"`
}

type yChartResponse struct {
	Chart struct {
		Result []yChartResult `json:"result"`
		Error  *yError        `json:"error"`
	} `json:"chart"`
}

type yChartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// --- Provider methods ---

// Snapshot fetches the quoteSummary modules for one ticker and maps
// them onto a snapshot. History is not included; callers fetch it
// separately via History.
func (y *Yahoo) Snapshot(ctx context.Context, ticker string) (*models.StockSnapshot, error) {
	symbol := utils.NormalizeTicker(ticker)

	cacheKey := "snap:" + symbol
	if cached, ok := y.cache.get(cacheKey); ok {
		return cached.(*models.StockSnapshot), nil
	}

	if err := y.limiter.wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s", y.baseURL, symbol, summaryModules)
	body, err := get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("yahoo quoteSummary %s: %w", symbol, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp ySummaryResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse yahoo quoteSummary: %w", err)
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo API error: %s", resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}

	snap := mapSummary(symbol, resp.QuoteSummary.Result[0])
	y.cache.set(cacheKey, snap)
	return snap, nil
}

// History fetches daily bars from the chart API, oldest first.
func (y *Yahoo) History(ctx context.Context, ticker string, from, to time.Time) ([]models.OHLCV, error) {
	symbol := utils.NormalizeTicker(ticker)

	cacheKey := fmt.Sprintf("hist:%s:%d:%d", symbol, from.Unix(), to.Unix())
	if cached, ok := y.cache.get(cacheKey); ok {
		return cached.([]models.OHLCV), nil
	}

	if err := y.limiter.wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		y.baseURL, symbol, from.Unix(), to.Unix())
	body, err := get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp yChartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse yahoo chart: %w", err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error: %s", resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}

	candles := parseChart(resp.Chart.Result[0])
	y.cache.set(cacheKey, candles)
	return candles, nil
}

// --- Helpers ---

func mapSummary(symbol string, r ySummaryResult) *models.StockSnapshot {
	snap := &models.StockSnapshot{
		Ticker:    symbol,
		FetchedAt: time.Now(),
	}

	if r.Price != nil {
		snap.Company = coalesce(r.Price.LongName, r.Price.ShortName)
		snap.Price = r.Price.RegularMarketPrice.metric()
		snap.MarketCap = r.Price.MarketCap.metric()
	}
	if r.AssetProfile != nil {
		snap.Sector = r.AssetProfile.Sector
		snap.Industry = r.AssetProfile.Industry
	}
	if r.SummaryDetail != nil {
		snap.PE = r.SummaryDetail.TrailingPE.metric()
		snap.FiftyTwoWeekHigh = r.SummaryDetail.FiftyTwoWeekHigh.metric()
		snap.FiftyTwoWeekLow = r.SummaryDetail.FiftyTwoWeekLow.metric()
	}
	if r.DefaultKeyStatistics != nil {
		snap.PB = r.DefaultKeyStatistics.PriceToBook.metric()
		snap.PEG = r.DefaultKeyStatistics.PegRatio.metric()
	}
	if fd := r.FinancialData; fd != nil {
		snap.GrossMargin = fd.GrossMargins.metric()
		snap.OperatingMargin = fd.OperatingMargins.metric()
		snap.NetMargin = fd.ProfitMargins.metric()
		snap.ROE = fd.ReturnOnEquity.metric()
		snap.ROA = fd.ReturnOnAssets.metric()
		snap.RevenueGrowth = fd.RevenueGrowth.metric()
		snap.EarningsGrowth = fd.EarningsGrowth.metric()
		snap.DebtToEquity = fd.DebtToEquity.metric()
		snap.CurrentRatio = fd.CurrentRatio.metric()
		snap.FreeCashFlow = fd.FreeCashflow.metric()
		snap.TotalDebt = fd.TotalDebt.metric()
		snap.TotalCash = fd.TotalCash.metric()
		snap.TotalRevenue = fd.TotalRevenue.metric()
	}
	if bs := r.BalanceSheetHistory; bs != nil && len(bs.Statements) > 0 {
		latest := bs.Statements[0] // Yahoo lists the most recent year first
		snap.ShortTermInvestments = latest.ShortTermInvestments.metric()
		snap.NetReceivables = latest.NetReceivables.metric()
	}
	if is := r.IncomeStatementHistory; is != nil && len(is.Statements) > 0 {
		latest := is.Statements[0]
		snap.InterestExpense = latest.InterestExpense.metric()
		snap.InterestIncome = latest.InterestIncome.metric()
		snap.InterestCoverage = coverage(latest.Ebit.metric(), latest.InterestExpense.metric())
	}
	return snap
}

// coverage derives interest coverage as EBIT over interest expense.
// Yahoo reports interest expense as a negative outflow.
func coverage(ebit, interestExpense models.Metric) models.Metric {
	e, ok1 := ebit.Value()
	i, ok2 := interestExpense.Value()
	if !ok1 || !ok2 || i == 0 {
		return models.None()
	}
	if i < 0 {
		i = -i
	}
	return models.Some(e / i)
}

func parseChart(result yChartResult) []models.OHLCV {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	q := result.Indicators.Quote[0]
	var adjCloses []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adjCloses = result.Indicators.AdjClose[0].AdjClose
	}

	candles := make([]models.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		c := models.OHLCV{Timestamp: time.Unix(ts, 0).UTC()}
		if i < len(q.Open) && q.Open[i] != nil {
			c.Open = *q.Open[i]
		}
		if i < len(q.High) && q.High[i] != nil {
			c.High = *q.High[i]
		}
		if i < len(q.Low) && q.Low[i] != nil {
			c.Low = *q.Low[i]
		}
		if i < len(q.Close) && q.Close[i] != nil {
			c.Close = *q.Close[i]
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			c.Volume = *q.Volume[i]
		}
		if i < len(adjCloses) && adjCloses[i] != nil {
			c.AdjClose = *adjCloses[i]
		}
		// Bars with no close are data holes; drop them so downstream
		// validation sees a clean series.
		if c.Close > 0 {
			candles = append(candles, c)
		}
	}
	return candles
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
