// Package screener implements the Sharia compliance screen based on the
// AAOIFI financial ratio standards. Each of the five rules is evaluated
// independently; a stock is compliant only when all five pass.
package screener

import (
	"fmt"

	"github.com/khanrehan/halalinvest/pkg/models"
)

// Default ratio thresholds per AAOIFI guidance.
const (
	DefaultDebtThreshold         = 0.33
	DefaultLiquidAssetsThreshold = 0.33
	DefaultReceivablesThreshold  = 0.33
	DefaultImpureIncomeThreshold = 0.05
)

// haramSectors are sector classifications excluded outright.
var haramSectors = map[string]bool{
	"Financial Services": true,
	"Financials":         true,
}

// haramIndustries are industry classifications excluded outright.
// Matching is exact category membership, not substring search, so an
// unrelated industry name never trips the screen.
var haramIndustries = map[string]bool{
	"Alcoholic Beverages":                 true,
	"Beverages - Brewers":                 true,
	"Beverages - Wineries & Distilleries": true,
	"Brewers":                             true,
	"Distillers & Vintners":               true,
	"Tobacco":                             true,
	"Gambling":                            true,
	"Casinos & Gaming":                    true,
	"Resorts & Casinos":                   true,
	"Adult Entertainment":                 true,
	"Cannabis":                            true,
	"Aerospace & Defense":                 true,
	"Banks - Diversified":                 true,
	"Banks - Regional":                    true,
	"Insurance - Diversified":             true,
	"Insurance - Life":                    true,
	"Insurance - Property & Casualty":     true,
	"Credit Services":                     true,
}

// haramTickers are curated per-ticker exclusions for companies whose
// classification looks clean but whose revenue mix is not.
var haramTickers = map[string]string{
	"NFLX": "significant revenue from explicit content",
	"HON":  "significant defense segment revenue",
	"RTX":  "defense contractor",
	"LMT":  "defense contractor",
	"GD":   "defense contractor",
	"NOC":  "defense contractor",
}

// Thresholds holds the ratio caps for the four quantitative screens.
type Thresholds struct {
	Debt         float64
	LiquidAssets float64
	Receivables  float64
	ImpureIncome float64
}

// DefaultThresholds returns the standard AAOIFI thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Debt:         DefaultDebtThreshold,
		LiquidAssets: DefaultLiquidAssetsThreshold,
		Receivables:  DefaultReceivablesThreshold,
		ImpureIncome: DefaultImpureIncomeThreshold,
	}
}

// Screener evaluates the compliance rule set against stock snapshots.
type Screener struct {
	thresholds Thresholds
}

// New creates a Screener with the given thresholds.
func New(t Thresholds) *Screener {
	return &Screener{thresholds: t}
}

// NewDefault creates a Screener with the standard thresholds.
func NewDefault() *Screener {
	return New(DefaultThresholds())
}

// Evaluate runs all five rules against the snapshot. The detailed
// result carries every rule evaluation in order; Compliant is the AND
// of all of them. A rule whose inputs are missing fails conservatively
// with InsufficientData set.
func (s *Screener) Evaluate(snap *models.StockSnapshot) models.ComplianceResult {
	rules := []models.RuleResult{
		s.screenBusinessActivity(snap),
		s.screenRatio(models.RuleDebtRatio, snap.TotalDebt, snap.MarketCap, s.thresholds.Debt, "debt"),
		s.screenLiquidAssets(snap),
		s.screenRatio(models.RuleReceivables, snap.NetReceivables, snap.MarketCap, s.thresholds.Receivables, "receivables"),
		s.screenImpureIncome(snap),
	}

	compliant := true
	for _, r := range rules {
		if !r.Passed {
			compliant = false
		}
	}

	return models.ComplianceResult{
		Ticker:    snap.Ticker,
		Company:   snap.Company,
		Sector:    snap.Sector,
		Industry:  snap.Industry,
		Compliant: compliant,
		Rules:     rules,
	}
}

// Compliant is the summary form of Evaluate: the boolean only.
func (s *Screener) Compliant(snap *models.StockSnapshot) bool {
	return s.Evaluate(snap).Compliant
}

func (s *Screener) screenBusinessActivity(snap *models.StockSnapshot) models.RuleResult {
	r := models.RuleResult{Name: models.RuleBusinessActivity}

	if reason, ok := haramTickers[snap.Ticker]; ok {
		r.Reason = fmt.Sprintf("ticker %s is excluded: %s", snap.Ticker, reason)
		return r
	}

	// An unclassified business is a conservative fail: unknown means
	// non-compliant.
	if snap.Sector == "" && snap.Industry == "" {
		r.Reason = "business activity unclassified"
		r.InsufficientData = true
		return r
	}

	if haramSectors[snap.Sector] {
		r.Reason = fmt.Sprintf("sector %q falls under prohibited financial services", snap.Sector)
		return r
	}
	if haramIndustries[snap.Industry] {
		r.Reason = fmt.Sprintf("industry %q involves prohibited activities", snap.Industry)
		return r
	}

	r.Passed = true
	r.Reason = fmt.Sprintf("sector %q, industry %q are permissible", snap.Sector, snap.Industry)
	return r
}

// screenRatio evaluates a plain numerator/market-cap rule.
func (s *Screener) screenRatio(name string, num, marketCap models.Metric, threshold float64, label string) models.RuleResult {
	r := models.RuleResult{Name: name, Threshold: threshold}

	ratio := models.Ratio(num, marketCap)
	v, ok := ratio.Value()
	if !ok {
		r.Reason = fmt.Sprintf("insufficient data to evaluate %s ratio", label)
		r.InsufficientData = true
		return r
	}

	r.Value = ratio
	r.Passed = v < threshold
	r.Reason = ratioReason(label, v, threshold, r.Passed)
	return r
}

func (s *Screener) screenLiquidAssets(snap *models.StockSnapshot) models.RuleResult {
	r := models.RuleResult{Name: models.RuleLiquidAssets, Threshold: s.thresholds.LiquidAssets}

	cash, cashOK := snap.TotalCash.Value()
	sti, stiOK := snap.ShortTermInvestments.Value()
	mc, mcOK := snap.MarketCap.Value()
	if (!cashOK && !stiOK) || !mcOK || mc == 0 {
		r.Reason = "insufficient data to evaluate liquid assets ratio"
		r.InsufficientData = true
		return r
	}

	liquid := 0.0
	if cashOK {
		liquid += cash
	}
	if stiOK {
		liquid += sti
	}

	v := liquid / mc
	r.Value = models.Some(v)
	r.Passed = v < s.thresholds.LiquidAssets
	r.Reason = ratioReason("liquid assets", v, s.thresholds.LiquidAssets, r.Passed)
	return r
}

func (s *Screener) screenImpureIncome(snap *models.StockSnapshot) models.RuleResult {
	r := models.RuleResult{Name: models.RuleImpureIncome, Threshold: s.thresholds.ImpureIncome}

	// The impure amount is the greater of interest expense and interest
	// income (absolute values), to capture interest-linked revenue even
	// when the provider only reports one side.
	exp, expOK := snap.InterestExpense.Value()
	inc, incOK := snap.InterestIncome.Value()
	rev, revOK := snap.TotalRevenue.Value()
	if (!expOK && !incOK) || !revOK || rev == 0 {
		r.Reason = "insufficient data to evaluate impure income ratio"
		r.InsufficientData = true
		return r
	}

	impure := 0.0
	if expOK && abs(exp) > impure {
		impure = abs(exp)
	}
	if incOK && abs(inc) > impure {
		impure = abs(inc)
	}

	v := impure / rev
	r.Value = models.Some(v)
	r.Passed = v < s.thresholds.ImpureIncome
	r.Reason = ratioReason("impure income", v, s.thresholds.ImpureIncome, r.Passed)
	return r
}

func ratioReason(label string, v, threshold float64, passed bool) string {
	rel := "below"
	if !passed {
		rel = "at or above"
	}
	return fmt.Sprintf("%s ratio %.2f%% is %s the %.0f%% threshold", label, v*100, rel, threshold*100)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
