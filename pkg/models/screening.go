package models

// Compliance rule names, in evaluation order.
const (
	RuleBusinessActivity = "business_activity"
	RuleDebtRatio        = "debt_ratio"
	RuleLiquidAssets     = "liquid_assets_ratio"
	RuleReceivables      = "receivables_ratio"
	RuleImpureIncome     = "impure_income"
)

// RuleResult is the outcome of one compliance rule.
type RuleResult struct {
	Name      string  `json:"name"`
	Passed    bool    `json:"passed"`
	Value     Metric  `json:"value"`     // measured ratio; absent for the activity rule or on missing data
	Threshold float64 `json:"threshold"` // 0 for the activity rule
	Reason    string  `json:"reason"`

	// InsufficientData marks a rule that failed because the snapshot
	// lacked the fields to evaluate it, not because a threshold was
	// breached. Unknown is treated as non-compliant.
	InsufficientData bool `json:"insufficient_data,omitempty"`
}

// ComplianceResult is the full Sharia screen outcome for one stock.
// Compliant is the AND of all rule results.
type ComplianceResult struct {
	Ticker    string       `json:"ticker"`
	Company   string       `json:"company"`
	Sector    string       `json:"sector"`
	Industry  string       `json:"industry"`
	Compliant bool         `json:"compliant"`
	Rules     []RuleResult `json:"rules"`
}

// FailedRules returns the names of the rules that did not pass.
func (c *ComplianceResult) FailedRules() []string {
	var failed []string
	for _, r := range c.Rules {
		if !r.Passed {
			failed = append(failed, r.Name)
		}
	}
	return failed
}
