package utils

import "strings"

// NormalizeTicker uppercases a ticker and converts class-share dots to
// the dash form most data providers expect (BRK.B -> BRK-B).
func NormalizeTicker(ticker string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	return strings.ReplaceAll(t, ".", "-")
}

// IsPlainTicker reports whether s looks like a stock ticker rather than
// a cash line or footnote row in a holdings file. Class-share forms
// like BRK.B and BRK-B count as tickers.
func IsPlainTicker(s string) bool {
	if s == "" || len(s) > 10 {
		return false
	}
	if s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '-':
		default:
			return false
		}
	}
	return true
}
