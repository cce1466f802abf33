// Package utils provides small formatting and ticker helpers shared by
// the CLI, reports, and the API layer.
package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatMoney renders a dollar amount with thousands separators,
// e.g. 1234567.5 -> "$1,234,567.50".
func FormatMoney(v float64) string {
	neg := v < 0
	v = math.Abs(v)

	whole := int64(v)
	cents := int64(math.Round((v - float64(whole)) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}

	s := fmt.Sprintf("%d", whole)
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		if len(s) > pre {
			b.WriteByte(',')
		}
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%02d", sign, b.String(), cents)
}

// FormatMarketCap renders a market cap in trillions/billions/millions,
// e.g. 2.5e12 -> "$2.50T".
func FormatMarketCap(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// FormatPct renders a decimal fraction as a percentage, e.g. 0.0825 -> "8.25%".
func FormatPct(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
