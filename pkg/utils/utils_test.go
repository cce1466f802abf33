package utils

import "testing"

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{10, "$10.00"},
		{1234.5, "$1,234.50"},
		{1234567.891, "$1,234,567.89"},
		{-42.1, "-$42.10"},
	}
	for _, c := range cases {
		if got := FormatMoney(c.in); got != c.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatMarketCap(t *testing.T) {
	if got := FormatMarketCap(2.5e12); got != "$2.50T" {
		t.Errorf("got %q", got)
	}
	if got := FormatMarketCap(8e9); got != "$8.00B" {
		t.Errorf("got %q", got)
	}
}

func TestNormalizeTicker(t *testing.T) {
	cases := map[string]string{
		"aapl":   "AAPL",
		" BRK.B": "BRK-B",
		"brk.a ": "BRK-A",
	}
	for in, want := range cases {
		if got := NormalizeTicker(in); got != want {
			t.Errorf("NormalizeTicker(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsPlainTicker(t *testing.T) {
	for _, good := range []string{"AAPL", "BRK.B", "BRK-B"} {
		if !IsPlainTicker(good) {
			t.Errorf("%q should be a plain ticker", good)
		}
	}
	for _, bad := range []string{"", "CASH & OTHER", "brk-b", "X Y", "1AAPL"} {
		if IsPlainTicker(bad) {
			t.Errorf("%q should not be a plain ticker", bad)
		}
	}
}
