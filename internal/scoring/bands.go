package scoring

// Sub-metric banding curves. Each maps an available metric value onto a
// fixed 0-10 step curve; the thresholds are constants so composite
// scores are reproducible run to run. Unavailable metrics never reach
// these functions — they are excluded from the category average
// upstream.

func scorePE(v float64) float64 {
	switch {
	case v < 15:
		return 10
	case v < 25:
		return 7
	case v < 35:
		return 4
	default:
		return 1
	}
}

func scorePB(v float64) float64 {
	switch {
	case v < 1.5:
		return 10
	case v < 3:
		return 7
	case v < 5:
		return 4
	default:
		return 1
	}
}

func scorePEG(v float64) float64 {
	switch {
	case v < 1:
		return 10
	case v < 2:
		return 7
	case v < 3:
		return 4
	default:
		return 1
	}
}

// scoreNetMargin expects percent.
func scoreNetMargin(v float64) float64 {
	switch {
	case v > 20:
		return 10
	case v > 10:
		return 7
	case v > 5:
		return 5
	case v > 0:
		return 3
	default:
		return 1
	}
}

func scoreROE(v float64) float64 {
	switch {
	case v > 25:
		return 10
	case v > 15:
		return 7
	case v > 10:
		return 5
	case v > 0:
		return 3
	default:
		return 1
	}
}

func scoreROA(v float64) float64 {
	switch {
	case v > 15:
		return 10
	case v > 10:
		return 7
	case v > 5:
		return 5
	case v > 0:
		return 3
	default:
		return 1
	}
}

func scoreRevenueGrowth(v float64) float64 {
	switch {
	case v > 25:
		return 10
	case v > 15:
		return 8
	case v > 5:
		return 6
	case v > 0:
		return 4
	default:
		return 2
	}
}

func scoreEarningsGrowth(v float64) float64 {
	switch {
	case v > 30:
		return 10
	case v > 15:
		return 8
	case v > 5:
		return 6
	case v > 0:
		return 4
	default:
		return 2
	}
}

// scoreCAGR bands annualized price growth in percent. Shares the
// revenue-growth curve shape.
func scoreCAGR(v float64) float64 {
	switch {
	case v > 25:
		return 10
	case v > 15:
		return 8
	case v > 5:
		return 6
	case v > 0:
		return 4
	default:
		return 2
	}
}

// scoreDebtToEquity expects percentage form (e.g. 45 for 0.45x).
func scoreDebtToEquity(v float64) float64 {
	switch {
	case v < 30:
		return 10
	case v < 60:
		return 7
	case v < 100:
		return 5
	case v < 150:
		return 3
	default:
		return 1
	}
}

// scoreCurrentRatio rewards comfortable liquidity; an extremely high
// ratio is idle capital and scores slightly lower than the sweet spot.
func scoreCurrentRatio(v float64) float64 {
	switch {
	case v > 3:
		return 8
	case v > 2:
		return 10
	case v > 1.5:
		return 7
	case v > 1:
		return 5
	default:
		return 2
	}
}

func scoreFreeCashFlow(v float64) float64 {
	switch {
	case v > 10e9:
		return 10
	case v > 1e9:
		return 8
	case v > 100e6:
		return 6
	case v > 0:
		return 4
	default:
		return 1
	}
}

func scoreInterestCoverage(v float64) float64 {
	switch {
	case v > 10:
		return 10
	case v > 5:
		return 7
	case v > 2:
		return 5
	case v > 1:
		return 3
	default:
		return 1
	}
}
