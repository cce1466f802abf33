// Package technicals implements the technical indicators behind the
// engine's directional vote: RSI, MACD, the 50/200-day SMA crossover,
// and Bollinger bands, each reduced to a BUY/HOLD/SELL reading.
package technicals

import (
	"math"

	"github.com/khanrehan/halalinvest/pkg/models"
)

// Standard indicator parameters.
const (
	RSIPeriod       = 14
	MACDFast        = 12
	MACDSlow        = 26
	MACDSignal      = 9
	SMAShortPeriod  = 50
	SMALongPeriod   = 200
	BollingerPeriod = 20
	BollingerMult   = 2.0
	VolumePeriod    = 20
)

// RSI calculates the Relative Strength Index over the given period
// using Wilder's smoothing. Returns nil when the series is too short.
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	if period <= 0 || n < period+1 {
		return nil
	}

	rsi := make([]float64, n)
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	rsi[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		rsi[i] = rsiValue(avgGain, avgLoss)
	}

	return rsi
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// MACDPoint holds one MACD computation point.
type MACDPoint struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// MACD calculates the Moving Average Convergence Divergence series.
// Returns nil when the series is shorter than the slow period.
func MACD(closes []float64, fast, slow, signal int) []MACDPoint {
	n := len(closes)
	if n < slow {
		return nil
	}

	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)

	macdLine := make([]float64, n)
	for i := 0; i < n; i++ {
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}
	signalLine := EMA(macdLine, signal)

	points := make([]MACDPoint, n)
	for i := 0; i < n; i++ {
		points[i] = MACDPoint{
			MACD:      macdLine[i],
			Signal:    signalLine[i],
			Histogram: macdLine[i] - signalLine[i],
		}
	}
	return points
}

// BollingerPoint holds one set of Bollinger band values.
type BollingerPoint struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// Bollinger calculates Bollinger bands over the given period and
// standard-deviation multiplier. Returns nil when the series is too
// short.
func Bollinger(closes []float64, period int, mult float64) []BollingerPoint {
	n := len(closes)
	if n < period || period <= 0 {
		return nil
	}

	out := make([]BollingerPoint, n)
	for i := period - 1; i < n; i++ {
		window := closes[i-period+1 : i+1]
		mean := avg(window)
		sd := stddev(window, mean)
		out[i] = BollingerPoint{
			Upper:  mean + mult*sd,
			Middle: mean,
			Lower:  mean - mult*sd,
		}
	}
	return out
}

// Closes extracts the close prices from a candle series.
func Closes(candles []models.OHLCV) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}

func avg(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

func stddev(data []float64, mean float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sumSq := 0.0
	for _, v := range data {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(data)))
}
