package technicals

import (
	"errors"
	"fmt"

	"github.com/khanrehan/halalinvest/pkg/models"
)

// MinBars is the minimum lookback required to compute every directional
// indicator (the MACD signal line needs slow+signal bars). Shorter
// series are insufficient data, not a guess.
const MinBars = MACDSlow + MACDSignal

// SMACrossLookback bounds how many bars back an SMA cross still counts
// as recent for the crossover vote.
const SMACrossLookback = 10

// ErrInsufficientHistory is returned when the price series is too short
// for the indicator set.
var ErrInsufficientHistory = errors.New("insufficient price history")

// RSI vote thresholds.
const (
	RSIOversold   = 30
	RSIOverbought = 70
)

// Analyze computes all four directional indicators plus the volume
// check and reduces them to one overall vote. The overall vote is the
// majority among the four indicator votes; a buy/sell tie resolves to
// HOLD so no indicator can deterministically override another.
func Analyze(ticker string, candles []models.OHLCV) (*models.TechnicalSignal, error) {
	if err := validate(candles); err != nil {
		return nil, fmt.Errorf("analyze %s: %w", ticker, err)
	}
	if len(candles) < MinBars {
		return nil, fmt.Errorf("analyze %s: %w: have %d bars, need %d", ticker, ErrInsufficientHistory, len(candles), MinBars)
	}

	closes := Closes(candles)

	sig := &models.TechnicalSignal{
		Ticker:    ticker,
		RSI:       rsiSignal(closes),
		MACD:      macdSignal(closes),
		SMACross:  smaCrossSignal(closes),
		Bollinger: bollingerSignal(closes),
		Volume:    volumeSignal(candles),
	}

	votes := []models.Vote{sig.RSI.Vote, sig.MACD.Vote, sig.SMACross.Vote, sig.Bollinger.Vote}
	sig.Overall = Majority(votes)
	sig.Detail = voteSummary(votes)
	return sig, nil
}

// Majority reduces indicator votes to a single direction: more buys
// than sells is BUY, more sells than buys is SELL, anything else —
// including an even split — is HOLD.
func Majority(votes []models.Vote) models.Vote {
	buy, sell := 0, 0
	for _, v := range votes {
		switch v {
		case models.VoteBuy:
			buy++
		case models.VoteSell:
			sell++
		}
	}
	switch {
	case buy > sell:
		return models.VoteBuy
	case sell > buy:
		return models.VoteSell
	default:
		return models.VoteHold
	}
}

func rsiSignal(closes []float64) models.RSISignal {
	vals := RSI(closes, RSIPeriod)
	if len(vals) == 0 {
		return models.RSISignal{Vote: models.VoteHold, Detail: "insufficient data for RSI"}
	}
	latest := vals[len(vals)-1]

	s := models.RSISignal{Value: models.Some(latest)}
	switch {
	case latest < RSIOversold:
		s.Vote = models.VoteBuy
		s.Detail = fmt.Sprintf("RSI %.1f — oversold (below %d)", latest, RSIOversold)
	case latest > RSIOverbought:
		s.Vote = models.VoteSell
		s.Detail = fmt.Sprintf("RSI %.1f — overbought (above %d)", latest, RSIOverbought)
	default:
		s.Vote = models.VoteHold
		s.Detail = fmt.Sprintf("RSI %.1f — neutral range", latest)
	}
	return s
}

// macdSignal votes only on a crossover completing at the latest bar; a
// line merely staying above or below its signal is neutral.
func macdSignal(closes []float64) models.MACDSignal {
	points := MACD(closes, MACDFast, MACDSlow, MACDSignal)
	if len(points) < 2 {
		return models.MACDSignal{Vote: models.VoteHold, Detail: "insufficient data for MACD"}
	}
	last := points[len(points)-1]
	prev := points[len(points)-2]

	s := models.MACDSignal{
		MACD:       models.Some(last.MACD),
		SignalLine: models.Some(last.Signal),
	}
	switch {
	case prev.MACD <= prev.Signal && last.MACD > last.Signal:
		s.Vote = models.VoteBuy
		s.Detail = fmt.Sprintf("MACD (%.4f) crossed above signal (%.4f) — bullish crossover", last.MACD, last.Signal)
	case prev.MACD >= prev.Signal && last.MACD < last.Signal:
		s.Vote = models.VoteSell
		s.Detail = fmt.Sprintf("MACD (%.4f) crossed below signal (%.4f) — bearish crossover", last.MACD, last.Signal)
	default:
		s.Vote = models.VoteHold
		s.Detail = fmt.Sprintf("MACD (%.4f) vs signal (%.4f) — no fresh crossover", last.MACD, last.Signal)
	}
	return s
}

// smaCrossSignal votes on the 50/200 relation when the cross happened
// within SMACrossLookback bars; an old cross is neutral.
func smaCrossSignal(closes []float64) models.SMACrossSignal {
	sma50 := SMA(closes, SMAShortPeriod)
	if sma50 == nil {
		return models.SMACrossSignal{Vote: models.VoteHold, Detail: "insufficient data for SMA 50"}
	}
	sma200 := SMA(closes, SMALongPeriod)
	if sma200 == nil {
		return models.SMACrossSignal{
			SMA50:  models.Some(sma50[len(sma50)-1]),
			Vote:   models.VoteHold,
			Detail: "insufficient data for SMA 200",
		}
	}

	n := len(closes)
	s := models.SMACrossSignal{
		SMA50:  models.Some(sma50[n-1]),
		SMA200: models.Some(sma200[n-1]),
	}

	above := sma50[n-1] > sma200[n-1]
	crossed := false
	for i := n - 1; i > SMALongPeriod-1 && i > n-1-SMACrossLookback; i-- {
		prevAbove := sma50[i-1] > sma200[i-1]
		if prevAbove != above {
			crossed = true
			break
		}
	}

	switch {
	case above && crossed:
		s.Vote = models.VoteBuy
		s.Detail = fmt.Sprintf("SMA50 (%.2f) crossed above SMA200 (%.2f) — golden cross", sma50[n-1], sma200[n-1])
	case !above && sma50[n-1] < sma200[n-1] && crossed:
		s.Vote = models.VoteSell
		s.Detail = fmt.Sprintf("SMA50 (%.2f) crossed below SMA200 (%.2f) — death cross", sma50[n-1], sma200[n-1])
	default:
		s.Vote = models.VoteHold
		s.Detail = fmt.Sprintf("SMA50 (%.2f) vs SMA200 (%.2f) — no recent cross", sma50[n-1], sma200[n-1])
	}
	return s
}

func bollingerSignal(closes []float64) models.BollingerSignal {
	bands := Bollinger(closes, BollingerPeriod, BollingerMult)
	if bands == nil {
		return models.BollingerSignal{Vote: models.VoteHold, Detail: "insufficient data for Bollinger bands"}
	}
	last := bands[len(bands)-1]
	price := closes[len(closes)-1]

	s := models.BollingerSignal{
		Upper:  models.Some(last.Upper),
		Middle: models.Some(last.Middle),
		Lower:  models.Some(last.Lower),
		Price:  models.Some(price),
	}
	switch {
	case price <= last.Lower:
		s.Vote = models.VoteBuy
		s.Detail = fmt.Sprintf("price %.2f at or below lower band %.2f — potentially oversold", price, last.Lower)
	case price >= last.Upper:
		s.Vote = models.VoteSell
		s.Detail = fmt.Sprintf("price %.2f at or above upper band %.2f — potentially overbought", price, last.Upper)
	default:
		s.Vote = models.VoteHold
		s.Detail = fmt.Sprintf("price %.2f within bands (%.2f - %.2f)", price, last.Lower, last.Upper)
	}
	return s
}

// volumeSignal flags volume above 1.5x its 20-day average. It never
// joins the directional vote.
func volumeSignal(candles []models.OHLCV) models.VolumeSignal {
	n := len(candles)
	current := candles[n-1].Volume

	window := candles
	if n > VolumePeriod {
		window = candles[n-VolumePeriod:]
	}
	var sum float64
	for _, c := range window {
		sum += float64(c.Volume)
	}
	mean := sum / float64(len(window))

	s := models.VolumeSignal{Current: current, Average: models.Some(mean)}
	if mean <= 0 {
		s.Average = models.None()
		s.Detail = "no volume data"
		return s
	}

	ratio := float64(current) / mean
	s.Ratio = models.Some(ratio)
	s.Elevated = ratio > 1.5
	if s.Elevated {
		s.Detail = fmt.Sprintf("volume %.1fx the %d-day average — unusual activity", ratio, VolumePeriod)
	} else {
		s.Detail = fmt.Sprintf("volume %.1fx the %d-day average — normal", ratio, VolumePeriod)
	}
	return s
}

func voteSummary(votes []models.Vote) string {
	buy, sell := 0, 0
	for _, v := range votes {
		switch v {
		case models.VoteBuy:
			buy++
		case models.VoteSell:
			sell++
		}
	}
	return fmt.Sprintf("%d buy, %d sell, %d neutral of %d indicators", buy, sell, len(votes)-buy-sell, len(votes))
}

func validate(candles []models.OHLCV) error {
	for i, c := range candles {
		if c.Close <= 0 {
			return fmt.Errorf("malformed series: non-positive close %.4f at bar %d", c.Close, i)
		}
		if i > 0 && !candles[i-1].Timestamp.Before(c.Timestamp) {
			return fmt.Errorf("malformed series: non-monotonic timestamps at bar %d", i)
		}
	}
	return nil
}
