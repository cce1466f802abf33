package models

// Vote is the directional reading of a technical indicator.
type Vote string

const (
	VoteBuy  Vote = "BUY"
	VoteHold Vote = "HOLD"
	VoteSell Vote = "SELL"
)

// RSISignal is the relative strength index reading.
type RSISignal struct {
	Value  Metric `json:"value"`
	Vote   Vote   `json:"vote"`
	Detail string `json:"detail"`
}

// MACDSignal is the MACD line/signal-line reading.
type MACDSignal struct {
	MACD       Metric `json:"macd"`
	SignalLine Metric `json:"signal_line"`
	Vote       Vote   `json:"vote"`
	Detail     string `json:"detail"`
}

// SMACrossSignal is the 50/200-day moving average crossover reading.
type SMACrossSignal struct {
	SMA50  Metric `json:"sma_50"`
	SMA200 Metric `json:"sma_200"`
	Vote   Vote   `json:"vote"`
	Detail string `json:"detail"`
}

// BollingerSignal is the Bollinger band position reading.
type BollingerSignal struct {
	Upper  Metric `json:"upper"`
	Middle Metric `json:"middle"`
	Lower  Metric `json:"lower"`
	Price  Metric `json:"price"`
	Vote   Vote   `json:"vote"`
	Detail string `json:"detail"`
}

// VolumeSignal compares current volume to its 20-day average. It is
// informational only and never contributes to the overall vote.
type VolumeSignal struct {
	Current  int64  `json:"current"`
	Average  Metric `json:"average"`
	Ratio    Metric `json:"ratio"`
	Elevated bool   `json:"elevated"`
	Detail   string `json:"detail"`
}

// TechnicalSignal bundles the four directional indicator readings, the
// volume check, and the overall majority vote for one stock. The
// overall vote is the majority of the four indicator votes; a tie
// between buys and sells resolves to HOLD.
type TechnicalSignal struct {
	Ticker    string          `json:"ticker"`
	RSI       RSISignal       `json:"rsi"`
	MACD      MACDSignal      `json:"macd"`
	SMACross  SMACrossSignal  `json:"sma_crossover"`
	Bollinger BollingerSignal `json:"bollinger"`
	Volume    VolumeSignal    `json:"volume"`
	Overall   Vote            `json:"overall"`
	Detail    string          `json:"detail"`
}
