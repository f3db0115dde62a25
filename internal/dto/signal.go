package dto

import "time"

// IndicatorSeries holds MACD and signal line values aligned index-for-index
// with the bars of the price series it was computed from. Warm-up entries are
// present so charts keep date alignment.
type IndicatorSeries struct {
	MACD       []float64 `json:"macd"`
	SignalLine []float64 `json:"signal_line"`
	EMAFast    []float64 `json:"ema_fast"`
	EMASlow    []float64 `json:"ema_slow"`
}

type SignalKind string

const (
	SignalBuy  SignalKind = "buy"
	SignalSell SignalKind = "sell"
)

// SignalEvent is a discrete buy or sell derived from a MACD crossover. The
// event carries the bar the trade would execute on, not the crossover bar.
type SignalEvent struct {
	Date  time.Time  `json:"date"`
	Price float64    `json:"price"`
	Kind  SignalKind `json:"kind"`
}

// SignalPoint is the wire shape of one marker on the dashboard chart.
type SignalPoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// SignalsResponse is the payload for GET /api/signals/:ticker.
type SignalsResponse struct {
	BuySignals  []SignalPoint `json:"buy_signals"`
	SellSignals []SignalPoint `json:"sell_signals"`
}
