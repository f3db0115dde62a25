package dto

import "time"

// Trade is one closed round trip in the backtest.
type Trade struct {
	EntryDate  time.Time `json:"entry_date"`
	EntryPrice float64   `json:"entry_price"`
	ExitDate   time.Time `json:"exit_date"`
	ExitPrice  float64   `json:"exit_price"`
	Quantity   float64   `json:"quantity"`
	Fee        float64   `json:"fee"`
	Profit     float64   `json:"profit"`
}

// BacktestResult is the payload for GET /api/backtest/:ticker.
type BacktestResult struct {
	TotalProfit float64 `json:"total_profit"`
	ROI         float64 `json:"roi"`
	FinalValue  float64 `json:"final_value"`
	WinRate     float64 `json:"win_rate"`
	NumTrades   int     `json:"num_trades"`
	Trades      []Trade `json:"-"`
}
