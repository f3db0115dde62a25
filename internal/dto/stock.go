package dto

import "time"

// Bar is one OHLCV candle.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is a chronological, duplicate-free series of bars for one
// (ticker, period, interval) key. Immutable once returned by the price store.
type PriceSeries struct {
	Ticker   string `json:"ticker"`
	Period   string `json:"period"`
	Interval string `json:"interval"`
	Bars     []Bar  `json:"bars"`
}

// Closes returns the close prices in date order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// LastBar returns the most recent bar. Callers must check Bars is non-empty.
func (s *PriceSeries) LastBar() Bar {
	return s.Bars[len(s.Bars)-1]
}

type GetStockDataParam struct {
	Ticker   string `json:"ticker"`
	Period   string `json:"period"`
	Interval string `json:"interval"`
}

// Yahoo Finance chart API response
type YahooFinanceResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// StockChartResponse is the dashboard payload for GET /api/stock/:ticker.
// Field names are part of the contract.
type StockChartResponse struct {
	Dates      []string  `json:"dates"`
	Close      []float64 `json:"close"`
	MACD       []float64 `json:"macd"`
	SignalLine []float64 `json:"signal_line"`
	Open       []float64 `json:"open"`
	High       []float64 `json:"high"`
	Low        []float64 `json:"low"`
}

// ErrorResponse is the uniform failure body for every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}
