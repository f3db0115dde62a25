package service

import (
	"stock-agent/config"
	"stock-agent/internal/dto"
	"stock-agent/pkg/logger"
)

// BacktestService replays signal events against a synthetic trading account.
type BacktestService interface {
	Simulate(signals []dto.SignalEvent, series *dto.PriceSeries, initialCapital, feeRate float64) *dto.BacktestResult
}

type backtestService struct {
	cfg *config.Config
	log *logger.Logger
}

func NewBacktestService(cfg *config.Config, log *logger.Logger) BacktestService {
	return &backtestService{cfg: cfg, log: log}
}

type openPosition struct {
	entry     dto.SignalEvent
	quantity  float64
	fee       float64
	committed float64
}

// Simulate starts flat with initialCapital and replays the events in order.
// A buy while flat commits all capital minus the transaction fee; a sell
// while flat and a buy while holding are no-ops (single position, no
// pyramiding). A position still open at series end is marked to market at the
// last close but excluded from the win-rate denominator.
func (s *backtestService) Simulate(signals []dto.SignalEvent, series *dto.PriceSeries, initialCapital, feeRate float64) *dto.BacktestResult {
	capital := initialCapital
	var pos *openPosition
	var trades []dto.Trade

	for _, ev := range signals {
		switch ev.Kind {
		case dto.SignalBuy:
			if pos != nil || ev.Price <= 0 {
				continue
			}
			fee := feeRate * capital
			pos = &openPosition{
				entry:     ev,
				quantity:  (capital - fee) / ev.Price,
				fee:       fee,
				committed: capital,
			}

		case dto.SignalSell:
			if pos == nil {
				continue
			}
			proceeds := pos.quantity * ev.Price * (1 - feeRate)
			trades = append(trades, dto.Trade{
				EntryDate:  pos.entry.Date,
				EntryPrice: pos.entry.Price,
				ExitDate:   ev.Date,
				ExitPrice:  ev.Price,
				Quantity:   pos.quantity,
				Fee:        pos.fee,
				Profit:     proceeds - pos.committed,
			})
			capital = proceeds
			pos = nil
		}
	}

	finalValue := capital
	if pos != nil && len(series.Bars) > 0 {
		finalValue = pos.quantity * series.LastBar().Close
	}

	wins := 0
	for _, t := range trades {
		if t.Profit > 0 {
			wins++
		}
	}

	winRate := 0.0
	if len(trades) > 0 {
		winRate = float64(wins) / float64(len(trades)) * 100
	}

	numTrades := len(trades)
	if pos != nil {
		numTrades++
	}

	return &dto.BacktestResult{
		TotalProfit: finalValue - initialCapital,
		ROI:         (finalValue - initialCapital) / initialCapital * 100,
		FinalValue:  finalValue,
		WinRate:     winRate,
		NumTrades:   numTrades,
		Trades:      trades,
	}
}
