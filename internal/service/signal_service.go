package service

import (
	"stock-agent/config"
	"stock-agent/internal/dto"
	"stock-agent/pkg/logger"
)

// SignalService computes MACD indicator series and derives discrete buy/sell
// crossover events from a price series.
type SignalService interface {
	Compute(series *dto.PriceSeries) (*dto.IndicatorSeries, []dto.SignalEvent)
}

type signalService struct {
	cfg *config.Config
	log *logger.Logger
}

func NewSignalService(cfg *config.Config, log *logger.Logger) SignalService {
	return &signalService{cfg: cfg, log: log}
}

// Compute returns indicator arrays aligned index-for-index with the series
// bars, plus crossover events in date order. The first slowSpan bars are kept
// in the arrays for chart continuity but excluded from crossover evaluation
// because the slow EMA has not stabilized there. A crossover at bar i
// executes on bar i+1 at its open price; a crossover on the last bar has no
// bar to execute on and emits nothing.
func (s *signalService) Compute(series *dto.PriceSeries) (*dto.IndicatorSeries, []dto.SignalEvent) {
	closes := series.Closes()

	emaFast := ema(closes, s.cfg.Signal.FastSpan)
	emaSlow := ema(closes, s.cfg.Signal.SlowSpan)

	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = emaFast[i] - emaSlow[i]
	}
	signalLine := ema(macd, s.cfg.Signal.SignalSpan)

	indicators := &dto.IndicatorSeries{
		MACD:       macd,
		SignalLine: signalLine,
		EMAFast:    emaFast,
		EMASlow:    emaSlow,
	}

	var events []dto.SignalEvent
	for i := s.cfg.Signal.SlowSpan; i < len(closes); i++ {
		crossedUp := macd[i-1] <= signalLine[i-1] && macd[i] > signalLine[i]
		crossedDown := macd[i-1] >= signalLine[i-1] && macd[i] < signalLine[i]
		if !crossedUp && !crossedDown {
			continue
		}
		if i+1 >= len(series.Bars) {
			continue
		}

		kind := dto.SignalBuy
		if crossedDown {
			kind = dto.SignalSell
		}
		exec := series.Bars[i+1]
		events = append(events, dto.SignalEvent{
			Date:  exec.Date,
			Price: exec.Open,
			Kind:  kind,
		})
	}

	return indicators, events
}

// ema computes the exponential moving average with smoothing 2/(span+1),
// seeded with the first value so output length equals input length.
func ema(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}
