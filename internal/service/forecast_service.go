package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"stock-agent/config"
	"stock-agent/internal/dto"
	"stock-agent/internal/forecast"
	"stock-agent/pkg/logger"
	"stock-agent/pkg/utils"

	"golang.org/x/sync/singleflight"
)

// ForecastService trains and serves the per-ticker price forecasting model.
type ForecastService interface {
	Predict(ctx context.Context, ticker string) (*dto.ForecastResult, error)
	EvictStale()
}

type modelSnapshot struct {
	model       *forecast.Model
	scaler      forecast.Scaler
	fingerprint string
	trainedAt   time.Time
}

type forecastService struct {
	cfg        *config.Config
	log        *logger.Logger
	priceStore PriceStoreService

	mu     sync.Mutex
	models map[string]*modelSnapshot
	group  singleflight.Group
}

func NewForecastService(cfg *config.Config, log *logger.Logger, priceStore PriceStoreService) ForecastService {
	return &forecastService{
		cfg:        cfg,
		log:        log,
		priceStore: priceStore,
		models:     make(map[string]*modelSnapshot),
	}
}

// Predict returns a horizon-length forecast for the ticker, training a model
// first when none exists for the current series. Concurrent requests for the
// same ticker share one training run; waiting is bounded by ctx.
func (s *forecastService) Predict(ctx context.Context, ticker string) (*dto.ForecastResult, error) {
	// Forecasting always trains on full daily history
	series, err := s.priceStore.GetSeries(ctx, ticker, "max", "1d")
	if err != nil {
		return nil, err
	}

	closes := series.Closes()
	if len(closes) < s.cfg.Forecast.MinHistory {
		return nil, fmt.Errorf("%w: %d bars available, %d required", dto.ErrInsufficientHistory, len(closes), s.cfg.Forecast.MinHistory)
	}

	lastBar := series.LastBar()
	fingerprint := fmt.Sprintf("%d:%s", len(closes), lastBar.Date.Format(utils.DateLayout))

	snap := s.snapshot(ticker)
	if snap == nil || snap.fingerprint != fingerprint {
		snap, err = s.trainShared(ctx, ticker, closes, fingerprint)
		if err != nil {
			return nil, err
		}
	}

	seed := snap.scaler.TransformAll(closes[len(closes)-snap.model.Lookback():])
	normalized, err := snap.model.Rollout(seed, s.cfg.Forecast.Horizon)
	if err != nil {
		return nil, fmt.Errorf("%w: rollout failed: %v", dto.ErrModelUnavailable, err)
	}

	predictions := make([]float64, len(normalized))
	dates := make([]string, len(normalized))
	for i, v := range normalized {
		predictions[i] = snap.scaler.Inverse(v)
		dates[i] = lastBar.Date.AddDate(0, 0, i+1).Format(utils.DateLayout)
	}

	return &dto.ForecastResult{
		Ticker:          ticker,
		PredictionDates: dates,
		Predictions:     predictions,
	}, nil
}

// trainShared collapses concurrent training requests for one ticker into a
// single run. The caller waits only as long as its context allows; a slow
// training run keeps going for the next requester.
func (s *forecastService) trainShared(ctx context.Context, ticker string, closes []float64, fingerprint string) (*modelSnapshot, error) {
	ch := s.group.DoChan(ticker, func() (interface{}, error) {
		// The run we queued behind may already have trained on this series
		if snap := s.snapshot(ticker); snap != nil && snap.fingerprint == fingerprint {
			return snap, nil
		}
		return s.train(ticker, closes, fingerprint)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*modelSnapshot), nil
	}
}

func (s *forecastService) train(ticker string, closes []float64, fingerprint string) (*modelSnapshot, error) {
	start := time.Now()

	scaler, err := forecast.FitScaler(closes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrModelUnavailable, err)
	}

	model, err := forecast.Train(scaler.TransformAll(closes), forecast.Config{
		Lookback:  s.cfg.Forecast.Lookback,
		Hidden:    s.cfg.Forecast.HiddenSize,
		Epochs:    s.cfg.Forecast.Epochs,
		LearnRate: s.cfg.Forecast.LearnRate,
		Seed:      seedForTicker(ticker),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: training failed: %v", dto.ErrModelUnavailable, err)
	}

	snap := &modelSnapshot{
		model:       model,
		scaler:      scaler,
		fingerprint: fingerprint,
		trainedAt:   time.Now(),
	}

	s.mu.Lock()
	s.models[ticker] = snap
	s.mu.Unlock()

	s.log.Info("Forecast model trained",
		logger.StringField("ticker", ticker),
		logger.StringField("fingerprint", fingerprint),
		logger.Field("duration", time.Since(start)),
	)
	return snap, nil
}

func (s *forecastService) snapshot(ticker string) *modelSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.models[ticker]
}

// EvictStale drops trained models older than the configured TTL so a
// refreshed price series retrains on the next request. Called by the janitor.
func (s *forecastService) EvictStale() {
	cutoff := time.Now().Add(-s.cfg.Forecast.ModelTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	for ticker, snap := range s.models {
		if snap.trainedAt.Before(cutoff) {
			delete(s.models, ticker)
			s.log.Info("Evicted stale forecast model", logger.StringField("ticker", ticker))
		}
	}
}

// seedForTicker derives a stable RNG seed so repeated training on the same
// series is reproducible.
func seedForTicker(ticker string) int64 {
	h := fnv.New64a()
	h.Write([]byte(ticker))
	return int64(h.Sum64())
}
