package service

import (
	"context"
	"sync/atomic"
	"time"

	"stock-agent/config"
	"stock-agent/internal/dto"
	"stock-agent/pkg/logger"

	"go.uber.org/zap"
)

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

func testConfig() *config.Config {
	return &config.Config{
		Cache: config.Cache{
			PriceTTL: 5 * time.Minute,
		},
		Signal: config.Signal{
			FastSpan:   12,
			SlowSpan:   26,
			SignalSpan: 9,
		},
		Backtest: config.Backtest{
			InitialCapital: 10000,
			FeeRate:        0.001,
		},
		Forecast: config.Forecast{
			Lookback:   8,
			Horizon:    7,
			MinHistory: 20,
			HiddenSize: 4,
			Epochs:     2,
			LearnRate:  0.05,
			ModelTTL:   time.Hour,
		},
		Retry: config.Retry{
			MaxAttempts:     1,
			InitialInterval: time.Millisecond,
			MaxInterval:     2 * time.Millisecond,
		},
		Agent: config.Agent{
			ToolTimeout:     5 * time.Second,
			DefaultPeriod:   "1y",
			DefaultInterval: "1d",
		},
	}
}

// makeSeries builds a daily series from close prices. Opens equal the previous
// close so next-bar execution prices are predictable in tests.
func makeSeries(ticker string, closes []float64) *dto.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]dto.Bar, len(closes))
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		bars[i] = dto.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   open,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000,
		}
	}
	return &dto.PriceSeries{Ticker: ticker, Period: "1y", Interval: "1d", Bars: bars}
}

type fakeStockRepo struct {
	series *dto.PriceSeries
	err    error
	delay  time.Duration
	calls  atomic.Int64
}

func (f *fakeStockRepo) Get(ctx context.Context, param dto.GetStockDataParam) (*dto.PriceSeries, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.series, nil
}

type fakeNewsRepo struct {
	articles []dto.NewsArticle
	err      error
}

func (f *fakeNewsRepo) GetRecentArticles(ctx context.Context, ticker string) ([]dto.NewsArticle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.articles, nil
}

type fakeAIRepo struct {
	sentiment    *dto.AISentimentResponse
	sentimentErr error
	plan         *dto.AIPlanResponse
	planErr      error
	answer       string
	answerErr    error
}

func (f *fakeAIRepo) FuseSentiment(ctx context.Context, ticker string, articles []dto.NewsArticle) (*dto.AISentimentResponse, error) {
	if f.sentimentErr != nil {
		return nil, f.sentimentErr
	}
	return f.sentiment, nil
}

func (f *fakeAIRepo) PlanTools(ctx context.Context, query string) (*dto.AIPlanResponse, error) {
	if f.planErr != nil {
		return nil, f.planErr
	}
	return f.plan, nil
}

func (f *fakeAIRepo) Synthesize(ctx context.Context, query string, calls []dto.ToolCall) (string, error) {
	if f.answerErr != nil {
		return "", f.answerErr
	}
	return f.answer, nil
}

type fakePriceStore struct {
	series *dto.PriceSeries
	err    error
}

func (f *fakePriceStore) GetSeries(ctx context.Context, ticker, period, interval string) (*dto.PriceSeries, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.series, nil
}

type fakeForecast struct {
	result *dto.ForecastResult
	err    error
}

func (f *fakeForecast) Predict(ctx context.Context, ticker string) (*dto.ForecastResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeForecast) EvictStale() {}

type fakeSentiment struct {
	result *dto.SentimentResult
	err    error
}

func (f *fakeSentiment) Analyze(ctx context.Context, ticker string) (*dto.SentimentResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}
