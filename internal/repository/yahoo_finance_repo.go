package repository

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sort"
	"time"

	"stock-agent/config"
	"stock-agent/internal/dto"
	"stock-agent/pkg/httpclient"
	"stock-agent/pkg/logger"
	"stock-agent/pkg/utils"

	"golang.org/x/time/rate"
)

// StockDataRepository fetches raw historical price data from the upstream
// market data source.
type StockDataRepository interface {
	Get(ctx context.Context, param dto.GetStockDataParam) (*dto.PriceSeries, error)
}

type yahooFinanceRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewYahooFinanceRepository creates a new instance of yahooFinanceRepository.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) StockDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &yahooFinanceRepository{
		httpClient:     httpclient.New(cfg.YahooFinance.BaseURL, cfg.YahooFinance.Timeout, ""),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}
}

func (r *yahooFinanceRepository) Get(ctx context.Context, param dto.GetStockDataParam) (*dto.PriceSeries, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	period1, period2 := utils.PeriodToUnixRange(param.Period, time.Now())
	if period1 == 0 || period2 == 0 {
		return nil, fmt.Errorf("%w: invalid period %q", dto.ErrDataUnavailable, param.Period)
	}

	endpoint := "/" + param.Ticker
	queryParams := map[string]string{
		"period1":        fmt.Sprintf("%d", period1),
		"period2":        fmt.Sprintf("%d", period2),
		"interval":       param.Interval,
		"includePrePost": "false",
		"events":         "div,split",
	}

	headers := map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "en-US,en;q=0.9",
		"Referer":         "https://finance.yahoo.com/",
	}

	var yahooResp dto.YahooFinanceResponse
	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, headers, &yahooResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data from yahoo finance: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: yahoo finance throttled request for %s", dto.ErrUpstreamRateLimited, param.Ticker)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: unknown ticker %s", dto.ErrDataUnavailable, param.Ticker)
	case resp.StatusCode != http.StatusOK:
		r.logger.ErrorContext(ctx, "Yahoo Finance API returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("yahoo finance api returned status: %d", resp.StatusCode)
	}

	if yahooResp.Chart.Error != nil {
		return nil, fmt.Errorf("%w: yahoo finance api error: %v", dto.ErrDataUnavailable, yahooResp.Chart.Error)
	}

	if len(yahooResp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: no data returned for ticker %s", dto.ErrDataUnavailable, param.Ticker)
	}

	result := yahooResp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: no quote data available for ticker %s", dto.ErrDataUnavailable, param.Ticker)
	}

	quote := result.Indicators.Quote[0]

	bars := make([]dto.Bar, 0, len(result.Timestamp))
	for i, timestamp := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) ||
			i >= len(quote.Close) || i >= len(quote.Volume) {
			continue
		}

		bars = append(bars, dto.Bar{
			Date:   time.Unix(timestamp, 0).UTC(),
			Open:   quote.Open[i],
			High:   quote.High[i],
			Low:    quote.Low[i],
			Close:  quote.Close[i],
			Volume: quote.Volume[i],
		})
	}

	bars = cleanBars(bars)
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: no valid OHLCV data found for ticker %s", dto.ErrDataUnavailable, param.Ticker)
	}

	return &dto.PriceSeries{
		Ticker:   param.Ticker,
		Period:   param.Period,
		Interval: param.Interval,
		Bars:     bars,
	}, nil
}

// cleanBars drops rows with a non-finite or non-positive close, coalesces
// duplicate dates keeping the last occurrence, and sorts ascending by date.
func cleanBars(bars []dto.Bar) []dto.Bar {
	byDate := make(map[int64]dto.Bar, len(bars))
	for _, b := range bars {
		if math.IsNaN(b.Close) || math.IsInf(b.Close, 0) || b.Close <= 0 {
			continue
		}
		byDate[b.Date.Unix()] = b
	}

	cleaned := make([]dto.Bar, 0, len(byDate))
	for _, b := range byDate {
		cleaned = append(cleaned, b)
	}
	sort.Slice(cleaned, func(i, j int) bool {
		return cleaned[i].Date.Before(cleaned[j].Date)
	})
	return cleaned
}
