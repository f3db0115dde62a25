package service

import (
	"context"
	"fmt"

	"stock-agent/config"
	"stock-agent/internal/dto"
	"stock-agent/internal/repository"
	"stock-agent/pkg/cache"
	"stock-agent/pkg/logger"
	"stock-agent/pkg/retry"

	"golang.org/x/sync/singleflight"
)

// PriceStoreService serves cleaned, cached historical price series. It is the
// leaf dependency of every other analysis component.
type PriceStoreService interface {
	GetSeries(ctx context.Context, ticker, period, interval string) (*dto.PriceSeries, error)
}

type priceStoreService struct {
	cfg         *config.Config
	log         *logger.Logger
	stockRepo   repository.StockDataRepository
	cache       cache.Cache
	group       singleflight.Group
	retryPolicy retry.Policy
}

func NewPriceStoreService(
	cfg *config.Config,
	log *logger.Logger,
	stockRepo repository.StockDataRepository,
	inmemoryCache cache.Cache,
) PriceStoreService {
	policy := retry.NewPolicy(cfg.Retry.MaxAttempts, cfg.Retry.InitialInterval, cfg.Retry.MaxInterval).
		WithRetryable(dto.IsRetryable)

	return &priceStoreService{
		cfg:         cfg,
		log:         log,
		stockRepo:   stockRepo,
		cache:       inmemoryCache,
		retryPolicy: policy,
	}
}

// GetSeries returns the cached series for the key when it is within TTL,
// otherwise fetches it upstream. Concurrent misses for the same key collapse
// into a single upstream call; every waiter receives the same series or the
// same failure.
func (s *priceStoreService) GetSeries(ctx context.Context, ticker, period, interval string) (*dto.PriceSeries, error) {
	key := fmt.Sprintf("price:%s:%s:%s", ticker, period, interval)

	if series, found := cache.GetTyped[*dto.PriceSeries](s.cache, key); found {
		s.log.DebugContext(ctx, "Price cache hit", logger.StringField("key", key))
		return series, nil
	}

	val, err, shared := s.group.Do(key, func() (interface{}, error) {
		// Another waiter may have populated the cache while we queued
		if series, found := cache.GetTyped[*dto.PriceSeries](s.cache, key); found {
			return series, nil
		}

		var series *dto.PriceSeries
		fetchErr := s.retryPolicy.Do(ctx, func() error {
			var err error
			series, err = s.stockRepo.Get(ctx, dto.GetStockDataParam{
				Ticker:   ticker,
				Period:   period,
				Interval: interval,
			})
			return err
		})
		if fetchErr != nil {
			return nil, fetchErr
		}

		s.cache.Set(key, series, s.cfg.Cache.PriceTTL)
		return series, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		s.log.DebugContext(ctx, "Price fetch shared with concurrent caller", logger.StringField("key", key))
	}

	return val.(*dto.PriceSeries), nil
}
