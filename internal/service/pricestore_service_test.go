package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"stock-agent/internal/dto"
	"stock-agent/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPriceStore(repo *fakeStockRepo) PriceStoreService {
	c := cache.NewCache(time.Minute, time.Minute)
	return NewPriceStoreService(testConfig(), testLogger(), repo, c)
}

func TestPriceStoreService_GetSeries_CachesResult(t *testing.T) {
	repo := &fakeStockRepo{series: makeSeries("AAPL", []float64{100, 101, 102})}
	store := newPriceStore(repo)

	ctx := context.Background()

	first, err := store.GetSeries(ctx, "AAPL", "1y", "1d")
	require.NoError(t, err)
	second, err := store.GetSeries(ctx, "AAPL", "1y", "1d")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), repo.calls.Load())
}

func TestPriceStoreService_GetSeries_DistinctKeysFetchSeparately(t *testing.T) {
	repo := &fakeStockRepo{series: makeSeries("AAPL", []float64{100, 101})}
	store := newPriceStore(repo)

	ctx := context.Background()

	_, err := store.GetSeries(ctx, "AAPL", "1y", "1d")
	require.NoError(t, err)
	_, err = store.GetSeries(ctx, "AAPL", "6mo", "1d")
	require.NoError(t, err)

	assert.Equal(t, int64(2), repo.calls.Load())
}

func TestPriceStoreService_GetSeries_SingleFlight(t *testing.T) {
	repo := &fakeStockRepo{
		series: makeSeries("AAPL", []float64{100, 101, 102}),
		delay:  50 * time.Millisecond,
	}
	store := newPriceStore(repo)

	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]*dto.PriceSeries, 10)
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = store.GetSeries(ctx, "AAPL", "1y", "1d")
		}(i)
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, results[0], results[i])
	}
	assert.Equal(t, int64(1), repo.calls.Load(), "concurrent misses must collapse into one upstream call")
}

func TestPriceStoreService_GetSeries_ErrorNotCached(t *testing.T) {
	repo := &fakeStockRepo{err: dto.ErrDataUnavailable}
	store := newPriceStore(repo)

	ctx := context.Background()

	_, err := store.GetSeries(ctx, "BOGUS", "1y", "1d")
	require.ErrorIs(t, err, dto.ErrDataUnavailable)

	_, err = store.GetSeries(ctx, "BOGUS", "1y", "1d")
	require.ErrorIs(t, err, dto.ErrDataUnavailable)

	assert.Equal(t, int64(2), repo.calls.Load(), "failures must not populate the cache")
}
