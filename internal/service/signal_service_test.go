package service

import (
	"testing"

	"stock-agent/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEma(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		span   int
		want   []float64
	}{
		{
			name:   "empty input",
			values: nil,
			span:   3,
			want:   []float64{},
		},
		{
			name:   "seeded with first value",
			values: []float64{10},
			span:   3,
			want:   []float64{10},
		},
		{
			name:   "span 3 recurrence",
			values: []float64{10, 20, 30},
			span:   3,
			// alpha = 0.5: 10, 0.5*20+0.5*10, 0.5*30+0.5*15
			want: []float64{10, 15, 22.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ema(tt.values, tt.span)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-9)
			}
		})
	}
}

func TestSignalService_Compute_AlignmentInvariant(t *testing.T) {
	svc := NewSignalService(testConfig(), testLogger())

	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 100 + float64(i%7)
	}
	series := makeSeries("AAPL", closes)

	indicators, _ := svc.Compute(series)

	assert.Len(t, indicators.MACD, len(series.Bars))
	assert.Len(t, indicators.SignalLine, len(series.Bars))
	assert.Len(t, indicators.EMAFast, len(series.Bars))
	assert.Len(t, indicators.EMASlow, len(series.Bars))
}

func TestSignalService_Compute_CrossoverExecutesNextBarOpen(t *testing.T) {
	svc := NewSignalService(testConfig(), testLogger())

	// Long decline then a sharp rally forces a MACD cross above its signal
	// line somewhere after the warm-up region.
	closes := make([]float64, 0, 90)
	for i := 0; i < 60; i++ {
		closes = append(closes, 200-float64(i))
	}
	for i := 0; i < 30; i++ {
		closes = append(closes, 141+float64(i)*3)
	}
	series := makeSeries("AAPL", closes)

	_, events := svc.Compute(series)
	require.NotEmpty(t, events)

	var buy *dto.SignalEvent
	for i := range events {
		if events[i].Kind == dto.SignalBuy {
			buy = &events[i]
			break
		}
	}
	require.NotNil(t, buy, "rally should produce a buy crossover")

	// The event must carry some bar's date and open price, one bar after the
	// crossover, so the matching bar's open equals the event price.
	found := false
	for _, bar := range series.Bars {
		if bar.Date.Equal(buy.Date) {
			assert.Equal(t, bar.Open, buy.Price)
			found = true
		}
	}
	assert.True(t, found, "event date must be a bar date")
}

func TestSignalService_Compute_EventsInDateOrder(t *testing.T) {
	svc := NewSignalService(testConfig(), testLogger())

	// Oscillating series produces alternating crossovers
	closes := make([]float64, 0, 160)
	for cycle := 0; cycle < 4; cycle++ {
		for i := 0; i < 20; i++ {
			closes = append(closes, 100+float64(i)*2)
		}
		for i := 0; i < 20; i++ {
			closes = append(closes, 138-float64(i)*2)
		}
	}
	series := makeSeries("AAPL", closes)

	_, events := svc.Compute(series)
	require.NotEmpty(t, events)

	for i := 1; i < len(events); i++ {
		assert.True(t, events[i].Date.After(events[i-1].Date),
			"events must be in strictly ascending date order")
	}
}

func TestSignalService_Compute_ShortSeriesNoEvents(t *testing.T) {
	svc := NewSignalService(testConfig(), testLogger())

	// Shorter than the slow span: nothing to evaluate
	series := makeSeries("AAPL", []float64{1, 2, 3, 4, 5})

	indicators, events := svc.Compute(series)
	assert.Len(t, indicators.MACD, 5)
	assert.Empty(t, events)
}
