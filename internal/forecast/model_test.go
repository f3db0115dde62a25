package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModelConfig() Config {
	return Config{
		Lookback:  6,
		Hidden:    4,
		Epochs:    10,
		LearnRate: 0.05,
		Seed:      42,
	}
}

func rampSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / float64(n-1)
	}
	return out
}

func TestTrain_Validation(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		cfg    Config
	}{
		{
			name:   "series shorter than lookback",
			series: rampSeries(5),
			cfg:    testModelConfig(),
		},
		{
			name:   "series equal to lookback",
			series: rampSeries(6),
			cfg:    testModelConfig(),
		},
		{
			name:   "zero hidden units",
			series: rampSeries(30),
			cfg:    Config{Lookback: 6, Hidden: 0, Epochs: 10, LearnRate: 0.05},
		},
		{
			name:   "zero epochs",
			series: rampSeries(30),
			cfg:    Config{Lookback: 6, Hidden: 4, Epochs: 0, LearnRate: 0.05},
		},
		{
			name:   "non-positive learning rate",
			series: rampSeries(30),
			cfg:    Config{Lookback: 6, Hidden: 4, Epochs: 10, LearnRate: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Train(tt.series, tt.cfg)
			require.Error(t, err)
		})
	}
}

func TestTrain_ReducesError(t *testing.T) {
	series := rampSeries(60)
	cfg := testModelConfig()

	untrained := newModel(cfg)
	trained, err := Train(series, cfg)
	require.NoError(t, err)

	sse := func(m *Model) float64 {
		total := 0.0
		for i := 0; i+cfg.Lookback < len(series); i++ {
			y, _ := m.forward(series[i : i+cfg.Lookback])
			d := y - series[i+cfg.Lookback]
			total += d * d
		}
		return total
	}

	assert.Less(t, sse(trained), sse(untrained), "training must reduce squared error on the training windows")
}

func TestTrain_DeterministicForSeed(t *testing.T) {
	series := rampSeries(40)
	cfg := testModelConfig()

	a, err := Train(series, cfg)
	require.NoError(t, err)
	b, err := Train(series, cfg)
	require.NoError(t, err)

	seed := series[len(series)-cfg.Lookback:]
	outA, err := a.Rollout(seed, 5)
	require.NoError(t, err)
	outB, err := b.Rollout(seed, 5)
	require.NoError(t, err)

	assert.Equal(t, outA, outB)
}

func TestModel_Rollout(t *testing.T) {
	cfg := testModelConfig()
	m, err := Train(rampSeries(40), cfg)
	require.NoError(t, err)

	seed := rampSeries(cfg.Lookback)
	out, err := m.Rollout(seed, 7)
	require.NoError(t, err)

	require.Len(t, out, 7)
	for _, v := range out {
		assert.False(t, math.IsNaN(v))
		assert.False(t, math.IsInf(v, 0))
	}
}

func TestModel_Rollout_SeedLengthMismatch(t *testing.T) {
	cfg := testModelConfig()
	m, err := Train(rampSeries(40), cfg)
	require.NoError(t, err)

	_, err = m.Rollout(rampSeries(3), 7)
	require.Error(t, err)
}

func TestModel_Lookback(t *testing.T) {
	cfg := testModelConfig()
	m, err := Train(rampSeries(40), cfg)
	require.NoError(t, err)

	assert.Equal(t, cfg.Lookback, m.Lookback())
}
