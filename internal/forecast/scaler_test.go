package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitScaler(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		wantMin float64
		wantMax float64
		wantErr bool
	}{
		{
			name:    "normal range",
			values:  []float64{5, 1, 9, 3},
			wantMin: 1,
			wantMax: 9,
		},
		{
			name:    "constant series stays invertible",
			values:  []float64{4, 4, 4},
			wantMin: 4,
			wantMax: 5,
		},
		{
			name:    "empty series",
			values:  nil,
			wantErr: true,
		},
		{
			name:    "non-finite value",
			values:  []float64{1, math.NaN(), 3},
			wantErr: true,
		},
		{
			name:    "infinite value",
			values:  []float64{1, math.Inf(1), 3},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := FitScaler(tt.values)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMin, s.Min)
			assert.Equal(t, tt.wantMax, s.Max)
		})
	}
}

func TestScaler_TransformRoundTrip(t *testing.T) {
	s, err := FitScaler([]float64{10, 20, 30, 40})
	require.NoError(t, err)

	assert.Equal(t, 0.0, s.Transform(10))
	assert.Equal(t, 1.0, s.Transform(40))

	for _, v := range []float64{10, 17.5, 25, 40, 55} {
		assert.InDelta(t, v, s.Inverse(s.Transform(v)), 1e-12)
	}
}

func TestScaler_TransformAll(t *testing.T) {
	s, err := FitScaler([]float64{0, 100})
	require.NoError(t, err)

	got := s.TransformAll([]float64{0, 25, 50, 100})
	assert.Equal(t, []float64{0, 0.25, 0.5, 1}, got)
}
