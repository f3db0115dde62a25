package forecast

import (
	"errors"
	"math"
)

// Scaler maps prices into [0, 1] via min-max normalization. It must be fitted
// on the training slice only so no future information leaks into the inputs.
type Scaler struct {
	Min float64
	Max float64
}

// FitScaler computes normalization statistics from the given training values.
func FitScaler(values []float64) (Scaler, error) {
	if len(values) == 0 {
		return Scaler{}, errors.New("cannot fit scaler on empty series")
	}

	min, max := values[0], values[0]
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Scaler{}, errors.New("cannot fit scaler on non-finite value")
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if max == min {
		// Constant series; keep the transform invertible
		max = min + 1
	}

	return Scaler{Min: min, Max: max}, nil
}

// Transform maps a price into normalized space.
func (s Scaler) Transform(v float64) float64 {
	return (v - s.Min) / (s.Max - s.Min)
}

// TransformAll maps a price slice into normalized space.
func (s Scaler) TransformAll(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = s.Transform(v)
	}
	return out
}

// Inverse maps a normalized value back to price space.
func (s Scaler) Inverse(v float64) float64 {
	return v*(s.Max-s.Min) + s.Min
}
