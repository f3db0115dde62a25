package forecast

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Config holds the training hyperparameters for the recurrent model.
type Config struct {
	Lookback  int
	Hidden    int
	Epochs    int
	LearnRate float64
	Seed      int64
}

// Model is a single-layer Elman recurrent network over a normalized price
// window: h_t = tanh(Wxh*x_t + Whh*h_{t-1} + bh), y = Why.h_W + by. It is
// trained with full backpropagation through time over each window.
type Model struct {
	lookback int
	hidden   int

	wxh *mat.VecDense // input -> hidden, input is scalar
	whh *mat.Dense    // hidden -> hidden
	bh  *mat.VecDense
	why *mat.VecDense // hidden -> output
	by  float64
}

const gradClip = 5.0

// Train fits a model on the normalized series using sliding windows of
// cfg.Lookback inputs labeled with the next value. The series must be longer
// than the lookback.
func Train(normalized []float64, cfg Config) (*Model, error) {
	if len(normalized) <= cfg.Lookback {
		return nil, fmt.Errorf("series of %d values is too short for lookback %d", len(normalized), cfg.Lookback)
	}
	if cfg.Hidden <= 0 || cfg.Epochs <= 0 || cfg.LearnRate <= 0 {
		return nil, fmt.Errorf("invalid model config: hidden=%d epochs=%d lr=%f", cfg.Hidden, cfg.Epochs, cfg.LearnRate)
	}

	m := newModel(cfg)

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		for i := 0; i+cfg.Lookback < len(normalized); i++ {
			window := normalized[i : i+cfg.Lookback]
			target := normalized[i+cfg.Lookback]
			m.step(window, target, cfg.LearnRate)
		}
	}

	return m, nil
}

func newModel(cfg Config) *Model {
	rng := rand.New(rand.NewSource(cfg.Seed))
	h := cfg.Hidden

	// Small uniform init keeps tanh in its linear region early on
	scale := 1.0 / math.Sqrt(float64(h))
	randSlice := func(n int) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = (rng.Float64()*2 - 1) * scale
		}
		return out
	}

	return &Model{
		lookback: cfg.Lookback,
		hidden:   h,
		wxh:      mat.NewVecDense(h, randSlice(h)),
		whh:      mat.NewDense(h, h, randSlice(h*h)),
		bh:       mat.NewVecDense(h, nil),
		why:      mat.NewVecDense(h, randSlice(h)),
		by:       0,
	}
}

// forward runs the window through the network, returning the prediction and
// every hidden state (states[0] is the zero initial state).
func (m *Model) forward(window []float64) (float64, []*mat.VecDense) {
	states := make([]*mat.VecDense, len(window)+1)
	states[0] = mat.NewVecDense(m.hidden, nil)

	for t, x := range window {
		z := mat.NewVecDense(m.hidden, nil)
		z.MulVec(m.whh, states[t])
		z.AddScaledVec(z, x, m.wxh)
		z.AddVec(z, m.bh)

		ht := mat.NewVecDense(m.hidden, nil)
		for i := 0; i < m.hidden; i++ {
			ht.SetVec(i, math.Tanh(z.AtVec(i)))
		}
		states[t+1] = ht
	}

	y := mat.Dot(m.why, states[len(window)]) + m.by
	return y, states
}

// step performs one SGD update from a single (window, target) example.
func (m *Model) step(window []float64, target, lr float64) {
	y, states := m.forward(window)
	dy := y - target

	h := m.hidden
	dWxh := mat.NewVecDense(h, nil)
	dWhh := mat.NewDense(h, h, nil)
	dBh := mat.NewVecDense(h, nil)

	dWhy := mat.NewVecDense(h, nil)
	dWhy.ScaleVec(dy, states[len(window)])
	dBy := dy

	dh := mat.NewVecDense(h, nil)
	dh.ScaleVec(dy, m.why)

	for t := len(window); t >= 1; t-- {
		// Backprop through tanh: dz = dh * (1 - h^2)
		dz := mat.NewVecDense(h, nil)
		for i := 0; i < h; i++ {
			hv := states[t].AtVec(i)
			dz.SetVec(i, dh.AtVec(i)*(1-hv*hv))
		}

		dWxh.AddScaledVec(dWxh, window[t-1], dz)
		dBh.AddVec(dBh, dz)

		var outer mat.Dense
		outer.Outer(1, dz, states[t-1])
		dWhh.Add(dWhh, &outer)

		dh.MulVec(m.whh.T(), dz)
	}

	clipVec(dWxh)
	clipVec(dBh)
	clipVec(dWhy)
	clipDense(dWhh)
	dBy = clip(dBy)

	m.wxh.AddScaledVec(m.wxh, -lr, dWxh)
	m.bh.AddScaledVec(m.bh, -lr, dBh)
	m.why.AddScaledVec(m.why, -lr, dWhy)
	m.by -= lr * dBy

	var scaled mat.Dense
	scaled.Scale(-lr, dWhh)
	m.whh.Add(m.whh, &scaled)
}

// Rollout predicts steps values autoregressively: each prediction is appended
// to the window and fed back as input for the next step. seed must hold the
// last Lookback normalized values.
func (m *Model) Rollout(seed []float64, steps int) ([]float64, error) {
	if len(seed) != m.lookback {
		return nil, fmt.Errorf("seed length %d does not match lookback %d", len(seed), m.lookback)
	}

	window := make([]float64, len(seed))
	copy(window, seed)

	out := make([]float64, 0, steps)
	for i := 0; i < steps; i++ {
		y, _ := m.forward(window)
		out = append(out, y)
		window = append(window[1:], y)
	}
	return out, nil
}

// Lookback returns the window length the model was trained with.
func (m *Model) Lookback() int {
	return m.lookback
}

func clip(v float64) float64 {
	return math.Max(-gradClip, math.Min(gradClip, v))
}

func clipVec(v *mat.VecDense) {
	for i := 0; i < v.Len(); i++ {
		v.SetVec(i, clip(v.AtVec(i)))
	}
}

func clipDense(d *mat.Dense) {
	r, c := d.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d.Set(i, j, clip(d.At(i, j)))
		}
	}
}
