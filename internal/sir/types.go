package sir

import (
	"math"
)

// State is the population split at a single instant.
type State struct {
	S float64
	I float64
	R float64
}

func (x State) Total() float64 {
	return x.S + x.I + x.R
}

func (x State) IsValid() bool {
	for _, v := range [3]float64{x.S, x.I, x.R} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Params holds the rates that stay constant for one run.
type Params struct {
	Beta  float64
	Gamma float64
}

// R0 returns the basic reproduction number beta/gamma. ok is false when gamma
// is zero, in which case the value is +Inf (beta > 0) or NaN (beta == 0).
func (p Params) R0() (r0 float64, ok bool) {
	if p.Gamma == 0 {
		if p.Beta == 0 {
			return math.NaN(), false
		}
		return math.Inf(1), false
	}
	return p.Beta / p.Gamma, true
}

// Derive evaluates the model at x.
func (p Params) Derive(x State) State {
	dS, dI, dR := Derivatives(x.S, x.I, x.R, p.Beta, p.Gamma)
	return State{S: dS, I: dI, R: dR}
}

// Series is the materialized trajectory of one run. All four slices have
// the same length. Consumers must treat it as read-only.
type Series struct {
	T []float64
	S []float64
	I []float64
	R []float64
}

func newSeries(n int) *Series {
	return &Series{
		T: make([]float64, n),
		S: make([]float64, n),
		I: make([]float64, n),
		R: make([]float64, n),
	}
}

func (s *Series) Len() int { return len(s.T) }

func (s *Series) At(k int) State {
	return State{S: s.S[k], I: s.I[k], R: s.R[k]}
}

func (s *Series) Final() State {
	return s.At(s.Len() - 1)
}

// Dt returns the time increment, or 0 for a single-point series.
func (s *Series) Dt() float64 {
	if s.Len() < 2 {
		return 0
	}
	return s.T[1] - s.T[0]
}

// Totals returns S+I+R at every index.
func (s *Series) Totals() []float64 {
	out := make([]float64, s.Len())
	for k := range out {
		out[k] = s.S[k] + s.I[k] + s.R[k]
	}
	return out
}

// Metric accumulates a scalar over the points of a run.
type Metric interface {
	Name() string
	Observe(t float64, x State)
	Value() float64
	Reset()
}

type Observer interface {
	OnPoint(k int, t float64, x State)
}

type Config struct {
	Dt    float64
	Steps int
	// Strict turns a produced state with N == 0 or a non-finite value into
	// an error instead of returning it.
	Strict bool
}

func DefaultConfig() Config {
	return Config{
		Dt:    0.1,
		Steps: 600,
	}
}

type Result struct {
	Series       *Series
	Params       Params
	Metrics      map[string]float64
	ClampedSteps int
}
