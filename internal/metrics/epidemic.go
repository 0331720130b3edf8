package metrics

import (
	"math"

	"github.com/san-kum/sirsim/internal/sir"
)

// AttackRate is the fraction of the initial population that has recovered
// by the last observed point.
type AttackRate struct {
	name    string
	initial float64
	last    float64
	samples int
}

func NewAttackRate() *AttackRate {
	return &AttackRate{
		name: "attack_rate",
	}
}

func (a *AttackRate) Name() string { return a.name }

func (a *AttackRate) Observe(t float64, x sir.State) {
	if a.samples == 0 {
		a.initial = x.Total()
	}
	a.last = x.R
	a.samples++
}

func (a *AttackRate) Value() float64 {
	if a.initial == 0 {
		return 0
	}
	return a.last / a.initial
}

func (a *AttackRate) Reset() {
	a.initial = 0
	a.last = 0
	a.samples = 0
}

// HerdThresholdTime is the first time the susceptible fraction S/N drops to
// 1/R0 or below, after which I can only decline. Value is NaN if that never
// happens or R0 is undefined.
type HerdThresholdTime struct {
	name      string
	threshold float64
	at        float64
	reached   bool
}

func NewHerdThresholdTime(p sir.Params) *HerdThresholdTime {
	h := &HerdThresholdTime{
		name:      "herd_threshold_time",
		threshold: math.NaN(),
	}
	if r0, ok := p.R0(); ok && r0 > 0 {
		h.threshold = 1 / r0
	}
	return h
}

func (h *HerdThresholdTime) Name() string { return h.name }

func (h *HerdThresholdTime) Observe(t float64, x sir.State) {
	if h.reached || math.IsNaN(h.threshold) {
		return
	}
	n := x.Total()
	if n > 0 && x.S/n <= h.threshold {
		h.at = t
		h.reached = true
	}
}

func (h *HerdThresholdTime) Value() float64 {
	if !h.reached {
		return math.NaN()
	}
	return h.at
}

func (h *HerdThresholdTime) Reset() {
	h.at = 0
	h.reached = false
}

// Standard returns one fresh instance of every metric in this package.
func Standard(p sir.Params) []sir.Metric {
	return []sir.Metric{
		NewPeakInfected(),
		NewPeakTime(),
		NewAttackRate(),
		NewPopulationDrift(),
		NewHerdThresholdTime(p),
	}
}
