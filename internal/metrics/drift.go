package metrics

import (
	"math"

	"github.com/san-kum/sirsim/internal/sir"
)

// PopulationDrift is the largest relative deviation of S+I+R from its value
// at the first observed point.
type PopulationDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewPopulationDrift() *PopulationDrift {
	return &PopulationDrift{
		name: "population_drift",
	}
}

func (d *PopulationDrift) Name() string { return d.name }

func (d *PopulationDrift) Observe(t float64, x sir.State) {
	total := x.Total()

	if d.samples == 0 {
		d.initial = total
	}
	d.samples++

	if d.initial != 0 {
		drift := math.Abs(total-d.initial) / math.Abs(d.initial)
		d.maxDrift = math.Max(d.maxDrift, drift)
	}
}

func (d *PopulationDrift) Value() float64 {
	return d.maxDrift
}

func (d *PopulationDrift) Reset() {
	d.initial = 0
	d.maxDrift = 0
	d.samples = 0
}
