package metrics

import (
	"github.com/san-kum/sirsim/internal/sir"
)

// PeakInfected tracks the largest infected count seen.
type PeakInfected struct {
	name    string
	peak    float64
	samples int
}

func NewPeakInfected() *PeakInfected {
	return &PeakInfected{
		name: "peak_infected",
	}
}

func (p *PeakInfected) Name() string { return p.name }

func (p *PeakInfected) Observe(t float64, x sir.State) {
	if p.samples == 0 || x.I > p.peak {
		p.peak = x.I
	}
	p.samples++
}

func (p *PeakInfected) Value() float64 {
	return p.peak
}

func (p *PeakInfected) Reset() {
	p.peak = 0
	p.samples = 0
}

// PeakTime reports the time of the first maximum of I.
type PeakTime struct {
	name    string
	peak    float64
	at      float64
	samples int
}

func NewPeakTime() *PeakTime {
	return &PeakTime{
		name: "peak_time",
	}
}

func (p *PeakTime) Name() string { return p.name }

func (p *PeakTime) Observe(t float64, x sir.State) {
	if p.samples == 0 || x.I > p.peak {
		p.peak = x.I
		p.at = t
	}
	p.samples++
}

func (p *PeakTime) Value() float64 {
	return p.at
}

func (p *PeakTime) Reset() {
	p.peak = 0
	p.at = 0
	p.samples = 0
}
