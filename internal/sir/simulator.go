package sir

import (
	"context"
	"fmt"
	"math"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

type Simulator struct {
	metrics   []Metric
	observers []Observer
	logger    log.Logger
}

type Option func(*Simulator)

// WithLogger routes run diagnostics to logger.
func WithLogger(logger log.Logger) Option {
	return func(s *Simulator) { s.logger = logger }
}

func New(opts ...Option) *Simulator {
	s := &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run validates the inputs, integrates with Simulate and replays every point
// of the trajectory to the registered metrics and observers.
func (s *Simulator) Run(ctx context.Context, x0 State, p Params, cfg Config) (*Result, error) {
	if err := validate(x0, p, cfg); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	series, clamped := integrate(x0, p, cfg.Dt, cfg.Steps)

	if cfg.Strict {
		if err := checkSeries(series); err != nil {
			level.Error(s.logger).Log("msg", "run aborted", "err", err)
			return nil, err
		}
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	for k := 0; k < series.Len(); k++ {
		x := series.At(k)
		for _, m := range s.metrics {
			m.Observe(series.T[k], x)
		}
		for _, obs := range s.observers {
			obs.OnPoint(k, series.T[k], x)
		}
	}

	result := &Result{
		Series:       series,
		Params:       p,
		Metrics:      make(map[string]float64, len(s.metrics)),
		ClampedSteps: clamped,
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	r0, _ := p.R0()
	level.Debug(s.logger).Log(
		"msg", "simulation finished",
		"beta", p.Beta, "gamma", p.Gamma, "r0", r0,
		"dt", cfg.Dt, "steps", cfg.Steps, "clamped", clamped,
	)
	if clamped > 0 {
		level.Info(s.logger).Log("msg", "negative populations clamped", "steps", clamped)
	}

	return result, nil
}

func validate(x0 State, p Params, cfg Config) error {
	if math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) || cfg.Dt <= 0 {
		return fmt.Errorf("%w, got %v", ErrInvalidStep, cfg.Dt)
	}
	if cfg.Steps < 0 {
		return fmt.Errorf("%w, got %d", ErrNegativeSteps, cfg.Steps)
	}
	if !x0.IsValid() {
		return fmt.Errorf("%w: initial state %+v", ErrNonFinite, x0)
	}
	if math.IsNaN(p.Beta) || math.IsInf(p.Beta, 0) || math.IsNaN(p.Gamma) || math.IsInf(p.Gamma, 0) {
		return fmt.Errorf("%w: beta=%v gamma=%v", ErrNonFinite, p.Beta, p.Gamma)
	}
	if x0.S < 0 || x0.I < 0 || x0.R < 0 {
		return fmt.Errorf("%w: initial state %+v", ErrNegativePopulation, x0)
	}
	if p.Beta < 0 || p.Gamma < 0 {
		return fmt.Errorf("%w: beta=%v gamma=%v", ErrNegativeRate, p.Beta, p.Gamma)
	}
	if x0.Total() <= 0 {
		return ErrDegeneratePopulation
	}
	return nil
}

func checkSeries(series *Series) error {
	for k := 0; k < series.Len(); k++ {
		x := series.At(k)
		if !x.IsValid() {
			return &StepError{Step: k, Time: series.T[k], State: x, Wrapped: ErrNonFinite}
		}
		if x.Total() == 0 {
			return &StepError{Step: k, Time: series.T[k], State: x, Wrapped: ErrDegeneratePopulation}
		}
	}
	return nil
}
