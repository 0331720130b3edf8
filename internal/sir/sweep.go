package sir

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// SweepCase is one parameter set of a sweep.
type SweepCase struct {
	X0     State
	Params Params
}

// Sweep runs every case concurrently, at most limit at a time (limit <= 0
// means no bound). Each case gets its own Simulator with metrics from
// newMetrics, which may be nil. Results are returned in case order; the
// first error cancels the remaining runs.
func Sweep(ctx context.Context, cases []SweepCase, cfg Config, limit int, newMetrics func() []Metric, opts ...Option) ([]*Result, error) {
	results := make([]*Result, len(cases))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, c := range cases {
		g.Go(func() error {
			s := New(opts...)
			if newMetrics != nil {
				for _, m := range newMetrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, c.X0, c.Params, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
