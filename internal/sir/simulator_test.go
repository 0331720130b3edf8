package sir_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sirsim/internal/sir"
)

type countingMetric struct {
	count int
	sumI  float64
}

func (c *countingMetric) Name() string { return "mean_infected" }
func (c *countingMetric) Observe(t float64, x sir.State) {
	c.count++
	c.sumI += x.I
}
func (c *countingMetric) Value() float64 {
	if c.count == 0 {
		return 0
	}
	return c.sumI / float64(c.count)
}
func (c *countingMetric) Reset() {
	c.count = 0
	c.sumI = 0
}

type recordingObserver struct {
	indices []int
}

func (r *recordingObserver) OnPoint(k int, t float64, x sir.State) {
	r.indices = append(r.indices, k)
}

var _ = Describe("Simulator", func() {
	var (
		ctx context.Context
		x0  sir.State
		p   sir.Params
		cfg sir.Config
	)

	BeforeEach(func() {
		ctx = context.Background()
		x0 = sir.State{S: 990, I: 10}
		p = sir.Params{Beta: 0.3, Gamma: 0.1}
		cfg = sir.DefaultConfig()
	})

	It("returns the same series as Simulate", func() {
		res, err := sir.New().Run(ctx, x0, p, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Series).To(Equal(sir.Simulate(x0, p, cfg.Dt, cfg.Steps)))
		Expect(res.Params).To(Equal(p))
		Expect(res.ClampedSteps).To(BeZero())
	})

	It("feeds every point to metrics and observers", func() {
		m := &countingMetric{}
		obs := &recordingObserver{}
		s := sir.New()
		s.AddMetric(m)
		s.AddObserver(obs)

		cfg.Steps = 10
		res, err := s.Run(ctx, x0, p, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.count).To(Equal(11))
		Expect(obs.indices).To(Equal([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}))
		Expect(res.Metrics).To(HaveKey("mean_infected"))
	})

	It("resets metrics between runs", func() {
		m := &countingMetric{}
		s := sir.New()
		s.AddMetric(m)
		cfg.Steps = 4

		_, err := s.Run(ctx, x0, p, cfg)
		Expect(err).NotTo(HaveOccurred())
		_, err = s.Run(ctx, x0, p, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.count).To(Equal(5))
	})

	It("counts clamped steps", func() {
		cfg.Steps = 3
		res, err := sir.New().Run(ctx, sir.State{I: 10}, sir.Params{Beta: 0.3, Gamma: 20}, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.ClampedSteps).To(Equal(1))
	})

	It("accepts zero steps", func() {
		cfg.Steps = 0
		res, err := sir.New().Run(ctx, x0, p, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Series.Len()).To(Equal(1))
	})

	DescribeTable("rejects invalid input",
		func(x sir.State, p sir.Params, cfg sir.Config, want error) {
			_, err := sir.New().Run(context.Background(), x, p, cfg)
			Expect(err).To(MatchError(want))
		},
		Entry("zero dt", sir.State{S: 1}, sir.Params{}, sir.Config{Dt: 0, Steps: 1}, sir.ErrInvalidStep),
		Entry("negative dt", sir.State{S: 1}, sir.Params{}, sir.Config{Dt: -0.1, Steps: 1}, sir.ErrInvalidStep),
		Entry("NaN dt", sir.State{S: 1}, sir.Params{}, sir.Config{Dt: math.NaN(), Steps: 1}, sir.ErrInvalidStep),
		Entry("negative steps", sir.State{S: 1}, sir.Params{}, sir.Config{Dt: 0.1, Steps: -1}, sir.ErrNegativeSteps),
		Entry("negative compartment", sir.State{S: 1, I: -1}, sir.Params{}, sir.Config{Dt: 0.1}, sir.ErrNegativePopulation),
		Entry("negative beta", sir.State{S: 1}, sir.Params{Beta: -1}, sir.Config{Dt: 0.1}, sir.ErrNegativeRate),
		Entry("infinite gamma", sir.State{S: 1}, sir.Params{Gamma: math.Inf(1)}, sir.Config{Dt: 0.1}, sir.ErrNonFinite),
		Entry("NaN state", sir.State{S: math.NaN()}, sir.Params{}, sir.Config{Dt: 0.1}, sir.ErrNonFinite),
		Entry("empty population", sir.State{}, sir.Params{Beta: 0.3, Gamma: 0.1}, sir.Config{Dt: 0.1, Steps: 5}, sir.ErrDegeneratePopulation),
	)

	It("aborts in strict mode when the state overflows", func() {
		cfg.Strict = true
		cfg.Steps = 5
		_, err := sir.New().Run(ctx, sir.State{S: 1e308, I: 1e308}, p, cfg)

		var stepErr *sir.StepError
		Expect(errors.As(err, &stepErr)).To(BeTrue())
		Expect(stepErr.Step).To(Equal(1))
		Expect(err).To(MatchError(sir.ErrNonFinite))
	})

	It("returns overflowed states when not strict", func() {
		cfg.Steps = 2
		res, err := sir.New().Run(ctx, sir.State{S: 1e308, I: 1e308}, p, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Series.At(1).IsValid()).To(BeFalse())
	})

	It("honours a cancelled context", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := sir.New().Run(cancelled, x0, p, cfg)
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("Sweep", func() {
	It("returns results in case order", func() {
		cases := make([]sir.SweepCase, 0, 8)
		for k := 1; k <= 8; k++ {
			cases = append(cases, sir.SweepCase{
				X0:     sir.State{S: 990, I: 10},
				Params: sir.Params{Beta: 0.05 * float64(k), Gamma: 0.1},
			})
		}

		results, err := sir.Sweep(context.Background(), cases, sir.Config{Dt: 0.1, Steps: 100}, 3,
			func() []sir.Metric { return []sir.Metric{&countingMetric{}} })
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(len(cases)))
		for k, res := range results {
			Expect(res.Params).To(Equal(cases[k].Params))
			Expect(res.Series).To(Equal(sir.Simulate(cases[k].X0, cases[k].Params, 0.1, 100)))
			Expect(res.Metrics).To(HaveKey("mean_infected"))
		}
	})

	It("fails when any case is invalid", func() {
		cases := []sir.SweepCase{
			{X0: sir.State{S: 990, I: 10}, Params: sir.Params{Beta: 0.3, Gamma: 0.1}},
			{X0: sir.State{}, Params: sir.Params{Beta: 0.3, Gamma: 0.1}},
		}
		_, err := sir.Sweep(context.Background(), cases, sir.Config{Dt: 0.1, Steps: 10}, 0, nil)
		Expect(err).To(MatchError(sir.ErrDegeneratePopulation))
	})
})
