package sir_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sirsim/internal/sir"
)

func maxDeviation(values []float64, want float64) float64 {
	worst := 0.0
	for _, v := range values {
		worst = math.Max(worst, math.Abs(v-want))
	}
	return worst
}

func argmax(values []float64) int {
	best := 0
	for k, v := range values {
		if v > values[best] {
			best = k
		}
	}
	return best
}

var _ = Describe("Simulate", func() {
	var (
		x0       sir.State
		outbreak sir.Params
		dyingOut sir.Params
	)

	BeforeEach(func() {
		x0 = sir.State{S: 990, I: 10, R: 0}
		outbreak = sir.Params{Beta: 0.30, Gamma: 0.10}
		dyingOut = sir.Params{Beta: 0.08, Gamma: 0.10}
	})

	Describe("time grid", func() {
		DescribeTable("has steps+1 points on a uniform grid",
			func(dt float64, steps int) {
				s := sir.Simulate(x0, outbreak, dt, steps)
				Expect(s.Len()).To(Equal(steps + 1))
				Expect(s.S).To(HaveLen(steps + 1))
				Expect(s.I).To(HaveLen(steps + 1))
				Expect(s.R).To(HaveLen(steps + 1))
				Expect(s.T[0]).To(Equal(0.0))
				for k := 1; k < s.Len(); k++ {
					Expect(s.T[k]).To(BeNumerically(">", s.T[k-1]))
					Expect(s.T[k]).To(BeNumerically("~", float64(k)*dt, 1e-9*float64(k)*dt+1e-12))
				}
			},
			Entry("default", 0.1, 600),
			Entry("one step", 0.5, 1),
			Entry("fine", 0.001, 2000),
			Entry("coarse", 2.0, 30),
		)

		It("returns the initial point alone for zero steps", func() {
			s := sir.Simulate(x0, outbreak, 0.1, 0)
			Expect(s.T).To(Equal([]float64{0}))
			Expect(s.S).To(Equal([]float64{990}))
			Expect(s.I).To(Equal([]float64{10}))
			Expect(s.R).To(Equal([]float64{0}))
		})

		It("treats negative steps as zero", func() {
			Expect(sir.Simulate(x0, outbreak, 0.1, -3).Len()).To(Equal(1))
		})
	})

	Describe("non-negativity", func() {
		DescribeTable("never reports a negative compartment",
			func(x sir.State, p sir.Params, dt float64, steps int) {
				s := sir.Simulate(x, p, dt, steps)
				for k := 0; k < s.Len(); k++ {
					Expect(s.S[k]).To(BeNumerically(">=", 0))
					Expect(s.I[k]).To(BeNumerically(">=", 0))
					Expect(s.R[k]).To(BeNumerically(">=", 0))
				}
			},
			Entry("outbreak", sir.State{S: 990, I: 10}, sir.Params{Beta: 0.3, Gamma: 0.1}, 0.1, 600),
			Entry("overshooting recovery", sir.State{S: 0, I: 10}, sir.Params{Beta: 0.3, Gamma: 20}, 0.1, 50),
			Entry("overshooting infection", sir.State{S: 10, I: 990}, sir.Params{Beta: 40, Gamma: 0.1}, 0.5, 50),
			Entry("huge step", sir.State{S: 500, I: 500}, sir.Params{Beta: 3, Gamma: 3}, 5.0, 20),
			Entry("no infected", sir.State{S: 1000}, sir.Params{Beta: 0.3, Gamma: 0.1}, 0.1, 100),
		)

		It("clamps an overshooting compartment to exactly zero", func() {
			s := sir.Simulate(sir.State{S: 0, I: 10, R: 0}, sir.Params{Beta: 0.3, Gamma: 20}, 0.1, 3)
			Expect(s.I[1]).To(Equal(0.0))
			Expect(s.R[1]).To(BeNumerically("~", 20.0, 1e-12))
			// clamping is a floor only, so the total is no longer conserved
			Expect(s.Totals()[1]).NotTo(BeNumerically("~", 10.0, 1e-6))
		})
	})

	Describe("recovered compartment", func() {
		It("never decreases", func() {
			for _, p := range []sir.Params{outbreak, dyingOut, {Beta: 2, Gamma: 5}} {
				s := sir.Simulate(x0, p, 0.1, 600)
				for k := 1; k < s.Len(); k++ {
					Expect(s.R[k]).To(BeNumerically(">=", s.R[k-1]))
				}
			}
		})
	})

	Describe("conservation", func() {
		It("keeps the total population when nothing is clamped", func() {
			for _, dt := range []float64{0.1, 0.05, 0.01} {
				steps := int(math.Round(20 / dt))
				s := sir.Simulate(x0, outbreak, dt, steps)
				Expect(maxDeviation(s.Totals(), 1000)).To(BeNumerically("<", 1e-9*1000))
			}
		})

		It("converges at first order as dt shrinks", func() {
			ref := sir.Simulate(x0, outbreak, 0.001, 60000).Final()
			errAt := func(dt float64) float64 {
				steps := int(math.Round(60 / dt))
				return math.Abs(sir.Simulate(x0, outbreak, dt, steps).Final().S - ref.S)
			}
			coarse, fine := errAt(0.2), errAt(0.1)
			Expect(fine).To(BeNumerically("<", coarse))
			Expect(coarse / fine).To(BeNumerically("~", 2.0, 0.5))
		})
	})

	Describe("outbreak scenario", func() {
		var s *sir.Series

		BeforeEach(func() {
			s = sir.Simulate(x0, outbreak, 0.1, 600)
		})

		It("rises then falls", func() {
			peak := argmax(s.I)
			Expect(peak).To(BeNumerically(">", 0))
			Expect(peak).To(BeNumerically("<", s.Len()-1))
			Expect(s.I[peak]).To(BeNumerically(">", 10*s.I[0]))
			Expect(s.I[s.Len()-1]).To(BeNumerically("<", s.I[peak]/2))
		})

		It("ends with most of the population recovered", func() {
			final := s.Final()
			Expect(final.R).To(BeNumerically(">", 800))
			Expect(final.R).To(BeNumerically("<", 1000))
		})

		It("stays within half a percent of the initial total", func() {
			Expect(maxDeviation(s.Totals(), 1000)).To(BeNumerically("<", 5))
		})
	})

	Describe("dying-out scenario", func() {
		It("has a non-increasing infected curve", func() {
			s := sir.Simulate(x0, dyingOut, 0.1, 600)
			for k := 1; k < s.Len(); k++ {
				Expect(s.I[k]).To(BeNumerically("<=", s.I[k-1]))
			}
			Expect(s.Final().I).To(BeNumerically("<", s.I[0]/2))
		})

		It("approaches zero on a long horizon", func() {
			s := sir.Simulate(x0, dyingOut, 0.1, 6000)
			Expect(s.Final().I).To(BeNumerically("<", 1e-3))
		})
	})

	Describe("degenerate population", func() {
		It("propagates NaN without panicking", func() {
			var s *sir.Series
			Expect(func() { s = sir.Simulate(sir.State{}, outbreak, 0.1, 5) }).NotTo(Panic())
			Expect(s.Len()).To(Equal(6))
			Expect(math.IsNaN(s.S[1])).To(BeTrue())
		})
	})

	It("is deterministic", func() {
		a := sir.Simulate(x0, outbreak, 0.1, 300)
		b := sir.Simulate(x0, outbreak, 0.1, 300)
		Expect(a).To(Equal(b))
	})
})
