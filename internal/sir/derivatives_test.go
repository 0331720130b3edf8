package sir_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sirsim/internal/sir"
)

var _ = Describe("Derivatives", func() {
	DescribeTable("rates sum to zero",
		func(s, i, r, beta, gamma float64) {
			dS, dI, dR := sir.Derivatives(s, i, r, beta, gamma)
			scale := math.Abs(dS) + math.Abs(dI) + math.Abs(dR)
			Expect(math.Abs(dS + dI + dR)).To(BeNumerically("<=", 1e-12*scale+1e-12))
		},
		Entry("default outbreak", 990.0, 10.0, 0.0, 0.30, 0.10),
		Entry("dying out", 990.0, 10.0, 0.0, 0.08, 0.10),
		Entry("late epidemic", 50.5, 3.25, 946.25, 0.30, 0.10),
		Entry("no recovery", 500.0, 500.0, 0.0, 1.5, 0.0),
		Entry("no transmission", 400.0, 100.0, 500.0, 0.0, 0.25),
		Entry("large population", 9.9e8, 1e6, 5e6, 0.45, 0.07),
		Entry("tiny population", 1e-6, 2e-7, 3e-7, 0.9, 0.3),
		Entry("only infected", 0.0, 10.0, 0.0, 0.3, 0.1),
	)

	It("matches the closed form", func() {
		dS, dI, dR := sir.Derivatives(990, 10, 0, 0.3, 0.1)
		Expect(dS).To(BeNumerically("~", -2.97, 1e-12))
		Expect(dI).To(BeNumerically("~", 1.97, 1e-12))
		Expect(dR).To(BeNumerically("~", 1.0, 1e-12))
	})

	It("keeps dS non-positive and dR non-negative", func() {
		for _, x := range []sir.State{{S: 1, I: 1}, {S: 10, I: 0, R: 5}, {S: 0, I: 3, R: 1}} {
			dS, _, dR := sir.Derivatives(x.S, x.I, x.R, 0.4, 0.2)
			Expect(dS).To(BeNumerically("<=", 0))
			Expect(dR).To(BeNumerically(">=", 0))
		}
	})

	It("is pure", func() {
		a1, b1, c1 := sir.Derivatives(700, 200, 100, 0.3, 0.1)
		a2, b2, c2 := sir.Derivatives(700, 200, 100, 0.3, 0.1)
		Expect([]float64{a1, b1, c1}).To(Equal([]float64{a2, b2, c2}))
	})

	It("yields NaN for an empty population", func() {
		dS, dI, _ := sir.Derivatives(0, 0, 0, 0.3, 0.1)
		Expect(math.IsNaN(dS)).To(BeTrue())
		Expect(math.IsNaN(dI)).To(BeTrue())
	})

	It("agrees with Params.Derive", func() {
		p := sir.Params{Beta: 0.3, Gamma: 0.1}
		d := p.Derive(sir.State{S: 990, I: 10})
		dS, dI, dR := sir.Derivatives(990, 10, 0, 0.3, 0.1)
		Expect(d).To(Equal(sir.State{S: dS, I: dI, R: dR}))
	})
})

var _ = Describe("Params.R0", func() {
	It("divides beta by gamma", func() {
		r0, ok := sir.Params{Beta: 0.3, Gamma: 0.1}.R0()
		Expect(ok).To(BeTrue())
		Expect(r0).To(BeNumerically("~", 3.0, 1e-12))
	})

	It("is undefined without recovery", func() {
		r0, ok := sir.Params{Beta: 0.3}.R0()
		Expect(ok).To(BeFalse())
		Expect(math.IsInf(r0, 1)).To(BeTrue())

		r0, ok = sir.Params{}.R0()
		Expect(ok).To(BeFalse())
		Expect(math.IsNaN(r0)).To(BeTrue())
	})
})
