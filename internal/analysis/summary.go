package analysis

import (
	"fmt"
	"io"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/sirsim/internal/sir"
)

// Stats describes one compartment over a run.
type Stats struct {
	Min  float64
	Max  float64
	Mean float64
}

type Summary struct {
	Params   sir.Params
	Steps    int
	Dt       float64
	Duration float64

	Initial sir.State
	Final   sir.State

	PeakInfected float64
	PeakTime     float64
	PeakIndex    int
	AttackRate   float64

	R0        float64
	R0Defined bool
	// HerdThreshold is 1 - 1/R0, the immune fraction beyond which I declines.
	// NaN when R0 is undefined or not above 1.
	HerdThreshold float64
	Outbreak      bool

	ExpectedTotal float64
	TotalMin      float64
	TotalMax      float64
	MaxDrift      float64

	S, I, R Stats
}

// Summarize computes a Summary of series. The series must hold at least one
// point.
func Summarize(series *sir.Series, p sir.Params) Summary {
	n := series.Len()
	sum := Summary{
		Params:   p,
		Steps:    n - 1,
		Dt:       series.Dt(),
		Duration: series.T[n-1],
		Initial:  series.At(0),
		Final:    series.Final(),
		S:        statsOf(series.S),
		I:        statsOf(series.I),
		R:        statsOf(series.R),
	}

	sum.PeakIndex = floats.MaxIdx(series.I)
	sum.PeakInfected = series.I[sum.PeakIndex]
	sum.PeakTime = series.T[sum.PeakIndex]

	sum.ExpectedTotal = sum.Initial.Total()
	if sum.ExpectedTotal > 0 {
		sum.AttackRate = sum.Final.R / sum.ExpectedTotal
	}

	totals := series.Totals()
	sum.TotalMin = floats.Min(totals)
	sum.TotalMax = floats.Max(totals)
	if sum.ExpectedTotal != 0 {
		sum.MaxDrift = math.Max(
			math.Abs(sum.TotalMax-sum.ExpectedTotal),
			math.Abs(sum.TotalMin-sum.ExpectedTotal),
		) / sum.ExpectedTotal
	}

	sum.R0, sum.R0Defined = p.R0()
	sum.HerdThreshold = math.NaN()
	if sum.R0Defined && sum.R0 > 1 {
		sum.HerdThreshold = 1 - 1/sum.R0
	}
	sum.Outbreak = sum.R0 > 1

	return sum
}

func statsOf(xs []float64) Stats {
	return Stats{
		Min:  floats.Min(xs),
		Max:  floats.Max(xs),
		Mean: floats.Sum(xs) / float64(len(xs)),
	}
}

// ParamLabel formats the rates the way plot titles show them, for example
// "beta=0.3, gamma=0.1, R0=3.0".
func ParamLabel(p sir.Params) string {
	return fmt.Sprintf("beta=%g, gamma=%g, R0=%s", p.Beta, p.Gamma, formatR0(p, 1))
}

func formatR0(p sir.Params, prec int) string {
	r0, ok := p.R0()
	if !ok {
		return "undefined"
	}
	return fmt.Sprintf("%.*f", prec, r0)
}

// WriteText prints the post-run report.
func (s Summary) WriteText(w io.Writer) error {
	pr := message.NewPrinter(language.English)

	lines := []string{
		pr.Sprintf("Simulation: beta=%g, gamma=%g, R0=%s\n", s.Params.Beta, s.Params.Gamma, formatR0(s.Params, 2)),
		pr.Sprintf("  steps=%d dt=%g t_end=%.1f\n", s.Steps, s.Dt, s.Duration),
		pr.Sprintf("Peak infected:    %.1f at t=%.1f\n", s.PeakInfected, s.PeakTime),
		pr.Sprintf("Final recovered:  %.1f\n", s.Final.R),
		pr.Sprintf("Final state:      S=%.1f I=%.1f R=%.1f\n", s.Final.S, s.Final.I, s.Final.R),
		pr.Sprintf("Attack rate:      %.1f%%\n", s.AttackRate*100),
	}
	if math.IsNaN(s.HerdThreshold) {
		lines = append(lines, "Herd threshold:   n/a\n")
	} else {
		lines = append(lines, pr.Sprintf("Herd threshold:   %.1f%%\n", s.HerdThreshold*100))
	}
	if s.Outbreak {
		lines = append(lines, "Outcome:          outbreak (R0 > 1)\n")
	} else {
		lines = append(lines, "Outcome:          dies out (R0 <= 1)\n")
	}
	lines = append(lines,
		pr.Sprintf("Total population: min=%.2f max=%.2f expected=%.2f\n", s.TotalMin, s.TotalMax, s.ExpectedTotal),
		fmt.Sprintf("Max drift:        %.3g\n", s.MaxDrift),
	)

	for _, line := range lines {
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}
