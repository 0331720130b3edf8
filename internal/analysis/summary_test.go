package analysis

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/sirsim/internal/sir"
)

func outbreakSeries() (*sir.Series, sir.Params) {
	p := sir.Params{Beta: 0.3, Gamma: 0.1}
	return sir.Simulate(sir.State{S: 990, I: 10}, p, 0.1, 600), p
}

func TestSummarizeOutbreak(t *testing.T) {
	series, p := outbreakSeries()
	sum := Summarize(series, p)

	if sum.Steps != 600 || sum.Dt != 0.1 {
		t.Errorf("unexpected grid: steps=%d dt=%f", sum.Steps, sum.Dt)
	}
	if math.Abs(sum.Duration-60) > 1e-9 {
		t.Errorf("expected duration 60, got %f", sum.Duration)
	}
	if sum.PeakIndex != 268 {
		t.Errorf("expected peak index 268, got %d", sum.PeakIndex)
	}
	if math.Abs(sum.PeakInfected-304.99) > 0.01 {
		t.Errorf("expected peak ~304.99, got %f", sum.PeakInfected)
	}
	if math.Abs(sum.PeakTime-26.8) > 1e-9 {
		t.Errorf("expected peak at 26.8, got %f", sum.PeakTime)
	}
	if math.Abs(sum.AttackRate-0.892) > 1e-3 {
		t.Errorf("expected attack rate ~0.892, got %f", sum.AttackRate)
	}
	if !sum.R0Defined || math.Abs(sum.R0-3) > 1e-12 {
		t.Errorf("expected R0 3, got %f", sum.R0)
	}
	if math.Abs(sum.HerdThreshold-2.0/3.0) > 1e-12 {
		t.Errorf("expected herd threshold 2/3, got %f", sum.HerdThreshold)
	}
	if !sum.Outbreak {
		t.Error("expected outbreak")
	}
	if sum.ExpectedTotal != 1000 {
		t.Errorf("expected total 1000, got %f", sum.ExpectedTotal)
	}
	if sum.MaxDrift > 1e-12 {
		t.Errorf("drift too large: %g", sum.MaxDrift)
	}
	if sum.I.Max != sum.PeakInfected || sum.S.Max != 990 || sum.R.Min != 0 {
		t.Errorf("unexpected compartment stats: S=%+v I=%+v R=%+v", sum.S, sum.I, sum.R)
	}
	if sum.I.Mean <= 0 || sum.I.Mean >= sum.I.Max {
		t.Errorf("mean infected %f out of range", sum.I.Mean)
	}
}

func TestSummarizeDyingOut(t *testing.T) {
	p := sir.Params{Beta: 0.08, Gamma: 0.1}
	sum := Summarize(sir.Simulate(sir.State{S: 990, I: 10}, p, 0.1, 600), p)

	if sum.PeakIndex != 0 || sum.PeakInfected != 10 {
		t.Errorf("expected peak at start, got index %d value %f", sum.PeakIndex, sum.PeakInfected)
	}
	if sum.Outbreak {
		t.Error("expected no outbreak")
	}
	if !math.IsNaN(sum.HerdThreshold) {
		t.Errorf("expected NaN herd threshold, got %f", sum.HerdThreshold)
	}
}

func TestSummarizeUndefinedR0(t *testing.T) {
	tests := []struct {
		name     string
		params   sir.Params
		outbreak bool
	}{
		{"no recovery", sir.Params{Beta: 0.3}, true},
		{"no dynamics", sir.Params{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := Summarize(sir.Simulate(sir.State{S: 990, I: 10}, tt.params, 0.1, 10), tt.params)
			if sum.R0Defined {
				t.Error("expected undefined R0")
			}
			if sum.Outbreak != tt.outbreak {
				t.Errorf("expected outbreak=%v", tt.outbreak)
			}
			if !math.IsNaN(sum.HerdThreshold) {
				t.Error("expected NaN herd threshold")
			}
		})
	}
}

func TestSummarizeSinglePoint(t *testing.T) {
	p := sir.Params{Beta: 0.3, Gamma: 0.1}
	sum := Summarize(sir.Simulate(sir.State{S: 5, I: 1, R: 2}, p, 0.1, 0), p)
	if sum.Steps != 0 || sum.Dt != 0 || sum.Duration != 0 {
		t.Errorf("unexpected grid %+v", sum)
	}
	if sum.Final != (sir.State{S: 5, I: 1, R: 2}) {
		t.Errorf("unexpected final state %+v", sum.Final)
	}
	if math.Abs(sum.AttackRate-0.25) > 1e-12 {
		t.Errorf("expected attack rate 0.25, got %f", sum.AttackRate)
	}
}

func TestWriteText(t *testing.T) {
	series, p := outbreakSeries()

	var buf bytes.Buffer
	if err := Summarize(series, p).WriteText(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"R0=3.00",
		"Peak infected:    305.0 at t=26.8",
		"Final recovered:  892.0",
		"Attack rate:      89.2%",
		"Herd threshold:   66.7%",
		"outbreak (R0 > 1)",
		"expected=1,000.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTextUndefinedR0(t *testing.T) {
	p := sir.Params{Beta: 0.3}
	var buf bytes.Buffer
	if err := Summarize(sir.Simulate(sir.State{S: 9, I: 1}, p, 0.1, 5), p).WriteText(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "R0=undefined") {
		t.Errorf("expected undefined R0 in report:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "Herd threshold:   n/a") {
		t.Errorf("expected n/a herd threshold:\n%s", buf.String())
	}
}

func TestParamLabel(t *testing.T) {
	tests := []struct {
		params sir.Params
		want   string
	}{
		{sir.Params{Beta: 0.3, Gamma: 0.1}, "beta=0.3, gamma=0.1, R0=3.0"},
		{sir.Params{Beta: 0.08, Gamma: 0.1}, "beta=0.08, gamma=0.1, R0=0.8"},
		{sir.Params{Beta: 0.3}, "beta=0.3, gamma=0, R0=undefined"},
	}
	for _, tt := range tests {
		if got := ParamLabel(tt.params); got != tt.want {
			t.Errorf("ParamLabel(%+v) = %q, want %q", tt.params, got, tt.want)
		}
	}
}
