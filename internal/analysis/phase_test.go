package analysis

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/san-kum/sirsim/internal/sir"
)

func TestNewPhasePortrait(t *testing.T) {
	series, _ := outbreakSeries()
	portrait := NewPhasePortrait(series)

	if len(portrait.Points) != series.Len() {
		t.Fatalf("expected %d points, got %d", series.Len(), len(portrait.Points))
	}
	if portrait.Points[0].X != 990 || portrait.Points[0].Y != 10 {
		t.Errorf("unexpected first point %+v", portrait.Points[0])
	}
}

func TestPhasePortraitToASCII(t *testing.T) {
	series, _ := outbreakSeries()
	out := PhasePortraitToASCII(NewPhasePortrait(series), 60, 20)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 20 {
		t.Fatalf("expected 20 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if n := utf8.RuneCountInString(line); n != 60 {
			t.Errorf("line %d has %d runes, want 60", i, n)
		}
	}
	if !strings.ContainsRune(out, 'o') || !strings.ContainsRune(out, 'x') {
		t.Error("expected start and end markers")
	}
	if !strings.ContainsRune(out, '•') {
		t.Error("expected trajectory points")
	}
}

func TestPhasePortraitToASCIIEmpty(t *testing.T) {
	if PhasePortraitToASCII(nil, 10, 10) != "" {
		t.Error("expected empty output for nil portrait")
	}
	p := NewPhasePortrait(sir.Simulate(sir.State{S: 1}, sir.Params{}, 0.1, 0))
	if PhasePortraitToASCII(p, 1, 10) != "" {
		t.Error("expected empty output for degenerate canvas")
	}
}
