package animate

import (
	"math"

	"github.com/san-kum/sirsim/internal/sir"
)

// FrameIndices returns 0, skip, 2*skip, ... below n and always ends with the
// last index n-1. skip values below 1 are treated as 1.
func FrameIndices(n, skip int) []int {
	if n <= 0 {
		return nil
	}
	if skip < 1 {
		skip = 1
	}

	idx := make([]int, 0, n/skip+2)
	for k := 0; k < n; k += skip {
		idx = append(idx, k)
	}
	if idx[len(idx)-1] != n-1 {
		idx = append(idx, n-1)
	}
	return idx
}

// Bounds are the fixed axis limits shared by every frame.
type Bounds struct {
	XMax float64
	YMax float64
}

// AxisBounds spans the whole run on x. On y it covers the largest of S0, the
// infected peak (100 if nobody is ever infected) and the final R, plus 10%.
func AxisBounds(series *sir.Series) Bounds {
	last := series.Len() - 1

	peak := 0.0
	for _, v := range series.I {
		peak = math.Max(peak, v)
	}
	if peak <= 0 {
		peak = 100
	}

	b := Bounds{
		XMax: series.T[last],
		YMax: math.Max(series.S[0], math.Max(peak, series.R[last])) * 1.1,
	}
	if b.XMax <= 0 {
		b.XMax = 1
	}
	return b
}
