package analysis

import (
	"strings"

	"github.com/san-kum/sirsim/internal/sir"
)

// PhasePortrait holds the trajectory projected on the S (x) and I (y) axes.
type PhasePortrait struct {
	Points []struct{ X, Y float64 }
}

// NewPhasePortrait projects every point of series on the S–I plane.
func NewPhasePortrait(series *sir.Series) *PhasePortrait {
	portrait := &PhasePortrait{
		Points: make([]struct{ X, Y float64 }, series.Len()),
	}
	for k := range portrait.Points {
		portrait.Points[k].X = series.S[k]
		portrait.Points[k].Y = series.I[k]
	}
	return portrait
}

// PhasePortraitToASCII draws the portrait on a width x height character grid.
// The start is marked 'o', the end 'x'.
func PhasePortraitToASCII(portrait *PhasePortrait, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	// populations are non-negative, so anchor both axes at zero
	minX = min(minX, 0)
	minY = min(minY, 0)
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	maxX = minX + rangeX*1.05
	maxY = minY + rangeY*1.05
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	cell := func(x, y float64) (int, int, bool) {
		col := int((x - minX) / rangeX * float64(width-1))
		row := height - 1 - int((y-minY)/rangeY*float64(height-1))
		return row, col, row >= 0 && row < height && col >= 0 && col < width
	}

	// axes first so the trajectory draws over them
	for row := 0; row < height; row++ {
		canvas[row][0] = '│'
	}
	for col := 0; col < width; col++ {
		canvas[height-1][col] = '─'
	}
	canvas[height-1][0] = '└'

	for _, p := range portrait.Points {
		if row, col, ok := cell(p.X, p.Y); ok {
			canvas[row][col] = '•'
		}
	}
	last := portrait.Points[len(portrait.Points)-1]
	if row, col, ok := cell(last.X, last.Y); ok {
		canvas[row][col] = 'x'
	}
	first := portrait.Points[0]
	if row, col, ok := cell(first.X, first.Y); ok {
		canvas[row][col] = 'o'
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
