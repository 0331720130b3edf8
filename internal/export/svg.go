package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/sirsim/internal/sir"
)

const (
	colorS = "#4d79ff"
	colorI = "#ff4d4d"
	colorR = "#4dcc66"
)

type point struct{ X, Y float64 }

type svgPath struct {
	points []point
	stroke string
}

// PhaseSVG draws the trajectory in the S–I plane.
func PhaseSVG(series *sir.Series, width, height int) string {
	pts := make([]point, series.Len())
	for k := range pts {
		pts[k] = point{X: series.S[k], Y: series.I[k]}
	}
	return pathsToSVG([]svgPath{{points: pts, stroke: colorI}}, width, height)
}

// SeriesSVG draws S, I and R against time on shared axes.
func SeriesSVG(series *sir.Series, width, height int) string {
	s := make([]point, series.Len())
	i := make([]point, series.Len())
	r := make([]point, series.Len())
	for k := range s {
		s[k] = point{X: series.T[k], Y: series.S[k]}
		i[k] = point{X: series.T[k], Y: series.I[k]}
		r[k] = point{X: series.T[k], Y: series.R[k]}
	}
	return pathsToSVG([]svgPath{
		{points: s, stroke: colorS},
		{points: i, stroke: colorI},
		{points: r, stroke: colorR},
	}, width, height)
}

func pathsToSVG(paths []svgPath, width, height int) string {
	first := true
	var minX, maxX, minY, maxY float64
	for _, path := range paths {
		for _, p := range path.points {
			if !finitePoint(p) {
				continue
			}
			if first {
				minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
				first = false
				continue
			}
			minX = math.Min(minX, p.X)
			maxX = math.Max(maxX, p.X)
			minY = math.Min(minY, p.Y)
			maxY = math.Max(maxY, p.Y)
		}
	}
	if first {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, path := range paths {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, path.stroke))
		move := true
		for _, p := range path.points {
			if !finitePoint(p) {
				move = true
				continue
			}
			x := (p.X - minX) / rangeX * float64(width)
			y := float64(height) - (p.Y-minY)/rangeY*float64(height)
			if move {
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
				move = false
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func finitePoint(p point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
