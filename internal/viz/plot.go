package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sirsim/internal/sir"
)

// PlotSeries renders S (blue), I (red) and R (green) on one terminal chart.
// Long series are resampled by asciigraph to fit width.
func PlotSeries(series *sir.Series, width, height int, caption string) string {
	if series.Len() == 0 {
		return ""
	}
	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red, asciigraph.Green),
	}
	if caption != "" {
		opts = append(opts, asciigraph.Caption(caption))
	}
	return asciigraph.PlotMany([][]float64{series.S, series.I, series.R}, opts...)
}
