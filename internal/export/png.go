package export

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/sirsim/internal/sir"
)

const (
	pngWidth  = 8 * vg.Inch
	pngHeight = 5 * vg.Inch
)

func newSeriesPlot(series *sir.Series, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Number of people"
	p.Y.Min = 0
	p.Legend.Top = true

	xys := func(ys []float64) plotter.XYs {
		pts := make(plotter.XYs, series.Len())
		for k := range pts {
			pts[k].X = series.T[k]
			pts[k].Y = ys[k]
		}
		return pts
	}

	err := plotutil.AddLines(p,
		"Susceptible", xys(series.S),
		"Infected", xys(series.I),
		"Recovered", xys(series.R),
	)
	if err != nil {
		return nil, fmt.Errorf("export: build plot: %w", err)
	}
	return p, nil
}

// SavePNG renders S, I and R against time to an image file. The format
// follows the extension of path.
func SavePNG(path string, series *sir.Series, title string) error {
	p, err := newSeriesPlot(series, title)
	if err != nil {
		return err
	}
	if err := p.Save(pngWidth, pngHeight, path); err != nil {
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	return nil
}

// WritePNG is SavePNG to a writer.
func WritePNG(w io.Writer, series *sir.Series, title string) error {
	p, err := newSeriesPlot(series, title)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(pngWidth, pngHeight, "png")
	if err != nil {
		return fmt.Errorf("export: encode png: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}
