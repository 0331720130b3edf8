package animate

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/sirsim/internal/sir"
)

var (
	colorS = drawing.Color{R: 31, G: 119, B: 180, A: 255}
	colorI = drawing.Color{R: 214, G: 39, B: 40, A: 255}
	colorR = drawing.Color{R: 44, G: 160, B: 44, A: 255}
)

// RenderFrame draws the curves up to and including point k.
func RenderFrame(series *sir.Series, k int, b Bounds, opts Options) (*image.RGBA, error) {
	xs := series.T[:k+1]

	graph := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 40},
		},
		XAxis: chart.XAxis{
			Name:  "Time",
			Range: &chart.ContinuousRange{Min: 0, Max: b.XMax},
		},
		YAxis: chart.YAxis{
			Name:  "People",
			Range: &chart.ContinuousRange{Min: 0, Max: b.YMax},
		},
		Series: []chart.Series{
			line("Susceptible (S)", xs, series.S[:k+1], colorS),
			line("Spreading (I)", xs, series.I[:k+1], colorI),
			line("Recovered (R)", xs, series.R[:k+1], colorR),
			chart.AnnotationSeries{
				Annotations: []chart.Value2{
					{XValue: series.T[k], YValue: series.S[k], Label: fmt.Sprintf("S %.0f", series.S[k])},
					{XValue: series.T[k], YValue: series.I[k], Label: fmt.Sprintf("I %.0f", series.I[k])},
					{XValue: series.T[k], YValue: series.R[k], Label: fmt.Sprintf("R %.0f", series.R[k])},
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("animate: render frame %d: %w", k, err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("animate: decode frame %d: %w", k, err)
	}

	img := image.NewRGBA(decoded.Bounds())
	draw.Draw(img, img.Bounds(), decoded, decoded.Bounds().Min, draw.Src)

	height := img.Bounds().Dy()
	if opts.Caption != "" {
		addLabel(img, 10, height-10, opts.Caption, color.Black)
	}
	stamp := fmt.Sprintf("t=%.1f", series.T[k])
	addLabel(img, img.Bounds().Dx()-10-labelWidth(stamp), height-10, stamp, color.Black)

	return img, nil
}

func line(name string, xs, ys []float64, c drawing.Color) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: c,
			StrokeWidth: 2.5,
		},
	}
}

func addLabel(img *image.RGBA, x, y int, label string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(label)
}

func labelWidth(label string) int {
	return font.MeasureString(basicfont.Face7x13, label).Ceil()
}
