package animate

import (
	"context"
	"fmt"
	"math"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/san-kum/sirsim/internal/sir"
)

const DefaultTitle = "Viral Marketing (SIR) Simulation"

type Options struct {
	Width     int
	Height    int
	FrameSkip int
	Title     string
	// Caption is drawn under the chart, typically the run parameters.
	Caption string
	Logger  log.Logger
}

func DefaultOptions() Options {
	return Options{
		Width:     1000,
		Height:    600,
		FrameSkip: 3,
		Title:     DefaultTitle,
		Logger:    log.NewNopLogger(),
	}
}

// Render draws every frame of series and hands it to enc. It stops between
// frames when ctx is done. The encoder is left open.
func Render(ctx context.Context, series *sir.Series, opts Options, enc Encoder) error {
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}
	if series.Len() == 0 {
		return ErrNoFrames
	}
	for _, vs := range [][]float64{series.T, series.S, series.I, series.R} {
		for _, v := range vs {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("animate: series contains non-finite values")
			}
		}
	}

	bounds := AxisBounds(series)
	frames := FrameIndices(series.Len(), opts.FrameSkip)
	level.Info(opts.Logger).Log("msg", "rendering animation", "frames", len(frames), "width", opts.Width, "height", opts.Height)

	for n, k := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}

		img, err := RenderFrame(series, k, bounds, opts)
		if err != nil {
			return err
		}
		if err := enc.AddFrame(img); err != nil {
			return err
		}

		if (n+1)%50 == 0 {
			level.Debug(opts.Logger).Log("msg", "frames rendered", "done", n+1, "total", len(frames))
		}
	}
	return nil
}
