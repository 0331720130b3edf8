// Package animate renders a trajectory as a progressive line-chart
// animation, the curves revealed point by point, and writes it as an
// animated GIF or an MJPEG AVI.
//
// Each frame is a go-chart line chart with fixed axes so the picture does
// not rescale while it plays. [Render] drives an [Encoder]:
//
//	f, _ := os.Create("sir.gif")
//	enc, _ := animate.NewGIFEncoder(f, 20)
//	err := animate.Render(ctx, series, animate.DefaultOptions(), enc)
//	if err == nil {
//	    err = enc.Close()
//	}
package animate
