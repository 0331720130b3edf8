package animate

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"io"

	"github.com/icza/mjpeg"
)

// Encoder consumes frames in order. Close finishes the output; it does not
// close any writer the encoder was given.
type Encoder interface {
	AddFrame(img image.Image) error
	Close() error
}

var ErrNoFrames = errors.New("animate: no frames")

// GIFEncoder buffers paletted frames and writes a looping GIF on Close.
type GIFEncoder struct {
	w      io.Writer
	delay  int
	images []*image.Paletted
	delays []int
}

// NewGIFEncoder plays frames at fps. GIF delays are whole centiseconds, so
// the rate is rounded to 100/fps.
func NewGIFEncoder(w io.Writer, fps int) (*GIFEncoder, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("animate: fps must be positive, got %d", fps)
	}
	delay := 100 / fps
	if delay < 1 {
		delay = 1
	}
	return &GIFEncoder{w: w, delay: delay}, nil
}

func (e *GIFEncoder) AddFrame(img image.Image) error {
	b := img.Bounds()
	pal := image.NewPaletted(b, palette.Plan9)
	draw.Draw(pal, b, img, b.Min, draw.Src)

	e.images = append(e.images, pal)
	e.delays = append(e.delays, e.delay)
	return nil
}

func (e *GIFEncoder) Frames() int { return len(e.images) }

func (e *GIFEncoder) Close() error {
	if len(e.images) == 0 {
		return ErrNoFrames
	}
	return gif.EncodeAll(e.w, &gif.GIF{
		Image:     e.images,
		Delay:     e.delays,
		LoopCount: 0,
	})
}

// AVIEncoder writes JPEG frames into an MJPEG AVI file.
type AVIEncoder struct {
	aw      mjpeg.AviWriter
	quality int
	buf     bytes.Buffer
	frames  int
}

func NewAVIEncoder(path string, width, height, fps int) (*AVIEncoder, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("animate: fps must be positive, got %d", fps)
	}
	aw, err := mjpeg.New(path, int32(width), int32(height), int32(fps))
	if err != nil {
		return nil, fmt.Errorf("animate: create %s: %w", path, err)
	}
	return &AVIEncoder{aw: aw, quality: 85}, nil
}

func (e *AVIEncoder) AddFrame(img image.Image) error {
	e.buf.Reset()
	if err := jpeg.Encode(&e.buf, img, &jpeg.Options{Quality: e.quality}); err != nil {
		return fmt.Errorf("animate: encode jpeg: %w", err)
	}
	if err := e.aw.AddFrame(e.buf.Bytes()); err != nil {
		return fmt.Errorf("animate: add frame: %w", err)
	}
	e.frames++
	return nil
}

func (e *AVIEncoder) Frames() int { return e.frames }

func (e *AVIEncoder) Close() error {
	return e.aw.Close()
}
