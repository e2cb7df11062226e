package pimapper

import (
	"fmt"
	"image"
	"image/gif"
	"io"
	"os"
	"time"

	"golang.org/x/image/draw"
)

// defaultGIFDelay is used for frames that declare no delay.
const defaultGIFDelay = 100 * time.Millisecond

// gifDecoder plays an animated GIF as a video, compositing frames according
// to their disposal methods.
type gifDecoder struct {
	g        *gif.GIF
	canvas   *image.RGBA
	previous *image.RGBA // snapshot for DisposalPrevious
	next     int
	pending  func() // disposal of the last returned frame
}

func openGIFDecoder(path string) (FrameDecoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return newGIFDecoder(f)
}

func newGIFDecoder(r io.Reader) (*gifDecoder, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode gif: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("decode gif: no frames")
	}
	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		b := g.Image[0].Bounds()
		w, h = b.Max.X, b.Max.Y
	}
	return &gifDecoder{
		g:      g,
		canvas: image.NewRGBA(image.Rect(0, 0, w, h)),
	}, nil
}

func (d *gifDecoder) NextFrame() (image.Image, time.Duration, error) {
	if d.next >= len(d.g.Image) {
		return nil, 0, io.EOF
	}
	if d.pending != nil {
		d.pending()
		d.pending = nil
	}

	i := d.next
	d.next++
	frame := d.g.Image[i]

	var disposal byte
	if i < len(d.g.Disposal) {
		disposal = d.g.Disposal[i]
	}
	switch disposal {
	case gif.DisposalBackground:
		rect := frame.Bounds()
		d.pending = func() {
			draw.Draw(d.canvas, rect, image.Transparent, image.Point{}, draw.Src)
		}
	case gif.DisposalPrevious:
		if d.previous == nil {
			d.previous = image.NewRGBA(d.canvas.Rect)
		}
		copy(d.previous.Pix, d.canvas.Pix)
		d.pending = func() {
			copy(d.canvas.Pix, d.previous.Pix)
		}
	}

	draw.Draw(d.canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

	delay := defaultGIFDelay
	if i < len(d.g.Delay) && d.g.Delay[i] > 0 {
		delay = time.Duration(d.g.Delay[i]) * 10 * time.Millisecond
	}
	return d.canvas, delay, nil
}

func (d *gifDecoder) Rewind() error {
	d.next = 0
	d.pending = nil
	draw.Draw(d.canvas, d.canvas.Rect, image.Transparent, image.Point{}, draw.Src)
	return nil
}

func (d *gifDecoder) Close() error {
	d.g = nil
	d.canvas = nil
	d.previous = nil
	return nil
}
