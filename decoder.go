package pimapper

import (
	"fmt"
	"image"
	_ "image/gif" // still GIFs in the images directory
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// FrameDecoder yields the frames of a video file in presentation order.
type FrameDecoder interface {
	// NextFrame returns the next frame and how long it stays on screen. The
	// image is only valid until the following call. At end of stream it
	// returns io.EOF.
	NextFrame() (image.Image, time.Duration, error)
	// Rewind restarts the stream at its first frame.
	Rewind() error
	Close() error
}

// ImageDecoder decodes a still image file.
type ImageDecoder func(path string) (image.Image, error)

// VideoDecoder opens a video file for frame-by-frame decoding.
type VideoDecoder func(path string) (FrameDecoder, error)

// Decoders is the table the registry loads media with. Video decoders are
// keyed by lower-case file extension including the dot.
type Decoders struct {
	Image ImageDecoder
	Video map[string]VideoDecoder
}

// defaultVideoDecoders is extended by build-tagged decoders (see decoder_gocv.go).
var defaultVideoDecoders = map[string]VideoDecoder{
	".gif": openGIFDecoder,
}

// imageExtensions lists the still formats registered with the image package.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// DefaultDecoders returns the built-in decoder table: every still format
// registered with the image package, animated GIF video, and any video
// decoders compiled in via build tags.
func DefaultDecoders() Decoders {
	video := make(map[string]VideoDecoder, len(defaultVideoDecoders))
	for ext, dec := range defaultVideoDecoders {
		video[ext] = dec
	}
	return Decoders{Image: decodeImageFile, Video: video}
}

// Extensions returns the file extensions loadable as the given kind.
func (d Decoders) Extensions(kind SourceType) []string {
	switch kind {
	case SourceImage:
		return imageExtensions
	case SourceVideo:
		exts := make([]string, 0, len(d.Video))
		for ext := range d.Video {
			exts = append(exts, ext)
		}
		return exts
	default:
		return nil
	}
}

// Supports reports whether path has an extension loadable as kind.
func (d Decoders) Supports(kind SourceType, path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range d.Extensions(kind) {
		if e == ext {
			return true
		}
	}
	return false
}

func (d Decoders) openVideo(path string) (FrameDecoder, error) {
	ext := strings.ToLower(filepath.Ext(path))
	dec, ok := d.Video[ext]
	if !ok {
		return nil, fmt.Errorf("no video decoder for %q files", ext)
	}
	return dec(path)
}

// decodeImageFile opens and decodes a still image.
func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// toRGBA returns img as a zero-origin *image.RGBA, converting when needed.
// buf is reused when it already has the right size.
func toRGBA(img image.Image, buf *image.RGBA) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba
	}
	b := img.Bounds()
	if buf == nil || buf.Rect.Dx() != b.Dx() || buf.Rect.Dy() != b.Dy() {
		buf = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	draw.Draw(buf, buf.Rect, img, b.Min, draw.Src)
	return buf
}
