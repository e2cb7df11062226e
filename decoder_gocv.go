//go:build gocv

package pimapper

import (
	"fmt"
	"image"
	"io"
	"time"

	"gocv.io/x/gocv"
)

// Container formats played through OpenCV when built with -tags gocv.
func init() {
	for _, ext := range []string{".mp4", ".mov", ".avi", ".mkv", ".m4v", ".webm"} {
		defaultVideoDecoders[ext] = openCaptureDecoder
	}
}

// captureDecoder reads frames from an OpenCV video capture.
type captureDecoder struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
	rgba    gocv.Mat
	delay   time.Duration
}

func openCaptureDecoder(path string) (FrameDecoder, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open capture: %w", err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("open capture: %s not readable", path)
	}
	delay := time.Second / 30
	if fps := capture.Get(gocv.VideoCaptureFPS); fps > 0 {
		delay = time.Duration(float64(time.Second) / fps)
	}
	return &captureDecoder{
		capture: capture,
		mat:     gocv.NewMat(),
		rgba:    gocv.NewMat(),
		delay:   delay,
	}, nil
}

func (d *captureDecoder) NextFrame() (image.Image, time.Duration, error) {
	if ok := d.capture.Read(&d.mat); !ok || d.mat.Empty() {
		return nil, 0, io.EOF
	}
	gocv.CvtColor(d.mat, &d.rgba, gocv.ColorBGRToRGBA)
	img, err := d.rgba.ToImage()
	if err != nil {
		return nil, 0, fmt.Errorf("convert frame: %w", err)
	}
	return img, d.delay, nil
}

func (d *captureDecoder) Rewind() error {
	d.capture.Set(gocv.VideoCapturePosFrames, 0)
	return nil
}

func (d *captureDecoder) Close() error {
	d.mat.Close()
	d.rgba.Close()
	return d.capture.Close()
}
