package pimapper

import (
	"errors"
	"image"
	"testing"
	"time"
)

// recordingVideoDecoders returns decoders whose video is the given fake, so
// tests can inspect its state.
func recordingVideoDecoders(v *fakeVideo) Decoders {
	d := fakeDecoders()
	d.Video[".gif"] = func(string) (FrameDecoder, error) { return v, nil }
	return d
}

func TestSourceLoadImage(t *testing.T) {
	s := newSource(SourceImage, "/data/sources/images/grid.png")
	if s.Name() != "grid.png" {
		t.Errorf("Name() = %q", s.Name())
	}
	if s.Loaded() || s.RefCount() != 1 {
		t.Fatalf("fresh source: loaded=%v refs=%d", s.Loaded(), s.RefCount())
	}
	if err := s.load(fakeDecoders()); err != nil {
		t.Fatal(err)
	}
	if !s.Loaded() || !s.Loadable() {
		t.Error("source should be loaded")
	}
	if got := s.Size(); got != (Vec2{X: 64, Y: 32}) {
		t.Errorf("Size() = %v", got)
	}
}

func TestSourceLoadFailure(t *testing.T) {
	s := newSource(SourceImage, "/data/broken.png")
	err := s.load(fakeDecoders())
	var le *MediaLoadError
	if !errors.As(err, &le) || le.Path != "/data/broken.png" || !errors.Is(err, errCorrupt) {
		t.Fatalf("load err = %v, want *MediaLoadError wrapping errCorrupt", err)
	}
	if s.Loaded() || s.Loadable() {
		t.Error("failed source should be neither loaded nor loadable")
	}
	if s.Texture() != nil {
		t.Error("failed source should have no texture")
	}
}

func TestSourceLoadEmptyVideo(t *testing.T) {
	v := &fakeVideo{n: 0, w: 8, h: 8}
	s := newSource(SourceVideo, "/data/empty.gif")
	if err := s.load(recordingVideoDecoders(v)); !errors.Is(err, ErrMediaLoad) {
		t.Fatalf("err = %v, want ErrMediaLoad", err)
	}
	if !v.closed {
		t.Error("decoder should be closed after a failed load")
	}
}

func TestSourceRefCount(t *testing.T) {
	s := newSource(SourceImage, "a.png")
	s.Acquire()
	if s.RefCount() != 2 {
		t.Fatalf("RefCount() = %d, want 2", s.RefCount())
	}
	if s.Release() {
		t.Error("first release should leave a reference")
	}
	if !s.Release() {
		t.Error("second release should drop the last reference")
	}
	if !s.Release() || s.RefCount() != 0 {
		t.Error("release at zero should stay at zero")
	}
}

func TestSourceVideoUpdateLoops(t *testing.T) {
	v := &fakeVideo{n: 3, w: 32, h: 16, delay: 100 * time.Millisecond}
	s := newSource(SourceVideo, "/data/loop.gif")
	if err := s.load(recordingVideoDecoders(v)); err != nil {
		t.Fatal(err)
	}
	frameIndex := func() uint8 { return s.rgbaBuf.Pix[0] }
	if frameIndex() != 0 {
		t.Fatalf("first frame = %d", frameIndex())
	}

	steps := []struct {
		dt      time.Duration
		frame   uint8
		rewinds int
	}{
		{50 * time.Millisecond, 0, 0},
		{50 * time.Millisecond, 1, 0},
		{100 * time.Millisecond, 2, 0},
		{100 * time.Millisecond, 0, 1},
		{250 * time.Millisecond, 2, 1},
	}
	for i, st := range steps {
		if err := s.Update(st.dt); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if frameIndex() != st.frame || v.rewinds != st.rewinds {
			t.Errorf("step %d: frame=%d rewinds=%d, want frame=%d rewinds=%d",
				i, frameIndex(), v.rewinds, st.frame, st.rewinds)
		}
	}

	s.close()
	if !v.closed || s.Loaded() {
		t.Error("close should release the decoder and unload")
	}
}

func TestSourceImageIgnoresUpdate(t *testing.T) {
	s := newSource(SourceImage, "a.png")
	if err := s.load(fakeDecoders()); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(time.Hour); err != nil {
		t.Errorf("Update on image = %v", err)
	}
}

func TestCopyRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Pix[0] = 9
	dst := copyRGBA(src, nil)
	if dst == src || dst.Pix[0] != 9 {
		t.Fatal("copyRGBA should allocate a distinct copy")
	}
	src.Pix[0] = 1
	if again := copyRGBA(src, dst); again != dst || dst.Pix[0] != 1 {
		t.Error("copyRGBA should reuse a same-size buffer")
	}
}
