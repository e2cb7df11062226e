package pimapper

import (
	"errors"
	"image"
	"io"
	"path"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Source is a loaded image or video. Sources are created and destroyed only
// by the MediaRegistry; surfaces refer to them through a SourceHandle.
//
// The GPU texture is created lazily from the decoded frame on the first
// Texture call, so sources can be loaded before the game loop starts.
type Source struct {
	kind       SourceType
	path       string
	name       string
	refCount   int
	loaded     bool
	loadable   bool
	generation uint64

	frame      image.Image
	frameDirty bool
	rgbaBuf    *image.RGBA
	texture    *ebiten.Image

	// Video fields (SourceVideo)
	video     FrameDecoder
	remaining time.Duration
}

// newSource returns an unloaded source with one reference.
func newSource(kind SourceType, p string) *Source {
	return &Source{
		kind:     kind,
		path:     p,
		name:     nameFromPath(p),
		refCount: 1,
	}
}

// nameFromPath returns the last path component used as display and
// persisted name.
func nameFromPath(p string) string {
	return path.Base(filepath.ToSlash(p))
}

// load opens the media with the decoder table. On failure the source is
// marked not loadable and a *MediaLoadError is returned.
func (s *Source) load(dec Decoders) error {
	var err error
	switch s.kind {
	case SourceImage:
		err = s.loadImage(dec)
	case SourceVideo:
		err = s.loadVideo(dec)
	default:
		err = errors.New("unknown source type")
	}
	if err != nil {
		s.loaded = false
		s.loadable = false
		return &MediaLoadError{Path: s.path, Kind: s.kind, Err: err}
	}
	s.loaded = true
	s.loadable = true
	return nil
}

func (s *Source) loadImage(dec Decoders) error {
	if dec.Image == nil {
		return errors.New("no image decoder")
	}
	img, err := dec.Image(s.path)
	if err != nil {
		return err
	}
	s.setFrame(img)
	return nil
}

func (s *Source) loadVideo(dec Decoders) error {
	v, err := dec.openVideo(s.path)
	if err != nil {
		return err
	}
	img, delay, err := v.NextFrame()
	if err != nil {
		_ = v.Close()
		if err == io.EOF {
			return errors.New("video has no frames")
		}
		return err
	}
	s.video = v
	s.remaining = delay
	s.setFrame(img)
	return nil
}

func (s *Source) setFrame(img image.Image) {
	// Decoders may reuse their frame buffer, so keep a private copy.
	s.rgbaBuf = copyRGBA(toRGBA(img, s.rgbaBuf), s.rgbaBuf)
	s.frame = s.rgbaBuf
	s.frameDirty = true
}

func copyRGBA(src, dst *image.RGBA) *image.RGBA {
	if src == dst {
		return dst
	}
	if dst == nil || dst.Rect != src.Rect {
		dst = image.NewRGBA(src.Rect)
	}
	copy(dst.Pix, src.Pix)
	return dst
}

// Acquire adds a reference. Called whenever another binding shares the path.
func (s *Source) Acquire() {
	s.refCount++
}

// Release drops a reference and reports whether none remain, in which case
// the caller must destroy the source.
func (s *Source) Release() bool {
	if s.refCount > 0 {
		s.refCount--
	}
	return s.refCount == 0
}

// Update advances a video source by dt, decoding as many frames as have
// elapsed and looping at end of stream. Images ignore Update.
func (s *Source) Update(dt time.Duration) error {
	if s.kind != SourceVideo || s.video == nil {
		return nil
	}
	s.remaining -= dt
	var latest image.Image
	rewound := false
	for s.remaining <= 0 {
		img, delay, err := s.video.NextFrame()
		if err == io.EOF {
			if rewound {
				// Empty stream after rewind: hold the last frame.
				s.remaining = 0
				break
			}
			if err := s.video.Rewind(); err != nil {
				return &MediaLoadError{Path: s.path, Kind: s.kind, Err: err}
			}
			rewound = true
			continue
		}
		if err != nil {
			return &MediaLoadError{Path: s.path, Kind: s.kind, Err: err}
		}
		rewound = false
		latest = img
		if delay <= 0 {
			delay = defaultGIFDelay
		}
		s.remaining += delay
	}
	if latest != nil {
		s.setFrame(latest)
	}
	return nil
}

// Texture returns the current frame as a read-only GPU image, uploading the
// frame first if it changed. Nil when the source is not loaded.
func (s *Source) Texture() *ebiten.Image {
	if !s.loaded || s.frame == nil {
		return nil
	}
	if !s.frameDirty && s.texture != nil {
		return s.texture
	}
	b := s.frame.Bounds()
	if s.texture != nil {
		tb := s.texture.Bounds()
		if tb.Dx() != b.Dx() || tb.Dy() != b.Dy() {
			s.texture.Deallocate()
			s.texture = nil
		}
	}
	if s.texture == nil {
		s.texture = ebiten.NewImage(b.Dx(), b.Dy())
	}
	s.texture.WritePixels(s.rgbaBuf.Pix)
	s.frameDirty = false
	return s.texture
}

// Size returns the pixel size of the current frame.
func (s *Source) Size() Vec2 {
	if s.frame == nil {
		return Vec2{}
	}
	b := s.frame.Bounds()
	return Vec2{X: float64(b.Dx()), Y: float64(b.Dy())}
}

// Kind returns the media variant.
func (s *Source) Kind() SourceType { return s.kind }

// Path returns the absolute file path the source was loaded from.
func (s *Source) Path() string { return s.path }

// Name returns the last path component.
func (s *Source) Name() string { return s.name }

// RefCount returns the number of live references.
func (s *Source) RefCount() int { return s.refCount }

// Loaded reports whether the media was decoded successfully.
func (s *Source) Loaded() bool { return s.loaded }

// Loadable reports whether the media can be decoded.
func (s *Source) Loadable() bool { return s.loadable }

// close frees the decoder and GPU texture.
func (s *Source) close() {
	if s.video != nil {
		_ = s.video.Close()
		s.video = nil
	}
	if s.texture != nil {
		s.texture.Deallocate()
		s.texture = nil
	}
	s.frame = nil
	s.rgbaBuf = nil
	s.loaded = false
}
