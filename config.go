package pimapper

import (
	"io"
	"log"
	"path/filepath"

	"github.com/yohamta/donburi"
)

// DefaultLayoutFile is the layout file name inside the data root.
const DefaultLayoutFile = "surfaces.xml"

// Config configures a Mapper. The zero value is usable: it maps from the
// working directory without watching it.
type Config struct {
	// DataRoot holds the media directories and, by default, the layout file.
	DataRoot string
	// LayoutFile is loaded on New and written by SaveLayout. Relative paths
	// are resolved against DataRoot. Defaults to DefaultLayoutFile.
	LayoutFile string

	// Width and Height are the viewport used for default quads until the
	// first Layout call reports the real one. Default 1280x720.
	Width, Height int

	// Decoders loads media. Zero value means DefaultDecoders().
	Decoders Decoders
	// World is the donburi world notifications are queued on. Nil creates one.
	World donburi.World
	// Logger receives notices about media and layout handling. Nil discards.
	Logger *log.Logger

	// Watch keeps the available media current as files come and go. The
	// media directories are scanned once on New either way.
	Watch bool
	// Debug prints per-frame stats and reference count checks to stderr.
	Debug bool
	// ShowInfo starts with the info overlay visible.
	ShowInfo bool

	// ScreenshotDir receives PNGs from Screenshot. Default "screenshots".
	ScreenshotDir string

	// Background clears the screen each frame. Default opaque black.
	Background Color
	// BlankColor fills surfaces without media. Default mid grey.
	BlankColor Color
	// Tint multiplies every surface. Default white.
	Tint Color
	// TextureModeAlpha scales the tint alpha while texture mapping so the
	// full texture drawn behind the surfaces stays visible. Default 200/255.
	TextureModeAlpha float64

	// InitialMode is the editor mode after New.
	InitialMode Mode
	// PulseDuration is the half period of the selection highlight, in
	// seconds. Default 0.6.
	PulseDuration float32
}

func (c Config) withDefaults() Config {
	if c.DataRoot == "" {
		c.DataRoot = "."
	}
	if c.LayoutFile == "" {
		c.LayoutFile = DefaultLayoutFile
	}
	if c.Width <= 0 {
		c.Width = defaultViewportWidth
	}
	if c.Height <= 0 {
		c.Height = defaultViewportHeight
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard, "", 0)
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "screenshots"
	}
	if c.Background == (Color{}) {
		c.Background = Color{A: 1}
	}
	if c.BlankColor == (Color{}) {
		c.BlankColor = Color{R: 0.5, G: 0.5, B: 0.5, A: 1}
	}
	if c.Tint == (Color{}) {
		c.Tint = ColorWhite
	}
	if c.TextureModeAlpha <= 0 || c.TextureModeAlpha > 1 {
		c.TextureModeAlpha = 200.0 / 255
	}
	if c.PulseDuration <= 0 {
		c.PulseDuration = 0.6
	}
	return c
}

// layoutPath returns the absolute layout file path.
func (c Config) layoutPath() string {
	if filepath.IsAbs(c.LayoutFile) {
		return c.LayoutFile
	}
	return absPath(filepath.Join(c.DataRoot, c.LayoutFile))
}
