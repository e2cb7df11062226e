package pimapper

import "github.com/hajimehoshi/ebiten/v2"

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	Fullscreen    bool
	// Resizable lets the window be resized; the new size becomes the
	// viewport for default quads.
	Resizable bool
}

func (c RunConfig) withDefaults() RunConfig {
	if c.Title == "" {
		c.Title = "pimapper"
	}
	if c.Width <= 0 {
		c.Width = defaultViewportWidth
	}
	if c.Height <= 0 {
		c.Height = defaultViewportHeight
	}
	return c
}

// Run opens a window and runs m until the window closes. m is closed when Run
// returns.
func Run(m *Mapper, cfg RunConfig) error {
	cfg = cfg.withDefaults()
	defer m.Close()

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetFullscreen(cfg.Fullscreen)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	return ebiten.RunGame(m)
}
