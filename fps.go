package pimapper

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// fpsRefresh is how often the FPS line of the info overlay is rebuilt.
const fpsRefresh = 500 * time.Millisecond

// fpsCounter holds the FPS/TPS text shown in the info overlay, refreshed
// every fpsRefresh.
type fpsCounter struct {
	elapsed time.Duration
	text    string
}

func (f *fpsCounter) update(dt time.Duration) {
	f.elapsed += dt
	if f.elapsed < fpsRefresh {
		return
	}
	f.elapsed = 0
	f.text = fmt.Sprintf("FPS: %.1f  TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
}
