package pimapper

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Pulse oscillates Value between two bounds, easing each half cycle. The
// overlay uses it to make the selected outline and joints breathe. Call
// Update(dt) each frame.
type Pulse struct {
	tween    *gween.Tween
	from, to float32
	duration float32
	easing   ease.TweenFunc
	rising   bool

	Value float64
}

// NewPulse creates a pulse that starts at from and reaches to after duration
// seconds, then eases back, forever.
func NewPulse(from, to float64, duration float32, fn ease.TweenFunc) *Pulse {
	if fn == nil {
		fn = ease.InOutSine
	}
	p := &Pulse{
		from:     float32(from),
		to:       float32(to),
		duration: duration,
		easing:   fn,
		Value:    from,
	}
	p.Reset()
	return p
}

// Reset restarts the pulse at its lower bound.
func (p *Pulse) Reset() {
	p.rising = true
	p.tween = gween.New(p.from, p.to, p.duration, p.easing)
	p.Value = float64(p.from)
}

// Update advances the pulse by dt seconds.
func (p *Pulse) Update(dt float32) {
	val, finished := p.tween.Update(dt)
	p.Value = float64(val)
	if !finished {
		return
	}
	p.rising = !p.rising
	if p.rising {
		p.tween = gween.New(p.from, p.to, p.duration, p.easing)
	} else {
		p.tween = gween.New(p.to, p.from, p.duration, p.easing)
	}
}
