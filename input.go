package pimapper

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// PointerHandler receives the press, drag and release transitions of the
// primary pointer. Editor implements it.
type PointerHandler interface {
	PointerPressed(p Vec2)
	PointerDragged(p Vec2)
	PointerReleased(p Vec2)
}

// KeyModifiers is a bitmask of held modifier keys.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

// --- Pointer state ---

type pointerState struct {
	down bool
	last Vec2
}

// pointerInput turns per-frame device state into pointer transitions. Only
// one pointer drives the editor: the left mouse button, or the first touch
// while no mouse press is in progress. Injected events take precedence over
// both and are consumed one per frame.
type pointerInput struct {
	state       pointerState
	touchIDs    []ebiten.TouchID
	touch       ebiten.TouchID
	touchActive bool
	injectQueue []syntheticPointerEvent
}

// process runs one frame of input against h. readDevices false limits it to
// injected events.
func (in *pointerInput) process(h PointerHandler, readDevices bool) {
	if in.processInjected(h) || !readDevices {
		return
	}
	if in.processTouch(h) {
		return
	}
	in.processMouse(h)
}

// processMouse handles the left mouse button.
func (in *pointerInput) processMouse(h PointerHandler) {
	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	in.processPointer(h, Vec2{X: float64(mx), Y: float64(my)}, pressed)
}

// processTouch follows a single touch from press to lift. It reports whether
// touch input handled this frame.
func (in *pointerInput) processTouch(h PointerHandler) bool {
	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	if in.touchActive {
		for _, id := range in.touchIDs {
			if id == in.touch {
				tx, ty := ebiten.TouchPosition(id)
				in.processPointer(h, Vec2{X: float64(tx), Y: float64(ty)}, true)
				return true
			}
		}
		in.touchActive = false
		in.processPointer(h, in.state.last, false)
		return true
	}
	if len(in.touchIDs) == 0 || in.state.down {
		return false
	}
	in.touch = in.touchIDs[0]
	in.touchActive = true
	tx, ty := ebiten.TouchPosition(in.touch)
	in.processPointer(h, Vec2{X: float64(tx), Y: float64(ty)}, true)
	return true
}

// processPointer runs the pointer state machine.
func (in *pointerInput) processPointer(h PointerHandler, p Vec2, pressed bool) {
	ps := &in.state
	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.last = p
		h.PointerPressed(p)
	case !pressed && ps.down:
		ps.down = false
		ps.last = p
		h.PointerReleased(p)
	case pressed && ps.down:
		if p != ps.last {
			ps.last = p
			h.PointerDragged(p)
		}
	default:
		ps.last = p
	}
}
