package pimapper

// syntheticPointerEvent is a single injected pointer event in screen
// coordinates.
type syntheticPointerEvent struct {
	pos     Vec2
	pressed bool
}

func (in *pointerInput) inject(x, y float64, pressed bool) {
	in.injectQueue = append(in.injectQueue, syntheticPointerEvent{
		pos:     Vec2{X: x, Y: y},
		pressed: pressed,
	})
}

// injectDrag queues a press at from, moves interpolated toward to with the
// last one landing on to, and a release at to. The whole gesture spans
// frames frames; the minimum is 3.
func (in *pointerInput) injectDrag(from, to Vec2, frames int) {
	if frames < 3 {
		frames = 3
	}
	in.inject(from.X, from.Y, true)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := from.Add(to.Sub(from).Scale(t))
		in.inject(p.X, p.Y, true)
	}
	in.inject(to.X, to.Y, false)
}

// processInjected pops one queued event and feeds it through the pointer
// state machine. It reports whether an event was consumed, in which case
// real device input is skipped this frame.
func (in *pointerInput) processInjected(h PointerHandler) bool {
	if len(in.injectQueue) == 0 {
		return false
	}
	evt := in.injectQueue[0]
	copy(in.injectQueue, in.injectQueue[1:])
	in.injectQueue = in.injectQueue[:len(in.injectQueue)-1]
	in.processPointer(h, evt.pos, evt.pressed)
	return true
}

// InjectPress queues a pointer press at the given screen coordinates. The
// event is consumed on the next Update.
func (m *Mapper) InjectPress(x, y float64) {
	m.input.inject(x, y, true)
}

// InjectMove queues a pointer move with the button held. Use between
// InjectPress and InjectRelease to drag.
func (m *Mapper) InjectMove(x, y float64) {
	m.input.inject(x, y, true)
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (m *Mapper) InjectRelease(x, y float64) {
	m.input.inject(x, y, false)
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (m *Mapper) InjectClick(x, y float64) {
	m.InjectPress(x, y)
	m.InjectRelease(x, y)
}

// InjectDrag queues a full drag from (fromX, fromY) to (toX, toY) spread
// over frames frames.
func (m *Mapper) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	m.input.injectDrag(Vec2{X: fromX, Y: fromY}, Vec2{X: toX, Y: toY}, frames)
}

// pendingInjections reports how many injected events are still queued.
func (m *Mapper) pendingInjections() int {
	return len(m.input.injectQueue)
}
