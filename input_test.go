package pimapper

import (
	"fmt"
	"testing"
)

// pointerRecorder logs the transitions it receives.
type pointerRecorder struct {
	log []string
}

func (r *pointerRecorder) record(what string, p Vec2) {
	r.log = append(r.log, fmt.Sprintf("%s %v,%v", what, p.X, p.Y))
}

func (r *pointerRecorder) PointerPressed(p Vec2)  { r.record("press", p) }
func (r *pointerRecorder) PointerDragged(p Vec2)  { r.record("drag", p) }
func (r *pointerRecorder) PointerReleased(p Vec2) { r.record("release", p) }

func assertLog(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("log = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("log = %q, want %q", got, want)
		}
	}
}

func TestProcessPointerTransitions(t *testing.T) {
	var in pointerInput
	rec := &pointerRecorder{}
	frames := []struct {
		p       Vec2
		pressed bool
	}{
		{Vec2{X: 1, Y: 1}, false}, // hover
		{Vec2{X: 2, Y: 2}, true},  // press
		{Vec2{X: 2, Y: 2}, true},  // held without moving
		{Vec2{X: 5, Y: 3}, true},  // drag
		{Vec2{X: 6, Y: 3}, false}, // release
		{Vec2{X: 9, Y: 9}, false}, // hover
	}
	for _, f := range frames {
		in.processPointer(rec, f.p, f.pressed)
	}
	assertLog(t, rec.log, []string{"press 2,2", "drag 5,3", "release 6,3"})
}

func TestInjectDragSequence(t *testing.T) {
	var in pointerInput
	rec := &pointerRecorder{}
	in.injectDrag(Vec2{}, Vec2{X: 30, Y: 0}, 4)
	if n := len(in.injectQueue); n != 4 {
		t.Fatalf("queued %d events, want 4", n)
	}
	for i := 0; i < 6; i++ {
		in.process(rec, false)
	}
	assertLog(t, rec.log, []string{"press 0,0", "drag 15,0", "drag 30,0", "release 30,0"})
	if len(in.injectQueue) != 0 {
		t.Error("queue should be drained")
	}
}

func TestInjectDragMinimumFrames(t *testing.T) {
	var in pointerInput
	rec := &pointerRecorder{}
	in.injectDrag(Vec2{X: 10, Y: 10}, Vec2{X: 20, Y: 10}, 0)
	for len(in.injectQueue) > 0 {
		in.process(rec, false)
	}
	assertLog(t, rec.log, []string{"press 10,10", "drag 20,10", "release 20,10"})
}

func TestInjectedEventsOnePerFrame(t *testing.T) {
	var in pointerInput
	rec := &pointerRecorder{}
	in.inject(3, 4, true)
	in.inject(3, 4, false)

	in.process(rec, false)
	assertLog(t, rec.log, []string{"press 3,4"})
	in.process(rec, false)
	assertLog(t, rec.log, []string{"press 3,4", "release 3,4"})
}

func TestInjectedDragMovesSurface(t *testing.T) {
	e, c := newTestEditor(t)
	s, _ := c.AddSurface(SurfaceQuad, SurfaceOptions{})
	_ = e.SetMode(ModeProjectionMapping)

	var in pointerInput
	in.injectDrag(Vec2{X: 100, Y: 100}, Vec2{X: 140, Y: 120}, 5)
	for len(in.injectQueue) > 0 {
		in.process(e, false)
	}
	if v, _ := s.Vertex(0); !vecApprox(v, Vec2{X: 40, Y: 20}, 1e-9) {
		t.Errorf("vertex 0 = %v, want (40, 20)", v)
	}
	if e.Dragging() {
		t.Error("drag should end with the injected release")
	}
}
