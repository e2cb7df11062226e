package pimapper

import (
	"errors"
	"testing"
)

func newTestEditor(t *testing.T) (*Editor, *SurfaceCollection) {
	t.Helper()
	c := newTestCollection(t)
	return NewEditor(c, NewSourcePicker(c)), c
}

func TestEditorSetMode(t *testing.T) {
	e, c := newTestEditor(t)
	if e.Mode() != ModeNone || e.CursorVisible() {
		t.Fatal("editor should start presenting with a hidden cursor")
	}
	if err := e.SetMode(Mode(42)); !errors.Is(err, ErrValidation) {
		t.Errorf("SetMode(42) = %v, want ErrValidation", err)
	}

	if err := e.SetMode(ModeSourceSelection); err != nil {
		t.Fatal(err)
	}
	if !e.picker.Enabled() || !e.CursorVisible() {
		t.Error("source selection should enable the picker and show the cursor")
	}
	_ = e.SetMode(ModeProjectionMapping)
	if e.picker.Enabled() {
		t.Error("leaving source selection should disable the picker")
	}
	if len(e.Joints()) != 0 {
		t.Error("no selection means no joints")
	}

	_, _ = c.AddSurface(SurfaceQuad, SurfaceOptions{})
	if err := e.SelectSurface(0); err != nil {
		t.Fatal(err)
	}
	if n := len(e.Joints()); n != 4 {
		t.Errorf("projection joints = %d, want 4", n)
	}
	_ = e.SetMode(ModeNone)
	if e.Joints() != nil {
		t.Error("ModeNone has no joints")
	}
}

func TestEditorProjectionDragSurface(t *testing.T) {
	e, c := newTestEditor(t)
	s, _ := c.AddSurface(SurfaceQuad, SurfaceOptions{})
	_ = e.SetMode(ModeProjectionMapping)

	e.PointerPressed(Vec2{X: 400, Y: 300})
	if c.Selected() != s || !e.Dragging() {
		t.Fatal("press inside a surface should select it and start a drag")
	}
	if len(e.Joints()) != 4 {
		t.Errorf("selection should build joints, got %d", len(e.Joints()))
	}
	e.PointerDragged(Vec2{X: 405, Y: 302})
	e.PointerDragged(Vec2{X: 410, Y: 305})
	e.PointerReleased(Vec2{X: 410, Y: 305})

	if v, _ := s.Vertex(0); v != (Vec2{X: 10, Y: 5}) {
		t.Errorf("vertex 0 = %v, want (10, 5)", v)
	}
	if v, _ := s.Vertex(2); v != (Vec2{X: 810, Y: 605}) {
		t.Errorf("vertex 2 = %v, want (810, 605)", v)
	}
	if e.Dragging() {
		t.Error("release should end the drag")
	}

	// Moving after release changes nothing.
	e.PointerDragged(Vec2{X: 500, Y: 500})
	if v, _ := s.Vertex(0); v != (Vec2{X: 10, Y: 5}) {
		t.Errorf("vertex moved without a drag: %v", v)
	}
}

func TestEditorProjectionDragJoint(t *testing.T) {
	e, c := newTestEditor(t)
	s, _ := c.AddSurface(SurfaceQuad, SurfaceOptions{})
	_ = e.SetMode(ModeProjectionMapping)
	_ = e.SelectSurface(0)

	e.PointerPressed(Vec2{X: 798, Y: 597})
	j := e.SelectedJoint()
	if j == nil || j.Index() != 2 || !j.Dragging() {
		t.Fatalf("press on corner should grab joint 2, got %v", j)
	}
	e.PointerDragged(Vec2{X: 768, Y: 577})
	e.PointerReleased(Vec2{X: 768, Y: 577})

	if v, _ := s.Vertex(2); v != (Vec2{X: 770, Y: 580}) {
		t.Errorf("vertex 2 = %v, want (770, 580)", v)
	}
	if v, _ := s.Vertex(0); v != (Vec2{}) {
		t.Errorf("joint drag moved vertex 0 to %v", v)
	}
	if j.Dragging() || !j.Selected() {
		t.Error("release should stop the drag and keep the joint selected")
	}

	// Arrow nudge moves the selected joint only.
	if !e.NudgeSelectedJoint(Vec2{X: 1}) {
		t.Fatal("nudge should move the selected joint")
	}
	if v, _ := s.Vertex(2); v != (Vec2{X: 771, Y: 580}) {
		t.Errorf("nudged vertex 2 = %v", v)
	}
}

func TestEditorProjectionTopmostSurface(t *testing.T) {
	e, c := newTestEditor(t)
	_, _ = c.AddSurface(SurfaceQuad, SurfaceOptions{})
	top, _ := c.AddSurface(SurfaceTriangle, SurfaceOptions{})
	_ = e.SetMode(ModeProjectionMapping)

	e.PointerPressed(Vec2{X: 100, Y: 150})
	if c.Selected() != top {
		t.Error("press should select the last-drawn surface under the pointer")
	}
	e.PointerReleased(Vec2{X: 100, Y: 150})
}

func TestEditorProjectionPressEmptyDeselects(t *testing.T) {
	e, c := newTestEditor(t)
	_, _ = c.AddSurface(SurfaceTriangle, SurfaceOptions{})
	_ = e.SetMode(ModeProjectionMapping)
	_ = e.SelectSurface(0)

	e.PointerPressed(Vec2{X: 700, Y: 500})
	if c.Selected() != nil || len(e.Joints()) != 0 || e.Dragging() {
		t.Error("press on empty space should deselect and drop joints")
	}
	if e.NudgeSelectedJoint(Vec2{X: 1}) {
		t.Error("nudge without selection should do nothing")
	}
}

func TestEditorTextureMapping(t *testing.T) {
	e, c := newTestEditor(t)
	s, _ := c.AddSurface(SurfaceQuad, SurfaceOptions{Source: imageRef("grid.png")})
	_ = e.SelectSurface(0)
	_ = e.SetMode(ModeTextureMapping)

	joints := e.Joints()
	if len(joints) != 4 {
		t.Fatalf("texture joints = %d, want 4", len(joints))
	}
	if joints[2].Position() != (Vec2{X: 64, Y: 32}) {
		t.Errorf("joint 2 at %v, want texture corner (64, 32)", joints[2].Position())
	}

	// Drag one texture joint by a tenth of the texture.
	e.PointerPressed(Vec2{X: 64, Y: 32})
	e.PointerDragged(Vec2{X: 57.6, Y: 28.8})
	e.PointerReleased(Vec2{X: 57.6, Y: 28.8})
	if tc, _ := s.TexCoord(2); !vecApprox(tc, Vec2{X: 0.9, Y: 0.9}, 1e-9) {
		t.Errorf("texcoord 2 = %v, want (0.9, 0.9)", tc)
	}
	if v, _ := s.Vertex(2); v != (Vec2{X: 800, Y: 600}) {
		t.Error("texture mapping moved a vertex")
	}

	// Drag the whole texture area.
	e.PointerPressed(Vec2{X: 20, Y: 10})
	if !e.Dragging() || e.SelectedJoint() != nil {
		t.Fatal("press inside the texture area should drag all texcoords")
	}
	e.PointerDragged(Vec2{X: 26.4, Y: 10})
	e.PointerReleased(Vec2{X: 26.4, Y: 10})
	if tc, _ := s.TexCoord(0); !vecApprox(tc, Vec2{X: 0.1, Y: 0}, 1e-9) {
		t.Errorf("texcoord 0 = %v, want (0.1, 0)", tc)
	}

	// Outside the texture nothing starts.
	e.PointerPressed(Vec2{X: 500, Y: 500})
	if e.Dragging() {
		t.Error("press outside the texture area should not drag")
	}
	e.PointerReleased(Vec2{X: 500, Y: 500})

	// Arrow nudge without a selected joint moves every texcoord by pixels.
	if !e.NudgeSelectedJoint(Vec2{X: 6.4}) {
		t.Fatal("nudge should move the texture")
	}
	if tc, _ := s.TexCoord(0); !vecApprox(tc, Vec2{X: 0.2, Y: 0}, 1e-9) {
		t.Errorf("nudged texcoord 0 = %v, want (0.2, 0)", tc)
	}
}

func TestEditorTextureMappingWithoutSource(t *testing.T) {
	e, c := newTestEditor(t)
	_, _ = c.AddSurface(SurfaceQuad, SurfaceOptions{})
	_ = e.SelectSurface(0)
	_ = e.SetMode(ModeTextureMapping)
	if len(e.Joints()) != 0 {
		t.Error("an unbound surface has no texture joints")
	}
	e.PointerPressed(Vec2{})
	if e.Dragging() {
		t.Error("nothing to drag without a texture")
	}
}

func TestEditorSyncFollowsSelection(t *testing.T) {
	e, c := newTestEditor(t)
	_, _ = c.AddSurface(SurfaceQuad, SurfaceOptions{})
	b, _ := c.AddSurface(SurfaceTriangle, SurfaceOptions{})
	_ = e.SetMode(ModeProjectionMapping)
	_ = e.SelectSurface(0)

	// Selection changed directly on the collection.
	_ = c.SelectSurface(1)
	e.Sync()
	joints := e.Joints()
	if len(joints) != 3 || joints[0].Surface() != b {
		t.Errorf("joints should follow the new selection, got %d", len(joints))
	}

	c.RemoveSelectedSurface()
	e.Sync()
	if len(e.Joints()) != 0 {
		t.Error("joints should be dropped with their surface")
	}
}

func TestEditorSyncTextureJointsOnBind(t *testing.T) {
	e, c := newTestEditor(t)
	s, _ := c.AddSurface(SurfaceQuad, SurfaceOptions{})
	_ = e.SelectSurface(0)
	_ = e.SetMode(ModeTextureMapping)
	if len(e.Joints()) != 0 {
		t.Fatal("unbound surface should have no texture joints")
	}
	if err := c.SetSource(s, imageRef("grid.png")); err != nil {
		t.Fatal(err)
	}
	e.Sync()
	if len(e.Joints()) != 4 {
		t.Error("binding media should create texture joints on Sync")
	}
	_ = c.SetSource(s, nil)
	e.Sync()
	if len(e.Joints()) != 0 {
		t.Error("unbinding media should drop texture joints on Sync")
	}
}

func TestEditorReleaseEndsDragInAnyMode(t *testing.T) {
	e, c := newTestEditor(t)
	_, _ = c.AddSurface(SurfaceQuad, SurfaceOptions{})
	_ = e.SetMode(ModeProjectionMapping)
	e.PointerPressed(Vec2{X: 400, Y: 300})
	if !e.Dragging() {
		t.Fatal("expected a drag")
	}
	e.mode = ModeSourceSelection
	e.PointerReleased(Vec2{X: 400, Y: 300})
	if e.Dragging() {
		t.Error("release should end the drag regardless of mode")
	}
}

func TestEditorRemoveSelectedSurface(t *testing.T) {
	e, c := newTestEditor(t)
	_, _ = c.AddSurface(SurfaceQuad, SurfaceOptions{})
	_ = e.SetMode(ModeProjectionMapping)
	_ = e.SelectSurface(0)
	if !e.RemoveSelectedSurface() {
		t.Fatal("remove should succeed")
	}
	if c.Len() != 0 || len(e.Joints()) != 0 {
		t.Error("surface and joints should be gone")
	}
	if e.RemoveSelectedSurface() {
		t.Error("second remove should report false")
	}
}
