package pimapper

import "fmt"

type dragKind uint8

const (
	dragNone    dragKind = iota
	dragJoint            // one joint of the active set
	dragSurface          // every vertex of the selection
	dragTexture          // every texture coordinate of the selection
)

// Editor is the interactive editing state machine. Pointer events are routed
// by mode: projection mapping edits vertices, texture mapping edits texture
// coordinates against the selection's texture drawn at the origin, source
// selection forwards to the picker.
//
// Joints are rebuilt whenever the selection or mode changes and are dropped
// as soon as their surface stops being the collection's selection.
type Editor struct {
	collection *SurfaceCollection
	picker     *SourcePicker

	mode Mode
	drag dragKind
	last Vec2

	projection jointSet
	texture    jointSet
}

// NewEditor creates an editor in ModeNone. picker may be nil, in which case
// source selection mode ignores the pointer.
func NewEditor(c *SurfaceCollection, picker *SourcePicker) *Editor {
	return &Editor{
		collection: c,
		picker:     picker,
		projection: jointSet{target: JointVertex},
		texture:    jointSet{target: JointTexCoord},
	}
}

// Mode returns the current mode.
func (e *Editor) Mode() Mode {
	return e.mode
}

// SetMode switches modes, tearing down the old mode's joints or picker and
// setting up the new one's.
func (e *Editor) SetMode(m Mode) error {
	if !m.Valid() {
		return &ValidationError{Field: "mode", Reason: fmt.Sprintf("unknown %s", m)}
	}
	if m == e.mode {
		return nil
	}
	e.endDrag()

	switch e.mode {
	case ModeSourceSelection:
		if e.picker != nil {
			e.picker.Disable()
		}
	case ModeTextureMapping:
		e.texture.clear()
	case ModeProjectionMapping:
		e.projection.clear()
	}

	e.mode = m

	switch m {
	case ModeSourceSelection:
		if e.picker != nil {
			e.picker.Enable()
		}
	case ModeTextureMapping:
		e.rebuildTextureJoints()
	case ModeProjectionMapping:
		e.rebuildProjectionJoints()
	}
	return nil
}

// CursorVisible reports whether the mouse cursor should be shown. It is
// hidden only while presenting.
func (e *Editor) CursorVisible() bool {
	return e.mode != ModeNone
}

// Dragging reports whether a drag is in progress.
func (e *Editor) Dragging() bool {
	return e.drag != dragNone
}

func (e *Editor) rebuildProjectionJoints() {
	e.projection.build(e.collection.Selected(), Vec2{X: 1, Y: 1})
}

func (e *Editor) rebuildTextureJoints() {
	s := e.collection.Selected()
	if s == nil {
		e.texture.clear()
		return
	}
	size, ok := e.collection.TextureSize(s)
	if !ok {
		e.texture.clear()
		return
	}
	e.texture.build(s, size)
}

// Sync revalidates the joints against the current selection, rebuilding or
// dropping them when the selection changed behind the editor's back.
func (e *Editor) Sync() {
	sel := e.collection.Selected()
	switch e.mode {
	case ModeProjectionMapping:
		if e.projection.surface != sel {
			e.endDrag()
			e.rebuildProjectionJoints()
		}
	case ModeTextureMapping:
		size, ok := Vec2{}, false
		if sel != nil {
			size, ok = e.collection.TextureSize(sel)
		}
		if e.texture.surface != sel || (ok && size != e.texture.scale) || (!ok && e.texture.surface != nil) {
			e.endDrag()
			e.rebuildTextureJoints()
		}
	}
	if e.drag != dragNone && sel == nil {
		e.endDrag()
	}
}

func (e *Editor) activeJoints() *jointSet {
	switch e.mode {
	case ModeProjectionMapping:
		return &e.projection
	case ModeTextureMapping:
		return &e.texture
	default:
		return nil
	}
}

// Joints returns the joints of the current mode. Empty outside projection
// and texture mapping.
func (e *Editor) Joints() []*Joint {
	js := e.activeJoints()
	if js == nil {
		return nil
	}
	out := make([]*Joint, len(js.joints))
	copy(out, js.joints)
	return out
}

// SelectedJoint returns the selected joint of the current mode, or nil.
func (e *Editor) SelectedJoint() *Joint {
	if js := e.activeJoints(); js != nil {
		return js.selectedJoint()
	}
	return nil
}

// SelectSurface selects surface i and rebuilds the joints for it.
func (e *Editor) SelectSurface(i int) error {
	if err := e.collection.SelectSurface(i); err != nil {
		return err
	}
	e.endDrag()
	switch e.mode {
	case ModeProjectionMapping:
		e.rebuildProjectionJoints()
	case ModeTextureMapping:
		e.rebuildTextureJoints()
	}
	return nil
}

// PointerPressed handles a press at p.
func (e *Editor) PointerPressed(p Vec2) {
	e.Sync()
	e.last = p
	switch e.mode {
	case ModeProjectionMapping:
		if e.grabJoint(&e.projection, p) {
			return
		}
		e.projection.selectJoint(nil)
		for i := e.collection.Len() - 1; i >= 0; i-- {
			if e.collection.surfaces[i].HitTest(p) {
				_ = e.collection.SelectSurface(i)
				e.rebuildProjectionJoints()
				e.drag = dragSurface
				return
			}
		}
		e.projection.clear()
		e.collection.DeselectSurface()

	case ModeTextureMapping:
		if e.grabJoint(&e.texture, p) {
			return
		}
		e.texture.selectJoint(nil)
		sel := e.collection.Selected()
		if sel == nil {
			return
		}
		if size, ok := e.collection.TextureSize(sel); ok && sel.TextureHitArea(size).Contains(p.X, p.Y) {
			e.drag = dragTexture
		}

	case ModeSourceSelection:
		if e.picker != nil {
			e.picker.PointerPressed(p)
		}
	}
}

func (e *Editor) grabJoint(js *jointSet, p Vec2) bool {
	j := js.hit(p)
	if j == nil {
		return false
	}
	js.selectJoint(j)
	j.dragging = true
	e.drag = dragJoint
	return true
}

// PointerDragged handles pointer movement with the button held. The delta
// since the previous pointer position is applied to whatever is being
// dragged.
func (e *Editor) PointerDragged(p Vec2) {
	delta := p.Sub(e.last)
	e.last = p
	if e.drag == dragNone {
		return
	}
	sel := e.collection.Selected()
	if sel == nil {
		e.endDrag()
		return
	}
	switch e.drag {
	case dragJoint:
		if js := e.activeJoints(); js != nil {
			if j := js.draggedJoint(); j != nil && j.surface == sel {
				j.Move(delta)
			}
		}
	case dragSurface:
		sel.MoveVertices(delta)
	case dragTexture:
		if size, ok := e.collection.TextureSize(sel); ok {
			sel.MoveTexCoords(delta.Div(size))
		}
	}
}

// PointerReleased ends any drag, whatever the mode.
func (e *Editor) PointerReleased(p Vec2) {
	e.last = p
	e.endDrag()
}

func (e *Editor) endDrag() {
	e.drag = dragNone
	e.projection.stopDrag()
	e.texture.stopDrag()
}

// NudgeSelectedJoint moves the selected joint by delta, or the whole
// selection when no joint is selected. It reports whether anything moved.
func (e *Editor) NudgeSelectedJoint(delta Vec2) bool {
	e.Sync()
	if j := e.SelectedJoint(); j != nil {
		j.Move(delta)
		return true
	}
	sel := e.collection.Selected()
	if sel == nil {
		return false
	}
	switch e.mode {
	case ModeProjectionMapping:
		sel.MoveVertices(delta)
		return true
	case ModeTextureMapping:
		if size, ok := e.collection.TextureSize(sel); ok {
			sel.MoveTexCoords(delta.Div(size))
			return true
		}
	}
	return false
}

// RemoveSelectedSurface removes the selection and drops its joints.
func (e *Editor) RemoveSelectedSurface() bool {
	e.endDrag()
	removed := e.collection.RemoveSelectedSurface()
	e.projection.clear()
	e.texture.clear()
	return removed
}
