package pimapper

// JointTarget says which slot array of a surface a joint edits.
type JointTarget uint8

const (
	JointVertex   JointTarget = iota // screen-space vertex
	JointTexCoord                    // normalized texture coordinate
)

// DefaultJointRadius is the hit and draw radius of a joint in pixels.
const DefaultJointRadius = 10.0

// Joint is a circular drag handle bound to one vertex or texture coordinate
// slot of a surface. Texture joints live in texture pixel space: their
// position is the texture coordinate scaled by the texture size.
type Joint struct {
	surface *Surface
	index   int
	target  JointTarget
	scale   Vec2

	Radius   float64
	selected bool
	dragging bool
}

// Surface returns the surface the joint edits.
func (j *Joint) Surface() *Surface { return j.surface }

// Index returns the slot index the joint edits.
func (j *Joint) Index() int { return j.index }

// Target returns which slot array the joint edits.
func (j *Joint) Target() JointTarget { return j.target }

// Selected reports whether the joint is the selected one of its set.
func (j *Joint) Selected() bool { return j.selected }

// Dragging reports whether the joint is being dragged.
func (j *Joint) Dragging() bool { return j.dragging }

// Position returns the joint center in its drawing space.
func (j *Joint) Position() Vec2 {
	if j.target == JointTexCoord {
		return j.surface.texCoords[j.index].Mul(j.scale)
	}
	return j.surface.vertices[j.index]
}

// HitTest reports whether p lies within the joint's radius.
func (j *Joint) HitTest(p Vec2) bool {
	return j.Position().Distance(p) <= j.Radius
}

// Move translates the bound slot by delta, given in the joint's drawing space.
func (j *Joint) Move(delta Vec2) {
	if j.target == JointTexCoord {
		t := j.surface.texCoords[j.index].Add(delta.Div(j.scale))
		j.surface.texCoords[j.index] = t
		return
	}
	j.surface.vertices[j.index] = j.surface.vertices[j.index].Add(delta)
}

// jointSet is the set of joints shown for the selected surface in one mode.
type jointSet struct {
	target  JointTarget
	surface *Surface
	scale   Vec2
	joints  []*Joint
}

// build replaces the joints with one per slot of s. A nil surface clears.
func (js *jointSet) build(s *Surface, scale Vec2) {
	js.clear()
	if s == nil {
		return
	}
	js.surface = s
	js.scale = scale
	for i := 0; i < s.Len(); i++ {
		js.joints = append(js.joints, &Joint{
			surface: s,
			index:   i,
			target:  js.target,
			scale:   scale,
			Radius:  DefaultJointRadius,
		})
	}
}

func (js *jointSet) clear() {
	clear(js.joints)
	js.joints = js.joints[:0]
	js.surface = nil
	js.scale = Vec2{}
}

// hit returns the topmost joint containing p.
func (js *jointSet) hit(p Vec2) *Joint {
	for i := len(js.joints) - 1; i >= 0; i-- {
		if js.joints[i].HitTest(p) {
			return js.joints[i]
		}
	}
	return nil
}

// selectJoint marks j as the only selected joint. Nil deselects all.
func (js *jointSet) selectJoint(j *Joint) {
	for _, o := range js.joints {
		o.selected = o == j
	}
}

func (js *jointSet) selectedJoint() *Joint {
	for _, j := range js.joints {
		if j.selected {
			return j
		}
	}
	return nil
}

func (js *jointSet) draggedJoint() *Joint {
	for _, j := range js.joints {
		if j.dragging {
			return j
		}
	}
	return nil
}

func (js *jointSet) stopDrag() {
	for _, j := range js.joints {
		j.dragging = false
	}
}
