package pimapper

import "testing"

func TestJointVertex(t *testing.T) {
	s := newSurface(SurfaceQuad, 400, 300)
	var js jointSet
	js.target = JointVertex
	js.build(s, Vec2{X: 1, Y: 1})
	if len(js.joints) != 4 {
		t.Fatalf("built %d joints, want 4", len(js.joints))
	}
	j := js.joints[2]
	if j.Position() != (Vec2{X: 400, Y: 300}) || j.Index() != 2 || j.Surface() != s || j.Target() != JointVertex {
		t.Errorf("joint 2 = %v idx %d", j.Position(), j.Index())
	}
	if !j.HitTest(Vec2{X: 405, Y: 305}) || j.HitTest(Vec2{X: 420, Y: 300}) {
		t.Error("hit test should use the radius")
	}
	j.Move(Vec2{X: -10, Y: 5})
	if v, _ := s.Vertex(2); v != (Vec2{X: 390, Y: 305}) {
		t.Errorf("vertex after move = %v", v)
	}
}

func TestJointTexCoord(t *testing.T) {
	s := newSurface(SurfaceQuad, 400, 300)
	js := jointSet{target: JointTexCoord}
	js.build(s, Vec2{X: 200, Y: 100})

	j := js.joints[2]
	if j.Position() != (Vec2{X: 200, Y: 100}) {
		t.Errorf("texture joint position = %v, want texture corner", j.Position())
	}
	j.Move(Vec2{X: -20, Y: -50})
	if tc, _ := s.TexCoord(2); !vecApprox(tc, Vec2{X: 0.9, Y: 0.5}, epsilon) {
		t.Errorf("texcoord after move = %v, want (0.9, 0.5)", tc)
	}
	if v, _ := s.Vertex(2); v != (Vec2{X: 400, Y: 300}) {
		t.Error("texture joint moved a vertex")
	}
}

func TestJointSetHitPrefersTopmost(t *testing.T) {
	s := newSurface(SurfaceTriangle, 0, 0)
	_ = s.SetVertex(0, Vec2{X: 50, Y: 50})
	_ = s.SetVertex(1, Vec2{X: 52, Y: 50})
	js := jointSet{target: JointVertex}
	js.build(s, Vec2{X: 1, Y: 1})

	if got := js.hit(Vec2{X: 51, Y: 50}); got == nil || got.Index() != 1 {
		t.Errorf("hit = %v, want joint 1", got)
	}
	if js.hit(Vec2{X: 1000, Y: 1000}) != nil {
		t.Error("hit far away should be nil")
	}
}

func TestJointSetSelection(t *testing.T) {
	s := newSurface(SurfaceTriangle, 0, 0)
	js := jointSet{target: JointVertex}
	js.build(s, Vec2{X: 1, Y: 1})

	js.selectJoint(js.joints[1])
	if js.selectedJoint() != js.joints[1] || js.joints[0].Selected() {
		t.Error("only joint 1 should be selected")
	}
	js.selectJoint(js.joints[2])
	if js.joints[1].Selected() {
		t.Error("selecting another joint should deselect the first")
	}
	js.selectJoint(nil)
	if js.selectedJoint() != nil {
		t.Error("selectJoint(nil) should deselect all")
	}

	js.joints[0].dragging = true
	if js.draggedJoint() != js.joints[0] {
		t.Error("draggedJoint should report the dragging joint")
	}
	js.stopDrag()
	if js.draggedJoint() != nil {
		t.Error("stopDrag should clear dragging")
	}

	js.build(nil, Vec2{})
	if len(js.joints) != 0 || js.surface != nil {
		t.Error("build(nil) should clear")
	}
}
