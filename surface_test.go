package pimapper

import (
	"errors"
	"testing"
)

func TestNewSurfaceDefaults(t *testing.T) {
	tri := newSurface(SurfaceTriangle, 800, 600)
	if tri.Len() != 3 || len(tri.Vertices()) != 3 || len(tri.TexCoords()) != 3 {
		t.Fatalf("triangle len = %d", tri.Len())
	}
	for i, want := range defaultTriangleVertices {
		if got, _ := tri.Vertex(i); got != want {
			t.Errorf("triangle vertex %d = %v, want %v", i, got, want)
		}
	}

	quad := newSurface(SurfaceQuad, 800, 600)
	wantV := []Vec2{{X: 0, Y: 0}, {X: 0, Y: 600}, {X: 800, Y: 600}, {X: 800, Y: 0}}
	for i, want := range wantV {
		if got, _ := quad.Vertex(i); got != want {
			t.Errorf("quad vertex %d = %v, want %v", i, got, want)
		}
		if got, _ := quad.TexCoord(i); got != defaultQuadTexCoords[i] {
			t.Errorf("quad texcoord %d = %v, want %v", i, got, defaultQuadTexCoords[i])
		}
	}
	if quad.HasSource() {
		t.Error("new surface should have no source")
	}
}

func TestSurfaceIndexBounds(t *testing.T) {
	tests := []struct {
		kind  SurfaceType
		index int
		ok    bool
	}{
		{SurfaceTriangle, 0, true},
		{SurfaceTriangle, 2, true},
		{SurfaceTriangle, 3, false},
		{SurfaceTriangle, -1, false},
		{SurfaceQuad, 3, true},
		{SurfaceQuad, 4, false},
	}
	for _, tt := range tests {
		s := newSurface(tt.kind, 100, 100)
		before := s.Vertices()
		beforeTex := s.TexCoords()

		errV := s.SetVertex(tt.index, Vec2{X: 7, Y: 7})
		errT := s.SetTexCoord(tt.index, Vec2{X: 0.25, Y: 0.25})
		_, errGV := s.Vertex(tt.index)
		_, errGT := s.TexCoord(tt.index)

		for _, err := range []error{errV, errT, errGV, errGT} {
			if tt.ok && err != nil {
				t.Errorf("%v index %d: unexpected error %v", tt.kind, tt.index, err)
			}
			if !tt.ok && !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("%v index %d: error = %v, want ErrIndexOutOfRange", tt.kind, tt.index, err)
			}
		}
		if !tt.ok {
			after := s.Vertices()
			afterTex := s.TexCoords()
			for i := range before {
				if after[i] != before[i] || afterTex[i] != beforeTex[i] {
					t.Errorf("%v index %d: surface mutated", tt.kind, tt.index)
				}
			}
		}
	}
}

func TestSurfaceCopiesAreIndependent(t *testing.T) {
	s := newSurface(SurfaceQuad, 100, 100)
	v := s.Vertices()
	v[0] = Vec2{X: 99, Y: 99}
	if got, _ := s.Vertex(0); got != (Vec2{}) {
		t.Errorf("Vertices() aliases surface storage: vertex 0 = %v", got)
	}
}

func TestSurfaceMove(t *testing.T) {
	s := newSurface(SurfaceTriangle, 0, 0)
	s.MoveVertices(Vec2{X: 10, Y: -5})
	if got, _ := s.Vertex(0); got != (Vec2{X: 110, Y: -5}) {
		t.Errorf("vertex 0 after move = %v", got)
	}
	s.MoveTexCoords(Vec2{X: 0.1})
	if got, _ := s.TexCoord(1); !vecApprox(got, Vec2{X: 0.1, Y: 1}, epsilon) {
		t.Errorf("texcoord 1 after move = %v", got)
	}
	// The unused fourth slot is untouched.
	if s.vertices[3] != (Vec2{}) {
		t.Errorf("unused slot moved: %v", s.vertices[3])
	}
}

func TestSurfaceHitTest(t *testing.T) {
	s := newSurface(SurfaceQuad, 400, 300)
	if !s.HitTest(Vec2{X: 200, Y: 150}) {
		t.Error("center should hit")
	}
	if s.HitTest(Vec2{X: 500, Y: 150}) {
		t.Error("outside point should miss")
	}
	if got := s.Centroid(); !vecApprox(got, Vec2{X: 200, Y: 150}, epsilon) {
		t.Errorf("Centroid() = %v", got)
	}
	if n := len(s.HitArea().Points); n != 4 {
		t.Errorf("HitArea has %d points", n)
	}
}

func TestSurfaceHitsCentroid(t *testing.T) {
	tests := []struct {
		name string
		kind SurfaceType
		v    []Vec2
		want bool
	}{
		{"triangle", SurfaceTriangle, []Vec2{{}, {X: 100, Y: 5}, {X: 3, Y: 80}}, true},
		{"sliver triangle", SurfaceTriangle, []Vec2{{}, {X: 100, Y: 1}, {X: 50, Y: 2}}, true},
		{"trapezoid", SurfaceQuad, []Vec2{{X: 20}, {Y: 100}, {X: 200, Y: 100}, {X: 180}}, true},
		{"skewed convex", SurfaceQuad, []Vec2{{X: 10, Y: 5}, {X: 0, Y: 90}, {X: 300, Y: 120}, {X: 250, Y: -20}}, true},
		{"clockwise convex", SurfaceQuad, []Vec2{{}, {X: 50}, {X: 60, Y: 40}, {Y: 30}}, true},
		// The vertex average (4.75, 1) of this dart lies in its notch.
		{"concave dart", SurfaceQuad, []Vec2{{}, {X: 10, Y: 1}, {Y: 2}, {X: 9, Y: 1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSurface(tt.kind, 0, 0)
			for i, p := range tt.v {
				if err := s.SetVertex(i, p); err != nil {
					t.Fatal(err)
				}
			}
			if got := s.HitTest(s.Centroid()); got != tt.want {
				t.Errorf("HitTest(%v) = %v, want %v", s.Centroid(), got, tt.want)
			}
		})
	}
}

func TestSurfaceTextureHitArea(t *testing.T) {
	s := newSurface(SurfaceTriangle, 0, 0)
	area := s.TextureHitArea(Vec2{X: 64, Y: 32})
	want := []Vec2{{X: 32, Y: 0}, {X: 0, Y: 32}, {X: 64, Y: 32}}
	for i, p := range area.Points {
		if !vecApprox(p, want[i], epsilon) {
			t.Errorf("point %d = %v, want %v", i, p, want[i])
		}
	}
	if !area.Contains(32, 20) {
		t.Error("texture hit area should contain its interior")
	}
}
