package pimapper

// maxSurfaceVertices is the vertex count of the largest surface kind.
const maxSurfaceVertices = 4

// Surface is an editable triangle or quad. Vertices are in screen space,
// texture coordinates are normalized to [0, 1]. The kind is fixed at
// construction and determines how many of the array slots are in use.
//
// A surface never owns its media: it holds a weak SourceHandle that must be
// resolved through the MediaRegistry before each use.
type Surface struct {
	kind      SurfaceType
	vertices  [maxSurfaceVertices]Vec2
	texCoords [maxSurfaceVertices]Vec2
	source    SourceHandle

	// cached per-frame mesh buffers
	mesh surfaceMesh
}

// defaultTriangle is the fixed small triangle used when no geometry is given.
var (
	defaultTriangleVertices  = [3]Vec2{{X: 100, Y: 0}, {X: 0, Y: 200}, {X: 200, Y: 200}}
	defaultTriangleTexCoords = [3]Vec2{{X: 0.5, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	defaultQuadTexCoords     = [4]Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
)

// newSurface builds a surface with default geometry. Quads cover the viewport
// (w x h); triangles use a fixed small triangle.
func newSurface(kind SurfaceType, w, h float64) *Surface {
	s := &Surface{kind: kind}
	switch kind {
	case SurfaceTriangle:
		copy(s.vertices[:], defaultTriangleVertices[:])
		copy(s.texCoords[:], defaultTriangleTexCoords[:])
	case SurfaceQuad:
		s.vertices = [4]Vec2{{X: 0, Y: 0}, {X: 0, Y: h}, {X: w, Y: h}, {X: w, Y: 0}}
		s.texCoords = defaultQuadTexCoords
	}
	return s
}

// Type returns the surface kind.
func (s *Surface) Type() SurfaceType {
	return s.kind
}

// Len returns the number of vertices (3 or 4).
func (s *Surface) Len() int {
	return s.kind.VertexCount()
}

// Vertex returns vertex i.
func (s *Surface) Vertex(i int) (Vec2, error) {
	if err := checkIndex("vertex", i, s.Len()); err != nil {
		return Vec2{}, err
	}
	return s.vertices[i], nil
}

// SetVertex moves vertex i to p. An invalid index leaves the surface unchanged.
func (s *Surface) SetVertex(i int, p Vec2) error {
	if err := checkIndex("vertex", i, s.Len()); err != nil {
		return err
	}
	s.vertices[i] = p
	return nil
}

// TexCoord returns texture coordinate i.
func (s *Surface) TexCoord(i int) (Vec2, error) {
	if err := checkIndex("texture coordinate", i, s.Len()); err != nil {
		return Vec2{}, err
	}
	return s.texCoords[i], nil
}

// SetTexCoord sets texture coordinate i. An invalid index leaves the surface
// unchanged.
func (s *Surface) SetTexCoord(i int, t Vec2) error {
	if err := checkIndex("texture coordinate", i, s.Len()); err != nil {
		return err
	}
	s.texCoords[i] = t
	return nil
}

// Vertices returns a copy of the active vertices.
func (s *Surface) Vertices() []Vec2 {
	out := make([]Vec2, s.Len())
	copy(out, s.vertices[:])
	return out
}

// TexCoords returns a copy of the active texture coordinates.
func (s *Surface) TexCoords() []Vec2 {
	out := make([]Vec2, s.Len())
	copy(out, s.texCoords[:])
	return out
}

// MoveVertices translates every vertex by delta.
func (s *Surface) MoveVertices(delta Vec2) {
	for i := 0; i < s.Len(); i++ {
		s.vertices[i] = s.vertices[i].Add(delta)
	}
}

// MoveTexCoords translates every texture coordinate by delta (normalized units).
func (s *Surface) MoveTexCoords(delta Vec2) {
	for i := 0; i < s.Len(); i++ {
		s.texCoords[i] = s.texCoords[i].Add(delta)
	}
}

// Centroid returns the average of the vertices. It lies inside every
// triangle and every convex quad, so HitTest(Centroid()) holds for them. A
// concave quad's average can fall in its notch.
func (s *Surface) Centroid() Vec2 {
	var c Vec2
	n := s.Len()
	if n == 0 {
		return c
	}
	for i := 0; i < n; i++ {
		c = c.Add(s.vertices[i])
	}
	return c.Scale(1 / float64(n))
}

// HitTest reports whether p lies inside the surface outline.
func (s *Surface) HitTest(p Vec2) bool {
	return s.HitArea().Contains(p.X, p.Y)
}

// HitArea returns the closed outline through the vertices.
func (s *Surface) HitArea() Polygon {
	return Polygon{Points: s.Vertices()}
}

// TextureHitArea returns the closed outline through the texture coordinates
// scaled to a texture of the given pixel size.
func (s *Surface) TextureHitArea(textureSize Vec2) Polygon {
	pts := s.TexCoords()
	for i := range pts {
		pts[i] = pts[i].Mul(textureSize)
	}
	return Polygon{Points: pts}
}

// Source returns the surface's weak media handle. The zero handle means no
// media is bound.
func (s *Surface) Source() SourceHandle {
	return s.source
}

// HasSource reports whether a media handle is bound.
func (s *Surface) HasSource() bool {
	return !s.source.IsZero()
}
