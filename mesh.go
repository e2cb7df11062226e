package pimapper

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	triangleIndices = []uint16{0, 1, 2}
	// Quad draw order: (0,2,3) then (0,1,2).
	quadIndices = []uint16{0, 2, 3, 0, 1, 2}
)

// surfaceMesh holds the per-surface vertex buffer, reused across frames.
type surfaceMesh struct {
	verts [maxSurfaceVertices]ebiten.Vertex
}

// DrawOptions controls how surfaces are composited.
type DrawOptions struct {
	// Tint multiplies every surface. Zero value means ColorWhite.
	Tint Color
	// BlankColor fills surfaces that have no resolvable source.
	BlankColor Color
}

// drawStats counts what a frame of surface drawing did.
type drawStats struct {
	surfaces    int
	perspective int
	affine      int
	blank       int
}

// --- White pixel singleton ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
// Used by surfaces without media.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// buildVertices fills the mesh buffer from the surface geometry. Texture
// coordinates are expanded to pixels of a texture of size (tw, th). When q is
// non-nil the homogeneous coordinate (u*q, v*q, q) is written to Custom0..2.
func (s *Surface) buildVertices(tw, th float64, tint Color, q *[4]float64) []ebiten.Vertex {
	n := s.Len()
	cr := float32(tint.R * tint.A)
	cg := float32(tint.G * tint.A)
	cb := float32(tint.B * tint.A)
	ca := float32(tint.A)
	for i := 0; i < n; i++ {
		p := s.vertices[i]
		t := s.texCoords[i]
		v := &s.mesh.verts[i]
		*v = ebiten.Vertex{
			DstX:   float32(p.X),
			DstY:   float32(p.Y),
			SrcX:   float32(t.X * tw),
			SrcY:   float32(t.Y * th),
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		}
		if q != nil {
			h := ProjectiveTexCoord(t, q[i])
			v.Custom0 = float32(h[0])
			v.Custom1 = float32(h[1])
			v.Custom2 = float32(h[2])
		}
	}
	return s.mesh.verts[:n]
}

// blankVertices fills the mesh buffer for an untextured surface, mapping every
// vertex to the center of the white pixel.
func (s *Surface) blankVertices(c Color) []ebiten.Vertex {
	verts := s.buildVertices(0, 0, c, nil)
	for i := range verts {
		verts[i].SrcX = 0.5
		verts[i].SrcY = 0.5
	}
	return verts
}

func (s *Surface) indices() []uint16 {
	if s.kind == SurfaceQuad {
		return quadIndices
	}
	return triangleIndices
}

// draw renders the surface onto dst. tex may be nil for an unbound or
// unresolvable source. Quads use the perspective warp shader and fall back to
// the affine path when the geometry is degenerate.
func (s *Surface) draw(dst, tex *ebiten.Image, opts *DrawOptions, stats *drawStats) {
	stats.surfaces++
	tint := opts.Tint
	if tint == (Color{}) {
		tint = ColorWhite
	}

	if tex == nil {
		blank := opts.BlankColor
		blank.A *= tint.A
		var triOp ebiten.DrawTrianglesOptions
		dst.DrawTriangles(s.blankVertices(blank), s.indices(), ensureWhitePixel(), &triOp)
		stats.blank++
		return
	}

	b := tex.Bounds()
	tw, th := float64(b.Dx()), float64(b.Dy())

	if s.kind == SurfaceQuad {
		q, err := PerspectiveWeights(s.vertices)
		if err == nil {
			verts := s.buildVertices(tw, th, tint, &q)
			var shOp ebiten.DrawTrianglesShaderOptions
			shOp.Images[0] = tex
			dst.DrawTrianglesShader(verts, quadIndices, ensureWarpShader(), &shOp)
			stats.perspective++
			return
		}
	}

	var triOp ebiten.DrawTrianglesOptions
	triOp.Filter = ebiten.FilterLinear
	dst.DrawTriangles(s.buildVertices(tw, th, tint, nil), s.indices(), tex, &triOp)
	stats.affine++
}

// drawTexture draws the full texture of the surface's media at the origin.
// Used by texture mapping mode as the backdrop for texture joints.
func drawTexture(dst, tex *ebiten.Image) {
	if tex == nil {
		return
	}
	var op ebiten.DrawImageOptions
	dst.DrawImage(tex, &op)
}
