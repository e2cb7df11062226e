package pimapper

import (
	"fmt"
	"image/color"
	"math"
)

// Vec2 is a 2D vector used for vertex positions, texture coordinates, pointer
// positions and drag deltas.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Mul returns the component-wise product of v and o.
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{v.X * o.X, v.Y * o.Y} }

// Div returns the component-wise quotient of v and o. Zero components of o
// yield zero instead of Inf.
func (v Vec2) Div(o Vec2) Vec2 {
	var r Vec2
	if o.X != 0 {
		r.X = v.X / o.X
	}
	if o.Y != 0 {
		r.Y = v.Y / o.Y
	}
	return r
}

// Distance returns the Euclidean distance between v and o.
func (v Vec2) Distance(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// RGBA converts c to a premultiplied color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// SurfaceType distinguishes the two surface variants.
type SurfaceType uint8

const (
	SurfaceTriangle SurfaceType = iota // three vertices, affine mapping
	SurfaceQuad                        // four vertices, perspective mapping
)

// VertexCount returns the fixed number of vertices (and texture coordinates)
// of the surface kind, or 0 for an unknown kind.
func (t SurfaceType) VertexCount() int {
	switch t {
	case SurfaceTriangle:
		return 3
	case SurfaceQuad:
		return 4
	default:
		return 0
	}
}

// Valid reports whether t is a known surface kind.
func (t SurfaceType) Valid() bool {
	return t.VertexCount() != 0
}

func (t SurfaceType) String() string {
	switch t {
	case SurfaceTriangle:
		return "triangle"
	case SurfaceQuad:
		return "quad"
	default:
		return fmt.Sprintf("SurfaceType(%d)", uint8(t))
	}
}

// surfaceTypeForCount maps a persisted vertex count back to a surface kind.
func surfaceTypeForCount(n int) (SurfaceType, bool) {
	switch n {
	case 3:
		return SurfaceTriangle, true
	case 4:
		return SurfaceQuad, true
	default:
		return 0, false
	}
}

// SourceType distinguishes the media variants a surface can project.
type SourceType uint8

const (
	SourceNone  SourceType = iota // no media bound
	SourceImage                   // still image, decoded once
	SourceVideo                   // frame sequence advanced every Update
)

// Valid reports whether t names loadable media (image or video).
func (t SourceType) Valid() bool {
	return t == SourceImage || t == SourceVideo
}

// String returns the persisted name of the source type.
func (t SourceType) String() string {
	switch t {
	case SourceNone:
		return "none"
	case SourceImage:
		return "image"
	case SourceVideo:
		return "video"
	default:
		return fmt.Sprintf("SourceType(%d)", uint8(t))
	}
}

// ParseSourceType is the inverse of SourceType.String. Unknown names return
// SourceNone and false.
func ParseSourceType(name string) (SourceType, bool) {
	switch name {
	case "image":
		return SourceImage, true
	case "video":
		return SourceVideo, true
	case "none", "":
		return SourceNone, true
	default:
		return SourceNone, false
	}
}

// Mode is the editor's current interaction mode.
type Mode uint8

const (
	ModeNone              Mode = iota // presentation: surfaces only, cursor hidden
	ModeTextureMapping                // edit texture coordinates of the selection
	ModeProjectionMapping             // select surfaces and edit their vertices
	ModeSourceSelection               // pick the media bound to the selection
)

// Valid reports whether m is one of the four editor modes.
func (m Mode) Valid() bool {
	return m <= ModeSourceSelection
}

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeTextureMapping:
		return "texture"
	case ModeProjectionMapping:
		return "projection"
	case ModeSourceSelection:
		return "source"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "none":
		return ModeNone, nil
	case "texture":
		return ModeTextureMapping, nil
	case "projection":
		return ModeProjectionMapping, nil
	case "source":
		return ModeSourceSelection, nil
	default:
		return 0, &ValidationError{Field: "mode", Reason: fmt.Sprintf("unknown mode %q", name)}
	}
}
