package pimapper

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// PerspectiveWeights computes the homogeneous q weight of each quad vertex.
//
// The diagonals 0-2 and 1-3 are intersected; with d_i the distance from the
// intersection to vertex i, q_i = (d_i + d_opp) / d_opp where opp = (i+2)%4.
// Submitting (u*q, v*q, q) per vertex and dividing per fragment reproduces a
// projective mapping across both triangles of the quad.
//
// ErrDegenerateGeometry is returned when the diagonals do not intersect
// (parallel, collinear, or a concave quad) or a vertex sits on the
// intersection.
func PerspectiveWeights(v [4]Vec2) ([4]float64, error) {
	var q [4]float64
	center, ok := segmentIntersection(v[0], v[2], v[1], v[3])
	if !ok {
		return q, ErrDegenerateGeometry
	}
	var d [4]float64
	for i := range v {
		d[i] = center.Distance(v[i])
		if d[i] == 0 {
			return q, ErrDegenerateGeometry
		}
	}
	for i := range q {
		opp := (i + 2) % 4
		q[i] = (d[i] + d[opp]) / d[opp]
	}
	return q, nil
}

// ProjectiveTexCoord returns the homogeneous texture coordinate submitted for
// a vertex with texture coordinate t and weight q.
func ProjectiveTexCoord(t Vec2, q float64) [3]float64 {
	return [3]float64{t.X * q, t.Y * q, q}
}

// ResolveProjective performs the per-fragment divide of an interpolated
// homogeneous texture coordinate. This is what the warp shader computes.
func ResolveProjective(h [3]float64) Vec2 {
	if h[2] == 0 {
		return Vec2{}
	}
	return Vec2{X: h[0] / h[2], Y: h[1] / h[2]}
}

// warpShaderSrc samples the source image at custom.xy / custom.z, where
// custom carries the linearly interpolated (u*q, v*q, q) of the vertices.
// Sampling is clamped to the texture edge.
const warpShaderSrc = `//kage:unit pixels
package main

func Fragment(dst vec4, src vec2, color vec4, custom vec4) vec4 {
	if custom.z <= 0 {
		return vec4(0)
	}
	uv := custom.xy / custom.z
	origin := imageSrc0Origin()
	size := imageSrc0Size()
	p := clamp(origin+uv*size, origin, origin+size-vec2(1))
	return imageSrc0UnsafeAt(p) * color
}
`

// Lazy shader compilation. The render loop is single-threaded.
var warpShader *ebiten.Shader

func ensureWarpShader() *ebiten.Shader {
	if warpShader == nil {
		s, err := ebiten.NewShader([]byte(warpShaderSrc))
		if err != nil {
			panic("pimapper: failed to compile warp shader: " + err.Error())
		}
		warpShader = s
	}
	return warpShader
}
