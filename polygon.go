package pimapper

import "math"

// Polygon is a closed polyline: the last point connects back to the first.
// Used for surface hit areas and texture hit areas.
type Polygon struct {
	Points []Vec2
}

// Contains reports whether (x, y) lies inside the polygon using the even-odd
// rule, so concave quads are handled. Polygons with fewer than three points
// contain nothing.
func (p Polygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		pi := p.Points[i]
		pj := p.Points[j]
		if (pi.Y > y) != (pj.Y > y) {
			crossX := pj.X + (y-pj.Y)*(pi.X-pj.X)/(pi.Y-pj.Y)
			if x < crossX {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Bounds returns the axis-aligned bounding box of the polygon.
func (p Polygon) Bounds() Rect {
	if len(p.Points) == 0 {
		return Rect{}
	}
	minX, minY := p.Points[0].X, p.Points[0].Y
	maxX, maxY := minX, minY
	for _, pt := range p.Points[1:] {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// segmentIntersection returns the intersection of segments a1-a2 and b1-b2.
// ok is false when the segments are parallel, collinear, or do not cross
// within both segments.
func segmentIntersection(a1, a2, b1, b2 Vec2) (p Vec2, ok bool) {
	const eps = 1e-12
	d1 := a2.Sub(a1)
	d2 := b2.Sub(b1)
	denom := d1.X*d2.Y - d1.Y*d2.X
	if math.Abs(denom) < eps {
		return Vec2{}, false
	}
	w := b1.Sub(a1)
	t := (w.X*d2.Y - w.Y*d2.X) / denom
	u := (w.X*d1.Y - w.Y*d1.X) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Vec2{}, false
	}
	return a1.Add(d1.Scale(t)), true
}
