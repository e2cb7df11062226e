package pimapper

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	outlineColor       = Color{R: 1, G: 1, B: 1, A: 0.45}
	selectedColor      = Color{R: 1, G: 0.85, B: 0.2, A: 1}
	textureAreaColor   = Color{R: 0.3, G: 0.8, B: 1, A: 1}
	jointFillColor     = Color{R: 0.1, G: 0.1, B: 0.1, A: 0.8}
	jointStrokeColor   = Color{R: 1, G: 1, B: 1, A: 1}
	jointSelectedColor = Color{R: 1, G: 0.3, B: 0.3, A: 1}
)

// drawOverlay draws the editing aids for the current mode.
func (m *Mapper) drawOverlay(dst *ebiten.Image) {
	sel := m.collection.Selected()
	hl := selectedColor
	hl.A *= m.pulse.Value

	switch m.editor.Mode() {
	case ModeProjectionMapping:
		for _, s := range m.collection.surfaces {
			if s != sel {
				strokePolygon(dst, s.Vertices(), 1, outlineColor.RGBA())
			}
		}
		if sel != nil {
			strokePolygon(dst, sel.Vertices(), 2, hl.RGBA())
		}
		drawJoints(dst, m.editor.Joints(), m.pulse.Value)

	case ModeTextureMapping:
		if sel == nil {
			return
		}
		strokePolygon(dst, sel.Vertices(), 1, outlineColor.RGBA())
		if size, ok := m.collection.TextureSize(sel); ok {
			strokePolygon(dst, sel.TextureHitArea(size).Points, 2, textureAreaColor.RGBA())
		}
		drawJoints(dst, m.editor.Joints(), m.pulse.Value)

	case ModeSourceSelection:
		if sel != nil {
			strokePolygon(dst, sel.Vertices(), 2, hl.RGBA())
		}
	}
}

// strokePolygon draws the closed outline through pts.
func strokePolygon(dst *ebiten.Image, pts []Vec2, width float32, clr color.Color) {
	n := len(pts)
	if n < 2 {
		return
	}
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), width, clr, true)
	}
}

func drawJoints(dst *ebiten.Image, joints []*Joint, pulse float64) {
	for _, j := range joints {
		p := j.Position()
		r := float32(j.Radius)
		vector.DrawFilledCircle(dst, float32(p.X), float32(p.Y), r, jointFillColor.RGBA(), true)
		stroke := jointStrokeColor
		if j.Selected() {
			stroke = jointSelectedColor
			stroke.A *= pulse
		}
		vector.StrokeCircle(dst, float32(p.X), float32(p.Y), r, 2, stroke.RGBA(), true)
	}
}

// infoText returns the lines of the info overlay.
func (m *Mapper) infoText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mode: %s\n", m.editor.Mode())
	fmt.Fprintf(&b, "surfaces: %d", m.collection.Len())
	if i := m.collection.SelectedIndex(); i >= 0 {
		fmt.Fprintf(&b, " (selected %d)", i)
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "sources loaded: %d, images: %d, videos: %d\n",
		m.registry.Len(), len(m.registry.available[SourceImage]), len(m.registry.available[SourceVideo]))
	if m.fps.text != "" {
		b.WriteString(m.fps.text)
		b.WriteByte('\n')
	}
	b.WriteString("1-4 mode  t/q add  del remove  s save  i info  f fullscreen\n")
	return b.String()
}

func (m *Mapper) drawInfo(dst *ebiten.Image) {
	bounds := dst.Bounds()
	ebitenutil.DebugPrintAt(dst, m.infoText(), 8, bounds.Dy()-96)
}
