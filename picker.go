package pimapper

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// PickerItem is one media file offered by the SourcePicker.
type PickerItem struct {
	Kind SourceType
	Path string
	Name string
}

type pickerRow struct {
	header string
	item   PickerItem
}

// SourcePicker lists the media available in the registry's media directories
// and binds the clicked entry to the selected surface. Clicking the entry
// already bound unbinds it.
type SourcePicker struct {
	collection *SurfaceCollection
	enabled    bool

	Origin    Vec2
	RowHeight float64
	Width     float64

	rows []pickerRow
}

// NewSourcePicker creates a disabled picker for c.
func NewSourcePicker(c *SurfaceCollection) *SourcePicker {
	return &SourcePicker{
		collection: c,
		Origin:     Vec2{X: 20, Y: 40},
		RowHeight:  20,
		Width:      260,
	}
}

// Enable shows the picker and makes it accept clicks.
func (p *SourcePicker) Enable() { p.enabled = true }

// Disable hides the picker.
func (p *SourcePicker) Disable() { p.enabled = false }

// Enabled reports whether the picker is shown.
func (p *SourcePicker) Enabled() bool { return p.enabled }

// Items returns the selectable media: images first, then videos, each sorted
// by path.
func (p *SourcePicker) Items() []PickerItem {
	var out []PickerItem
	for _, r := range p.layoutRows() {
		if r.header == "" {
			out = append(out, r.item)
		}
	}
	return out
}

func (p *SourcePicker) layoutRows() []pickerRow {
	p.rows = p.rows[:0]
	reg := p.collection.registry
	for _, kind := range []SourceType{SourceImage, SourceVideo} {
		paths := reg.available[kind]
		if len(paths) == 0 {
			continue
		}
		header := "Images"
		if kind == SourceVideo {
			header = "Videos"
		}
		p.rows = append(p.rows, pickerRow{header: header})
		for _, path := range paths {
			p.rows = append(p.rows, pickerRow{item: PickerItem{Kind: kind, Path: path, Name: nameFromPath(path)}})
		}
	}
	return p.rows
}

func (p *SourcePicker) rowRect(i int) Rect {
	return Rect{
		X:      p.Origin.X,
		Y:      p.Origin.Y + float64(i)*p.RowHeight,
		Width:  p.Width,
		Height: p.RowHeight,
	}
}

// ItemAt returns the item under pt.
func (p *SourcePicker) ItemAt(pt Vec2) (PickerItem, bool) {
	for i, r := range p.layoutRows() {
		if r.header == "" && p.rowRect(i).Contains(pt.X, pt.Y) {
			return r.item, true
		}
	}
	return PickerItem{}, false
}

// PointerPressed binds the item under pt to the selected surface. It reports
// whether the binding changed.
func (p *SourcePicker) PointerPressed(pt Vec2) bool {
	if !p.enabled {
		return false
	}
	item, ok := p.ItemAt(pt)
	if !ok {
		return false
	}
	sel := p.collection.Selected()
	if sel == nil {
		return false
	}
	var ref *SourceRef
	if p.boundPath(sel) != item.Path {
		ref = &SourceRef{Kind: item.Kind, Path: item.Path}
	}
	if err := p.collection.SetSource(sel, ref); err != nil {
		p.collection.logger.Printf("bind %s: %v", item.Name, err)
		return false
	}
	return true
}

func (p *SourcePicker) boundPath(s *Surface) string {
	if src := p.collection.Resolve(s); src != nil {
		return src.Path()
	}
	return ""
}

var (
	pickerBackground = color.RGBA{R: 0, G: 0, B: 0, A: 180}
	pickerBound      = color.RGBA{R: 40, G: 120, B: 200, A: 220}
)

// Draw renders the list onto dst when enabled.
func (p *SourcePicker) Draw(dst *ebiten.Image) {
	if !p.enabled {
		return
	}
	rows := p.layoutRows()
	if len(rows) == 0 {
		ebitenutil.DebugPrintAt(dst, "no media in "+DefaultMediaDir(SourceImage)+" or "+DefaultMediaDir(SourceVideo),
			int(p.Origin.X), int(p.Origin.Y))
		return
	}
	var bound string
	if sel := p.collection.Selected(); sel != nil {
		bound = p.boundPath(sel)
	}
	total := p.rowRect(len(rows))
	vector.DrawFilledRect(dst, float32(p.Origin.X), float32(p.Origin.Y),
		float32(p.Width), float32(total.Y-p.Origin.Y), pickerBackground, false)
	for i, r := range rows {
		rr := p.rowRect(i)
		if r.header != "" {
			ebitenutil.DebugPrintAt(dst, r.header, int(rr.X)+4, int(rr.Y)+2)
			continue
		}
		if r.item.Path == bound {
			vector.DrawFilledRect(dst, float32(rr.X), float32(rr.Y), float32(rr.Width), float32(rr.Height), pickerBound, false)
		}
		ebitenutil.DebugPrintAt(dst, "  "+r.item.Name, int(rr.X)+4, int(rr.Y)+2)
	}
}
