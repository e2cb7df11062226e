package pimapper

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/beevik/etree"
)

// LayoutSurface is the persisted form of one surface.
type LayoutSurface struct {
	Vertices   []Vec2
	TexCoords  []Vec2
	SourceType SourceType
	// SourceName is the media file name inside DefaultMediaDir(SourceType).
	// Empty means unbound.
	SourceName string
}

// Type returns the surface kind implied by the vertex count.
func (ls LayoutSurface) Type() (SurfaceType, bool) {
	return surfaceTypeForCount(len(ls.Vertices))
}

// Layout is the persisted surface arrangement, in draw order.
type Layout struct {
	Surfaces []LayoutSurface
}

// Element names of the layout document.
const (
	tagSurfaces   = "surfaces"
	tagSurface    = "surface"
	tagVertices   = "vertices"
	tagVertex     = "vertex"
	tagTexCoords  = "texCoords"
	tagTexCoord   = "texCoord"
	tagSource     = "source"
	tagSourceType = "source-type"
	tagSourceName = "source-name"
	tagX          = "x"
	tagY          = "y"

	noSourceName = "none"
)

// ReadLayout parses a layout document. Any malformed surface fails the whole
// read, so a partially applied layout never results.
func ReadLayout(r io.Reader) (Layout, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return Layout{}, fmt.Errorf("pimapper: read layout: %w", err)
	}
	return layoutFromDocument(doc)
}

// ReadLayoutFile parses the layout document at path.
func ReadLayoutFile(path string) (Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return Layout{}, fmt.Errorf("pimapper: read layout: %w", err)
	}
	defer f.Close()
	return ReadLayout(f)
}

func layoutFromDocument(doc *etree.Document) (Layout, error) {
	root := doc.SelectElement(tagSurfaces)
	if root == nil {
		return Layout{}, &ValidationError{Field: "layout", Reason: "missing <surfaces> root"}
	}
	var l Layout
	for i, el := range root.SelectElements(tagSurface) {
		ls, err := parseLayoutSurface(el)
		if err != nil {
			return Layout{}, fmt.Errorf("pimapper: layout surface %d: %w", i, err)
		}
		l.Surfaces = append(l.Surfaces, ls)
	}
	return l, nil
}

func parseLayoutSurface(el *etree.Element) (LayoutSurface, error) {
	var ls LayoutSurface
	var err error
	if ls.Vertices, err = parsePoints(el, tagVertices, tagVertex); err != nil {
		return ls, err
	}
	if _, ok := ls.Type(); !ok {
		return ls, &ValidationError{
			Field:  "vertices",
			Reason: fmt.Sprintf("%d vertices, want 3 or 4", len(ls.Vertices)),
		}
	}
	if ls.TexCoords, err = parsePoints(el, tagTexCoords, tagTexCoord); err != nil {
		return ls, err
	}
	if len(ls.TexCoords) != len(ls.Vertices) {
		return ls, &ValidationError{
			Field:  "texture coordinates",
			Reason: fmt.Sprintf("%d texture coordinates for %d vertices", len(ls.TexCoords), len(ls.Vertices)),
		}
	}

	src := el.SelectElement(tagSource)
	if src == nil {
		return ls, nil
	}
	var typeName, name string
	if t := src.SelectElement(tagSourceType); t != nil {
		typeName = t.Text()
	}
	if n := src.SelectElement(tagSourceName); n != nil {
		name = n.Text()
	}
	kind, ok := ParseSourceType(typeName)
	if !ok {
		return ls, &ValidationError{Field: "source type", Reason: fmt.Sprintf("unknown %q", typeName)}
	}
	if kind == SourceNone || name == "" || name == noSourceName {
		return ls, nil
	}
	ls.SourceType = kind
	ls.SourceName = name
	return ls, nil
}

func parsePoints(el *etree.Element, group, item string) ([]Vec2, error) {
	g := el.SelectElement(group)
	if g == nil {
		return nil, &ValidationError{Field: group, Reason: "missing"}
	}
	var out []Vec2
	for _, p := range g.SelectElements(item) {
		x, err := parseCoord(p, tagX)
		if err != nil {
			return nil, err
		}
		y, err := parseCoord(p, tagY)
		if err != nil {
			return nil, err
		}
		out = append(out, Vec2{X: x, Y: y})
	}
	return out, nil
}

func parseCoord(el *etree.Element, tag string) (float64, error) {
	c := el.SelectElement(tag)
	if c == nil {
		return 0, &ValidationError{Field: el.Tag, Reason: "missing <" + tag + ">"}
	}
	v, err := strconv.ParseFloat(c.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("%s.%s: %w", el.Tag, tag, err)
	}
	return v, nil
}

// WriteLayout writes l as an indented layout document.
func WriteLayout(w io.Writer, l Layout) error {
	doc := layoutDocument(l)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("pimapper: write layout: %w", err)
	}
	return nil
}

// WriteLayoutFile writes l to path, replacing any existing file.
func WriteLayoutFile(path string, l Layout) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("pimapper: write layout: %w", err)
		}
	}
	if err := layoutDocument(l).WriteToFile(path); err != nil {
		return fmt.Errorf("pimapper: write layout: %w", err)
	}
	return nil
}

func layoutDocument(l Layout) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(tagSurfaces)
	for _, ls := range l.Surfaces {
		el := root.CreateElement(tagSurface)
		writePoints(el.CreateElement(tagVertices), tagVertex, ls.Vertices)
		writePoints(el.CreateElement(tagTexCoords), tagTexCoord, ls.TexCoords)
		src := el.CreateElement(tagSource)
		kind, name := ls.SourceType, ls.SourceName
		if !kind.Valid() || name == "" {
			kind, name = SourceNone, noSourceName
		}
		src.CreateElement(tagSourceType).SetText(kind.String())
		src.CreateElement(tagSourceName).SetText(name)
	}
	doc.Indent(2)
	return doc
}

func writePoints(parent *etree.Element, tag string, pts []Vec2) {
	for _, p := range pts {
		el := parent.CreateElement(tag)
		el.CreateElement(tagX).SetText(formatCoord(p.X))
		el.CreateElement(tagY).SetText(formatCoord(p.Y))
	}
}

// formatCoord uses the shortest representation that parses back to the same
// float64.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Layout returns the current surfaces in persisted form. Surfaces whose media
// no longer resolves are saved unbound.
func (c *SurfaceCollection) Layout() Layout {
	l := Layout{Surfaces: make([]LayoutSurface, 0, len(c.surfaces))}
	for _, s := range c.surfaces {
		ls := LayoutSurface{Vertices: s.Vertices(), TexCoords: s.TexCoords()}
		if src := c.Resolve(s); src != nil {
			ls.SourceType = src.Kind()
			ls.SourceName = src.Name()
		}
		l.Surfaces = append(l.Surfaces, ls)
	}
	return l
}

// SaveLayout writes the current surfaces to path.
func (c *SurfaceCollection) SaveLayout(path string) error {
	if err := WriteLayoutFile(path, c.Layout()); err != nil {
		return err
	}
	c.logger.Printf("saved %d surfaces to %s", len(c.surfaces), path)
	return nil
}

// LoadLayout replaces the collection with the layout stored at path. On a
// missing or malformed file the collection is left empty and the error is
// returned.
func (c *SurfaceCollection) LoadLayout(path string) error {
	c.Clear()
	l, err := ReadLayoutFile(path)
	if err != nil {
		return err
	}
	return c.ApplyLayout(l)
}

// ApplyLayout appends the surfaces in l. Media is looked up by name in the
// registry's media directory for its kind; media that fails to load leaves
// the surface unbound.
func (c *SurfaceCollection) ApplyLayout(l Layout) error {
	var errs []error
	for i, ls := range l.Surfaces {
		kind, ok := ls.Type()
		if !ok {
			errs = append(errs, &ValidationError{
				Field:  "vertices",
				Reason: fmt.Sprintf("surface %d has %d vertices", i, len(ls.Vertices)),
			})
			continue
		}
		s, err := c.AddSurface(kind, SurfaceOptions{Vertices: ls.Vertices, TexCoords: ls.TexCoords})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ls.SourceName == "" || !ls.SourceType.Valid() {
			continue
		}
		ref := &SourceRef{
			Kind: ls.SourceType,
			Path: filepath.Join(c.registry.MediaDir(ls.SourceType), ls.SourceName),
		}
		if err := c.SetSource(s, ref); err != nil {
			c.logger.Printf("surface %d: %v", i, err)
		}
	}
	return errors.Join(errs...)
}
