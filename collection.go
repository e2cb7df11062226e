package pimapper

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// Viewport size used for default quads when no ViewportFunc is set.
const (
	defaultViewportWidth  = 1280
	defaultViewportHeight = 720
)

// ViewportFunc reports the current viewport size in pixels. Default quads are
// created to cover it.
type ViewportFunc func() (w, h float64)

// SourceRef names media to bind to a surface.
type SourceRef struct {
	Kind SourceType
	Path string
}

// SurfaceOptions are the optional parts of AddSurface. Nil slices take the
// kind's default geometry; non-nil slices must hold exactly as many points as
// the kind has vertices.
type SurfaceOptions struct {
	Source    *SourceRef
	Vertices  []Vec2
	TexCoords []Vec2
}

// SurfaceCollection owns the ordered surfaces and the current selection.
// Binding a source to a surface takes a registry reference; unbinding or
// removing the surface gives it back.
type SurfaceCollection struct {
	registry *MediaRegistry
	viewport ViewportFunc
	logger   *log.Logger

	surfaces []*Surface
	selected *Surface

	stats drawStats
}

// NewSurfaceCollection creates an empty collection resolving media through
// registry. viewport may be nil.
func NewSurfaceCollection(registry *MediaRegistry, viewport ViewportFunc) *SurfaceCollection {
	return &SurfaceCollection{
		registry: registry,
		viewport: viewport,
		logger:   registry.logger,
	}
}

// Registry returns the media registry surfaces resolve through.
func (c *SurfaceCollection) Registry() *MediaRegistry {
	return c.registry
}

func (c *SurfaceCollection) viewportSize() (float64, float64) {
	if c.viewport != nil {
		if w, h := c.viewport(); w > 0 && h > 0 {
			return w, h
		}
	}
	return defaultViewportWidth, defaultViewportHeight
}

// AddSurface appends a new surface of kind. With a Source in opts the media is
// loaded (or shared) through the registry; a load failure adds nothing.
func (c *SurfaceCollection) AddSurface(kind SurfaceType, opts SurfaceOptions) (*Surface, error) {
	if !kind.Valid() {
		return nil, &ValidationError{Field: "surface type", Reason: fmt.Sprintf("unknown %s", kind)}
	}
	n := kind.VertexCount()
	if opts.Vertices != nil && len(opts.Vertices) != n {
		return nil, &ValidationError{
			Field:  "vertices",
			Reason: fmt.Sprintf("%s needs %d, got %d", kind, n, len(opts.Vertices)),
		}
	}
	if opts.TexCoords != nil && len(opts.TexCoords) != n {
		return nil, &ValidationError{
			Field:  "texture coordinates",
			Reason: fmt.Sprintf("%s needs %d, got %d", kind, n, len(opts.TexCoords)),
		}
	}

	w, h := c.viewportSize()
	s := newSurface(kind, w, h)
	if opts.Vertices != nil {
		copy(s.vertices[:], opts.Vertices)
	}
	if opts.TexCoords != nil {
		copy(s.texCoords[:], opts.TexCoords)
	}
	if opts.Source != nil {
		handle, err := c.acquire(opts.Source)
		if err != nil {
			return nil, err
		}
		s.source = handle
	}
	c.surfaces = append(c.surfaces, s)
	return s, nil
}

func (c *SurfaceCollection) acquire(ref *SourceRef) (SourceHandle, error) {
	src, err := c.registry.LoadMedia(ref.Path, ref.Kind)
	if err != nil {
		return SourceHandle{}, err
	}
	return c.registry.Handle(src), nil
}

// release gives back the surface's reference. A handle that no longer
// resolves has nothing to give back.
func (c *SurfaceCollection) release(s *Surface) {
	if s.source.IsZero() {
		return
	}
	if _, ok := c.registry.Resolve(s.source); ok {
		if err := c.registry.UnloadMedia(s.source.path); err != nil {
			c.logger.Printf("release %s: %v", s.source.path, err)
		}
	}
	s.source = SourceHandle{}
}

// SetSource binds the media in ref to s, releasing the previous binding. A
// nil ref unbinds. On a load failure the previous binding is kept.
func (c *SurfaceCollection) SetSource(s *Surface, ref *SourceRef) error {
	if c.IndexOf(s) < 0 {
		return &ValidationError{Field: "surface", Reason: "not in collection"}
	}
	if ref == nil {
		c.release(s)
		return nil
	}
	h, err := c.acquire(ref)
	if err != nil {
		return err
	}
	c.release(s)
	s.source = h
	return nil
}

// Resolve returns the live source bound to s, or nil.
func (c *SurfaceCollection) Resolve(s *Surface) *Source {
	src, ok := c.registry.Resolve(s.source)
	if !ok {
		return nil
	}
	return src
}

// TextureSize returns the pixel size of the media bound to s.
func (c *SurfaceCollection) TextureSize(s *Surface) (Vec2, bool) {
	src := c.Resolve(s)
	if src == nil {
		return Vec2{}, false
	}
	size := src.Size()
	return size, size.X > 0 && size.Y > 0
}

// Len returns the number of surfaces.
func (c *SurfaceCollection) Len() int {
	return len(c.surfaces)
}

// Surface returns surface i in draw order.
func (c *SurfaceCollection) Surface(i int) (*Surface, error) {
	if err := checkIndex("surface", i, len(c.surfaces)); err != nil {
		return nil, err
	}
	return c.surfaces[i], nil
}

// Surfaces returns the surfaces in draw order. The slice is a copy.
func (c *SurfaceCollection) Surfaces() []*Surface {
	out := make([]*Surface, len(c.surfaces))
	copy(out, c.surfaces)
	return out
}

// IndexOf returns the position of s, or -1.
func (c *SurfaceCollection) IndexOf(s *Surface) int {
	if s == nil {
		return -1
	}
	for i, o := range c.surfaces {
		if o == s {
			return i
		}
	}
	return -1
}

// SelectSurface makes surface i the selection and publishes SurfaceSelected.
func (c *SurfaceCollection) SelectSurface(i int) error {
	if err := checkIndex("surface", i, len(c.surfaces)); err != nil {
		return err
	}
	c.selected = c.surfaces[i]
	c.registry.notifier.publishSelected(i, c.selected)
	return nil
}

// Selected returns the selected surface, or nil.
func (c *SurfaceCollection) Selected() *Surface {
	return c.selected
}

// SelectedIndex returns the position of the selection, or -1.
func (c *SurfaceCollection) SelectedIndex() int {
	return c.IndexOf(c.selected)
}

// DeselectSurface clears the selection.
func (c *SurfaceCollection) DeselectSurface() {
	c.selected = nil
}

// RemoveSelectedSurface removes the selected surface and releases its media.
// It reports false when nothing was selected.
func (c *SurfaceCollection) RemoveSelectedSurface() bool {
	i := c.IndexOf(c.selected)
	c.selected = nil
	if i < 0 {
		return false
	}
	c.removeAt(i)
	return true
}

func (c *SurfaceCollection) removeAt(i int) {
	s := c.surfaces[i]
	c.release(s)
	copy(c.surfaces[i:], c.surfaces[i+1:])
	c.surfaces[len(c.surfaces)-1] = nil
	c.surfaces = c.surfaces[:len(c.surfaces)-1]
	if c.selected == s {
		c.selected = nil
	}
}

// Clear removes every surface, releasing their media.
func (c *SurfaceCollection) Clear() {
	for _, s := range c.surfaces {
		c.release(s)
	}
	clear(c.surfaces)
	c.surfaces = c.surfaces[:0]
	c.selected = nil
}

// Draw renders every surface in order. Surfaces whose media does not resolve
// are filled with opts.BlankColor.
func (c *SurfaceCollection) Draw(dst *ebiten.Image, opts DrawOptions) {
	c.stats = drawStats{}
	for _, s := range c.surfaces {
		var tex *ebiten.Image
		if src := c.Resolve(s); src != nil {
			tex = src.Texture()
		}
		s.draw(dst, tex, &opts, &c.stats)
	}
}
