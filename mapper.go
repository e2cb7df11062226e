package pimapper

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"
)

// Mapper owns the media registry, the surface collection and the editor, and
// runs them as an ebiten.Game.
type Mapper struct {
	cfg    Config
	logger *log.Logger

	notifier   *Notifier
	registry   *MediaRegistry
	collection *SurfaceCollection
	picker     *SourcePicker
	editor     *Editor

	pulse    *Pulse
	fps      fpsCounter
	input    pointerInput
	handles  []CallbackHandle
	showInfo bool

	width, height int
	cursorVisible bool
	cursorSet     bool

	testRunner      *TestRunner
	screenshotQueue []string

	frame int
	debug debugStats

	closed bool
}

var _ ebiten.Game = (*Mapper)(nil)

// New builds a Mapper, scans the media directories and loads the layout file
// if one exists. A layout that cannot be read is logged and the mapper starts
// with no surfaces.
func New(cfg Config) (*Mapper, error) {
	cfg = cfg.withDefaults()
	if !cfg.InitialMode.Valid() {
		return nil, &ValidationError{Field: "mode", Reason: "unknown " + cfg.InitialMode.String()}
	}

	m := &Mapper{
		cfg:      cfg,
		logger:   cfg.Logger,
		width:    cfg.Width,
		height:   cfg.Height,
		showInfo: cfg.ShowInfo,
	}
	m.notifier = NewNotifier(cfg.World)
	m.registry = NewMediaRegistry(RegistryConfig{
		DataRoot: cfg.DataRoot,
		Decoders: cfg.Decoders,
		Notifier: m.notifier,
		Logger:   cfg.Logger,
	})
	m.collection = NewSurfaceCollection(m.registry, m.viewport)
	m.picker = NewSourcePicker(m.collection)
	m.editor = NewEditor(m.collection, m.picker)
	m.pulse = NewPulse(0.35, 1, cfg.PulseDuration, ease.InOutSine)

	m.handles = append(m.handles,
		m.notifier.OnSurfaceSelected(func(SurfaceEvent) { m.pulse.Reset() }),
		m.notifier.OnSourceAdded(func(e MediaEvent) { m.logger.Printf("found %s %s", e.Kind, nameFromPath(e.Path)) }),
		m.notifier.OnSourceRemoved(func(e MediaEvent) { m.logger.Printf("lost %s %s", e.Kind, nameFromPath(e.Path)) }),
	)

	if err := m.registry.Scan(); err != nil {
		m.logger.Printf("%v", err)
	}
	if cfg.Watch {
		if err := m.registry.Watch(); err != nil {
			m.logger.Printf("%v", err)
		}
	}

	if err := m.collection.LoadLayout(cfg.layoutPath()); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Printf("no layout at %s", cfg.layoutPath())
		} else {
			m.logger.Printf("%v", err)
			m.collection.Clear()
		}
	}

	if err := m.editor.SetMode(cfg.InitialMode); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mapper) viewport() (float64, float64) {
	return float64(m.width), float64(m.height)
}

// Registry returns the media registry.
func (m *Mapper) Registry() *MediaRegistry { return m.registry }

// Collection returns the surface collection.
func (m *Mapper) Collection() *SurfaceCollection { return m.collection }

// Editor returns the editor state machine.
func (m *Mapper) Editor() *Editor { return m.editor }

// Picker returns the source picker.
func (m *Mapper) Picker() *SourcePicker { return m.picker }

// Notifier returns the notifier media and selection events are published on.
func (m *Mapper) Notifier() *Notifier { return m.notifier }

// LayoutPath returns the absolute path of the layout file.
func (m *Mapper) LayoutPath() string { return m.cfg.layoutPath() }

// SetMode switches the editor mode.
func (m *Mapper) SetMode(mode Mode) error {
	return m.editor.SetMode(mode)
}

// AddSurface adds a surface and selects it.
func (m *Mapper) AddSurface(kind SurfaceType, opts SurfaceOptions) (*Surface, error) {
	s, err := m.collection.AddSurface(kind, opts)
	if err != nil {
		return nil, err
	}
	if err := m.editor.SelectSurface(m.collection.Len() - 1); err != nil {
		return nil, err
	}
	return s, nil
}

// SaveLayout writes the surfaces to the layout file.
func (m *Mapper) SaveLayout() error {
	return m.collection.SaveLayout(m.cfg.layoutPath())
}

// LoadLayout replaces the surfaces with the layout file's.
func (m *Mapper) LoadLayout() error {
	err := m.collection.LoadLayout(m.cfg.layoutPath())
	m.editor.Sync()
	return err
}

// SetTestRunner attaches a scripted input runner. Its step runs at the start
// of every Update.
func (m *Mapper) SetTestRunner(r *TestRunner) {
	m.testRunner = r
}

// ToggleInfo shows or hides the info overlay.
func (m *Mapper) ToggleInfo() {
	m.showInfo = !m.showInfo
}

// Update implements ebiten.Game.
func (m *Mapper) Update() error {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	return m.tick(time.Second/time.Duration(tps), true)
}

// tick advances one frame. readDevices false skips mouse, touch, keyboard
// and cursor handling so scripted runs are deterministic.
func (m *Mapper) tick(dt time.Duration, readDevices bool) error {
	start := time.Now()
	m.frame++

	if m.testRunner != nil {
		m.testRunner.step(m)
	}
	m.editor.Sync()
	m.input.process(m.editor, readDevices)
	if readDevices {
		m.handleKeys()
	}

	m.registry.Update(dt)
	m.notifier.ProcessEvents()
	m.editor.Sync()

	m.pulse.Update(float32(dt.Seconds()))
	m.fps.update(dt)

	if readDevices {
		m.applyCursor()
	}
	m.debug.updateTime = time.Since(start)
	return nil
}

func (m *Mapper) applyCursor() {
	visible := m.editor.CursorVisible()
	if m.cursorSet && visible == m.cursorVisible {
		return
	}
	if visible {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	}
	m.cursorVisible = visible
	m.cursorSet = true
}

// boundKeys are polled every frame.
var boundKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4,
	ebiten.KeyT, ebiten.KeyQ,
	ebiten.KeyDelete, ebiten.KeyBackspace,
	ebiten.KeyS, ebiten.KeyI, ebiten.KeyF,
	ebiten.KeyArrowLeft, ebiten.KeyArrowRight, ebiten.KeyArrowUp, ebiten.KeyArrowDown,
}

func (m *Mapper) handleKeys() {
	mods := readModifiers()
	for _, k := range boundKeys {
		if inpututil.IsKeyJustPressed(k) || (isArrowKey(k) && repeating(k)) {
			m.handleKey(k, mods)
		}
	}
}

func isArrowKey(k ebiten.Key) bool {
	switch k {
	case ebiten.KeyArrowLeft, ebiten.KeyArrowRight, ebiten.KeyArrowUp, ebiten.KeyArrowDown:
		return true
	}
	return false
}

// repeating reports key repeat for a held key: after 30 frames, every 3rd.
func repeating(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	return d > 30 && d%3 == 0
}

// handleKey applies a keyboard shortcut.
func (m *Mapper) handleKey(k ebiten.Key, mods KeyModifiers) {
	step := 1.0
	if mods&ModShift != 0 {
		step = 10
	}
	var err error
	switch k {
	case ebiten.Key1:
		err = m.SetMode(ModeNone)
	case ebiten.Key2:
		err = m.SetMode(ModeTextureMapping)
	case ebiten.Key3:
		err = m.SetMode(ModeProjectionMapping)
	case ebiten.Key4:
		err = m.SetMode(ModeSourceSelection)
	case ebiten.KeyT:
		_, err = m.AddSurface(SurfaceTriangle, SurfaceOptions{})
	case ebiten.KeyQ:
		_, err = m.AddSurface(SurfaceQuad, SurfaceOptions{})
	case ebiten.KeyDelete, ebiten.KeyBackspace:
		m.editor.RemoveSelectedSurface()
	case ebiten.KeyS:
		err = m.SaveLayout()
	case ebiten.KeyI:
		m.ToggleInfo()
	case ebiten.KeyF:
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	case ebiten.KeyArrowLeft:
		m.editor.NudgeSelectedJoint(Vec2{X: -step})
	case ebiten.KeyArrowRight:
		m.editor.NudgeSelectedJoint(Vec2{X: step})
	case ebiten.KeyArrowUp:
		m.editor.NudgeSelectedJoint(Vec2{Y: -step})
	case ebiten.KeyArrowDown:
		m.editor.NudgeSelectedJoint(Vec2{Y: step})
	}
	if err != nil {
		m.logger.Printf("key %s: %v", k, err)
	}
}

// Draw implements ebiten.Game.
func (m *Mapper) Draw(screen *ebiten.Image) {
	start := time.Now()
	screen.Fill(m.cfg.Background.RGBA())

	if m.editor.Mode() == ModeTextureMapping {
		if sel := m.collection.Selected(); sel != nil {
			if src := m.collection.Resolve(sel); src != nil {
				drawTexture(screen, src.Texture())
			}
		}
	}
	m.collection.Draw(screen, DrawOptions{Tint: m.surfaceTint(), BlankColor: m.cfg.BlankColor})
	m.drawOverlay(screen)
	m.picker.Draw(screen)
	if m.showInfo {
		m.drawInfo(screen)
	}
	m.flushScreenshots(screen)

	m.debug.drawTime = time.Since(start)
	m.debugLog()
}

// surfaceTint returns the tint surfaces are drawn with. Texture mapping
// draws them translucent over the selection's full texture.
func (m *Mapper) surfaceTint() Color {
	tint := m.cfg.Tint
	if m.editor.Mode() == ModeTextureMapping {
		tint.A *= m.cfg.TextureModeAlpha
	}
	return tint
}

// Layout implements ebiten.Game. The reported size becomes the viewport for
// default quads.
func (m *Mapper) Layout(outsideWidth, outsideHeight int) (int, int) {
	m.width, m.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// Close releases every surface binding, stops the watchers and unloads all
// media. The mapper must not be used afterwards.
func (m *Mapper) Close() {
	if m.closed {
		return
	}
	m.closed = true
	for i := range m.handles {
		m.handles[i].Remove()
	}
	m.handles = nil
	m.collection.Clear()
	m.registry.Close()
	m.notifier.ProcessEvents()
	m.notifier.Close()
}
