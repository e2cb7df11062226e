package main

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/phanxgames/pimapper"
)

var (
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")
	warnFg    = lipgloss.Color("#F59E0B")

	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	warnStyle  = lipgloss.NewStyle().Foreground(warnFg)
)

const listWidth = 32

type surfaceItem struct {
	index int
	surf  pimapper.LayoutSurface
}

func (s surfaceItem) Title() string {
	kind := "invalid"
	if t, ok := s.surf.Type(); ok {
		kind = t.String()
	}
	return fmt.Sprintf("#%d %s", s.index, kind)
}

func (s surfaceItem) Description() string {
	if s.surf.SourceName == "" {
		return "unbound"
	}
	return s.surf.SourceType.String() + " " + s.surf.SourceName
}

func (s surfaceItem) FilterValue() string { return s.Title() }

// inspectModel browses the surfaces of one layout file. Deletions stay in
// memory until written.
type inspectModel struct {
	path     string
	layout   pimapper.Layout
	l        list.Model
	width    int
	height   int
	modified bool
	status   string
}

func newInspectModel(path string, layout pimapper.Layout) inspectModel {
	d := list.NewDefaultDelegate()
	m := inspectModel{path: path, layout: layout}
	m.l = list.New(nil, d, listWidth, 0)
	m.l.Title = "Surfaces"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(false)
	m.refreshItems()
	m.status = fmt.Sprintf("%d surfaces", len(layout.Surfaces))
	return m
}

func runInspect(path string) error {
	layout, err := pimapper.ReadLayoutFile(path)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(newInspectModel(path, layout), tea.WithAltScreen()).Run()
	return err
}

func (m *inspectModel) refreshItems() {
	items := make([]list.Item, len(m.layout.Surfaces))
	for i, s := range m.layout.Surfaces {
		items[i] = surfaceItem{index: i, surf: s}
	}
	m.l.SetItems(items)
}

func (m inspectModel) Init() tea.Cmd { return nil }

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.l.SetSize(listWidth, max(m.height-4, 1))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "d", "delete":
			m.deleteSelected()
			return m, nil
		case "w":
			m.write()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.l, cmd = m.l.Update(msg)
	return m, cmd
}

func (m *inspectModel) deleteSelected() {
	i := m.l.Index()
	if i < 0 || i >= len(m.layout.Surfaces) {
		m.status = "nothing to delete"
		return
	}
	m.layout.Surfaces = append(m.layout.Surfaces[:i], m.layout.Surfaces[i+1:]...)
	m.refreshItems()
	if n := len(m.layout.Surfaces); n > 0 {
		m.l.Select(min(i, n-1))
	}
	m.modified = true
	m.status = fmt.Sprintf("deleted surface %d", i)
}

func (m *inspectModel) write() {
	if err := pimapper.WriteLayoutFile(m.path, m.layout); err != nil {
		m.status = "write error: " + err.Error()
		return
	}
	m.modified = false
	m.status = fmt.Sprintf("wrote %d surfaces to %s", len(m.layout.Surfaces), m.path)
}

func (m inspectModel) selected() (pimapper.LayoutSurface, bool) {
	it, ok := m.l.SelectedItem().(surfaceItem)
	if !ok {
		return pimapper.LayoutSurface{}, false
	}
	return it.surf, true
}

func (m inspectModel) detail() string {
	s, ok := m.selected()
	if !ok {
		return dimStyle.Render("no surfaces")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Vertices"))
	b.WriteByte('\n')
	for i, v := range s.Vertices {
		fmt.Fprintf(&b, "  %d  %8.1f %8.1f\n", i, v.X, v.Y)
	}
	b.WriteString(titleStyle.Render("Texture coordinates"))
	b.WriteByte('\n')
	for i, v := range s.TexCoords {
		fmt.Fprintf(&b, "  %d  %6.3f %6.3f\n", i, v.X, v.Y)
	}
	b.WriteString(titleStyle.Render("Source"))
	b.WriteByte('\n')
	if s.SourceName == "" {
		b.WriteString(dimStyle.Render("  unbound"))
	} else {
		fmt.Fprintf(&b, "  %s %s", s.SourceType, s.SourceName)
	}
	return b.String()
}

func (m inspectModel) View() string {
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.l.View(),
		boxStyle.Render(m.detail()),
	)
	status := m.status
	if m.modified {
		status = warnStyle.Render("modified") + "  " + status
	}
	help := dimStyle.Render("↑/↓ select  d delete  w write  q quit")
	return lipgloss.JoinVertical(lipgloss.Left, body, status, help)
}
