// Package tui implements the interactive file picker.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ctxpack/ctxpack/internal/app"
	"github.com/ctxpack/ctxpack/internal/core/domain"
	"github.com/ctxpack/ctxpack/internal/core/ports"
	"github.com/ctxpack/ctxpack/internal/engine/recompute"
	"github.com/ctxpack/ctxpack/internal/ui/style"
)

// Model is the Bubble Tea model for the picker. All engine interaction runs
// on the UI goroutine: ticks poll the coordinators, key handlers mutate
// selection, and nothing here ever blocks on the engine.
type Model struct {
	ctx         context.Context
	application *app.App
	watcher     ports.Watcher

	profiles   []domain.Profile
	profileIdx int

	coord  *recompute.Coordinator
	search *recompute.Coordinator
	snap   domain.Snapshot
	paths  []string

	searchInput textinput.Model
	searching   bool
	query       string

	watchCh <-chan []string

	cursor int
	offset int
	width  int
	height int

	spin    spinner.Model
	st      styles
	status  string
	lastErr error
}

// NewModel creates the picker model for the given profiles. The coordinator
// for the first profile is started immediately; the scan happens in Init.
func NewModel(ctx context.Context, application *app.App, watcher ports.Watcher, profiles []domain.Profile) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(style.Yellow)

	input := textinput.New()
	input.Prompt = "/"
	input.CharLimit = 128

	m := &Model{
		ctx:         ctx,
		application: application,
		watcher:     watcher,
		profiles:    profiles,
		searchInput: input,
		spin:        sp,
		st:          newStyles(),
	}
	m.coord = application.Session(m.profile())
	return m
}

func (m *Model) profile() domain.Profile {
	return m.profiles[m.profileIdx]
}

// Init starts the tick loop, the first scan, and the watcher.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		Tick(),
		m.spin.Tick,
		Scan(m.ctx, m.application, m.profile()),
	}
	if m.watcher != nil {
		if ch, err := m.watcher.Start(m.ctx, m.profile().Root); err == nil {
			m.watchCh = ch
			cmds = append(cmds, WaitForChanges(ch))
		}
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case MsgTick:
		m.coord.Poll()
		if m.search != nil {
			m.search.Poll()
		}
		return m, Tick()
	case MsgScanned:
		return m.handleScanned(msg)
	case MsgFilesChanged:
		return m, tea.Batch(
			Scan(m.ctx, m.application, m.profile()),
			WaitForChanges(m.watchCh),
		)
	case MsgWatchClosed:
		m.watchCh = nil
		return m, nil
	case MsgPacked:
		if msg.Err != nil {
			m.lastErr = msg.Err
			m.status = ""
		} else {
			m.lastErr = nil
			m.status = style.Check + " wrote " + msg.Result.Output
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleScanned(msg MsgScanned) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.lastErr = msg.Err
		return m, nil
	}
	m.lastErr = nil
	m.snap = msg.Snapshot
	m.paths = msg.Snapshot.Paths()
	m.coord.SetSnapshot(m.ctx, m.snap)
	if m.search != nil {
		m.search.SetSnapshot(m.ctx, m.snap)
	}
	m.clampCursor()
	return m, nil
}

//nolint:cyclop // Flat key dispatch reads better than scattered handlers
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.shutdown()
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case " ":
		if path, ok := m.pathUnderCursor(); ok {
			m.coord.Toggle(path)
		}
	case "a":
		m.toggleAllVisible()
	case "r":
		m.coord.Refresh(m.ctx)
		if m.search != nil {
			m.search.Refresh(m.ctx)
		}
		m.status = "recounting"
	case "/":
		m.searching = true
		m.searchInput.SetValue(m.query)
		m.searchInput.Focus()
		return m, textinput.Blink
	case "esc":
		m.clearSearch()
	case "tab":
		return m.cycleProfile()
	case "w":
		selection := m.coord.Selection()
		if len(selection) == 0 {
			m.lastErr = domain.ErrNoSelection
			return m, nil
		}
		m.status = "packing"
		return m, Pack(m.profile().Root, m.profile().OutputPath(), selection)
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.clearSearch()
		return m, nil
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		m.setQuery(m.searchInput.Value())
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// setQuery commits a search query, replacing any previous transient session.
func (m *Model) setQuery(query string) {
	if m.search != nil {
		m.search.Close()
		m.search = nil
	}
	m.query = query
	if query == "" {
		m.clampCursor()
		return
	}
	m.search = m.application.SearchSession(m.profile(), query)
	m.search.SetSnapshot(m.ctx, m.snap)
	m.clampCursor()
}

func (m *Model) clearSearch() {
	if m.search != nil {
		m.search.Close()
		m.search = nil
	}
	m.query = ""
	m.searchInput.SetValue("")
	m.clampCursor()
}

func (m *Model) cycleProfile() (tea.Model, tea.Cmd) {
	if len(m.profiles) < 2 {
		return m, nil
	}

	m.coord.Close()
	m.clearSearch()
	m.profileIdx = (m.profileIdx + 1) % len(m.profiles)
	m.coord = m.application.Session(m.profile())
	m.paths = nil
	m.snap = domain.Snapshot{}
	m.cursor = 0
	m.offset = 0
	m.status = "profile " + m.profile().Name

	cmds := []tea.Cmd{Scan(m.ctx, m.application, m.profile())}
	if m.watcher != nil {
		_ = m.watcher.Stop()
		if ch, err := m.watcher.Start(m.ctx, m.profile().Root); err == nil {
			m.watchCh = ch
			cmds = append(cmds, WaitForChanges(ch))
		}
	}
	return m, tea.Batch(cmds...)
}

// visible returns the working set filtered by the committed search query.
// While a search is still settling, unmatched files stay visible so the list
// does not flicker as counts stream in.
func (m *Model) visible() []string {
	if m.query == "" || m.search == nil {
		return m.paths
	}

	settling := m.search.Settling()
	out := make([]string, 0, len(m.paths))
	for _, path := range m.paths {
		n, ok := m.search.Query(path)
		switch {
		case ok && n > 0:
			out = append(out, path)
		case !ok && settling:
			out = append(out, path)
		}
	}
	return out
}

func (m *Model) pathUnderCursor() (string, bool) {
	visible := m.visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return "", false
	}
	return visible[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	visible := m.visible()
	if m.cursor >= len(visible) {
		m.cursor = len(visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if h > 0 && m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}

// toggleAllVisible selects every visible file, or deselects them all when
// they are already all selected.
func (m *Model) toggleAllVisible() {
	visible := m.visible()
	if len(visible) == 0 {
		return
	}

	allSelected := true
	for _, path := range visible {
		if !m.coord.Selected(path) {
			allSelected = false
			break
		}
	}

	selected := make(map[string]bool)
	for _, path := range m.coord.Selection() {
		selected[path] = true
	}
	for _, path := range visible {
		selected[path] = !allSelected
	}

	next := make([]string, 0, len(selected))
	for path, on := range selected {
		if on {
			next = append(next, path)
		}
	}
	m.coord.SetSelection(next)
}

func (m *Model) shutdown() {
	if m.search != nil {
		m.search.Close()
	}
	m.coord.Close()
	if m.watcher != nil {
		_ = m.watcher.Stop()
	}
}
