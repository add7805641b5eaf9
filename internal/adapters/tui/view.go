package tui

import (
	"fmt"
	"strings"

	"github.com/ctxpack/ctxpack/internal/ui/style"
)

// chromeLines is the number of non-list lines the view renders: header,
// search bar, status line and help line.
const chromeLines = 4

func (m *Model) listHeight() int {
	if m.height == 0 {
		return 20
	}
	h := m.height - chromeLines
	if h < 1 {
		h = 1
	}
	return h
}

// View renders the picker.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	b.WriteString(m.viewSearch())
	b.WriteString("\n")
	b.WriteString(m.viewList())
	b.WriteString(m.viewStatus())
	b.WriteString("\n")
	b.WriteString(m.viewHelp())

	return b.String()
}

func (m *Model) viewHeader() string {
	selected := len(m.coord.Selection())
	header := m.st.header.Render("ctxpack") +
		" " + m.st.profile.Render(m.profile().Name) +
		m.st.count.Render(fmt.Sprintf("  %d/%d files  ~%d tokens", selected, len(m.paths), m.coord.Aggregate()))

	if m.coord.Settling() {
		done, total := m.coord.Progress()
		header += "  " + m.spin.View() + m.st.stale.Render(fmt.Sprintf("counting %d/%d", done, total))
	}
	if failed := m.coord.Failed(); failed > 0 {
		header += "  " + m.st.failed.Render(fmt.Sprintf("%s %d failed", style.Cross, failed))
	}
	return header
}

func (m *Model) viewSearch() string {
	if m.searching {
		return m.searchInput.View()
	}
	if m.query != "" {
		line := m.st.search.Render("/" + m.query)
		if m.search != nil {
			if m.search.Settling() {
				line += " " + m.spin.View()
			} else {
				line += m.st.count.Render(fmt.Sprintf("  %d matching files", len(m.visible())))
			}
		}
		return line
	}
	return ""
}

func (m *Model) viewList() string {
	var b strings.Builder
	visible := m.visible()
	height := m.listHeight()

	end := m.offset + height
	if end > len(visible) {
		end = len(visible)
	}

	for i := m.offset; i < end; i++ {
		b.WriteString(m.viewRow(visible[i], i == m.cursor))
		b.WriteString("\n")
	}
	for i := end - m.offset; i < height; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) viewRow(path string, isCursor bool) string {
	cursor := "  "
	if isCursor {
		cursor = m.st.cursor.Render("> ")
	}

	icon := m.st.count.Render(style.Circle)
	if m.coord.Selected(path) {
		icon = m.st.selected.Render(style.Dot)
	}

	count, ok := m.coord.Query(path)
	var counts string
	switch {
	case ok:
		counts = m.st.count.Render(fmt.Sprintf("%8d", count))
	default:
		counts = m.st.stale.Render(fmt.Sprintf("%8s", style.Spinner))
	}

	if m.query != "" && m.search != nil {
		if n, ok := m.search.Query(path); ok && n > 0 {
			counts += m.st.search.Render(fmt.Sprintf("  %d%s", n, "×"))
		}
	}

	return cursor + icon + " " + path + "  " + counts
}

func (m *Model) viewStatus() string {
	if m.lastErr != nil {
		return m.st.failed.Render(style.Cross + " " + m.lastErr.Error())
	}
	line := m.status
	if saved := m.coord.SaveStatus(); saved != "" {
		if line != "" {
			line += "  "
		}
		line += saved
	}
	return m.st.status.Render(line)
}

func (m *Model) viewHelp() string {
	return m.st.help.Render("space select  a all  / search  r recount  tab profile  w write  q quit")
}
