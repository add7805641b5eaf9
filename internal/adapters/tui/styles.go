package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/ctxpack/ctxpack/internal/ui/style"
)

type styles struct {
	header   lipgloss.Style
	profile  lipgloss.Style
	cursor   lipgloss.Style
	selected lipgloss.Style
	stale    lipgloss.Style
	failed   lipgloss.Style
	count    lipgloss.Style
	status   lipgloss.Style
	help     lipgloss.Style
	search   lipgloss.Style
}

func newStyles() styles {
	return styles{
		header:   lipgloss.NewStyle().Bold(true).Foreground(style.White),
		profile:  lipgloss.NewStyle().Bold(true).Foreground(style.Teal),
		cursor:   lipgloss.NewStyle().Foreground(style.Teal),
		selected: lipgloss.NewStyle().Foreground(style.Green),
		stale:    lipgloss.NewStyle().Foreground(style.Yellow),
		failed:   lipgloss.NewStyle().Foreground(style.Red),
		count:    lipgloss.NewStyle().Foreground(style.Slate),
		status:   lipgloss.NewStyle().Foreground(style.Slate),
		help:     lipgloss.NewStyle().Foreground(style.Slate),
		search:   lipgloss.NewStyle().Foreground(style.Yellow),
	}
}
