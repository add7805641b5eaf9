package tui

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ctxpack/ctxpack/internal/adapters/detector"
	"github.com/ctxpack/ctxpack/internal/app"
	"github.com/ctxpack/ctxpack/internal/core/domain"
)

// outputSwitcher is implemented by loggers that can redirect their output
// while the TUI owns the terminal.
type outputSwitcher interface {
	SetOutput(w io.Writer)
}

// Run starts the interactive picker and blocks until the user quits.
func Run(ctx context.Context, components *app.Components, profiles []domain.Profile) error {
	if detector.DetectEnvironment() != detector.ModeTUI {
		return domain.ErrNotTerminal
	}

	// Logs would corrupt the alternate screen; divert them for the duration.
	if sw, ok := components.Logger.(outputSwitcher); ok {
		sw.SetOutput(io.Discard)
		defer sw.SetOutput(os.Stderr)
	}

	model := NewModel(ctx, components.App, components.Watcher, profiles)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := program.Run()
	return err
}
