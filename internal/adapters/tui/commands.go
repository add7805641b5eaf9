package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ctxpack/ctxpack/internal/adapters/archive"
	"github.com/ctxpack/ctxpack/internal/app"
	"github.com/ctxpack/ctxpack/internal/core/domain"
)

// TickInterval is the UI polling cadence. Every tick drains whatever result
// batches have arrived since the last one.
const TickInterval = 100 * time.Millisecond

// Tick returns the command scheduling the next poll tick.
func Tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return MsgTick{At: t}
	})
}

// Scan runs a snapshot scan off the UI goroutine.
func Scan(ctx context.Context, application *app.App, profile domain.Profile) tea.Cmd {
	return func() tea.Msg {
		snap, err := application.Scan(ctx, profile)
		return MsgScanned{Snapshot: snap, Err: err}
	}
}

// WaitForChanges returns a command that blocks on the next coalesced watcher
// batch.
func WaitForChanges(ch <-chan []string) tea.Cmd {
	return func() tea.Msg {
		paths, ok := <-ch
		if !ok {
			return MsgWatchClosed{}
		}
		return MsgFilesChanged{Paths: paths}
	}
}

// Pack writes the current selection into the profile's archive.
func Pack(root, output string, paths []string) tea.Cmd {
	return func() tea.Msg {
		res, err := archive.NewWriter(root).Write(output, paths)
		return MsgPacked{Result: res, Err: err}
	}
}
