package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ctxpack/ctxpack/internal/adapters/watcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_DeliversCoalescedBatches(t *testing.T) {
	root := t.TempDir()

	w := watcher.NewWatcherWithWindow(20 * time.Millisecond)
	ch, err := w.Start(context.Background(), root)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("x"), 0o644))

	select {
	case paths := <-ch:
		require.NotEmpty(t, paths)
		found := false
		for _, p := range paths {
			if filepath.Base(p) == "a.go" {
				found = true
			}
		}
		assert.True(t, found, "batch includes the written file, got %v", paths)
	case <-time.After(5 * time.Second):
		t.Fatal("no batch delivered for a file write")
	}
}

func TestWatcher_StopClosesChannel(t *testing.T) {
	w := watcher.NewWatcher()
	ch, err := w.Start(context.Background(), t.TempDir())
	require.NoError(t, err)

	require.NoError(t, w.Stop())

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel closes after Stop")
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after Stop")
	}
}

func TestWatcher_ContextCancelClosesChannel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	w := watcher.NewWatcher()
	ch, err := w.Start(ctx, t.TempDir())
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after context cancellation")
	}
}

func TestWatcher_StopBeforeStart(t *testing.T) {
	w := watcher.NewWatcher()
	assert.NoError(t, w.Stop())
}
