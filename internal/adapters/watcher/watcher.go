package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ctxpack/ctxpack/internal/core/domain"
	"github.com/ctxpack/ctxpack/internal/core/ports"
	"github.com/fsnotify/fsnotify"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// skipDirectories are directories that are never watched.
var skipDirectories = map[string]bool{
	".git":              true,
	".jj":               true,
	"node_modules":      true,
	domain.CacheDirName: true,
}

const batchChannelBuffer = 8

// Watcher implements recursive file system watching using fsnotify, with a
// debounce window so one editor save produces one notification batch.
type Watcher struct {
	window time.Duration

	mu        sync.Mutex
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	batches   chan []string
	closeOnce sync.Once
}

// NewWatcher creates a watcher with the default debounce window.
func NewWatcher() *Watcher {
	return &Watcher{window: DefaultWindow}
}

// NewWatcherWithWindow creates a watcher with a custom debounce window.
func NewWatcherWithWindow(window time.Duration) *Watcher {
	return &Watcher{window: window}
}

// Start implements ports.Watcher.
func (w *Watcher) Start(ctx context.Context, root string) (<-chan []string, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create file system watcher")
	}

	w.mu.Lock()
	w.fsWatcher = fsw
	w.batches = make(chan []string, batchChannelBuffer)
	w.debouncer = NewDebouncer(w.window, w.deliver)
	w.mu.Unlock()

	for _, dir := range watchableDirs(root) {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, zerr.With(zerr.Wrap(err, "failed to watch directory"), "dir", dir)
		}
	}

	go w.processEvents(ctx)

	return w.batches, nil
}

// Stop implements ports.Watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	fsw := w.fsWatcher
	w.mu.Unlock()

	if fsw == nil {
		return nil
	}
	return fsw.Close()
}

// deliver hands a coalesced batch to the consumer. Delivery drops the batch
// when the consumer is not keeping up; the next event will schedule another
// rescan anyway.
func (w *Watcher) deliver(paths []string) {
	select {
	case w.batches <- paths:
	default:
	}
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.closeOnce.Do(func() { close(w.batches) })

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Transient watch errors are not actionable here; the periodic
			// rescan covers anything missed.
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	const relevant = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

	if event.Op&relevant == 0 {
		return
	}
	if skipDirectories[filepath.Base(event.Name)] {
		return
	}

	w.debouncer.Add(event.Name)

	// New directories need their own watches.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			for _, dir := range watchableDirs(event.Name) {
				_ = w.fsWatcher.Add(dir)
			}
		}
	}
}

// watchableDirs walks the tree rooted at root and returns every directory
// that should carry a watch.
func watchableDirs(root string) []string {
	var dirs []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable directories, keep walking
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDirectories[d.Name()] {
			return fs.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs
}
