// Package watcher implements file system watching that schedules rescans.
package watcher

import (
	"sort"
	"sync"
	"time"
	"unique"
)

// DefaultWindow is the debounce window for coalescing file system events.
// Editors tend to emit bursts of writes, renames and chmods for a single
// save; one window catches the whole burst.
const DefaultWindow = 250 * time.Millisecond

// Debouncer coalesces rapid file system events into batched notifications.
// Paths are interned so repeated events for the same file collapse into a
// single entry, and every batch is delivered sorted.
type Debouncer struct {
	window time.Duration
	notify func(paths []string)

	mu      sync.Mutex
	pending map[unique.Handle[string]]struct{}
	timer   *time.Timer
}

// NewDebouncer creates a new debouncer with the given time window and callback.
func NewDebouncer(window time.Duration, notify func(paths []string)) *Debouncer {
	return &Debouncer{
		window:  window,
		notify:  notify,
		pending: make(map[unique.Handle[string]]struct{}),
	}
}

// Add adds a file path to the pending set and restarts the window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[unique.Make(path)] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire runs when the window expires. Delivery happens on a fresh goroutine
// so a slow consumer never stalls the timer.
func (d *Debouncer) fire() {
	d.mu.Lock()
	paths := d.takeLocked()
	d.timer = nil
	d.mu.Unlock()

	if len(paths) > 0 && d.notify != nil {
		go d.notify(paths)
	}
}

// Flush immediately delivers all pending paths, synchronously. Suitable for
// shutdown, where pending work must be handed off before proceeding.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			// Timer already fired; let it deliver rather than processing twice.
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}
	paths := d.takeLocked()
	d.mu.Unlock()

	if len(paths) > 0 && d.notify != nil {
		d.notify(paths)
	}
}

// takeLocked empties the pending set and returns its paths in sorted order.
// Callers must hold mu.
func (d *Debouncer) takeLocked() []string {
	if len(d.pending) == 0 {
		return nil
	}
	paths := make([]string, 0, len(d.pending))
	for handle := range d.pending {
		paths = append(paths, handle.Value())
	}
	d.pending = make(map[unique.Handle[string]]struct{})
	sort.Strings(paths)
	return paths
}
