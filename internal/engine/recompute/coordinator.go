package recompute

import (
	"context"
	"fmt"
	"sort"

	"github.com/ctxpack/ctxpack/internal/core/domain"
	"github.com/ctxpack/ctxpack/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultPersistEvery is the number of successfully merged files after which
// the cache is persisted. An unexpected termination loses at most the latest
// partial window, not the whole pass.
const DefaultPersistEvery = 64

// Coordinator drives the recomputation cycle: it diffs fresh snapshots
// against the cache, dispatches misses as superseding jobs, merges batched
// results, publishes the running aggregate, and persists the cache
// periodically and at shutdown.
//
// All methods must be called from a single goroutine — in the interactive
// application that is the UI loop — and none of them ever block. The
// coordinator is the cache's only writer; workers communicate exclusively
// through the progress channel.
type Coordinator struct {
	driver *Driver
	logger ports.Logger

	store        ports.CacheStore
	storePath    string
	persistEvery int

	cache     *domain.CountCache
	current   map[string]domain.Fingerprint
	selected  map[string]struct{}
	handle    *Handle
	aggregate int64
	failed    map[string]error

	jobDone    int
	jobTargets int

	sinceSave   int
	dirty       bool
	lastSaveErr error
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithStore attaches a persistence backend. Without it the coordinator is
// transient, which is what the search engine uses.
func WithStore(store ports.CacheStore, path string) CoordinatorOption {
	return func(c *Coordinator) {
		c.store = store
		c.storePath = path
	}
}

// WithPersistEvery overrides the periodic persistence threshold.
func WithPersistEvery(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.persistEvery = n
		}
	}
}

// NewCoordinator creates a Coordinator over the given driver.
func NewCoordinator(driver *Driver, logger ports.Logger, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		driver:       driver,
		logger:       logger,
		persistEvery: DefaultPersistEvery,
		cache:        domain.NewCountCache(),
		current:      make(map[string]domain.Fingerprint),
		selected:     make(map[string]struct{}),
		failed:       make(map[string]error),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load restores the persisted cache, if a store is attached. A load failure
// is non-fatal: the engine starts cold and recomputes.
func (c *Coordinator) Load() {
	if c.store == nil {
		return
	}
	entries, err := c.store.Load(c.storePath)
	if err != nil {
		c.logger.Error(zerr.Wrap(err, "starting with an empty cache"))
		return
	}
	c.cache.Restore(entries)
}

// SetSnapshot installs a fresh fingerprint set: prunes entries for vanished
// paths, diffs against the cache, supersedes any running job, and — when
// there are misses — dispatches a new one. Returns the number of misses
// dispatched.
func (c *Coordinator) SetSnapshot(ctx context.Context, snap domain.Snapshot) int {
	c.current = snap.Index()
	if c.cache.Prune(c.current) > 0 {
		c.dirty = true
	}

	// Selection and failure bookkeeping follow the working set.
	for path := range c.selected {
		if _, ok := c.current[path]; !ok {
			delete(c.selected, path)
		}
	}
	for path := range c.failed {
		if _, ok := c.current[path]; !ok {
			delete(c.failed, path)
		}
	}

	_, misses := c.cache.Diff(snap.Fingerprints)

	// Any working-set change supersedes the running job, even when there
	// is nothing new to dispatch.
	c.driver.Cancel()
	c.handle = nil
	c.jobDone, c.jobTargets = 0, 0

	if len(misses) > 0 {
		// Misses are being recomputed; clear their stale failure marks.
		for _, path := range misses {
			delete(c.failed, path)
		}
		c.handle = c.driver.Start(ctx, misses)
		c.jobTargets = len(misses)
	}

	c.recomputeAggregate()
	return len(misses)
}

// Refresh force-dispatches the entire working set, bypassing the hit check.
func (c *Coordinator) Refresh(ctx context.Context) {
	paths := make([]string, 0, len(c.current))
	for path := range c.current {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	c.failed = make(map[string]error)
	c.handle = c.driver.Start(ctx, paths)
	c.jobDone, c.jobTargets = 0, len(paths)
}

// SetSelection replaces the selected path set. A pure selection change
// never starts a job; it only changes which cache entries are summed.
// Paths without a live entry contribute 0, so a selection may be installed
// before the first snapshot; SetSnapshot trims it to the working set.
func (c *Coordinator) SetSelection(paths []string) {
	c.selected = make(map[string]struct{}, len(paths))
	for _, path := range paths {
		c.selected[path] = struct{}{}
	}
	c.recomputeAggregate()
}

// Toggle flips one path's selection and returns whether it is now selected.
func (c *Coordinator) Toggle(path string) bool {
	if _, ok := c.selected[path]; ok {
		delete(c.selected, path)
		c.recomputeAggregate()
		return false
	}
	if _, ok := c.current[path]; !ok {
		return false
	}
	c.selected[path] = struct{}{}
	c.recomputeAggregate()
	return true
}

// Selected reports whether a path is currently selected.
func (c *Coordinator) Selected(path string) bool {
	_, ok := c.selected[path]
	return ok
}

// Selection returns the selected paths in sorted order.
func (c *Coordinator) Selection() []string {
	paths := make([]string, 0, len(c.selected))
	for path := range c.selected {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Poll drains every batch that is already available, without blocking.
// Batches carrying a superseded job id are discarded; matching batches are
// merged checksum-gated and the aggregate is updated incrementally. Called
// once per UI tick.
func (c *Coordinator) Poll() {
	for c.handle != nil {
		batch, ok := c.handle.Poll()
		if !ok {
			return
		}
		// The handle owns its channel, so a foreign job id means the
		// batch belongs to a superseded pass. Drop it.
		if batch.JobID != c.handle.ID() {
			continue
		}

		c.mergeBatch(batch)

		if batch.Final {
			c.driver.Complete(batch.JobID)
			c.handle = nil
		}
	}
}

func (c *Coordinator) mergeBatch(batch Batch) {
	for _, res := range batch.Results {
		// jobDone counts resolved paths whether or not the result lands:
		// failures and stale rejections are still progress through the job.
		c.jobDone++

		if res.Err != nil {
			// Unreadable files never get an entry; they contribute 0
			// until a later pass succeeds.
			c.failed[res.Path] = res.Err
			continue
		}

		// Contribution of the entry being replaced, so re-merges (refresh,
		// duplicate batches) keep the aggregate exact.
		var old int64
		if entry, ok := c.cache.Lookup(res.Path); ok {
			if fp, live := c.current[res.Path]; live && fp.Checksum == entry.Checksum {
				old = entry.Count
			}
		}

		if !c.cache.Merge(res.Path, res.Checksum, res.Count, c.current) {
			// File changed between dispatch and read; the next scan
			// resolves it.
			continue
		}
		c.dirty = true
		c.sinceSave++
		delete(c.failed, res.Path)

		if _, sel := c.selected[res.Path]; sel {
			c.aggregate += res.Count - old
		}
	}

	if c.store != nil && c.sinceSave >= c.persistEvery {
		c.persist()
	}
}

// Aggregate returns the sum of cached counts over the current selection, a
// best-effort running total that only grows while a pass settles.
func (c *Coordinator) Aggregate() int64 { return c.aggregate }

// Query returns the cached count for one path, for per-file display.
func (c *Coordinator) Query(path string) (int64, bool) {
	entry, ok := c.cache.Lookup(path)
	if !ok {
		return 0, false
	}
	if fp, live := c.current[path]; !live || fp.Checksum != entry.Checksum {
		return 0, false
	}
	return entry.Count, true
}

// Failed returns the number of files whose last computation failed.
func (c *Coordinator) Failed() int { return len(c.failed) }

// Settling reports whether a pass is still running, i.e. whether the
// displayed aggregate may still grow.
func (c *Coordinator) Settling() bool { return c.handle != nil }

// Progress returns how many of the current job's targets have resolved. A
// resolved target may still have been discarded (failure, stale checksum);
// done measures how far the pass has come, not how many values merged.
func (c *Coordinator) Progress() (done, total int) { return c.jobDone, c.jobTargets }

// SaveStatus returns a display string for the last failed save, or "".
func (c *Coordinator) SaveStatus() string {
	if c.lastSaveErr == nil {
		return ""
	}
	return fmt.Sprintf("cache save failed: %v", c.lastSaveErr)
}

// Close cancels any in-flight job and performs one final synchronous
// persistence. In-flight work is abandoned; only merged entries are saved.
func (c *Coordinator) Close() {
	c.driver.Cancel()
	c.handle = nil
	if c.store != nil && c.dirty {
		c.persist()
	}
}

func (c *Coordinator) persist() {
	if err := c.store.Save(c.storePath, c.cache.Entries()); err != nil {
		// Non-fatal: the in-memory cache stays authoritative.
		c.lastSaveErr = err
		c.logger.Error(zerr.Wrap(err, "periodic cache save failed"))
		return
	}
	c.lastSaveErr = nil
	c.sinceSave = 0
	c.dirty = false
}

func (c *Coordinator) recomputeAggregate() {
	selected := make([]string, 0, len(c.selected))
	for path := range c.selected {
		selected = append(selected, path)
	}
	c.aggregate = c.cache.Aggregate(selected, c.current)
}
