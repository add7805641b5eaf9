package recompute

import (
	"context"
	"sync"
	"time"

	"github.com/ctxpack/ctxpack/internal/core/domain"
	"github.com/ctxpack/ctxpack/internal/core/ports"
)

// Handle is the consumer's grip on one running job: the receive end of the
// progress channel plus the job's cancellation. At most one live Handle
// exists per driver at any time.
type Handle struct {
	id      domain.JobID
	targets int
	started time.Time
	batches <-chan Batch
	cancel  context.CancelFunc
}

// ID returns the job's identifier.
func (h *Handle) ID() domain.JobID { return h.id }

// Targets returns the number of paths dispatched to the job.
func (h *Handle) Targets() int { return h.targets }

// Started returns the job's start time.
func (h *Handle) Started() time.Time { return h.started }

// Poll performs a non-blocking receive on the progress channel. It returns
// false when no batch is ready, or when the channel has been closed after
// the final marker.
func (h *Handle) Poll() (Batch, bool) {
	select {
	case batch, ok := <-h.batches:
		if !ok {
			return Batch{}, false
		}
		return batch, true
	default:
		return Batch{}, false
	}
}

// Cancel sets the job's cancellation. Workers stop between files; results
// already emitted are not retracted — the consumer's job-id check is what
// keeps a cancelled job's late batches out of the cache.
func (h *Handle) Cancel() { h.cancel() }

// stateHistory bounds how many finished jobs State can still report on.
// Every snapshot allocates a fresh JobID, so a watcher-driven session would
// otherwise grow the state table for as long as it runs.
const stateHistory = 8

// Driver owns the lifecycle of recomputation jobs for one computer. Job IDs
// increase monotonically; starting a new job supersedes the previous one.
type Driver struct {
	computer ports.Computer
	cfg      poolConfig

	mu      sync.Mutex
	nextID  domain.JobID
	states  map[domain.JobID]domain.JobState
	current *Handle
}

// Option configures a Driver.
type Option func(*Driver)

// WithWorkers overrides the bounded worker count.
func WithWorkers(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.cfg.workers = n
		}
	}
}

// WithBatching overrides the batch flush thresholds.
func WithBatching(size int, interval time.Duration) Option {
	return func(d *Driver) {
		if size > 0 {
			d.cfg.batchSize = size
		}
		if interval > 0 {
			d.cfg.flushInterval = interval
		}
	}
}

// WithChannelDepth overrides the progress channel capacity.
func WithChannelDepth(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.cfg.channelDepth = n
		}
	}
}

// NewDriver creates a Driver running the given computer.
func NewDriver(computer ports.Computer, opts ...Option) *Driver {
	d := &Driver{
		computer: computer,
		cfg:      defaultPoolConfig(),
		states:   make(map[domain.JobID]domain.JobState),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start allocates a new job over paths and spawns its worker pool. Any
// running job is cancelled and marked superseded first; this is the only
// way new computation begins.
func (d *Driver) Start(ctx context.Context, paths []string) *Handle {
	d.mu.Lock()
	d.supersedeLocked()

	d.nextID++
	id := d.nextID
	d.states[id] = domain.JobRunning
	for old := range d.states {
		if id-old >= stateHistory {
			delete(d.states, old)
		}
	}

	jobCtx, cancel := context.WithCancel(ctx)
	out := make(chan Batch, d.cfg.channelDepth)
	handle := &Handle{
		id:      id,
		targets: len(paths),
		started: time.Now(),
		batches: out,
		cancel:  cancel,
	}
	d.current = handle
	d.mu.Unlock()

	go runPool(jobCtx, id, d.computer, paths, d.cfg, out)
	return handle
}

// Cancel cancels the current job, if any. Cancellation is a normal
// lifecycle transition, recorded as supersession.
func (d *Driver) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.supersedeLocked()
}

// Complete records that a job's final marker was observed. Called by the
// consumer; a job that was already superseded stays superseded.
func (d *Driver) Complete(id domain.JobID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.states[id] == domain.JobRunning {
		d.states[id] = domain.JobCompleted
	}
	if d.current != nil && d.current.id == id {
		// Release the job context; the pool has already shut down.
		d.current.cancel()
		d.current = nil
	}
}

// State reports a job's lifecycle state.
func (d *Driver) State(id domain.JobID) (domain.JobState, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	state, ok := d.states[id]
	return state, ok
}

func (d *Driver) supersedeLocked() {
	if d.current == nil {
		return
	}
	d.current.cancel()
	d.states[d.current.id] = domain.JobSuperseded
	d.current = nil
}
