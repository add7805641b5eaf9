package recompute

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/ctxpack/ctxpack/internal/core/domain"
	"github.com/ctxpack/ctxpack/internal/core/ports"
	"go.trai.ch/zerr"
)

// Pool tuning defaults. Batching trades UI update frequency against channel
// overhead; the exact values are tuning choices, not contracts.
const (
	// DefaultMaxWorkers caps parallel file reads, bounding open file
	// handles and memory regardless of how large the scanned tree is.
	DefaultMaxWorkers = 8
	// DefaultBatchSize is the result count that forces a batch flush.
	DefaultBatchSize = 32
	// DefaultFlushInterval is the longest a completed result waits before
	// being flushed to the consumer.
	DefaultFlushInterval = 50 * time.Millisecond
	// DefaultChannelDepth bounds the progress channel; full means producers
	// are throttled rather than allowed to grow memory unboundedly.
	DefaultChannelDepth = 16
)

type poolConfig struct {
	workers       int
	batchSize     int
	flushInterval time.Duration
	channelDepth  int
}

func defaultPoolConfig() poolConfig {
	workers := runtime.NumCPU()
	if workers > DefaultMaxWorkers {
		workers = DefaultMaxWorkers
	}
	return poolConfig{
		workers:       workers,
		batchSize:     DefaultBatchSize,
		flushInterval: DefaultFlushInterval,
		channelDepth:  DefaultChannelDepth,
	}
}

// runPool fans paths out to a bounded set of workers, batches completed
// results, and closes out after sending the job's final marker. It is the
// sole producer on out.
func runPool(ctx context.Context, id domain.JobID, computer ports.Computer, paths []string, cfg poolConfig, out chan<- Batch) {
	results := make(chan FileResult, cfg.workers)

	workers := cfg.workers
	if len(paths) < workers {
		workers = len(paths)
	}

	dispatch := make(chan string)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range dispatch {
				// Cancellation is checked between files only; an
				// in-flight read always finishes.
				if ctx.Err() != nil {
					return
				}
				results <- computeOne(ctx, computer, path)
			}
		}()
	}

	go func() {
		defer close(dispatch)
		for _, path := range paths {
			select {
			case dispatch <- path:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	collect(ctx, id, results, cfg, out)
}

// computeOne runs the computation for a single path, converting any panic
// into a per-file failure so nothing crosses the goroutine boundary as a
// panic.
func computeOne(ctx context.Context, computer ports.Computer, path string) (res FileResult) {
	res.Path = path
	defer func() {
		if r := recover(); r != nil {
			res.Err = zerr.With(zerr.New("compute panicked"), "panic", fmt.Sprint(r))
		}
	}()

	cr, err := computer.Compute(ctx, path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Checksum = cr.Checksum
	res.Count = cr.Count
	return res
}

// collect accumulates completed results and flushes them as batches when a
// size or time threshold is reached. The final marker is sent last, after
// every worker has finished, and then out is closed.
func collect(ctx context.Context, id domain.JobID, results <-chan FileResult, cfg poolConfig, out chan<- Batch) {
	defer close(out)

	ticker := time.NewTicker(cfg.flushInterval)
	defer ticker.Stop()

	pending := make([]FileResult, 0, cfg.batchSize)

	flush := func(final bool) bool {
		if len(pending) == 0 && !final {
			return true
		}
		batch := Batch{JobID: id, Results: pending, Final: final}
		pending = make([]FileResult, 0, cfg.batchSize)
		select {
		case out <- batch:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		select {
		case res, ok := <-results:
			if !ok {
				flush(true)
				return
			}
			pending = append(pending, res)
			if len(pending) >= cfg.batchSize {
				if !flush(false) {
					drain(results)
					return
				}
				ticker.Reset(cfg.flushInterval)
			}
		case <-ticker.C:
			if !flush(false) {
				drain(results)
				return
			}
		}
	}
}

// drain unblocks workers still sending after cancellation so they can
// observe the cancelled context and exit.
func drain(results <-chan FileResult) {
	for range results { //nolint:revive // intentionally discarding remaining results
	}
}
