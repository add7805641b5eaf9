// Package recompute implements the asynchronous recomputation engine: a
// bounded worker pool computing per-file counts, a job driver owning
// cancellation and supersession, and a coordinator that merges batched
// results into the count cache without ever blocking its caller.
package recompute

import "github.com/ctxpack/ctxpack/internal/core/domain"

// FileResult is one file's outcome. Failures travel through the same
// channel as successes so the coordinator has a single inbox for both.
type FileResult struct {
	Path string
	// Checksum is the checksum observed at read time (empty on failure).
	Checksum string
	Count    int64
	// Err is set when the file could not be read or computed.
	Err error
}

// Batch is a group of per-file results delivered together through the
// progress channel. Consumed once; batches within a job may arrive in any
// completion order, but a batch with Final set is strictly the last one
// observed for its job.
type Batch struct {
	JobID   domain.JobID
	Results []FileResult
	Final   bool
}
