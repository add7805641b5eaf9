// Package ports defines the interfaces between the engine and its adapters.
package ports

import "context"

// ComputeResult carries one file's computed count together with the checksum
// actually observed while reading the content. The checksum is recorded at
// read time, never assumed equal to the dispatch-time checksum, so the
// coordinator can detect files that changed mid-flight and reject the result.
type ComputeResult struct {
	// Checksum is the xxhash64 (%016x) of the bytes the computation saw.
	Checksum string
	// Count is the computed per-file value: a token estimate, or a match count.
	Count int64
}

// Computer is a pure per-file computation. Implementations hold no mutable
// state shared between invocations and have no side effects beyond reading
// the target file. ctx is only consulted between files by the pool, not
// mid-read; a single slow file delays only its own result.
//
//go:generate mockgen -source=compute.go -destination=mocks/mock_compute.go -package=mocks
type Computer interface {
	// Compute reads the file at path (relative to the computer's root) and
	// returns its count. I/O failures are returned as errors and become
	// per-file failure results, never panics.
	Compute(ctx context.Context, path string) (ComputeResult, error)
}
