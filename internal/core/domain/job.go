package domain

// JobID identifies one recomputation pass. IDs increase monotonically within
// a driver, so "newer job" is a checkable fact rather than a side effect of
// object lifetimes.
type JobID uint64

// JobState tracks the lifecycle of a recomputation pass.
type JobState uint8

const (
	// JobCreated means the job has been allocated but not yet dispatched.
	JobCreated JobState = iota
	// JobRunning means workers are computing the job's target set.
	JobRunning
	// JobCompleted means the job's final marker has been observed.
	JobCompleted
	// JobSuperseded means a newer job replaced this one; any of its
	// still-arriving batches are discarded by job-id mismatch.
	JobSuperseded
)

// String returns the human-readable state name.
func (s JobState) String() string {
	switch s {
	case JobCreated:
		return "Created"
	case JobRunning:
		return "Running"
	case JobCompleted:
		return "Completed"
	case JobSuperseded:
		return "Superseded"
	default:
		return "Unknown"
	}
}
