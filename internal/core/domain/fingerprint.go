// Package domain contains the core types of the ctxpack recompute engine.
package domain

import (
	"fmt"
	"time"
)

// FormatChecksum renders an xxhash64 sum in the canonical %016x form used
// throughout fingerprints and cache entries.
func FormatChecksum(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

// Fingerprint identifies one file's content at scan time. The scanner
// delivers a full replacement set on every rescan; individual fingerprints
// are never mutated after delivery.
type Fingerprint struct {
	// Path is the file path relative to the profile root. It is the unique key.
	Path string
	// Checksum is the xxhash64 of the file content, rendered as %016x.
	Checksum string
	// Size is the file size in bytes observed at scan time.
	Size int64
	// ModTime is the file modification time observed at scan time.
	ModTime time.Time
}

// Snapshot is one authoritative scan result. It replaces the previous
// working set wholesale; the cache, not the snapshot, is what persists
// across scans.
type Snapshot struct {
	Fingerprints []Fingerprint
	ScannedAt    time.Time
}

// Index returns the snapshot's fingerprints keyed by path.
func (s Snapshot) Index() map[string]Fingerprint {
	idx := make(map[string]Fingerprint, len(s.Fingerprints))
	for _, fp := range s.Fingerprints {
		idx[fp.Path] = fp
	}
	return idx
}

// Paths returns the snapshot's path set in delivery order.
func (s Snapshot) Paths() []string {
	paths := make([]string, len(s.Fingerprints))
	for i, fp := range s.Fingerprints {
		paths[i] = fp.Path
	}
	return paths
}
