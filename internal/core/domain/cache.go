package domain

import "sort"

// CountEntry stores a computed per-file count together with the checksum of
// the content it was computed from. An entry is valid for a path iff its
// checksum equals that path's current fingerprint checksum.
type CountEntry struct {
	Checksum string
	Count    int64
}

// PersistedEntry is the serialization form of one cache entry.
type PersistedEntry struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
	Count    int64  `json:"count"`
}

// CountCache maps file paths to computed counts (token counts for the pack
// engine, match counts for search). It is deliberately not safe for
// concurrent use: a single coordinator goroutine owns and mutates it, and
// workers only ever communicate results through the progress channel.
type CountCache struct {
	entries map[string]CountEntry
}

// NewCountCache creates an empty cache.
func NewCountCache() *CountCache {
	return &CountCache{entries: make(map[string]CountEntry)}
}

// Diff splits the snapshot's paths into hits and misses. A path is a hit iff
// an entry exists whose checksum equals the fingerprint's checksum. Hits and
// misses partition the input path set exactly.
func (c *CountCache) Diff(fps []Fingerprint) (hits, misses []string) {
	for _, fp := range fps {
		if entry, ok := c.entries[fp.Path]; ok && entry.Checksum == fp.Checksum {
			hits = append(hits, fp.Path)
		} else {
			misses = append(misses, fp.Path)
		}
	}
	return hits, misses
}

// Merge inserts or overwrites the entry for path, but only when checksumUsed
// still matches the path's current fingerprint. A mismatch means the file
// changed between dispatch and read; the result was computed against stale
// bytes and is discarded. Returns whether the entry landed.
func (c *CountCache) Merge(path, checksumUsed string, count int64, current map[string]Fingerprint) bool {
	fp, ok := current[path]
	if !ok || fp.Checksum != checksumUsed {
		return false
	}
	c.entries[path] = CountEntry{Checksum: checksumUsed, Count: count}
	return true
}

// Prune drops entries for paths absent from the current snapshot, keeping
// memory bounded and preventing lookups from serving values for deleted
// files. Returns the number of entries removed.
func (c *CountCache) Prune(current map[string]Fingerprint) int {
	removed := 0
	for path := range c.entries {
		if _, ok := current[path]; !ok {
			delete(c.entries, path)
			removed++
		}
	}
	return removed
}

// Aggregate sums the counts of the selected paths. A path with no entry, or
// an entry whose checksum no longer matches the current fingerprint,
// contributes 0 — the aggregate is a best-effort running total and never an
// overcount.
func (c *CountCache) Aggregate(selected []string, current map[string]Fingerprint) int64 {
	var total int64
	for _, path := range selected {
		entry, ok := c.entries[path]
		if !ok {
			continue
		}
		if fp, ok := current[path]; !ok || fp.Checksum != entry.Checksum {
			continue
		}
		total += entry.Count
	}
	return total
}

// Lookup returns the full entry for a path.
func (c *CountCache) Lookup(path string) (CountEntry, bool) {
	entry, ok := c.entries[path]
	return entry, ok
}

// Query returns the cached count for a single path, for per-file display.
func (c *CountCache) Query(path string) (int64, bool) {
	entry, ok := c.entries[path]
	if !ok {
		return 0, false
	}
	return entry.Count, true
}

// Len returns the number of cached entries.
func (c *CountCache) Len() int {
	return len(c.entries)
}

// Entries returns all entries ordered by path, the serialization order of
// the persisted cache.
func (c *CountCache) Entries() []PersistedEntry {
	out := make([]PersistedEntry, 0, len(c.entries))
	for path, entry := range c.entries {
		out = append(out, PersistedEntry{Path: path, Checksum: entry.Checksum, Count: entry.Count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Restore replaces the cache contents with previously persisted entries.
// Entries for files that changed since the save are invalidated naturally by
// the next Diff.
func (c *CountCache) Restore(entries []PersistedEntry) {
	c.entries = make(map[string]CountEntry, len(entries))
	for _, e := range entries {
		c.entries[e.Path] = CountEntry{Checksum: e.Checksum, Count: e.Count}
	}
}
