// Package tokenizer provides the per-file computations the recompute engine
// schedules: heuristic token counting and content search.
package tokenizer

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"github.com/ctxpack/ctxpack/internal/core/domain"
	"github.com/ctxpack/ctxpack/internal/core/ports"
	"go.trai.ch/zerr"
)

// binaryProbeSize is how much of a file is inspected for NUL bytes before
// deciding it is binary.
const binaryProbeSize = 8 * 1024

var _ ports.Computer = (*Counter)(nil)

// Counter estimates token counts for files under a fixed root. Binary files
// count as zero tokens; that is a successful result, not an error, so the
// cache remembers it and the file is not recounted until its content changes.
type Counter struct {
	root string
}

// NewCounter creates a Counter rooted at root. Paths handed to Compute are
// interpreted relative to it.
func NewCounter(root string) *Counter {
	return &Counter{root: root}
}

// Compute implements ports.Computer.
func (c *Counter) Compute(_ context.Context, path string) (ports.ComputeResult, error) {
	data, checksum, err := readChecksummed(filepath.Join(c.root, path))
	if err != nil {
		return ports.ComputeResult{}, zerr.With(err, "path", path)
	}
	if IsBinary(data) {
		return ports.ComputeResult{Checksum: checksum, Count: 0}, nil
	}
	return ports.ComputeResult{Checksum: checksum, Count: CountTokens(data)}, nil
}

var _ ports.Computer = (*Matcher)(nil)

// Matcher counts case-insensitive occurrences of a fixed query in files
// under a root. A fresh Matcher is built per search; its results live only
// as long as the search's transient cache.
type Matcher struct {
	root  string
	query []byte
}

// NewMatcher creates a Matcher for query rooted at root.
func NewMatcher(root, query string) *Matcher {
	return &Matcher{root: root, query: bytes.ToLower([]byte(query))}
}

// Compute implements ports.Computer.
func (m *Matcher) Compute(_ context.Context, path string) (ports.ComputeResult, error) {
	data, checksum, err := readChecksummed(filepath.Join(m.root, path))
	if err != nil {
		return ports.ComputeResult{}, zerr.With(err, "path", path)
	}
	if len(m.query) == 0 || IsBinary(data) {
		return ports.ComputeResult{Checksum: checksum, Count: 0}, nil
	}
	return ports.ComputeResult{Checksum: checksum, Count: int64(bytes.Count(bytes.ToLower(data), m.query))}, nil
}

// readChecksummed reads a whole file and hashes it in the same pass, so the
// checksum describes exactly the bytes that were counted.
func readChecksummed(full string) ([]byte, string, error) {
	f, err := os.Open(full) //nolint:gosec // Path is joined under the profile root
	if err != nil {
		return nil, "", zerr.Wrap(err, domain.ErrFileOpenFailed.Error())
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	data, err := io.ReadAll(io.TeeReader(bufio.NewReader(f), hasher))
	if err != nil {
		return nil, "", zerr.Wrap(err, domain.ErrFileHashFailed.Error())
	}
	return data, domain.FormatChecksum(hasher.Sum64()), nil
}

// IsBinary reports whether data looks binary: a NUL byte anywhere in the
// first 8 KiB.
func IsBinary(data []byte) bool {
	probe := data
	if len(probe) > binaryProbeSize {
		probe = probe[:binaryProbeSize]
	}
	return bytes.IndexByte(probe, 0) >= 0
}

// CountTokens estimates how many tokens a text encodes to. Runs of word
// characters count one token per four characters (rounded up); every other
// non-space character counts as a token of its own.
func CountTokens(data []byte) int64 {
	var tokens int64
	wordLen := 0

	flush := func() {
		if wordLen > 0 {
			tokens += int64((wordLen + 3) / 4)
			wordLen = 0
		}
	}

	for _, b := range data {
		r := rune(b)
		switch {
		case b >= 0x80 || isWordRune(r):
			wordLen++
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			tokens++
		}
	}
	flush()
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
