// Package fs provides file system adapters for walking and fingerprinting
// source trees.
package fs

import (
	"context"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/ctxpack/ctxpack/internal/core/domain"
	"github.com/ctxpack/ctxpack/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Scanner = (*Scanner)(nil)

// alwaysSkipDirectories are directories that are never scanned.
var alwaysSkipDirectories = map[string]bool{
	".git":              true,
	".jj":               true,
	"node_modules":      true,
	domain.CacheDirName: true,
}

// Scanner walks a profile root and fingerprints every regular file,
// producing the full replacement snapshot the engine diffs against.
type Scanner struct{}

// NewScanner creates a new Scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Scan implements ports.Scanner. Hashing runs on a bounded group of
// goroutines; files that disappear or become unreadable mid-walk are
// skipped rather than failing the scan.
func (s *Scanner) Scan(ctx context.Context, root string, excludes []string) (domain.Snapshot, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return domain.Snapshot{}, zerr.With(zerr.Wrap(err, domain.ErrScanFailed.Error()), "root", root)
	}

	var paths []string
	walkErr := filepath.WalkDir(rootAbs, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			// Skip unreadable directories, keep walking.
			return nil //nolint:nilerr // intentional
		}
		if d.IsDir() {
			if path != rootAbs && shouldSkip(d.Name(), excludes) {
				return iofs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || shouldSkip(d.Name(), excludes) {
			return nil
		}
		rel, relErr := filepath.Rel(rootAbs, path)
		if relErr != nil {
			return nil //nolint:nilerr // intentional
		}
		paths = append(paths, rel)
		return nil
	})
	if walkErr != nil {
		return domain.Snapshot{}, zerr.With(zerr.Wrap(walkErr, domain.ErrScanFailed.Error()), "root", rootAbs)
	}

	fps := make([]domain.Fingerprint, len(paths))
	ok := make([]bool, len(paths))

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, rel := range paths {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fp, err := FingerprintFile(rootAbs, rel)
			if err != nil {
				// The file vanished or turned unreadable between the walk
				// and the hash; leave it out of the snapshot.
				return nil //nolint:nilerr // intentional
			}
			mu.Lock()
			fps[i] = fp
			ok[i] = true
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Snapshot{}, zerr.Wrap(err, domain.ErrScanFailed.Error())
	}

	out := make([]domain.Fingerprint, 0, len(fps))
	for i := range fps {
		if ok[i] {
			out = append(out, fps[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	return domain.Snapshot{Fingerprints: out, ScannedAt: time.Now()}, nil
}

// FingerprintFile stats and hashes one file, returning its fingerprint with
// the path kept relative to root.
func FingerprintFile(root, rel string) (domain.Fingerprint, error) {
	full := filepath.Join(root, rel)

	info, err := os.Stat(full)
	if err != nil {
		return domain.Fingerprint{}, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", rel)
	}

	sum, err := HashFile(full)
	if err != nil {
		return domain.Fingerprint{}, err
	}

	return domain.Fingerprint{
		Path:     rel,
		Checksum: sum,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
	}, nil
}

// HashFile computes the xxhash64 of a file's content, rendered %016x.
func HashFile(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}
	return domain.FormatChecksum(hasher.Sum64()), nil
}

// shouldSkip reports whether an entry name is excluded from scanning.
func shouldSkip(name string, excludes []string) bool {
	if alwaysSkipDirectories[name] {
		return true
	}
	for _, pattern := range excludes {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
