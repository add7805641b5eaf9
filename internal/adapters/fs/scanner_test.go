package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctxpack/ctxpack/internal/adapters/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestScanner_Scan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "internal/util.go", "package internal\n")
	writeFile(t, root, "README.md", "# readme\n")
	writeFile(t, root, ".git/config", "ignored")
	writeFile(t, root, "node_modules/pkg/index.js", "ignored")
	writeFile(t, root, ".ctxpack/cache.json", "ignored")
	writeFile(t, root, "debug.log", "ignored by exclude")

	s := fs.NewScanner()
	snap, err := s.Scan(context.Background(), root, []string{"*.log"})
	require.NoError(t, err)

	paths := snap.Paths()
	assert.Equal(t, []string{"README.md", "internal/util.go", "main.go"}, paths, "paths are relative and sorted")
	assert.False(t, snap.ScannedAt.IsZero())

	for _, fp := range snap.Fingerprints {
		assert.Len(t, fp.Checksum, 16, "xxhash64 rendered %%016x")
		assert.Positive(t, fp.Size)
		assert.False(t, fp.ModTime.IsZero())
	}
}

func TestScanner_Scan_ChecksumTracksContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "version one")

	s := fs.NewScanner()

	snap1, err := s.Scan(context.Background(), root, nil)
	require.NoError(t, err)
	snap2, err := s.Scan(context.Background(), root, nil)
	require.NoError(t, err)
	assert.Equal(t, snap1.Fingerprints[0].Checksum, snap2.Fingerprints[0].Checksum,
		"unchanged content has a stable checksum")

	writeFile(t, root, "a.txt", "version two")
	snap3, err := s.Scan(context.Background(), root, nil)
	require.NoError(t, err)
	assert.NotEqual(t, snap1.Fingerprints[0].Checksum, snap3.Fingerprints[0].Checksum)
}

func TestScanner_Scan_ExcludedDirectoryIsNotEntered(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.go", "x")
	writeFile(t, root, "vendor/dep/dep.go", "x")

	s := fs.NewScanner()
	snap, err := s.Scan(context.Background(), root, []string{"vendor"})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.go"}, snap.Paths())
}

func TestScanner_Scan_EmptyRoot(t *testing.T) {
	s := fs.NewScanner()
	snap, err := s.Scan(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)
	assert.Empty(t, snap.Fingerprints)
}

func TestHashFile_MatchesKnownLayout(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "f.txt", "hello")

	sum1, err := fs.HashFile(filepath.Join(root, "f.txt"))
	require.NoError(t, err)
	sum2, err := fs.HashFile(filepath.Join(root, "f.txt"))
	require.NoError(t, err)

	assert.Equal(t, sum1, sum2)
	assert.Regexp(t, "^[0-9a-f]{16}$", sum1)
}

func TestFingerprintFile_MissingFile(t *testing.T) {
	_, err := fs.FingerprintFile(t.TempDir(), "missing.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file")
}
