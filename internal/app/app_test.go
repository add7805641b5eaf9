package app_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ctxpack/ctxpack/internal/adapters/cachestore"
	"github.com/ctxpack/ctxpack/internal/adapters/fs"
	"github.com/ctxpack/ctxpack/internal/app"
	"github.com/ctxpack/ctxpack/internal/core/domain"
	"github.com/ctxpack/ctxpack/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const packfile = `version: "1"
profiles:
  default:
    root: src
    output: out/context.txt
    excludes: ["out"]
  docs:
    root: docs
`

func newTestApp(t *testing.T) (*app.App, string) {
	t.Helper()

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	dir := t.TempDir()
	writeFile(t, dir, domain.ConfigFileName, packfile)
	writeFile(t, dir, filepath.Join("src", "main.go"), "package main\n")
	writeFile(t, dir, filepath.Join("src", "util.go"), "hello world\n")
	writeFile(t, dir, filepath.Join("docs", "readme.md"), "# docs\n")

	return app.New(logger, fs.NewScanner(), cachestore.NewStore()), dir
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func TestApp_Profiles(t *testing.T) {
	a, dir := newTestApp(t)

	// Discovery walks up from nested directories.
	profiles, configDir, err := a.Profiles(filepath.Join(dir, "src"))
	require.NoError(t, err)
	assert.Equal(t, dir, configDir)
	require.Len(t, profiles, 2)
	assert.Equal(t, "default", profiles[0].Name)
	assert.Equal(t, filepath.Join(dir, "src"), profiles[0].Root)
	assert.Equal(t, "docs", profiles[1].Name)
}

func TestApp_Profile(t *testing.T) {
	a, dir := newTestApp(t)

	p, err := a.Profile(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "default", p.Name)

	p, err = a.Profile(dir, "docs")
	require.NoError(t, err)
	assert.Equal(t, "docs", p.Name)

	_, err = a.Profile(dir, "missing")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestApp_Pack(t *testing.T) {
	a, dir := newTestApp(t)

	res, err := a.Pack(t.Context(), dir, "default")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Files)
	assert.Zero(t, res.Skipped)

	data, err := os.ReadFile(res.Output)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "==== main.go ====")
	assert.Contains(t, content, "package main")
	assert.Contains(t, content, "==== util.go ====")

	// Closing the session persists the cache for the next run.
	assert.FileExists(t, filepath.Join(dir, "src", domain.CacheDirName, domain.CacheFileName))
}

func TestApp_Pack_SecondRunHitsCache(t *testing.T) {
	a, dir := newTestApp(t)

	first, err := a.Pack(t.Context(), dir, "default")
	require.NoError(t, err)
	second, err := a.Pack(t.Context(), dir, "default")
	require.NoError(t, err)
	assert.Equal(t, first.Files, second.Files)
}

func TestApp_Pack_SkipsBinary(t *testing.T) {
	a, dir := newTestApp(t)
	writeFile(t, dir, filepath.Join("src", "blob.bin"), "bin\x00ary")

	res, err := a.Pack(t.Context(), dir, "default")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Files)
	assert.Equal(t, []string{"blob.bin"}, res.Skipped)
}

func TestApp_Pack_NoConfig(t *testing.T) {
	a, _ := newTestApp(t)

	_, err := a.Pack(t.Context(), t.TempDir(), "")
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestApp_Clean(t *testing.T) {
	a, dir := newTestApp(t)

	_, err := a.Pack(t.Context(), dir, "default")
	require.NoError(t, err)
	cacheDir := filepath.Join(dir, "src", domain.CacheDirName)
	require.DirExists(t, cacheDir)

	require.NoError(t, a.Clean(dir, "default"))
	assert.NoDirExists(t, cacheDir)
}

func TestApp_SessionRoundTrip(t *testing.T) {
	a, dir := newTestApp(t)

	p, err := a.Profile(dir, "default")
	require.NoError(t, err)

	snap, err := a.Scan(t.Context(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "util.go"}, snap.Paths())

	coord := a.Session(p)
	defer coord.Close()
	assert.Equal(t, 2, coord.SetSnapshot(t.Context(), snap))
}
