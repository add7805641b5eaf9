package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctxpack/ctxpack/cmd/ctxpack/commands"
	"github.com/ctxpack/ctxpack/internal/adapters/cachestore"
	"github.com/ctxpack/ctxpack/internal/adapters/fs"
	"github.com/ctxpack/ctxpack/internal/app"
	"github.com/ctxpack/ctxpack/internal/build"
	"github.com/ctxpack/ctxpack/internal/core/domain"
	"github.com/ctxpack/ctxpack/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestCLI(t *testing.T) *commands.CLI {
	t.Helper()

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	scanner := fs.NewScanner()
	store := cachestore.NewStore()

	return commands.New(&app.Components{
		App:     app.New(logger, scanner, store),
		Logger:  logger,
		Scanner: scanner,
		Store:   store,
	})
}

func writeProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	config := `version: "1"
profiles:
  default:
    root: .
    excludes: ["*.txt", "*.yaml"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte(config), domain.FilePerm))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), domain.FilePerm))
	return dir
}

func TestCommands_Version(t *testing.T) {
	cli := newTestCLI(t)

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(t.Context()))
	assert.Contains(t, buf.String(), "ctxpack version")
	assert.Contains(t, buf.String(), build.Version)
}

func TestCommands_Pack(t *testing.T) {
	cli := newTestCLI(t)
	dir := writeProject(t)

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"pack", dir})

	require.NoError(t, cli.Execute(t.Context()))
	assert.Contains(t, buf.String(), "wrote ")
	assert.Contains(t, buf.String(), "(1 files)")
	assert.FileExists(t, filepath.Join(dir, "context.txt"))
}

func TestCommands_Pack_NoConfig(t *testing.T) {
	cli := newTestCLI(t)

	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"pack", t.TempDir()})

	err := cli.Execute(t.Context())
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestCommands_Clean(t *testing.T) {
	cli := newTestCLI(t)
	dir := writeProject(t)

	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"pack", dir})
	require.NoError(t, cli.Execute(t.Context()))
	require.DirExists(t, filepath.Join(dir, domain.CacheDirName))

	cli.SetArgs([]string{"clean", dir})
	require.NoError(t, cli.Execute(t.Context()))
	assert.NoDirExists(t, filepath.Join(dir, domain.CacheDirName))
}

func TestCommands_Interactive_UnknownProfile(t *testing.T) {
	cli := newTestCLI(t)
	dir := writeProject(t)

	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{dir, "--profile", "missing"})

	err := cli.Execute(t.Context())
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestCommands_Interactive_NotATerminal(t *testing.T) {
	// go test pipes stdout, so the environment check rejects the picker.
	cli := newTestCLI(t)
	dir := writeProject(t)

	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{dir})

	err := cli.Execute(t.Context())
	assert.ErrorIs(t, err, domain.ErrNotTerminal)
}
