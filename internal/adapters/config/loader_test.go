package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ctxpack/ctxpack/internal/adapters/config"
	"github.com/ctxpack/ctxpack/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte(content), 0o644))
}

func TestLoad_Profiles(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
version: "1"
profiles:
  docs:
    root: docs
    output: docs-context.txt
  backend:
    root: services/api
    excludes:
      - "*.sql"
      - testdata
`)

	profiles, err := config.Load(dir)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	// Sorted by name.
	assert.Equal(t, "backend", profiles[0].Name)
	assert.Equal(t, filepath.Join(dir, "services/api"), profiles[0].Root)
	assert.Equal(t, []string{"*.sql", "testdata"}, profiles[0].Excludes)

	assert.Equal(t, "docs", profiles[1].Name)
	assert.Equal(t, "docs-context.txt", profiles[1].Output)
}

func TestLoad_DefaultRootIsConfigDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
profiles:
  all: {}
`)

	profiles, err := config.Load(dir)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, dir, profiles[0].Root)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "no profiles",
			content: "version: \"1\"\n",
			wantMsg: "config defines no profiles",
		},
		{
			name:    "invalid yaml",
			content: "profiles: [unclosed",
			wantMsg: "failed to parse config file",
		},
		{
			name:    "invalid profile name",
			content: "profiles:\n  \"bad name!\":\n    root: .\n",
			wantMsg: "profile name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := config.Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestDiscover_WalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "profiles:\n  all: {}\n")
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := config.Discover(nested)
	require.NoError(t, err)

	// t.TempDir may sit behind a symlink (macOS); compare resolved paths.
	wantResolved, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	foundResolved, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	assert.Equal(t, wantResolved, foundResolved)
}

func TestDiscover_NotFound(t *testing.T) {
	_, err := config.Discover(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not find "+domain.ConfigFileName)
}

func TestSelect(t *testing.T) {
	profiles := []domain.Profile{
		{Name: "alpha"},
		{Name: "beta"},
	}

	p, err := config.Select(profiles, "")
	require.NoError(t, err)
	assert.Equal(t, "alpha", p.Name, "empty name selects the first profile")

	p, err = config.Select(profiles, "beta")
	require.NoError(t, err)
	assert.Equal(t, "beta", p.Name)

	_, err = config.Select(profiles, "gamma")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile not found")
}
