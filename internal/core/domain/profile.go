package domain

import "path/filepath"

// Configuration and cache file locations.
const (
	// ConfigFileName is the profile configuration file, discovered by walking
	// up from the working directory.
	ConfigFileName = "ctxpack.yaml"
	// CacheDirName is the per-root directory holding persisted engine state.
	CacheDirName = ".ctxpack"
	// CacheFileName is the persisted token count cache inside CacheDirName.
	CacheFileName = "cache.json"

	// DirPerm is the permission mode for created directories.
	DirPerm = 0o755
	// FilePerm is the permission mode for created files.
	FilePerm = 0o644
)

// Profile describes one curated working set: where to scan, what to exclude,
// and where the packed archive goes. Switching profiles invalidates the
// working set and supersedes any running job.
type Profile struct {
	// Name identifies the profile; unique within a config file.
	Name string
	// Root is the directory the scanner walks, absolute after loading.
	Root string
	// Excludes are glob patterns matched against path base names.
	Excludes []string
	// Output is the archive path, relative to Root unless absolute.
	Output string
}

// OutputPath returns the resolved archive destination for the profile.
func (p Profile) OutputPath() string {
	if p.Output == "" {
		return filepath.Join(p.Root, "context.txt")
	}
	if filepath.IsAbs(p.Output) {
		return p.Output
	}
	return filepath.Join(p.Root, p.Output)
}

// CachePath returns the persisted cache location for the profile's root.
func (p Profile) CachePath() string {
	return filepath.Join(p.Root, CacheDirName, CacheFileName)
}
