// Package build carries version information stamped in at link time.
package build

// Version is the release version, "dev" for unstamped local builds.
var Version = "dev"

// Commit is the git commit the binary was built from.
var Commit = "unknown"
