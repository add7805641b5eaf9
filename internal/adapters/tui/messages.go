package tui

import (
	"time"

	"github.com/ctxpack/ctxpack/internal/adapters/archive"
	"github.com/ctxpack/ctxpack/internal/core/domain"
)

// MsgTick drives engine polling while the UI owns the goroutine.
type MsgTick struct {
	At time.Time
}

// MsgScanned carries a completed snapshot scan.
type MsgScanned struct {
	Snapshot domain.Snapshot
	Err      error
}

// MsgFilesChanged is sent when the watcher coalesces a batch of file system
// events under the profile root.
type MsgFilesChanged struct {
	Paths []string
}

// MsgWatchClosed is sent when the watch channel closes.
type MsgWatchClosed struct{}

// MsgPacked carries the result of an archive write.
type MsgPacked struct {
	Result archive.Result
	Err    error
}
