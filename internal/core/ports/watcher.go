package ports

import "context"

// Watcher reports file system changes under a profile root. Events exist
// only to schedule a rescan; the scanner's next snapshot, not the event
// stream, is the authority on what actually changed.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start begins watching root recursively. Coalesced change batches are
	// delivered on the returned channel until ctx is canceled or Stop is
	// called, after which the channel is closed.
	Start(ctx context.Context, root string) (<-chan []string, error)
	// Stop stops the watcher and releases all resources.
	Stop() error
}
