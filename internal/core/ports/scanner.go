package ports

import (
	"context"

	"github.com/ctxpack/ctxpack/internal/core/domain"
)

// Scanner produces the authoritative fingerprint snapshot for a profile
// root. Each delivery is a full replacement of the working set, never an
// incremental add/remove diff.
//
//go:generate mockgen -source=scanner.go -destination=mocks/mock_scanner.go -package=mocks
type Scanner interface {
	// Scan walks root, skipping excluded entries, and fingerprints every
	// regular file found. Unreadable files are omitted from the snapshot.
	Scan(ctx context.Context, root string, excludes []string) (domain.Snapshot, error)
}
