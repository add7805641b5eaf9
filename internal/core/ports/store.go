package ports

import "github.com/ctxpack/ctxpack/internal/core/domain"

// CacheStore persists the token count cache across sessions. Entries are
// serialized as an ordered list of {path, checksum, count}; the in-memory
// cache remains authoritative even when a save attempt fails.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type CacheStore interface {
	// Load reads the persisted entries at path.
	// Returns nil, nil if nothing has been persisted yet.
	Load(path string) ([]domain.PersistedEntry, error)

	// Save writes the entries wholesale to path, creating parent
	// directories as needed.
	Save(path string, entries []domain.PersistedEntry) error
}
