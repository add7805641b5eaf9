// Package cachestore persists the token-count cache as a JSON file under the
// profile's .ctxpack directory.
package cachestore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ctxpack/ctxpack/internal/core/domain"
	"github.com/ctxpack/ctxpack/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CacheStore = (*Store)(nil)

// Store reads and writes cache snapshots. Saves go through a temp file and
// rename so a crash mid-write never leaves a truncated cache behind.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Load implements ports.CacheStore. A missing file is a cold start, not an
// error: it returns (nil, nil).
func (s *Store) Load(path string) ([]domain.PersistedEntry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from the profile
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", path)
	}

	var entries []domain.PersistedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "path", path)
	}
	return entries, nil
}

// Save implements ports.CacheStore.
func (s *Store) Save(path string, entries []domain.PersistedEntry) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "dir", dir)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	return nil
}
