// Package app implements the application layer for ctxpack.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ctxpack/ctxpack/internal/adapters/archive"
	"github.com/ctxpack/ctxpack/internal/adapters/config"
	"github.com/ctxpack/ctxpack/internal/adapters/tokenizer"
	"github.com/ctxpack/ctxpack/internal/core/domain"
	"github.com/ctxpack/ctxpack/internal/core/ports"
	"github.com/ctxpack/ctxpack/internal/engine/recompute"
	"go.trai.ch/zerr"
)

// settlePollInterval is how often the one-shot path polls for batches while
// waiting for a job to finish.
const settlePollInterval = 10 * time.Millisecond

// App wires profiles, the scan/count engine and the archive writer into the
// operations the commands expose.
type App struct {
	logger  ports.Logger
	scanner ports.Scanner
	store   ports.CacheStore
}

// New creates a new App instance.
func New(logger ports.Logger, scanner ports.Scanner, store ports.CacheStore) *App {
	return &App{
		logger:  logger,
		scanner: scanner,
		store:   store,
	}
}

// Profiles discovers the nearest ctxpack.yaml starting at dir and returns
// its profiles along with the directory the config was found in.
func (a *App) Profiles(dir string) ([]domain.Profile, string, error) {
	configDir, err := config.Discover(dir)
	if err != nil {
		return nil, "", err
	}
	profiles, err := config.Load(configDir)
	if err != nil {
		return nil, "", err
	}
	return profiles, configDir, nil
}

// Profile resolves one profile by name, defaulting to the first.
func (a *App) Profile(dir, name string) (domain.Profile, error) {
	profiles, _, err := a.Profiles(dir)
	if err != nil {
		return domain.Profile{}, err
	}
	return config.Select(profiles, name)
}

// Session builds the engine stack for interactive use of a profile: a
// coordinator counting tokens under the profile root, backed by the
// persisted cache.
func (a *App) Session(profile domain.Profile) *recompute.Coordinator {
	driver := recompute.NewDriver(tokenizer.NewCounter(profile.Root))
	coord := recompute.NewCoordinator(driver, a.logger,
		recompute.WithStore(a.store, profile.CachePath()),
	)
	coord.Load()
	return coord
}

// SearchSession builds a transient engine stack that counts occurrences of
// query under the profile root. Nothing it computes is persisted.
func (a *App) SearchSession(profile domain.Profile, query string) *recompute.Coordinator {
	driver := recompute.NewDriver(tokenizer.NewMatcher(profile.Root, query))
	return recompute.NewCoordinator(driver, a.logger)
}

// Scan produces a fresh snapshot of the profile root.
func (a *App) Scan(ctx context.Context, profile domain.Profile) (domain.Snapshot, error) {
	return a.scanner.Scan(ctx, profile.Root, profile.Excludes)
}

// Pack runs the non-interactive path: scan the profile, bring the cache up
// to date, and write every scanned file into the profile's output archive.
func (a *App) Pack(ctx context.Context, dir, profileName string) (archive.Result, error) {
	profile, err := a.Profile(dir, profileName)
	if err != nil {
		return archive.Result{}, zerr.Wrap(err, domain.ErrPackFailed.Error())
	}

	snap, err := a.Scan(ctx, profile)
	if err != nil {
		return archive.Result{}, zerr.Wrap(err, domain.ErrPackFailed.Error())
	}

	coord := a.Session(profile)
	defer coord.Close()

	coord.SetSelection(snap.Paths())
	coord.SetSnapshot(ctx, snap)
	if err := a.settle(ctx, coord); err != nil {
		return archive.Result{}, zerr.Wrap(err, domain.ErrPackFailed.Error())
	}

	if failed := coord.Failed(); failed > 0 {
		a.logger.Warn(fmt.Sprintf("%d files could not be counted and are packed without token estimates", failed))
	}
	a.logger.Info(fmt.Sprintf("packing %d files, ~%d tokens", len(snap.Fingerprints), coord.Aggregate()))

	writer := archive.NewWriter(profile.Root)
	res, err := writer.Write(profile.OutputPath(), coord.Selection())
	if err != nil {
		return archive.Result{}, zerr.Wrap(err, domain.ErrPackFailed.Error())
	}
	return res, nil
}

// Clean removes a profile's cache directory.
func (a *App) Clean(dir, profileName string) error {
	profile, err := a.Profile(dir, profileName)
	if err != nil {
		return err
	}

	cacheDir := filepath.Join(profile.Root, domain.CacheDirName)
	if err := os.RemoveAll(cacheDir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove cache directory"), "dir", cacheDir)
	}
	a.logger.Info("removed " + cacheDir)
	return nil
}

// settle polls the coordinator until the in-flight job finishes or ctx is
// canceled.
func (a *App) settle(ctx context.Context, coord *recompute.Coordinator) error {
	ticker := time.NewTicker(settlePollInterval)
	defer ticker.Stop()

	for {
		coord.Poll()
		if !coord.Settling() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
