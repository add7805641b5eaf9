// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/ctxpack/ctxpack/internal/adapters/cachestore"
	_ "github.com/ctxpack/ctxpack/internal/adapters/fs"
	_ "github.com/ctxpack/ctxpack/internal/adapters/logger"
	_ "github.com/ctxpack/ctxpack/internal/adapters/watcher"
	// Register app nodes.
	_ "github.com/ctxpack/ctxpack/internal/app"
)
