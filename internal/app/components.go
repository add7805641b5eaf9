package app

import "github.com/ctxpack/ctxpack/internal/core/ports"

// Components bundles the resolved application graph for the commands. The
// watcher is handed out separately from App because only the interactive
// command runs one.
type Components struct {
	App     *App
	Logger  ports.Logger
	Scanner ports.Scanner
	Store   ports.CacheStore
	Watcher ports.Watcher
}
