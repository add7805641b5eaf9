// Package main is the entry point for the ctxpack tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ctxpack/ctxpack/cmd/ctxpack/commands"
	"github.com/ctxpack/ctxpack/internal/app"
	"github.com/grindlemire/graft"

	_ "github.com/ctxpack/ctxpack/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// The logger is not available if initialization itself failed.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	cli := commands.New(components)

	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return 1
	}
	return 0
}
