// Package main is the entry point for the weft build orchestrator.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"

	"github.com/weft-build/weft/cmd/weft/commands"
	"github.com/weft-build/weft/internal/app"
	"github.com/weft-build/weft/internal/core/domain"
	_ "github.com/weft-build/weft/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		// Write directly to stderr
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	defer func() {
		if cerr := components.App.Close(); cerr != nil {
			components.Logger.Error(cerr)
		}
	}()

	// 2. Interface - CLI
	cli := commands.New(components.App)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrBuildIncomplete) {
			// The report already names every failed and skipped project.
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
