// Package main provides the entry point for the ipsync CLI tool.
package main

import (
	"context"
	"os"

	"github.com/edgewatch/ipsync/cmd/ipsync/app"
	"github.com/edgewatch/ipsync/cmd/ipsync/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	application, err := app.New(version, commit, date)
	if err != nil {
		app.ExitOnError(err)
	}

	// Context cancelled on SIGINT/SIGTERM for graceful shutdown
	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	if err := cmd.Execute(ctx, application, os.Args[1:]); err != nil {
		app.ExitOnError(err)
	}
}
