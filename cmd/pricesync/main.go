// Package main provides the entry point for the pricesync CLI tool.
package main

import (
	"context"
	"os"

	"github.com/prontoxi/pricesync/cmd/pricesync/app"
	"github.com/prontoxi/pricesync/cmd/pricesync/cmd/export"
	"github.com/prontoxi/pricesync/cmd/pricesync/cmd/run"
	"github.com/prontoxi/pricesync/cmd/pricesync/cmd/version"
)

// Version information populated by the release build.
var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

func main() {
	application, err := app.New(buildVersion, buildCommit, buildDate)
	if err != nil {
		app.ExitOnError(err)
	}

	// Cancel the run on SIGINT/SIGTERM; the engine aborts before the
	// next store access and the baseline stays consistent.
	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	err = application.Execute(ctx, os.Args[1:],
		run.New(application),
		export.New(application),
		version.New(application),
	)
	app.ExitOnError(err)
}
