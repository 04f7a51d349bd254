// Package main provides the docs CLI for markdown documentation tooling.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/TroyWilliams3687/md-tools/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
