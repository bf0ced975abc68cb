// Package main is the entrypoint for travelctl, the travel API command-line client.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/travelog/travelog/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
