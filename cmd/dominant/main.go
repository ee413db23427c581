// Dominant extracts dominant colours from images and tracks them across video frames.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/setanarut/dominant/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
