// Command dispatchctl sends JSON requests through the dispatch client.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/adamwoolhether/dispatch/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	switch {
	case errors.Is(err, cli.ErrCancelled):
		return 130
	case err != nil:
		return 1
	}

	return 0
}
