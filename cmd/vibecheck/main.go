package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/randomtoy/vibecheck/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.New(os.Stdin, os.Stdout, os.Stderr).RootCommand().ExecuteContext(ctx)
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		os.Exit(130)
	}
	cli.PrintError(os.Stderr, err)
	os.Exit(1)
}
