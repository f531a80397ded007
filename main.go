package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dpshade/foam-notes/internal/cli"
)

var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.New(cli.Options{Version: version}).Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
