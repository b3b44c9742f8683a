package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/kestrelworks/archgraph-cli/cmd"
	"github.com/kestrelworks/archgraph-cli/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer observability.Sync()

	cmd.Execute(ctx)
}
