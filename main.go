package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ObiAU/newsdigest/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cli.NewRootCommand(cli.Dependencies{}).ExecuteContext(ctx); err != nil {
		slog.Error("newsdigest failed", "error", err)
		cancel()
		os.Exit(1)
	}
}
