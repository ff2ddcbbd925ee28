package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"reviewscout/internal/cli"
	"reviewscout/pkg/config"
	"reviewscout/pkg/logging"
)

func main() {
	logger := logging.NewLogger()
	config.LoadEnv(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
