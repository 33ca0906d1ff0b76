package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/blocoeth/eth2-keyvault/internal/cli"
	"github.com/blocoeth/eth2-keyvault/internal/config"
	"github.com/blocoeth/eth2-keyvault/pkg/errors"
)

// Version information (set during build)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, cancel := setupGracefulShutdown()
	defer cancel()

	cfg := config.DefaultConfig()
	cfg.LoadFromEnvironment()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	app := cli.NewApplication(cfg, Version, GitCommit, BuildTime)

	if err := app.ExecuteContext(ctx); err != nil {
		handleError(err)
		os.Exit(1)
	}
}

func setupGracefulShutdown() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Fprintf(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...\n")
		cancel()
	}()

	return ctx, cancel
}

func handleError(err error) {
	if blocoErr, ok := err.(*errors.BlocoError); ok {
		fmt.Fprintf(os.Stderr, "Error: %s\n", blocoErr.Error())
		if len(blocoErr.Context) > 0 {
			fmt.Fprintf(os.Stderr, "Context:\n")
			for key, value := range blocoErr.Context {
				fmt.Fprintf(os.Stderr, "  %s: %v\n", key, value)
			}
		}
		if os.Getenv("ETH2VAULT_DEBUG") != "" && len(blocoErr.Stack) > 0 {
			fmt.Fprintf(os.Stderr, "Stack trace:\n")
			for _, frame := range blocoErr.Stack {
				fmt.Fprintf(os.Stderr, "  %s\n", frame)
			}
		}
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
