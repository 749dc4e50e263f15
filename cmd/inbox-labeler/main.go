package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/inbox-labeler/internal/config"
	"github.com/mikey/inbox-labeler/internal/core"
	"github.com/mikey/inbox-labeler/internal/di"
	"github.com/mikey/inbox-labeler/internal/ports"
	"go.uber.org/dig"
	"go.uber.org/zap"
)

func main() {
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "inbox-labeler: %v\n", dig.RootCause(err))
		os.Exit(1)
	}
}

// run serves the HTTP surface until SIGINT or SIGTERM, then releases the
// model client and the label store
func run(
	cfg *config.Config,
	logger *zap.Logger,
	frontend ports.Frontend,
	generator core.TextGenerator,
	labels core.LabelStore,
) error {
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting inbox-labeler",
		zap.String("llm_provider", cfg.GetLLM().Provider),
		zap.String("store", cfg.GetStore().Type))

	if err := frontend.Start(); err != nil {
		logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}

	<-ctx.Done()
	logger.Info("Shutting down")

	if err := frontend.Stop(); err != nil {
		logger.Error("Failed to stop HTTP server", zap.Error(err))
	}
	if closer, ok := generator.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close model client", zap.Error(err))
		}
	}
	if err := labels.Close(); err != nil {
		logger.Error("Failed to close label store", zap.Error(err))
	}

	logger.Info("Shutdown complete")
	return nil
}
