package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/inbox-labeler/internal/config"
	"github.com/mikey/inbox-labeler/internal/core"
	"github.com/mikey/inbox-labeler/internal/factory"
	"github.com/mikey/inbox-labeler/internal/logging"
)

// CLIFlags contains the global flags of the command line tool
type CLIFlags struct {
	ConfigFile string
	Verbose    bool
	JSONLog    bool
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		cfg, err := config.NewFromFile(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Debug("Loaded configuration from file", zap.String("file", used))
		}
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// No metrics endpoint for one-shot commands
	if err := container.Provide(func() core.Metrics { return core.NopMetrics{} }); err != nil {
		return nil, err
	}

	// Register text generator, created on first model call
	if err := container.Provide(func(f *factory.LLMFactory) core.TextGenerator {
		return factory.NewLazyGenerator(f)
	}); err != nil {
		return nil, err
	}

	// Register label store
	if err := container.Provide(func(f *factory.StoreFactory) (core.LabelStore, error) {
		return f.CreateLabelStore(context.Background())
	}); err != nil {
		return nil, err
	}

	if err := provideCore(container); err != nil {
		return nil, err
	}

	return container, nil
}
