package di

import (
	"context"

	"go.uber.org/dig"

	"github.com/mikey/inbox-labeler/internal/auth"
	"github.com/mikey/inbox-labeler/internal/config"
	"github.com/mikey/inbox-labeler/internal/core"
	"github.com/mikey/inbox-labeler/internal/factory"
	"github.com/mikey/inbox-labeler/internal/logging"
	"github.com/mikey/inbox-labeler/internal/metrics"
	"github.com/mikey/inbox-labeler/internal/ports"
)

// BuildContainer creates and configures the dependency injection container for the daemon
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register metrics
	if err := container.Provide(metrics.NewRecorder); err != nil {
		return nil, err
	}
	if err := container.Provide(func(r *metrics.Recorder) core.Metrics { return r }); err != nil {
		return nil, err
	}

	// Register text generator, created eagerly so misconfiguration fails at startup
	if err := container.Provide(func(f *factory.LLMFactory) (core.TextGenerator, error) {
		return f.CreateTextGenerator(context.Background())
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

	// Register HTTP frontend
	if err := container.Provide(factory.NewServerFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(
		f *factory.ServerFactory,
		labels core.LabelStore,
		labeler *core.InboxLabeler,
		drafter *core.ReplyDrafter,
		sessions core.MailSessions,
		authenticator *auth.Authenticator,
		recorder *metrics.Recorder,
	) ports.Frontend {
		return f.CreateFrontend(labels, labeler, drafter, sessions, authenticator, recorder)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
