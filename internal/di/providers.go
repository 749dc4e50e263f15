package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/inbox-labeler/internal/adapters/gmail"
	"github.com/mikey/inbox-labeler/internal/auth"
	"github.com/mikey/inbox-labeler/internal/config"
	"github.com/mikey/inbox-labeler/internal/core"
	"github.com/mikey/inbox-labeler/internal/factory"
	"github.com/mikey/inbox-labeler/internal/utils"
	"github.com/mikey/inbox-labeler/internal/whitelist"
)

// provideCore registers the pipeline shared by the daemon and the CLI.
// The container must already provide config, logger, core.Metrics,
// core.TextGenerator and core.LabelStore.
func provideCore(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewAuthFactory); err != nil {
		return err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return err
	}

	// Register rule engine
	if err := container.Provide(core.NewRuleEngine); err != nil {
		return err
	}

	// Register entertainment classifier
	if err := container.Provide(func(
		gen core.TextGenerator,
		cfg *config.Config,
		logger *zap.Logger,
		m core.Metrics,
	) *core.EntertainmentClassifier {
		return core.NewEntertainmentClassifier(gen, logger, cfg.GetClassifier().BatchSize, m)
	}); err != nil {
		return err
	}

	// Register classification service
	if err := container.Provide(func(
		labels core.LabelStore,
		rules *core.RuleEngine,
		classifier *core.EntertainmentClassifier,
		cfg *config.Config,
		logger *zap.Logger,
		m core.Metrics,
	) *core.ClassificationService {
		return core.NewClassificationService(labels, rules, classifier, logger, cfg.GetLabeling().SkipCategories, m)
	}); err != nil {
		return err
	}

	// Register ignored domains
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *whitelist.Checker {
		return whitelist.NewChecker(cfg.GetLabeling().IgnoredDomains, logger)
	}); err != nil {
		return err
	}

	// Register inbox labeler
	if err := container.Provide(func(
		service *core.ClassificationService,
		ignored *whitelist.Checker,
		cfg *config.Config,
		logger *zap.Logger,
	) *core.InboxLabeler {
		labeling := cfg.GetLabeling()
		return core.NewInboxLabeler(service, ignored, logger, labeling.DomainWindow, labeling.BatchSize)
	}); err != nil {
		return err
	}

	// Register reply drafter
	if err := container.Provide(func(
		gen core.TextGenerator,
		processor *utils.TextProcessor,
		cfg *config.Config,
		logger *zap.Logger,
		m core.Metrics,
	) (*core.ReplyDrafter, error) {
		drafter, err := cfg.GetDrafter()
		if err != nil {
			return nil, err
		}
		return core.NewReplyDrafter(gen, processor, logger, core.DrafterOptions{
			SenderFilter:  drafter.SenderFilter,
			MaxAge:        drafter.MaxAge,
			PreviewLength: drafter.PreviewLength,
			MaxBodySize:   drafter.MaxBodySize,
			BatchSize:     drafter.BatchSize,
		}, m), nil
	}); err != nil {
		return err
	}

	// Register authenticator and mail sessions
	if err := container.Provide(func(f *factory.AuthFactory) (*auth.Authenticator, error) {
		return f.CreateAuthenticator()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(a *auth.Authenticator, logger *zap.Logger) core.MailSessions {
		return gmail.NewSessionFactory(a, logger)
	}); err != nil {
		return err
	}

	return nil
}
