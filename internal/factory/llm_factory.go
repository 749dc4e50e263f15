package factory

import (
	"context"
	"fmt"

	"github.com/mikey/inbox-labeler/internal/adapters/bedrock"
	"github.com/mikey/inbox-labeler/internal/adapters/breaker"
	"github.com/mikey/inbox-labeler/internal/adapters/gemini"
	"github.com/mikey/inbox-labeler/internal/adapters/openai"
	"github.com/mikey/inbox-labeler/internal/config"
	"github.com/mikey/inbox-labeler/internal/core"
	"go.uber.org/zap"
)

// LLMFactory creates text generators
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTextGenerator creates the configured provider's generator, wrapped
// in a circuit breaker when enabled
func (f *LLMFactory) CreateTextGenerator(ctx context.Context) (core.TextGenerator, error) {
	provider := f.cfg.GetLLM().Provider

	var (
		gen core.TextGenerator
		err error
	)
	switch provider {
	case "gemini":
		gen, err = gemini.NewFactory(f.cfg.GetGemini(), f.logger).CreateClient()
	case "openai":
		gen, err = openai.NewFactory(f.cfg.GetOpenAI(), f.logger).CreateClient()
	case "bedrock":
		gen, err = bedrock.NewFactory(f.cfg.GetBedrock(), f.logger).CreateClient(ctx)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}

	breakerCfg, err := f.cfg.GetBreaker()
	if err != nil {
		return nil, err
	}
	if !breakerCfg.Enabled {
		return gen, nil
	}

	f.logger.Debug("Wrapping text generator in circuit breaker",
		zap.String("provider", provider),
		zap.Int("max_failures", breakerCfg.MaxFailures),
		zap.Duration("timeout", breakerCfg.Timeout))
	return breaker.NewGenerator(gen, breakerCfg.MaxFailures, breakerCfg.Timeout, f.logger), nil
}
