package factory

import (
	"github.com/mikey/inbox-labeler/internal/adapters/web"
	"github.com/mikey/inbox-labeler/internal/auth"
	"github.com/mikey/inbox-labeler/internal/config"
	"github.com/mikey/inbox-labeler/internal/core"
	"github.com/mikey/inbox-labeler/internal/metrics"
	"github.com/mikey/inbox-labeler/internal/ports"
	"go.uber.org/zap"
)

// ServerFactory creates the HTTP frontend
type ServerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewServerFactory creates a new server factory
func NewServerFactory(cfg *config.Config, logger *zap.Logger) *ServerFactory {
	return &ServerFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateFrontend wires the HTTP server; authenticator may be nil
func (f *ServerFactory) CreateFrontend(
	labels core.LabelStore,
	labeler *core.InboxLabeler,
	drafter *core.ReplyDrafter,
	sessions core.MailSessions,
	authenticator *auth.Authenticator,
	recorder *metrics.Recorder,
) ports.Frontend {
	var login web.LoginFlow
	if authenticator != nil {
		login = authenticator
	}

	return web.NewServer(
		labels,
		labeler,
		drafter,
		sessions,
		login,
		recorder.Handler(),
		f.logger,
		f.cfg.GetServer().ListenAddress,
	)
}
