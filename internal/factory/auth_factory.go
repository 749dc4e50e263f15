package factory

import (
	"errors"

	"github.com/mikey/inbox-labeler/internal/auth"
	"github.com/mikey/inbox-labeler/internal/config"
	"go.uber.org/zap"
)

// AuthFactory creates the OAuth authenticator
type AuthFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewAuthFactory creates a new auth factory
func NewAuthFactory(cfg *config.Config, logger *zap.Logger) *AuthFactory {
	return &AuthFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateAuthenticator returns nil without error when no client secrets
// file exists; mail operations then report that a login is required
func (f *AuthFactory) CreateAuthenticator() (*auth.Authenticator, error) {
	oauthCfg := f.cfg.GetOAuth()

	a, err := auth.NewAuthenticator(
		oauthCfg.ClientSecretsFile,
		oauthCfg.RedirectURL,
		auth.NewFileStore(oauthCfg.TokenFile),
		f.logger,
	)
	if errors.Is(err, auth.ErrNotConfigured) {
		f.logger.Warn("OAuth client secrets missing, mail access disabled",
			zap.String("file", oauthCfg.ClientSecretsFile))
		return nil, nil
	}
	return a, err
}
