package gmail

import (
	"context"
	"fmt"

	"github.com/mikey/inbox-labeler/internal/auth"
	"github.com/mikey/inbox-labeler/internal/core"
	"go.uber.org/zap"
)

// SessionFactory opens Gmail mail services with the stored credential
type SessionFactory struct {
	auth   *auth.Authenticator
	logger *zap.Logger
}

// NewSessionFactory creates a new session factory
func NewSessionFactory(authenticator *auth.Authenticator, logger *zap.Logger) *SessionFactory {
	return &SessionFactory{
		auth:   authenticator,
		logger: logger,
	}
}

// Open returns a mail service, or core.ErrReauthRequired when the
// credential is missing or cannot be refreshed
func (f *SessionFactory) Open(ctx context.Context) (core.MailService, error) {
	if f.auth == nil {
		return nil, fmt.Errorf("%w: %v", core.ErrReauthRequired, auth.ErrNotConfigured)
	}
	client, err := f.auth.Client(ctx)
	if err != nil {
		return nil, err
	}
	return NewMailService(ctx, client, f.logger)
}
