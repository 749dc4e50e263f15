package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/mikey/inbox-labeler/internal/core"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
)

var (
	// ErrNotConfigured is returned when the client secrets file is missing
	ErrNotConfigured = errors.New("oauth client secrets not configured")
	// ErrStateMismatch is returned for an unknown or expired login state
	ErrStateMismatch = errors.New("oauth state mismatch")
)

// Scopes requested at login
var Scopes = []string{
	gmail.GmailModifyScope,
	gmail.GmailLabelsScope,
	gmail.GmailComposeScope,
	"https://www.googleapis.com/auth/userinfo.email",
	"openid",
}

const stateTTL = 10 * time.Minute

// Authenticator runs the OAuth login flow and hands out authorized clients
type Authenticator struct {
	config *oauth2.Config
	store  *FileStore
	logger *zap.Logger

	mu     sync.Mutex
	states map[string]time.Time
}

// NewAuthenticator reads the Google client secrets file and creates an authenticator
func NewAuthenticator(secretsFile, redirectURL string, store *FileStore, logger *zap.Logger) (*Authenticator, error) {
	data, err := os.ReadFile(secretsFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", ErrNotConfigured, secretsFile)
		}
		return nil, fmt.Errorf("failed to read client secrets: %w", err)
	}

	cfg, err := google.ConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client secrets: %w", err)
	}
	if redirectURL != "" {
		cfg.RedirectURL = redirectURL
	}

	return NewAuthenticatorFromConfig(cfg, store, logger), nil
}

// NewAuthenticatorFromConfig creates an authenticator around an existing oauth2 config
func NewAuthenticatorFromConfig(cfg *oauth2.Config, store *FileStore, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		config: cfg,
		store:  store,
		logger: logger,
		states: make(map[string]time.Time),
	}
}

// AuthURL returns the consent page URL with a fresh state value
func (a *Authenticator) AuthURL() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	state := hex.EncodeToString(buf)

	a.mu.Lock()
	a.pruneStates()
	a.states[state] = time.Now()
	a.mu.Unlock()

	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// Exchange trades an authorization code for a token and persists it
func (a *Authenticator) Exchange(ctx context.Context, state, code string) error {
	a.mu.Lock()
	issued, ok := a.states[state]
	delete(a.states, state)
	a.mu.Unlock()

	if !ok || time.Since(issued) > stateTTL {
		return ErrStateMismatch
	}

	tok, err := a.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}
	if err := a.store.Save(CredentialFromToken(tok)); err != nil {
		return err
	}

	a.logger.Info("Stored new mail credential", zap.String("path", a.store.Path()))
	return nil
}

// TokenSource returns a token source that refreshes expired tokens and
// persists every new token it sees
func (a *Authenticator) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	cred, err := a.store.Load()
	if err != nil {
		return nil, err
	}

	return &persistingSource{
		base:   a.config.TokenSource(ctx, cred.Token()),
		store:  a.store,
		logger: a.logger,
		last:   cred.AccessToken,
	}, nil
}

// Client returns an HTTP client authorized with the stored credential
func (a *Authenticator) Client(ctx context.Context) (*http.Client, error) {
	ts, err := a.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	// Surface refresh failures now instead of on the first API call
	if _, err := ts.Token(); err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, ts), nil
}

func (a *Authenticator) pruneStates() {
	for s, issued := range a.states {
		if time.Since(issued) > stateTTL {
			delete(a.states, s)
		}
	}
}

type persistingSource struct {
	base   oauth2.TokenSource
	store  *FileStore
	logger *zap.Logger

	mu   sync.Mutex
	last string
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrReauthRequired, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		if err := s.store.Save(CredentialFromToken(tok)); err != nil {
			s.logger.Warn("Failed to persist refreshed credential", zap.Error(err))
		} else {
			s.logger.Debug("Persisted refreshed credential")
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}
