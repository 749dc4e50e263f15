package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mikey/inbox-labeler/internal/core"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// LoginFlow is the OAuth login collaborator
type LoginFlow interface {
	AuthURL() (string, error)
	Exchange(ctx context.Context, state, code string) error
}

// Server is the domain management and inbox action HTTP surface
type Server struct {
	store         core.LabelStore
	labeler       *core.InboxLabeler
	drafter       *core.ReplyDrafter
	sessions      core.MailSessions
	login         LoginFlow
	metrics       http.Handler
	logger        *zap.Logger
	listenAddress string

	router     chi.Router
	httpServer *http.Server
}

// NewServer creates a new HTTP server. login and metrics may be nil.
func NewServer(
	store core.LabelStore,
	labeler *core.InboxLabeler,
	drafter *core.ReplyDrafter,
	sessions core.MailSessions,
	login LoginFlow,
	metrics http.Handler,
	logger *zap.Logger,
	listenAddress string,
) *Server {
	s := &Server{
		store:         store,
		labeler:       labeler,
		drafter:       drafter,
		sessions:      sessions,
		login:         login,
		metrics:       metrics,
		logger:        logger,
		listenAddress: listenAddress,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/domains", func(r chi.Router) {
		r.Get("/", s.handleListDomains)
		r.Post("/", s.handleSaveDomain)
		r.Delete("/{domain}", s.handleDeleteDomain)
	})

	r.Get("/login", s.handleLogin)
	r.Get("/oauth2callback", s.handleCallback)

	r.Post("/label", s.handleLabel)
	r.Post("/draft/{messageID}", s.handleDraft)
	r.Post("/draft_all", s.handleDraftAll)

	return r
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the listen address and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.listenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.listenAddress, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("Starting HTTP server", zap.String("address", ln.Addr().String()))
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()
	return nil
}

// Stop shuts the server down gracefully
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("Stopping HTTP server")
	return s.httpServer.Shutdown(ctx)
}
