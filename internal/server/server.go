package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cstsite/internal/config"
	"cstsite/internal/mailer"
	"cstsite/internal/store"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
)

// Server wraps the HTTP handlers for the cstsite API.
type Server struct {
	addr         string
	store        *store.Store
	contacts     *ContactService
	applications *ApplicationService
	files        *FileService
	auth         *AuthService
	logger       *slog.Logger

	jwtSecret    []byte
	authFailOpen bool
	devMode      bool

	rateLimitRequests int
	rateLimitWindow   time.Duration

	// clock is overridable in tests.
	clock func() time.Time
}

// New creates a server wired to the store and mailer.
func New(cfg config.Config, st *store.Store, mail *mailer.Mailer, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	secret := []byte(cfg.JWTSecret)
	return &Server{
		addr:              cfg.Addr,
		store:             st,
		contacts:          NewContactService(st, mail),
		applications:      NewApplicationService(st, mail, cfg.ResumeUploadStrict),
		files:             NewFileService(st),
		auth:              NewAuthService(st, secret),
		logger:            logger,
		jwtSecret:         secret,
		authFailOpen:      cfg.AuthFailOpen,
		devMode:           cfg.DevMode,
		rateLimitRequests: cfg.RateLimit.Requests,
		rateLimitWindow:   cfg.RateLimitWindow(),
	}, nil
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return server.ListenAndServe()
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
