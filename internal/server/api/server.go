// Package api implements the thin HTTP/JSON shell over the auth service.
// It decodes requests, maps domain errors to statuses, and nothing else.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dsmirnov/authd/internal/logging"
	"github.com/dsmirnov/authd/internal/server/models"
	"github.com/dsmirnov/authd/internal/server/services"
)

// AuthService is the boundary the shell calls into.
type AuthService interface {
	Register(ctx context.Context, username, password, name string, email, phone *string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, sessionToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, sessionToken string) error
	ForgotPassword(ctx context.Context, username string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type Server struct {
	address string
	logger  logging.Logger
	auth    AuthService
	router  chi.Router
}

func NewServer(address string, logger logging.Logger, auth AuthService) *Server {
	s := &Server{
		address: address,
		logger:  logger.With("module", "http_server"),
		auth:    auth,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.requestLogMiddleware)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/logout", s.handleLogout)
		r.Post("/forgot-password", s.handleForgotPassword)
		r.Post("/reset-password", s.handleResetPassword)
		r.Get("/ping", s.handlePing)
	})

	s.router = r
	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	select {
	case <-ctx.Done():
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
