// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CourseBid Contributors

// Package web exposes the identity core over HTTP: registration,
// login, logout, and session-gated access to account data. Responses
// are JSON; failure messages are the fixed, user-facing strings the
// platform renders, never raw storage diagnostics.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/oops"

	"github.com/coursebid/coursebid/internal/access"
	"github.com/coursebid/coursebid/internal/identity"
	"github.com/coursebid/coursebid/internal/observability"
	"github.com/coursebid/coursebid/internal/session"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "coursebid_session"

// Server wires the identity services to HTTP routes.
type Server struct {
	registry *identity.Registry
	verifier *identity.Verifier
	accounts identity.AccountRepository
	sessions *session.Manager
	gate     *access.Gate
	metrics  *observability.Metrics
	logger   *slog.Logger

	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates a Server. All dependencies are required except the
// logger, which falls back to slog.Default.
func NewServer(
	registry *identity.Registry,
	verifier *identity.Verifier,
	accounts identity.AccountRepository,
	sessions *session.Manager,
	gate *access.Gate,
	metrics *observability.Metrics,
	logger *slog.Logger,
) (*Server, error) {
	switch {
	case registry == nil:
		return nil, oops.Code("WEB_INVALID_DEPS").Errorf("registry is required")
	case verifier == nil:
		return nil, oops.Code("WEB_INVALID_DEPS").Errorf("verifier is required")
	case accounts == nil:
		return nil, oops.Code("WEB_INVALID_DEPS").Errorf("accounts repository is required")
	case sessions == nil:
		return nil, oops.Code("WEB_INVALID_DEPS").Errorf("session manager is required")
	case gate == nil:
		return nil, oops.Code("WEB_INVALID_DEPS").Errorf("access gate is required")
	case metrics == nil:
		return nil, oops.Code("WEB_INVALID_DEPS").Errorf("metrics are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		registry: registry,
		verifier: verifier,
		accounts: accounts,
		sessions: sessions,
		gate:     gate,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

// Router builds the HTTP routes. Protected routes go through the gate
// middleware; everything else is the unauthenticated surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/auth/signup", s.handleSignup)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/me", s.handleMe)
	})

	return r
}

// Start begins serving on addr.
func (s *Server) Start(addr string) (<-chan error, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, oops.Code("WEB_LISTEN_FAILED").With("addr", addr).Wrap(err)
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := s.httpServer.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			errCh <- serveErr
		}
	}()

	s.logger.Info("web server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return oops.With("operation", "shutdown_web_server").Wrap(err)
	}
	s.logger.Info("web server stopped")
	return nil
}

// Addr returns the listen address, or "" when not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // response write error means the client went away
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
