// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

/*
Package api wires together the HTTP router, middleware chain, synthesized
resource routes, and the authentication handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/labramp/backbone/internal/platform/config"
	"github.com/labramp/backbone/internal/platform/constants"
	"github.com/labramp/backbone/internal/platform/middleware"
	"github.com/labramp/backbone/internal/resource"
	"github.com/labramp/backbone/internal/users"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups everything the server mounts.
//
// # Usage
//
// New synthesized resources are appended to Resources; no other change to
// server.go is required.
type Handlers struct {
	// Liveness is the /health handler; always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Users handles the login and logout endpoints.
	Users *users.Handler

	// Resources is the catalogue of schema-driven CRUD surfaces.
	Resources []Resource
}

// # Server Initialization

/*
NewServer constructs the chi router with the full middleware chain and
registers every route group.

Description: The middleware order is load-bearing. RequestID runs first so
every later layer can tag its log output; Audit wraps everything below it so
the completion record sees the final status; Authenticate resolves the
session header before any domain handler runs.

Parameters:
  - ctx: Context governing background middleware goroutines.
  - cfg: Application configuration.
  - log: Structured logger shared by all layers.
  - validator: The session resolver behind the X-Session-Token header.
  - h: The handler registry to mount.

Returns:
  - *Server: The runnable server.
  - error: Resource schema or mount configuration problems.
*/
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, validator middleware.SessionValidator, h Handlers) (*Server, error) {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	if cfg.EnableRequestAudit {
		r.Use(middleware.Audit(log, cfg.ServiceName))
	}
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(ctx))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.Authenticate(validator))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated probes, excluded from the audit trail by path.
	r.Get("/status", h.Liveness)
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Synthesized resources and auth endpoints under the versioned prefix.
	var mountErr error
	r.Route(cfg.APIPrefix(), func(apiRouter chi.Router) {
		apiRouter.Mount("/", h.Users.Routes())

		for _, res := range h.Resources {
			methods := res.Methods
			if methods == nil {
				methods = resource.AllMethods
			}
			if err := resource.Mount(apiRouter, res.Schema, res.Store, methods, res.Options...); err != nil {
				mountErr = err
				return
			}
		}
	})
	if mountErr != nil {
		return nil, mountErr
	}

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}, nil
}

// Router exposes the composed handler, used by tests to drive the full chain
// without opening a socket.
func (s *Server) Router() http.Handler { return s.router }

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
