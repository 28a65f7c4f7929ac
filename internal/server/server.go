// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer: it connects the store, services,
// handlers and middleware, and owns the server lifecycle.
//
// DEPENDENCY INJECTION FLOW:
//
//	config.Config → Server.New() creates:
//	  repository.Store (memory or sqlite) → services → handlers → routes
//
// All dependencies are wired in one place (New/setupRoutes), the
// "composition root", rather than scattered across the codebase.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/promptlab/internal/config"
	"github.com/sakif/promptlab/internal/handler"
	"github.com/sakif/promptlab/internal/metrics"
	"github.com/sakif/promptlab/internal/middleware"
	"github.com/sakif/promptlab/internal/repository"
	"github.com/sakif/promptlab/internal/repository/memory"
	sqliteRepo "github.com/sakif/promptlab/internal/repository/sqlite"
	"github.com/sakif/promptlab/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the store. Start closes it on shutdown; callers that never
// Start (tests) must call Close.
type Server struct {
	router  *chi.Mux
	config  config.Config
	logger  *slog.Logger
	store   repository.Store
	metrics *metrics.Metrics
	version string
}

// New builds the store selected by cfg.StoreBackend and wires every layer on
// top of it.
func New(cfg config.Config, logger *slog.Logger, version string) (*Server, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		store:   store,
		version: version,
	}
	if cfg.MetricsEnabled {
		s.metrics = metrics.New()
	}

	s.setupRoutes()

	logger.Info("store ready", slog.String("backend", cfg.StoreBackend))
	return s, nil
}

func openStore(cfg config.Config) (repository.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		db, err := sqliteRepo.New(cfg.SQLiteDSN)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return db, nil
	case config.BackendMemory, "":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /health                          → liveness + version
//	GET    /metrics                         → Prometheus (when enabled)
//	GET    /prompts                         → list (?collection_id=, ?search=)
//	POST   /prompts                         → create
//	GET    /prompts/{id}                    → get
//	PUT    /prompts/{id}                    → full update
//	PATCH  /prompts/{id}                    → partial update
//	DELETE /prompts/{id}                    → delete
//	GET    /prompts/{id}/variables          → template variables
//	GET    /prompts/{id}/tags               → list tags
//	POST   /prompts/{id}/tags               → add tags
//	DELETE /prompts/{id}/tags/{tag_name}    → remove tag
//	GET    /tags/{tag_name}/prompts         → prompts carrying a tag
//	GET    /collections                     → list
//	POST   /collections                     → create
//	GET    /collections/{id}                → get
//	DELETE /collections/{id}                → delete (detaches prompts)
//
// MIDDLEWARE ORDER MATTERS:
// Logger and Metrics sit outside Recoverer so a recovered panic is still
// logged and counted as a 500. CORS runs before routing so preflight
// requests never hit a 405.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Metrics(s.metrics))
	s.router.Use(chimiddleware.Recoverer)

	cors := middleware.DefaultCORSConfig()
	cors.Origins = s.config.CORSAllowedOrigins
	s.router.Use(middleware.CORS(cors))

	promptService := service.NewPromptService(s.store, s.logger, s.metrics)
	collectionService := service.NewCollectionService(s.store, s.logger, s.metrics)
	tagService := service.NewTagService(s.store, s.logger, s.metrics)

	prompts := handler.NewPromptHandler(promptService, s.logger)
	collections := handler.NewCollectionHandler(collectionService, s.logger)
	tags := handler.NewTagHandler(tagService, s.logger)

	s.router.Get("/health", handler.Health(s.version))
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}

	s.router.Route("/prompts", func(r chi.Router) {
		r.Get("/", prompts.HandleList)
		r.Post("/", prompts.HandleCreate)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", prompts.HandleGet)
			r.Put("/", prompts.HandleUpdate)
			r.Patch("/", prompts.HandlePatch)
			r.Delete("/", prompts.HandleDelete)
			r.Get("/variables", prompts.HandleVariables)

			r.Get("/tags", tags.HandleList)
			r.Post("/tags", tags.HandleAdd)
			r.Delete("/tags/{tag_name}", tags.HandleRemove)
		})
	})

	s.router.Get("/tags/{tag_name}/prompts", tags.HandleSearch)

	s.router.Route("/collections", func(r chi.Router) {
		r.Get("/", collections.HandleList)
		r.Post("/", collections.HandleCreate)
		r.Get("/{id}", collections.HandleGet)
		r.Delete("/{id}", collections.HandleDelete)
	})
}

// Handler exposes the fully wired router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Store exposes the backing store so tests can reset it between cases.
func (s *Server) Store() repository.Store {
	return s.store
}

func (s *Server) Close() error {
	return s.store.Close()
}

// Start starts the HTTP server and blocks until SIGINT/SIGTERM or a server
// error.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new HTTP connections
//  2. Wait for in-flight requests to finish (ShutdownTimeout)
//  3. Close the store
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("version", s.version),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
