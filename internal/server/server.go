// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the composition root: it is the one place where the
// profile store, upload validator, media directory, service and handler are
// created and wired together. main.go only reads configuration and calls
// New + Start.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/profile-service/internal/handler"
	"github.com/sakif/profile-service/internal/media"
	"github.com/sakif/profile-service/internal/middleware"
	"github.com/sakif/profile-service/internal/model"
	"github.com/sakif/profile-service/internal/repository"
	"github.com/sakif/profile-service/internal/repository/memory"
	"github.com/sakif/profile-service/internal/repository/sqlite"
	"github.com/sakif/profile-service/internal/service"
	"github.com/sakif/profile-service/internal/upload"
)

// Profile store backends. Both keep profiles in process memory only.
const (
	StoreMemory = "memory" // mutex-guarded map (default)
	StoreSQLite = "sqlite" // in-memory SQLite database
)

// Config holds server configuration.
type Config struct {
	Port     int
	MediaDir string // directory for accepted profile pictures, created if absent
	Store    string // StoreMemory or StoreSQLite; empty means StoreMemory
}

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// With the SQLite backend the server owns a database connection, closed by
// Close (Start calls it on the way out).
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	media  *media.Store
	store  repository.ProfileRepository
	closer func() error
}

// New creates a Server and wires the dependency chain:
//
//	profile store ────┐
//	upload.Validator ─┼→ service.ProfileService → handler.ProfileHandler → routes
//	media.Store ──────┘
//
// Profiles live only in memory; the media directory is the only state on disk.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	mediaStore, err := media.New(cfg.MediaDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening media directory: %w", err)
	}

	store, closer, err := openStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		media:  mediaStore,
		store:  store,
		closer: closer,
	}
	s.setupRoutes()

	return s, nil
}

// openStore builds the configured profile store and its cleanup function.
func openStore(kind string) (repository.ProfileRepository, func() error, error) {
	switch kind {
	case "", StoreMemory:
		// One lock guards the whole store; per-user locking isn't needed at this scale.
		return memory.New(&sync.Mutex{}), func() error { return nil }, nil
	case StoreSQLite:
		db, err := sqlite.New()
		if err != nil {
			return nil, nil, fmt.Errorf("opening profile store: %w", err)
		}
		return db, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown profile store %q (want %q or %q)", kind, StoreMemory, StoreSQLite)
	}
}

// Close releases the profile store. Start calls it on return.
func (s *Server) Close() error {
	return s.closer()
}

// Handler exposes the router, mainly so tests can drive it with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// POST   /profiles/                              → create profile (JSON)
// GET    /profiles/{username}                    → get profile (JSON)
// POST   /profiles/{username}/profile_picture    → upload picture (multipart)
// GET    /media/*                                → accepted pictures (static)
//
// MIDDLEWARE ORDER:
// RequestID runs before Logger so each log line carries the request's ID.
// Recoverer turns a panic in one request into a 500 instead of a crash.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	validator := upload.NewValidator()

	profileService := service.NewProfileService(s.store, validator, s.media, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, validator.MaxSize(), s.logger)

	s.router.Route("/profiles", func(r chi.Router) {
		r.Post("/", profileHandler.HandleCreate)
		r.Get("/{username}", profileHandler.HandleGet)
		r.Post("/{username}/profile_picture", profileHandler.HandleUploadPicture)
	})

	s.router.Handle(model.MediaPrefix+"*", http.StripPrefix(model.MediaPrefix, s.media.Handler()))
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, give in-flight requests 30 seconds, return.
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
			slog.String("media_dir", s.media.Dir()),
			slog.String("store", s.storeName()),
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

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

func (s *Server) storeName() string {
	if s.config.Store == "" {
		return StoreMemory
	}
	return s.config.Store
}
