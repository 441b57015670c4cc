// Package server runs the HTTP API on top of the module system.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/cineclass/cineclass/internal/config"
	"github.com/cineclass/cineclass/internal/logger"
	"github.com/cineclass/cineclass/internal/modules/modulemanager"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Server owns the HTTP listener and the loaded modules.
type Server struct {
	cfg      *config.Config
	registry *modulemanager.ModuleRegistry
	router   *gin.Engine
}

// New loads every registered module and builds the router.
func New(cfg *config.Config, db *gorm.DB, registry *modulemanager.ModuleRegistry) (*Server, error) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	if err := registry.LoadAll(modulemanager.Environment{DB: db, Config: cfg}); err != nil {
		return nil, fmt.Errorf("failed to load modules: %w", err)
	}

	return &Server{
		cfg:      cfg,
		registry: registry,
		router:   NewRouter(cfg, registry),
	}, nil
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts the listener and the
// modules down within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port)),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := s.registry.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("module shutdown: %w", err))
	}
	return errors.Join(errs...)
}
