// Package enrichmentmodule fills and maintains the catalog from TMDB. Its
// jobs run from the command line, not from HTTP requests.
package enrichmentmodule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cineclass/cineclass/internal/logger"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/repository"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/safety"
	"github.com/cineclass/cineclass/internal/modules/enrichmentmodule/jobs"
	"github.com/cineclass/cineclass/internal/modules/enrichmentmodule/service"
	"github.com/cineclass/cineclass/internal/modules/enrichmentmodule/tmdb"
	"github.com/cineclass/cineclass/internal/modules/modulemanager"
	"github.com/cineclass/cineclass/internal/services"
	"gorm.io/gorm"
)

func init() {
	Register()
}

const (
	// ModuleID is the unique identifier for the enrichment module
	ModuleID = "system.enrichment"

	// ModuleName is the display name for the enrichment module
	ModuleName = "Catalog Enrichment"
)

// Module runs the import and maintenance jobs
type Module struct {
	providerReady bool
	service       services.EnrichmentService
}

// Register registers the enrichment module with the module system
func Register() {
	modulemanager.Register(&Module{})
}

// ID returns the unique module identifier
func (m *Module) ID() string {
	return ModuleID
}

// Name returns the module display name
func (m *Module) Name() string {
	return ModuleName
}

// Core returns false: the service runs without the jobs
func (m *Module) Core() bool {
	return false
}

// Dependencies returns the modules that must initialize first
func (m *Module) Dependencies() []string {
	return []string{catalogmodule.ModuleID}
}

// Migrate is a no-op; the catalog module owns the title tables
func (m *Module) Migrate(db *gorm.DB) error {
	return nil
}

// Init builds the provider client and the job runner
func (m *Module) Init(env modulemanager.Environment) error {
	cfg := env.Config
	store := repository.NewTitleRepository(env.DB, cfg.Database.StoreTimeout, cfg.Catalog.ScanBatchSize)

	var provider jobs.Provider
	client, err := tmdb.NewClient(cfg.TMDB, nil)
	switch {
	case errors.Is(err, tmdb.ErrMissingAPIKey):
		logger.Warn("TMDB api key not set, provider jobs are disabled")
	case err != nil:
		return fmt.Errorf("failed to create tmdb client: %w", err)
	default:
		provider = client
		m.providerReady = true
	}

	m.service = service.NewEnrichmentService(provider, store, safety.New(cfg.Catalog.ExtraDenylist...), cfg)
	services.Replace(services.EnrichmentServiceName, m.service)

	logger.Info("enrichment service registered", "provider", m.providerReady, "language", cfg.TMDB.Language)
	return nil
}

// HealthCheck reports degraded when the provider is not configured
func (m *Module) HealthCheck(ctx context.Context) modulemanager.HealthStatus {
	status := modulemanager.HealthStatus{Status: modulemanager.HealthStateHealthy, LastChecked: time.Now()}
	if !m.providerReady {
		status.Status = modulemanager.HealthStateDegraded
		status.Message = "metadata provider not configured"
	}
	return status
}
