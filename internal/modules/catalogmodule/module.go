// Package catalogmodule owns the title catalog: storage, the age-aware
// filter, the keyword matcher and the content-safety rules.
package catalogmodule

import (
	"context"
	"fmt"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/logger"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/api"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/repository"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/safety"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/service"
	"github.com/cineclass/cineclass/internal/modules/modulemanager"
	"github.com/cineclass/cineclass/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Auto-register the module when imported
func init() {
	Register()
}

const (
	// ModuleID is the unique identifier for the catalog module
	ModuleID = "system.catalog"

	// ModuleName is the display name for the catalog module
	ModuleName = "Catalog"
)

// Module implements the catalog functionality as a module
type Module struct {
	db      *gorm.DB
	repo    *repository.TitleRepository
	service services.CatalogService
	handler *api.Handler
}

// Register registers the catalog module with the module system
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

// Core returns whether this is a core module
func (m *Module) Core() bool {
	return true
}

// Migrate creates the title, genre and keyword tables
func (m *Module) Migrate(db *gorm.DB) error {
	logger.Info("migrating catalog schema")
	if err := db.AutoMigrate(&database.Title{}, &database.TitleGenre{}, &database.TitleKeyword{}); err != nil {
		return fmt.Errorf("failed to migrate catalog models: %w", err)
	}
	return nil
}

// Init builds the catalog service and publishes it to the service registry
func (m *Module) Init(env modulemanager.Environment) error {
	cfg := env.Config
	m.db = env.DB
	m.repo = repository.NewTitleRepository(env.DB, cfg.Database.StoreTimeout, cfg.Catalog.ScanBatchSize)
	m.service = service.NewCatalogService(m.repo, safety.New(cfg.Catalog.ExtraDenylist...), service.Options{
		DefaultPageSize: cfg.Catalog.DefaultPageSize,
		MaxPageSize:     cfg.Catalog.MaxPageSize,
		CandidateLimit:  cfg.Recommendation.CandidateLimit,
		SampleLimit:     cfg.Recommendation.SampleLimit,
		SimilarLimit:    cfg.Catalog.SimilarLimit,
	})

	services.Replace(services.CatalogServiceName, m.service)
	m.handler = api.NewHandler(m.service, api.RegistryUsers)

	logger.Info("catalog service registered", "extra_denylist", len(cfg.Catalog.ExtraDenylist))
	return nil
}

// RegisterRoutes registers the catalog HTTP routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	api.RegisterRoutes(router, m.handler)
}

// HealthCheck pings the catalog store
func (m *Module) HealthCheck(ctx context.Context) modulemanager.HealthStatus {
	status := modulemanager.PingHealth(ctx, m.db)
	if status.Status != modulemanager.HealthStateHealthy {
		return status
	}
	if n, err := m.repo.Count(ctx); err == nil {
		status.Details = map[string]interface{}{"titles": n}
	}
	return status
}

// Service returns the catalog service once the module is initialized
func (m *Module) Service() services.CatalogService {
	return m.service
}
