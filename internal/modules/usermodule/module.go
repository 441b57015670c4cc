// Package usermodule manages student and teacher profiles and their
// favorites.
package usermodule

import (
	"context"
	"fmt"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/logger"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule"
	"github.com/cineclass/cineclass/internal/modules/modulemanager"
	"github.com/cineclass/cineclass/internal/modules/usermodule/api"
	"github.com/cineclass/cineclass/internal/modules/usermodule/core/repository"
	"github.com/cineclass/cineclass/internal/modules/usermodule/service"
	"github.com/cineclass/cineclass/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func init() {
	Register()
}

const (
	// ModuleID is the unique identifier for the user module
	ModuleID = "system.users"

	// ModuleName is the display name for the user module
	ModuleName = "Users"
)

// Module implements profile management as a module
type Module struct {
	db      *gorm.DB
	service services.UserService
	handler *api.Handler
}

// Register registers the user module with the module system
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

// Dependencies returns the modules that must initialize first
func (m *Module) Dependencies() []string {
	return []string{catalogmodule.ModuleID}
}

// Migrate creates the users table
func (m *Module) Migrate(db *gorm.DB) error {
	logger.Info("migrating user schema")
	if err := db.AutoMigrate(&database.User{}); err != nil {
		return fmt.Errorf("failed to migrate user models: %w", err)
	}
	return nil
}

// Init builds the user service and publishes it to the service registry
func (m *Module) Init(env modulemanager.Environment) error {
	catalog, err := services.GetService[services.CatalogService](services.CatalogServiceName)
	if err != nil {
		return fmt.Errorf("user module requires the catalog service: %w", err)
	}

	m.db = env.DB
	m.service = service.NewUserService(repository.NewUserRepository(env.DB, env.Config.Database.StoreTimeout), catalog)
	services.Replace(services.UserServiceName, m.service)
	m.handler = api.NewHandler(m.service)

	logger.Info("user service registered")
	return nil
}

// RegisterRoutes registers the user HTTP routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	api.RegisterRoutes(router, m.handler)
}

// HealthCheck pings the user store
func (m *Module) HealthCheck(ctx context.Context) modulemanager.HealthStatus {
	return modulemanager.PingHealth(ctx, m.db)
}
