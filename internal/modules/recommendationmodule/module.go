// Package recommendationmodule turns quiz answers into ranked, age-suitable
// recommendations and keeps each user's quiz history.
package recommendationmodule

import (
	"context"
	"fmt"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/logger"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule"
	"github.com/cineclass/cineclass/internal/modules/modulemanager"
	"github.com/cineclass/cineclass/internal/modules/recommendationmodule/api"
	"github.com/cineclass/cineclass/internal/modules/recommendationmodule/core/history"
	"github.com/cineclass/cineclass/internal/modules/recommendationmodule/core/scorer"
	"github.com/cineclass/cineclass/internal/modules/recommendationmodule/service"
	"github.com/cineclass/cineclass/internal/modules/usermodule"
	"github.com/cineclass/cineclass/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func init() {
	Register()
}

const (
	// ModuleID is the unique identifier for the recommendation module
	ModuleID = "system.recommendations"

	// ModuleName is the display name for the recommendation module
	ModuleName = "Recommendations"
)

// Module implements the quiz recommendation pipeline as a module
type Module struct {
	db      *gorm.DB
	service services.RecommendationService
	handler *api.Handler
}

// Register registers the recommendation module with the module system
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
	return []string{catalogmodule.ModuleID, usermodule.ModuleID}
}

// Migrate creates the quiz results table
func (m *Module) Migrate(db *gorm.DB) error {
	logger.Info("migrating quiz history schema")
	if err := db.AutoMigrate(&database.QuizResult{}); err != nil {
		return fmt.Errorf("failed to migrate quiz models: %w", err)
	}
	return nil
}

// Init builds the recommendation service from the catalog and user services
func (m *Module) Init(env modulemanager.Environment) error {
	catalog, err := services.GetService[services.CatalogService](services.CatalogServiceName)
	if err != nil {
		return fmt.Errorf("recommendation module requires the catalog service: %w", err)
	}
	users, err := services.GetService[services.UserService](services.UserServiceName)
	if err != nil {
		return fmt.Errorf("recommendation module requires the user service: %w", err)
	}

	rc := env.Config.Recommendation
	weights := scorer.Weights{
		Keyword:    rc.Weights.Keyword,
		Popularity: rc.Weights.Popularity,
		Favorite:   rc.Weights.Favorite,
		AgeFit:     rc.Weights.AgeFit,
		JitterMax:  rc.Weights.JitterMax,
	}

	m.db = env.DB
	m.service = service.NewRecommendationService(
		catalog,
		users,
		history.NewTracker(env.DB, env.Config.Database.StoreTimeout),
		scorer.New(weights, rc.TopN, scorer.NewRandomSource(0)),
	)
	services.Replace(services.RecommendationServiceName, m.service)
	m.handler = api.NewHandler(m.service)

	logger.Info("recommendation service registered", "top_n", rc.TopN)
	return nil
}

// RegisterRoutes registers the recommendation HTTP routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	api.RegisterRoutes(router, m.handler)
}

// HealthCheck pings the quiz history store
func (m *Module) HealthCheck(ctx context.Context) modulemanager.HealthStatus {
	return modulemanager.PingHealth(ctx, m.db)
}
