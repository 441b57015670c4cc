// Package modulemanager wires the application modules together: modules
// register themselves from init(), are migrated and initialised in
// dependency order, and then contribute their HTTP routes.
package modulemanager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cineclass/cineclass/internal/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ModuleRegistry manages module registration and initialization
type ModuleRegistry struct {
	modules         map[string]Module
	disabledModules map[string]bool
	order           []Module
	mu              sync.RWMutex
	initialized     bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *ModuleRegistry {
	return &ModuleRegistry{
		modules:         make(map[string]Module),
		disabledModules: make(map[string]bool),
	}
}

// Registry is the global module registry
var Registry = NewRegistry()

// Register adds a module to the global registry
func Register(m Module) {
	Registry.Register(m)
}

// Register adds a module to the registry
func (r *ModuleRegistry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		logger.Warn("module registered after initialization", "module", m.ID())
	}
	r.modules[m.ID()] = m
}

// LoadAll initializes all modules of the global registry
func LoadAll(env Environment) error {
	return Registry.LoadAll(env)
}

// LoadAll migrates and initializes all enabled modules in dependency order
func (r *ModuleRegistry) LoadAll(env Environment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		logger.Warn("module system already initialized")
		return nil
	}
	if env.DB == nil || env.Config == nil {
		return errors.New("module environment requires a database and a configuration")
	}

	enabled := make(map[string]Module)
	for id, module := range r.modules {
		if r.disabledModules[id] {
			if module.Core() {
				return fmt.Errorf("attempted to disable core module: %s", id)
			}
			logger.Warn("skipping disabled module", "module", id)
			continue
		}
		enabled[id] = module
	}

	graph, err := BuildDependencyGraph(enabled)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	order := graph.InitializationOrder()

	for i, module := range order {
		logger.Info("initializing module", "module", module.ID(), "step", fmt.Sprintf("%d/%d", i+1, len(order)))

		if err := module.Migrate(env.DB); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", module.Name(), err)
		}
		if err := module.Init(env); err != nil {
			return fmt.Errorf("failed to initialize %s: %w", module.Name(), err)
		}
	}

	r.order = order
	r.initialized = true
	return nil
}

// DisableModule marks a module as disabled
func (r *ModuleRegistry) DisableModule(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	module, exists := r.modules[id]
	if !exists {
		return fmt.Errorf("module %s not registered", id)
	}
	if module.Core() {
		return fmt.Errorf("cannot disable core module: %s", id)
	}
	r.disabledModules[id] = true
	return nil
}

// GetModule returns a module by ID
func (r *ModuleRegistry) GetModule(id string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	module, exists := r.modules[id]
	return module, exists
}

// RegisterRoutes registers routes of the global registry
func RegisterRoutes(router *gin.Engine) {
	Registry.RegisterRoutes(router)
}

// RegisterRoutes registers routes for every initialized module that
// implements RouteRegistrar
func (r *ModuleRegistry) RegisterRoutes(router *gin.Engine) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, module := range r.order {
		if registrar, ok := module.(RouteRegistrar); ok {
			logger.Debug("registering routes", "module", module.ID())
			registrar.RegisterRoutes(router)
		}
	}
}

// Health collects the health of every initialized module that reports it.
func (r *ModuleRegistry) Health(ctx context.Context) map[string]HealthStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statuses := make(map[string]HealthStatus)
	for _, module := range r.order {
		if checker, ok := module.(HealthChecker); ok {
			statuses[module.ID()] = checker.HealthCheck(ctx)
		}
	}
	return statuses
}

// Shutdown stops modules in reverse initialization order.
func (r *ModuleRegistry) Shutdown(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []error
	for i := len(r.order) - 1; i >= 0; i-- {
		if s, ok := r.order[i].(Shutdowner); ok {
			if err := s.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", r.order[i].ID(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// PingHealth reports the health of a database handle. Modules use it for
// their HealthCheck.
func PingHealth(ctx context.Context, db *gorm.DB) HealthStatus {
	status := HealthStatus{Status: HealthStateHealthy, LastChecked: time.Now()}

	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		status.Status = HealthStateUnhealthy
		status.Message = err.Error()
	}
	return status
}
