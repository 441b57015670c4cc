package server

import (
	"net/http"

	"github.com/cineclass/cineclass/internal/api"
	"github.com/cineclass/cineclass/internal/config"
	"github.com/cineclass/cineclass/internal/middleware"
	"github.com/cineclass/cineclass/internal/modules/modulemanager"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the HTTP router: shared middleware, health, metrics
// and the routes of every loaded module.
func NewRouter(cfg *config.Config, registry *modulemanager.ModuleRegistry) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.ErrorLogger(),
		middleware.Metrics(),
		middleware.CORS(cfg.Security.AllowedOrigins),
		api.ErrorMiddleware(),
	)

	r.GET("/api/health", healthHandler(registry))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	registry.RegisterRoutes(r)
	r.NoRoute(api.NoRoute)
	return r
}

// healthHandler reports each module's health. Any unhealthy module makes
// the whole service unhealthy; a degraded one only downgrades the status.
func healthHandler(registry *modulemanager.ModuleRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		modules := registry.Health(c.Request.Context())

		overall := modulemanager.HealthStateHealthy
		for _, status := range modules {
			switch status.Status {
			case modulemanager.HealthStateUnhealthy:
				overall = modulemanager.HealthStateUnhealthy
			case modulemanager.HealthStateDegraded:
				if overall == modulemanager.HealthStateHealthy {
					overall = modulemanager.HealthStateDegraded
				}
			}
		}

		code := http.StatusOK
		if overall == modulemanager.HealthStateUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": overall, "modules": modules})
	}
}
