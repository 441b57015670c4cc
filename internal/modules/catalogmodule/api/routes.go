// Package api exposes the catalog over HTTP.
package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all catalog module routes
func RegisterRoutes(router *gin.Engine, handler *Handler) {
	movies := router.Group("/api/movies")
	{
		movies.GET("/filter", handler.FilterTitles)
		movies.GET("/:id", handler.GetTitle)
		movies.GET("/:id/similar", handler.SimilarTitles)
	}
}
