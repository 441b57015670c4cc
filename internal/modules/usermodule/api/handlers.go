// Package api exposes profiles and favorites over HTTP.
package api

import (
	"net/http"

	"github.com/cineclass/cineclass/internal/api"
	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/services"
	"github.com/cineclass/cineclass/internal/types"
	"github.com/cineclass/cineclass/internal/validation"
	"github.com/gin-gonic/gin"
)

// Handler provides HTTP handlers for user operations
type Handler struct {
	users services.UserService
}

// NewHandler creates a new API handler
func NewHandler(users services.UserService) *Handler {
	return &Handler{users: users}
}

type createUserRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,role"`
	Age   int    `json:"age" validate:"min=0,max=120"`
}

type updateUserRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
	Age  *int    `json:"age" validate:"omitempty,min=0,max=120"`
}

type favoriteRequest struct {
	MovieID string `json:"movieId" validate:"required"`
}

// RegisterRoutes registers all user module routes
func RegisterRoutes(router *gin.Engine, handler *Handler) {
	users := router.Group("/api/users")
	{
		users.POST("", handler.CreateUser)
		users.GET("/:id", handler.GetUser)
		users.PUT("/:id", handler.UpdateUser)
		users.GET("/:id/favorites", handler.ListFavorites)
		users.POST("/:id/favorites", handler.AddFavorite)
		users.DELETE("/:id/favorites/:movieId", handler.RemoveFavorite)
	}
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		api.RespondWithError(c, validation.BindError(err))
		return false
	}
	if err := validation.ValidateStruct(req); err != nil {
		api.RespondWithError(c, err)
		return false
	}
	return true
}

// CreateUser handles POST /api/users
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.Name, req.Email, database.Role(req.Role), req.Age)
	if err != nil {
		api.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GetUser handles GET /api/users/:id
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser handles PUT /api/users/:id
func (h *Handler) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), c.Param("id"), req.Name, req.Age)
	if err != nil {
		api.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListFavorites handles GET /api/users/:id/favorites
func (h *Handler) ListFavorites(c *gin.Context) {
	titles, err := h.users.ListFavorites(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": types.NewTitleViews(titles)})
}

// AddFavorite handles POST /api/users/:id/favorites
func (h *Handler) AddFavorite(c *gin.Context) {
	var req favoriteRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.AddFavorite(c.Request.Context(), c.Param("id"), req.MovieID)
	if err != nil {
		api.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// RemoveFavorite handles DELETE /api/users/:id/favorites/:movieId
func (h *Handler) RemoveFavorite(c *gin.Context) {
	user, err := h.users.RemoveFavorite(c.Request.Context(), c.Param("id"), c.Param("movieId"))
	if err != nil {
		api.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
