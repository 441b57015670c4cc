package api

import (
	"net/http"

	"github.com/cineclass/cineclass/internal/api"
	"github.com/cineclass/cineclass/internal/database"
	catalogerrors "github.com/cineclass/cineclass/internal/modules/catalogmodule/errors"
	"github.com/cineclass/cineclass/internal/services"
	"github.com/cineclass/cineclass/internal/types"
	"github.com/cineclass/cineclass/internal/validation"
	"github.com/gin-gonic/gin"
)

// UserLookup resolves the requesting user for age bounds. It returns nil
// when no user service is available.
type UserLookup func() services.UserService

// RegistryUsers looks the user service up in the service registry at
// request time.
func RegistryUsers() services.UserService {
	users, err := services.GetService[services.UserService](services.UserServiceName)
	if err != nil {
		return nil
	}
	return users
}

// Handler provides HTTP handlers for catalog reads
type Handler struct {
	catalog services.CatalogService
	users   UserLookup
}

// NewHandler creates a new API handler
func NewHandler(catalog services.CatalogService, users UserLookup) *Handler {
	return &Handler{catalog: catalog, users: users}
}

type filterQuery struct {
	Genre  string `form:"genre"`
	Type   string `form:"type" validate:"omitempty,mediatype"`
	Year   string `form:"year" validate:"max=10"`
	Query  string `form:"q" validate:"max=200"`
	MinAge *int   `form:"minAge" validate:"omitempty,min=0,max=18"`
	MaxAge *int   `form:"maxAge" validate:"omitempty,min=0,max=120"`
	Cursor   *int64 `form:"cursor" validate:"omitempty,min=1"`
	CursorID string `form:"cursorId" validate:"max=100"`
	Limit  int    `form:"limit" validate:"min=0"`
	UserID string `form:"userId"`
}

type boundQuery struct {
	MaxAge *int   `form:"maxAge" validate:"omitempty,min=0,max=120"`
	UserID string `form:"userId"`
	Limit  int    `form:"limit" validate:"min=0,max=50"`
}

// FilterTitles handles GET /api/movies/filter
func (h *Handler) FilterTitles(c *gin.Context) {
	var q filterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		api.RespondWithError(c, validation.BindError(err))
		return
	}
	if err := validation.ValidateStruct(&q); err != nil {
		api.RespondWithError(c, err)
		return
	}

	var cursor *types.CatalogCursor
	switch {
	case q.Cursor != nil:
		cursor = &types.CatalogCursor{ExternalID: *q.Cursor, ID: q.CursorID}
	case q.CursorID != "":
		api.RespondWithError(c, catalogerrors.Invalid("filter_titles", "cursorId requires cursor"))
		return
	}

	bound, err := h.bound(c, q.UserID, q.MaxAge)
	if err != nil {
		api.RespondWithError(c, err)
		return
	}

	page, err := h.catalog.FilterTitles(c.Request.Context(), types.CatalogConstraints{
		Query:     q.Query,
		Genre:     q.Genre,
		MediaType: database.MediaType(q.Type),
		Year:      q.Year,
		Age:       bound,
		MinRating: q.MinAge,
	}, cursor, q.Limit)
	if err != nil {
		api.RespondWithError(c, err)
		return
	}

	resp := gin.H{
		"movies":       types.NewTitleViews(page.Items),
		"nextCursor":   nil,
		"nextCursorId": nil,
		"hasMore":      page.HasMore,
	}
	if page.NextCursor != nil {
		resp["nextCursor"] = page.NextCursor.ExternalID
		resp["nextCursorId"] = page.NextCursor.ID
	}
	c.JSON(http.StatusOK, resp)
}

// GetTitle handles GET /api/movies/:id
func (h *Handler) GetTitle(c *gin.Context) {
	title, err := h.catalog.GetTitle(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewTitleView(title))
}

// SimilarTitles handles GET /api/movies/:id/similar
func (h *Handler) SimilarTitles(c *gin.Context) {
	var q boundQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		api.RespondWithError(c, validation.BindError(err))
		return
	}
	if err := validation.ValidateStruct(&q); err != nil {
		api.RespondWithError(c, err)
		return
	}

	bound, err := h.bound(c, q.UserID, q.MaxAge)
	if err != nil {
		api.RespondWithError(c, err)
		return
	}

	titles, err := h.catalog.SimilarTitles(c.Request.Context(), c.Param("id"), bound, q.Limit)
	if err != nil {
		api.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movies": types.NewTitleViews(titles)})
}

func (h *Handler) bound(c *gin.Context, userID string, maxAge *int) (types.AgeBound, error) {
	if userID == "" {
		return types.BoundFor(nil, maxAge), nil
	}
	users := h.users()
	if users == nil {
		return types.AgeBound{}, types.NewInternalError("user service unavailable", nil)
	}
	user, err := users.GetUser(c.Request.Context(), userID)
	if err != nil {
		return types.AgeBound{}, err
	}
	return types.BoundFor(user, maxAge), nil
}
