package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cineclass/cineclass/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	router := gin.New()
	router.Use(ErrorMiddleware())
	router.GET("/x", handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRespondWithAppError(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		RespondWithError(c, fmt.Errorf("lookup: %w", types.NewNotFoundError("title", "tmdb_1")))
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Equal(t, "title not found", body.Error.Message)
	assert.False(t, body.Success)
}

func TestRespondWithRawErrorHidesCause(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		RespondWithError(c, errors.New("pq: relation titles does not exist"))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.NotContains(t, w.Body.String(), "relation titles")
}

func TestRespondWithDeadline(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		RespondWithError(c, fmt.Errorf("query: %w", context.DeadlineExceeded))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "UPSTREAM_FAILURE", body.Error.Code)
	assert.True(t, body.Error.Retryable)
}

func TestErrorMiddlewareRecoversPanic(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		panic("boom")
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
}

type translated struct{}

func (translated) Error() string { return "module failure" }

func (translated) AppError() *types.AppError {
	return types.NewValidationError("bad keywords")
}

func TestRespondWithTranslator(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		RespondWithError(c, fmt.Errorf("wrap: %w", translated{}))
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad keywords", body.Error.Message)
}
