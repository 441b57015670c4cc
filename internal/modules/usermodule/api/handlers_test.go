package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/database/dbtest"
	"github.com/cineclass/cineclass/internal/modules/usermodule/core/repository"
	"github.com/cineclass/cineclass/internal/modules/usermodule/service"
	"github.com/cineclass/cineclass/internal/services"
	"github.com/cineclass/cineclass/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCatalog struct {
	services.CatalogService
	titles map[string]database.Title
}

func (s stubCatalog) GetTitle(_ context.Context, id string) (*database.Title, error) {
	t, ok := s.titles[id]
	if !ok {
		return nil, types.NewNotFoundError("title", id)
	}
	return &t, nil
}

func (s stubCatalog) GetTitles(_ context.Context, ids []string) ([]database.Title, error) {
	out := []database.Title{}
	for _, id := range ids {
		if t, ok := s.titles[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	catalog := stubCatalog{titles: map[string]database.Title{
		"tmdb_1": {ID: "tmdb_1", Name: "Ocean Trip", MediaType: database.MediaTypeMovie},
	}}
	users := service.NewUserService(repository.NewUserRepository(dbtest.New(t), time.Second), catalog)

	router := gin.New()
	RegisterRoutes(router, NewHandler(users))
	return router
}

func do(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createUser(t *testing.T, router *gin.Engine) database.User {
	t.Helper()
	w := do(t, router, http.MethodPost, "/api/users", gin.H{"name": "Ana", "email": "ana@escola.br", "role": "student", "age": 12})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var user database.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	return user
}

func TestCreateAndGetUser(t *testing.T) {
	router := newRouter(t)
	user := createUser(t, router)

	w := do(t, router, http.MethodGet, "/api/users/"+user.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"student"`)

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/users/"+uuid.NewString(), nil).Code)
}

func TestMalformedUserIDIsBadRequest(t *testing.T) {
	router := newRouter(t)
	createUser(t, router)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/users/not-a-uuid", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPut, "/api/users/not-a-uuid", gin.H{"age": 13}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/users/not-a-uuid/favorites", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/users/not-a-uuid/favorites", gin.H{"movieId": "tmdb_1"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodDelete, "/api/users/not-a-uuid/favorites/tmdb_1", nil).Code)
}

func TestCreateUserValidation(t *testing.T) {
	router := newRouter(t)
	createUser(t, router)

	assert.Equal(t, http.StatusConflict, do(t, router, http.MethodPost, "/api/users",
		gin.H{"name": "Bia", "email": "ana@escola.br", "role": "student", "age": 11}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/users",
		gin.H{"name": "Bia", "email": "bia@escola.br", "role": "admin", "age": 11}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/users",
		gin.H{"name": "Bia", "email": "not-an-email", "role": "student", "age": 11}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/users",
		gin.H{"name": "Bia", "email": "bia@escola.br", "role": "student", "age": "eleven"}).Code)
}

func TestUpdateUser(t *testing.T) {
	router := newRouter(t)
	user := createUser(t, router)

	w := do(t, router, http.MethodPut, "/api/users/"+user.ID, gin.H{"age": 13})
	require.Equal(t, http.StatusOK, w.Code)
	var updated database.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, 13, updated.Age)
	assert.Equal(t, "Ana", updated.Name)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPut, "/api/users/"+user.ID, gin.H{"age": 300}).Code)
}

func TestFavoritesFlow(t *testing.T) {
	router := newRouter(t)
	user := createUser(t, router)
	base := "/api/users/" + user.ID + "/favorites"

	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, base, gin.H{"movieId": "tmdb_1"}).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPost, base, gin.H{"movieId": "tmdb_404"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, base, gin.H{}).Code)

	w := do(t, router, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Favorites []types.TitleView `json:"favorites"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Favorites, 1)
	assert.Equal(t, "Ocean Trip", list.Favorites[0].Title)

	w = do(t, router, http.MethodDelete, base+"/tmdb_1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"favorites":[]`)
}
