package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/database/dbtest"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/repository"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/safety"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/service"
	"github.com/cineclass/cineclass/internal/services"
	"github.com/cineclass/cineclass/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockUsers struct {
	mock.Mock
	services.UserService
}

func (m *mockUsers) GetUser(ctx context.Context, id string) (*database.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*database.User)
	return user, args.Error(1)
}

type filterResponse struct {
	Movies       []types.TitleView `json:"movies"`
	NextCursor   *int64            `json:"nextCursor"`
	NextCursorID *string           `json:"nextCursorId"`
	HasMore      bool              `json:"hasMore"`
}

func intPtr(v int) *int { return &v }

func newRouter(t *testing.T, users *mockUsers) *gin.Engine {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewTitleRepository(dbtest.New(t), time.Second, 50)
	for i, fixture := range []struct {
		name   string
		minAge int
		kind   database.MediaType
	}{
		{"Kids Show", 0, database.MediaTypeTV},
		{"Teen Movie", 14, database.MediaTypeMovie},
		{"Family Movie", 0, database.MediaTypeMovie},
	} {
		ext := int64(i + 1)
		title := &database.Title{
			ID: fixture.name, ExternalID: &ext, Name: fixture.name, MediaType: fixture.kind,
			MinAge: intPtr(fixture.minAge), MaxAge: intPtr(99), ReleaseDate: "2021-06-01",
		}
		title.SetGenres([]string{"Família"})
		require.NoError(t, repo.Upsert(ctx, title))
	}

	svc := service.NewCatalogService(repo, safety.New(), service.Options{
		DefaultPageSize: 20, MaxPageSize: 100, CandidateLimit: 100, SampleLimit: 30, SimilarLimit: 10,
	})
	lookup := func() services.UserService { return users }
	if users == nil {
		lookup = func() services.UserService { return nil }
	}

	router := gin.New()
	RegisterRoutes(router, NewHandler(svc, lookup))
	return router
}

func get(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) filterResponse {
	t.Helper()
	var body filterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func titles(views []types.TitleView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Title
	}
	return out
}

func TestFilterAnonymous(t *testing.T) {
	router := newRouter(t, nil)

	w := get(t, router, "/api/movies/filter?limit=2")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, []string{"Family Movie", "Teen Movie"}, titles(body.Movies))
	assert.True(t, body.HasMore)
	require.NotNil(t, body.NextCursor)
	assert.Equal(t, int64(2), *body.NextCursor)
	require.NotNil(t, body.NextCursorID)
	assert.Equal(t, "Teen Movie", *body.NextCursorID)

	body = decode(t, get(t, router, "/api/movies/filter?limit=2&cursor=2&cursorId=Teen%20Movie"))
	assert.Equal(t, []string{"Kids Show"}, titles(body.Movies))
	assert.False(t, body.HasMore)

	w = get(t, router, "/api/movies/filter?cursorId=Teen%20Movie")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = decode(t, get(t, router, "/api/movies/filter?type=tv"))
	assert.Equal(t, []string{"Kids Show"}, titles(body.Movies))

	body = decode(t, get(t, router, "/api/movies/filter?maxAge=12"))
	assert.Equal(t, []string{"Family Movie", "Kids Show"}, titles(body.Movies))

	body = decode(t, get(t, router, "/api/movies/filter?minAge=12"))
	assert.Equal(t, []string{"Teen Movie"}, titles(body.Movies))
}

func TestFilterStudentCannotRaiseBound(t *testing.T) {
	users := &mockUsers{}
	users.On("GetUser", mock.Anything, "u1").Return(&database.User{ID: "u1", Role: database.RoleStudent, Age: 10}, nil)
	router := newRouter(t, users)

	body := decode(t, get(t, router, "/api/movies/filter?userId=u1&maxAge=18"))
	assert.Equal(t, []string{"Family Movie", "Kids Show"}, titles(body.Movies))
	users.AssertExpectations(t)
}

func TestFilterTeacherUsesClassroomCeiling(t *testing.T) {
	users := &mockUsers{}
	users.On("GetUser", mock.Anything, "t1").Return(&database.User{ID: "t1", Role: database.RoleTeacher, Age: 40}, nil)
	router := newRouter(t, users)

	assert.Len(t, decode(t, get(t, router, "/api/movies/filter?userId=t1")).Movies, 3)
	assert.Len(t, decode(t, get(t, router, "/api/movies/filter?userId=t1&maxAge=10")).Movies, 2)
}

func TestFilterUnknownUser(t *testing.T) {
	users := &mockUsers{}
	users.On("GetUser", mock.Anything, "nobody").Return(nil, types.NewNotFoundError("user", "nobody"))
	router := newRouter(t, users)

	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/movies/filter?userId=nobody").Code)
}

func TestFilterRejectsBadInput(t *testing.T) {
	router := newRouter(t, nil)

	for _, path := range []string{
		"/api/movies/filter?type=book",
		"/api/movies/filter?limit=500",
		"/api/movies/filter?maxAge=abc",
		"/api/movies/filter?minAge=-2",
	} {
		assert.Equal(t, http.StatusBadRequest, get(t, router, path).Code, path)
	}
}

func TestGetTitle(t *testing.T) {
	router := newRouter(t, nil)

	w := get(t, router, "/api/movies/Kids%20Show")
	require.Equal(t, http.StatusOK, w.Code)
	var view types.TitleView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "tv", view.Type)
	assert.Equal(t, []string{"Família"}, view.Genres)

	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/movies/none").Code)
}

func TestSimilarTitles(t *testing.T) {
	router := newRouter(t, nil)

	w := get(t, router, "/api/movies/Kids%20Show/similar?maxAge=12")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Family Movie"}, titles(decode(t, w).Movies))
}
