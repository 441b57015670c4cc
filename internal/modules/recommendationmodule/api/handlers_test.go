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
	recerrors "github.com/cineclass/cineclass/internal/modules/recommendationmodule/errors"
	usererrors "github.com/cineclass/cineclass/internal/modules/usermodule/errors"
	"github.com/cineclass/cineclass/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockRecommendations struct {
	mock.Mock
}

func (m *mockRecommendations) Recommend(ctx context.Context, req types.RecommendRequest) (*types.RecommendationResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*types.RecommendationResult)
	return res, args.Error(1)
}

func (m *mockRecommendations) SubmitQuiz(ctx context.Context, req types.SubmitQuizRequest) (*types.QuizOutcome, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*types.QuizOutcome)
	return res, args.Error(1)
}

func (m *mockRecommendations) History(ctx context.Context, userID string) ([]types.QuizHistoryEntry, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).([]types.QuizHistoryEntry)
	return res, args.Error(1)
}

func newRouter(m *mockRecommendations) *gin.Engine {
	router := gin.New()
	RegisterRoutes(router, NewHandler(m))
	return router
}

func post(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRecommendFlattensAnswers(t *testing.T) {
	m := &mockRecommendations{}
	m.On("Recommend", mock.Anything, types.RecommendRequest{UserID: "u1", Answers: []string{"ciência", "aventura", "mar"}}).
		Return(&types.RecommendationResult{
			Recommendations: []types.ScoredTitle{{Title: database.Title{ID: "A", Name: "A"}, Score: 34}},
			UsedKeywords:    []string{"ciência", "aventura", "mar"},
			TotalFound:      1,
			Rung:            types.MatchRungKeyword,
		}, nil)

	w := post(t, newRouter(m), "/api/recommendations", `{"userId":"u1","answers":[" Ciência ",["AVENTURA",["mar"]]]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Recommendations []types.TitleView `json:"recommendations"`
		UsedKeywords    []string          `json:"usedKeywords"`
		TotalFound      int               `json:"totalFound"`
		Rung            string            `json:"rung"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Recommendations, 1)
	require.NotNil(t, body.Recommendations[0].Score)
	assert.Equal(t, 34.0, *body.Recommendations[0].Score)
	assert.Equal(t, 1, body.TotalFound)
	assert.Equal(t, "keyword", body.Rung)
	m.AssertExpectations(t)
}

func TestRecommendRejectsBadBodies(t *testing.T) {
	router := newRouter(&mockRecommendations{})

	for _, body := range []string{
		`{"userId":"u1"}`,
		`{"userId":"u1","answers":[]}`,
		`{"answers":["mar"]}`,
		`{"userId":"u1","answers":["mar", 7]}`,
		`{"userId":"u1","answers":"mar"}`,
		`{"userId":"u1","answers":["mar"],"maxAge":-1}`,
		`not json`,
	} {
		assert.Equal(t, http.StatusBadRequest, post(t, router, "/api/recommendations", body).Code, body)
	}
}

func TestRecommendMapsServiceErrors(t *testing.T) {
	m := &mockRecommendations{}
	m.On("Recommend", mock.Anything, mock.MatchedBy(func(r types.RecommendRequest) bool { return r.UserID == "ghost" })).
		Return(nil, usererrors.NotFound("get_user", "ghost"))
	m.On("Recommend", mock.Anything, mock.MatchedBy(func(r types.RecommendRequest) bool { return r.UserID == "u1" })).
		Return(nil, recerrors.Store("prior_recommendations", "u1", context.DeadlineExceeded))
	router := newRouter(m)

	assert.Equal(t, http.StatusNotFound, post(t, router, "/api/recommendations", `{"userId":"ghost","answers":["mar"]}`).Code)

	w := post(t, router, "/api/recommendations", `{"userId":"u1","answers":["mar"]}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "UPSTREAM_FAILURE")
	assert.NotContains(t, w.Body.String(), "deadline")
}

func TestSubmitQuiz(t *testing.T) {
	m := &mockRecommendations{}
	created := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	m.On("SubmitQuiz", mock.Anything, types.SubmitQuizRequest{UserID: "u1", QuizID: "semana-1", Answers: []string{"mar", "mar"}}).
		Return(&types.QuizOutcome{
			Result: database.QuizResult{
				ID: "q1", UserID: "u1", QuizID: "semana-1",
				Answers: []string{"mar", "mar"}, RecommendedIDs: []string{"A"}, CreatedAt: created,
			},
			Recommendations: []types.ScoredTitle{{Title: database.Title{ID: "A", Name: "A"}, Score: 20}},
			Rung:            types.MatchRungKeyword,
		}, nil)

	w := post(t, newRouter(m), "/api/users/u1/quiz", `{"quizId":"semana-1","answers":["mar","MAR"]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Quiz quizView `json:"quiz"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "q1", body.Quiz.ID)
	assert.Equal(t, []string{"A"}, body.Quiz.RecommendedIDs)
	assert.True(t, created.Equal(body.Quiz.CreatedAt))
	require.Len(t, body.Quiz.Recommendations, 1)
	assert.Equal(t, "A", body.Quiz.Recommendations[0].ID)
}

func TestHistory(t *testing.T) {
	m := &mockRecommendations{}
	m.On("History", mock.Anything, "u1").Return([]types.QuizHistoryEntry{
		{Result: database.QuizResult{ID: "q1", QuizID: "quiz", RecommendedIDs: []string{"A", "gone"}}, Titles: []database.Title{{ID: "A"}}},
	}, nil)
	m.On("History", mock.Anything, "ghost").Return(nil, usererrors.NotFound("quiz_history", "ghost"))
	router := newRouter(m)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users/u1/quiz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Quizzes []quizView `json:"quizzes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Quizzes, 1)
	assert.Equal(t, []string{"A", "gone"}, body.Quizzes[0].RecommendedIDs)
	assert.Len(t, body.Quizzes[0].Recommendations, 1)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users/ghost/quiz", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
