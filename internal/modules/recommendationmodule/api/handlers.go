// Package api exposes recommendations and quiz history over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/cineclass/cineclass/internal/api"
	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/services"
	"github.com/cineclass/cineclass/internal/types"
	"github.com/cineclass/cineclass/internal/validation"
	"github.com/gin-gonic/gin"
)

// Handler provides HTTP handlers for recommendation operations
type Handler struct {
	recommendations services.RecommendationService
}

// NewHandler creates a new API handler
func NewHandler(recommendations services.RecommendationService) *Handler {
	return &Handler{recommendations: recommendations}
}

type recommendRequest struct {
	UserID  string  `json:"userId" validate:"required"`
	Answers Answers `json:"answers" validate:"required,min=1"`
	MaxAge  *int    `json:"maxAge" validate:"omitempty,min=0,max=120"`
}

type quizRequest struct {
	QuizID  string  `json:"quizId" validate:"max=100"`
	Answers Answers `json:"answers" validate:"required,min=1"`
	MaxAge  *int    `json:"maxAge" validate:"omitempty,min=0,max=120"`
}

type quizView struct {
	ID              string            `json:"id"`
	QuizID          string            `json:"quizId"`
	Answers         []string          `json:"answers"`
	RecommendedIDs  []string          `json:"recommendedIds"`
	CreatedAt       time.Time         `json:"createdAt"`
	Recommendations []types.TitleView `json:"recommendations"`
}

func newQuizView(r database.QuizResult, recommendations []types.TitleView) quizView {
	return quizView{
		ID:              r.ID,
		QuizID:          r.QuizID,
		Answers:         append([]string{}, r.Answers...),
		RecommendedIDs:  append([]string{}, r.RecommendedIDs...),
		CreatedAt:       r.CreatedAt,
		Recommendations: recommendations,
	}
}

// RegisterRoutes registers all recommendation module routes
func RegisterRoutes(router *gin.Engine, handler *Handler) {
	router.POST("/api/recommendations", handler.Recommend)

	quiz := router.Group("/api/users/:id/quiz")
	{
		quiz.POST("", handler.SubmitQuiz)
		quiz.GET("", handler.History)
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

// Recommend handles POST /api/recommendations
func (h *Handler) Recommend(c *gin.Context) {
	var req recommendRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.recommendations.Recommend(c.Request.Context(), types.RecommendRequest{
		UserID:  req.UserID,
		Answers: req.Answers.Keywords(),
		MaxAge:  req.MaxAge,
	})
	if err != nil {
		api.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": types.NewScoredViews(result.Recommendations),
		"usedKeywords":    result.UsedKeywords,
		"totalFound":      result.TotalFound,
		"rung":            result.Rung,
	})
}

// SubmitQuiz handles POST /api/users/:id/quiz
func (h *Handler) SubmitQuiz(c *gin.Context) {
	var req quizRequest
	if !bindJSON(c, &req) {
		return
	}

	outcome, err := h.recommendations.SubmitQuiz(c.Request.Context(), types.SubmitQuizRequest{
		UserID:  c.Param("id"),
		QuizID:  req.QuizID,
		Answers: req.Answers.Keywords(),
		MaxAge:  req.MaxAge,
	})
	if err != nil {
		api.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"quiz": newQuizView(outcome.Result, types.NewScoredViews(outcome.Recommendations)),
		"rung": outcome.Rung,
	})
}

// History handles GET /api/users/:id/quiz
func (h *Handler) History(c *gin.Context) {
	entries, err := h.recommendations.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.RespondWithError(c, err)
		return
	}

	quizzes := make([]quizView, 0, len(entries))
	for _, e := range entries {
		quizzes = append(quizzes, newQuizView(e.Result, types.NewTitleViews(e.Titles)))
	}
	c.JSON(http.StatusOK, gin.H{"quizzes": quizzes})
}
