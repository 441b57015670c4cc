// Package service implements services.RecommendationService: quiz answers
// go through the keyword matcher and the scorer, and quiz submissions are
// appended to the user's history.
package service

import (
	"context"
	"strings"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/logger"
	"github.com/cineclass/cineclass/internal/metrics"
	"github.com/cineclass/cineclass/internal/modules/recommendationmodule/core/history"
	"github.com/cineclass/cineclass/internal/modules/recommendationmodule/core/scorer"
	recerrors "github.com/cineclass/cineclass/internal/modules/recommendationmodule/errors"
	"github.com/cineclass/cineclass/internal/services"
	"github.com/cineclass/cineclass/internal/types"
	"github.com/hashicorp/go-hclog"
)

// DefaultQuizLabel names quiz submissions that carry no quiz id.
const DefaultQuizLabel = "quiz"

// recommendationServiceImpl implements the RecommendationService interface
type recommendationServiceImpl struct {
	catalog services.CatalogService
	users   services.UserService
	tracker *history.Tracker
	scorer  *scorer.Scorer
	log     hclog.Logger
}

// NewRecommendationService creates a new recommendation service implementation
func NewRecommendationService(catalog services.CatalogService, users services.UserService, tracker *history.Tracker, sc *scorer.Scorer) services.RecommendationService {
	return &recommendationServiceImpl{
		catalog: catalog,
		users:   users,
		tracker: tracker,
		scorer:  sc,
		log:     logger.Named("recommendations"),
	}
}

// Recommend scores titles for the answers without recording anything
func (s *recommendationServiceImpl) Recommend(ctx context.Context, req types.RecommendRequest) (*types.RecommendationResult, error) {
	_, result, err := s.run(ctx, "recommend", req.UserID, req.Answers, req.MaxAge)
	return result, err
}

// SubmitQuiz scores titles for the answers and appends the outcome to the
// user's quiz history
func (s *recommendationServiceImpl) SubmitQuiz(ctx context.Context, req types.SubmitQuizRequest) (*types.QuizOutcome, error) {
	user, result, err := s.run(ctx, "submit_quiz", req.UserID, req.Answers, req.MaxAge)
	if err != nil {
		return nil, err
	}

	label := strings.TrimSpace(req.QuizID)
	if label == "" {
		label = DefaultQuizLabel
	}
	ids := make([]string, len(result.Recommendations))
	for i, r := range result.Recommendations {
		ids[i] = r.Title.ID
	}

	recorded, err := s.tracker.Record(ctx, user.ID, label, req.Answers, ids)
	if err != nil {
		return nil, err
	}
	metrics.QuizResultsRecorded.Inc()
	s.log.Info("quiz recorded", "user_id", user.ID, "quiz_id", label, "recommended", len(ids), "rung", result.Rung)

	return &types.QuizOutcome{Result: *recorded, Recommendations: result.Recommendations, Rung: result.Rung}, nil
}

// History returns the user's quiz results with the titles each one
// recommended
func (s *recommendationServiceImpl) History(ctx context.Context, userID string) ([]types.QuizHistoryEntry, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	results, err := s.tracker.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]types.QuizHistoryEntry, 0, len(results))
	for _, r := range results {
		titles, err := s.catalog.GetTitles(ctx, r.RecommendedIDs)
		if err != nil {
			return nil, err
		}
		entries = append(entries, types.QuizHistoryEntry{Result: r, Titles: titles})
	}
	return entries, nil
}

func (s *recommendationServiceImpl) run(ctx context.Context, op, userID string, answers []string, maxAge *int) (*database.User, *types.RecommendationResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, nil, recerrors.Invalid(op, "userId is required")
	}
	if len(answers) == 0 {
		return nil, nil, recerrors.NoAnswers(op)
	}
	if maxAge != nil && *maxAge < 0 {
		return nil, nil, recerrors.Invalid(op, "maxAge must not be negative")
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	bound := types.BoundFor(user, maxAge)

	exclude, err := s.tracker.PriorRecommendedIDs(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	match, err := s.catalog.MatchKeywords(ctx, answers, bound)
	if err != nil {
		return nil, nil, err
	}

	eligible := 0
	for i := range match.Titles {
		if !exclude[match.Titles[i].ID] {
			eligible++
		}
	}
	ranked := s.scorer.Score(match.Titles, match.Keywords, bound.Age(), scorer.IDSet(user.FavoriteSet()), exclude)

	metrics.RecordRecommendation(string(match.Rung), eligible)
	s.log.Debug("recommendations scored",
		"user_id", user.ID,
		"rung", match.Rung,
		"candidates", len(match.Titles),
		"excluded", len(match.Titles)-eligible,
		"returned", len(ranked))

	return user, &types.RecommendationResult{
		Recommendations: ranked,
		UsedKeywords:    match.Keywords,
		TotalFound:      eligible,
		Rung:            match.Rung,
	}, nil
}
