package services

import (
	"context"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/types"
)

// Registry names of the module services.
const (
	CatalogServiceName        = "catalog"
	UserServiceName           = "users"
	RecommendationServiceName = "recommendations"
	EnrichmentServiceName     = "enrichment"
)

// CatalogService exposes read access to the safety-filtered catalog.
type CatalogService interface {
	// GetTitle returns one title. Titles hidden by the content-safety
	// filter are reported as not found.
	GetTitle(ctx context.Context, id string) (*database.Title, error)

	// GetTitles resolves ids in the given order, skipping unknown and
	// hidden titles.
	GetTitles(ctx context.Context, ids []string) ([]database.Title, error)

	// FilterTitles returns one cursor page of the catalog.
	FilterTitles(ctx context.Context, constraints types.CatalogConstraints, cursor *types.CatalogCursor, limit int) (*types.CatalogPage, error)

	// MatchKeywords returns the candidate set for quiz keywords, walking the
	// relaxation ladder until a rung yields titles.
	MatchKeywords(ctx context.Context, keywords []string, bound types.AgeBound) (*types.MatchResult, error)

	// SimilarTitles returns titles sharing genres and keywords with id.
	SimilarTitles(ctx context.Context, id string, bound types.AgeBound, limit int) ([]database.Title, error)
}

// UserService manages profiles and favorites.
type UserService interface {
	CreateUser(ctx context.Context, name, email string, role database.Role, age int) (*database.User, error)
	GetUser(ctx context.Context, id string) (*database.User, error)
	UpdateUser(ctx context.Context, id string, name *string, age *int) (*database.User, error)
	AddFavorite(ctx context.Context, userID, titleID string) (*database.User, error)
	RemoveFavorite(ctx context.Context, userID, titleID string) (*database.User, error)
	ListFavorites(ctx context.Context, userID string) ([]database.Title, error)
}

// RecommendationService runs the quiz to recommendation pipeline.
type RecommendationService interface {
	Recommend(ctx context.Context, req types.RecommendRequest) (*types.RecommendationResult, error)
	SubmitQuiz(ctx context.Context, req types.SubmitQuizRequest) (*types.QuizOutcome, error)
	History(ctx context.Context, userID string) ([]types.QuizHistoryEntry, error)
}

// EnrichmentService runs the catalog maintenance jobs against the metadata
// provider.
type EnrichmentService interface {
	ImportPopular(ctx context.Context, mediaType database.MediaType, pages int) (types.JobReport, error)
	UpdateRatings(ctx context.Context) (types.JobReport, error)
	UpdateDetails(ctx context.Context) (types.JobReport, error)
	Cleanup(ctx context.Context) (types.JobReport, error)
}
