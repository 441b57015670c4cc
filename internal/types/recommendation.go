package types

import (
	"github.com/cineclass/cineclass/internal/database"
)

// RecommendRequest asks for recommendations without recording them.
type RecommendRequest struct {
	UserID  string
	Answers []string
	MaxAge  *int // classroom ceiling, honoured for teachers and as a lower bound for students
}

// SubmitQuizRequest asks for recommendations and records them in the user's history.
type SubmitQuizRequest struct {
	UserID  string
	QuizID  string
	Answers []string
	MaxAge  *int
}

// ScoredTitle is a recommended title with its score.
type ScoredTitle struct {
	Title database.Title
	Score float64
}

// RecommendationResult is the outcome of one recommendation computation.
type RecommendationResult struct {
	Recommendations []ScoredTitle
	UsedKeywords    []string
	TotalFound      int
	Rung            MatchRung
}

// QuizOutcome is a recorded quiz result with its recommendations resolved.
type QuizOutcome struct {
	Result          database.QuizResult
	Recommendations []ScoredTitle
	Rung            MatchRung
}

// QuizHistoryEntry is a past quiz result with the titles it recommended.
// Titles removed from the catalog since are left out.
type QuizHistoryEntry struct {
	Result database.QuizResult
	Titles []database.Title
}
