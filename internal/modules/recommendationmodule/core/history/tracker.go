// Package history keeps the append-only record of quiz submissions and
// what was recommended for each.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/modules/recommendationmodule/core/scorer"
	recerrors "github.com/cineclass/cineclass/internal/modules/recommendationmodule/errors"
	usererrors "github.com/cineclass/cineclass/internal/modules/usermodule/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tracker reads and appends quiz results.
type Tracker struct {
	db      *gorm.DB
	timeout time.Duration
	now     func() time.Time
}

// NewTracker creates a tracker whose store calls are bounded by timeout.
func NewTracker(db *gorm.DB, timeout time.Duration) *Tracker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Tracker{db: db, timeout: timeout, now: time.Now}
}

func (t *Tracker) withTimeout(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	return t.db.WithContext(ctx), cancel
}

// Record appends a quiz result for an existing user. Answers are stored as
// given and recommendedIDs are the ids that were shown.
func (t *Tracker) Record(ctx context.Context, userID, quizLabel string, answers, recommendedIDs []string) (*database.QuizResult, error) {
	db, cancel := t.withTimeout(ctx)
	defer cancel()

	var result *database.QuizResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var user database.User
		if err := tx.Select("id").First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		result = user.AppendQuizResult(database.QuizResult{
			ID:             uuid.New().String(),
			QuizID:         quizLabel,
			Answers:        append([]string{}, answers...),
			RecommendedIDs: append([]string{}, recommendedIDs...),
			CreatedAt:      t.now(),
		})
		return tx.Create(result).Error
	})
	if err != nil {
		return nil, translate("record_quiz", userID, err)
	}
	return result, nil
}

// PriorRecommendedIDs returns every title id recommended to the user by
// any earlier quiz.
func (t *Tracker) PriorRecommendedIDs(ctx context.Context, userID string) (scorer.IDSet, error) {
	db, cancel := t.withTimeout(ctx)
	defer cancel()

	var results []database.QuizResult
	if err := db.Select("recommended_ids").Where("user_id = ?", userID).Find(&results).Error; err != nil {
		return nil, translate("prior_recommendations", userID, err)
	}

	ids := make(scorer.IDSet)
	for _, r := range results {
		for _, id := range r.RecommendedIDs {
			ids[id] = true
		}
	}
	return ids, nil
}

// History returns the user's quiz results, oldest first.
func (t *Tracker) History(ctx context.Context, userID string) ([]database.QuizResult, error) {
	db, cancel := t.withTimeout(ctx)
	defer cancel()

	if err := requireUser(db, userID); err != nil {
		return nil, translate("quiz_history", userID, err)
	}

	var results []database.QuizResult
	if err := db.Where("user_id = ?", userID).Order("created_at ASC").Order("id ASC").Find(&results).Error; err != nil {
		return nil, translate("quiz_history", userID, err)
	}
	return results, nil
}

func requireUser(db *gorm.DB, userID string) error {
	var n int64
	if err := db.Model(&database.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func translate(op, userID string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usererrors.NotFound(op, userID)
	}
	return recerrors.Store(op, userID, err)
}
