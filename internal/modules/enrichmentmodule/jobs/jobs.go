// Package jobs holds the batch jobs that fill and maintain the catalog
// from the metadata provider. A failing item is logged and skipped; only a
// store or context failure stops a run.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/metrics"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/rating"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/repository"
	"github.com/cineclass/cineclass/internal/modules/enrichmentmodule/tmdb"
	"github.com/cineclass/cineclass/internal/types"
)

// Job names, also used as metric labels and CLI commands.
const (
	JobImport        = "import"
	JobUpdateRatings = "update-ratings"
	JobUpdateDetails = "update-details"
	JobCleanup       = "cleanup"
)

// Item outcomes.
const (
	OutcomeStored  = "stored"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
	OutcomeRemoved = "removed"
)

// Provider is the metadata source. *tmdb.Client implements it.
type Provider interface {
	Popular(ctx context.Context, mediaType database.MediaType, page int) (*tmdb.Page, error)
	Keywords(ctx context.Context, mediaType database.MediaType, id int64) ([]string, error)
	Certifications(ctx context.Context, mediaType database.MediaType, id int64) ([]rating.Certification, error)
	Genres(ctx context.Context, mediaType database.MediaType) (map[int]string, error)
	Details(ctx context.Context, mediaType database.MediaType, id int64) (*tmdb.Details, error)
}

// Store is the catalog store. *repository.TitleRepository implements it.
type Store interface {
	Upsert(ctx context.Context, title *database.Title) error
	Each(ctx context.Context, q repository.TitleQuery, fn func(*database.Title) error) error
	UpdateRating(ctx context.Context, id, code string, minAge, maxAge int) error
	ReplaceGenres(ctx context.Context, id string, names []string) error
	Delete(ctx context.Context, id string) (bool, error)
}

// tally is a report shared by concurrent workers.
type tally struct {
	mu     sync.Mutex
	report types.JobReport
	start  time.Time
}

func newTally(job string) *tally {
	return &tally{report: types.JobReport{Job: job}, start: time.Now()}
}

func (t *tally) seen() {
	t.mu.Lock()
	t.report.Seen++
	t.mu.Unlock()
}

func (t *tally) add(outcome string) {
	t.mu.Lock()
	switch outcome {
	case OutcomeStored:
		t.report.Stored++
	case OutcomeSkipped:
		t.report.Skipped++
	case OutcomeRemoved:
		t.report.Removed++
	case OutcomeFailed:
		t.report.Failed++
	}
	t.mu.Unlock()
	metrics.RecordJobItem(t.report.Job, outcome)
}

func (t *tally) failedPage() {
	t.mu.Lock()
	t.report.FailedPages++
	t.mu.Unlock()
}

func (t *tally) done() types.JobReport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.report.Duration = time.Since(t.start)
	return t.report
}

// sleep waits d or until ctx ends.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
