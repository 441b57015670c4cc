package jobs

import (
	"context"
	"strings"
	"time"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/logger"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/rating"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/repository"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/safety"
	"github.com/cineclass/cineclass/internal/types"
	"github.com/hashicorp/go-hclog"
)

// RatingUpdater refreshes the classification of every provider title and
// removes the ones rated for adults.
type RatingUpdater struct {
	provider Provider
	store    Store
	regions  []string
	delay    time.Duration
	log      hclog.Logger
}

// NewRatingUpdater creates a rating updater. delay is waited between
// provider calls.
func NewRatingUpdater(provider Provider, store Store, regions []string, delay time.Duration) *RatingUpdater {
	return &RatingUpdater{
		provider: provider,
		store:    store,
		regions:  regions,
		delay:    delay,
		log:      logger.Named("update-ratings"),
	}
}

// Run visits every title with a provider id.
func (u *RatingUpdater) Run(ctx context.Context) (types.JobReport, error) {
	t := newTally(JobUpdateRatings)

	err := u.store.Each(ctx, repository.TitleQuery{RequireExternalID: true}, func(title *database.Title) error {
		t.seen()
		defer func() { _ = sleep(ctx, u.delay) }()

		certs, err := u.provider.Certifications(ctx, title.MediaType, *title.ExternalID)
		if err != nil {
			u.log.Warn("failed to fetch certifications", "id", title.ID, "error", err)
			t.add(OutcomeFailed)
			return nil
		}

		r := rating.Normalize(rating.SelectCertification(certs, u.regions...), title.Adult)
		if r.Restricted {
			if _, err := u.store.Delete(ctx, title.ID); err != nil {
				return err
			}
			u.log.Info("removed restricted title", "id", title.ID, "title", title.Name, "rating", r.Code)
			t.add(OutcomeRemoved)
			return nil
		}

		if err := u.store.UpdateRating(ctx, title.ID, r.Code, r.MinAge, r.MaxAge); err != nil {
			return err
		}
		u.log.Debug("rating updated", "id", title.ID, "rating", r.Code)
		t.add(OutcomeStored)
		return nil
	})

	report := t.done()
	u.log.Info("rating update finished", "report", report.String())
	return report, err
}

// DetailsUpdater fills the genres of titles imported without them.
type DetailsUpdater struct {
	provider Provider
	store    Store
	delay    time.Duration
	log      hclog.Logger
}

// NewDetailsUpdater creates a details updater.
func NewDetailsUpdater(provider Provider, store Store, delay time.Duration) *DetailsUpdater {
	return &DetailsUpdater{
		provider: provider,
		store:    store,
		delay:    delay,
		log:      logger.Named("update-details"),
	}
}

// Run visits every provider title that has no genre.
func (u *DetailsUpdater) Run(ctx context.Context) (types.JobReport, error) {
	t := newTally(JobUpdateDetails)

	q := repository.TitleQuery{RequireExternalID: true, MissingGenres: true}
	err := u.store.Each(ctx, q, func(title *database.Title) error {
		t.seen()
		defer func() { _ = sleep(ctx, u.delay) }()

		details, err := u.provider.Details(ctx, title.MediaType, *title.ExternalID)
		if err != nil {
			u.log.Warn("failed to fetch details", "id", title.ID, "error", err)
			t.add(OutcomeFailed)
			return nil
		}

		names := make([]string, 0, len(details.Genres))
		for _, g := range details.Genres {
			names = append(names, g.Name)
		}
		if len(names) == 0 {
			t.add(OutcomeSkipped)
			return nil
		}

		if err := u.store.ReplaceGenres(ctx, title.ID, names); err != nil {
			return err
		}
		t.add(OutcomeStored)
		return nil
	})

	report := t.done()
	u.log.Info("details update finished", "report", report.String())
	return report, err
}

// Cleanup removes titles without an overview, titles caught by the safety
// filter and duplicate display titles. Of each duplicate group the title
// with the lowest id is kept.
type Cleanup struct {
	store  Store
	safety *safety.Filter
	log    hclog.Logger
}

// NewCleanup creates a cleanup job.
func NewCleanup(store Store, filter *safety.Filter) *Cleanup {
	return &Cleanup{store: store, safety: filter, log: logger.Named("cleanup")}
}

// Run visits the whole catalog in id order.
func (c *Cleanup) Run(ctx context.Context) (types.JobReport, error) {
	t := newTally(JobCleanup)
	kept := make(map[string]string)

	err := c.store.Each(ctx, repository.TitleQuery{}, func(title *database.Title) error {
		t.seen()

		reason := ""
		key := database.NormalizeTerm(title.Name)
		if strings.TrimSpace(title.Overview) == "" {
			reason = "missing overview"
		} else if r := c.safety.Reason(title); r != "" {
			reason = r
		} else if first, dup := kept[key]; dup {
			reason = "duplicate of " + first
		}

		if reason == "" {
			kept[key] = title.ID
			t.add(OutcomeSkipped)
			return nil
		}

		if _, err := c.store.Delete(ctx, title.ID); err != nil {
			return err
		}
		c.log.Info("removed title", "id", title.ID, "title", title.Name, "reason", reason)
		t.add(OutcomeRemoved)
		return nil
	})

	report := t.done()
	c.log.Info("cleanup finished", "report", report.String())
	return report, err
}
