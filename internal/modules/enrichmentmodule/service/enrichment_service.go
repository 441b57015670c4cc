// Package service runs the catalog jobs on behalf of the CLI.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cineclass/cineclass/internal/config"
	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/safety"
	"github.com/cineclass/cineclass/internal/modules/enrichmentmodule/jobs"
	"github.com/cineclass/cineclass/internal/services"
	"github.com/cineclass/cineclass/internal/types"
)

// ErrProviderDisabled is returned by provider jobs when no API key is set.
var ErrProviderDisabled = errors.New("metadata provider is not configured")

type enrichmentService struct {
	provider     jobs.Provider
	importer     *jobs.Importer
	ratings      *jobs.RatingUpdater
	details      *jobs.DetailsUpdater
	cleanup      *jobs.Cleanup
	defaultPages int
}

// NewEnrichmentService wires the jobs. provider may be nil, in which case
// only Cleanup is available.
func NewEnrichmentService(provider jobs.Provider, store jobs.Store, filter *safety.Filter, cfg *config.Config) services.EnrichmentService {
	regions := cfg.Catalog.RatingRegions
	s := &enrichmentService{
		provider:     provider,
		cleanup:      jobs.NewCleanup(store, filter),
		defaultPages: cfg.TMDB.Pages,
	}
	if provider != nil {
		s.importer = jobs.NewImporter(provider, store, filter, jobs.ImportOptions{
			Workers:   cfg.TMDB.Workers,
			Translate: cfg.TMDB.TranslateKeyword,
			Regions:   regions,
		})
		s.ratings = jobs.NewRatingUpdater(provider, store, regions, cfg.TMDB.RatingCallDelay)
		s.details = jobs.NewDetailsUpdater(provider, store, cfg.TMDB.RatingCallDelay)
	}
	return s
}

func (s *enrichmentService) ImportPopular(ctx context.Context, mediaType database.MediaType, pages int) (types.JobReport, error) {
	if s.provider == nil {
		return types.JobReport{Job: jobs.JobImport}, ErrProviderDisabled
	}
	if pages <= 0 {
		pages = s.defaultPages
	}
	report, err := s.importer.ImportPopular(ctx, mediaType, pages)
	if err != nil {
		return report, fmt.Errorf("import of popular %s failed: %w", mediaType, err)
	}
	return report, nil
}

func (s *enrichmentService) UpdateRatings(ctx context.Context) (types.JobReport, error) {
	if s.provider == nil {
		return types.JobReport{Job: jobs.JobUpdateRatings}, ErrProviderDisabled
	}
	return s.ratings.Run(ctx)
}

func (s *enrichmentService) UpdateDetails(ctx context.Context) (types.JobReport, error) {
	if s.provider == nil {
		return types.JobReport{Job: jobs.JobUpdateDetails}, ErrProviderDisabled
	}
	return s.details.Run(ctx)
}

func (s *enrichmentService) Cleanup(ctx context.Context) (types.JobReport, error) {
	return s.cleanup.Run(ctx)
}
