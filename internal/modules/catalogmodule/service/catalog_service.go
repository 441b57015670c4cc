// Package service implements services.CatalogService.
package service

import (
	"context"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/filters"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/matcher"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/repository"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/safety"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/similarity"
	catalogerrors "github.com/cineclass/cineclass/internal/modules/catalogmodule/errors"
	"github.com/cineclass/cineclass/internal/services"
	"github.com/cineclass/cineclass/internal/types"
)

// catalogServiceImpl implements the CatalogService interface
type catalogServiceImpl struct {
	repo         *repository.TitleRepository
	safety       *safety.Filter
	filter       *filters.CatalogFilter
	matcher      *matcher.KeywordMatcher
	similar      *similarity.Finder
	similarLimit int
}

// Options sizes the catalog reads.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
	CandidateLimit  int
	SampleLimit     int
	SimilarLimit    int
}

// NewCatalogService creates a new catalog service implementation
func NewCatalogService(repo *repository.TitleRepository, safetyFilter *safety.Filter, opts Options) services.CatalogService {
	return &catalogServiceImpl{
		repo:         repo,
		safety:       safetyFilter,
		filter:       filters.NewCatalogFilter(repo, safetyFilter, opts.DefaultPageSize, opts.MaxPageSize),
		matcher:      matcher.NewKeywordMatcher(repo, safetyFilter, opts.CandidateLimit, opts.SampleLimit),
		similar:      similarity.NewFinder(repo),
		similarLimit: opts.SimilarLimit,
	}
}

// GetTitle retrieves a visible title by id
func (s *catalogServiceImpl) GetTitle(ctx context.Context, id string) (*database.Title, error) {
	title, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.safety.Allowed(title) {
		return nil, catalogerrors.NotFound("get_title", id)
	}
	return title, nil
}

// GetTitles resolves ids in request order
func (s *catalogServiceImpl) GetTitles(ctx context.Context, ids []string) ([]database.Title, error) {
	if len(ids) == 0 {
		return []database.Title{}, nil
	}
	found, err := s.repo.Find(ctx, repository.TitleQuery{IDs: ids})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]database.Title, len(found))
	for _, t := range found {
		byID[t.ID] = t
	}
	out := make([]database.Title, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok && s.safety.Allowed(&t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// FilterTitles returns one page of the catalog
func (s *catalogServiceImpl) FilterTitles(ctx context.Context, constraints types.CatalogConstraints, cursor *types.CatalogCursor, limit int) (*types.CatalogPage, error) {
	return s.filter.Filter(ctx, constraints, cursor, limit)
}

// MatchKeywords returns the quiz candidates for keywords
func (s *catalogServiceImpl) MatchKeywords(ctx context.Context, keywords []string, bound types.AgeBound) (*types.MatchResult, error) {
	return s.matcher.Match(ctx, keywords, bound)
}

// SimilarTitles returns visible titles related to id
func (s *catalogServiceImpl) SimilarTitles(ctx context.Context, id string, bound types.AgeBound, limit int) ([]database.Title, error) {
	source, err := s.GetTitle(ctx, id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.similarLimit
	}

	related, err := s.similar.Similar(ctx, source, limit, func(t *database.Title) bool {
		return bound.Allows(t) && s.safety.Allowed(t)
	})
	if err != nil {
		return nil, err
	}
	titles := make([]database.Title, len(related))
	for i, r := range related {
		titles[i] = r.Title
	}
	return titles, nil
}
