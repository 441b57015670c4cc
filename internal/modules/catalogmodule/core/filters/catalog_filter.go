// Package filters implements cursor-paged catalog listings.
package filters

import (
	"context"
	"strings"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/repository"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/safety"
	catalogerrors "github.com/cineclass/cineclass/internal/modules/catalogmodule/errors"
	"github.com/cineclass/cineclass/internal/types"
)

// TitleStore is the slice of the catalog store the filter reads from.
type TitleStore interface {
	Collect(ctx context.Context, q repository.TitleQuery, want int, keep func(*database.Title) bool) ([]database.Title, error)
}

// CatalogFilter produces deterministic pages of the catalog. Pages are
// ranked by provider id descending with title id as tie-break, and the
// cursor is the (provider id, title id) pair of the last item of the
// previous page.
type CatalogFilter struct {
	store        TitleStore
	safety       *safety.Filter
	defaultLimit int
	maxLimit     int
}

// NewCatalogFilter creates a filter.
func NewCatalogFilter(store TitleStore, safetyFilter *safety.Filter, defaultLimit, maxLimit int) *CatalogFilter {
	return &CatalogFilter{
		store:        store,
		safety:       safetyFilter,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Filter returns the page after cursor. A nil cursor starts from the top.
func (f *CatalogFilter) Filter(ctx context.Context, c types.CatalogConstraints, cursor *types.CatalogCursor, limit int) (*types.CatalogPage, error) {
	if limit == 0 {
		limit = f.defaultLimit
	}
	if limit < 0 || limit > f.maxLimit {
		return nil, catalogerrors.Invalid("filter_titles", "limit must be between 1 and %d", f.maxLimit)
	}
	if c.MediaType != "" && !c.MediaType.Valid() {
		return nil, catalogerrors.Invalid("filter_titles", "unknown type %q", c.MediaType)
	}
	if c.Age.Set() && c.Age.Age() < 0 {
		return nil, catalogerrors.Invalid("filter_titles", "age must not be negative")
	}

	q := repository.TitleQuery{
		MediaType:         c.MediaType,
		MinRating:         c.MinRating,
		RequireExternalID: true,
		YearLike:          strings.TrimSpace(c.Year),
		Order:             repository.OrderExternalIDDesc,
	}
	if cursor != nil {
		q.BeforeExternalID = &cursor.ExternalID
		q.TieAfterID = cursor.ID
	}
	if c.Age.Set() {
		age := c.Age.Age()
		q.Age = &age
	}

	text := newTextMatch(c.Query, c.Genre)
	items, err := f.store.Collect(ctx, q, limit, func(t *database.Title) bool {
		return c.Age.Allows(t) && text.matches(t) && f.safety.Allowed(t)
	})
	if err != nil {
		return nil, err
	}

	page := &types.CatalogPage{Items: items, HasMore: len(items) == limit}
	if len(items) > 0 {
		last := items[len(items)-1]
		page.NextCursor = &types.CatalogCursor{ExternalID: *last.ExternalID, ID: last.ID}
	}
	return page, nil
}

// textMatch holds the lowercased free-text and genre predicates.
type textMatch struct {
	query string
	genre string
}

func newTextMatch(query, genre string) textMatch {
	return textMatch{query: database.NormalizeTerm(query), genre: database.NormalizeTerm(genre)}
}

func (m textMatch) matches(t *database.Title) bool {
	if m.genre != "" && !anyContains(genreKeys(t), m.genre) {
		return false
	}
	if m.query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Name), m.query) || strings.Contains(strings.ToLower(t.OriginalTitle), m.query) {
		return true
	}
	return anyContains(t.KeywordNames(), m.query) || anyContains(genreKeys(t), m.query)
}

func genreKeys(t *database.Title) []string {
	keys := make([]string, len(t.Genres))
	for i, g := range t.Genres {
		keys[i] = database.NormalizeTerm(g.Name)
	}
	return keys
}

func anyContains(values []string, sub string) bool {
	for _, v := range values {
		if strings.Contains(v, sub) {
			return true
		}
	}
	return false
}
