// Package matcher turns quiz keywords into a candidate set, relaxing the
// match step by step until something is found.
package matcher

import (
	"context"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/logger"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/repository"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/safety"
	catalogerrors "github.com/cineclass/cineclass/internal/modules/catalogmodule/errors"
	"github.com/cineclass/cineclass/internal/types"
	"github.com/hashicorp/go-hclog"
)

// TitleStore is the slice of the catalog store the matcher reads from.
type TitleStore interface {
	Collect(ctx context.Context, q repository.TitleQuery, want int, keep func(*database.Title) bool) ([]database.Title, error)
}

// KeywordMatcher walks the relaxation ladder: exact keyword or genre,
// then genre substring, then a popularity-ordered sample.
type KeywordMatcher struct {
	store          TitleStore
	safety         *safety.Filter
	candidateLimit int
	sampleLimit    int
	log            hclog.Logger
}

// NewKeywordMatcher creates a matcher. candidateLimit caps the first two
// rungs and sampleLimit the last one.
func NewKeywordMatcher(store TitleStore, safetyFilter *safety.Filter, candidateLimit, sampleLimit int) *KeywordMatcher {
	return &KeywordMatcher{
		store:          store,
		safety:         safetyFilter,
		candidateLimit: candidateLimit,
		sampleLimit:    sampleLimit,
		log:            logger.Named("matcher"),
	}
}

// Match returns the candidates of the first rung that yields any title.
func (m *KeywordMatcher) Match(ctx context.Context, keywords []string, bound types.AgeBound) (*types.MatchResult, error) {
	terms := NormalizeKeywords(keywords)
	if len(terms) == 0 {
		return nil, &catalogerrors.CatalogError{Type: catalogerrors.ErrorTypeValidation, Op: "match_keywords", Err: catalogerrors.ErrNoKeywords}
	}

	base := repository.TitleQuery{Order: repository.OrderPopularityDesc}
	if bound.Set() {
		age := bound.Age()
		base.Age = &age
	}
	keep := func(t *database.Title) bool {
		return bound.Allows(t) && m.safety.Allowed(t)
	}

	rungs := []struct {
		rung  types.MatchRung
		limit int
		query func(q repository.TitleQuery) repository.TitleQuery
	}{
		{types.MatchRungKeyword, m.candidateLimit, func(q repository.TitleQuery) repository.TitleQuery {
			q.Keywords, q.GenreKeys = terms, terms
			return q
		}},
		{types.MatchRungGenre, m.candidateLimit, func(q repository.TitleQuery) repository.TitleQuery {
			q.GenreLike = terms
			return q
		}},
		{types.MatchRungSample, m.sampleLimit, func(q repository.TitleQuery) repository.TitleQuery {
			return q
		}},
	}

	for _, r := range rungs {
		titles, err := m.store.Collect(ctx, r.query(base), r.limit, keep)
		if err != nil {
			return nil, err
		}
		if len(titles) > 0 {
			m.log.Debug("candidates matched", "rung", r.rung, "count", len(titles), "keywords", len(terms))
			return &types.MatchResult{Titles: titles, Rung: r.rung, Keywords: terms}, nil
		}
	}

	m.log.Debug("no candidates for keywords", "keywords", terms)
	return &types.MatchResult{Titles: []database.Title{}, Rung: types.MatchRungNone, Keywords: terms}, nil
}

// NormalizeKeywords trims and lowercases keywords, dropping blanks and
// duplicates while keeping first-seen order.
func NormalizeKeywords(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = database.NormalizeTerm(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
