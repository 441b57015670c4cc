// Package similarity ranks titles by shared genres and keywords.
package similarity

import (
	"context"
	"sort"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/repository"
)

const (
	genreWeight   = 0.6
	keywordWeight = 0.4
	// Threshold is the lowest weight at which two titles count as related.
	Threshold = 0.2
	// scanLimit bounds how many overlapping titles are weighed per request.
	scanLimit = 1000
)

// TitleStore is the slice of the catalog store used to find overlaps.
type TitleStore interface {
	Collect(ctx context.Context, q repository.TitleQuery, want int, keep func(*database.Title) bool) ([]database.Title, error)
}

// Related is a title with its similarity weight to the source title.
type Related struct {
	Title  database.Title
	Weight float64
}

// Weight is the genre/keyword weighted Jaccard index of two titles.
func Weight(a, b *database.Title) float64 {
	genresA, genresB := keySet(a.Genres, func(g database.TitleGenre) string { return g.Key }), keySet(b.Genres, func(g database.TitleGenre) string { return g.Key })
	keywordsA, keywordsB := keySet(a.Keywords, func(k database.TitleKeyword) string { return k.Name }), keySet(b.Keywords, func(k database.TitleKeyword) string { return k.Name })
	return genreWeight*jaccard(genresA, genresB) + keywordWeight*jaccard(keywordsA, keywordsB)
}

// Finder looks up related titles.
type Finder struct {
	store TitleStore
}

// NewFinder creates a finder.
func NewFinder(store TitleStore) *Finder {
	return &Finder{store: store}
}

// Similar returns up to limit titles related to source, heaviest first.
// keep filters candidates before they are weighed.
func (f *Finder) Similar(ctx context.Context, source *database.Title, limit int, keep func(*database.Title) bool) ([]Related, error) {
	genres := keySet(source.Genres, func(g database.TitleGenre) string { return g.Key })
	keywords := keySet(source.Keywords, func(k database.TitleKeyword) string { return k.Name })
	if len(genres) == 0 && len(keywords) == 0 {
		return []Related{}, nil
	}

	q := repository.TitleQuery{
		GenreKeys: database.SortedIDs(genres),
		Keywords:  database.SortedIDs(keywords),
	}
	candidates, err := f.store.Collect(ctx, q, scanLimit, func(t *database.Title) bool {
		return t.ID != source.ID && (keep == nil || keep(t))
	})
	if err != nil {
		return nil, err
	}

	related := make([]Related, 0, len(candidates))
	for i := range candidates {
		if w := Weight(source, &candidates[i]); w > Threshold {
			related = append(related, Related{Title: candidates[i], Weight: w})
		}
	}
	sort.SliceStable(related, func(i, j int) bool {
		if related[i].Weight != related[j].Weight {
			return related[i].Weight > related[j].Weight
		}
		return related[i].Title.ID < related[j].Title.ID
	})
	if limit > 0 && len(related) > limit {
		related = related[:limit]
	}
	return related, nil
}

func keySet[T any](items []T, key func(T) string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[key(item)] = true
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	shared := 0
	for k := range a {
		if b[k] {
			shared++
		}
	}
	return float64(shared) / float64(len(a)+len(b)-shared)
}
