package similarity

import (
	"context"
	"testing"
	"time"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/database/dbtest"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func title(id string, genres, keywords []string) *database.Title {
	t := &database.Title{ID: id, Name: id, MediaType: database.MediaTypeMovie}
	t.SetGenres(genres)
	t.SetKeywords(keywords)
	return t
}

func TestWeight(t *testing.T) {
	a := title("a", []string{"Drama", "Aventura"}, []string{"mar", "ilha"})
	b := title("b", []string{"Drama"}, []string{"mar", "ilha"})
	assert.InDelta(t, 0.6*0.5+0.4*1.0, Weight(a, b), 1e-9)

	assert.Equal(t, 0.0, Weight(title("x", nil, nil), title("y", nil, nil)))
}

func TestSimilarRanksAndFilters(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewTitleRepository(dbtest.New(t), time.Second, 10)

	source := title("src", []string{"Drama", "Aventura"}, []string{"mar", "ilha"})
	for _, tt := range []*database.Title{
		source,
		title("close", []string{"Drama", "Aventura"}, []string{"mar"}),
		title("half", []string{"Drama"}, []string{"mar", "ilha"}),
		title("weak", []string{"Terror", "Suspense", "Mistério"}, []string{"ilha", "noite", "faca", "lua"}),
		title("blocked", []string{"Drama", "Aventura"}, []string{"mar", "ilha"}),
		title("unrelated", []string{"Comédia"}, []string{"festa"}),
	} {
		require.NoError(t, repo.Upsert(ctx, tt))
	}

	got, err := NewFinder(repo).Similar(ctx, source, 10, func(t *database.Title) bool { return t.ID != "blocked" })
	require.NoError(t, err)

	ids := make([]string, len(got))
	for i, r := range got {
		ids[i] = r.Title.ID
		assert.Greater(t, r.Weight, Threshold)
	}
	assert.Equal(t, []string{"close", "half"}, ids)

	got, err = NewFinder(repo).Similar(ctx, source, 1, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "blocked", got[0].Title.ID)
}
