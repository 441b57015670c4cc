package service

import (
	"context"
	"testing"
	"time"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/database/dbtest"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/repository"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/safety"
	catalogerrors "github.com/cineclass/cineclass/internal/modules/catalogmodule/errors"
	"github.com/cineclass/cineclass/internal/services"
	"github.com/cineclass/cineclass/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func seed(t *testing.T) (services.CatalogService, context.Context) {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewTitleRepository(dbtest.New(t), time.Second, 50)

	titles := []struct {
		id       string
		name     string
		minAge   int
		genres   []string
		keywords []string
	}{
		{"tmdb_1", "Ocean Trip", 0, []string{"Aventura", "Família"}, []string{"mar", "amizade"}},
		{"tmdb_2", "Island Kids", 0, []string{"Aventura", "Família"}, []string{"mar", "ilha"}},
		{"tmdb_3", "Dark Night", 16, []string{"Aventura", "Família"}, []string{"mar"}},
		{"tmdb_4", "Erotic Island", 0, []string{"Aventura", "Família"}, []string{"mar"}},
	}
	for i, tt := range titles {
		ext := int64(i + 1)
		title := &database.Title{
			ID: tt.id, ExternalID: &ext, Name: tt.name, MediaType: database.MediaTypeMovie,
			MinAge: intPtr(tt.minAge), MaxAge: intPtr(99),
		}
		title.SetGenres(tt.genres)
		title.SetKeywords(tt.keywords)
		require.NoError(t, repo.Upsert(ctx, title))
	}

	return NewCatalogService(repo, safety.New(), Options{
		DefaultPageSize: 20, MaxPageSize: 100, CandidateLimit: 100, SampleLimit: 30, SimilarLimit: 10,
	}), ctx
}

func TestGetTitleHidesUnsafeTitles(t *testing.T) {
	svc, ctx := seed(t)

	title, err := svc.GetTitle(ctx, "tmdb_1")
	require.NoError(t, err)
	assert.Equal(t, "Ocean Trip", title.Name)

	_, err = svc.GetTitle(ctx, "tmdb_4")
	assert.True(t, catalogerrors.IsNotFound(err))
}

func TestGetTitlesKeepsRequestOrder(t *testing.T) {
	svc, ctx := seed(t)

	titles, err := svc.GetTitles(ctx, []string{"tmdb_3", "missing", "tmdb_4", "tmdb_1"})
	require.NoError(t, err)
	require.Len(t, titles, 2)
	assert.Equal(t, "tmdb_3", titles[0].ID)
	assert.Equal(t, "tmdb_1", titles[1].ID)
}

func TestSimilarTitlesRespectsBound(t *testing.T) {
	svc, ctx := seed(t)

	titles, err := svc.SimilarTitles(ctx, "tmdb_1", types.AgeOf(10), 0)
	require.NoError(t, err)
	require.Len(t, titles, 1)
	assert.Equal(t, "tmdb_2", titles[0].ID)

	titles, err = svc.SimilarTitles(ctx, "tmdb_1", types.NoAgeBound(), 0)
	require.NoError(t, err)
	assert.Len(t, titles, 2)
}

func TestMatchKeywordsDelegates(t *testing.T) {
	svc, ctx := seed(t)

	res, err := svc.MatchKeywords(ctx, []string{"ILHA"}, types.NoAgeBound())
	require.NoError(t, err)
	assert.Equal(t, types.MatchRungKeyword, res.Rung)
	require.Len(t, res.Titles, 1)
	assert.Equal(t, "tmdb_2", res.Titles[0].ID)
}
