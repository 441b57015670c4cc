package service

import (
	"context"
	"testing"
	"time"

	"github.com/cineclass/cineclass/internal/config"
	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/database/dbtest"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/rating"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/repository"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/safety"
	"github.com/cineclass/cineclass/internal/modules/enrichmentmodule/tmdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Popular(ctx context.Context, mt database.MediaType, page int) (*tmdb.Page, error) {
	args := m.Called(ctx, mt, page)
	p, _ := args.Get(0).(*tmdb.Page)
	return p, args.Error(1)
}

func (m *mockProvider) Keywords(ctx context.Context, mt database.MediaType, id int64) ([]string, error) {
	args := m.Called(ctx, mt, id)
	kw, _ := args.Get(0).([]string)
	return kw, args.Error(1)
}

func (m *mockProvider) Certifications(ctx context.Context, mt database.MediaType, id int64) ([]rating.Certification, error) {
	args := m.Called(ctx, mt, id)
	certs, _ := args.Get(0).([]rating.Certification)
	return certs, args.Error(1)
}

func (m *mockProvider) Genres(ctx context.Context, mt database.MediaType) (map[int]string, error) {
	args := m.Called(ctx, mt)
	g, _ := args.Get(0).(map[int]string)
	return g, args.Error(1)
}

func (m *mockProvider) Details(ctx context.Context, mt database.MediaType, id int64) (*tmdb.Details, error) {
	args := m.Called(ctx, mt, id)
	d, _ := args.Get(0).(*tmdb.Details)
	return d, args.Error(1)
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.TMDB.Pages = 1
	cfg.TMDB.RatingCallDelay = 0
	return cfg
}

func TestImportUsesDefaultPages(t *testing.T) {
	repo := repository.NewTitleRepository(dbtest.New(t), time.Second, 10)
	provider := &mockProvider{}
	provider.On("Genres", mock.Anything, database.MediaTypeTV).Return(map[int]string{}, nil)
	provider.On("Popular", mock.Anything, database.MediaTypeTV, 1).Return(&tmdb.Page{Page: 1, TotalPages: 1, Results: []tmdb.Item{
		{ID: 42, Name: "Bluey", Overview: "Uma família de cachorros", FirstAirDate: "2018-10-01"},
	}}, nil)
	provider.On("Keywords", mock.Anything, database.MediaTypeTV, int64(42)).Return([]string{"family"}, nil)
	provider.On("Certifications", mock.Anything, database.MediaTypeTV, int64(42)).
		Return([]rating.Certification{{Region: "US", Value: "TV-Y"}}, nil)

	svc := NewEnrichmentService(provider, repo, safety.New(), testConfig())
	report, err := svc.ImportPopular(context.Background(), database.MediaTypeTV, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Stored)
	provider.AssertExpectations(t)

	title, err := repo.GetByID(context.Background(), "tmdb_tv_42")
	require.NoError(t, err)
	assert.Equal(t, database.MediaTypeTV, title.MediaType)
	assert.Equal(t, []string{"família"}, title.KeywordNames())
}

func TestProviderJobsNeedAProvider(t *testing.T) {
	repo := repository.NewTitleRepository(dbtest.New(t), time.Second, 10)
	svc := NewEnrichmentService(nil, repo, safety.New(), testConfig())
	ctx := context.Background()

	_, err := svc.ImportPopular(ctx, database.MediaTypeMovie, 1)
	assert.ErrorIs(t, err, ErrProviderDisabled)
	_, err = svc.UpdateRatings(ctx)
	assert.ErrorIs(t, err, ErrProviderDisabled)
	_, err = svc.UpdateDetails(ctx)
	assert.ErrorIs(t, err, ErrProviderDisabled)

	report, err := svc.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cleanup", report.Job)
}
