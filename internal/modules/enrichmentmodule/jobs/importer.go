package jobs

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/logger"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/rating"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/safety"
	"github.com/cineclass/cineclass/internal/modules/enrichmentmodule/tmdb"
	"github.com/cineclass/cineclass/internal/types"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"
)

// ImportOptions tunes the importer.
type ImportOptions struct {
	Workers   int
	Translate bool
	Regions   []string
}

// Importer copies the provider's popular lists into the catalog.
type Importer struct {
	provider Provider
	store    Store
	safety   *safety.Filter
	opts     ImportOptions
	log      hclog.Logger
}

// NewImporter creates an importer.
func NewImporter(provider Provider, store Store, filter *safety.Filter, opts ImportOptions) *Importer {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Importer{
		provider: provider,
		store:    store,
		safety:   filter,
		opts:     opts,
		log:      logger.Named("import"),
	}
}

// TitleID is the catalog id of a provider title. Series get their own
// prefix because movie and series ids overlap on the provider.
func TitleID(mediaType database.MediaType, externalID int64) string {
	if mediaType == database.MediaTypeTV {
		return fmt.Sprintf("tmdb_tv_%d", externalID)
	}
	return fmt.Sprintf("tmdb_%d", externalID)
}

// ImportPopular imports the first pages of the popular list. A page that
// cannot be fetched is counted and skipped.
func (im *Importer) ImportPopular(ctx context.Context, mediaType database.MediaType, pages int) (types.JobReport, error) {
	t := newTally(JobImport)
	if !mediaType.Valid() {
		return t.done(), fmt.Errorf("unsupported media type %q", mediaType)
	}
	if pages <= 0 {
		return t.done(), fmt.Errorf("pages must be positive, got %d", pages)
	}

	genres, err := im.provider.Genres(ctx, mediaType)
	if err != nil {
		im.log.Warn("genre list unavailable, titles keep no genres until update-details", "error", err)
		genres = map[int]string{}
	}

	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return t.done(), err
		}

		p, err := im.provider.Popular(ctx, mediaType, page)
		if err != nil {
			im.log.Error("failed to fetch page", "media_type", mediaType, "page", page, "error", err)
			t.failedPage()
			continue
		}
		im.log.Info("importing page", "media_type", mediaType, "page", page, "items", len(p.Results))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(im.opts.Workers)
		for _, item := range p.Results {
			g.Go(func() error {
				im.importItem(gctx, mediaType, item, genres, t)
				return nil
			})
		}
		_ = g.Wait()

		if p.TotalPages > 0 && page >= p.TotalPages {
			break
		}
	}

	report := t.done()
	im.log.Info("import finished", "report", report.String())
	return report, ctx.Err()
}

func (im *Importer) importItem(ctx context.Context, mediaType database.MediaType, item tmdb.Item, genres map[int]string, t *tally) {
	t.seen()
	name := item.DisplayTitle()

	if item.Adult || !im.safety.AllowedText(name, item.Original(), item.Overview, item.PosterPath) {
		im.log.Info("blocked title", "title", name, "external_id", item.ID)
		t.add(OutcomeSkipped)
		return
	}

	keywords, err := im.provider.Keywords(ctx, mediaType, item.ID)
	if err != nil {
		im.log.Warn("failed to fetch keywords", "title", name, "error", err)
		t.add(OutcomeFailed)
		return
	}
	if im.opts.Translate {
		keywords = TranslateKeywords(keywords)
	}

	certs, err := im.provider.Certifications(ctx, mediaType, item.ID)
	if err != nil {
		im.log.Warn("failed to fetch certifications", "title", name, "error", err)
		t.add(OutcomeFailed)
		return
	}
	r := rating.Normalize(rating.SelectCertification(certs, im.opts.Regions...), item.Adult)
	if r.Restricted {
		im.log.Info("restricted title not imported", "title", name, "rating", r.Code)
		t.add(OutcomeSkipped)
		return
	}

	title := buildTitle(mediaType, item, genres, keywords, r)
	if err := im.store.Upsert(ctx, title); err != nil {
		im.log.Error("failed to store title", "title", name, "error", err)
		t.add(OutcomeFailed)
		return
	}
	t.add(OutcomeStored)
}

func buildTitle(mediaType database.MediaType, item tmdb.Item, genres map[int]string, keywords []string, r rating.Rating) *database.Title {
	externalID := item.ID
	minAge, maxAge := r.MinAge, r.MaxAge
	title := &database.Title{
		ID:            TitleID(mediaType, item.ID),
		ExternalID:    &externalID,
		Name:          item.DisplayTitle(),
		OriginalTitle: item.Original(),
		Overview:      item.Overview,
		ReleaseDate:   item.Released(),
		ReleaseYear:   releaseYear(item.Released()),
		MediaType:     mediaType,
		Rating:        r.Code,
		MinAge:        &minAge,
		MaxAge:        &maxAge,
		Popularity:    item.VoteAverage,
		PosterPath:    item.PosterPath,
		Language:      item.OriginalLanguage,
		Adult:         item.Adult,
	}

	names := make([]string, 0, len(item.GenreIDs))
	for _, id := range item.GenreIDs {
		if name, ok := genres[id]; ok {
			names = append(names, name)
		}
	}
	title.SetGenres(names)
	title.SetKeywords(keywords)
	return title
}

func releaseYear(date string) *int {
	if len(date) < 4 {
		return nil
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return nil
	}
	return &year
}
