// Package repository owns every catalog store query.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cineclass/cineclass/internal/database"
	catalogerrors "github.com/cineclass/cineclass/internal/modules/catalogmodule/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Order selects the sort of a title query.
type Order int

const (
	// OrderID sorts by id ascending.
	OrderID Order = iota
	// OrderExternalIDDesc sorts by the provider id descending, then id.
	OrderExternalIDDesc
	// OrderPopularityDesc sorts by popularity descending, then id.
	OrderPopularityDesc
)

// TitleQuery is a structured predicate over the catalog. Zero-valued
// fields do not constrain the result.
type TitleQuery struct {
	IDs       []string
	MediaType database.MediaType

	// Age keeps titles whose age interval contains the value.
	Age *int
	// MinRating keeps titles classified at or above the given age, and
	// titles without a minimum age.
	MinRating *int

	RequireExternalID bool
	BeforeExternalID  *int64
	// TieAfterID also keeps titles at BeforeExternalID whose id sorts
	// after it.
	TieAfterID string

	// Keywords and GenreKeys match exactly, combined with OR.
	Keywords  []string
	GenreKeys []string
	// GenreLike matches genre keys containing any of the terms.
	GenreLike []string

	YearLike string
	AfterID  string

	MissingGenres   bool
	MissingOverview bool

	Order Order
	Limit int
}

// TitleRepository reads and writes titles with their genres and keywords.
type TitleRepository struct {
	db        *gorm.DB
	timeout   time.Duration
	batchSize int
}

// NewTitleRepository creates a repository. Every store call is bounded by
// timeout; batchSize is the page size used by Collect.
func NewTitleRepository(db *gorm.DB, timeout time.Duration, batchSize int) *TitleRepository {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 200
	}
	return &TitleRepository{db: db, timeout: timeout, batchSize: batchSize}
}

func (r *TitleRepository) withTimeout(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	return r.db.WithContext(ctx), cancel
}

func preloadChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Keywords", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}

// GetByID returns a title with its genres and keywords.
func (r *TitleRepository) GetByID(ctx context.Context, id string) (*database.Title, error) {
	db, cancel := r.withTimeout(ctx)
	defer cancel()

	var title database.Title
	if err := preloadChildren(db).First(&title, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalogerrors.NotFound("get_title", id)
		}
		return nil, catalogerrors.Store("get_title", err)
	}
	return &title, nil
}

// Find returns the titles matching q, at most q.Limit when set.
func (r *TitleRepository) Find(ctx context.Context, q TitleQuery) ([]database.Title, error) {
	return r.find(ctx, q, q.Limit, 0)
}

// Collect pages through the titles matching q in query order and returns
// the first want titles accepted by keep. A nil keep accepts everything.
func (r *TitleRepository) Collect(ctx context.Context, q TitleQuery, want int, keep func(*database.Title) bool) ([]database.Title, error) {
	out := make([]database.Title, 0, want)
	if want <= 0 {
		return out, nil
	}

	for offset := 0; ; offset += r.batchSize {
		batch, err := r.find(ctx, q, r.batchSize, offset)
		if err != nil {
			return nil, err
		}
		for i := range batch {
			if keep != nil && !keep(&batch[i]) {
				continue
			}
			out = append(out, batch[i])
			if len(out) == want {
				return out, nil
			}
		}
		if len(batch) < r.batchSize {
			return out, nil
		}
	}
}

func (r *TitleRepository) find(ctx context.Context, q TitleQuery, limit, offset int) ([]database.Title, error) {
	db, cancel := r.withTimeout(ctx)
	defer cancel()

	tx := preloadChildren(db.Model(&database.Title{})).Scopes(r.applyQuery(q))
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}

	var titles []database.Title
	if err := tx.Find(&titles).Error; err != nil {
		return nil, catalogerrors.Store("find_titles", err)
	}
	return titles, nil
}

func (r *TitleRepository) applyQuery(q TitleQuery) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		fresh := func() *gorm.DB { return tx.Session(&gorm.Session{NewDB: true}) }

		if len(q.IDs) > 0 {
			tx = tx.Where("titles.id IN ?", q.IDs)
		}
		if q.MediaType != "" {
			tx = tx.Where("titles.media_type = ?", q.MediaType)
		}
		if q.Age != nil {
			tx = tx.Where("(titles.min_age IS NULL OR titles.min_age <= ?) AND (titles.max_age IS NULL OR titles.max_age >= ?)", *q.Age, *q.Age)
		}
		if q.MinRating != nil {
			tx = tx.Where("(titles.min_age IS NULL OR titles.min_age >= ?)", *q.MinRating)
		}
		if q.RequireExternalID {
			tx = tx.Where("titles.external_id IS NOT NULL")
		}
		if q.BeforeExternalID != nil {
			if q.TieAfterID != "" {
				tx = tx.Where("(titles.external_id < ? OR (titles.external_id = ? AND titles.id > ?))",
					*q.BeforeExternalID, *q.BeforeExternalID, q.TieAfterID)
			} else {
				tx = tx.Where("titles.external_id < ?", *q.BeforeExternalID)
			}
		}
		if q.YearLike != "" {
			tx = tx.Where("titles.release_date LIKE ? ESCAPE '\\'", "%"+escapeLike(q.YearLike)+"%")
		}
		if q.AfterID != "" {
			tx = tx.Where("titles.id > ?", q.AfterID)
		}

		if len(q.Keywords) > 0 || len(q.GenreKeys) > 0 {
			group := fresh()
			if len(q.Keywords) > 0 {
				group = group.Or("titles.id IN (?)", fresh().Model(&database.TitleKeyword{}).Select("title_id").Where("name IN ?", q.Keywords))
			}
			if len(q.GenreKeys) > 0 {
				group = group.Or("titles.id IN (?)", fresh().Model(&database.TitleGenre{}).Select("title_id").Where("name_key IN ?", q.GenreKeys))
			}
			tx = tx.Where(group)
		}

		if len(q.GenreLike) > 0 {
			sub := fresh().Model(&database.TitleGenre{}).Select("title_id")
			likes := fresh()
			for _, term := range q.GenreLike {
				likes = likes.Or("name_key LIKE ? ESCAPE '\\'", "%"+escapeLike(term)+"%")
			}
			tx = tx.Where("titles.id IN (?)", sub.Where(likes))
		}

		if q.MissingGenres {
			tx = tx.Where("NOT EXISTS (SELECT 1 FROM title_genres WHERE title_genres.title_id = titles.id)")
		}
		if q.MissingOverview {
			tx = tx.Where("(titles.overview IS NULL OR TRIM(titles.overview) = '')")
		}

		switch q.Order {
		case OrderExternalIDDesc:
			tx = tx.Order("titles.external_id DESC").Order("titles.id ASC")
		case OrderPopularityDesc:
			tx = tx.Order("titles.popularity DESC").Order("titles.id ASC")
		default:
			tx = tx.Order("titles.id ASC")
		}
		return tx
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

var upsertColumns = []string{
	"external_id", "title", "original_title", "overview", "release_date",
	"release_year", "media_type", "rating", "min_age", "max_age",
	"popularity", "poster_path", "language", "adult", "updated_at",
}

// Upsert inserts the title or overwrites the stored one with the same id,
// replacing its genres and keywords.
func (r *TitleRepository) Upsert(ctx context.Context, title *database.Title) error {
	if title.ID == "" {
		return catalogerrors.Invalid("upsert_title", "title id is required")
	}

	db, cancel := r.withTimeout(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).Create(title).Error; err != nil {
			return err
		}
		return replaceChildren(tx, title)
	})
	if err != nil {
		return catalogerrors.Store("upsert_title", err)
	}
	return nil
}

func replaceChildren(tx *gorm.DB, title *database.Title) error {
	if err := tx.Where("title_id = ?", title.ID).Delete(&database.TitleGenre{}).Error; err != nil {
		return err
	}
	if err := tx.Where("title_id = ?", title.ID).Delete(&database.TitleKeyword{}).Error; err != nil {
		return err
	}

	for i := range title.Genres {
		title.Genres[i].ID = 0
		title.Genres[i].TitleID = title.ID
	}
	for i := range title.Keywords {
		title.Keywords[i].ID = 0
		title.Keywords[i].TitleID = title.ID
	}

	if len(title.Genres) > 0 {
		if err := tx.Create(&title.Genres).Error; err != nil {
			return err
		}
	}
	if len(title.Keywords) > 0 {
		if err := tx.Create(&title.Keywords).Error; err != nil {
			return err
		}
	}
	return nil
}

// ReplaceGenres overwrites only the genre set of a title.
func (r *TitleRepository) ReplaceGenres(ctx context.Context, id string, names []string) error {
	db, cancel := r.withTimeout(ctx)
	defer cancel()

	title := database.Title{ID: id}
	title.SetGenres(names)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("title_id = ?", id).Delete(&database.TitleGenre{}).Error; err != nil {
			return err
		}
		if len(title.Genres) == 0 {
			return nil
		}
		return tx.Create(&title.Genres).Error
	})
	if err != nil {
		return catalogerrors.Store("replace_genres", err)
	}
	return nil
}

// UpdateRating stores a normalized classification.
func (r *TitleRepository) UpdateRating(ctx context.Context, id, code string, minAge, maxAge int) error {
	db, cancel := r.withTimeout(ctx)
	defer cancel()

	res := db.Model(&database.Title{}).Where("id = ?", id).Updates(map[string]interface{}{
		"rating":  code,
		"min_age": minAge,
		"max_age": maxAge,
	})
	if res.Error != nil {
		return catalogerrors.Store("update_rating", res.Error)
	}
	if res.RowsAffected == 0 {
		return catalogerrors.NotFound("update_rating", id)
	}
	return nil
}

// Delete removes a title with its genres and keywords. It reports whether
// a title was removed.
func (r *TitleRepository) Delete(ctx context.Context, id string) (bool, error) {
	db, cancel := r.withTimeout(ctx)
	defer cancel()

	var deleted int64
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("title_id = ?", id).Delete(&database.TitleGenre{}).Error; err != nil {
			return err
		}
		if err := tx.Where("title_id = ?", id).Delete(&database.TitleKeyword{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&database.Title{})
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, catalogerrors.Store("delete_title", err)
	}
	return deleted > 0, nil
}

// Count returns the number of stored titles.
func (r *TitleRepository) Count(ctx context.Context) (int64, error) {
	db, cancel := r.withTimeout(ctx)
	defer cancel()

	var n int64
	if err := db.Model(&database.Title{}).Count(&n).Error; err != nil {
		return 0, catalogerrors.Store("count_titles", err)
	}
	return n, nil
}

// Each visits every title matching q in id order, one batch at a time. The
// callback may delete the title it is given.
func (r *TitleRepository) Each(ctx context.Context, q TitleQuery, fn func(*database.Title) error) error {
	q.Order = OrderID
	for {
		batch, err := r.find(ctx, q, r.batchSize, 0)
		if err != nil {
			return err
		}
		for i := range batch {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(&batch[i]); err != nil {
				return err
			}
		}
		if len(batch) < r.batchSize {
			return nil
		}
		q.AfterID = batch[len(batch)-1].ID
	}
}
