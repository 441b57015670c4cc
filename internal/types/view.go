package types

import (
	"github.com/cineclass/cineclass/internal/database"
)

// TitleView is the wire form of a catalog title.
type TitleView struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"originalTitle,omitempty"`
	Overview      string   `json:"overview"`
	ReleaseDate   string   `json:"releaseDate,omitempty"`
	Type          string   `json:"type"`
	Genres        []string `json:"genres"`
	Keywords      []string `json:"keywords"`
	Rating        string   `json:"rating"`
	MinAge        *int     `json:"minAge"`
	MaxAge        *int     `json:"maxAge"`
	Popularity    float64  `json:"popularity"`
	PosterPath    string   `json:"posterPath,omitempty"`
	ExternalID    *int64   `json:"tmdbId,omitempty"`
	Score         *float64 `json:"score,omitempty"`
}

// NewTitleView converts a stored title.
func NewTitleView(t *database.Title) TitleView {
	return TitleView{
		ID:            t.ID,
		Title:         t.Name,
		OriginalTitle: t.OriginalTitle,
		Overview:      t.Overview,
		ReleaseDate:   t.ReleaseDate,
		Type:          string(t.MediaType),
		Genres:        t.GenreNames(),
		Keywords:      t.KeywordNames(),
		Rating:        t.Rating,
		MinAge:        t.MinAge,
		MaxAge:        t.MaxAge,
		Popularity:    t.Popularity,
		PosterPath:    t.PosterPath,
		ExternalID:    t.ExternalID,
	}
}

// NewTitleViews converts a list of stored titles.
func NewTitleViews(titles []database.Title) []TitleView {
	views := make([]TitleView, 0, len(titles))
	for i := range titles {
		views = append(views, NewTitleView(&titles[i]))
	}
	return views
}

// NewScoredViews converts scored titles, keeping their scores.
func NewScoredViews(scored []ScoredTitle) []TitleView {
	views := make([]TitleView, 0, len(scored))
	for i := range scored {
		v := NewTitleView(&scored[i].Title)
		score := scored[i].Score
		v.Score = &score
		views = append(views, v)
	}
	return views
}
