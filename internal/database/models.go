package database

import (
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// MediaType distinguishes movies from TV series
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// Valid reports whether the media type is one the catalog stores.
func (mt MediaType) Valid() bool {
	return mt == MediaTypeMovie || mt == MediaTypeTV
}

// Role of a user profile
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Valid reports whether the role is known.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// =============================================================================
// CATALOG
// =============================================================================

// Title is a single movie or TV series in the local catalog.
type Title struct {
	ID            string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	ExternalID    *int64    `gorm:"index" json:"external_id,omitempty"` // TMDB id, pagination rank key
	Name          string    `gorm:"column:title;not null;index" json:"title"`
	OriginalTitle string    `json:"original_title,omitempty"`
	Overview      string    `gorm:"type:text" json:"overview"`
	ReleaseDate   string    `gorm:"type:varchar(10)" json:"release_date,omitempty"` // YYYY-MM-DD
	ReleaseYear   *int      `gorm:"index" json:"release_year,omitempty"`
	MediaType     MediaType `gorm:"type:varchar(16);not null;index" json:"type"`
	Rating        string    `gorm:"type:varchar(8)" json:"rating"`
	MinAge        *int      `gorm:"index" json:"min_age,omitempty"`
	MaxAge        *int      `gorm:"index" json:"max_age,omitempty"`
	Popularity    float64   `gorm:"index" json:"popularity"`
	PosterPath    string    `json:"poster_path,omitempty"`
	Language      string    `gorm:"type:varchar(8)" json:"language,omitempty"`
	Adult         bool      `json:"-"`

	Genres   []TitleGenre   `gorm:"foreignKey:TitleID" json:"-"`
	Keywords []TitleKeyword `gorm:"foreignKey:TitleID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TitleGenre is one genre of a title. Key is the lowercased name used for
// case-insensitive matching.
type TitleGenre struct {
	ID      uint   `gorm:"primaryKey" json:"-"`
	TitleID string `gorm:"type:varchar(64);not null;uniqueIndex:idx_title_genre" json:"-"`
	Name    string `gorm:"not null" json:"name"`
	Key     string `gorm:"column:name_key;not null;index;uniqueIndex:idx_title_genre" json:"-"`
}

// TitleKeyword is one normalized keyword of a title.
type TitleKeyword struct {
	ID      uint   `gorm:"primaryKey" json:"-"`
	TitleID string `gorm:"type:varchar(64);not null;uniqueIndex:idx_title_keyword" json:"-"`
	Name    string `gorm:"not null;index;uniqueIndex:idx_title_keyword" json:"name"`
}

// NormalizeTerm trims and lowercases a keyword or genre for comparisons.
func NormalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// GenreNames returns the genre display names in stored order.
func (t *Title) GenreNames() []string {
	names := make([]string, 0, len(t.Genres))
	for _, g := range t.Genres {
		names = append(names, g.Name)
	}
	return names
}

// KeywordNames returns the normalized keywords in stored order.
func (t *Title) KeywordNames() []string {
	names := make([]string, 0, len(t.Keywords))
	for _, k := range t.Keywords {
		names = append(names, k.Name)
	}
	return names
}

// SetGenres replaces the genre set, dropping blanks and case-insensitive
// duplicates.
func (t *Title) SetGenres(names []string) {
	seen := make(map[string]bool, len(names))
	t.Genres = t.Genres[:0]
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := NormalizeTerm(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		t.Genres = append(t.Genres, TitleGenre{TitleID: t.ID, Name: name, Key: key})
	}
}

// SetKeywords replaces the keyword set with normalized, deduplicated values.
func (t *Title) SetKeywords(names []string) {
	seen := make(map[string]bool, len(names))
	t.Keywords = t.Keywords[:0]
	for _, name := range names {
		key := NormalizeTerm(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		t.Keywords = append(t.Keywords, TitleKeyword{TitleID: t.ID, Name: key})
	}
}

// AllowsAge reports whether a viewer of the given age falls inside the
// title's age interval. A missing bound is unrestricted on that side.
func (t *Title) AllowsAge(age int) bool {
	if t.MinAge != nil && *t.MinAge > age {
		return false
	}
	if t.MaxAge != nil && *t.MaxAge < age {
		return false
	}
	return true
}

// =============================================================================
// USERS
// =============================================================================

// User is a student or teacher profile.
type User struct {
	ID          string                      `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string                      `gorm:"not null" json:"name"`
	Email       string                      `gorm:"not null;uniqueIndex" json:"email"`
	Role        Role                        `gorm:"type:varchar(16);not null" json:"role"`
	Age         int                         `json:"age"`
	Favorites   datatypes.JSONSlice[string] `json:"favorites"`
	QuizResults []QuizResult                `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// AddFavorite adds a title to the favorites set. It returns false when the
// title was already a favorite.
func (u *User) AddFavorite(titleID string) bool {
	if titleID == "" || u.HasFavorite(titleID) {
		return false
	}
	u.Favorites = append(u.Favorites, titleID)
	return true
}

// RemoveFavorite removes a title from the favorites set. It returns false when
// the title was not a favorite.
func (u *User) RemoveFavorite(titleID string) bool {
	for i, id := range u.Favorites {
		if id == titleID {
			u.Favorites = append(u.Favorites[:i:i], u.Favorites[i+1:]...)
			return true
		}
	}
	return false
}

// HasFavorite reports whether the title is a favorite.
func (u *User) HasFavorite(titleID string) bool {
	for _, id := range u.Favorites {
		if id == titleID {
			return true
		}
	}
	return false
}

// FavoriteSet returns the favorites as a lookup set.
func (u *User) FavoriteSet() map[string]bool {
	set := make(map[string]bool, len(u.Favorites))
	for _, id := range u.Favorites {
		set[id] = true
	}
	return set
}

// AppendQuizResult adds a result to the end of the history and returns the
// appended entry. Results are never modified or removed once appended.
func (u *User) AppendQuizResult(result QuizResult) *QuizResult {
	result.UserID = u.ID
	u.QuizResults = append(u.QuizResults, result)
	return &u.QuizResults[len(u.QuizResults)-1]
}

// QuizResult is one completed quiz submission and what was shown for it.
type QuizResult struct {
	ID             string                      `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID         string                      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	QuizID         string                      `json:"quiz_id"`
	Answers        datatypes.JSONSlice[string] `json:"answers"`
	RecommendedIDs datatypes.JSONSlice[string] `json:"recommended_ids"`
	CreatedAt      time.Time                   `gorm:"index" json:"created_at"`
}

// SortedIDs returns a copy of the ids in ascending order.
func SortedIDs(set map[string]bool) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
