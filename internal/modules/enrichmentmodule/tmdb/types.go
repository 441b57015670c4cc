package tmdb

import "strings"

// Item is one entry of a popular list. Movies fill Title and ReleaseDate,
// series fill Name and FirstAirDate.
type Item struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Name             string  `json:"name"`
	OriginalTitle    string  `json:"original_title"`
	OriginalName     string  `json:"original_name"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"`
	PosterPath       string  `json:"poster_path"`
	OriginalLanguage string  `json:"original_language"`
	GenreIDs         []int   `json:"genre_ids"`
	VoteAverage      float64 `json:"vote_average"`
	Adult            bool    `json:"adult"`
}

// DisplayTitle returns the localized title of a movie or series.
func (i Item) DisplayTitle() string {
	if i.Title != "" {
		return i.Title
	}
	return i.Name
}

// Original returns the original-language title.
func (i Item) Original() string {
	if i.OriginalTitle != "" {
		return i.OriginalTitle
	}
	return i.OriginalName
}

// Released returns the release or first air date, YYYY-MM-DD.
func (i Item) Released() string {
	if i.ReleaseDate != "" {
		return i.ReleaseDate
	}
	return i.FirstAirDate
}

// Page is one page of a list endpoint.
type Page struct {
	Page         int    `json:"page"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
	Results      []Item `json:"results"`
}

// Genre is a provider genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Details is the subset of the details endpoint the jobs use.
type Details struct {
	ID       int64   `json:"id"`
	Overview string  `json:"overview"`
	Genres   []Genre `json:"genres"`
}

type keyword struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Movies list keywords under "keywords", series under "results".
type keywordsResponse struct {
	Keywords []keyword `json:"keywords"`
	Results  []keyword `json:"results"`
}

func (r keywordsResponse) names() []string {
	list := r.Keywords
	if len(list) == 0 {
		list = r.Results
	}
	names := make([]string, 0, len(list))
	for _, k := range list {
		if name := strings.TrimSpace(k.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

type genreList struct {
	Genres []Genre `json:"genres"`
}

type releaseDatesResponse struct {
	Results []struct {
		Region       string `json:"iso_3166_1"`
		ReleaseDates []struct {
			Certification string `json:"certification"`
		} `json:"release_dates"`
	} `json:"results"`
}

type contentRatingsResponse struct {
	Results []struct {
		Region string `json:"iso_3166_1"`
		Rating string `json:"rating"`
	} `json:"results"`
}
