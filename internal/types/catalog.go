package types

import (
	"github.com/cineclass/cineclass/internal/database"
)

// AgeBound limits catalog reads to titles suitable for one viewer age.
// The zero value is unrestricted.
type AgeBound struct {
	age *int
}

// NoAgeBound returns an unrestricted bound.
func NoAgeBound() AgeBound { return AgeBound{} }

// AgeOf returns a bound for the given viewer age.
func AgeOf(age int) AgeBound { return AgeBound{age: &age} }

// Set reports whether the bound restricts anything.
func (b AgeBound) Set() bool { return b.age != nil }

// Age returns the bound's age, or -1 when unrestricted.
func (b AgeBound) Age() int {
	if b.age == nil {
		return -1
	}
	return *b.age
}

// Allows reports whether the title is inside the bound.
func (b AgeBound) Allows(t *database.Title) bool {
	return b.age == nil || t.AllowsAge(*b.age)
}

// Lower returns the stricter of the bound and age. A student may narrow
// their own bound but never widen it.
func (b AgeBound) Lower(age *int) AgeBound {
	if age == nil {
		return b
	}
	if b.age == nil || *age < *b.age {
		return AgeOf(*age)
	}
	return b
}

// BoundFor returns the age bound of a requester. Students are bound by their
// own age, which maxAge may only lower. Teachers are bound by maxAge when it
// is given. Anonymous requests behave like teachers.
func BoundFor(user *database.User, maxAge *int) AgeBound {
	if user != nil && user.Role == database.RoleStudent {
		return AgeOf(user.Age).Lower(maxAge)
	}
	return NoAgeBound().Lower(maxAge)
}

// CatalogConstraints are the optional predicates of a catalog listing.
type CatalogConstraints struct {
	Query     string             // substring of title, original title, keyword or genre
	Genre     string             // substring of a genre name
	MediaType database.MediaType // exact
	Year      string             // substring of the release date
	Age       AgeBound
	MinRating *int // classification floor; titles without a minimum age always pass
}

// CatalogCursor marks the last item of a page: its provider id, and its
// title id to order titles sharing that provider id.
type CatalogCursor struct {
	ExternalID int64
	ID         string
}

// CatalogPage is one page of a catalog listing.
type CatalogPage struct {
	Items      []database.Title
	NextCursor *CatalogCursor
	HasMore    bool
}

// MatchRung names the relaxation step that produced a candidate set.
type MatchRung string

const (
	MatchRungKeyword MatchRung = "keyword"
	MatchRungGenre   MatchRung = "genre"
	MatchRungSample  MatchRung = "sample"
	MatchRungNone    MatchRung = "none"
)

// MatchResult is the candidate set for a list of keywords.
type MatchResult struct {
	Titles   []database.Title
	Rung     MatchRung
	Keywords []string
}
