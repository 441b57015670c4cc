// Package safety implements the explicit-content filter shared by the
// import jobs and every catalog read.
package safety

import (
	"strings"

	"github.com/cineclass/cineclass/internal/database"
)

// DefaultTerms is the built-in denylist. Terms match as case-insensitive
// substrings.
var DefaultTerms = []string{
	"hentai", "porn", "porno", "sex", "sexual", "erotic", "erótico", "erotico",
	"adult", "sensual", "fetish", "provocative", "ecchi", "nsfw", "r18",
	"softcore", "hardcore", "lingerie", "seduction", "sedução",
	"裸", "愛", "人妻", "ロマンス", "女体", "爆乳",
	"애정", "부부", "키스", "교환",
}

// Filter decides whether a title may be shown.
type Filter struct {
	terms []string
}

// New builds a filter from the default terms plus any extra ones.
func New(extra ...string) *Filter {
	seen := make(map[string]bool)
	f := &Filter{}
	for _, term := range append(append([]string{}, DefaultTerms...), extra...) {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		f.terms = append(f.terms, term)
	}
	return f
}

// Reason returns why a title is blocked, or "" when it is allowed.
func (f *Filter) Reason(t *database.Title) string {
	if t.Adult {
		return "adult flag"
	}
	return f.match(t.Name, t.OriginalTitle, t.Overview, t.PosterPath)
}

// Allowed reports whether the title passes the filter.
func (f *Filter) Allowed(t *database.Title) bool {
	return f.Reason(t) == ""
}

// AllowedText checks free text, for provider records that are not yet titles.
func (f *Filter) AllowedText(fields ...string) bool {
	return f.match(fields...) == ""
}

// Keep returns the allowed titles, preserving order.
func (f *Filter) Keep(titles []database.Title) []database.Title {
	kept := titles[:0:0]
	for i := range titles {
		if f.Allowed(&titles[i]) {
			kept = append(kept, titles[i])
		}
	}
	return kept
}

func (f *Filter) match(fields ...string) string {
	for _, field := range fields {
		if field == "" {
			continue
		}
		lower := strings.ToLower(field)
		for _, term := range f.terms {
			if strings.Contains(lower, term) {
				return "denylisted term " + term
			}
		}
	}
	return ""
}
