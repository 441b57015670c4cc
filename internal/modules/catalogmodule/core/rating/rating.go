// Package rating turns the classification strings reported by rating
// boards into the canonical L/10/12/14/16/18 ladder.
package rating

import (
	"strings"
)

// Rating is a normalized classification.
type Rating struct {
	Code   string
	MinAge int
	MaxAge int
	// Restricted marks adult or unrated-for-minors content that must not
	// stay in the catalog.
	Restricted bool
}

// Certification is one region's classification of a title.
type Certification struct {
	Region string
	Value  string
}

// DefaultRegions prefers the Brazilian board and falls back to the US one.
var DefaultRegions = []string{"BR", "US"}

// Normalize maps a raw classification to the canonical ladder. Unknown and
// empty values are treated as L, or as 18 when the provider flags the title
// as adult.
func Normalize(raw string, adult bool) Rating {
	key := strings.ToUpper(strings.TrimSpace(raw))

	code, known := rawToCode[key]
	if !known {
		code = CodeL
		if adult {
			code = Code18
		}
	}

	return Rating{
		Code:       code,
		MinAge:     AgeFor(code),
		MaxAge:     NoUpperAge,
		Restricted: adult || restrictedRaw[key] || code == Code18,
	}
}

// AgeFor returns the minimum viewer age of a canonical code, or -1 for a
// code that is not on the ladder.
func AgeFor(code string) int {
	for _, step := range ladder {
		if step.code == code {
			return step.age
		}
	}
	return -1
}

// Ladder returns the canonical codes from least to most restrictive.
func Ladder() []string {
	codes := make([]string, len(ladder))
	for i, step := range ladder {
		codes[i] = step.code
	}
	return codes
}

// KnownValues returns every raw value the lookup table recognises.
func KnownValues() []string {
	values := make([]string, 0, len(rawToCode))
	for raw := range rawToCode {
		values = append(values, raw)
	}
	return values
}

// SelectCertification picks the first non-empty certification in region
// preference order. An empty result means the title is unrated.
func SelectCertification(certs []Certification, regions ...string) string {
	if len(regions) == 0 {
		regions = DefaultRegions
	}
	for _, region := range regions {
		for _, c := range certs {
			if strings.EqualFold(c.Region, region) && strings.TrimSpace(c.Value) != "" {
				return strings.TrimSpace(c.Value)
			}
		}
	}
	return ""
}
