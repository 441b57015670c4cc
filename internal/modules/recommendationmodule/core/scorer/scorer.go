// Package scorer ranks quiz candidates.
//
// A candidate's score is the weighted sum of its keyword overlap with the
// answers, its popularity, a favorite bonus, an age-fit bonus and a small
// random jitter. Candidates already shown to the user are dropped before
// scoring.
package scorer

import (
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/types"
)

// RandomSource draws the jitter. Float64 returns a value in [0, 1).
type RandomSource interface {
	Float64() float64
}

// ZeroSource always draws zero, which removes the jitter.
type ZeroSource struct{}

// Float64 returns 0.
func (ZeroSource) Float64() float64 { return 0 }

type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomSource returns a source safe for concurrent requests. A zero
// seed picks one from the clock.
func NewRandomSource(seed uint64) RandomSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &lockedSource{rnd: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

// Weights are the terms of the score.
type Weights struct {
	Keyword    float64
	Popularity float64
	Favorite   float64
	AgeFit     float64
	JitterMax  float64
}

// DefaultWeights returns the stock weights.
func DefaultWeights() Weights {
	return Weights{Keyword: 8, Popularity: 2, Favorite: 10, AgeFit: 10, JitterMax: 3}
}

// IDSet is a set of title ids.
type IDSet map[string]bool

// Scorer ranks candidates and keeps the best TopN.
type Scorer struct {
	weights Weights
	topN    int
	rnd     RandomSource
}

// New creates a scorer. A nil source means ZeroSource.
func New(weights Weights, topN int, rnd RandomSource) *Scorer {
	if rnd == nil {
		rnd = ZeroSource{}
	}
	if topN <= 0 {
		topN = 5
	}
	return &Scorer{weights: weights, topN: topN, rnd: rnd}
}

// TopN is the number of titles Score returns at most.
func (s *Scorer) TopN() int {
	return s.topN
}

// Score drops excluded candidates, scores the rest and returns the best
// TopN by descending score, ties broken by id. keywords must already be
// normalized. A negative userAge disables the age-fit bonus.
func (s *Scorer) Score(candidates []database.Title, keywords []string, userAge int, favorites, exclude IDSet) []types.ScoredTitle {
	wanted := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		wanted[k] = true
	}

	scored := make([]types.ScoredTitle, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		if exclude[c.ID] {
			continue
		}
		scored = append(scored, types.ScoredTitle{Title: *c, Score: s.score(c, wanted, userAge, favorites)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Title.ID < scored[j].Title.ID
	})
	if len(scored) > s.topN {
		scored = scored[:s.topN]
	}
	return scored
}

func (s *Scorer) score(c *database.Title, wanted map[string]bool, userAge int, favorites IDSet) float64 {
	overlap := 0
	for _, k := range c.Keywords {
		if wanted[k.Name] {
			overlap++
		}
	}

	total := s.weights.Keyword*float64(overlap) + s.weights.Popularity*c.Popularity
	if favorites[c.ID] {
		total += s.weights.Favorite
	}
	if userAge >= 0 && c.MinAge != nil && c.MaxAge != nil && *c.MinAge <= userAge && userAge <= *c.MaxAge {
		total += s.weights.AgeFit
	}
	return total + s.weights.JitterMax*s.rnd.Float64()
}
