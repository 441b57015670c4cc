package scorer

import (
	"fmt"
	"sync"
	"testing"

	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func title(id string, popularity float64, minAge, maxAge *int, keywords ...string) database.Title {
	t := database.Title{ID: id, Popularity: popularity, MinAge: minAge, MaxAge: maxAge}
	t.SetKeywords(keywords)
	return t
}

func ids(scored []types.ScoredTitle) []string {
	out := make([]string, len(scored))
	for i, s := range scored {
		out[i] = s.Title.ID
	}
	return out
}

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func TestScoreComponents(t *testing.T) {
	s := New(DefaultWeights(), 5, ZeroSource{})
	a := title("A", 8.0, intPtr(0), intPtr(99), "ciência", "escola")

	got := s.Score([]database.Title{a}, []string{"ciência", "aventura"}, 11, nil, nil)
	require.Len(t, got, 1)
	assert.InDelta(t, 34.0, got[0].Score, 1e-9)

	got = s.Score([]database.Title{a}, []string{"ciência"}, 11, IDSet{"A": true}, nil)
	assert.InDelta(t, 44.0, got[0].Score, 1e-9)

	got = s.Score([]database.Title{a}, []string{"ciência"}, -1, nil, nil)
	assert.InDelta(t, 24.0, got[0].Score, 1e-9, "no age known, no age bonus")

	open := title("B", 5, intPtr(0), nil, "ciência")
	got = s.Score([]database.Title{open}, []string{"ciência"}, 11, nil, nil)
	assert.InDelta(t, 18.0, got[0].Score, 1e-9, "age bonus needs both bounds")
}

func TestJitterIsBounded(t *testing.T) {
	s := New(DefaultWeights(), 5, fixedSource(0.999))
	got := s.Score([]database.Title{title("A", 0, nil, nil)}, nil, 10, nil, nil)
	assert.Greater(t, got[0].Score, 2.99)
	assert.Less(t, got[0].Score, 3.0)
}

func TestExclusionHappensBeforeScoring(t *testing.T) {
	s := New(DefaultWeights(), 5, ZeroSource{})
	candidates := []database.Title{
		title("A", 9, nil, nil, "mar"),
		title("B", 1, nil, nil),
	}

	got := s.Score(candidates, []string{"mar"}, 10, nil, IDSet{"A": true})
	assert.Equal(t, []string{"B"}, ids(got))

	got = s.Score(candidates, []string{"mar"}, 10, nil, IDSet{"A": true, "B": true})
	assert.Empty(t, got)
}

func TestSortedTruncatedAndTieBroken(t *testing.T) {
	s := New(DefaultWeights(), 3, ZeroSource{})
	var candidates []database.Title
	for _, id := range []string{"e", "d", "c", "b", "a"} {
		candidates = append(candidates, title(id, 5, nil, nil))
	}
	candidates = append(candidates, title("z", 9, nil, nil))

	got := s.Score(candidates, nil, 10, nil, nil)
	assert.Equal(t, []string{"z", "a", "b"}, ids(got))
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func TestExclusionMonotonicity(t *testing.T) {
	s := New(DefaultWeights(), 10, ZeroSource{})
	var candidates []database.Title
	for i := 0; i < 8; i++ {
		candidates = append(candidates, title(fmt.Sprintf("t%d", i), float64(i), nil, nil))
	}

	small := s.Score(candidates, nil, 10, nil, IDSet{"t1": true})
	large := s.Score(candidates, nil, 10, nil, IDSet{"t1": true, "t5": true, "t7": true})
	smallIDs := ids(small)
	for _, id := range ids(large) {
		assert.Contains(t, smallIDs, id)
	}
	assert.NotContains(t, ids(large), "t5")
}

func TestRandomSourceIsConcurrencySafe(t *testing.T) {
	src := NewRandomSource(42)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				v := src.Float64()
				assert.True(t, v >= 0 && v < 1)
			}
		}()
	}
	wg.Wait()
}
