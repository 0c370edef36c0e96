package scoring

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/hr-screening/internal/types"
)

func ranked(id string, score float64, appliedAt time.Time) RankedCandidate {
	return RankedCandidate{
		Profile: types.CandidateProfile{ID: uuid.MustParse(id), AppliedAt: appliedAt},
		Score:   types.ScoreResult{JDMatchScore: score},
	}
}

func ids(candidates []RankedCandidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Profile.ID.String()
	}
	return out
}

func TestRank(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	a := "11111111-1111-1111-1111-111111111111"
	b := "22222222-2222-2222-2222-222222222222"
	c := "33333333-3333-3333-3333-333333333333"
	d := "44444444-4444-4444-4444-444444444444"

	candidates := []RankedCandidate{
		ranked(c, 85, base.Add(2*time.Hour)), // same score as b, applied later
		ranked(a, 92.5, base),
		ranked(d, 85, base.Add(time.Hour)), // ties with b on applied_at, higher ID
		ranked(b, 85, base.Add(time.Hour)),
	}

	Rank(candidates)

	assert.Equal(t, []string{a, b, d, c}, ids(candidates),
		"score desc, then applied_at asc, then ID asc")
}

func TestRank_Deterministic(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	build := func() []RankedCandidate {
		return []RankedCandidate{
			ranked("aaaaaaaa-0000-0000-0000-000000000002", 70, base),
			ranked("aaaaaaaa-0000-0000-0000-000000000001", 70, base),
			ranked("aaaaaaaa-0000-0000-0000-000000000003", 70, base),
		}
	}

	first := build()
	Rank(first)
	for i := 0; i < 5; i++ {
		again := build()
		Rank(again)
		assert.Equal(t, ids(first), ids(again))
	}
}
