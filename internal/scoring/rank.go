package scoring

import (
	"sort"

	"github.com/jonathan/hr-screening/internal/types"
)

// RankedCandidate pairs a candidate with its stored score for ranking.
type RankedCandidate struct {
	Profile types.CandidateProfile `json:"profile"`
	Score   types.ScoreResult      `json:"score"`
}

// Rank orders candidates by jd_match_score descending. Ties break on the
// earlier application timestamp, then on candidate ID, so the ordering is
// fully deterministic and never depends on map iteration or insert order.
func Rank(candidates []RankedCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score.JDMatchScore != b.Score.JDMatchScore {
			return a.Score.JDMatchScore > b.Score.JDMatchScore
		}
		if !a.Profile.AppliedAt.Equal(b.Profile.AppliedAt) {
			return a.Profile.AppliedAt.Before(b.Profile.AppliedAt)
		}
		return a.Profile.ID.String() < b.Profile.ID.String()
	})
}
