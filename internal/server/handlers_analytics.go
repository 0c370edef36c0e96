package server

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/jonathan/hr-screening/internal/types"
)

// topMissingLimit bounds the missing-skill leaderboard in the overview.
const topMissingLimit = 10

// handleAnalyticsOverview summarizes the pipeline: candidate counts by
// status, session counts by state, per-role score aggregates, the jd-score
// distribution and the most frequently missing template skills.
func (s *Server) handleAnalyticsOverview(w http.ResponseWriter, r *http.Request) {
	records, err := s.db.ListCandidates(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	sessions, err := s.db.ListSessions(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	candidatesByStatus := make(map[string]int)
	scoreSum := make(map[string]float64)
	scoreCount := make(map[string]int)
	scoreBuckets := make(map[string]int)
	missingCounts := make(map[string]int)
	for _, rec := range records {
		candidatesByStatus[rec.Profile.Status]++
		if rec.Score != nil {
			scoreSum[rec.Profile.RoleName] += rec.Score.JDMatchScore
			scoreCount[rec.Profile.RoleName]++
			scoreBuckets[scoreBucket(rec.Score.JDMatchScore)]++
			for _, kw := range rec.Score.MissingKeywords {
				missingCounts[kw]++
			}
		}
	}

	avgScoreByRole := make(map[string]float64, len(scoreSum))
	for role, sum := range scoreSum {
		avgScoreByRole[role] = sum / float64(scoreCount[role])
	}

	sessionsByStatus := make(map[string]int)
	completed := 0
	interviewScoreSum := 0.0
	for _, sess := range sessions {
		sessionsByStatus[string(sess.Status)]++
		if sess.Status == types.SessionCompleted {
			completed++
			interviewScoreSum += sess.Score
		}
	}

	overview := map[string]any{
		"candidates_total":     len(records),
		"candidates_by_status": candidatesByStatus,
		"avg_jd_score_by_role": avgScoreByRole,
		"score_distribution":   scoreBuckets,
		"top_missing_skills":   topMissing(missingCounts, topMissingLimit),
		"sessions_total":       len(sessions),
		"sessions_by_status":   sessionsByStatus,
	}
	if completed > 0 {
		overview["avg_interview_score"] = interviewScoreSum / float64(completed)
	}

	s.jsonResponse(w, http.StatusOK, overview)
}

// scoreBucket maps a jd score into a decade bucket label like "70-79".
func scoreBucket(score float64) string {
	decade := int(score) / 10 * 10
	if decade >= 100 {
		return "100"
	}
	return fmt.Sprintf("%d-%d", decade, decade+9)
}

type missingSkill struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// topMissing returns the n most frequently missing template keywords, ties
// broken alphabetically so the overview is stable between calls.
func topMissing(counts map[string]int, n int) []missingSkill {
	out := make([]missingSkill, 0, len(counts))
	for kw, c := range counts {
		out = append(out, missingSkill{Keyword: kw, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Keyword < out[j].Keyword
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
