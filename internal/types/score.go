package types

// ScoreResult is the deterministic output of scoring a candidate profile
// against a job template. It is never mutated in place; recomputation
// replaces the stored result.
type ScoreResult struct {
	StructureScore      float64  `json:"structure_score"`
	SkillMatchScore     float64  `json:"skill_match_score"`
	ExperienceAlignment float64  `json:"experience_alignment"`
	EducationFit        float64  `json:"education_fit"`
	JDMatchScore        float64  `json:"jd_match_score"`
	MatchedKeywords     []string `json:"matched_keywords"`
	MissingKeywords     []string `json:"missing_keywords"`
	MissingSections     []string `json:"missing_sections,omitempty"`
	Bonus               float64  `json:"bonus,omitempty"`
}
