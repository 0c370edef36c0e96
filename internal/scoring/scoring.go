// Package scoring implements the deterministic job-match scoring engine.
// Score is a pure function of (profile, template, dictionary snapshot): no
// randomness, no clock, no external calls.
package scoring

import (
	"math"
	"strings"

	"github.com/jonathan/hr-screening/internal/dictionary"
	"github.com/jonathan/hr-screening/internal/types"
)

// Component weights for the final jd_match_score blend.
const (
	skillWeight      = 0.5
	experienceWeight = 0.3
	educationWeight  = 0.2
)

// Scoring constants.
const (
	// criticalMissCap bounds skill coverage when any critical skill is
	// missing: preferred-skill surplus can never carry a candidate to full
	// coverage past a critical gap.
	criticalMissCap = 85.0

	relatedFieldCredit = 50.0

	certificationBonusEach = 5.0
	certificationBonusMax  = 10.0
	locationBonus          = 5.0
	experienceBonus        = 5.0
)

// Score evaluates a candidate profile against a job template. The template is
// validated first; malformed templates are rejected, never clamped into shape.
func Score(p *types.CandidateProfile, t *types.JobTemplate, snap *dictionary.Snapshot) (*types.ScoreResult, error) {
	if err := ValidateTemplate(t); err != nil {
		return nil, err
	}

	result := &types.ScoreResult{
		StructureScore:  structureScore(p),
		MissingSections: p.MissingSections,
	}

	coverage, matched, missing := skillCoverage(p, t, snap)
	result.SkillMatchScore = coverage
	result.MatchedKeywords = matched
	result.MissingKeywords = missing

	result.ExperienceAlignment = experienceAlignment(p, t)
	result.EducationFit = educationFit(p, t)
	result.Bonus = bonuses(p, t)

	final := skillWeight*result.SkillMatchScore +
		experienceWeight*result.ExperienceAlignment +
		educationWeight*result.EducationFit +
		result.Bonus
	result.JDMatchScore = round2(clamp(final, 0, 100))

	return result, nil
}

// structureScore is the percentage of required sections present.
func structureScore(p *types.CandidateProfile) float64 {
	total := len(types.RequiredSections)
	present := total - len(p.MissingSections)
	return round2(float64(present) / float64(total) * 100)
}

// skillCoverage computes the weighted keyword coverage. A template skill is
// matched when its canonical form (after a single synonym hop) appears in the
// candidate's canonical skill set. Returned keyword lists use the template's
// original spelling and together cover every template skill exactly once.
// A template with no skill requirements is vacuously satisfied, like the
// absent experience and education requirements.
func skillCoverage(p *types.CandidateProfile, t *types.JobTemplate, snap *dictionary.Snapshot) (float64, []string, []string) {
	matched := make([]string, 0, len(t.Skills))
	missing := make([]string, 0)
	if len(t.Skills) == 0 {
		return 100, matched, missing
	}

	candidateSkills := make(map[string]bool)
	for _, s := range p.CanonicalSkills() {
		candidateSkills[dictionary.NormalizeToken(s)] = true
	}

	totalWeight := 0.0
	matchedWeight := 0.0
	criticalMissing := false

	for _, skill := range t.Skills {
		weight := skill.EffectiveWeight()
		totalWeight += weight

		norm := dictionary.NormalizeToken(skill.Keyword)
		if candidateSkills[norm] || candidateSkills[snap.Expand(skill.Keyword)] {
			matched = append(matched, skill.Keyword)
			matchedWeight += weight
			continue
		}
		missing = append(missing, skill.Keyword)
		if skill.Importance == types.ImportanceCritical {
			criticalMissing = true
		}
	}

	if totalWeight <= 0 {
		return 100, matched, missing
	}
	coverage := matchedWeight / totalWeight * 100
	if criticalMissing && coverage > criticalMissCap {
		coverage = criticalMissCap
	}
	return round2(coverage), matched, missing
}

// experienceAlignment gives linear partial credit against each skill's
// optional minimum-years requirement, averaged. A template with no
// minimum-years requirements is treated as satisfied.
func experienceAlignment(p *types.CandidateProfile, t *types.JobTemplate) float64 {
	sum := 0.0
	count := 0
	for _, skill := range t.Skills {
		if skill.MinYears <= 0 {
			continue
		}
		count++
		sum += clamp(p.ExperienceYears/skill.MinYears, 0, 1) * 100
	}
	if count == 0 {
		return 100
	}
	return round2(sum / float64(count))
}

// educationFit matches the candidate's education history against the template
// requirement: exact field match 100, related field partial credit, no match
// 0. An absent requirement is vacuously satisfied.
func educationFit(p *types.CandidateProfile, t *types.JobTemplate) float64 {
	req := t.Education
	if req.Empty() {
		return 100
	}
	if len(p.Education) == 0 {
		return 0
	}

	best := 0.0
	for _, entry := range p.Education {
		if req.Degree != "" && !strings.Contains(dictionary.NormalizeToken(entry.Degree), dictionary.NormalizeToken(req.Degree)) {
			continue
		}
		if req.Field == "" {
			best = 100
			break
		}
		field := dictionary.NormalizeToken(entry.Field)
		if field == dictionary.NormalizeToken(req.Field) {
			best = 100
			break
		}
		for _, related := range req.RelatedFields {
			if field == dictionary.NormalizeToken(related) {
				best = math.Max(best, relatedFieldCredit)
			}
		}
	}
	return best
}

// bonuses computes the bounded additive bonuses, applied only when the
// template defines the corresponding rule.
func bonuses(p *types.CandidateProfile, t *types.JobTemplate) float64 {
	total := 0.0

	if len(t.Bonus.Certifications) > 0 {
		held := make(map[string]bool, len(p.Certifications))
		for _, c := range p.Certifications {
			held[dictionary.NormalizeToken(c)] = true
		}
		certBonus := 0.0
		for _, want := range t.Bonus.Certifications {
			if held[dictionary.NormalizeToken(want)] {
				certBonus += certificationBonusEach
			}
		}
		total += math.Min(certBonus, certificationBonusMax)
	}

	if t.Bonus.Location != "" &&
		dictionary.NormalizeToken(p.Contact.Location) == dictionary.NormalizeToken(t.Bonus.Location) {
		total += locationBonus
	}

	if t.Bonus.ExperienceThreshold > 0 && p.ExperienceYears >= t.Bonus.ExperienceThreshold {
		total += experienceBonus
	}

	return total
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
