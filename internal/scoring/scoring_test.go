package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hr-screening/internal/dictionary"
	"github.com/jonathan/hr-screening/internal/types"
)

func emptySnapshot() *dictionary.Snapshot {
	return dictionary.NewSnapshot(1, nil, nil, nil)
}

func baseProfile(hard ...string) *types.CandidateProfile {
	return &types.CandidateProfile{
		HardSkills: types.SkillSet{Canonical: hard},
	}
}

func baseTemplate(skills ...types.TemplateSkill) *types.JobTemplate {
	return &types.JobTemplate{
		RoleName: "backend engineer",
		Skills:   skills,
	}
}

func TestScore_WeightedCoverage(t *testing.T) {
	template := baseTemplate(
		types.TemplateSkill{Keyword: "python", Importance: types.ImportanceCritical, Weight: 3},
		types.TemplateSkill{Keyword: "docker", Importance: types.ImportancePreferred, Weight: 1},
	)

	result, err := Score(baseProfile("python"), template, emptySnapshot())
	require.NoError(t, err)

	assert.Equal(t, 75.0, result.SkillMatchScore)
	assert.Equal(t, []string{"python"}, result.MatchedKeywords)
	assert.Equal(t, []string{"docker"}, result.MissingKeywords)
}

func TestScore_DefaultWeights(t *testing.T) {
	// No explicit weights: critical counts 2.0, preferred 1.0.
	template := baseTemplate(
		types.TemplateSkill{Keyword: "go", Importance: types.ImportanceCritical},
		types.TemplateSkill{Keyword: "docker", Importance: types.ImportancePreferred},
		types.TemplateSkill{Keyword: "redis", Importance: types.ImportancePreferred},
	)

	result, err := Score(baseProfile("go"), template, emptySnapshot())
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.SkillMatchScore)
}

func TestScore_CriticalMissCap(t *testing.T) {
	// A heavy preferred match would put raw coverage at 10/11 = 90.91, but a
	// missing critical skill caps it at 85.
	template := baseTemplate(
		types.TemplateSkill{Keyword: "python", Importance: types.ImportanceCritical, Weight: 1},
		types.TemplateSkill{Keyword: "docker", Importance: types.ImportancePreferred, Weight: 10},
	)

	result, err := Score(baseProfile("docker"), template, emptySnapshot())
	require.NoError(t, err)
	assert.Equal(t, 85.0, result.SkillMatchScore)

	// The cap only triggers above 85; a low-coverage critical miss is
	// reported as-is.
	template = baseTemplate(
		types.TemplateSkill{Keyword: "python", Importance: types.ImportanceCritical, Weight: 3},
		types.TemplateSkill{Keyword: "docker", Importance: types.ImportancePreferred, Weight: 1},
	)
	result, err = Score(baseProfile("docker"), template, emptySnapshot())
	require.NoError(t, err)
	assert.Equal(t, 25.0, result.SkillMatchScore)
}

func TestScore_KeywordsPartitionTemplate(t *testing.T) {
	template := baseTemplate(
		types.TemplateSkill{Keyword: "go", Importance: types.ImportanceCritical},
		types.TemplateSkill{Keyword: "docker", Importance: types.ImportancePreferred},
		types.TemplateSkill{Keyword: "redis", Importance: types.ImportancePreferred},
	)

	result, err := Score(baseProfile("go", "redis"), template, emptySnapshot())
	require.NoError(t, err)

	all := append(append([]string{}, result.MatchedKeywords...), result.MissingKeywords...)
	assert.ElementsMatch(t, []string{"go", "docker", "redis"}, all,
		"every template keyword lands in exactly one list")
}

func TestScore_SynonymExpandedKeyword(t *testing.T) {
	// The HR template says "k8s"; the candidate canonicalized to
	// "kubernetes". The single-hop expansion bridges the two.
	snap := dictionary.NewSnapshot(1, []string{"kubernetes"}, nil, []types.SynonymRule{
		{Token: "k8s", CanonicalForm: "kubernetes"},
	})
	template := baseTemplate(
		types.TemplateSkill{Keyword: "K8s", Importance: types.ImportanceCritical},
	)

	result, err := Score(baseProfile("kubernetes"), template, snap)
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.SkillMatchScore)
	assert.Equal(t, []string{"K8s"}, result.MatchedKeywords)
}

func TestScore_ExperienceAlignment(t *testing.T) {
	template := baseTemplate(
		types.TemplateSkill{Keyword: "go", Importance: types.ImportanceCritical, MinYears: 5},
		types.TemplateSkill{Keyword: "docker", Importance: types.ImportancePreferred, MinYears: 2},
	)

	p := baseProfile("go", "docker")
	p.ExperienceYears = 4
	result, err := Score(p, template, emptySnapshot())
	require.NoError(t, err)
	// go: 4/5 -> 80, docker: capped at 100; mean 90.
	assert.Equal(t, 90.0, result.ExperienceAlignment)

	// No minimum-years requirements anywhere: vacuously satisfied.
	template = baseTemplate(
		types.TemplateSkill{Keyword: "go", Importance: types.ImportanceCritical},
	)
	result, err = Score(baseProfile(), template, emptySnapshot())
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.ExperienceAlignment)
}

func TestScore_EducationFit(t *testing.T) {
	template := baseTemplate(
		types.TemplateSkill{Keyword: "go", Importance: types.ImportanceCritical},
	)
	template.Education = types.EducationRequirement{
		Degree:        "BSc",
		Field:         "computer science",
		RelatedFields: []string{"software engineering"},
	}

	exact := baseProfile("go")
	exact.Education = []types.EducationEntry{{Degree: "BSc", Field: "Computer Science"}}
	result, err := Score(exact, template, emptySnapshot())
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.EducationFit)

	related := baseProfile("go")
	related.Education = []types.EducationEntry{{Degree: "BSc", Field: "Software Engineering"}}
	result, err = Score(related, template, emptySnapshot())
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.EducationFit)

	unrelated := baseProfile("go")
	unrelated.Education = []types.EducationEntry{{Degree: "BSc", Field: "History"}}
	result, err = Score(unrelated, template, emptySnapshot())
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.EducationFit)

	none := baseProfile("go")
	result, err = Score(none, template, emptySnapshot())
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.EducationFit)

	template.Education = types.EducationRequirement{}
	result, err = Score(none, template, emptySnapshot())
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.EducationFit, "absent requirement is vacuously satisfied")
}

func TestScore_Bonuses(t *testing.T) {
	template := baseTemplate(
		types.TemplateSkill{Keyword: "go", Importance: types.ImportanceCritical},
	)
	template.Bonus = types.BonusRules{
		Certifications:      []string{"CKA", "AWS SAA", "GCP ACE"},
		Location:            "Berlin",
		ExperienceThreshold: 5,
	}

	p := baseProfile("go")
	p.Certifications = []string{"cka", "aws saa", "gcp ace"}
	p.Contact.Location = "berlin"
	p.ExperienceYears = 6

	result, err := Score(p, template, emptySnapshot())
	require.NoError(t, err)
	// Certifications cap at 10 even with three matches, plus 5 location
	// plus 5 experience.
	assert.Equal(t, 20.0, result.Bonus)

	// No bonus rules configured: nothing accrues.
	template.Bonus = types.BonusRules{}
	result, err = Score(p, template, emptySnapshot())
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Bonus)
}

func TestScore_Blend(t *testing.T) {
	template := baseTemplate(
		types.TemplateSkill{Keyword: "python", Importance: types.ImportanceCritical, Weight: 3, MinYears: 5},
		types.TemplateSkill{Keyword: "docker", Importance: types.ImportancePreferred, Weight: 1},
	)
	template.Education = types.EducationRequirement{Degree: "BSc", Field: "computer science"}

	p := baseProfile("python")
	p.ExperienceYears = 4
	p.Education = []types.EducationEntry{{Degree: "BSc", Field: "Computer Science"}}

	result, err := Score(p, template, emptySnapshot())
	require.NoError(t, err)

	// 0.5*75 + 0.3*80 + 0.2*100 = 81.5
	assert.Equal(t, 75.0, result.SkillMatchScore)
	assert.Equal(t, 80.0, result.ExperienceAlignment)
	assert.Equal(t, 100.0, result.EducationFit)
	assert.Equal(t, 81.5, result.JDMatchScore)
}

func TestScore_ClampedAt100(t *testing.T) {
	template := baseTemplate(
		types.TemplateSkill{Keyword: "go", Importance: types.ImportanceCritical},
	)
	template.Bonus = types.BonusRules{
		Certifications:      []string{"CKA"},
		Location:            "Berlin",
		ExperienceThreshold: 1,
	}

	p := baseProfile("go")
	p.Certifications = []string{"CKA"}
	p.Contact.Location = "Berlin"
	p.ExperienceYears = 10

	result, err := Score(p, template, emptySnapshot())
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.JDMatchScore)
}

func TestScore_StructureScore(t *testing.T) {
	template := baseTemplate(
		types.TemplateSkill{Keyword: "go", Importance: types.ImportanceCritical},
	)

	p := baseProfile("go")
	p.MissingSections = []string{types.SectionEducation}
	result, err := Score(p, template, emptySnapshot())
	require.NoError(t, err)
	assert.Equal(t, 75.0, result.StructureScore)
	assert.Equal(t, []string{types.SectionEducation}, result.MissingSections)
}

func TestScore_RejectsInvalidTemplate(t *testing.T) {
	p := baseProfile("go")

	template := baseTemplate(
		types.TemplateSkill{Keyword: "go", Importance: types.ImportanceCritical},
		types.TemplateSkill{Keyword: "GO", Importance: types.ImportancePreferred},
	)
	_, err := Score(p, template, emptySnapshot())
	var invalid *ErrInvalidTemplate
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Field, "keyword")
}

func TestScore_NoSkillRequirementsVacuouslySatisfied(t *testing.T) {
	// A template that lists no skills behaves like the absent experience and
	// education requirements: the component is satisfied, not zeroed.
	template := baseTemplate()

	result, err := Score(baseProfile(), template, emptySnapshot())
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.SkillMatchScore)
	assert.Empty(t, result.MatchedKeywords)
	assert.Empty(t, result.MissingKeywords)
	assert.Equal(t, 100.0, result.JDMatchScore)
}

func TestScore_MonotonicOnAddedCriticalSkill(t *testing.T) {
	template := baseTemplate(
		types.TemplateSkill{Keyword: "python", Importance: types.ImportanceCritical, Weight: 3},
		types.TemplateSkill{Keyword: "go", Importance: types.ImportanceCritical, Weight: 2},
		types.TemplateSkill{Keyword: "docker", Importance: types.ImportancePreferred, Weight: 1},
	)

	before, err := Score(baseProfile("docker"), template, emptySnapshot())
	require.NoError(t, err)
	after, err := Score(baseProfile("docker", "python"), template, emptySnapshot())
	require.NoError(t, err)

	assert.Greater(t, after.SkillMatchScore, before.SkillMatchScore,
		"gaining a missing critical skill never lowers coverage")
}

func TestScore_Deterministic(t *testing.T) {
	snap := dictionary.NewSnapshot(1, []string{"go", "docker"}, nil, nil)
	template := baseTemplate(
		types.TemplateSkill{Keyword: "go", Importance: types.ImportanceCritical, MinYears: 3},
		types.TemplateSkill{Keyword: "docker", Importance: types.ImportancePreferred},
	)
	p := baseProfile("docker", "go")
	p.ExperienceYears = 2

	first, err := Score(p, template, snap)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Score(p, template, snap)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
