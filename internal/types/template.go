// Package types provides type definitions for structured data shared across the screening engine.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Importance is the tier of a template skill. Critical skills gate the
// achievable coverage score; preferred skills only contribute weight.
type Importance string

// Importance tiers for template skills
const (
	ImportanceCritical  Importance = "critical"
	ImportancePreferred Importance = "preferred"
)

// Valid reports whether the importance is a known tier.
func (i Importance) Valid() bool {
	return i == ImportanceCritical || i == ImportancePreferred
}

// Default weights applied when a template skill carries no explicit weight.
const (
	defaultCriticalWeight  = 2.0
	defaultPreferredWeight = 1.0
)

// TemplateSkill is a single weighted keyword requirement within a job template.
type TemplateSkill struct {
	Keyword    string     `json:"keyword" validate:"required"`
	Importance Importance `json:"importance" validate:"oneof=critical preferred"`
	Weight     float64    `json:"weight,omitempty" validate:"gte=0"`
	MinYears   float64    `json:"min_years,omitempty" validate:"gte=0"`
}

// EffectiveWeight returns the explicit weight, or the importance fallback
// when no weight is stored.
func (s TemplateSkill) EffectiveWeight() float64 {
	if s.Weight > 0 {
		return s.Weight
	}
	if s.Importance == ImportanceCritical {
		return defaultCriticalWeight
	}
	return defaultPreferredWeight
}

// EducationRequirement describes the education expectation for a role.
// An empty requirement means the role has no education constraint.
type EducationRequirement struct {
	Degree        string   `json:"degree,omitempty"`
	Field         string   `json:"field,omitempty"`
	RelatedFields []string `json:"related_fields,omitempty"`
}

// Empty reports whether the requirement is absent.
func (e EducationRequirement) Empty() bool {
	return e.Degree == "" && e.Field == ""
}

// BonusRules holds the optional additive bonuses for a role.
type BonusRules struct {
	Certifications      []string `json:"certifications,omitempty"`
	Location            string   `json:"location,omitempty"`
	ExperienceThreshold float64  `json:"experience_threshold,omitempty" validate:"gte=0"`
}

// JobTemplate is the HR-authored rubric a candidate is scored against.
// Read-only to the scoring engine; created and edited via the HR API.
type JobTemplate struct {
	ID        uuid.UUID            `json:"id"`
	RoleName  string               `json:"role_name" validate:"required"`
	JDText    string               `json:"jd_text,omitempty"`
	RoleLevel string               `json:"role_level,omitempty"`
	IsOpen    bool                 `json:"is_open"`
	Skills    []TemplateSkill      `json:"skills" validate:"dive"`
	Education EducationRequirement `json:"education_requirements"`
	Bonus     BonusRules           `json:"bonus_rules"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// CriticalKeywords returns the keywords of all critical skills, in template order.
func (t *JobTemplate) CriticalKeywords() []string {
	var out []string
	for _, s := range t.Skills {
		if s.Importance == ImportanceCritical {
			out = append(out, s.Keyword)
		}
	}
	return out
}
