package types

import (
	"time"

	"github.com/google/uuid"
)

// Candidate pipeline statuses set by HR on the application record.
const (
	CandidateStatusNew          = "new"
	CandidateStatusShortlisted  = "shortlisted"
	CandidateStatusInterviewing = "interviewing"
	CandidateStatusRejected     = "rejected"
	CandidateStatusHired        = "hired"
)

// Section names reported when a profile is missing required content.
const (
	SectionContact    = "contact"
	SectionEducation  = "education"
	SectionExperience = "experience"
	SectionSkills     = "skills"
)

// RequiredSections lists the sections the structure score is computed over.
var RequiredSections = []string{SectionContact, SectionEducation, SectionExperience, SectionSkills}

// SkillSet is the per-kind result of canonicalization. Raw keeps the original
// mentions that resolved under this kind for audit; Canonical is the
// deduplicated, sorted set that drives scoring.
type SkillSet struct {
	Raw       []string `json:"raw"`
	Canonical []string `json:"canonical"`
}

// CandidateProfile is the normalized output of the canonicalizer. It is
// immutable once scored; reprocessing replaces it wholesale from the stored
// raw extraction.
type CandidateProfile struct {
	ID                uuid.UUID         `json:"id"`
	RoleName          string            `json:"role_name"`
	Contact           ContactInfo       `json:"contact"`
	Education         []EducationEntry  `json:"education,omitempty"`
	Experience        []ExperienceEntry `json:"experience,omitempty"`
	HardSkills        SkillSet          `json:"hard_skills"`
	SoftSkills        SkillSet          `json:"soft_skills"`
	RawSkillMentions  []string          `json:"raw_skill_mentions,omitempty"`
	Certifications    []string          `json:"certifications,omitempty"`
	ExperienceYears   float64           `json:"experience_years"`
	TimelineFlags     []string          `json:"timeline_flags,omitempty"`
	MissingSections   []string          `json:"missing_sections,omitempty"`
	DictionaryVersion int64             `json:"dictionary_version"`
	Status            string            `json:"status"`
	AppliedAt         time.Time         `json:"applied_at"`
}

// CanonicalSkills returns the union of hard and soft canonical skills.
func (p *CandidateProfile) CanonicalSkills() []string {
	out := make([]string, 0, len(p.HardSkills.Canonical)+len(p.SoftSkills.Canonical))
	out = append(out, p.HardSkills.Canonical...)
	out = append(out, p.SoftSkills.Canonical...)
	return out
}

// CandidateNote is an HR comment attached to an application.
type CandidateNote struct {
	ID          uuid.UUID `json:"id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}
