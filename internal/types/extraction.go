package types

// RawExtraction is the contract with the external extraction collaborator:
// the structured fields pulled out of an uploaded document, before any
// canonicalization. It is stored verbatim so reprocessing can re-run the
// canonicalizer over the identical input.
type RawExtraction struct {
	Contact        ContactInfo       `json:"contact"`
	Education      []EducationEntry  `json:"education,omitempty"`
	Experience     []ExperienceEntry `json:"experience,omitempty"`
	RawSkills      []string          `json:"raw_skills,omitempty"`
	Certifications []string          `json:"certifications,omitempty"`
	TotalYears     float64           `json:"total_years,omitempty"`
	TimelineFlags  []string          `json:"timeline_flags,omitempty"`
}

// ContactInfo holds extracted contact details.
type ContactInfo struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

// Empty reports whether no contact detail was extracted.
func (c ContactInfo) Empty() bool {
	return c.Name == "" && c.Email == "" && c.Phone == ""
}

// EducationEntry is a single education history record.
type EducationEntry struct {
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        int    `json:"year,omitempty"`
}

// ExperienceEntry is a single work history record. Start and End use the
// "YYYY-MM" format; End is empty for a current position.
type ExperienceEntry struct {
	Role    string `json:"role,omitempty"`
	Company string `json:"company,omitempty"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
}
