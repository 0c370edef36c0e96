// Package profile turns raw extracted resume fields into a normalized
// candidate profile using the dictionary/synonym resolver.
package profile

import (
	"sort"

	"github.com/jonathan/hr-screening/internal/dictionary"
	"github.com/jonathan/hr-screening/internal/types"
)

// Canonicalize builds a CandidateProfile from a raw extraction and a
// dictionary snapshot. It is a pure transform: identical input and snapshot
// always produce an identical profile, which makes reprocessing idempotent.
//
// Each raw skill mention is normalized and resolved against the hard
// dictionary first, then the soft dictionary; a mention matching both
// canonicalizes as hard. Unresolvable mentions are dropped from the canonical
// sets but preserved in RawSkillMentions for audit. Missing sections never
// fail the transform; they are recorded for the structure score.
func Canonicalize(raw types.RawExtraction, snap *dictionary.Snapshot) types.CandidateProfile {
	p := types.CandidateProfile{
		Contact:           raw.Contact,
		Education:         raw.Education,
		Experience:        raw.Experience,
		Certifications:    raw.Certifications,
		ExperienceYears:   raw.TotalYears,
		TimelineFlags:     raw.TimelineFlags,
		DictionaryVersion: snap.Version(),
		Status:            types.CandidateStatusNew,
	}

	hardCanon := make(map[string]bool)
	softCanon := make(map[string]bool)
	var hardRaw, softRaw []string
	seenMentions := make(map[string]bool)

	for _, mention := range raw.RawSkills {
		norm := dictionary.NormalizeToken(mention)
		if norm == "" || seenMentions[norm] {
			continue
		}
		seenMentions[norm] = true
		p.RawSkillMentions = append(p.RawSkillMentions, norm)

		if canonical, ok := snap.Canonicalize(mention, dictionary.KindHard); ok {
			hardRaw = append(hardRaw, norm)
			hardCanon[canonical] = true
			continue
		}
		if canonical, ok := snap.Canonicalize(mention, dictionary.KindSoft); ok {
			softRaw = append(softRaw, norm)
			softCanon[canonical] = true
		}
	}

	p.HardSkills = types.SkillSet{Raw: hardRaw, Canonical: sortedKeys(hardCanon)}
	p.SoftSkills = types.SkillSet{Raw: softRaw, Canonical: sortedKeys(softCanon)}
	p.MissingSections = missingSections(raw)
	return p
}

// missingSections reports which required profile sections are absent from the
// extraction. The order follows types.RequiredSections so output is stable.
func missingSections(raw types.RawExtraction) []string {
	var missing []string
	for _, section := range types.RequiredSections {
		switch section {
		case types.SectionContact:
			if raw.Contact.Empty() {
				missing = append(missing, section)
			}
		case types.SectionEducation:
			if len(raw.Education) == 0 {
				missing = append(missing, section)
			}
		case types.SectionExperience:
			if len(raw.Experience) == 0 {
				missing = append(missing, section)
			}
		case types.SectionSkills:
			if len(raw.RawSkills) == 0 {
				missing = append(missing, section)
			}
		}
	}
	return missing
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
