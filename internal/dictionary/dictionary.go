// Package dictionary provides the controlled skill dictionaries and the
// synonym resolver used to canonicalize free-text skill mentions.
package dictionary

import (
	"strings"

	"github.com/jonathan/hr-screening/internal/types"
)

// SkillKind selects which dictionary a lookup runs against.
type SkillKind string

// Dictionary kinds
const (
	KindHard SkillKind = "hard"
	KindSoft SkillKind = "soft"
)

// Valid reports whether the kind names a known dictionary.
func (k SkillKind) Valid() bool {
	return k == KindHard || k == KindSoft
}

// NormalizeToken lowercases a token and strips everything outside
// [a-z0-9+#./-] and spaces, collapsing runs of whitespace. The character set
// keeps tokens like "c++", "c#" and ".net" intact.
func NormalizeToken(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9',
			r == '+', r == '#', r == '.', r == '/', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Snapshot is an immutable, versioned view of the dictionaries and synonym
// rules. Canonicalization runs against a snapshot so concurrent HR edits
// never change the outcome of an in-flight scoring run.
type Snapshot struct {
	version  int64
	hard     map[string]string // normalized term -> canonical display form
	soft     map[string]string
	synonyms map[string]string // normalized token -> canonical_form (one hop)
}

// NewSnapshot builds a snapshot from the curated dictionary terms and synonym
// rules. Later rules win when two rules share a token.
func NewSnapshot(version int64, hardTerms, softTerms []string, rules []types.SynonymRule) *Snapshot {
	s := &Snapshot{
		version:  version,
		hard:     make(map[string]string, len(hardTerms)),
		soft:     make(map[string]string, len(softTerms)),
		synonyms: make(map[string]string, len(rules)),
	}
	for _, t := range hardTerms {
		if norm := NormalizeToken(t); norm != "" {
			s.hard[norm] = norm
		}
	}
	for _, t := range softTerms {
		if norm := NormalizeToken(t); norm != "" {
			s.soft[norm] = norm
		}
	}
	for _, r := range rules {
		token := NormalizeToken(r.Token)
		target := NormalizeToken(r.CanonicalForm)
		if token != "" && target != "" {
			s.synonyms[token] = target
		}
	}
	return s
}

// Version returns the snapshot version, recorded on every profile produced
// against it.
func (s *Snapshot) Version() int64 {
	return s.version
}

// Canonicalize resolves a free-text term against the dictionary of the given
// kind. Lookup order: exact normalized match, then a single synonym hop
// followed by one more dictionary lookup. Unresolvable terms fail closed with
// ok=false; expansion is never chained, so a two-step rule graph A->B->C
// resolves A to B, never to C.
func (s *Snapshot) Canonicalize(term string, kind SkillKind) (string, bool) {
	dict := s.dict(kind)
	if dict == nil {
		return "", false
	}

	norm := NormalizeToken(term)
	if norm == "" {
		return "", false
	}
	if canonical, ok := dict[norm]; ok {
		return canonical, true
	}
	if expanded, ok := s.synonyms[norm]; ok {
		if canonical, ok := dict[expanded]; ok {
			return canonical, true
		}
	}
	return "", false
}

// Expand returns the single-hop synonym expansion of a term without a
// dictionary lookup, falling back to the normalized term itself. The scoring
// engine uses this to canonicalize HR-authored template keywords that may not
// be curated into a dictionary.
func (s *Snapshot) Expand(term string) string {
	norm := NormalizeToken(term)
	if expanded, ok := s.synonyms[norm]; ok {
		return expanded
	}
	return norm
}

func (s *Snapshot) dict(kind SkillKind) map[string]string {
	switch kind {
	case KindHard:
		return s.hard
	case KindSoft:
		return s.soft
	default:
		return nil
	}
}
