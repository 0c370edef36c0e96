package types

import (
	"time"

	"github.com/google/uuid"
)

// DictionaryTerm is a canonical skill term curated by HR, partitioned by kind
// ("hard" or "soft").
type DictionaryTerm struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind" validate:"oneof=hard soft"`
	Term      string    `json:"term" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

// SynonymRule maps a free-text token to its canonical form. Rules are unique
// per (token, canonical_form); many tokens may map to the same form.
// Expansion is single-hop: a rule's canonical form is never expanded again.
type SynonymRule struct {
	ID            uuid.UUID `json:"id"`
	Token         string    `json:"token" validate:"required"`
	CanonicalForm string    `json:"canonical_form" validate:"required"`
	Category      string    `json:"category,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
