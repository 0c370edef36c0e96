package scoring

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/hr-screening/internal/dictionary"
	"github.com/jonathan/hr-screening/internal/types"
)

var validate = validator.New()

// ValidateTemplate checks a job template before it is stored or scored
// against. Struct tags cover the field-level constraints; the explicit checks
// cover the cross-field invariants (positive weights, no duplicate keywords).
func ValidateTemplate(t *types.JobTemplate) error {
	if err := validate.Struct(t); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return &ErrInvalidTemplate{
				Field:   errs[0].Namespace(),
				Message: fmt.Sprintf("failed %q constraint", errs[0].Tag()),
			}
		}
		return &ErrInvalidTemplate{Field: "template", Message: err.Error()}
	}

	seen := make(map[string]bool, len(t.Skills))
	for i, s := range t.Skills {
		field := fmt.Sprintf("skills[%d]", i)
		if s.Weight < 0 {
			return &ErrInvalidTemplate{Field: field + ".weight", Message: "weight must be positive"}
		}
		norm := dictionary.NormalizeToken(s.Keyword)
		if norm == "" {
			return &ErrInvalidTemplate{Field: field + ".keyword", Message: "keyword is empty after normalization"}
		}
		if seen[norm] {
			return &ErrInvalidTemplate{Field: field + ".keyword", Message: fmt.Sprintf("duplicate keyword %q", s.Keyword)}
		}
		seen[norm] = true
	}
	return nil
}
