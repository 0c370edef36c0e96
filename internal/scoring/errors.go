package scoring

import "fmt"

// ErrInvalidTemplate indicates a malformed job template. Templates are
// rejected before scoring; weights are never silently clamped.
type ErrInvalidTemplate struct {
	Field   string
	Message string
}

func (e *ErrInvalidTemplate) Error() string {
	return fmt.Sprintf("invalid job template: %s - %s", e.Field, e.Message)
}
