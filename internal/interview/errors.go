package interview

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrDuplicateActive indicates an active (invited or in_progress) session
// already exists for the (candidate, role) pair. The store returns it from
// CreateSession when the uniqueness invariant would be violated.
var ErrDuplicateActive = errors.New("an active interview session already exists for this candidate and role")

// ErrInvalidToken indicates the presented token matches no session.
type ErrInvalidToken struct{}

func (e *ErrInvalidToken) Error() string {
	return "invalid or unknown interview token"
}

// ErrExpired indicates the session deadline has passed. The session is
// marked expired before this error is returned.
type ErrExpired struct {
	SessionID uuid.UUID
}

func (e *ErrExpired) Error() string {
	return fmt.Sprintf("interview session %s has expired", e.SessionID)
}

// ErrConflict indicates the requested action is not valid for the session's
// current state. Existing state is left untouched.
type ErrConflict struct {
	Reason string
}

func (e *ErrConflict) Error() string {
	return "conflict: " + e.Reason
}

// ErrNotFound indicates a referenced entity does not exist.
type ErrNotFound struct {
	Entity string
	Key    string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Key)
}

// ErrCollaborator indicates an external collaborator call failed after the
// retry. The session state is unchanged and the action can be retried.
type ErrCollaborator struct {
	Op  string
	Err error
}

func (e *ErrCollaborator) Error() string {
	return fmt.Sprintf("collaborator %s unavailable: %v", e.Op, e.Err)
}

func (e *ErrCollaborator) Unwrap() error {
	return e.Err
}
