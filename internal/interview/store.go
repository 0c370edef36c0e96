package interview

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hr-screening/internal/scoring"
	"github.com/jonathan/hr-screening/internal/types"
)

// Store is the persistence boundary for the session state machine. Lookup
// methods return (nil, nil) when the entity does not exist. Conditional
// updates are atomic: the status check and the write happen in one
// statement, never read-then-write.
type Store interface {
	// CreateSession persists a new session in the invited state. It must
	// enforce the one-active-session-per-(candidate, role) invariant
	// atomically and return ErrDuplicateActive on violation.
	CreateSession(ctx context.Context, s *types.InterviewSession) error

	SessionByID(ctx context.Context, id uuid.UUID) (*types.InterviewSession, error)
	SessionByTokenHash(ctx context.Context, hash string) (*types.InterviewSession, error)
	// ActiveSession returns the invited or in_progress session for the pair,
	// if any.
	ActiveSession(ctx context.Context, candidateID uuid.UUID, role string) (*types.InterviewSession, error)
	ListSessions(ctx context.Context) ([]types.InterviewSession, error)

	// TransitionSession moves the session to the target status if its
	// current status is one of the expected ones, stamping started_at or
	// completed_at as the target requires. Returns false when the session
	// was not in an expected status (another request won the race).
	TransitionSession(ctx context.Context, id uuid.UUID, from []types.SessionStatus, to types.SessionStatus) (bool, error)

	// SetCurrentQuestion records the pending question for the session.
	SetCurrentQuestion(ctx context.Context, id uuid.UUID, question string) error

	// AppendTurn stores a turn, advances question_count to the turn number
	// and replaces the pending question, all atomically.
	AppendTurn(ctx context.Context, id uuid.UUID, turn types.Turn, nextQuestion string) error

	SessionTurns(ctx context.Context, id uuid.UUID) ([]types.Turn, error)

	// CompleteSession finalizes an in_progress session with its aggregate
	// score and risk flags. Returns false if the session was not in_progress.
	CompleteSession(ctx context.Context, id uuid.UUID, score float64, riskFlags []string) (bool, error)

	// RotateInvite replaces the token digest and expiry of a session and
	// clears delivery bookkeeping, but only while the session is still
	// invited. Returns false when the session has moved on (another request
	// won the race).
	RotateInvite(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) (bool, error)
	MarkInviteSent(ctx context.Context, id uuid.UUID) error
	MarkInviteFailed(ctx context.Context, id uuid.UUID, message string) error

	TemplateByRole(ctx context.Context, role string) (*types.JobTemplate, error)
	CandidateByID(ctx context.Context, id uuid.UUID) (*types.CandidateProfile, error)
	RankedCandidates(ctx context.Context, role string) ([]scoring.RankedCandidate, error)
}
