package types

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the explicit interview session state. Transitions are
// governed solely by CanTransition; no state is ever inferred from which
// timestamp columns happen to be set.
type SessionStatus string

// Interview session states
const (
	SessionInvited    SessionStatus = "invited"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionExpired    SessionStatus = "expired"
	SessionCanceled   SessionStatus = "canceled"
)

// Valid reports whether the status is a known state.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionInvited, SessionInProgress, SessionCompleted, SessionExpired, SessionCanceled:
		return true
	}
	return false
}

// Active reports whether the session can still be acted on by the candidate.
func (s SessionStatus) Active() bool {
	return s == SessionInvited || s == SessionInProgress
}

// Terminal reports whether the session has reached a final state.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionExpired || s == SessionCanceled
}

// CanTransition is the single authoritative transition rule:
//
//	invited     -> in_progress | expired | canceled
//	in_progress -> completed   | expired | canceled
//
// No transition leaves a terminal state.
func (s SessionStatus) CanTransition(to SessionStatus) bool {
	switch s {
	case SessionInvited:
		return to == SessionInProgress || to == SessionExpired || to == SessionCanceled
	case SessionInProgress:
		return to == SessionCompleted || to == SessionExpired || to == SessionCanceled
	default:
		return false
	}
}

// Turn is one question/answer exchange within an interview session.
// Turns are append-only.
type Turn struct {
	TurnNumber int       `json:"turn_number"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Score      float64   `json:"score"`
	Feedback   string    `json:"feedback,omitempty"`
	RiskFlags  []string  `json:"risk_flags,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// InterviewSession is a token-gated, bounded Q&A exchange with one candidate
// for one role. Only the sha256 digest of the invite token is ever persisted.
type InterviewSession struct {
	SessionID       uuid.UUID     `json:"session_id"`
	CandidateID     uuid.UUID     `json:"candidate_id"`
	RoleName        string        `json:"role_name"`
	Status          SessionStatus `json:"status"`
	TokenHash       string        `json:"-"`
	ExpiresAt       time.Time     `json:"expires_at"`
	InviteSentAt    *time.Time    `json:"invite_sent_at,omitempty"`
	InviteLastError string        `json:"invite_last_error,omitempty"`
	StartedAt       *time.Time    `json:"started_at,omitempty"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
	CurrentQuestion string        `json:"current_question,omitempty"`
	QuestionCount   int           `json:"question_count"`
	MaxQuestions    int           `json:"max_questions"`
	Turns           []Turn        `json:"turns,omitempty"`
	Score           float64       `json:"score"`
	RiskFlags       []string      `json:"risk_flags,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// Expired reports whether the session deadline has passed at the given time.
func (s *InterviewSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
