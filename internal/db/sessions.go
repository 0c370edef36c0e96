package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jonathan/hr-screening/internal/interview"
	"github.com/jonathan/hr-screening/internal/types"
)

var _ interview.Store = (*DB)(nil)

const sessionColumns = `session_id, candidate_id, role_name, status, token_hash, expires_at,
	invite_sent_at, invite_last_error, started_at, completed_at,
	current_question, question_count, max_questions, score, risk_flags, created_at`

// CreateSession persists a new invited session. The partial unique index on
// active sessions turns a duplicate invite into a unique violation, which is
// surfaced as interview.ErrDuplicateActive.
func (db *DB) CreateSession(ctx context.Context, s *types.InterviewSession) error {
	flags, err := json.Marshal(emptyIfNil(s.RiskFlags))
	if err != nil {
		return fmt.Errorf("failed to marshal risk flags: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO interview_sessions
		     (session_id, candidate_id, role_name, status, token_hash, expires_at, max_questions, risk_flags, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.SessionID, s.CandidateID, s.RoleName, s.Status, s.TokenHash, s.ExpiresAt, s.MaxQuestions, flags, s.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return interview.ErrDuplicateActive
		}
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// SessionByID retrieves a session by its ID.
func (db *DB) SessionByID(ctx context.Context, id uuid.UUID) (*types.InterviewSession, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM interview_sessions WHERE session_id = $1`, id)
	return scanSession(row)
}

// SessionByTokenHash retrieves a session by the digest of its invite token.
func (db *DB) SessionByTokenHash(ctx context.Context, hash string) (*types.InterviewSession, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM interview_sessions WHERE token_hash = $1`, hash)
	return scanSession(row)
}

// ActiveSession returns the invited or in_progress session for the pair, if any.
func (db *DB) ActiveSession(ctx context.Context, candidateID uuid.UUID, role string) (*types.InterviewSession, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM interview_sessions
		 WHERE candidate_id = $1 AND role_name = $2 AND status IN ('invited', 'in_progress')`,
		candidateID, role)
	return scanSession(row)
}

// ListSessions returns all sessions, newest first.
func (db *DB) ListSessions(ctx context.Context) ([]types.InterviewSession, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM interview_sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []types.InterviewSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// TransitionSession moves the session to the target status when its current
// status is one of the expected ones. The check and the write are one
// statement, so concurrent transitions resolve to exactly one winner.
func (db *DB) TransitionSession(ctx context.Context, id uuid.UUID, from []types.SessionStatus, to types.SessionStatus) (bool, error) {
	expected := make([]string, len(from))
	for i, s := range from {
		expected[i] = string(s)
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE interview_sessions
		 SET status = $1,
		     started_at = CASE WHEN $1 = 'in_progress' THEN COALESCE(started_at, NOW()) ELSE started_at END,
		     completed_at = CASE WHEN $1 IN ('completed', 'expired', 'canceled') THEN COALESCE(completed_at, NOW()) ELSE completed_at END
		 WHERE session_id = $2 AND status = ANY($3)`,
		string(to), id, expected,
	)
	if err != nil {
		return false, fmt.Errorf("failed to transition session: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetCurrentQuestion records the pending question for a session.
func (db *DB) SetCurrentQuestion(ctx context.Context, id uuid.UUID, question string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE interview_sessions SET current_question = $1 WHERE session_id = $2`,
		question, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set current question: %w", err)
	}
	return nil
}

// AppendTurn stores a turn, advances question_count and replaces the pending
// question in one transaction.
func (db *DB) AppendTurn(ctx context.Context, id uuid.UUID, turn types.Turn, nextQuestion string) error {
	flags, err := json.Marshal(emptyIfNil(turn.RiskFlags))
	if err != nil {
		return fmt.Errorf("failed to marshal risk flags: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO interview_turns (session_id, turn_number, question, answer, score, feedback, risk_flags, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, turn.TurnNumber, turn.Question, turn.Answer, turn.Score, turn.Feedback, flags, turn.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE interview_sessions SET question_count = $1, current_question = $2 WHERE session_id = $3`,
		turn.TurnNumber, nextQuestion, id,
	); err != nil {
		return fmt.Errorf("failed to advance session: %w", err)
	}

	return tx.Commit(ctx)
}

// SessionTurns returns the turns of a session in order.
func (db *DB) SessionTurns(ctx context.Context, id uuid.UUID) ([]types.Turn, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT turn_number, question, answer, score, feedback, risk_flags, created_at
		 FROM interview_turns WHERE session_id = $1 ORDER BY turn_number`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	defer rows.Close()

	var turns []types.Turn
	for rows.Next() {
		var t types.Turn
		var flags []byte
		if err := rows.Scan(&t.TurnNumber, &t.Question, &t.Answer, &t.Score, &t.Feedback, &flags, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		if err := json.Unmarshal(flags, &t.RiskFlags); err != nil {
			return nil, fmt.Errorf("failed to parse turn risk flags: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// CompleteSession finalizes an in_progress session with its aggregate score.
func (db *DB) CompleteSession(ctx context.Context, id uuid.UUID, score float64, riskFlags []string) (bool, error) {
	flags, err := json.Marshal(emptyIfNil(riskFlags))
	if err != nil {
		return false, fmt.Errorf("failed to marshal risk flags: %w", err)
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE interview_sessions
		 SET status = 'completed', completed_at = NOW(), score = $1, risk_flags = $2, current_question = ''
		 WHERE session_id = $3 AND status = 'in_progress'`,
		score, flags, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to complete session: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RotateInvite replaces the token digest and expiry of a session and clears
// delivery bookkeeping. The status check is part of the statement, so a
// session that started or terminated concurrently is never rotated.
func (db *DB) RotateInvite(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE interview_sessions
		 SET token_hash = $1, expires_at = $2, invite_sent_at = NULL, invite_last_error = ''
		 WHERE session_id = $3 AND status = 'invited'`,
		tokenHash, expiresAt, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to rotate invite: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkInviteSent records successful invite delivery.
func (db *DB) MarkInviteSent(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE interview_sessions SET invite_sent_at = NOW(), invite_last_error = '' WHERE session_id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark invite sent: %w", err)
	}
	return nil
}

// MarkInviteFailed records a delivery failure.
func (db *DB) MarkInviteFailed(ctx context.Context, id uuid.UUID, message string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE interview_sessions SET invite_last_error = $1 WHERE session_id = $2`,
		message, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark invite failed: %w", err)
	}
	return nil
}

// TemplateByRole adapts GetTemplateByRole to the session store interface.
func (db *DB) TemplateByRole(ctx context.Context, role string) (*types.JobTemplate, error) {
	return db.GetTemplateByRole(ctx, role)
}

// CandidateByID returns just the profile of a candidate.
func (db *DB) CandidateByID(ctx context.Context, id uuid.UUID) (*types.CandidateProfile, error) {
	rec, err := db.GetCandidate(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return &rec.Profile, nil
}

func scanSession(row pgx.Row) (*types.InterviewSession, error) {
	var s types.InterviewSession
	var flags []byte
	err := row.Scan(&s.SessionID, &s.CandidateID, &s.RoleName, &s.Status, &s.TokenHash, &s.ExpiresAt,
		&s.InviteSentAt, &s.InviteLastError, &s.StartedAt, &s.CompletedAt,
		&s.CurrentQuestion, &s.QuestionCount, &s.MaxQuestions, &s.Score, &flags, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}
	if err := json.Unmarshal(flags, &s.RiskFlags); err != nil {
		return nil, fmt.Errorf("failed to parse session risk flags: %w", err)
	}
	return &s, nil
}

func emptyIfNil(flags []string) []string {
	if flags == nil {
		return []string{}
	}
	return flags
}
