// Package interview implements the token-gated interview session state
// machine: invite issuance, turn-by-turn quiz orchestration and aggregate
// scoring. External generation/evaluation/email calls go through the
// collaborator interfaces with bounded timeouts and a single retry.
package interview

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/hr-screening/internal/types"
)

// Defaults for session configuration.
const (
	DefaultExpiryHours  = 72
	DefaultMaxQuestions = 6
	DefaultResendWindow = 10 * time.Minute

	defaultCollaboratorTimeout = 30 * time.Second
	defaultRetryBackoff        = 2 * time.Second
)

// Config holds the tunable parameters of the state machine.
type Config struct {
	ExpiryHours         int
	MaxQuestions        int
	ResendWindow        time.Duration
	CollaboratorTimeout time.Duration
	RetryBackoff        time.Duration
	PortalBaseURL       string
}

func (c Config) withDefaults() Config {
	if c.ExpiryHours <= 0 {
		c.ExpiryHours = DefaultExpiryHours
	}
	if c.MaxQuestions <= 0 {
		c.MaxQuestions = DefaultMaxQuestions
	}
	if c.ResendWindow <= 0 {
		c.ResendWindow = DefaultResendWindow
	}
	if c.CollaboratorTimeout <= 0 {
		c.CollaboratorTimeout = defaultCollaboratorTimeout
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = defaultRetryBackoff
	}
	return c
}

// Manager drives interview sessions. Candidate-facing actions on the same
// session are serialized through a per-session mutex; status transitions are
// additionally guarded by conditional store updates, so a lost race is a
// no-op rather than a double transition.
type Manager struct {
	store     Store
	questions QuestionGenerator
	evaluator AnswerEvaluator
	mailer    EmailSender
	cfg       Config
	log       *zap.Logger

	// now is swappable for tests.
	now func() time.Time

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewManager creates a session manager. The mailer may be nil, in which case
// invites are returned with a fallback link only.
func NewManager(store Store, questions QuestionGenerator, evaluator AnswerEvaluator, mailer EmailSender, cfg Config, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		store:     store,
		questions: questions,
		evaluator: evaluator,
		mailer:    mailer,
		cfg:       cfg.withDefaults(),
		log:       log,
		now:       time.Now,
		locks:     make(map[uuid.UUID]*sync.Mutex),
	}
}

// lockSession returns the unlock func for the per-session critical section.
func (m *Manager) lockSession(id uuid.UUID) func() {
	m.mu.Lock()
	lock, ok := m.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[id] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// InviteRequest asks for a new interview invite.
type InviteRequest struct {
	CandidateID  uuid.UUID `json:"candidate_id" validate:"required"`
	RoleName     string    `json:"role_name" validate:"required"`
	ExpiresHours int       `json:"expires_hours,omitempty" validate:"gte=0"`
	MaxQuestions int       `json:"max_questions,omitempty" validate:"gte=0"`
}

// InviteResult reports the outcome of an invite. Token carries the raw
// capability token and is the only place it ever appears.
type InviteResult struct {
	Session     *types.InterviewSession `json:"session"`
	Token       string                  `json:"token,omitempty"`
	Created     bool                    `json:"created"`
	EmailSent   bool                    `json:"email_sent"`
	FallbackURL string                  `json:"fallback_url,omitempty"`
}

// Invite creates (or rotates) an interview session for a candidate and role
// and attempts delivery. Exactly one active session may exist per pair: an
// in_progress session conflicts, an invited one is rotated unless it was
// (re)sent within the resend window.
func (m *Manager) Invite(ctx context.Context, req InviteRequest) (*InviteResult, error) {
	candidate, err := m.store.CandidateByID(ctx, req.CandidateID)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, &ErrNotFound{Entity: "candidate", Key: req.CandidateID.String()}
	}

	template, err := m.store.TemplateByRole(ctx, req.RoleName)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, &ErrNotFound{Entity: "job template", Key: req.RoleName}
	}
	if !template.IsOpen {
		return nil, &ErrConflict{Reason: fmt.Sprintf("role %q is closed", req.RoleName)}
	}

	now := m.now()
	expiryHours := req.ExpiresHours
	if expiryHours <= 0 {
		expiryHours = m.cfg.ExpiryHours
	}
	maxQuestions := req.MaxQuestions
	if maxQuestions <= 0 {
		maxQuestions = m.cfg.MaxQuestions
	}
	expiresAt := now.Add(time.Duration(expiryHours) * time.Hour)

	existing, err := m.store.ActiveSession(ctx, req.CandidateID, req.RoleName)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Expired(now) {
		// Lazy expiry: a stale invite no longer counts as active.
		if _, err := m.store.TransitionSession(ctx, existing.SessionID,
			[]types.SessionStatus{types.SessionInvited, types.SessionInProgress}, types.SessionExpired); err != nil {
			return nil, err
		}
		existing = nil
	}

	raw, digest, err := NewToken()
	if err != nil {
		return nil, err
	}

	var session *types.InterviewSession
	created := false
	switch {
	case existing == nil:
		session = &types.InterviewSession{
			SessionID:    uuid.New(),
			CandidateID:  req.CandidateID,
			RoleName:     req.RoleName,
			Status:       types.SessionInvited,
			TokenHash:    digest,
			ExpiresAt:    expiresAt,
			MaxQuestions: maxQuestions,
			CreatedAt:    now,
		}
		if err := m.store.CreateSession(ctx, session); err != nil {
			return nil, err
		}
		created = true

	case existing.Status == types.SessionInProgress:
		return nil, ErrDuplicateActive

	default: // invited: rotate unless recently sent
		if existing.InviteSentAt != nil && now.Sub(*existing.InviteSentAt) < m.cfg.ResendWindow {
			return nil, &ErrConflict{Reason: "an invite for this candidate and role was sent recently"}
		}
		ok, err := m.store.RotateInvite(ctx, existing.SessionID, digest, expiresAt)
		if err != nil {
			return nil, err
		}
		if !ok {
			// The candidate started (or the session terminated) between the
			// read and the rotation; the live token stays valid.
			return nil, &ErrConflict{Reason: "interview session is no longer awaiting its invite"}
		}
		session = existing
		session.TokenHash = digest
		session.ExpiresAt = expiresAt
	}

	result := &InviteResult{Session: session, Token: raw, Created: created}
	m.deliverInvite(ctx, result, candidate, raw)
	return result, nil
}

// deliverInvite attempts email delivery and fills in the delivery fields of
// the result. Failures are recorded on the session and surfaced through the
// fallback URL; they never fail the invite.
func (m *Manager) deliverInvite(ctx context.Context, result *InviteResult, candidate *types.CandidateProfile, rawToken string) {
	result.FallbackURL = m.portalURL(rawToken)

	if m.mailer == nil || candidate.Contact.Email == "" {
		return
	}

	subject := fmt.Sprintf("Interview invitation: %s", result.Session.RoleName)
	body := fmt.Sprintf(
		"Hello %s,\n\nYou have been invited to a screening interview for the %s role.\n"+
			"Start your interview here: %s\n\nThis link expires at %s.\n",
		candidate.Contact.Name, result.Session.RoleName, result.FallbackURL,
		result.Session.ExpiresAt.UTC().Format(time.RFC1123),
	)

	err := m.withRetry(ctx, "email", func(cctx context.Context) error {
		return m.mailer.Send(cctx, candidate.Contact.Email, subject, body)
	})
	if err != nil {
		m.log.Warn("invite email delivery failed",
			zap.String("session_id", result.Session.SessionID.String()),
			zap.Error(err))
		if dbErr := m.store.MarkInviteFailed(ctx, result.Session.SessionID, err.Error()); dbErr != nil {
			m.log.Error("failed to record invite error", zap.Error(dbErr))
		}
		return
	}

	result.EmailSent = true
	if dbErr := m.store.MarkInviteSent(ctx, result.Session.SessionID); dbErr != nil {
		m.log.Error("failed to record invite delivery", zap.Error(dbErr))
	}
}

func (m *Manager) portalURL(rawToken string) string {
	base := m.cfg.PortalBaseURL
	if base == "" {
		base = "/interview"
	}
	return fmt.Sprintf("%s?token=%s", base, rawToken)
}

// resolve verifies a raw token against a session and applies lazy expiry:
// any access past expires_at marks the session expired before other logic
// runs.
func (m *Manager) resolve(ctx context.Context, rawToken string) (*types.InterviewSession, error) {
	session, err := m.store.SessionByTokenHash(ctx, HashToken(rawToken))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &ErrInvalidToken{}
	}
	return m.applyLazyExpiry(ctx, session)
}

func (m *Manager) applyLazyExpiry(ctx context.Context, session *types.InterviewSession) (*types.InterviewSession, error) {
	if session.Status.Active() && session.Expired(m.now()) {
		if _, err := m.store.TransitionSession(ctx, session.SessionID,
			[]types.SessionStatus{types.SessionInvited, types.SessionInProgress}, types.SessionExpired); err != nil {
			return nil, err
		}
		session.Status = types.SessionExpired
	}
	return session, nil
}

// terminalErr maps a terminal session state to its caller-facing error.
func terminalErr(session *types.InterviewSession) error {
	switch session.Status {
	case types.SessionExpired:
		return &ErrExpired{SessionID: session.SessionID}
	case types.SessionCompleted:
		return &ErrConflict{Reason: "interview is already completed"}
	case types.SessionCanceled:
		return &ErrConflict{Reason: "interview was canceled"}
	default:
		return nil
	}
}

// StartResult carries the question the candidate should answer next.
type StartResult struct {
	SessionID      uuid.UUID `json:"session_id"`
	RoleName       string    `json:"role_name"`
	Question       string    `json:"question"`
	QuestionNumber int       `json:"question_number"`
	MaxQuestions   int       `json:"max_questions"`
}

// Start begins an invited session: it requests the first question from the
// generation collaborator, then transitions invited -> in_progress. Calling
// Start on a session that is already in progress is an idempotent no-op that
// returns the pending question.
func (m *Manager) Start(ctx context.Context, rawToken string) (*StartResult, error) {
	session, err := m.resolve(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	unlock := m.lockSession(session.SessionID)
	defer unlock()

	// Re-read under the lock: a concurrent Start may have already won.
	session, err = m.store.SessionByID(ctx, session.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &ErrInvalidToken{}
	}
	if session, err = m.applyLazyExpiry(ctx, session); err != nil {
		return nil, err
	}
	if session.Status.Terminal() {
		return nil, terminalErr(session)
	}

	if session.Status == types.SessionInProgress && session.CurrentQuestion != "" {
		return m.startResult(session), nil
	}

	// Generate before transitioning so a collaborator failure leaves the
	// session untouched and retryable.
	question, err := m.generateQuestion(ctx, session)
	if err != nil {
		return nil, err
	}

	if session.Status == types.SessionInvited {
		ok, err := m.store.TransitionSession(ctx, session.SessionID,
			[]types.SessionStatus{types.SessionInvited}, types.SessionInProgress)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Lost the race to a concurrent Start; reload and return its question.
			session, err = m.store.SessionByID(ctx, session.SessionID)
			if err != nil {
				return nil, err
			}
			if session == nil || !session.Status.Active() {
				return nil, &ErrConflict{Reason: "interview is no longer active"}
			}
			return m.startResult(session), nil
		}
		session.Status = types.SessionInProgress
	}

	if err := m.store.SetCurrentQuestion(ctx, session.SessionID, question); err != nil {
		return nil, err
	}
	session.CurrentQuestion = question
	return m.startResult(session), nil
}

func (m *Manager) startResult(session *types.InterviewSession) *StartResult {
	return &StartResult{
		SessionID:      session.SessionID,
		RoleName:       session.RoleName,
		Question:       session.CurrentQuestion,
		QuestionNumber: session.QuestionCount + 1,
		MaxQuestions:   session.MaxQuestions,
	}
}

// generateQuestion calls the generation collaborator with template-derived
// input only, per the standardization contract.
func (m *Manager) generateQuestion(ctx context.Context, session *types.InterviewSession) (string, error) {
	template, err := m.store.TemplateByRole(ctx, session.RoleName)
	if err != nil {
		return "", err
	}
	if template == nil {
		return "", &ErrNotFound{Entity: "job template", Key: session.RoleName}
	}

	turns, err := m.store.SessionTurns(ctx, session.SessionID)
	if err != nil {
		return "", err
	}
	prior := make([]string, 0, len(turns))
	for _, turn := range turns {
		prior = append(prior, turn.Question)
	}

	input := QuestionInput{
		RoleName:       template.RoleName,
		RoleLevel:      template.RoleLevel,
		JDText:         template.JDText,
		RequiredSkills: template.CriticalKeywords(),
		PriorQuestions: prior,
	}

	var question string
	err = m.withRetry(ctx, "question generation", func(cctx context.Context) error {
		q, genErr := m.questions.GenerateQuestion(cctx, input)
		if genErr != nil {
			return genErr
		}
		question = q
		return nil
	})
	if err != nil {
		return "", err
	}
	return question, nil
}

// TurnResult reports the outcome of one answered question.
type TurnResult struct {
	SessionID      uuid.UUID `json:"session_id"`
	Feedback       string    `json:"feedback,omitempty"`
	RiskFlags      []string  `json:"risk_flags,omitempty"`
	NextQuestion   string    `json:"next_question,omitempty"`
	QuestionNumber int       `json:"question_number,omitempty"`
	MaxQuestions   int       `json:"max_questions"`
	Completed      bool      `json:"completed"`
	Score          float64   `json:"score,omitempty"`
	Warning        string    `json:"warning,omitempty"`
}

// Message submits the candidate's answer to the pending question. The answer
// is evaluated, the turn appended, and either the next question is generated
// or, on the final turn, the session completes with the mean per-question
// score scaled to 0-100. An evaluation failure leaves the session unchanged
// so the answer can be resubmitted.
func (m *Manager) Message(ctx context.Context, rawToken, answer string) (*TurnResult, error) {
	session, err := m.resolve(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	unlock := m.lockSession(session.SessionID)
	defer unlock()

	session, err = m.store.SessionByID(ctx, session.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &ErrInvalidToken{}
	}
	if session, err = m.applyLazyExpiry(ctx, session); err != nil {
		return nil, err
	}
	if session.Status.Terminal() {
		return nil, terminalErr(session)
	}
	if session.Status != types.SessionInProgress {
		return nil, &ErrConflict{Reason: "interview has not been started"}
	}
	if session.QuestionCount >= session.MaxQuestions {
		return nil, &ErrConflict{Reason: "all questions have been answered"}
	}
	if session.CurrentQuestion == "" {
		return nil, &ErrConflict{Reason: "no pending question; request the interview start again"}
	}

	var eval *Evaluation
	err = m.withRetry(ctx, "answer evaluation", func(cctx context.Context) error {
		e, evalErr := m.evaluator.EvaluateAnswer(cctx, session.CurrentQuestion, answer)
		if evalErr != nil {
			return evalErr
		}
		eval = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	turn := types.Turn{
		TurnNumber: session.QuestionCount + 1,
		Question:   session.CurrentQuestion,
		Answer:     answer,
		Score:      clampScore(eval.Score),
		Feedback:   eval.Explanation,
		RiskFlags:  eval.RiskFlags,
		CreatedAt:  m.now(),
	}

	result := &TurnResult{
		SessionID:    session.SessionID,
		Feedback:     eval.Explanation,
		RiskFlags:    eval.RiskFlags,
		MaxQuestions: session.MaxQuestions,
	}

	if turn.TurnNumber >= session.MaxQuestions {
		if err := m.store.AppendTurn(ctx, session.SessionID, turn, ""); err != nil {
			return nil, err
		}
		score, flags, err := m.aggregate(ctx, session.SessionID)
		if err != nil {
			return nil, err
		}
		if _, err := m.store.CompleteSession(ctx, session.SessionID, score, flags); err != nil {
			return nil, err
		}
		result.Completed = true
		result.Score = score
		return result, nil
	}

	next, genErr := m.generateQuestion(ctx, session)
	if genErr != nil {
		// The answer is kept; the candidate recovers the next question by
		// calling start again.
		if err := m.store.AppendTurn(ctx, session.SessionID, turn, ""); err != nil {
			return nil, err
		}
		m.log.Warn("next question generation failed",
			zap.String("session_id", session.SessionID.String()),
			zap.Error(genErr))
		result.Warning = "your answer was recorded, but the next question is temporarily unavailable; please retry shortly"
		return result, nil
	}

	if err := m.store.AppendTurn(ctx, session.SessionID, turn, next); err != nil {
		return nil, err
	}
	result.NextQuestion = next
	result.QuestionNumber = turn.TurnNumber + 1
	return result, nil
}

// aggregate computes the final interview score as the mean of per-question
// scores scaled to 0-100, plus the union of risk flags in first-seen order.
func (m *Manager) aggregate(ctx context.Context, sessionID uuid.UUID) (float64, []string, error) {
	turns, err := m.store.SessionTurns(ctx, sessionID)
	if err != nil {
		return 0, nil, err
	}
	if len(turns) == 0 {
		return 0, nil, nil
	}

	sum := 0.0
	seen := make(map[string]bool)
	var flags []string
	for _, turn := range turns {
		sum += turn.Score
		for _, f := range turn.RiskFlags {
			if !seen[f] {
				seen[f] = true
				flags = append(flags, f)
			}
		}
	}
	score := math.Round(sum/float64(len(turns))*100*100) / 100
	return score, flags, nil
}

// Cancel terminates an active session on HR's behalf.
func (m *Manager) Cancel(ctx context.Context, sessionID uuid.UUID) error {
	unlock := m.lockSession(sessionID)
	defer unlock()

	session, err := m.store.SessionByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return &ErrNotFound{Entity: "interview session", Key: sessionID.String()}
	}

	ok, err := m.store.TransitionSession(ctx, sessionID,
		[]types.SessionStatus{types.SessionInvited, types.SessionInProgress}, types.SessionCanceled)
	if err != nil {
		return err
	}
	if !ok {
		return &ErrConflict{Reason: fmt.Sprintf("session is already %s", session.Status)}
	}
	return nil
}

// BulkInviteRequest invites the best-ranked candidates for a role.
type BulkInviteRequest struct {
	RoleName     string  `json:"role_name" validate:"required"`
	TopN         int     `json:"top_n,omitempty"`
	MinJDScore   float64 `json:"min_jd_score,omitempty"`
	ExpiresHours int     `json:"expires_hours,omitempty"`
}

// BulkInviteResult summarizes a bulk invite run.
type BulkInviteResult struct {
	Created    int         `json:"created"`
	Skipped    int         `json:"skipped"`
	Errors     int         `json:"errors"`
	SessionIDs []uuid.UUID `json:"session_ids"`
}

// BulkInvite issues invites to the top-N ranked candidates for a role whose
// jd_match_score clears the floor. Candidates with an active session count as
// skipped, not errors.
func (m *Manager) BulkInvite(ctx context.Context, req BulkInviteRequest) (*BulkInviteResult, error) {
	topN := req.TopN
	if topN <= 0 {
		topN = 10
	}
	minJD := req.MinJDScore
	if minJD <= 0 {
		minJD = 70
	}

	ranked, err := m.store.RankedCandidates(ctx, req.RoleName)
	if err != nil {
		return nil, err
	}

	result := &BulkInviteResult{SessionIDs: []uuid.UUID{}}
	for _, candidate := range ranked {
		if result.Created >= topN {
			break
		}
		if candidate.Score.JDMatchScore < minJD {
			continue
		}

		invite, err := m.Invite(ctx, InviteRequest{
			CandidateID:  candidate.Profile.ID,
			RoleName:     req.RoleName,
			ExpiresHours: req.ExpiresHours,
		})
		switch {
		case err == nil:
			if invite.Created {
				result.Created++
			} else {
				result.Skipped++
			}
			result.SessionIDs = append(result.SessionIDs, invite.Session.SessionID)
		case isConflict(err):
			result.Skipped++
		default:
			m.log.Warn("bulk invite failed for candidate",
				zap.String("candidate_id", candidate.Profile.ID.String()),
				zap.Error(err))
			result.Errors++
		}
	}
	return result, nil
}

func isConflict(err error) bool {
	if errors.Is(err, ErrDuplicateActive) {
		return true
	}
	var conflict *ErrConflict
	return errors.As(err, &conflict)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
