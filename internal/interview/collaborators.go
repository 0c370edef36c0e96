package interview

import "context"

// QuestionInput is the standardized input for question generation. It is
// built from the job template only — never from candidate-authored text — so
// all candidates at the same level face comparable questions.
type QuestionInput struct {
	RoleName       string
	RoleLevel      string
	JDText         string
	RequiredSkills []string
	// PriorQuestions are the engine-generated questions already asked in
	// this session, so the generator does not repeat itself.
	PriorQuestions []string
}

// QuestionGenerator is the external question-generation collaborator.
type QuestionGenerator interface {
	GenerateQuestion(ctx context.Context, input QuestionInput) (string, error)
}

// Evaluation is the result of grading one answer.
type Evaluation struct {
	Score       float64  `json:"score"`
	Explanation string   `json:"explanation"`
	RiskFlags   []string `json:"risk_flags,omitempty"`
}

// AnswerEvaluator is the external answer-evaluation collaborator. Score is
// in [0, 1].
type AnswerEvaluator interface {
	EvaluateAnswer(ctx context.Context, question, answer string) (*Evaluation, error)
}

// EmailSender is the external email collaborator. Delivery failure never
// blocks session creation; the caller falls back to a direct link.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}
