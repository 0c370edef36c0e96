package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/hr-screening/internal/interview"
	"github.com/jonathan/hr-screening/internal/prompts"
	"github.com/jonathan/hr-screening/internal/schemas"
)

const promptFile = "interview.json"

// Interviewer generates screening questions and grades answers through an
// LLM client. It implements the interview collaborator interfaces.
type Interviewer struct {
	client Client
	tier   ModelTier
}

// NewInterviewer creates an Interviewer on the standard tier.
func NewInterviewer(client Client) *Interviewer {
	return &Interviewer{client: client, tier: TierStandard}
}

// GenerateQuestion produces one new screening question from template-derived
// input.
func (iv *Interviewer) GenerateQuestion(ctx context.Context, input interview.QuestionInput) (string, error) {
	template, err := prompts.Get(promptFile, "generate_question")
	if err != nil {
		return "", err
	}

	prior := "none"
	if len(input.PriorQuestions) > 0 {
		var sb strings.Builder
		for i, q := range input.PriorQuestions {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, q)
		}
		prior = sb.String()
	}

	prompt := prompts.Format(template, map[string]string{
		"RoleName":       input.RoleName,
		"RoleLevel":      orDefault(input.RoleLevel, "unspecified"),
		"JDText":         orDefault(input.JDText, "not provided"),
		"RequiredSkills": orDefault(strings.Join(input.RequiredSkills, ", "), "not specified"),
		"PriorQuestions": prior,
	})

	raw, err := iv.client.GenerateJSON(ctx, prompt, iv.tier)
	if err != nil {
		return "", err
	}
	return parseQuestionResponse(raw)
}

// EvaluateAnswer grades a single answer against its question.
func (iv *Interviewer) EvaluateAnswer(ctx context.Context, question, answer string) (*interview.Evaluation, error) {
	template, err := prompts.Get(promptFile, "evaluate_answer")
	if err != nil {
		return nil, err
	}

	prompt := prompts.Format(template, map[string]string{
		"Question": question,
		"Answer":   answer,
	})

	raw, err := iv.client.GenerateJSON(ctx, prompt, iv.tier)
	if err != nil {
		return nil, err
	}
	return parseEvaluationResponse(raw)
}

func parseQuestionResponse(raw string) (string, error) {
	data := []byte(CleanJSONBlock(raw))
	if err := schemas.ValidateQuestionResponse(data); err != nil {
		return "", fmt.Errorf("malformed question response: %w", err)
	}

	var out struct {
		Question string `json:"question"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("failed to parse question response: %w", err)
	}
	return strings.TrimSpace(out.Question), nil
}

func parseEvaluationResponse(raw string) (*interview.Evaluation, error) {
	data := []byte(CleanJSONBlock(raw))
	if err := schemas.ValidateEvaluationResponse(data); err != nil {
		return nil, fmt.Errorf("malformed evaluation response: %w", err)
	}

	var out interview.Evaluation
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse evaluation response: %w", err)
	}
	return &out, nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
