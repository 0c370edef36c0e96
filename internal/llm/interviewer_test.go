package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestionResponse_Valid(t *testing.T) {
	question, err := parseQuestionResponse("```json\n{\"question\": \"How do you manage schema migrations safely?\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "How do you manage schema migrations safely?", question)
}

func TestParseQuestionResponse_Malformed(t *testing.T) {
	_, err := parseQuestionResponse(`{"text": "wrong shape"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed question response")
}

func TestParseEvaluationResponse_Valid(t *testing.T) {
	eval, err := parseEvaluationResponse(`{"score": 0.8, "explanation": "Solid answer.", "risk_flags": ["vague"]}`)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, eval.Score, 0.001)
	assert.Equal(t, "Solid answer.", eval.Explanation)
	assert.Equal(t, []string{"vague"}, eval.RiskFlags)
}

func TestParseEvaluationResponse_ScoreOutOfRange(t *testing.T) {
	_, err := parseEvaluationResponse(`{"score": 2.0, "explanation": "bad"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed evaluation response")
}

func TestParseEvaluationResponse_NotJSON(t *testing.T) {
	_, err := parseEvaluationResponse("I would give this a 7/10.")
	require.Error(t, err)
}
