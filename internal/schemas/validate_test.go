package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateQuestionResponse_Valid(t *testing.T) {
	data := []byte(`{"question": "Describe how you would debug a memory leak in a long-running service."}`)
	assert.NoError(t, ValidateQuestionResponse(data))
}

func TestValidateQuestionResponse_MissingQuestion(t *testing.T) {
	err := ValidateQuestionResponse([]byte(`{}`))
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateEvaluationResponse_Valid(t *testing.T) {
	data := []byte(`{"score": 0.75, "explanation": "Covers the main points.", "risk_flags": []}`)
	assert.NoError(t, ValidateEvaluationResponse(data))
}

func TestValidateEvaluationResponse_ScoreOutOfRange(t *testing.T) {
	err := ValidateEvaluationResponse([]byte(`{"score": 1.5, "explanation": "too generous"}`))
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateEvaluationResponse_WrongType(t *testing.T) {
	err := ValidateEvaluationResponse([]byte(`{"score": "high", "explanation": "typed wrong"}`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}
