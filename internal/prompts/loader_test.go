package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("interview.json", "generate_question")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "screening question")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("interview.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	template := "Role: {{.RoleName}} at level {{.RoleLevel}}"
	data := map[string]string{
		"RoleName":  "backend engineer",
		"RoleLevel": "senior",
	}

	result := Format(template, data)
	assert.Equal(t, "Role: backend engineer at level senior", result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Question: {{.Question}}"

	result := Format(template, map[string]string{})
	assert.Equal(t, template, result) // Placeholder remains
}

func TestEvaluateAnswerPromptRequestsJSON(t *testing.T) {
	ClearCache()

	prompt := MustGet("interview.json", "evaluate_answer")
	assert.Contains(t, prompt, "risk_flags")
	assert.Contains(t, prompt, "{{.Question}}")
	assert.Contains(t, prompt, "{{.Answer}}")
}
