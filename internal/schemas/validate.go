// Package schemas provides JSON Schema validation for the structured
// responses the LLM collaborators return. Schemas are embedded at compile
// time so validation never depends on the working directory.
package schemas

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	_ "embed"
)

//go:embed question_response.schema.json
var questionResponseSchema string

//go:embed evaluation_response.schema.json
var evaluationResponseSchema string

// ValidationError represents a schema validation failure with field paths.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

var (
	compileOnce sync.Once
	compileErr  error
	compiled    map[string]*gojsonschema.Schema
)

func compile() {
	compiled = make(map[string]*gojsonschema.Schema)
	for name, src := range map[string]string{
		"question_response":   questionResponseSchema,
		"evaluation_response": evaluationResponseSchema,
	} {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			compileErr = fmt.Errorf("failed to compile schema %s: %w", name, err)
			return
		}
		compiled[name] = schema
	}
}

func validate(schemaName string, data []byte) error {
	compileOnce.Do(compile)
	if compileErr != nil {
		return compileErr
	}

	result, err := compiled[schemaName].Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to validate against %s: %w", schemaName, err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, resultErr := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   resultErr.Field(),
			Message: resultErr.Description(),
		})
	}
	return ve
}

// ValidateQuestionResponse checks a question-generation response document.
func ValidateQuestionResponse(data []byte) error {
	return validate("question_response", data)
}

// ValidateEvaluationResponse checks an answer-evaluation response document.
func ValidateEvaluationResponse(data []byte) error {
	return validate("evaluation_response", data)
}
