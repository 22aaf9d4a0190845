// Package validation checks candidate resume documents against the required
// schema and estimates their rendered length.
package validation

import "fmt"

// ValidationError describes a single field-level defect in a candidate
// document. Defects are produced fresh on every pass and never persisted.
type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

func (e ValidationError) String() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Issue)
}

// SchemaError represents a failure to compile or evaluate the embedded
// document schema. This indicates a programming error, not bad model output.
type SchemaError struct {
	Message string
	Cause   error
}

func (e *SchemaError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schema error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("schema error: %s", e.Message)
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}
