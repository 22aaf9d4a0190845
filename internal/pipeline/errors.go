// Package pipeline orchestrates the generate, correct, and condense passes
// that turn raw model output into a schema-conformant one-page resume.
package pipeline

import "fmt"

// Stage names for generation failures.
const (
	StagePrimary    = "primary"
	StageCorrection = "correction"
	StageCondensing = "condensing"
)

// InputError indicates a required input was missing. The pipeline never
// starts when this is returned.
type InputError struct {
	Field string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("missing required input: %s", e.Field)
}

// CredentialError indicates a missing or invalid model credential. Surfaced
// distinctly from generic generation failure so callers can prompt for a key.
type CredentialError struct {
	Cause error
}

func (e *CredentialError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid or missing model credential: %v", e.Cause)
	}
	return "invalid or missing model credential"
}

func (e *CredentialError) Unwrap() error {
	return e.Cause
}

// GenerationError indicates a model call failed or returned output that
// could not be parsed. Terminal for the primary stage; the correction and
// condensing stages downgrade it to a recoverable event internally, so a
// GenerationError for those stages only escapes on cancellation.
type GenerationError struct {
	Stage   string
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s generation failed: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s generation failed: %s", e.Stage, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
