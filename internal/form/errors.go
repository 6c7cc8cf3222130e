// internal/form/errors.go
//
// Folio – Forms subsystem: error kinds.
//
// Context
//   Submit fails in exactly two ways.  A ValidationError means the user
//   must correct input; a SubmissionError means the external submit
//   function rejected valid data.  Both are recoverable, and callers tell
//   them apart with errors.As through the Is* helpers below.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a form ID is not registered.
var ErrNotFound = errors.New("form not found")

// ErrorField describes a single validation failure so the host can render a
// field-level message.
type ErrorField struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ValidationError lists the fields that failed one validation pass.
type ValidationError struct{ Fields []ErrorField }

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("form validation failed: %d field(s)", len(ve.Fields))
}

// SubmissionError wraps the error returned by a SubmitFunc.
type SubmissionError struct{ Err error }

func (se *SubmissionError) Error() string { return "form submission failed: " + se.Err.Error() }

func (se *SubmissionError) Unwrap() error { return se.Err }

// IsValidationError reports whether err came from a failed validation pass.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsSubmissionError reports whether err came from a rejected submission.
func IsSubmissionError(err error) bool {
	var se *SubmissionError
	return errors.As(err, &se)
}
