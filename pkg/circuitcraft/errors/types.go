package errors

import (
	"fmt"
	"time"
)

// ValidationError indicates a node's configuration or input is unusable:
// a missing required field, malformed headers or body, an out-of-range bound.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Validation creates a ValidationError for field.
func Validation(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NetworkError represents a transport failure (StatusCode 0) or a
// non-success HTTP response.
type NetworkError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Endpoint != "":
		return fmt.Sprintf("HTTP %d at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("network error: %s: %v", e.Message, e.Err)
	default:
		return fmt.Sprintf("network error: %s", e.Message)
	}
}

// Unwrap returns the underlying transport error, if any.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// EvaluationError indicates a condition or computed expression that is
// outside the supported grammar or failed to evaluate.
type EvaluationError struct {
	Expression string
	Message    string
}

// Error implements the error interface.
func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation error in %q: %s", e.Expression, e.Message)
}

// TimeoutError indicates an operation exceeded its time budget.
type TimeoutError struct {
	Operation string
	Duration  time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout after %s: %s", e.Duration, e.Operation)
}
