package connectors

import (
	"errors"
	"fmt"

	ccerrors "github.com/randalmurphal/circuitcraft/pkg/circuitcraft/errors"
)

// Error is a handler failure as reported to the user: a short
// connector-specific prefix followed by the cause. The typed cause stays
// reachable with errors.As.
type Error struct {
	// Prefix names the failing connector, e.g. "Display error".
	// Empty when the cause speaks for itself.
	Prefix string
	// Err is the typed cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := describe(e.Err)
	if e.Prefix == "" {
		return msg
	}
	return e.Prefix + ": " + msg
}

// Unwrap returns the typed cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func fail(prefix string, err error) error {
	return &Error{Prefix: prefix, Err: err}
}

// invalid is shorthand for a prefixed ValidationError.
func invalid(prefix, field, format string, args ...any) error {
	return fail(prefix, ccerrors.Validation(field, format, args...))
}

// describe renders the user-facing message of a typed cause.
func describe(err error) string {
	var valErr *ccerrors.ValidationError
	if errors.As(err, &valErr) {
		return valErr.Message
	}

	var netErr *ccerrors.NetworkError
	if errors.As(err, &netErr) {
		switch {
		case netErr.StatusCode == 0:
			return "Network error: " + netErr.Message
		case netErr.Status != "":
			return fmt.Sprintf("HTTP %d %s: %s", netErr.StatusCode, netErr.Status, netErr.Message)
		default:
			return netErr.Message
		}
	}

	var evalErr *ccerrors.EvaluationError
	if errors.As(err, &evalErr) {
		return evalErr.Message
	}

	if err == nil {
		return "Unknown error"
	}
	return err.Error()
}
