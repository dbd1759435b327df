// Package errors provides the error taxonomy used by connectors and the
// executor, together with categorization and retry helpers.
//
// Kinds describe what went wrong (validation, network, evaluation, timeout).
// Categories describe how a caller should react (retry or not). The
// executor itself never retries; categories exist so that hosts and
// connectors that opt in can choose a policy.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies an error by its cause.
type Kind int

const (
	// KindUnknown is any error not produced by this taxonomy.
	KindUnknown Kind = iota

	// KindValidation marks missing or malformed configuration or input.
	KindValidation

	// KindNetwork marks transport failures and non-success HTTP statuses.
	KindNetwork

	// KindEvaluation marks expressions outside the supported grammar.
	KindEvaluation

	// KindTimeout marks operations that exceeded their deadline.
	KindTimeout
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindEvaluation:
		return "evaluation"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// KindOf reports the Kind of err by inspecting its chain.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return KindValidation
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return KindNetwork
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return KindEvaluation
	}

	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) || errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	return KindUnknown
}

// Category represents how an error should be handled.
type Category int

const (
	// CategoryTransient indicates retry will likely help.
	// Examples: rate limits, 5xx responses, refused connections.
	CategoryTransient Category = iota

	// CategoryPermanent indicates retry won't help.
	// Examples: missing URL, malformed expression, 404.
	CategoryPermanent
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTransient:
		return "transient"
	case CategoryPermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// CategorizedError wraps an error with its category and context.
type CategorizedError struct {
	// Err is the underlying error.
	Err error

	// Category indicates how this error should be handled.
	Category Category

	// Retries is the number of attempts that have been made.
	Retries int

	// Context describes what operation was being attempted.
	Context string
}

// Error implements the error interface.
func (e *CategorizedError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s (category: %s, attempts: %d)",
			e.Context, e.Err, e.Category, e.Retries)
	}
	return fmt.Sprintf("%s (category: %s, attempts: %d)",
		e.Err, e.Category, e.Retries)
}

// Unwrap returns the underlying error.
func (e *CategorizedError) Unwrap() error {
	return e.Err
}

// Transient creates a transient error.
func Transient(err error, context string) *CategorizedError {
	return &CategorizedError{Err: err, Category: CategoryTransient, Context: context}
}

// Permanent creates a permanent error.
func Permanent(err error, context string) *CategorizedError {
	return &CategorizedError{Err: err, Category: CategoryPermanent, Context: context}
}

// Categorize determines how an error should be handled.
func Categorize(err error) Category {
	if err == nil {
		return CategoryPermanent
	}

	var catErr *CategorizedError
	if errors.As(err, &catErr) {
		return catErr.Category
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		switch {
		case netErr.StatusCode == 0:
			return CategoryTransient
		case netErr.StatusCode == 429:
			return CategoryTransient
		case netErr.StatusCode >= 500:
			return CategoryTransient
		default:
			return CategoryPermanent
		}
	}

	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return CategoryTransient
	}

	// Validation, evaluation and unknown errors are permanent (fail safe).
	return CategoryPermanent
}

// IsRetryable reports whether the error should be retried.
func IsRetryable(err error) bool {
	return Categorize(err) == CategoryTransient
}
