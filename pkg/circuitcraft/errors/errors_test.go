package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{"nil error", nil, KindUnknown},
		{"validation", &ValidationError{Field: "url", Message: "is required"}, KindValidation},
		{"wrapped validation", fmt.Errorf("http: %w", &ValidationError{Message: "bad"}), KindValidation},
		{"network status", &NetworkError{StatusCode: 502}, KindNetwork},
		{"network transport", &NetworkError{Message: "refused", Err: errors.New("dial")}, KindNetwork},
		{"evaluation", &EvaluationError{Expression: "a ~ b", Message: "unsupported"}, KindEvaluation},
		{"timeout", &TimeoutError{Operation: "node", Duration: time.Second}, KindTimeout},
		{"deadline exceeded", fmt.Errorf("wait: %w", context.DeadlineExceeded), KindTimeout},
		{"plain", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.expected {
				t.Errorf("KindOf() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindValidation, "validation"},
		{KindNetwork, "network"},
		{KindEvaluation, "evaluation"},
		{KindTimeout, "timeout"},
		{KindUnknown, "unknown"},
		{Kind(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("Kind(%d).String() = %s, want %s", tt.kind, got, tt.expected)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Category
	}{
		{"nil error", nil, CategoryPermanent},
		{"transport failure", &NetworkError{Message: "could not connect"}, CategoryTransient},
		{"HTTP 429", &NetworkError{StatusCode: 429}, CategoryTransient},
		{"HTTP 503", &NetworkError{StatusCode: 503}, CategoryTransient},
		{"HTTP 500", &NetworkError{StatusCode: 500}, CategoryTransient},
		{"HTTP 404", &NetworkError{StatusCode: 404}, CategoryPermanent},
		{"HTTP 401", &NetworkError{StatusCode: 401}, CategoryPermanent},
		{"validation", &ValidationError{Message: "missing"}, CategoryPermanent},
		{"evaluation", &EvaluationError{Message: "unsupported"}, CategoryPermanent},
		{"timeout", &TimeoutError{Operation: "call"}, CategoryTransient},
		{"categorized", Transient(errors.New("x"), "ctx"), CategoryTransient},
		{"unknown", errors.New("unknown"), CategoryPermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.err); got != tt.expected {
				t.Errorf("Categorize() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"validation with field", &ValidationError{Field: "url", Message: "URL is required"}, "validation error on url: URL is required"},
		{"validation without field", &ValidationError{Message: "bad"}, "validation error: bad"},
		{"network status with endpoint", &NetworkError{StatusCode: 404, Endpoint: "http://x", Message: "Not Found"}, "HTTP 404 at http://x: Not Found"},
		{"network status", &NetworkError{StatusCode: 500, Message: "oops"}, "HTTP 500: oops"},
		{"network transport", &NetworkError{Message: "could not connect", Err: errors.New("refused")}, "network error: could not connect: refused"},
		{"evaluation", &EvaluationError{Expression: "x", Message: "bad"}, `evaluation error in "x": bad`},
		{"timeout", &TimeoutError{Operation: "node a", Duration: 2 * time.Second}, "timeout after 2s: node a"},
		{"permanent with context", Permanent(errors.New("failed"), "api call"), "api call: failed (category: permanent, attempts: 0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestValidationConstructor(t *testing.T) {
	err := Validation("delay", "must be at most %d", 300000)
	if err.Field != "delay" || err.Message != "must be at most 300000" {
		t.Errorf("Validation() = %+v", err)
	}
}

func TestNetworkErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &NetworkError{Message: "could not connect", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("expected NetworkError to unwrap to its cause")
	}
}

func TestWithRetryContext(t *testing.T) {
	fast := RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond, BackoffFactor: 2}

	t.Run("success on first attempt", func(t *testing.T) {
		result := WithRetryContext(context.Background(), fast, func(context.Context) (int, error) {
			return 7, nil
		})
		if result.Err != nil || result.Value != 7 || result.Attempts != 1 {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("retries transient errors", func(t *testing.T) {
		calls := 0
		result := WithRetryContext(context.Background(), fast, func(context.Context) (string, error) {
			calls++
			if calls < 3 {
				return "", &NetworkError{StatusCode: 503}
			}
			return "ok", nil
		})
		if result.Err != nil || result.Value != "ok" || result.Attempts != 3 {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("stops on permanent errors", func(t *testing.T) {
		calls := 0
		result := WithRetryContext(context.Background(), fast, func(context.Context) (string, error) {
			calls++
			return "", &NetworkError{StatusCode: 404}
		})
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
		var netErr *NetworkError
		if !errors.As(result.Err, &netErr) || netErr.StatusCode != 404 {
			t.Errorf("expected wrapped NetworkError, got %v", result.Err)
		}
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		result := WithRetryContext(context.Background(), fast, func(context.Context) (string, error) {
			return "", &NetworkError{Message: "down"}
		})
		if result.Attempts != 3 {
			t.Errorf("attempts = %d, want 3", result.Attempts)
		}
		var catErr *CategorizedError
		if !errors.As(result.Err, &catErr) || catErr.Context != "max retries exceeded" {
			t.Errorf("expected max retries error, got %v", result.Err)
		}
	})

	t.Run("respects cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		result := WithRetryContext(ctx, fast, func(context.Context) (string, error) {
			t.Fatal("fn must not run on a cancelled context")
			return "", nil
		})
		if result.Attempts != 0 || !errors.Is(result.Err, context.Canceled) {
			t.Errorf("unexpected result: %+v", result)
		}
	})
}
