package circuitcraft

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/observability"
)

// runConfig holds configuration for workflow execution.
type runConfig struct {
	logger      *slog.Logger
	executionID string
	triggerData any
	nodeTimeout time.Duration

	metricsEnabled bool
	metrics        observability.MetricsRecorder
	tracingEnabled bool
	spans          observability.SpanManager
}

// defaultRunConfig returns the default execution configuration.
func defaultRunConfig() runConfig {
	return runConfig{
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// RunOption configures execution behavior.
type RunOption func(*runConfig)

// WithLogger sets the logger for the run.
// Default: slog.Default()
//
// Handlers see it through Context.Logger(), enriched with execution_id,
// node_id and node_type.
func WithLogger(logger *slog.Logger) RunOption {
	return func(c *runConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithExecutionID sets the run identifier.
// Default: a random UUID.
func WithExecutionID(id string) RunOption {
	return func(c *runConfig) {
		c.executionID = id
	}
}

// WithTriggerData sets the payload trigger nodes emit.
//
// Example:
//
//	report := executor.Run(ctx, wf, circuitcraft.WithTriggerData(map[string]any{"age": 20}))
func WithTriggerData(data any) RunOption {
	return func(c *runConfig) {
		c.triggerData = data
	}
}

// WithNodeTimeout bounds each handler invocation.
// Default: 0 (no bound beyond the handler's own).
//
// A handler still running when the bound expires is recorded as a
// TimeoutError for its node.
func WithNodeTimeout(d time.Duration) RunOption {
	return func(c *runConfig) {
		if d > 0 {
			c.nodeTimeout = d
		}
	}
}

// WithMetrics enables OpenTelemetry metrics recorded against the global
// meter provider.
// Default: false
func WithMetrics(enabled bool) RunOption {
	return func(c *runConfig) {
		c.metricsEnabled = enabled
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder enables metrics using the given recorder.
func WithMetricsRecorder(recorder observability.MetricsRecorder) RunOption {
	return func(c *runConfig) {
		if recorder != nil {
			c.metricsEnabled = true
			c.metrics = recorder
		}
	}
}

// WithTracing enables OpenTelemetry spans created from the global tracer
// provider: one span per run and a child span per executed node.
// Default: false
func WithTracing(enabled bool) RunOption {
	return func(c *runConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithSpanManager enables tracing using the given span manager.
func WithSpanManager(spans observability.SpanManager) RunOption {
	return func(c *runConfig) {
		if spans != nil {
			c.tracingEnabled = true
			c.spans = spans
		}
	}
}
