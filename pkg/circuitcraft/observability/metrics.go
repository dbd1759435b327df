package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records workflow metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordNodeExecution records a node execution with its duration and error status.
	RecordNodeExecution(ctx context.Context, nodeType string, duration time.Duration, err error)

	// RecordNodeSkipped records a node placed in the skip set.
	RecordNodeSkipped(ctx context.Context, nodeType string)

	// RecordWorkflowRun records a finalized run.
	RecordWorkflowRun(ctx context.Context, status string, duration time.Duration)
}

const meterName = "circuitcraft"

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	nodeExecutions metric.Int64Counter
	nodeLatency    metric.Float64Histogram
	nodeErrors     metric.Int64Counter
	nodeSkips      metric.Int64Counter
	runs           metric.Int64Counter
	runLatency     metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics(otel.GetMeterProvider())
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates the instruments on a meter from provider.
func newOtelMetrics(provider metric.MeterProvider) (*otelMetrics, error) {
	meter := provider.Meter(meterName)

	nodeExecutions, err := meter.Int64Counter("circuitcraft.node.executions",
		metric.WithDescription("Number of node executions"),
	)
	if err != nil {
		return nil, err
	}

	nodeLatency, err := meter.Float64Histogram("circuitcraft.node.latency_ms",
		metric.WithDescription("Node execution latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	nodeErrors, err := meter.Int64Counter("circuitcraft.node.errors",
		metric.WithDescription("Number of node execution errors"),
	)
	if err != nil {
		return nil, err
	}

	nodeSkips, err := meter.Int64Counter("circuitcraft.node.skipped",
		metric.WithDescription("Number of nodes skipped by conditional branching"),
	)
	if err != nil {
		return nil, err
	}

	runs, err := meter.Int64Counter("circuitcraft.workflow.runs",
		metric.WithDescription("Number of workflow runs"),
	)
	if err != nil {
		return nil, err
	}

	runLatency, err := meter.Float64Histogram("circuitcraft.workflow.latency_ms",
		metric.WithDescription("Workflow run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		nodeExecutions: nodeExecutions,
		nodeLatency:    nodeLatency,
		nodeErrors:     nodeErrors,
		nodeSkips:      nodeSkips,
		runs:           runs,
		runLatency:     runLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// NewMetricsRecorderWithProvider returns a MetricsRecorder bound to provider
// instead of the global one.
func NewMetricsRecorderWithProvider(provider metric.MeterProvider) (MetricsRecorder, error) {
	return newOtelMetrics(provider)
}

// RecordNodeExecution records a node execution.
func (m *otelMetrics) RecordNodeExecution(ctx context.Context, nodeType string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("node_type", nodeType))

	m.nodeExecutions.Add(ctx, 1, attrs)
	m.nodeLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)

	if err != nil {
		m.nodeErrors.Add(ctx, 1, attrs)
	}
}

// RecordNodeSkipped records a skipped node.
func (m *otelMetrics) RecordNodeSkipped(ctx context.Context, nodeType string) {
	m.nodeSkips.Add(ctx, 1, metric.WithAttributes(attribute.String("node_type", nodeType)))
}

// RecordWorkflowRun records a workflow run.
func (m *otelMetrics) RecordWorkflowRun(ctx context.Context, status string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.runs.Add(ctx, 1, attrs)
	m.runLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}
