package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest creates a recorder on a private meter provider backed by a manual reader.
func setupMetricsTest(t *testing.T) (MetricsRecorder, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	})

	recorder, err := NewMetricsRecorderWithProvider(provider)
	require.NoError(t, err)
	return recorder, reader
}

// collectMetrics collects all metrics from the reader.
func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return &rm
}

// findMetric finds a metric by name in the collected data.
func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumFor returns the counter value for the data point carrying attr.
func sumFor(t *testing.T, m *metricdata.Metrics, attr attribute.KeyValue) int64 {
	t.Helper()
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "Expected Sum type")
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attr.Key); ok && v.Emit() == attr.Value.Emit() {
			return dp.Value
		}
	}
	return 0
}

func TestNewMetricsRecorder(t *testing.T) {
	original := otel.GetMeterProvider()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	otel.SetMeterProvider(provider)
	defer func() {
		otel.SetMeterProvider(original)
		_ = provider.Shutdown(context.Background())
	}()

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)
	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop, "Expected real metrics recorder, got noop")
}

func TestRecordNodeExecution(t *testing.T) {
	recorder, reader := setupMetricsTest(t)
	ctx := context.Background()

	recorder.RecordNodeExecution(ctx, "http-request", 20*time.Millisecond, nil)
	recorder.RecordNodeExecution(ctx, "http-request", 30*time.Millisecond, errors.New("HTTP 500"))
	recorder.RecordNodeExecution(ctx, "transform", time.Millisecond, nil)

	rm := collectMetrics(t, reader)
	httpAttr := attribute.String("node_type", "http-request")

	assert.Equal(t, int64(2), sumFor(t, findMetric(rm, "circuitcraft.node.executions"), httpAttr))
	assert.Equal(t, int64(1), sumFor(t, findMetric(rm, "circuitcraft.node.executions"), attribute.String("node_type", "transform")))
	assert.Equal(t, int64(1), sumFor(t, findMetric(rm, "circuitcraft.node.errors"), httpAttr))

	latency := findMetric(rm, "circuitcraft.node.latency_ms")
	require.NotNil(t, latency)
	hist, ok := latency.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "Expected Histogram type")
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)
}

func TestRecordNodeSkipped(t *testing.T) {
	recorder, reader := setupMetricsTest(t)

	recorder.RecordNodeSkipped(context.Background(), "email")
	recorder.RecordNodeSkipped(context.Background(), "email")

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(2), sumFor(t, findMetric(rm, "circuitcraft.node.skipped"), attribute.String("node_type", "email")))
}

func TestRecordWorkflowRun(t *testing.T) {
	recorder, reader := setupMetricsTest(t)

	recorder.RecordWorkflowRun(context.Background(), "completed", 100*time.Millisecond)
	recorder.RecordWorkflowRun(context.Background(), "failed", 50*time.Millisecond)
	recorder.RecordWorkflowRun(context.Background(), "completed", 10*time.Millisecond)

	rm := collectMetrics(t, reader)
	runs := findMetric(rm, "circuitcraft.workflow.runs")
	assert.Equal(t, int64(2), sumFor(t, runs, attribute.String("status", "completed")))
	assert.Equal(t, int64(1), sumFor(t, runs, attribute.String("status", "failed")))
	assert.NotNil(t, findMetric(rm, "circuitcraft.workflow.latency_ms"))
}
