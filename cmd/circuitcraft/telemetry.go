package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/observability"
)

// telemetry owns the OpenTelemetry SDK providers of one CLI invocation.
// There is no collector to export to, so spans and metrics are written
// to the log.
type telemetry struct {
	logger *slog.Logger
	reader *sdkmetric.ManualReader
	meters *sdkmetric.MeterProvider
	traces *sdktrace.TracerProvider
}

func newTelemetry(s settings, logger *slog.Logger) *telemetry {
	t := &telemetry{logger: logger}

	if s.Metrics {
		t.reader = sdkmetric.NewManualReader()
		t.meters = sdkmetric.NewMeterProvider(sdkmetric.WithReader(t.reader))
	}
	if s.Tracing {
		t.traces = sdktrace.NewTracerProvider(sdktrace.WithSyncer(&logExporter{logger: logger}))
	}
	return t
}

// runOptions returns the executor options enabling the configured signals.
func (t *telemetry) runOptions() ([]circuitcraft.RunOption, error) {
	var opts []circuitcraft.RunOption
	if t.meters != nil {
		recorder, err := observability.NewMetricsRecorderWithProvider(t.meters)
		if err != nil {
			return nil, fmt.Errorf("create metrics recorder: %w", err)
		}
		opts = append(opts, circuitcraft.WithMetricsRecorder(recorder))
	}
	if t.traces != nil {
		opts = append(opts, circuitcraft.WithSpanManager(observability.NewSpanManagerWithProvider(t.traces)))
	}
	return opts, nil
}

// shutdown logs collected metrics and stops the providers.
func (t *telemetry) shutdown(ctx context.Context) error {
	var errs []error

	if t.meters != nil {
		var rm metricdata.ResourceMetrics
		if err := t.reader.Collect(ctx, &rm); err != nil {
			errs = append(errs, fmt.Errorf("collect metrics: %w", err))
		} else {
			t.logMetrics(rm)
		}
		errs = append(errs, t.meters.Shutdown(ctx))
	}
	if t.traces != nil {
		errs = append(errs, t.traces.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func (t *telemetry) logMetrics(rm metricdata.ResourceMetrics) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				var total int64
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
				t.logger.Info("metric", "name", m.Name, "value", total)
			case metricdata.Histogram[float64]:
				var count uint64
				var sum float64
				for _, dp := range data.DataPoints {
					count += dp.Count
					sum += dp.Sum
				}
				t.logger.Info("metric", "name", m.Name, "count", count, "sum", sum, "unit", m.Unit)
			}
		}
	}
}

// logExporter writes finished spans to the log.
type logExporter struct {
	logger *slog.Logger
}

func (e *logExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		attrs := []any{
			"name", span.Name(),
			"trace_id", span.SpanContext().TraceID().String(),
			"span_id", span.SpanContext().SpanID().String(),
			"duration_ms", float64(span.EndTime().Sub(span.StartTime()).Microseconds()) / 1000.0,
			"status", span.Status().Code.String(),
		}
		if parent := span.Parent(); parent.IsValid() {
			attrs = append(attrs, "parent_id", parent.SpanID().String())
		}
		e.logger.Info("span", attrs...)
	}
	return nil
}

func (e *logExporter) Shutdown(context.Context) error {
	return nil
}
