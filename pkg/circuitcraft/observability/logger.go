// Package observability provides structured logging, metrics, and tracing
// for workflow runs.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"context"
	"log/slog"
	"time"

	ccerrors "github.com/randalmurphal/circuitcraft/pkg/circuitcraft/errors"
)

// EnrichLogger adds node context to a logger.
// Returns a new logger with execution_id, node_id, and node_type fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "exec-123", "3", "http-request")
//	enriched.Info("calling upstream") // includes execution_id, node_id, node_type
func EnrichLogger(logger *slog.Logger, executionID, nodeID, nodeType string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("execution_id", executionID),
		slog.String("node_id", nodeID),
		slog.String("node_type", nodeType),
	)
}

// LogRunStart logs the start of a workflow run.
func LogRunStart(logger *slog.Logger, executionID, workflowID string, nodeCount int) {
	if logger == nil {
		return
	}
	logger.Info("workflow run starting",
		slog.String("execution_id", executionID),
		slog.String("workflow_id", workflowID),
		slog.Int("nodes", nodeCount),
	)
}

// LogRunComplete logs successful workflow completion.
func LogRunComplete(logger *slog.Logger, executionID string, durationMs float64, executed, skipped int) {
	if logger == nil {
		return
	}
	logger.Info("workflow run completed",
		slog.String("execution_id", executionID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("nodes_executed", executed),
		slog.Int("nodes_skipped", skipped),
	)
}

// LogRunFailed logs a failed workflow run. lastNode is empty when the run
// failed before any node executed.
func LogRunFailed(logger *slog.Logger, executionID string, errorCount int, durationMs float64, lastNode string) {
	if logger == nil {
		return
	}
	logger.Error("workflow run failed",
		slog.String("execution_id", executionID),
		slog.Int("errors", errorCount),
		slog.Float64("duration_ms", durationMs),
		slog.String("last_node", lastNode),
	)
}

// LogNodeStart logs node execution start.
func LogNodeStart(logger *slog.Logger, nodeID, nodeType string) {
	if logger == nil {
		return
	}
	logger.Debug("node starting",
		slog.String("node_id", nodeID),
		slog.String("node_type", nodeType),
	)
}

// LogNodeComplete logs successful node completion.
func LogNodeComplete(logger *slog.Logger, nodeID string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("node completed",
		slog.String("node_id", nodeID),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogNodeError logs node execution error. Optional nodes log at Warn since
// the run continues past them.
func LogNodeError(logger *slog.Logger, nodeID string, err error, optional bool) {
	if logger == nil {
		return
	}
	level := slog.LevelError
	if optional {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, "node failed",
		slog.String("node_id", nodeID),
		slog.String("error", err.Error()),
		slog.String("kind", ccerrors.KindOf(err).String()),
		slog.Bool("optional", optional),
	)
}

// LogNodeSkipped logs a node placed in the skip set.
func LogNodeSkipped(logger *slog.Logger, nodeID, nodeType, reason string) {
	if logger == nil {
		return
	}
	logger.Info("node skipped",
		slog.String("node_id", nodeID),
		slog.String("node_type", nodeType),
		slog.String("reason", reason),
	)
}

// LogConnectionDropped logs a connection discarded because an endpoint
// does not exist.
func LogConnectionDropped(logger *slog.Logger, connectionID, sourceNode, targetNode string) {
	if logger == nil {
		return
	}
	logger.Warn("dropping connection with dangling endpoint",
		slog.String("connection_id", connectionID),
		slog.String("source_node", sourceNode),
		slog.String("target_node", targetNode),
	)
}

// LogEntrySkipped logs a malformed entry of an imported graph that was left out.
func LogEntrySkipped(logger *slog.Logger, entry string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("skipping malformed graph entry",
		slog.String("entry", entry),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
