// Package history keeps finalized execution reports for later inspection.
//
// The executor never writes here; the host saves a report once Run
// returns:
//
//	report := executor.Run(ctx, wf)
//	if err := store.Save(report); err != nil {
//	    return err
//	}
package history

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft"
)

// Store persists execution reports.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a finalized report, replacing any report with the same
	// execution id.
	Save(report *circuitcraft.ExecutionResult) error

	// Get retrieves a report.
	// Returns ErrNotFound if the execution is unknown.
	Get(executionID string) (*circuitcraft.ExecutionResult, error)

	// List returns summaries newest first. An empty workflowID lists every
	// workflow; a limit of zero or less lists everything.
	List(workflowID string, limit int) ([]circuitcraft.Summary, error)

	// Delete removes a report.
	// Returns nil if the execution is unknown.
	Delete(executionID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for history operations.
var (
	// ErrNotFound indicates a report doesn't exist.
	ErrNotFound = errors.New("execution not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("history store closed")

	// ErrNotFinal indicates a report whose run has not finished.
	ErrNotFinal = errors.New("execution has not finished")
)

// encode checks that report can be stored and returns its summary and
// JSON form. Typed failures are not serialized; their messages are kept
// in Errors.
func encode(report *circuitcraft.ExecutionResult) (circuitcraft.Summary, []byte, error) {
	if report == nil || report.ExecutionID == "" {
		return circuitcraft.Summary{}, nil, errors.New("report has no execution id")
	}
	if !report.Status.Terminal() {
		return circuitcraft.Summary{}, nil, fmt.Errorf("%w: %s is %s", ErrNotFinal, report.ExecutionID, report.Status)
	}

	data, err := json.Marshal(report)
	if err != nil {
		return circuitcraft.Summary{}, nil, fmt.Errorf("encode report: %w", err)
	}

	sum := report.Summary()
	sum.StartTime = sum.StartTime.UTC()
	sum.EndTime = sum.EndTime.UTC()
	return sum, data, nil
}

func decode(data []byte) (*circuitcraft.ExecutionResult, error) {
	var report circuitcraft.ExecutionResult
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &report, nil
}
