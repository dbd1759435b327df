package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	ccerrors "github.com/randalmurphal/circuitcraft/pkg/circuitcraft/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newJSONLogger returns a debug-level JSON logger and its output buffer.
func newJSONLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	handler := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), buf
}

// records decodes every JSON log line in buf.
func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestEnrichLogger(t *testing.T) {
	logger, buf := newJSONLogger()

	enriched := EnrichLogger(logger, "exec-1", "3", "http-request")
	enriched.Info("calling upstream")

	recs := records(t, buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "exec-1", recs[0]["execution_id"])
	assert.Equal(t, "3", recs[0]["node_id"])
	assert.Equal(t, "http-request", recs[0]["node_type"])

	assert.Nil(t, EnrichLogger(nil, "a", "b", "c"))
}

func TestLogHelpers(t *testing.T) {
	logger, buf := newJSONLogger()

	LogRunStart(logger, "exec-1", "wf-1", 4)
	LogNodeStart(logger, "1", "webhook")
	LogNodeComplete(logger, "1", 1.5)
	LogNodeSkipped(logger, "4", "email", "conditional path not taken")
	LogNodeError(logger, "3", errors.New("boom"), true)
	LogNodeError(logger, "2", fmt.Errorf("call: %w", ccerrors.Validation("url", "URL is required")), false)
	LogConnectionDropped(logger, "1_9_output_1_input_1", "1", "9")
	LogRunComplete(logger, "exec-1", 12.5, 3, 1)
	LogRunFailed(logger, "exec-1", 2, 20, "2")

	recs := records(t, buf)
	require.Len(t, recs, 9)

	tests := []struct {
		idx   int
		msg   string
		level string
	}{
		{0, "workflow run starting", "INFO"},
		{1, "node starting", "DEBUG"},
		{2, "node completed", "DEBUG"},
		{3, "node skipped", "INFO"},
		{4, "node failed", "WARN"},
		{5, "node failed", "ERROR"},
		{6, "dropping connection with dangling endpoint", "WARN"},
		{7, "workflow run completed", "INFO"},
		{8, "workflow run failed", "ERROR"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.msg, recs[tt.idx]["msg"], "record %d", tt.idx)
		assert.Equal(t, tt.level, recs[tt.idx]["level"], "record %d", tt.idx)
	}

	assert.Equal(t, "wf-1", recs[0]["workflow_id"])
	assert.Equal(t, "conditional path not taken", recs[3]["reason"])
	assert.Equal(t, true, recs[4]["optional"])
	assert.Equal(t, "unknown", recs[4]["kind"])
	assert.Contains(t, recs[5]["error"], "URL is required")
	assert.Equal(t, "validation", recs[5]["kind"])
	assert.Equal(t, "9", recs[6]["target_node"])
	assert.Equal(t, float64(1), recs[7]["nodes_skipped"])
	assert.Equal(t, "2", recs[8]["last_node"])
}

func TestLogHelpers_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		LogRunStart(nil, "e", "w", 0)
		LogRunComplete(nil, "e", 0, 0, 0)
		LogRunFailed(nil, "e", 0, 0, "")
		LogNodeStart(nil, "n", "t")
		LogNodeComplete(nil, "n", 0)
		LogNodeError(nil, "n", errors.New("x"), false)
		LogNodeSkipped(nil, "n", "t", "r")
		LogConnectionDropped(nil, "c", "s", "t")
		LogEntrySkipped(nil, "node \"1\"", errors.New("x"))
	})
}

func TestLogEntrySkipped(t *testing.T) {
	logger, buf := newJSONLogger()

	LogEntrySkipped(logger, `node "2" output "output_1" link 0`, errors.New("missing node reference"))

	recs := records(t, buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "WARN", recs[0]["level"])
	assert.Equal(t, "skipping malformed graph entry", recs[0]["msg"])
	assert.Equal(t, `node "2" output "output_1" link 0`, recs[0]["entry"])
	assert.Equal(t, "missing node reference", recs[0]["error"])
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, done(), 5.0)
}
