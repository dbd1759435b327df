package circuitcraft

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Helper handlers

// tracker records the order in which nodes execute and the input each saw.
type tracker struct {
	mu     sync.Mutex
	order  []string
	inputs map[string]any
}

func newTracker() *tracker {
	return &tracker{inputs: make(map[string]any)}
}

func (tr *tracker) record(id string, input any) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.order = append(tr.order, id)
	tr.inputs[id] = input
}

func (tr *tracker) executed() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]string(nil), tr.order...)
}

// echo returns a handler that records its call and returns "out-{id}".
func (tr *tracker) echo() HandlerFunc {
	return func(_ Context, node Node, input any) (any, error) {
		tr.record(node.ID, input)
		return "out-" + node.ID, nil
	}
}

// branch returns a conditional handler resolving to config["pass"].
func (tr *tracker) branch() HandlerFunc {
	return func(_ Context, node Node, input any) (any, error) {
		tr.record(node.ID, input)
		pass, _ := node.Config["pass"].(bool)
		return NewConditionResult(pass, input, "pass"), nil
	}
}

// failing returns a handler that records its call and returns err.
func (tr *tracker) failing(err error) HandlerFunc {
	return func(_ Context, node Node, input any) (any, error) {
		tr.record(node.ID, input)
		return nil, err
	}
}

// trackingRegistry registers tr.echo for the given types, tr.branch for
// if-condition.
func trackingRegistry(tr *tracker, types ...string) *Registry {
	reg := NewRegistry()
	for _, t := range types {
		reg.Register(t, tr.echo())
	}
	reg.Register(TypeIfCondition, tr.branch())
	return reg
}

// node is shorthand for a node with no config.
func node(id, typ string) Node {
	return Node{ID: id, Type: typ}
}

// testCtx creates a simple test context.
func testCtx() context.Context {
	return context.Background()
}

// testLogHandler captures log records for testing.
type testLogHandler struct {
	mu    sync.Mutex
	buf   *bytes.Buffer
	level slog.Level
}

func newTestLogHandler() *testLogHandler {
	return &testLogHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testLogHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	h.mu.Lock()
	defer h.mu.Unlock()
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testLogHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *testLogHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *testLogHandler) getRecords() []map[string]any {
	h.mu.Lock()
	defer h.mu.Unlock()
	var records []map[string]any
	for _, line := range bytes.Split(h.buf.Bytes(), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(line, &m); err == nil {
			records = append(records, m)
		}
	}
	return records
}

// messages returns the msg of every record at level.
func (h *testLogHandler) messages(level string) []string {
	var out []string
	for _, r := range h.getRecords() {
		if r["level"] == level {
			out = append(out, r["msg"].(string))
		}
	}
	return out
}
