package circuitcraft

import "time"

// Status is the lifecycle state of a run.
type Status string

// Run states. Completed and failed are terminal.
const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transition can happen.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ExecutionResult is the report of one run.
//
// Results holds each executed node's output keyed by node ID. A failed
// node has no Results entry; its message is in Errors under its ID and
// also in Results under "{id}_error". Failures carries the typed errors
// behind the messages and is not serialized.
type ExecutionResult struct {
	ExecutionID string            `json:"executionId"`
	WorkflowID  string            `json:"workflowId,omitempty"`
	Status      Status            `json:"status"`
	StartTime   time.Time         `json:"startTime"`
	EndTime     time.Time         `json:"endTime"`
	Results     map[string]any    `json:"results"`
	Errors      map[string]string `json:"errors"`
	Skipped     []string          `json:"skipped"`
	Order       []string          `json:"order"`
	Failures    map[string]error  `json:"-"`
}

func newExecutionResult(executionID, workflowID string) *ExecutionResult {
	return &ExecutionResult{
		ExecutionID: executionID,
		WorkflowID:  workflowID,
		Status:      StatusRunning,
		StartTime:   time.Now(),
		Results:     make(map[string]any),
		Errors:      make(map[string]string),
		Skipped:     []string{},
		Order:       []string{},
		Failures:    make(map[string]error),
	}
}

// recordFailure stores err for key and marks the run failed.
func (r *ExecutionResult) recordFailure(key string, err error) {
	r.Errors[key] = err.Error()
	r.Failures[key] = err
	r.Status = StatusFailed
}

// recordNodeFailure stores a handler failure. The message is the
// handler's own; the typed failure keeps the node context.
func (r *ExecutionResult) recordNodeFailure(node Node, err error) {
	msg := err.Error()
	r.Errors[node.ID] = msg
	r.Results[node.ID+"_error"] = msg
	r.Failures[node.ID] = &NodeError{NodeID: node.ID, NodeType: node.Type, Op: "execute", Err: err}
	r.Status = StatusFailed
}

// finish freezes the status and sets EndTime.
func (r *ExecutionResult) finish() {
	if r.Status == StatusRunning {
		r.Status = StatusCompleted
	}
	r.EndTime = time.Now()
}

// Duration returns the wall time of the run, or zero while running.
func (r *ExecutionResult) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}

// IsSkipped reports whether the node was skipped.
func (r *ExecutionResult) IsSkipped(nodeID string) bool {
	for _, id := range r.Skipped {
		if id == nodeID {
			return true
		}
	}
	return false
}

// Executed returns the nodes that produced a result, in execution order.
func (r *ExecutionResult) Executed() []string {
	var out []string
	for _, id := range r.Order {
		if _, ok := r.Results[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Summary is the condensed form of a report kept in execution history.
type Summary struct {
	ExecutionID  string    `json:"executionId"`
	WorkflowID   string    `json:"workflowId,omitempty"`
	Status       Status    `json:"status"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	DurationMs   int64     `json:"durationMs"`
	NodeCount    int       `json:"nodeCount"`
	SkippedCount int       `json:"skippedCount"`
	ErrorCount   int       `json:"errorCount"`
}

// Summary condenses the report.
func (r *ExecutionResult) Summary() Summary {
	return Summary{
		ExecutionID:  r.ExecutionID,
		WorkflowID:   r.WorkflowID,
		Status:       r.Status,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		DurationMs:   r.Duration().Milliseconds(),
		NodeCount:    len(r.Order),
		SkippedCount: len(r.Skipped),
		ErrorCount:   len(r.Errors),
	}
}

// ConditionResult is the output of an if-condition node. The executor
// reads Result to decide which outgoing branch is followed.
type ConditionResult struct {
	Result             bool   `json:"result"`
	Data               any    `json:"data"`
	ConditionEvaluated string `json:"conditionEvaluated"`
	ExecutionPath      string `json:"executionPath"`
}

// NewConditionResult builds the result for a condition that resolved to result.
func NewConditionResult(result bool, data any, condition string) ConditionResult {
	path := "false"
	if result {
		path = "true"
	}
	return ConditionResult{
		Result:             result,
		Data:               data,
		ConditionEvaluated: condition,
		ExecutionPath:      path,
	}
}
