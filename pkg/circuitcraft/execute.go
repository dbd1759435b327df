package circuitcraft

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	ccerrors "github.com/randalmurphal/circuitcraft/pkg/circuitcraft/errors"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/observability"
	"go.opentelemetry.io/otel/attribute"
)

// Executor runs workflows against a handler registry.
//
// An Executor holds no per-run state and can be shared between goroutines.
// Every run owns its own report and skip set.
type Executor struct {
	registry *Registry
}

// NewExecutor creates an executor dispatching through registry.
// A nil registry behaves as an empty one: every node runs PassThrough.
func NewExecutor(registry *Registry) *Executor {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Executor{registry: registry}
}

// Registry returns the handler registry.
func (e *Executor) Registry() *Registry {
	return e.registry
}

// Run compiles and executes the workflow. It always returns a finalized
// report; problems are reported in it rather than as a Go error.
//
// An invalid workflow (empty or duplicate node IDs, a cycle) yields a
// failed report with the message under Errors[WorkflowErrorKey] and no
// node executed.
//
// Example:
//
//	executor := circuitcraft.NewExecutor(connectors.NewRegistry())
//	report := executor.Run(ctx, wf, circuitcraft.WithTriggerData(payload))
//	if report.Status == circuitcraft.StatusFailed {
//	    // report.Errors holds per-node messages
//	}
func (e *Executor) Run(ctx context.Context, wf *Workflow, opts ...RunOption) *ExecutionResult {
	cfg := newRunConfig(opts)
	workflowID := ""
	if wf != nil {
		workflowID = wf.ID
	}
	report := newExecutionResult(cfg.executionID, workflowID)

	if err := validateRunArgs(ctx, wf != nil); err != nil {
		return abort(report, &cfg, err)
	}

	cw, err := wf.CompileWithLogger(cfg.logger)
	if err != nil {
		return abort(report, &cfg, err)
	}
	return e.run(ctx, cw, report, &cfg)
}

// RunCompiled executes an already compiled workflow.
// See Run for the reporting contract.
func (e *Executor) RunCompiled(ctx context.Context, cw *CompiledWorkflow, opts ...RunOption) *ExecutionResult {
	cfg := newRunConfig(opts)
	workflowID := ""
	if cw != nil {
		workflowID = cw.id
	}
	report := newExecutionResult(cfg.executionID, workflowID)

	if err := validateRunArgs(ctx, cw != nil); err != nil {
		return abort(report, &cfg, err)
	}
	return e.run(ctx, cw, report, &cfg)
}

func newRunConfig(opts []RunOption) runConfig {
	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.executionID == "" {
		cfg.executionID = uuid.New().String()
	}
	return cfg
}

func validateRunArgs(ctx context.Context, haveWorkflow bool) error {
	if ctx == nil {
		return ErrNilContext
	}
	if !haveWorkflow {
		return ErrNilWorkflow
	}
	return nil
}

// abort finalizes a report for a run that never reached its first node.
func abort(report *ExecutionResult, cfg *runConfig, err error) *ExecutionResult {
	report.recordFailure(WorkflowErrorKey, err)
	report.finish()
	observability.LogRunFailed(cfg.logger, report.ExecutionID, len(report.Errors), 0, "")
	return report
}

// run drives the scheduler order through the registry.
//
// Execution flow, per node in order:
//  1. Check for run cancellation
//  2. Skip the node if it was marked, an upstream node was skipped, or a
//     conditional upstream did not take the connecting branch
//  3. Aggregate its input and execute its handler
//  4. Record the result, or the failure; stop unless the node is optional
//  5. After a conditional node, mark the not-taken branch skipped
func (e *Executor) run(ctx context.Context, cw *CompiledWorkflow, report *ExecutionResult, cfg *runConfig) *ExecutionResult {
	report.Order = cw.Order()
	skipped := newSkipSet()
	elapsed := observability.TimedOperation()

	observability.LogRunStart(cfg.logger, report.ExecutionID, cw.id, len(cw.nodes))

	runCtx, runSpan := cfg.spans.StartRunSpan(ctx, cw.id, report.ExecutionID)
	base := &executionContext{
		Context:     runCtx,
		logger:      cfg.logger,
		executionID: report.ExecutionID,
		workflowID:  cw.id,
		triggerData: cfg.triggerData,
	}

	var fatal error
	lastNode := ""
	for _, id := range cw.order {
		node := cw.nodes[cw.index[id]]

		// Check for cancellation before executing node
		select {
		case <-ctx.Done():
			fatal = &CancellationError{NodeID: id, Cause: ctx.Err()}
			report.recordFailure(WorkflowErrorKey, fatal)
		default:
		}
		if fatal != nil {
			break
		}

		if skip, reason := e.skipReason(cw, id, report, skipped); skip {
			skipped.add(id)
			observability.LogNodeSkipped(cfg.logger, id, node.Type, reason)
			cfg.metrics.RecordNodeSkipped(runCtx, node.Type)
			cfg.spans.AddSpanEvent(runCtx, "node.skipped",
				attribute.String("node.id", id),
				attribute.String("reason", reason))
			continue
		}

		lastNode = id
		input := InputData(node, report.Results, cw.incoming[id])
		result, err := e.executeNode(ctx, base, node, input, cfg)
		if err != nil {
			var cancelErr *CancellationError
			if errors.As(err, &cancelErr) {
				fatal = cancelErr
				report.recordFailure(WorkflowErrorKey, cancelErr)
				break
			}
			report.recordNodeFailure(node, err)
			if IsOptional(node.Type) {
				continue
			}
			fatal = report.Failures[id]
			break
		}

		report.Results[id] = result
		if node.Type == TypeIfCondition {
			if taken, ok := branchOf(result); ok {
				markNotTaken(cw, id, taken, skipped)
			}
		}
	}

	report.Skipped = skipped.list()
	report.finish()

	duration := report.Duration()
	durationMs := elapsed()
	cfg.metrics.RecordWorkflowRun(runCtx, string(report.Status), duration)
	if fatal == nil && report.Status == StatusFailed {
		fatal = errors.New("one or more optional nodes failed")
	}
	cfg.spans.EndSpanWithError(runSpan, fatal)

	if report.Status == StatusFailed {
		observability.LogRunFailed(cfg.logger, report.ExecutionID, len(report.Errors), durationMs, lastNode)
	} else {
		observability.LogRunComplete(cfg.logger, report.ExecutionID, durationMs, len(report.Executed()), len(report.Skipped))
	}
	return report
}

// skipReason decides whether the node is excluded from execution.
func (e *Executor) skipReason(cw *CompiledWorkflow, id string, report *ExecutionResult, skipped *skipSet) (bool, string) {
	if skipped.has(id) {
		return true, "on a branch that was not taken"
	}
	return shouldSkip(cw.incoming[id], report.Results, skipped)
}

// executeNode runs one handler with tracing, metrics, logging, the
// optional per-node timeout and panic recovery.
func (e *Executor) executeNode(parent context.Context, base *executionContext, node Node, input any, cfg *runConfig) (any, error) {
	observability.LogNodeStart(cfg.logger, node.ID, node.Type)

	spanCtx, span := cfg.spans.StartNodeSpan(base.Context, node.ID, node.Type)
	nodeStart := time.Now()

	var result any
	var err error
	if cfg.nodeTimeout > 0 {
		result, err = e.invokeWithTimeout(parent, spanCtx, base, node, input, cfg.nodeTimeout)
	} else {
		result, err = invoke(base.withNode(spanCtx, node), e.registry.Resolve(node.Type), node, input)
		if err != nil && parent.Err() != nil {
			err = &CancellationError{NodeID: node.ID, Cause: parent.Err(), WasExecuting: true}
		}
	}

	nodeDuration := time.Since(nodeStart)
	cfg.metrics.RecordNodeExecution(spanCtx, node.Type, nodeDuration, err)
	cfg.spans.EndSpanWithError(span, err)

	if err != nil {
		observability.LogNodeError(cfg.logger, node.ID, err, IsOptional(node.Type))
		return nil, err
	}
	observability.LogNodeComplete(cfg.logger, node.ID, float64(nodeDuration.Microseconds())/1000)
	return result, nil
}

// invokeWithTimeout runs the handler on its own goroutine and stops
// waiting once the timeout expires. A handler that ignores its context
// keeps running in the background; its result is discarded.
func (e *Executor) invokeWithTimeout(parent, spanCtx context.Context, base *executionContext, node Node, input any, timeout time.Duration) (any, error) {
	timeoutCtx, cancel := context.WithTimeout(spanCtx, timeout)
	defer cancel()

	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)
	handler := e.registry.Resolve(node.Type)
	nodeCtx := base.withNode(timeoutCtx, node)
	go func() {
		v, err := invoke(nodeCtx, handler, node, input)
		done <- outcome{value: v, err: err}
	}()

	select {
	case out := <-done:
		if out.err == nil {
			return out.value, nil
		}
		return nil, attributeFailure(parent, timeoutCtx, node, timeout, out.err)
	case <-timeoutCtx.Done():
		return nil, attributeFailure(parent, timeoutCtx, node, timeout, timeoutCtx.Err())
	}
}

// attributeFailure decides whether a failed handler call was caused by run
// cancellation, by the node timeout, or by the handler itself.
func attributeFailure(parent, timeoutCtx context.Context, node Node, timeout time.Duration, err error) error {
	switch {
	case parent.Err() != nil:
		return &CancellationError{NodeID: node.ID, Cause: parent.Err(), WasExecuting: true}
	case errors.Is(timeoutCtx.Err(), context.DeadlineExceeded):
		return &ccerrors.TimeoutError{Operation: "node " + node.ID + " (" + node.Type + ")", Duration: timeout}
	default:
		return err
	}
}

// invoke calls the handler with panic recovery.
func invoke(ctx Context, h Handler, node Node, input any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &PanicError{
				NodeID: node.ID,
				Value:  r,
				Stack:  string(debug.Stack()),
			}
		}
	}()
	return h.Execute(ctx, node, input)
}
