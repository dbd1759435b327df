package circuitcraft

import (
	"errors"
	"fmt"
	"strings"

	ccerrors "github.com/randalmurphal/circuitcraft/pkg/circuitcraft/errors"
)

// WorkflowErrorKey is the reserved key in ExecutionResult.Errors for
// failures that belong to the run rather than to a node.
const WorkflowErrorKey = "workflow"

// Sentinel errors for compilation.
var (
	// ErrEmptyNodeID indicates a node without an identifier.
	ErrEmptyNodeID = errors.New("node ID cannot be empty")

	// ErrDuplicateNode indicates two nodes share an identifier.
	ErrDuplicateNode = errors.New("duplicate node ID")

	// ErrCycle indicates the connections form a cycle.
	ErrCycle = errors.New("workflow contains a cycle")
)

// Sentinel errors for execution.
var (
	// ErrNilContext indicates Run() was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrNilWorkflow indicates Run() was called without a workflow.
	ErrNilWorkflow = errors.New("workflow cannot be nil")
)

// CycleError names the nodes forming a cycle, in traversal order with the
// first node repeated at the end. It matches both ErrCycle and
// *errors.ValidationError.
type CycleError struct {
	Nodes []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCycle, strings.Join(e.Nodes, " -> "))
}

// Unwrap exposes ErrCycle and a ValidationError on the connections.
func (e *CycleError) Unwrap() []error {
	return []error{
		ErrCycle,
		ccerrors.Validation("connections", "cycle through nodes %s", strings.Join(e.Nodes, " -> ")),
	}
}

// NodeError wraps an error with node context.
// It provides information about which node failed and what operation was attempted.
type NodeError struct {
	// NodeID is the identifier of the node that failed.
	NodeID string
	// NodeType is the type of the node that failed.
	NodeType string
	// Op is the operation that failed (e.g., "execute").
	Op string
	// Err is the underlying error from the handler.
	Err error
}

// Error implements the error interface.
func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s (%s): %s: %v", e.NodeID, e.NodeType, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *NodeError) Unwrap() error {
	return e.Err
}

// PanicError captures panic information from handler execution.
// It includes the stack trace for debugging.
type PanicError struct {
	// NodeID is the identifier of the node that panicked.
	NodeID string
	// Value is the value passed to panic().
	Value any
	// Stack is the full stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("node %s panicked: %v", e.NodeID, e.Value)
}

// CancellationError records that the run's context ended before the run did.
type CancellationError struct {
	// NodeID is the node that was about to execute or was executing.
	NodeID string
	// Cause is the underlying cancellation cause (context.Canceled or context.DeadlineExceeded).
	Cause error
	// WasExecuting is true if cancellation occurred during node execution.
	WasExecuting bool
}

// Error implements the error interface.
func (e *CancellationError) Error() string {
	if e.WasExecuting {
		return fmt.Sprintf("cancelled during node %s: %v", e.NodeID, e.Cause)
	}
	return fmt.Sprintf("cancelled before node %s: %v", e.NodeID, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CancellationError) Unwrap() error {
	return e.Cause
}
