package circuitcraft

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/observability"
)

// Context provides execution context to handlers.
// It extends context.Context with run metadata and an enriched logger.
//
// Context is immutable after creation. The executor creates a derived
// context for each node with the node ID set and the logger enriched.
type Context interface {
	context.Context

	// Logger returns the configured logger, enriched with run and node context.
	// Never returns nil - defaults to slog.Default() if not configured.
	Logger() *slog.Logger

	// ExecutionID returns the unique identifier for this run.
	ExecutionID() string

	// WorkflowID returns the identifier of the workflow being run.
	WorkflowID() string

	// NodeID returns the node being executed.
	// Empty string outside node execution.
	NodeID() string

	// TriggerData returns the payload the run was started with, or nil.
	TriggerData() any
}

// executionContext is the internal implementation of Context.
type executionContext struct {
	context.Context

	logger      *slog.Logger
	executionID string
	workflowID  string
	nodeID      string
	triggerData any
}

// Logger returns the configured logger.
func (c *executionContext) Logger() *slog.Logger {
	return c.logger
}

// ExecutionID returns the run identifier.
func (c *executionContext) ExecutionID() string {
	return c.executionID
}

// WorkflowID returns the workflow identifier.
func (c *executionContext) WorkflowID() string {
	return c.workflowID
}

// NodeID returns the current node identifier.
func (c *executionContext) NodeID() string {
	return c.nodeID
}

// TriggerData returns the run's trigger payload.
func (c *executionContext) TriggerData() any {
	return c.triggerData
}

// ContextOption configures a Context.
type ContextOption func(*executionContext)

// WithContextLogger sets the logger for the context.
func WithContextLogger(logger *slog.Logger) ContextOption {
	return func(c *executionContext) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithContextExecutionID sets the run identifier for the context.
// If not set, a UUID will be auto-generated.
func WithContextExecutionID(id string) ContextOption {
	return func(c *executionContext) {
		if id != "" {
			c.executionID = id
		}
	}
}

// WithContextWorkflowID sets the workflow identifier for the context.
func WithContextWorkflowID(id string) ContextOption {
	return func(c *executionContext) {
		c.workflowID = id
	}
}

// WithContextNodeID sets the node identifier for the context.
func WithContextNodeID(id string) ContextOption {
	return func(c *executionContext) {
		c.nodeID = id
	}
}

// WithContextTriggerData sets the trigger payload for the context.
func WithContextTriggerData(data any) ContextOption {
	return func(c *executionContext) {
		c.triggerData = data
	}
}

// NewContext creates an execution context from a standard context.
// Handlers receive one from the executor; tests and hosts that call a
// handler directly build their own with NewContext.
//
// Example:
//
//	ctx := circuitcraft.NewContext(context.Background(),
//	    circuitcraft.WithContextLogger(myLogger),
//	    circuitcraft.WithContextTriggerData(map[string]any{"age": 20}))
func NewContext(ctx context.Context, opts ...ContextOption) Context {
	ec := &executionContext{
		Context:     ctx,
		logger:      slog.Default(),
		executionID: uuid.New().String(),
	}

	for _, opt := range opts {
		opt(ec)
	}

	return ec
}

// withNode returns a new context for the given node, carrying ctx as the
// underlying context. Used internally by the executor.
func (c *executionContext) withNode(ctx context.Context, node Node) *executionContext {
	return &executionContext{
		Context:     ctx,
		logger:      observability.EnrichLogger(c.logger, c.executionID, node.ID, node.Type),
		executionID: c.executionID,
		workflowID:  c.workflowID,
		nodeID:      node.ID,
		triggerData: c.triggerData,
	}
}
