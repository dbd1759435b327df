package circuitcraft

import (
	"fmt"
	"sort"
	"sync"
)

// Handler executes nodes of one type.
//
// Execute receives the node (with its config) and the aggregated input
// value and returns the node's result. Returning an error marks the node
// failed; the executor records err.Error() in the report.
type Handler interface {
	Execute(ctx Context, node Node, input any) (any, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx Context, node Node, input any) (any, error)

// Execute calls f(ctx, node, input).
func (f HandlerFunc) Execute(ctx Context, node Node, input any) (any, error) {
	return f(ctx, node, input)
}

// PassThrough is the handler for node types with no registered handler.
// It acknowledges the type and echoes the node's config.
var PassThrough Handler = HandlerFunc(func(_ Context, node Node, _ any) (any, error) {
	return map[string]any{
		"message": fmt.Sprintf("Node type %s executed", node.Type),
		"data":    node.Config,
	}, nil
})

// Registry maps node types to handlers.
// It is thread-safe and uses sync.RWMutex for read-heavy workloads.
//
// Lookups for unregistered types resolve to the fallback handler
// (PassThrough unless replaced with SetFallback), so an unknown type is
// never an error.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	fallback Handler
}

// NewRegistry creates an empty registry with the PassThrough fallback.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		fallback: PassThrough,
	}
}

// Register adds or replaces the handler for nodeType.
// Returns the registry for method chaining.
func (r *Registry) Register(nodeType string, h Handler) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[nodeType] = h
	return r
}

// RegisterFunc adds or replaces the handler for nodeType with a function.
func (r *Registry) RegisterFunc(nodeType string, fn func(ctx Context, node Node, input any) (any, error)) *Registry {
	return r.Register(nodeType, HandlerFunc(fn))
}

// SetFallback replaces the handler used for unregistered types.
// A nil handler restores PassThrough.
func (r *Registry) SetFallback(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h == nil {
		h = PassThrough
	}
	r.fallback = h
}

// Lookup returns the handler registered for nodeType and whether one exists.
func (r *Registry) Lookup(nodeType string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[nodeType]
	return h, ok
}

// Resolve returns the handler for nodeType, or the fallback.
func (r *Registry) Resolve(nodeType string) Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h, ok := r.handlers[nodeType]; ok {
		return h
	}
	return r.fallback
}

// Has returns true if a handler is registered for nodeType.
func (r *Registry) Has(nodeType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[nodeType]
	return ok
}

// Types returns the registered node types, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}
