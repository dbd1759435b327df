package circuitcraft

// CompiledWorkflow is an immutable, executable workflow.
// It is created by calling Compile() on a Workflow.
//
// CompiledWorkflow is thread-safe and can be used concurrently for
// multiple runs. Accessors return copies; the structure cannot be modified
// after compilation.
type CompiledWorkflow struct {
	id          string
	name        string
	nodes       []Node
	index       map[string]int
	connections []Connection

	// Pre-computed for efficient lookup, both in connection order
	incoming map[string][]Connection
	outgoing map[string][]Connection

	order []string
}

// ID returns the workflow identifier.
func (cw *CompiledWorkflow) ID() string {
	return cw.id
}

// Name returns the workflow display name.
func (cw *CompiledWorkflow) Name() string {
	return cw.name
}

// Nodes returns the nodes in their original listing order.
func (cw *CompiledWorkflow) Nodes() []Node {
	out := make([]Node, len(cw.nodes))
	copy(out, cw.nodes)
	return out
}

// Node returns the node with the given ID.
func (cw *CompiledWorkflow) Node(id string) (Node, bool) {
	i, ok := cw.index[id]
	if !ok {
		return Node{}, false
	}
	return cw.nodes[i], true
}

// HasNode checks if a node exists in the workflow.
func (cw *CompiledWorkflow) HasNode(id string) bool {
	_, exists := cw.index[id]
	return exists
}

// Connections returns the live connections (dangling ones were dropped
// at compile time) with their IDs filled in.
func (cw *CompiledWorkflow) Connections() []Connection {
	out := make([]Connection, len(cw.connections))
	copy(out, cw.connections)
	return out
}

// Incoming returns the connections targeting the node, in connection order.
func (cw *CompiledWorkflow) Incoming(id string) []Connection {
	return append([]Connection(nil), cw.incoming[id]...)
}

// Outgoing returns the connections leaving the node, in connection order.
func (cw *CompiledWorkflow) Outgoing(id string) []Connection {
	return append([]Connection(nil), cw.outgoing[id]...)
}

// Order returns the execution order computed by Schedule.
func (cw *CompiledWorkflow) Order() []string {
	return append([]string(nil), cw.order...)
}
