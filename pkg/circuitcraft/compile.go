package circuitcraft

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/observability"
)

// Compile validates the workflow and creates an executable CompiledWorkflow.
// Returns an error if validation fails. Multiple errors are joined together.
//
// Validation checks (in order):
//  1. Every node must have a non-empty ID
//  2. Node IDs must be unique
//  3. The connections must not form a cycle
//
// Connections with an endpoint that does not name a node are dropped with
// a warning rather than failing compilation.
func (w *Workflow) Compile() (*CompiledWorkflow, error) {
	return w.CompileWithLogger(slog.Default())
}

// CompileWithLogger is Compile with warnings sent to logger.
func (w *Workflow) CompileWithLogger(logger *slog.Logger) (*CompiledWorkflow, error) {
	var errs []error

	nodes := make([]Node, 0, len(w.Nodes))
	index := make(map[string]int, len(w.Nodes))
	for i, n := range w.Nodes {
		// 1. Validate ID
		if n.ID == "" {
			errs = append(errs, fmt.Errorf("%w: node at position %d", ErrEmptyNodeID, i))
			continue
		}
		// 2. Validate uniqueness
		if _, exists := index[n.ID]; exists {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID))
			continue
		}
		index[n.ID] = len(nodes)
		nodes = append(nodes, n)
	}

	connections := make([]Connection, 0, len(w.Connections))
	for _, c := range w.Connections {
		c = c.withID()
		_, srcOK := index[c.SourceNode]
		_, tgtOK := index[c.TargetNode]
		if !srcOK || !tgtOK {
			observability.LogConnectionDropped(logger, c.ID, c.SourceNode, c.TargetNode)
			continue
		}
		connections = append(connections, c)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	// 3. Validate acyclicity while computing the order
	order, err := Schedule(nodes, connections)
	if err != nil {
		return nil, err
	}

	return buildCompiledWorkflow(w.ID, w.Name, nodes, index, connections, order), nil
}

// buildCompiledWorkflow creates the immutable CompiledWorkflow from validated parts.
func buildCompiledWorkflow(id, name string, nodes []Node, index map[string]int, connections []Connection, order []string) *CompiledWorkflow {
	incoming := make(map[string][]Connection, len(nodes))
	outgoing := make(map[string][]Connection, len(nodes))
	for _, c := range connections {
		incoming[c.TargetNode] = append(incoming[c.TargetNode], c)
		outgoing[c.SourceNode] = append(outgoing[c.SourceNode], c)
	}

	return &CompiledWorkflow{
		id:          id,
		name:        name,
		nodes:       nodes,
		index:       index,
		connections: connections,
		incoming:    incoming,
		outgoing:    outgoing,
		order:       order,
	}
}
