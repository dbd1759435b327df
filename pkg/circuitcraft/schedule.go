package circuitcraft

// visitState tracks a node's progress through the depth-first traversal.
type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

// Schedule computes a dependency-respecting execution order.
//
// Every node appears exactly once and, for every connection u -> v, u
// precedes v. The traversal is depth-first and dependency-first: nodes
// without incoming connections are visited first in listing order, then
// every remaining node in listing order. Within a node, producers are
// visited in connection order. The result is deterministic for a fixed
// node and connection order.
//
// Connections naming an unknown node are ignored. A cycle is reported as
// a *CycleError; no node is ever silently left out of the order.
func Schedule(nodes []Node, connections []Connection) ([]string, error) {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}

	producers := make(map[string][]string, len(nodes))
	for _, c := range connections {
		if !known[c.SourceNode] || !known[c.TargetNode] {
			continue
		}
		producers[c.TargetNode] = append(producers[c.TargetNode], c.SourceNode)
	}

	s := &scheduler{
		producers: producers,
		state:     make(map[string]visitState, len(nodes)),
		order:     make([]string, 0, len(nodes)),
	}

	// Sources first, then everything else.
	for _, n := range nodes {
		if len(producers[n.ID]) > 0 {
			continue
		}
		if err := s.visit(n.ID); err != nil {
			return nil, err
		}
	}
	for _, n := range nodes {
		if err := s.visit(n.ID); err != nil {
			return nil, err
		}
	}
	return s.order, nil
}

type scheduler struct {
	producers map[string][]string
	state     map[string]visitState
	stack     []string
	order     []string
}

func (s *scheduler) visit(id string) error {
	switch s.state[id] {
	case visited:
		return nil
	case visiting:
		return s.cycleAt(id)
	}

	s.state[id] = visiting
	s.stack = append(s.stack, id)
	for _, producer := range s.producers[id] {
		if err := s.visit(producer); err != nil {
			return err
		}
	}
	s.stack = s.stack[:len(s.stack)-1]
	s.state[id] = visited
	s.order = append(s.order, id)
	return nil
}

// cycleAt builds the cycle from the first occurrence of id on the stack.
// The stack runs consumer -> producer, so the path is reversed to read in
// data-flow order.
func (s *scheduler) cycleAt(id string) error {
	start := 0
	for i, n := range s.stack {
		if n == id {
			start = i
			break
		}
	}
	path := make([]string, 0, len(s.stack)-start+1)
	for i := len(s.stack) - 1; i >= start; i-- {
		path = append(path, s.stack[i])
	}
	path = append(path, path[0])
	return &CycleError{Nodes: path}
}
