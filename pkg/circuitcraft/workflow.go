package circuitcraft

// Workflow is a mutable description of a graph of nodes and connections.
// Build one in code with NewWorkflow and the chaining methods, or load one
// with the definition or drawflow packages, then Compile it.
//
// Workflow is NOT thread-safe during building. Compile produces an
// immutable CompiledWorkflow that can be shared between goroutines.
//
// Example:
//
//	wf := circuitcraft.NewWorkflow("signup", "Signup").
//	    AddNode(circuitcraft.Node{ID: "1", Type: circuitcraft.TypeWebhook}).
//	    AddNode(circuitcraft.Node{ID: "2", Type: circuitcraft.TypeIfCondition,
//	        Config: map[string]any{"condition": "data.age >= 18"}}).
//	    Connect("1", "output_1", "2", "input_1")
type Workflow struct {
	ID          string       `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string       `json:"name,omitempty" yaml:"name,omitempty"`
	Nodes       []Node       `json:"nodes" yaml:"nodes"`
	Connections []Connection `json:"connections,omitempty" yaml:"connections,omitempty"`
}

// NewWorkflow creates an empty workflow.
func NewWorkflow(id, name string) *Workflow {
	return &Workflow{ID: id, Name: name}
}

// AddNode appends a node. Validation happens at Compile time.
// Returns the workflow for method chaining.
func (w *Workflow) AddNode(n Node) *Workflow {
	w.Nodes = append(w.Nodes, n)
	return w
}

// Connect appends a connection from source's output slot to target's
// input slot. Returns the workflow for method chaining.
func (w *Workflow) Connect(source, sourceOutput, target, targetInput string) *Workflow {
	w.Connections = append(w.Connections, Connection{
		ID:           ConnectionID(source, target, sourceOutput, targetInput),
		SourceNode:   source,
		SourceOutput: sourceOutput,
		TargetNode:   target,
		TargetInput:  targetInput,
	})
	return w
}
