package circuitcraft

import "strings"

// Built-in node types.
const (
	TypeHTTPRequest    = "http-request"
	TypeDisplayData    = "display-data"
	TypeFilter         = "filter"
	TypeTransform      = "transform"
	TypeIfCondition    = "if-condition"
	TypeDelay          = "delay"
	TypeEmail          = "email"
	TypeWebhook        = "webhook"
	TypeWebhookTrigger = "webhook-trigger"
	TypeManualTrigger  = "manual-trigger"
)

// optionalTypes are node types whose failure is recorded but does not stop the run.
var optionalTypes = map[string]bool{
	TypeDisplayData: true,
	TypeEmail:       true,
}

// IsOptional reports whether a failure of a node of this type lets the
// run continue.
func IsOptional(nodeType string) bool {
	return optionalTypes[nodeType]
}

// Node is one executable step in a workflow.
//
// Type selects the handler. Unknown types are not an error: they run the
// registry's pass-through handler. Config is the type-specific settings map.
type Node struct {
	ID       string         `json:"id" yaml:"id"`
	Type     string         `json:"type" yaml:"type"`
	Name     string         `json:"name,omitempty" yaml:"name,omitempty"`
	Config   map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
	Position *Position      `json:"position,omitempty" yaml:"position,omitempty"`
}

// Position is the node's location on the editor canvas. The engine never
// reads it; it is carried so workflows survive a load/save round trip.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// DisplayName returns Name, or Type when no name is set.
func (n Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.Type
}

// Connection is a directed edge from an output slot of one node to an
// input slot of another.
type Connection struct {
	ID           string `json:"id,omitempty" yaml:"id,omitempty"`
	SourceNode   string `json:"sourceNode" yaml:"sourceNode"`
	SourceOutput string `json:"sourceOutput,omitempty" yaml:"sourceOutput,omitempty"`
	TargetNode   string `json:"targetNode" yaml:"targetNode"`
	TargetInput  string `json:"targetInput,omitempty" yaml:"targetInput,omitempty"`
}

// ConnectionID synthesizes the identifier of a connection as
// {source}_{target}_{sourceOutput}_{targetInput}.
func ConnectionID(source, target, sourceOutput, targetInput string) string {
	return strings.Join([]string{source, target, sourceOutput, targetInput}, "_")
}

// withID returns c with its ID synthesized if it was empty.
func (c Connection) withID() Connection {
	if c.ID == "" {
		c.ID = ConnectionID(c.SourceNode, c.TargetNode, c.SourceOutput, c.TargetInput)
	}
	return c
}
