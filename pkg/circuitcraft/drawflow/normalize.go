package drawflow

import (
	"fmt"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft"
)

// Normalize converts one module of the export into a workflow.
//
// Nodes keep the editor's enumeration order. Each node's class becomes
// its type, its name defaults to the class, and its data becomes its
// config. Connections are read from output ports only; input ports
// mirror them. Links to nodes outside the module are kept and dropped
// later by Compile.
func Normalize(doc *Document, module string) (*circuitcraft.Workflow, error) {
	if module == "" {
		module = DefaultModule
	}
	m, ok := doc.Module(module)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrModuleNotFound, module)
	}

	wf := circuitcraft.NewWorkflow("", module)
	for _, n := range m.Nodes {
		name := n.Name
		if name == "" {
			name = n.Class
		}
		wf.AddNode(circuitcraft.Node{
			ID:       n.ID,
			Type:     n.Class,
			Name:     name,
			Config:   n.Data,
			Position: &circuitcraft.Position{X: n.PosX, Y: n.PosY},
		})
	}

	for _, n := range m.Nodes {
		for _, out := range n.Outputs {
			for _, link := range out.Links {
				wf.Connect(n.ID, out.Name, link.Node, link.Slot)
			}
		}
	}
	return wf, nil
}

// Load parses an editor export and normalizes its default module.
func Load(data []byte) (*circuitcraft.Workflow, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Normalize(doc, DefaultModule)
}
