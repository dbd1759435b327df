package drawflow

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/observability"
)

// DefaultModule is the module the editor places nodes in.
const DefaultModule = "Home"

// ErrModuleNotFound indicates the export has no module of the requested name.
var ErrModuleNotFound = errors.New("drawflow module not found")

// Document is a decoded editor export. Modules, nodes, ports and links
// keep the order the editor enumerates them in.
type Document struct {
	Modules []Module
}

// Module is one editor page.
type Module struct {
	Name  string
	Nodes []Node
}

// Node is one editor node. Class carries the node type; Data its config.
type Node struct {
	ID      string
	Name    string
	Class   string
	Data    map[string]any
	PosX    float64
	PosY    float64
	Inputs  []Port
	Outputs []Port
}

// Port is a named input or output slot with its links.
type Port struct {
	Name  string
	Links []Link
}

// Link is one end of a connection as seen from a port. On an output port
// Node is the target and Slot the target input; on an input port Node is
// the source and Slot the source output.
type Link struct {
	Node string
	Slot string
}

// Module returns the module named name.
func (d *Document) Module(name string) (Module, bool) {
	for _, m := range d.Modules {
		if m.Name == name {
			return m, true
		}
	}
	return Module{}, false
}

// wire shapes

type exportJSON struct {
	Drawflow object `json:"drawflow"`
}

type moduleJSON struct {
	Data object `json:"data"`
}

type portJSON struct {
	Connections json.RawMessage `json:"connections"`
}

type outputLinkJSON struct {
	Node   json.RawMessage `json:"node"`
	Output string          `json:"output"`
}

type inputLinkJSON struct {
	Node  json.RawMessage `json:"node"`
	Input string          `json:"input"`
}

// Parse decodes an editor export, logging skipped entries to slog.Default().
func Parse(data []byte) (*Document, error) {
	return ParseWithLogger(data, slog.Default())
}

// ParseWithLogger decodes an editor export. Only the top level has to be
// well formed: a module, node, port or link that cannot be read is left
// out with a Warn log and the rest of the export still loads. Node data
// that is not an object becomes an empty config.
func ParseWithLogger(data []byte, logger *slog.Logger) (*Document, error) {
	var export exportJSON
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("decode drawflow export: %w", err)
	}
	if export.Drawflow == nil {
		return nil, errors.New("decode drawflow export: missing \"drawflow\" object")
	}

	d := decoder{logger: logger}
	doc := &Document{}
	for _, m := range export.Drawflow {
		var mj moduleJSON
		if err := json.Unmarshal(m.value, &mj); err != nil {
			d.skip(fmt.Sprintf("module %q", m.key), err)
			continue
		}

		module := Module{Name: m.key}
		for _, n := range mj.Data.enumerationOrder() {
			if node, ok := d.node(n); ok {
				module.Nodes = append(module.Nodes, node)
			}
		}
		doc.Modules = append(doc.Modules, module)
	}
	return doc, nil
}

// Decode reads and decodes an editor export from r.
func Decode(r io.Reader) (*Document, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("read drawflow export: %w", err)
	}
	return Parse(buf.Bytes())
}

// IsExport reports whether data looks like an editor export.
func IsExport(data []byte) bool {
	var head struct {
		Drawflow json.RawMessage `json:"drawflow"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return false
	}
	return len(head.Drawflow) > 0 && head.Drawflow[0] == '{'
}

// decoder reads nodes field by field so one bad value costs only its entry.
type decoder struct {
	logger *slog.Logger
}

func (d decoder) skip(entry string, err error) {
	observability.LogEntrySkipped(d.logger, entry, err)
}

func (d decoder) node(m member) (Node, bool) {
	var fields object
	err := json.Unmarshal(m.value, &fields)
	if err == nil && fields == nil {
		err = errors.New("node is null")
	}
	if err != nil {
		d.skip(fmt.Sprintf("node %q", m.key), err)
		return Node{}, false
	}

	node := Node{
		ID:    m.key,
		Name:  fields.text("name"),
		Class: fields.text("class"),
		PosX:  fields.number("pos_x"),
		PosY:  fields.number("pos_y"),
	}
	if raw, ok := fields.get("data"); ok {
		if err := json.Unmarshal(raw, &node.Data); err != nil {
			d.skip(fmt.Sprintf("node %q data", m.key), err)
			node.Data = map[string]any{}
		}
	}

	node.Outputs = d.ports(fields, "outputs", fmt.Sprintf("node %q output", m.key), outputLink)
	node.Inputs = d.ports(fields, "inputs", fmt.Sprintf("node %q input", m.key), inputLink)
	return node, true
}

// ports reads the port map under key. Each port's connections are a list
// or an object keyed by connection id.
func (d decoder) ports(fields object, key, entry string, link func(json.RawMessage) (Link, error)) []Port {
	raw, ok := fields.get(key)
	if !ok {
		return nil
	}
	var ports object
	if err := json.Unmarshal(raw, &ports); err != nil {
		d.skip(entry+"s", err)
		return nil
	}

	var out []Port
	for _, p := range ports.enumerationOrder() {
		portEntry := fmt.Sprintf("%s %q", entry, p.key)
		var pj portJSON
		if err := json.Unmarshal(p.value, &pj); err != nil {
			d.skip(portEntry, err)
			continue
		}
		raws, err := connectionList(pj.Connections)
		if err != nil {
			d.skip(portEntry, err)
			continue
		}

		port := Port{Name: p.key}
		for i, r := range raws {
			l, err := link(r)
			if err != nil {
				d.skip(fmt.Sprintf("%s link %d", portEntry, i), err)
				continue
			}
			port.Links = append(port.Links, l)
		}
		out = append(out, port)
	}
	return out
}

func outputLink(raw json.RawMessage) (Link, error) {
	var l outputLinkJSON
	if err := json.Unmarshal(raw, &l); err != nil {
		return Link{}, err
	}
	target, err := idString(l.Node)
	return Link{Node: target, Slot: l.Output}, err
}

func inputLink(raw json.RawMessage) (Link, error) {
	var l inputLinkJSON
	if err := json.Unmarshal(raw, &l); err != nil {
		return Link{}, err
	}
	source, err := idString(l.Node)
	return Link{Node: source, Slot: l.Input}, err
}

func connectionList(raw json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var obj object
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, err
	}
	obj = obj.enumerationOrder()
	list := make([]json.RawMessage, 0, len(obj))
	for _, m := range obj {
		list = append(list, m.value)
	}
	return list, nil
}
