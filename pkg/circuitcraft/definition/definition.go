package definition

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/drawflow"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/validation"
)

// Format is the encoding of a definition file.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Default slots for connections that leave them out.
const (
	DefaultOutput = "output_1"
	DefaultInput  = "input_1"
)

// ErrUnsupportedFormat is returned for file extensions and formats
// other than YAML and JSON.
var ErrUnsupportedFormat = errors.New("unsupported definition format")

// document is the on-disk shape of a workflow. It matches the JSON form
// of circuitcraft.Workflow, so a marshalled workflow loads back.
type document struct {
	ID          ident           `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Nodes       []nodeDef       `json:"nodes" yaml:"nodes" validate:"required,min=1,dive"`
	Connections []connectionDef `json:"connections" yaml:"connections" validate:"dive"`
}

type nodeDef struct {
	ID       ident                  `json:"id" yaml:"id" validate:"required"`
	Type     string                 `json:"type" yaml:"type" validate:"required"`
	Name     string                 `json:"name" yaml:"name"`
	Config   map[string]any         `json:"config" yaml:"config"`
	Position *circuitcraft.Position `json:"position" yaml:"position"`
}

type connectionDef struct {
	ID           string `json:"id" yaml:"id"`
	SourceNode   ident  `json:"sourceNode" yaml:"sourceNode" validate:"required"`
	SourceOutput string `json:"sourceOutput" yaml:"sourceOutput"`
	TargetNode   ident  `json:"targetNode" yaml:"targetNode" validate:"required"`
	TargetInput  string `json:"targetInput" yaml:"targetInput"`
}

// ident is a node or workflow id. JSON files may write ids as numbers.
type ident string

func (i *ident) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*i = ident(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number, got %s", data)
	}
	*i = ident(n.String())
	return nil
}

func (i *ident) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: id must be a scalar", n.Line)
	}
	*i = ident(n.Value)
	return nil
}

// FormatOf picks the format from a file extension.
// Supported extensions: .yaml, .yml, .json
func FormatOf(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// FromFile loads a workflow from a file, auto-detecting format by
// extension. Workflows without an id take the file name without its
// extension.
func FromFile(path string) (*circuitcraft.Workflow, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow file: %w", err)
	}

	wf, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if wf.ID == "" {
		wf.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return wf, nil
}

// Parse decodes a workflow in the given format.
func Parse(data []byte, format Format) (*circuitcraft.Workflow, error) {
	switch format {
	case FormatYAML:
		return FromYAML(data)
	case FormatJSON:
		return FromJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// FromYAML parses a YAML workflow definition.
func FromYAML(data []byte) (*circuitcraft.Workflow, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return doc.workflow()
}

// FromJSON parses a JSON workflow definition. Editor exports are
// recognized and normalized from their default module.
func FromJSON(data []byte) (*circuitcraft.Workflow, error) {
	if drawflow.IsExport(data) {
		return drawflow.Load(data)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return doc.workflow()
}

// Encode writes a workflow in the given format.
func Encode(wf *circuitcraft.Workflow, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(wf)
	case FormatJSON:
		return json.MarshalIndent(wf, "", "  ")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func (d document) workflow() (*circuitcraft.Workflow, error) {
	if err := validation.Validate(d); err != nil {
		return nil, fmt.Errorf("invalid workflow definition: %w", err)
	}

	wf := circuitcraft.NewWorkflow(string(d.ID), d.Name)
	for _, n := range d.Nodes {
		wf.AddNode(circuitcraft.Node{
			ID:       string(n.ID),
			Type:     n.Type,
			Name:     n.Name,
			Config:   n.Config,
			Position: n.Position,
		})
	}

	for _, c := range d.Connections {
		out := c.SourceOutput
		if out == "" {
			out = DefaultOutput
		}
		in := c.TargetInput
		if in == "" {
			in = DefaultInput
		}
		conn := circuitcraft.Connection{
			ID:           c.ID,
			SourceNode:   string(c.SourceNode),
			SourceOutput: out,
			TargetNode:   string(c.TargetNode),
			TargetInput:  in,
		}
		if conn.ID == "" {
			conn.ID = circuitcraft.ConnectionID(conn.SourceNode, conn.TargetNode, out, in)
		}
		wf.Connections = append(wf.Connections, conn)
	}
	return wf, nil
}
