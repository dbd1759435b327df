package connectors

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/expr"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/validation"
)

const transformErrorPrefix = "Transform error"

// Mapping types.
const (
	MappingDirect   = "direct"
	MappingConstant = "constant"
	MappingComputed = "computed"
)

// Mapping is one field-mapping rule of a transform node.
type Mapping struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	TargetField string `json:"targetField" yaml:"targetField"`
	Type        string `json:"type" yaml:"type" validate:"omitempty,oneof=direct constant computed"`
	SourceField string `json:"sourceField,omitempty" yaml:"sourceField,omitempty"`
	Value       any    `json:"value,omitempty" yaml:"value,omitempty"`
}

// ApplyMapping builds a new object holding only the mapped target fields.
// Disabled rules and rules without a target are skipped, as are direct
// rules whose source field does not resolve. Computed values
// that fail to evaluate fall back to the rule's literal value.
func ApplyMapping(input any, rules []Mapping) map[string]any {
	return applyMapping(expr.New(), input, rules)
}

func applyMapping(ev *expr.Evaluator, input any, rules []Mapping) map[string]any {
	result := make(map[string]any)
	for _, rule := range rules {
		if !rule.Enabled || rule.TargetField == "" {
			continue
		}

		switch rule.Type {
		case MappingDirect:
			if rule.SourceField == "" {
				continue
			}
			if v, ok := expr.ResolveField(input, rule.SourceField); ok {
				result[rule.TargetField] = v
			}
		case MappingConstant:
			result[rule.TargetField] = rule.Value
		case MappingComputed:
			src, ok := rule.Value.(string)
			if !ok {
				result[rule.TargetField] = rule.Value
				continue
			}
			result[rule.TargetField] = ev.Value(input, src)
		}
	}
	return result
}

// Transform applies config.mappings to its input. Without mappings it
// falls back to the legacy config.mapping JSON object, merged into the
// input together with transformed: true.
type Transform struct {
	opts options
}

// Execute implements circuitcraft.Handler.
func (t *Transform) Execute(ctx circuitcraft.Context, node circuitcraft.Node, input any) (any, error) {
	raw, ok := node.Config["mappings"]
	if !ok || raw == nil {
		return t.legacy(node, input)
	}

	rules, err := decodeMappings(raw)
	if err != nil {
		return nil, invalid(transformErrorPrefix, "mappings", "%v", err)
	}
	for i, rule := range rules {
		if !rule.Enabled {
			continue
		}
		for _, v := range validation.Violations(rule) {
			ctx.Logger().Warn("mapping rule ignored",
				slog.Int("rule", i),
				slog.String("target", rule.TargetField),
				slog.String("reason", v.Field+" "+validation.Describe(v)),
			)
		}
	}

	return applyMapping(t.opts.evaluatorFor(ctx), input, rules), nil
}

func (t *Transform) legacy(node circuitcraft.Node, input any) (any, error) {
	var mapping any
	switch m := node.Config["mapping"].(type) {
	case nil:
		mapping = map[string]any{}
	case string:
		if err := json.Unmarshal([]byte(m), &mapping); err != nil {
			return nil, invalid(transformErrorPrefix, "mapping", "%v", err)
		}
	default:
		mapping = m
	}

	out := spread(input)
	out["transformed"] = true
	out["mapping"] = mapping
	return out, nil
}

// decodeMappings accepts a list of rule objects or a JSON string holding one.
func decodeMappings(raw any) ([]Mapping, error) {
	var encoded []byte
	switch v := raw.(type) {
	case []Mapping:
		return v, nil
	case string:
		encoded = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("mappings: %w", err)
		}
		encoded = b
	}

	var rules []Mapping
	if err := json.Unmarshal(encoded, &rules); err != nil {
		return nil, fmt.Errorf("mappings must be a list of rules: %w", err)
	}
	return rules, nil
}

// spread copies an object's fields, or a list's elements keyed by index,
// into a new map.
func spread(v any) map[string]any {
	out := make(map[string]any)
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			out[k] = item
		}
	case []any:
		for i, item := range val {
			out[strconv.Itoa(i)] = item
		}
	}
	return out
}
