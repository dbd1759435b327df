package connectors

import (
	"reflect"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft"
)

const filterErrorPrefix = "Filter error"

// Filter passes list input through unchanged. A configured condition is
// accepted but not applied.
type Filter struct{}

// Execute implements circuitcraft.Handler.
func (f *Filter) Execute(ctx circuitcraft.Context, node circuitcraft.Node, input any) (any, error) {
	if isEmpty(input) {
		return nil, invalid(filterErrorPrefix, "data", "No data provided to filter")
	}

	list, ok := asList(input)
	if !ok {
		return nil, invalid(filterErrorPrefix, "data", "Filter requires array data input")
	}

	if cond, ok := node.Config["condition"].(string); ok && cond != "" {
		ctx.Logger().Debug("filter condition not applied", "condition", cond)
	}
	return list, nil
}

// asList converts any slice or array to []any.
func asList(v any) ([]any, bool) {
	if list, ok := v.([]any); ok {
		return list, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
