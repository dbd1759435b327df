package expr

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value is the result of evaluating an operand. A Value may be absent,
// which is distinct from a present nil (null).
type Value struct {
	v       any
	present bool
}

// Present wraps v as a present value.
func Present(v any) Value { return Value{v: v, present: true} }

// Absent returns the value of a missing path.
func Absent() Value { return Value{} }

// IsPresent reports whether the value exists.
func (v Value) IsPresent() bool { return v.present }

// Interface returns the underlying value, nil when absent.
func (v Value) Interface() any { return v.v }

// String returns the string form used by equality comparisons.
func (v Value) String() string {
	if !v.present {
		return "undefined"
	}
	return Stringify(v.v)
}

// Number parses the value as a float64.
func (v Value) Number() (float64, bool) {
	if !v.present {
		return 0, false
	}
	return ToFloat64(v.v)
}

// Stringify renders v the way equality comparisons see it.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case json.Number:
		return val.String()
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return "null"
		}
		return string(b)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ToFloat64 converts v to a float64. Strings are parsed; booleans, nil
// and composite values are not numbers.
func ToFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, !math.IsNaN(val)
	case float32:
		return float64(val), !math.IsNaN(float64(val))
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ResolveField walks a dot-separated path through nested objects and
// arrays. It reports false when any segment is missing; it never panics.
// Values that are neither maps nor slices (handler output structs, for
// example) are viewed through their JSON encoding.
func ResolveField(value any, path string) (any, bool) {
	if path == "" {
		return value, true
	}
	current := value
	for _, segment := range strings.Split(path, ".") {
		next, ok := child(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func child(v any, key string) (any, bool) {
	switch c := v.(type) {
	case nil, string, bool, float64, float32, int, int64, int32, json.Number:
		return nil, false
	case map[string]any:
		val, ok := c[key]
		return val, ok
	case map[string]string:
		val, ok := c[key]
		return val, ok
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(c) {
			return nil, false
		}
		return c[i], true
	default:
		generic, ok := asGeneric(v)
		if !ok {
			return nil, false
		}
		return child(generic, key)
	}
}

// asGeneric converts typed values into map[string]any or []any through JSON.
func asGeneric(v any) (any, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, false
	}
	switch out.(type) {
	case map[string]any, []any:
		return out, true
	default:
		return nil, false
	}
}
