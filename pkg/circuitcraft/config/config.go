package config

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Config wraps a node configuration map for type-safe value extraction.
// All accessor methods return default values if the key is missing
// or the value cannot be converted to the requested type.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map.
// If data is nil, an empty Config is returned.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// String returns the string value for key, or defaultVal if missing or not a string.
func (c Config) String(key, defaultVal string) string {
	v, ok := c.data[key]
	if !ok {
		return defaultVal
	}
	if s, ok := v.(string); ok {
		return s
	}
	return defaultVal
}

// Duration returns the duration value for key, or defaultVal if missing or invalid.
//
// Accepts:
//   - string: parsed with time.ParseDuration
//   - int, int64, float64: interpreted as seconds
//   - time.Duration: used directly
func (c Config) Duration(key string, defaultVal time.Duration) time.Duration {
	v, ok := c.data[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case string:
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	case float64:
		return time.Duration(val * float64(time.Second))
	case int:
		return time.Duration(val) * time.Second
	case int64:
		return time.Duration(val) * time.Second
	case time.Duration:
		return val
	}
	return defaultVal
}

// Millis returns a duration for key expressed in milliseconds, or
// defaultVal if missing or invalid.
//
// Accepts:
//   - int, int64, float64: milliseconds
//   - string: milliseconds ("1500") or a Go duration ("1.5s")
//   - time.Duration: used directly
func (c Config) Millis(key string, defaultVal time.Duration) time.Duration {
	v, ok := c.data[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return time.Duration(f * float64(time.Millisecond))
		}
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	case float64:
		return time.Duration(val * float64(time.Millisecond))
	case int:
		return time.Duration(val) * time.Millisecond
	case int64:
		return time.Duration(val) * time.Millisecond
	case time.Duration:
		return val
	}
	return defaultVal
}

// Bool returns the boolean value for key, or defaultVal if missing or not a bool.
func (c Config) Bool(key string, defaultVal bool) bool {
	v, ok := c.data[key]
	if !ok {
		return defaultVal
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return defaultVal
}

// Int returns the integer value for key, or defaultVal if missing or not convertible.
//
// Accepts:
//   - int: used directly
//   - int64: converted to int
//   - float64: converted only if there is no fractional part
//   - string: parsed as a decimal integer or whole float ("1500", "1500.0")
func (c Config) Int(key string, defaultVal int) int {
	v, ok := c.data[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		if val == math.Trunc(val) && !math.IsInf(val, 0) {
			return int(val)
		}
	case string:
		s := strings.TrimSpace(val)
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) {
			return int(f)
		}
	}
	return defaultVal
}

// Float returns the float64 value for key, or defaultVal if missing or not convertible.
//
// Accepts:
//   - float64: used directly
//   - int, int64: converted to float64
//   - string: parsed with strconv.ParseFloat
func (c Config) Float(key string, defaultVal float64) float64 {
	v, ok := c.data[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return f
		}
	}
	return defaultVal
}

// Slice returns the list value for key.
func (c Config) Slice(key string) ([]any, bool) {
	v, ok := c.data[key]
	if !ok {
		return nil, false
	}
	switch val := v.(type) {
	case []any:
		return val, true
	case []map[string]any:
		out := make([]any, len(val))
		for i, m := range val {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

// Map returns the nested object for key as a Config.
func (c Config) Map(key string) (Config, bool) {
	v, ok := c.data[key]
	if !ok {
		return Config{}, false
	}
	switch val := v.(type) {
	case map[string]any:
		return New(val), true
	case map[string]string:
		m := make(map[string]any, len(val))
		for k, s := range val {
			m[k] = s
		}
		return New(m), true
	}
	return Config{}, false
}

// StringMap returns a string-to-string mapping for key. The value may be
// an object or a string holding a JSON object. Non-string object values
// are rendered with fmt. A missing or empty value yields an empty map.
func (c Config) StringMap(key string) (map[string]string, error) {
	v, ok := c.data[key]
	if !ok || v == nil {
		return map[string]string{}, nil
	}

	var obj map[string]any
	switch val := v.(type) {
	case map[string]string:
		return val, nil
	case map[string]any:
		obj = val
	case string:
		if strings.TrimSpace(val) == "" {
			return map[string]string{}, nil
		}
		if err := json.Unmarshal([]byte(val), &obj); err != nil {
			return nil, fmt.Errorf("%s: invalid JSON object: %w", key, err)
		}
	default:
		return nil, fmt.Errorf("%s: expected object or JSON string, got %T", key, v)
	}

	out := make(map[string]string, len(obj))
	for k, item := range obj {
		switch s := item.(type) {
		case string:
			out[k] = s
		case nil:
			out[k] = ""
		default:
			out[k] = fmt.Sprint(s)
		}
	}
	return out, nil
}

// Any returns the raw value for key, or defaultVal if missing.
func (c Config) Any(key string, defaultVal any) any {
	v, ok := c.data[key]
	if !ok {
		return defaultVal
	}
	return v
}

// Has returns true if the key exists in the config.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Raw returns the underlying map.
// The returned map should not be modified.
func (c Config) Raw() map[string]any {
	return c.data
}

// Decode copies the configuration into target, which must be a pointer,
// using json struct tags for key names.
func (c Config) Decode(target any) error {
	b, err := json.Marshal(c.data)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := json.Unmarshal(b, target); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}
