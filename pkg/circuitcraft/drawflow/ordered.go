package drawflow

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// member is one key of a JSON object, kept with its raw value.
type member struct {
	key   string
	value json.RawMessage
}

// object is a JSON object that remembers key order.
type object []member

// UnmarshalJSON implements json.Unmarshaler. A JSON null decodes to an
// empty object.
func (o *object) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*o = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	out := object{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		out = append(out, member{key: key, value: raw})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = out
	return nil
}

// enumerationOrder returns the members in the order a browser enumerates
// object keys: array-index keys ascending, then the remaining keys in
// document order. Editor node ids are numeric, so this is the order the
// editor lists its nodes in.
func (o object) enumerationOrder() object {
	out := make(object, len(o))
	copy(out, o)
	sort.SliceStable(out, func(i, j int) bool {
		ni, iIdx := arrayIndex(out[i].key)
		nj, jIdx := arrayIndex(out[j].key)
		switch {
		case iIdx && jIdx:
			return ni < nj
		case iIdx:
			return true
		default:
			return false
		}
	})
	return out
}

// arrayIndex reports whether key is a canonical array index.
func arrayIndex(key string) (uint64, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == 1<<32-1 {
		return 0, false
	}
	return n, true
}

// get returns the value of key. A repeated key resolves to its last value.
func (o object) get(key string) (json.RawMessage, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].key == key {
			return o[i].value, true
		}
	}
	return nil, false
}

// text returns the string under key, or "" when it is missing or not a string.
func (o object) text(key string) string {
	var s string
	if raw, ok := o.get(key); ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

// number returns the number under key, or 0 when it is missing or not a number.
func (o object) number(key string) float64 {
	var f float64
	if raw, ok := o.get(key); ok {
		_ = json.Unmarshal(raw, &f)
	}
	return f
}

// idString renders a node reference that may be a JSON string or number.
func idString(raw json.RawMessage) (string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", errors.New("missing node reference")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "", errors.New("empty node reference")
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("node reference %s is neither a string nor a number", string(raw))
}
