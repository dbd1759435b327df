/*
Package config provides type-safe access to a node's configuration map.

# Overview

Node configuration arrives as map[string]any from an editor export, a
YAML or JSON definition file, or code. The same setting may therefore be a
float64, an int, or a numeric string depending on where it came from.
config wraps the map and provides typed accessors that coerce these forms
and fall back to a default when a key is missing or unusable.

# Basic Usage

	cfg := config.New(node.Config)

	url := cfg.String("url", "")                       // "" when missing
	delay := cfg.Int("delay", 1000)                     // 1500 from 1500, 1500.0 or "1500"
	timeout := cfg.Millis("timeout", 30*time.Second)    // 5s from 5000 or "5s"
	headers, err := cfg.StringMap("headers")           // object or JSON string

# Type Coercion

Int and Float accept numeric strings in addition to Go numeric types.
Int rejects floats with a fractional part. Millis interprets numbers as
milliseconds and strings either as milliseconds or with
time.ParseDuration. Duration keeps the seconds-based interpretation.

# Structured Config

Decode converts the map into a typed struct through its JSON encoding, so
json struct tags name the keys:

	var httpCfg struct {
	    URL    string `json:"url"`
	    Method string `json:"method"`
	}
	if err := cfg.Decode(&httpCfg); err != nil { ... }

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified by any accessor.
*/
package config
