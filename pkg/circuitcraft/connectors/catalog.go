package connectors

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft"
	ccerrors "github.com/randalmurphal/circuitcraft/pkg/circuitcraft/errors"
)

// Schema value types.
const (
	FieldString  = "string"
	FieldNumber  = "number"
	FieldBoolean = "boolean"
	FieldObject  = "object"
	FieldArray   = "array"
	FieldAny     = "any"
)

// Port describes one input or output of a connector.
type Port struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Required    bool   `json:"required" yaml:"required"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// FieldSchema describes one config key of a connector.
type FieldSchema struct {
	Type        string   `json:"type" yaml:"type"`
	Required    bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Enum        []string `json:"enum,omitempty" yaml:"enum,omitempty"`
	Default     any      `json:"default,omitempty" yaml:"default,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// Template is the catalog entry of a connector type.
type Template struct {
	ID            string                 `json:"id" yaml:"id"`
	Name          string                 `json:"name" yaml:"name"`
	Category      string                 `json:"category" yaml:"category"`
	Description   string                 `json:"description" yaml:"description"`
	Version       string                 `json:"version" yaml:"version"`
	Inputs        []Port                 `json:"inputs" yaml:"inputs"`
	Outputs       []Port                 `json:"outputs" yaml:"outputs"`
	ConfigSchema  map[string]FieldSchema `json:"configSchema" yaml:"configSchema"`
	Documentation string                 `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

// TemplateSet is a mutable, concurrency-safe collection of templates.
type TemplateSet struct {
	mu        sync.RWMutex
	templates []Template
}

// NewTemplateSet returns a set holding the built-in templates.
func NewTemplateSet() *TemplateSet {
	return &TemplateSet{templates: builtinTemplates()}
}

var defaultSet = NewTemplateSet()

// Catalog returns the process-wide template set.
func Catalog() *TemplateSet {
	return defaultSet
}

// ValidateConfig checks config against the schema of the connector type
// in the process-wide catalog.
func ValidateConfig(connectorType string, config map[string]any) error {
	return defaultSet.Validate(connectorType, config)
}

// All returns every template in registration order.
func (s *TemplateSet) All() []Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.templates)
}

// Lookup returns the template for id.
func (s *TemplateSet) Lookup(id string) (Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// ByCategory returns the templates in category.
func (s *TemplateSet) ByCategory(category string) []Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Template
	for _, t := range s.templates {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// Search matches query case-insensitively against name, description and
// category.
func (s *TemplateSet) Search(query string) []Template {
	q := strings.ToLower(query)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Template
	for _, t := range s.templates {
		if strings.Contains(strings.ToLower(t.Name), q) ||
			strings.Contains(strings.ToLower(t.Description), q) ||
			strings.Contains(strings.ToLower(t.Category), q) {
			out = append(out, t)
		}
	}
	return out
}

// Categories returns the distinct categories, sorted.
func (s *TemplateSet) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, t := range s.templates {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	sort.Strings(out)
	return out
}

// Register adds t, replacing any template with the same id in place.
func (s *TemplateSet) Register(t Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.templates {
		if s.templates[i].ID == t.ID {
			s.templates[i] = t
			return
		}
	}
	s.templates = append(s.templates, t)
}

// Validate checks config against the schema of connectorType. Every
// problem is reported; the result joins one ValidationError per problem.
func (s *TemplateSet) Validate(connectorType string, config map[string]any) error {
	t, ok := s.Lookup(connectorType)
	if !ok {
		return ccerrors.Validation("type", "Connector not found: %s", connectorType)
	}

	keys := make([]string, 0, len(t.ConfigSchema))
	for k := range t.ConfigSchema {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		field := t.ConfigSchema[key]
		value, present := config[key]

		if field.Required && isEmpty(value) {
			errs = append(errs, ccerrors.Validation(key, "Field '%s' is required", key))
			continue
		}
		if !present || value == nil {
			continue
		}

		if field.Type != "" && field.Type != FieldAny {
			if actual := valueType(value); actual != field.Type {
				errs = append(errs, ccerrors.Validation(key, "Field '%s' must be of type %s", key, field.Type))
				continue
			}
		}

		if len(field.Enum) > 0 && !isEmpty(value) {
			if !slices.Contains(field.Enum, fmt.Sprint(value)) {
				errs = append(errs, ccerrors.Validation(key,
					"Field '%s' must be one of: %s", key, strings.Join(field.Enum, ", ")))
			}
		}
	}
	return errors.Join(errs...)
}

// valueType names the schema type of a decoded config value.
func valueType(v any) string {
	switch v.(type) {
	case string:
		return FieldString
	case bool:
		return FieldBoolean
	case map[string]any, map[string]string:
		return FieldObject
	case []any:
		return FieldArray
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return FieldNumber
	case reflect.Slice, reflect.Array:
		return FieldArray
	case reflect.Map, reflect.Struct:
		return FieldObject
	default:
		return rv.Kind().String()
	}
}

func builtinTemplates() []Template {
	anyIn := []Port{{ID: "input", Name: "Input", Type: FieldAny, Description: "Output of the previous node"}}
	anyOut := func(desc string) []Port {
		return []Port{{ID: "output", Name: "Output", Type: FieldAny, Required: true, Description: desc}}
	}

	return []Template{
		{
			ID:          circuitcraft.TypeHTTPRequest,
			Name:        "HTTP Request",
			Category:    "HTTP & APIs",
			Description: "Sends an HTTP request to an external API",
			Version:     "1.0.0",
			Inputs: []Port{
				{ID: "trigger", Name: "Trigger", Type: FieldAny, Description: "Starts the request"},
			},
			Outputs: []Port{
				{ID: "response", Name: "Response", Type: FieldObject, Required: true, Description: "Response of the HTTP request"},
			},
			ConfigSchema: map[string]FieldSchema{
				"url":     {Type: FieldString, Required: true, Description: "API URL"},
				"method":  {Type: FieldString, Enum: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}, Default: "GET"},
				"headers": {Type: FieldAny, Description: "Request headers, as an object or a JSON object string"},
				"body":    {Type: FieldAny, Description: "Request body for POST, PUT and PATCH"},
				"timeout": {Type: FieldNumber, Default: 30000, Description: "Timeout in ms"},
				"retries": {Type: FieldNumber, Default: 0, Description: "Retries for connection failures, 429 and 5xx responses"},
			},
			Documentation: "Calls any REST API. JSON responses are decoded; other bodies are returned as text.",
		},
		{
			ID:          circuitcraft.TypeWebhookTrigger,
			Name:        "Webhook Trigger",
			Category:    "Triggers",
			Description: "Starts workflows from a webhook",
			Version:     "1.0.0",
			Inputs:      []Port{},
			Outputs: []Port{
				{ID: "payload", Name: "Payload", Type: FieldObject, Required: true, Description: "Data received by the webhook"},
			},
			ConfigSchema: map[string]FieldSchema{
				"path":           {Type: FieldString, Required: true, Description: "Webhook path"},
				"method":         {Type: FieldString, Enum: []string{"POST", "GET", "PUT"}, Default: "POST"},
				"authentication": {Type: FieldBoolean, Default: false, Description: "Requires authentication"},
				"payload":        {Type: FieldAny, Description: "Payload used when the run has no trigger data"},
			},
		},
		{
			ID:          circuitcraft.TypeWebhook,
			Name:        "Webhook",
			Category:    "Triggers",
			Description: "Starts workflows with the received payload",
			Version:     "1.0.0",
			Inputs:      []Port{},
			Outputs:     anyOut("Trigger payload"),
			ConfigSchema: map[string]FieldSchema{
				"payload": {Type: FieldAny, Description: "Payload used when the run has no trigger data"},
			},
		},
		{
			ID:          circuitcraft.TypeManualTrigger,
			Name:        "Manual Trigger",
			Category:    "Triggers",
			Description: "Starts workflows by hand",
			Version:     "1.0.0",
			Inputs:      []Port{},
			Outputs:     anyOut("Trigger payload"),
			ConfigSchema: map[string]FieldSchema{
				"payload": {Type: FieldAny, Description: "Payload used when the run has no trigger data"},
			},
		},
		{
			ID:          circuitcraft.TypeDisplayData,
			Name:        "Display Data",
			Category:    "Output",
			Description: "Shows data in a table, JSON or raw view",
			Version:     "1.0.0",
			Inputs:      anyIn,
			Outputs:     anyOut("Displayed data"),
			ConfigSchema: map[string]FieldSchema{
				"format": {Type: FieldString, Enum: []string{"table", "json", "raw"}, Default: "table"},
			},
		},
		{
			ID:          circuitcraft.TypeFilter,
			Name:        "Filter",
			Category:    "Data",
			Description: "Passes list data on",
			Version:     "1.0.0",
			Inputs:      []Port{{ID: "input", Name: "Input", Type: FieldArray, Required: true}},
			Outputs:     []Port{{ID: "output", Name: "Output", Type: FieldArray, Required: true}},
			ConfigSchema: map[string]FieldSchema{
				"condition": {Type: FieldString, Description: "Reserved; not applied"},
			},
		},
		{
			ID:          circuitcraft.TypeTransform,
			Name:        "Transform",
			Category:    "Data",
			Description: "Maps input fields to a new object",
			Version:     "1.0.0",
			Inputs:      anyIn,
			Outputs:     []Port{{ID: "output", Name: "Output", Type: FieldObject, Required: true}},
			ConfigSchema: map[string]FieldSchema{
				"mappings": {Type: FieldArray, Description: "Ordered mapping rules"},
				"mapping":  {Type: FieldString, Description: "Legacy JSON mapping object"},
			},
		},
		{
			ID:          circuitcraft.TypeIfCondition,
			Name:        "If Condition",
			Category:    "Logic",
			Description: "Routes data down the true or false branch",
			Version:     "1.0.0",
			Inputs:      anyIn,
			Outputs: []Port{
				{ID: "true", Name: "True", Type: FieldAny, Description: "Followed when the condition holds"},
				{ID: "false", Name: "False", Type: FieldAny, Description: "Followed when the condition fails"},
			},
			ConfigSchema: map[string]FieldSchema{
				"condition": {Type: FieldString, Description: "Comparison such as data.age > 18"},
			},
		},
		{
			ID:          circuitcraft.TypeDelay,
			Name:        "Delay",
			Category:    "Utilities",
			Description: "Waits before passing data on",
			Version:     "1.0.0",
			Inputs:      anyIn,
			Outputs:     anyOut("Input data"),
			ConfigSchema: map[string]FieldSchema{
				"delay": {Type: FieldNumber, Default: DefaultDelay, Description: "Delay in ms, at most 300000"},
			},
		},
		{
			ID:          circuitcraft.TypeEmail,
			Name:        "Email",
			Category:    "Communication",
			Description: "Sends an email notification",
			Version:     "1.0.0",
			Inputs:      anyIn,
			Outputs:     anyOut("Delivery result"),
			ConfigSchema: map[string]FieldSchema{
				"to":      {Type: FieldString, Required: true, Description: "Recipient address"},
				"subject": {Type: FieldString, Description: "Subject line"},
				"body":    {Type: FieldString, Description: "Message body"},
			},
		},
	}
}
