// Package validation checks structs against their `validate` tags.
//
// Field names in messages follow the json tags, and nested fields are
// reported by path:
//
//	type nodeDef struct {
//	    ID string `json:"id" validate:"required"`
//	}
//
//	err := validation.Validate(def)
//	// nodes[1].id: is required
//
// Connectors that need their own wording walk Violations instead and map
// each rule to a message.
package validation
