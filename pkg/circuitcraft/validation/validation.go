package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	ccerrors "github.com/randalmurphal/circuitcraft/pkg/circuitcraft/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Use json tag names for field names in error messages
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return strings.ToLower(fld.Name)
			}
			return name
		})
	})
	return validate
}

// Violation is one failed struct-tag rule. Path locates the field from
// the validated struct, e.g. "nodes[2].id".
type Violation struct {
	Field string
	Path  string
	Tag   string
	Param string
	Value any
}

// Violations validates s and returns every failed rule in field order.
// A nil slice means s is valid.
func Violations(s any) []Violation {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Violation{{Tag: "invalid", Value: err.Error()}}
	}

	out := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		path := fe.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		out = append(out, Violation{
			Field: fe.Field(),
			Path:  path,
			Tag:   fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		})
	}
	return out
}

// Validate validates a struct using its struct tags. All violations are
// reported in one ValidationError.
func Validate(s any) error {
	vs := Violations(s)
	if len(vs) == 0 {
		return nil
	}

	messages := make([]string, 0, len(vs))
	for _, v := range vs {
		messages = append(messages, v.Path+": "+Describe(v))
	}
	field := ""
	if len(vs) == 1 {
		field = vs[0].Path
	}
	return &ccerrors.ValidationError{Field: field, Message: strings.Join(messages, "; ")}
}

// Describe creates a human-readable message for a violation.
func Describe(v Violation) string {
	switch v.Tag {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "min":
		if v.Param == "1" {
			return "must not be empty"
		}
		return "must have at least " + v.Param + " items"
	case "oneof":
		return "must be one of: " + v.Param
	case "gte":
		return "must be at least " + v.Param
	case "lte", "max":
		return "must be at most " + v.Param
	default:
		return "is invalid"
	}
}
