package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ccerrors "github.com/randalmurphal/circuitcraft/pkg/circuitcraft/errors"
)

type request struct {
	URL     string `json:"url" validate:"required,url"`
	Method  string `json:"method" validate:"oneof=GET POST"`
	Retries int    `json:"retries" validate:"gte=0,lte=10"`
	Note    string `validate:"max=3"`
}

type step struct {
	ID   string `json:"id" validate:"required"`
	Type string `json:"type" validate:"required"`
}

type plan struct {
	Steps []step `json:"steps" validate:"required,min=1,dive"`
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(request{URL: "http://example.com", Method: "GET"}))

	err := Validate(request{Method: "FETCH"})
	require.Error(t, err)

	var valErr *ccerrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "url: is required; method: must be one of: GET POST", valErr.Message)
	assert.Empty(t, valErr.Field)

	err = Validate(request{URL: "http://example.com", Method: "POST", Retries: -1})
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "retries", valErr.Field)
	assert.Equal(t, "retries: must be at least 0", valErr.Message)
}

func TestValidate_NestedPaths(t *testing.T) {
	err := Validate(plan{Steps: []step{{ID: "a", Type: "delay"}, {Type: "filter"}}})

	var valErr *ccerrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "steps[1].id", valErr.Field)
	assert.Equal(t, "steps[1].id: is required", valErr.Message)

	err = Validate(plan{Steps: []step{}})
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "steps: must not be empty", valErr.Message)
}

func TestViolations(t *testing.T) {
	assert.Nil(t, Violations(request{URL: "https://example.com", Method: "POST"}))

	vs := Violations(request{URL: "not a url", Method: "GET", Retries: 11, Note: "long"})
	require.Len(t, vs, 3)

	assert.Equal(t, "url", vs[0].Field)
	assert.Equal(t, "url", vs[0].Tag)
	assert.Equal(t, "not a url", vs[0].Value)

	assert.Equal(t, "retries", vs[1].Field)
	assert.Equal(t, "lte", vs[1].Tag)
	assert.Equal(t, "10", vs[1].Param)

	assert.Equal(t, "note", vs[2].Field, "untagged fields use the lowercased name")
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		v    Violation
		want string
	}{
		{Violation{Tag: "required"}, "is required"},
		{Violation{Tag: "url"}, "must be a valid URL"},
		{Violation{Tag: "min", Param: "1"}, "must not be empty"},
		{Violation{Tag: "min", Param: "2"}, "must have at least 2 items"},
		{Violation{Tag: "oneof", Param: "a b"}, "must be one of: a b"},
		{Violation{Tag: "gte", Param: "0"}, "must be at least 0"},
		{Violation{Tag: "lte", Param: "5"}, "must be at most 5"},
		{Violation{Tag: "max", Param: "3"}, "must be at most 3"},
		{Violation{Tag: "email"}, "is invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.v.Tag+tt.v.Param, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.v))
		})
	}
}
