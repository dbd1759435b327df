package connectors

import (
	"errors"
	"sync"
	"testing"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft"
	ccerrors "github.com/randalmurphal/circuitcraft/pkg/circuitcraft/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_CoversBuiltins(t *testing.T) {
	set := NewTemplateSet()
	reg := NewRegistry()

	for _, typ := range reg.Types() {
		_, ok := set.Lookup(typ)
		assert.True(t, ok, "no catalog entry for %s", typ)
	}

	http, ok := set.Lookup(circuitcraft.TypeHTTPRequest)
	require.True(t, ok)
	assert.Equal(t, "HTTP Request", http.Name)
	assert.Equal(t, "HTTP & APIs", http.Category)
	assert.Equal(t, "1.0.0", http.Version)
	assert.True(t, http.ConfigSchema["url"].Required)
	assert.Equal(t, 30000, http.ConfigSchema["timeout"].Default)
}

func TestCatalog_Categories(t *testing.T) {
	cats := NewTemplateSet().Categories()
	assert.IsIncreasing(t, cats)
	assert.Contains(t, cats, "Triggers")
	assert.Contains(t, cats, "HTTP & APIs")
}

func TestCatalog_Search(t *testing.T) {
	set := NewTemplateSet()

	got := set.Search("trigger")
	ids := make([]string, 0, len(got))
	for _, tpl := range got {
		ids = append(ids, tpl.ID)
	}
	assert.ElementsMatch(t, []string{
		circuitcraft.TypeWebhookTrigger,
		circuitcraft.TypeWebhook,
		circuitcraft.TypeManualTrigger,
	}, ids)

	assert.Len(t, set.Search("HTTP"), 1)
	assert.Empty(t, set.Search("no such thing"))
}

func TestCatalog_ByCategory(t *testing.T) {
	data := NewTemplateSet().ByCategory("Data")
	require.Len(t, data, 2)
	assert.Equal(t, circuitcraft.TypeFilter, data[0].ID)
	assert.Equal(t, circuitcraft.TypeTransform, data[1].ID)
}

func TestCatalog_Register(t *testing.T) {
	set := NewTemplateSet()
	before := len(set.All())

	set.Register(Template{ID: "slack", Name: "Slack", Category: "Communication"})
	assert.Len(t, set.All(), before+1)

	set.Register(Template{ID: "slack", Name: "Slack v2", Category: "Communication"})
	assert.Len(t, set.All(), before+1)

	tpl, ok := set.Lookup("slack")
	require.True(t, ok)
	assert.Equal(t, "Slack v2", tpl.Name)

	_, ok = NewTemplateSet().Lookup("slack")
	assert.False(t, ok)
}

func TestCatalog_ConcurrentAccess(t *testing.T) {
	set := NewTemplateSet()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			set.Register(Template{ID: "custom", Category: "Custom"})
		}()
		go func() {
			defer wg.Done()
			_ = set.Categories()
			_ = set.Search("custom")
		}()
	}
	wg.Wait()
	_, ok := set.Lookup("custom")
	assert.True(t, ok)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name     string
		typ      string
		cfg      map[string]any
		wantMsgs []string
	}{
		{
			name: "valid http",
			typ:  circuitcraft.TypeHTTPRequest,
			cfg:  map[string]any{"url": "https://example.com", "method": "POST", "timeout": 5000},
		},
		{
			name:     "missing required",
			typ:      circuitcraft.TypeHTTPRequest,
			cfg:      map[string]any{"url": ""},
			wantMsgs: []string{"Field 'url' is required"},
		},
		{
			name: "enum and type",
			typ:  circuitcraft.TypeHTTPRequest,
			cfg:  map[string]any{"url": "https://example.com", "method": "FETCH", "timeout": "soon"},
			wantMsgs: []string{
				"Field 'method' must be one of: GET, POST, PUT, PATCH, DELETE, HEAD, OPTIONS",
				"Field 'timeout' must be of type number",
			},
		},
		{
			name:     "boolean field",
			typ:      circuitcraft.TypeWebhookTrigger,
			cfg:      map[string]any{"path": "/hook", "authentication": "yes"},
			wantMsgs: []string{"Field 'authentication' must be of type boolean"},
		},
		{
			name:     "array field",
			typ:      circuitcraft.TypeTransform,
			cfg:      map[string]any{"mappings": map[string]any{}},
			wantMsgs: []string{"Field 'mappings' must be of type array"},
		},
		{
			name:     "unknown connector",
			typ:      "nope",
			cfg:      nil,
			wantMsgs: []string{"Connector not found: nope"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.typ, tt.cfg)
			if len(tt.wantMsgs) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantMsgs, validationMessages(err))
			assert.Equal(t, ccerrors.KindValidation, ccerrors.KindOf(err))
		})
	}
}

// validationMessages flattens a joined error into its ValidationError messages.
func validationMessages(err error) []string {
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}

	var out []string
	for _, e := range errs {
		var valErr *ccerrors.ValidationError
		if errors.As(e, &valErr) {
			out = append(out, valErr.Message)
		}
	}
	return out
}
