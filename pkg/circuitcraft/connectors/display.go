package connectors

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/config"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/validation"
)

const displayErrorPrefix = "Display error"

// DisplayConfig is the validated configuration of a display-data node.
type DisplayConfig struct {
	Format string `json:"format" validate:"oneof=table json raw"`
}

// Display echoes its input tagged with a display format.
type Display struct {
	opts options
}

// Execute implements circuitcraft.Handler.
func (d *Display) Execute(_ circuitcraft.Context, node circuitcraft.Node, input any) (any, error) {
	if isEmpty(input) {
		return nil, invalid(displayErrorPrefix, "data", "No data provided to display")
	}

	cfg := DisplayConfig{
		Format: strings.TrimSpace(config.New(node.Config).String("format", "")),
	}
	if cfg.Format == "" {
		cfg.Format = "table"
	}
	if len(validation.Violations(cfg)) > 0 {
		return nil, invalid(displayErrorPrefix, "format",
			"Invalid display format: %s. Must be 'table', 'json', or 'raw'", cfg.Format)
	}

	return map[string]any{
		"format":      cfg.Format,
		"data":        input,
		"displayedAt": d.opts.timestamp(),
		"message":     fmt.Sprintf("Data displayed in %s format", cfg.Format),
	}, nil
}

// isEmpty reports whether a node received nothing usable. Zero and false
// are data.
func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	default:
		return false
	}
}
