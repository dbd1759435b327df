package connectors

import (
	"encoding/json"
	"strings"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft"
)

// Trigger starts a workflow. It outputs the run's trigger payload, or
// config.payload when the run was started without one.
type Trigger struct{}

// Execute implements circuitcraft.Handler.
func (t *Trigger) Execute(ctx circuitcraft.Context, node circuitcraft.Node, _ any) (any, error) {
	if data := ctx.TriggerData(); data != nil {
		return data, nil
	}

	switch payload := node.Config["payload"].(type) {
	case nil:
		return map[string]any{}, nil
	case string:
		var decoded any
		if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &decoded); err == nil {
			return decoded, nil
		}
		return payload, nil
	default:
		return payload, nil
	}
}
