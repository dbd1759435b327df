package connectors

import (
	"strconv"
	"strings"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft"
)

const conditionErrorPrefix = "If-condition error"

// IfCondition evaluates config.condition against its input and outputs a
// circuitcraft.ConditionResult carrying the input through. Malformed
// conditions resolve to false.
type IfCondition struct {
	opts options
}

// Execute implements circuitcraft.Handler.
func (c *IfCondition) Execute(ctx circuitcraft.Context, node circuitcraft.Node, input any) (any, error) {
	var condition string
	switch v := node.Config["condition"].(type) {
	case nil:
	case string:
		condition = strings.TrimSpace(v)
	case bool:
		condition = strconv.FormatBool(v)
	default:
		return nil, invalid(conditionErrorPrefix, "condition", "condition must be a string, got %T", v)
	}

	if condition == "" {
		res := circuitcraft.NewConditionResult(true, input, "")
		res.ConditionEvaluated = "true (no condition set)"
		return res, nil
	}

	result := c.opts.evaluatorFor(ctx).Condition(input, condition)
	return circuitcraft.NewConditionResult(result, input, condition), nil
}
