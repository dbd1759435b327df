package circuitcraft

// InputData aggregates the input value for node from prior results.
//
// Every connection targeting the node whose source already has a recorded
// result contributes that result. A single contribution is returned bare,
// several are returned as a []any in connection order, and none yields nil.
// Presence is what counts: a recorded nil result still contributes.
func InputData(node Node, results map[string]any, connections []Connection) any {
	var inputs []any
	for _, c := range connections {
		if c.TargetNode != node.ID {
			continue
		}
		if v, ok := results[c.SourceNode]; ok {
			inputs = append(inputs, v)
		}
	}

	switch len(inputs) {
	case 0:
		return nil
	case 1:
		return inputs[0]
	default:
		return inputs
	}
}
