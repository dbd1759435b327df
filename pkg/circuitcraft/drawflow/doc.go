// Package drawflow reads workflow graphs exported by the visual editor.
//
// An export nests nodes under drawflow.<module>.data, keyed by node id.
// Each node names its type in "class", carries its config in "data", and
// lists its links per output port:
//
//	{"drawflow": {"Home": {"data": {
//	    "1": {"class": "webhook", "data": {}, "outputs":
//	        {"output_1": {"connections": [{"node": "2", "output": "input_1"}]}}},
//	    "2": {"class": "display-data", "data": {"format": "json"}, "outputs": {}}
//	}}}}
//
// Go maps lose key order, and the scheduler breaks ties by listing order,
// so Parse decodes objects token by token and enumerates keys the way the
// editor does: numeric ids ascending, then other keys in document order.
//
// Entries that cannot be read are left out with a Warn log rather than
// failing the export: a malformed module, node, port or link is dropped,
// and node data that is not an object becomes an empty config.
//
//	wf, err := drawflow.Load(data)
//	if err != nil {
//	    return err
//	}
//	report := executor.Run(ctx, wf)
package drawflow
