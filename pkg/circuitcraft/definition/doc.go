// Package definition loads workflows from definition files.
//
// A definition is the JSON or YAML form of circuitcraft.Workflow:
//
//	id: signup
//	name: Signup
//	nodes:
//	  - id: "1"
//	    type: webhook
//	  - id: "2"
//	    type: if-condition
//	    config:
//	      condition: data.age >= 18
//	  - id: "3"
//	    type: display-data
//	connections:
//	  - sourceNode: "1"
//	    targetNode: "2"
//	  - sourceNode: "2"
//	    sourceOutput: output_1
//	    targetNode: "3"
//
// Connection slots default to output_1 and input_1. JSON files holding an
// editor export are handed to the drawflow package instead.
//
// Loading checks the shape of the file only. Duplicate ids, dangling
// connections and cycles are reported by Compile.
package definition
