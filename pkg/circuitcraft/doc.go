/*
Package circuitcraft provides a workflow execution engine for graphs of
typed processing steps.

# Overview

A workflow is a directed acyclic graph of nodes joined by connections.
Each node has a type that selects a handler, and a config map that the
handler interprets. Running a workflow orders the nodes so that every
producer runs before its consumers, feeds each node the results of its
predecessors, follows or skips the branches of conditional nodes, and
returns an execution report with per-node results and errors.

# Basic Usage

Build a workflow, then run it with an executor bound to a registry:

	wf := circuitcraft.NewWorkflow("signup", "Signup").
	    AddNode(circuitcraft.Node{ID: "1", Type: circuitcraft.TypeWebhook}).
	    AddNode(circuitcraft.Node{ID: "2", Type: circuitcraft.TypeIfCondition,
	        Config: map[string]any{"condition": "data.age >= 18"}}).
	    AddNode(circuitcraft.Node{ID: "3", Type: circuitcraft.TypeDisplayData}).
	    AddNode(circuitcraft.Node{ID: "4", Type: circuitcraft.TypeEmail}).
	    Connect("1", "output_1", "2", "input_1").
	    Connect("2", "output_1", "3", "input_1").
	    Connect("2", "output_2", "4", "input_1")

	executor := circuitcraft.NewExecutor(connectors.NewRegistry())
	report := executor.Run(ctx, wf,
	    circuitcraft.WithTriggerData(map[string]any{"age": 20}))
	// report.Status == circuitcraft.StatusCompleted
	// report.Skipped == []string{"4"}

# Scheduling

Nodes run one at a time in the order computed by Schedule: depth-first
and dependency-first, seeded with source nodes in listing order. The
order is deterministic. Compile rejects cycles with a *CycleError.

# Inputs

A node with one live incoming connection receives that predecessor's
result as-is. With several it receives a []any in connection order, and
with none it receives nil. See InputData.

# Branching

An if-condition node returns a ConditionResult. Connections leaving it
through slot 0 ("output_1", "true", "0") are followed when the condition
held; slot 1 ("output_2", "false", "1") when it did not; any other slot
is always followed. Every node reachable only through a not-taken
connection is skipped, and so is everything downstream of a skipped node.

# Failures

Handler errors never escape a run. The message lands in the report's
Errors map under the node ID and the run is marked failed. Failures of
optional node types (display-data, email) let the run continue; any
other failure stops scheduling. Panics are recovered as *PanicError.
Cancellation of the run context stops the run with a *CancellationError
under the "workflow" key, and WithNodeTimeout bounds every handler.

# Observability

Runs log through log/slog (WithLogger) and can emit OpenTelemetry
metrics and spans (WithMetrics, WithTracing). See the observability
package.
*/
package circuitcraft
