package benchmarks

import (
	"context"
	"testing"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/connectors"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/expr"
)

// BenchmarkRun_Linear_10 runs a 10-node linear workflow.
func BenchmarkRun_Linear_10(b *testing.B) {
	benchmarkRun(b, buildLinearWorkflow(10), nil)
}

// BenchmarkRun_Linear_100 runs a 100-node linear workflow.
func BenchmarkRun_Linear_100(b *testing.B) {
	benchmarkRun(b, buildLinearWorkflow(100), nil)
}

// BenchmarkRun_Diamond runs a layered graph where every node aggregates
// ten inputs.
func BenchmarkRun_Diamond(b *testing.B) {
	benchmarkRun(b, buildDiamondWorkflow(10, 10), nil)
}

// BenchmarkRun_Branching runs a condition whose false branch is skipped.
func BenchmarkRun_Branching(b *testing.B) {
	wf := circuitcraft.NewWorkflow("branch", "").
		AddNode(circuitcraft.Node{ID: "in", Type: circuitcraft.TypeManualTrigger}).
		AddNode(circuitcraft.Node{ID: "check", Type: circuitcraft.TypeIfCondition,
			Config: map[string]any{"condition": "data.value > 10"}}).
		AddNode(circuitcraft.Node{ID: "yes", Type: circuitcraft.TypeTransform,
			Config: map[string]any{"mappings": []connectors.Mapping{
				{Enabled: true, TargetField: "double", Type: connectors.MappingComputed, Value: "data.data.value * 2"},
			}}}).
		AddNode(circuitcraft.Node{ID: "no", Type: circuitcraft.TypeDisplayData}).
		Connect("in", "output_1", "check", "input_1").
		Connect("check", "output_1", "yes", "input_1").
		Connect("check", "output_2", "no", "input_1")

	benchmarkRun(b, wf, connectors.NewRegistry(),
		circuitcraft.WithTriggerData(map[string]any{"value": 42, "name": "bench"}))
}

// BenchmarkContextCreation measures context creation overhead.
func BenchmarkContextCreation(b *testing.B) {
	bg := context.Background()
	for i := 0; i < b.N; i++ {
		circuitcraft.NewContext(bg)
	}
}

// BenchmarkCondition measures evaluating a condition from source.
func BenchmarkCondition(b *testing.B) {
	data := map[string]any{"age": 20, "country": "NZ"}
	ev := expr.New(expr.WithLogger(quiet))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ev.Condition(data, "data.age >= 18")
	}
}

func benchmarkRun(b *testing.B, wf *circuitcraft.Workflow, reg *circuitcraft.Registry, opts ...circuitcraft.RunOption) {
	b.Helper()

	compiled, err := wf.CompileWithLogger(quiet)
	if err != nil {
		b.Fatal(err)
	}
	if reg == nil {
		reg = circuitcraft.NewRegistry().RegisterFunc("noop", noopNode)
	}
	executor := circuitcraft.NewExecutor(reg)
	opts = append(opts, circuitcraft.WithLogger(quiet))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		report := executor.RunCompiled(ctx, compiled, opts...)
		if report.Status != circuitcraft.StatusCompleted {
			b.Fatalf("run failed: %v", report.Errors)
		}
	}
}
