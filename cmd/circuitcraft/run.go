package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/connectors"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/definition"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/history"
)

type runFlags struct {
	trigger     string
	output      string
	executionID string
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run <workflow-file>",
		Short: "Execute a workflow",
		Long: `Execute a workflow file and print its execution report.

The command exits non-zero when the run fails.

Examples:
  circuitcraft run signup.yaml --trigger '{"age": 20}'
  circuitcraft run export.json --output json --history runs.db
  circuitcraft run pipeline.yaml --trigger @payload.json --node-timeout 10s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, args[0], f)
		},
	}

	cmd.Flags().StringVar(&f.trigger, "trigger", "", "Trigger payload as JSON, or @file to read it")
	cmd.Flags().StringVar(&f.output, "output", "summary", "Output format: summary, json")
	cmd.Flags().StringVar(&f.executionID, "execution-id", "", "Execution id (default: random UUID)")
	return cmd
}

func runWorkflow(cmd *cobra.Command, path string, f runFlags) error {
	if f.output != "summary" && f.output != "json" {
		return fmt.Errorf("unsupported output: %s (use 'summary' or 'json')", f.output)
	}

	s := settingsFrom(cmd)
	logger := loggerFor(cmd)

	wf, err := definition.FromFile(path)
	if err != nil {
		return fmt.Errorf("load workflow: %w", err)
	}

	trigger, err := parseTrigger(f.trigger)
	if err != nil {
		return err
	}

	tel := newTelemetry(s, logger)
	opts, err := tel.runOptions()
	if err != nil {
		return err
	}
	opts = append(opts,
		circuitcraft.WithLogger(logger),
		circuitcraft.WithNodeTimeout(s.NodeTimeout),
	)
	if trigger != nil {
		opts = append(opts, circuitcraft.WithTriggerData(trigger))
	}
	if f.executionID != "" {
		opts = append(opts, circuitcraft.WithExecutionID(f.executionID))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	registry := connectors.NewRegistry(connectors.WithDefaultHTTPTimeout(s.HTTPTimeout))
	report := circuitcraft.NewExecutor(registry).Run(ctx, wf, opts...)

	if err := tel.shutdown(cmd.Context()); err != nil {
		logger.Warn("telemetry shutdown failed", "error", err)
	}

	if s.History != "" {
		if err := saveReport(s.History, report); err != nil {
			return err
		}
	}

	if err := printReport(cmd.OutOrStdout(), f.output, wf, report); err != nil {
		return err
	}

	if report.Status == circuitcraft.StatusFailed {
		return fmt.Errorf("%w: %s", errRunFailed, report.ExecutionID)
	}
	return nil
}

// parseTrigger decodes the --trigger value. A leading @ names a file.
func parseTrigger(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}

	data := []byte(raw)
	if strings.HasPrefix(raw, "@") {
		b, err := os.ReadFile(raw[1:])
		if err != nil {
			return nil, fmt.Errorf("read trigger file: %w", err)
		}
		data = b
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("trigger must be valid JSON: %w", err)
	}
	return payload, nil
}

func saveReport(path string, report *circuitcraft.ExecutionResult) error {
	store, err := history.NewSQLiteStore(path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Save(report); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func printReport(w io.Writer, format string, wf *circuitcraft.Workflow, report *circuitcraft.ExecutionResult) error {
	if format == "json" {
		return writeJSON(w, report)
	}

	fmt.Fprintf(w, "Execution %s %s in %dms\n",
		report.ExecutionID, report.Status, report.Duration().Milliseconds())
	if msg, ok := report.Errors[circuitcraft.WorkflowErrorKey]; ok {
		fmt.Fprintf(w, "error: %s\n", msg)
	}

	types := make(map[string]string, len(wf.Nodes))
	for _, n := range wf.Nodes {
		types[n.ID] = n.DisplayName()
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, id := range report.Order {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", id, types[id], nodeState(report, id))
	}
	return tw.Flush()
}

func nodeState(report *circuitcraft.ExecutionResult, id string) string {
	if msg, ok := report.Errors[id]; ok {
		return "failed: " + msg
	}
	if report.IsSkipped(id) {
		return "skipped"
	}
	if _, ok := report.Results[id]; ok {
		return "ok"
	}
	return "not run"
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
