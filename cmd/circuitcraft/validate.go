package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/connectors"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/definition"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <workflow-file>",
		Short: "Check a workflow without running it",
		Long: `Check that a workflow compiles (unique ids, no cycles) and that each
node's config matches its connector schema.

Nodes of unknown types are reported but do not fail validation; they
run as pass-through steps.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateWorkflow(cmd, args[0])
		},
	}
}

func validateWorkflow(cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()

	wf, err := definition.FromFile(path)
	if err != nil {
		return fmt.Errorf("load workflow: %w", err)
	}

	cw, err := wf.CompileWithLogger(loggerFor(cmd))
	if err != nil {
		return fmt.Errorf("compile workflow: %w", err)
	}

	catalog := connectors.Catalog()
	var problems []error
	for _, n := range cw.Nodes() {
		if _, ok := catalog.Lookup(n.Type); !ok {
			fmt.Fprintf(out, "note: node %s has unknown type %q and will pass its config through\n", n.ID, n.Type)
			continue
		}
		if err := connectors.ValidateConfig(n.Type, n.Config); err != nil {
			problems = append(problems, fmt.Errorf("node %s (%s): %w", n.ID, n.Type, err))
		}
	}
	if len(problems) > 0 {
		return errors.Join(problems...)
	}

	fmt.Fprintf(out, "%s: %d nodes, %d connections\n", path, len(cw.Nodes()), len(cw.Connections()))
	fmt.Fprintf(out, "order: %s\n", strings.Join(cw.Order(), " -> "))
	return nil
}
