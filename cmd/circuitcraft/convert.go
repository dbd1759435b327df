package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/definition"
)

func newConvertCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "convert <workflow-file>",
		Short: "Rewrite a workflow as a definition file",
		Long: `Load a workflow (definition file or editor export) and write it as a
YAML or JSON definition file.

Examples:
  circuitcraft convert export.json
  circuitcraft convert export.json --format json --output signup.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := definition.FromFile(args[0])
			if err != nil {
				return fmt.Errorf("load workflow: %w", err)
			}

			data, err := definition.Encode(wf, definition.Format(format))
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Workflow written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml, json")
	cmd.Flags().StringVar(&output, "output", "", "Output file (default: stdout)")
	return cmd
}
