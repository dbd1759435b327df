package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/history"
)

var errNoHistory = errors.New("no history database configured (use --history or CIRCUITCRAFT_HISTORY)")

func newHistoryCmd() *cobra.Command {
	var (
		workflowID string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past executions",
		Long: `List executions saved by 'run --history', newest first.

Examples:
  circuitcraft history --history runs.db
  circuitcraft history --history runs.db --workflow signup --limit 5
  circuitcraft history show <execution-id> --history runs.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, func(store history.Store) error {
				sums, err := store.List(workflowID, limit)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "EXECUTION\tWORKFLOW\tSTATUS\tSTARTED\tDURATION\tNODES\tSKIPPED\tERRORS")
				for _, s := range sums {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%dms\t%d\t%d\t%d\n",
						s.ExecutionID, s.WorkflowID, s.Status, s.StartTime.Format(time.RFC3339),
						s.DurationMs, s.NodeCount, s.SkippedCount, s.ErrorCount)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&workflowID, "workflow", "", "Only list runs of this workflow id")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list (0 = all)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show <execution-id>",
			Short: "Print a saved execution report as JSON",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, func(store history.Store) error {
					report, err := store.Get(args[0])
					if err != nil {
						return err
					}
					return writeJSON(cmd.OutOrStdout(), report)
				})
			},
		},
		&cobra.Command{
			Use:   "delete <execution-id>",
			Short: "Remove a saved execution",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd, func(store history.Store) error {
					return store.Delete(args[0])
				})
			},
		},
	)
	return cmd
}

func withStore(cmd *cobra.Command, fn func(history.Store) error) error {
	path := settingsFrom(cmd).History
	if path == "" {
		return errNoHistory
	}

	store, err := history.NewSQLiteStore(path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = store.Close() }()

	return fn(store)
}
