package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/connectors"
)

func newConnectorsCmd() *cobra.Command {
	var (
		category string
		search   string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "connectors",
		Short: "List the built-in connectors",
		Long: `List the connector catalog: every built-in node type with its category
and description. Use --output json to include ports and config schemas.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := connectors.Catalog()

			var templates []connectors.Template
			switch {
			case search != "":
				templates = catalog.Search(search)
			case category != "":
				templates = catalog.ByCategory(category)
			default:
				templates = catalog.All()
			}

			out := cmd.OutOrStdout()
			switch output {
			case "json":
				return writeJSON(out, templates)
			case "table":
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "TYPE\tCATEGORY\tDESCRIPTION")
				for _, t := range templates {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID, t.Category, t.Description)
				}
				return tw.Flush()
			default:
				return fmt.Errorf("unsupported output: %s (use 'table' or 'json')", output)
			}
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list one category: "+strings.Join(connectors.Catalog().Categories(), ", "))
	cmd.Flags().StringVar(&search, "search", "", "Only list connectors matching a name, description or category")
	cmd.Flags().StringVar(&output, "output", "table", "Output format: table, json")
	return cmd
}
