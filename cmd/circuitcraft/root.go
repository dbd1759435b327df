package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
)

// errRunFailed marks a workflow run that finished with status failed.
var errRunFailed = errors.New("workflow run failed")

type settingsKey struct{}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "circuitcraft",
		Short: "Run and inspect workflow graphs",
		Long: `Circuitcraft executes workflow graphs of connector nodes (HTTP requests,
conditions, transforms, delays, display steps) wired by connections.

Workflows are YAML or JSON definition files, or JSON exports of the visual editor.

Settings are read from flags, CIRCUITCRAFT_* environment variables and
an optional circuitcraft.yaml, in that order of precedence.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd.Flags())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), settingsKey{}, s))
			return nil
		},
	}

	addSettingsFlags(root.PersistentFlags())

	root.AddCommand(
		newRunCmd(),
		newValidateCmd(),
		newConnectorsCmd(),
		newHistoryCmd(),
		newConvertCmd(),
	)
	return root
}

// settingsFrom returns the settings resolved for this invocation.
func settingsFrom(cmd *cobra.Command) settings {
	if s, ok := cmd.Context().Value(settingsKey{}).(settings); ok {
		return s
	}
	return settings{LogLevel: "info", LogFormat: "auto"}
}

// loggerFor builds the logger for this invocation, writing to the
// command's error stream.
func loggerFor(cmd *cobra.Command) *slog.Logger {
	s := settingsFrom(cmd)
	return newLogger(cmd.ErrOrStderr(), s.LogFormat, s.LogLevel)
}
