// Package cmd defines the ipsync CLI commands.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edgewatch/ipsync/cmd/ipsync/app"
)

// Execute builds the root command and runs it with the given arguments.
func Execute(ctx context.Context, a *app.App, args []string) error {
	root := NewRootCommand(a)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// NewRootCommand creates the root ipsync command with all subcommands.
func NewRootCommand(a *app.App) *cobra.Command {
	var (
		verbose bool
		quiet   bool
		noColor bool
	)

	root := &cobra.Command{
		Use:   "ipsync",
		Short: "Maintain categorized IP lists in a shared git repository",
		Long: `ipsync refreshes categorized IP endpoint lists (address:port#CC records),
merges concurrent edits from other writers without losing records, and
publishes the result to a shared git repository with bounded retries.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", a.Version(), a.Commit(), a.Date()),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			a.Config().UpdateFromFlags(verbose, quiet, noColor)
			a.ReconfigureLogger()
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		NewRefreshCommand(a),
		NewReconcileCommand(a),
		NewPublishCommand(a),
	)

	return root
}
