package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edgewatch/ipsync/cmd/ipsync/app"
)

// NewReconcileCommand creates the reconcile command: one merge pass over
// the category files, without committing or pushing.
func NewReconcileCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Merge, re-validate, and rewrite the category files in place",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.Client()
			if err != nil {
				return err
			}
			result, err := client.Reconcile(cmd.Context())
			if result != nil {
				fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
			}
			return err
		},
	}
}
