package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edgewatch/ipsync/cmd/ipsync/app"
)

// NewRefreshCommand creates the refresh command: run every configured
// source and fold the results into the category files.
func NewRefreshCommand(a *app.App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch records from the configured sources and update the category files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if force {
				a.Config().ForceUpdate = true
			}
			client, err := a.Client()
			if err != nil {
				return err
			}
			result, err := client.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force-geo-update", false, "re-download the GeoLite2 database even when fresh")
	return cmd
}
