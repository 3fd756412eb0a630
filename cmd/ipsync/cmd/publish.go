package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edgewatch/ipsync/cmd/ipsync/app"
)

// NewPublishCommand creates the publish command: the full detect,
// reconcile, commit, and push cycle with bounded retries.
func NewPublishCommand(a *app.App) *cobra.Command {
	var refreshFirst bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Commit and push the category files to the shared upstream repository",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.Client()
			if err != nil {
				return err
			}

			if refreshFirst {
				if _, err := client.Refresh(cmd.Context()); err != nil {
					return err
				}
			}

			summary, err := client.Publish(cmd.Context())
			if summary != nil {
				fmt.Fprintln(cmd.OutOrStdout(), summary.Text())
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&refreshFirst, "refresh", false, "refresh from the configured sources before publishing")
	return cmd
}
