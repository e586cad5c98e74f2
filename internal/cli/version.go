package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cargovortex/notify-relay/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show notifyctl version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "notifyctl %s (%s)\n", version.Version, version.GitCommit)
			return nil
		},
	}
}
