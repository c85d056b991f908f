package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCommand reports the build identification stamped at link time.
func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gitrecap %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
