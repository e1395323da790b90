package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/vnext/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print vnext build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vnext %s\n", version.Version)
		fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", version.Commit)
		fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", version.BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
