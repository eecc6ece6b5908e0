package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kjourdan1/scaffctl/internal/output"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print scaffctl version",
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput {
			output.JSON(map[string]string{"version": Version, "commit": Commit, "buildDate": BuildDate})
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "scaffctl version %s (commit: %s, built: %s)\n", Version, Commit, BuildDate)
	},
}

// Build-time variables set via ldflags.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}
