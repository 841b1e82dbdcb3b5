package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"vaxetl/pkg/contracts"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  noArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
