package cli

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Clean then load",
	Long: `Run cleans every dataset and then loads the artifacts. The load is skipped
when any dataset failed to clean.`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, env, err := setup(cmd)
		if err != nil {
			return err
		}
		if err := runClean(ctx, env); err != nil {
			return env.finish(ctx, err)
		}
		return env.finish(ctx, runLoad(ctx, env))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
