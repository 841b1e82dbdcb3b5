package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"vaxetl/internal/files"
	"vaxetl/internal/loader"
	"vaxetl/internal/store"
	"vaxetl/internal/validation"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the cleaned artifacts into the database",
	Long: `Load drops and recreates the schema, builds the country, vaccine and disease
dimensions and appends the five fact tables. The first failing step stops the load.`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, env, err := setup(cmd)
		if err != nil {
			return err
		}
		return env.finish(ctx, runLoad(ctx, env))
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad(ctx context.Context, env *environment) error {
	validator := validation.NewFileValidator(env.logger)
	if err := validator.ValidateInputDirectory(env.paths.CleanDir, "*.csv"); err != nil {
		return err
	}
	if env.paths.SchemaFile != "" {
		if err := validator.ValidateFile(env.paths.SchemaFile); err != nil {
			return err
		}
	}

	for _, f := range files.Missing(files.NewDiscovery(env.paths).CleanFiles()) {
		env.logger.WarnContext(ctx, "Cleaned artifact missing",
			slog.String("dataset", string(f.Dataset)),
			slog.String("path", f.Path))
	}

	st, err := store.Open(ctx, env.cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			env.logger.WarnContext(ctx, "Failed to close store", slog.String("error", err.Error()))
		}
	}()

	l := loader.New(st, env.paths,
		loader.WithTelemetry(env.telemetry),
		loader.WithLogger(env.logger),
		loader.WithOutput(env.out),
	)
	return l.Run(ctx)
}
