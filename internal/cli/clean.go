package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"vaxetl/internal/dataprocessing"
	apperrors "vaxetl/internal/errors"
	"vaxetl/internal/files"
	"vaxetl/internal/validation"
	"vaxetl/pkg/contracts/domain"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [dataset...]",
	Short: "Clean the raw workbooks into CSV artifacts",
	Long: `Clean reads the five raw workbooks, normalizes column names and values and
writes one CSV artifact per dataset. A dataset that fails does not stop the others.

Naming datasets reruns only their pipelines:
  vaxetl clean coverage vaccine_schedule`,
	Args: datasetArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, env, err := setup(cmd)
		if err != nil {
			return err
		}
		datasets, err := parseDatasets(args)
		if err != nil {
			return env.finish(ctx, apperrors.NewUsageError(cmd.CommandPath(), err))
		}
		return env.finish(ctx, runClean(ctx, env, datasets...))
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

// datasetArgs rejects unknown dataset names with a usage error
func datasetArgs(cmd *cobra.Command, args []string) error {
	if _, err := parseDatasets(args); err != nil {
		return apperrors.NewUsageError(cmd.CommandPath(), err)
	}
	return nil
}

func parseDatasets(args []string) ([]domain.Dataset, error) {
	var datasets []domain.Dataset
	for _, arg := range args {
		d, ok := domain.ParseDataset(arg)
		if !ok {
			return nil, fmt.Errorf("unknown dataset %q", arg)
		}
		datasets = append(datasets, d)
	}
	return datasets, nil
}

// runClean cleans the given datasets, every dataset when none are given
func runClean(ctx context.Context, env *environment, datasets ...domain.Dataset) error {
	validator := validation.NewFileValidator(env.logger)
	if err := validator.ValidateInputDirectory(env.paths.RawDir, "*.xlsx"); err != nil {
		return err
	}
	if err := validator.ValidateOutputDirectory(env.paths.CleanDir); err != nil {
		return err
	}

	for _, f := range files.Missing(files.NewDiscovery(env.paths).RawFiles()) {
		if !selected(datasets, f.Dataset) {
			continue
		}
		env.logger.WarnContext(ctx, "Raw workbook missing",
			slog.String("dataset", string(f.Dataset)),
			slog.String("path", f.Path))
	}

	cleaner := dataprocessing.NewCleaner(env.paths,
		dataprocessing.WithSheet(env.cfg.Cleaner.Sheet),
		dataprocessing.WithTelemetry(env.telemetry),
		dataprocessing.WithLogger(env.logger),
		dataprocessing.WithOutput(env.out),
	)
	return cleaner.CleanDatasets(ctx, datasets...)
}

func selected(datasets []domain.Dataset, d domain.Dataset) bool {
	if len(datasets) == 0 {
		return true
	}
	for _, s := range datasets {
		if s == d {
			return true
		}
	}
	return false
}
