package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"vaxetl/internal/config"
	apperrors "vaxetl/internal/errors"
	"vaxetl/internal/infrastructure"
)

var rootCmd = &cobra.Command{
	Use:   "vaxetl",
	Short: "Vaccination statistics ETL",
	Long: `vaxetl cleans the WHO vaccination spreadsheet exports (coverage, incidence,
reported cases, vaccine introduction and vaccine schedule) into CSV artifacts and
loads them into a star schema keyed by country, vaccine and disease.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  10 - Invalid configuration
  11 - Database error
  13 - Schema script failed
  14 - Source file not found`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// globalFlags override the loaded configuration when set
var globalFlags struct {
	configFile      string
	rawDir          string
	cleanDir        string
	schemaFile      string
	driver          string
	dsn             string
	sheet           string
	logLevel        string
	tracing         bool
	metricsTextfile string
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globalFlags.configFile, "config", "", "YAML config file (default vaxetl.yaml when present)")
	pf.StringVar(&globalFlags.rawDir, "raw-dir", "", "directory holding the raw workbooks")
	pf.StringVar(&globalFlags.cleanDir, "clean-dir", "", "directory for the cleaned CSV artifacts")
	pf.StringVar(&globalFlags.schemaFile, "schema", "", "schema script to run before loading (default: built-in for the driver)")
	pf.StringVar(&globalFlags.driver, "driver", "", "destination database: sqlite or postgres")
	pf.StringVar(&globalFlags.dsn, "db", "", "database file (sqlite) or connection URL (postgres)")
	pf.StringVar(&globalFlags.sheet, "sheet", "", "workbook sheet to read (default: first sheet)")
	pf.StringVar(&globalFlags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.BoolVar(&globalFlags.tracing, "tracing", false, "print OpenTelemetry spans to stderr")
	pf.StringVar(&globalFlags.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file after the run")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return apperrors.NewUsageError(cmd.CommandPath(), err)
	})
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// noArgs rejects positional arguments with a usage error
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return apperrors.NewUsageError(cmd.CommandPath(),
			fmt.Errorf("unexpected argument %q", args[0]))
	}
	return nil
}

// loadConfig reads the configuration and applies the global flags on top
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(globalFlags.configFile)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to load configuration", err)
	}

	flags := cmd.Flags()
	override := func(name string, target *string, value string) {
		if flags.Changed(name) {
			*target = value
		}
	}
	override("raw-dir", &cfg.Paths.RawDir, globalFlags.rawDir)
	override("clean-dir", &cfg.Paths.CleanDir, globalFlags.cleanDir)
	override("schema", &cfg.Paths.SchemaFile, globalFlags.schemaFile)
	override("driver", &cfg.Store.Driver, globalFlags.driver)
	override("db", &cfg.Store.DSN, globalFlags.dsn)
	override("sheet", &cfg.Cleaner.Sheet, globalFlags.sheet)
	override("log-level", &cfg.Logging.Level, globalFlags.logLevel)
	override("metrics-textfile", &cfg.Telemetry.MetricsTextfile, globalFlags.metricsTextfile)
	if flags.Changed("tracing") {
		cfg.Telemetry.Tracing = globalFlags.tracing
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("invalid configuration", err)
	}
	return cfg, nil
}

// initLogger is replaced in tests; the process-wide logger is built only once
var initLogger = infrastructure.InitializeLogger

// environment is everything a command needs for one run
type environment struct {
	cfg       *config.Config
	paths     *config.Paths
	logger    *slog.Logger
	telemetry *infrastructure.Telemetry
	out       io.Writer
}

// setup loads configuration and starts logging and telemetry. The returned
// context carries a fresh trace ID.
func setup(cmd *cobra.Command) (context.Context, *environment, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		return nil, nil, apperrors.NewConfigError("invalid paths", err)
	}

	logging := cfg.Logging
	logging.FilePath = paths.LogFile(cfg.Logging)
	logger, err := initLogger(logging)
	if err != nil {
		return nil, nil, apperrors.NewConfigError("failed to initialize logger", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, cmd.Name())

	telemetry, err := infrastructure.InitializeTelemetry(cfg.Telemetry, logger)
	if err != nil {
		return nil, nil, apperrors.NewConfigError("failed to initialize telemetry", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = infrastructure.EnsureTraceID(ctx)
	logger.InfoContext(ctx, "Starting",
		slog.String("command", cmd.Name()),
		slog.String("raw_dir", paths.RawDir),
		slog.String("clean_dir", paths.CleanDir),
		slog.String("driver", cfg.Store.Driver))

	return ctx, &environment{
		cfg:       cfg,
		paths:     paths,
		logger:    logger,
		telemetry: telemetry,
		out:       cmd.OutOrStdout(),
	}, nil
}

// finish flushes telemetry and logs the outcome of the command
func (e *environment) finish(ctx context.Context, err error) error {
	if shutdownErr := e.telemetry.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
		e.logger.WarnContext(ctx, "Telemetry shutdown failed", slog.String("error", shutdownErr.Error()))
	}
	if err != nil {
		infrastructure.WithError(e.logger, err).ErrorContext(ctx, "Command failed")
		return err
	}
	e.logger.InfoContext(ctx, "Command completed")
	return nil
}
