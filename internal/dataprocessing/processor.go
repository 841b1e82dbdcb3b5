package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/attribute"

	"vaxetl/internal/config"
	apperrors "vaxetl/internal/errors"
	"vaxetl/internal/exporter"
	"vaxetl/internal/infrastructure"
	"vaxetl/internal/operations"
	"vaxetl/pkg/contracts/domain"
)

// CleanFrame applies a dataset declaration to a raw frame and returns the
// cleaned frame. raw is not modified. Value-level failures become missing
// cells; CleanFrame itself cannot fail.
func CleanFrame(raw *domain.Frame, spec DatasetSpec, resolver CountryResolver) *domain.Frame {
	f := spec.Renames.Apply(NormalizeColumns(raw))

	if !f.Has("iso3") && f.Has("country") && resolver != nil {
		names := f.Column("country")
		codes := make([]string, len(names))
		for i, name := range names {
			if iso3, ok := resolver.Resolve(name); ok {
				codes[i] = iso3
			}
		}
		f.SetColumn("iso3", codes)
	}

	if p := spec.Percent; p != nil && f.Has(p.Source) {
		f.SetColumn(p.Target, coercePercents(f.Column(p.Source)))
	}
	for _, col := range spec.FloatColumns {
		f.SetColumn(col, coerceFloats(columnOrEmpty(f, col)))
	}
	for _, col := range spec.IntColumns {
		f.SetColumn(col, coerceIntegers(columnOrEmpty(f, col)))
	}
	if fl := spec.Flag; fl != nil {
		f.SetColumn(fl.Target, coerceFlags(columnOrEmpty(f, fl.Source)))
	}
	return f
}

func columnOrEmpty(f *domain.Frame, col string) []string {
	if values := f.Column(col); values != nil {
		return values
	}
	return make([]string, len(f.Rows))
}

// Cleaner turns the raw workbooks into cleaned artifacts
type Cleaner struct {
	paths     *config.Paths
	sheet     string
	resolver  CountryResolver
	writer    *exporter.CSVWriter
	telemetry *infrastructure.Telemetry
	logger    *slog.Logger
	out       io.Writer
}

// Option configures a Cleaner
type Option func(*Cleaner)

// WithSheet reads the named sheet instead of the first one
func WithSheet(sheet string) Option {
	return func(c *Cleaner) { c.sheet = sheet }
}

// WithResolver replaces the default country resolver
func WithResolver(r CountryResolver) Option {
	return func(c *Cleaner) { c.resolver = r }
}

// WithTelemetry enables spans and row counters
func WithTelemetry(t *infrastructure.Telemetry) Option {
	return func(c *Cleaner) { c.telemetry = t }
}

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Cleaner) { c.logger = l }
}

// WithOutput sets where shape lines are printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Cleaner) { c.out = w }
}

// NewCleaner creates a cleaner reading from paths.RawDir and writing to paths.CleanDir
func NewCleaner(paths *config.Paths, opts ...Option) *Cleaner {
	c := &Cleaner{
		paths:    paths,
		resolver: NewLibraryResolver(),
		writer:   exporter.NewCSVWriter(paths),
		logger:   slog.Default(),
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clean runs the pipeline of one dataset and returns the cleaned frame.
func (c *Cleaner) Clean(ctx context.Context, d domain.Dataset) (*domain.Frame, error) {
	spec, ok := SpecFor(d)
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown dataset %q", d))
	}

	ctx, span := c.telemetry.StartSpan(ctx, "clean."+string(d), attribute.String("dataset", string(d)))
	defer span.End()

	src := c.paths.RawFile(d)
	if !config.FileExists(src) {
		err := apperrors.NewNotFoundError(d.RawFileName(), nil).WithContext("path", src)
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	raw, err := ReadWorkbook(src, c.sheet)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, fmt.Errorf("clean %s: %w", d, err)
	}

	cleaned := CleanFrame(raw, spec, c.resolver)

	dst := c.paths.CleanFile(d)
	if err := c.writer.WriteFrame(dst, cleaned); err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, fmt.Errorf("clean %s: %w", d, err)
	}

	rows, cols := cleaned.Shape()
	c.telemetry.RecordCleaned(ctx, string(d), rows)
	c.logger.InfoContext(ctx, "Dataset cleaned",
		slog.String("dataset", string(d)),
		slog.String("source", src),
		slog.String("artifact", dst),
		slog.Int("rows", rows),
		slog.Int("columns", cols))
	fmt.Fprintf(c.out, "✔ %s cleaned: (%d, %d)\n", d.DisplayName(), rows, cols)
	return cleaned, nil
}

// Steps returns one operation step per dataset, all datasets when none are given
func (c *Cleaner) Steps(datasets ...domain.Dataset) []operations.Step {
	if len(datasets) == 0 {
		datasets = domain.AllDatasets()
	}
	var steps []operations.Step
	for _, d := range datasets {
		steps = append(steps, operations.NewStep(string(d), "Clean "+d.DisplayName(),
			func(ctx context.Context, state *operations.OperationState) error {
				frame, err := c.Clean(ctx, d)
				if err != nil {
					return err
				}
				rows, _ := frame.Shape()
				state.GetStage(string(d)).SetMetadata("rows", rows)
				return nil
			}))
	}
	return steps
}

// CleanAll cleans every dataset. A failing dataset does not stop the others;
// the failures are returned joined.
func (c *Cleaner) CleanAll(ctx context.Context) error {
	return c.CleanDatasets(ctx)
}

// CleanDatasets reruns the pipelines of the given datasets, every dataset
// when none are given. Failures are handled as in CleanAll.
func (c *Cleaner) CleanDatasets(ctx context.Context, datasets ...domain.Dataset) error {
	if err := c.paths.EnsureDirectories(); err != nil {
		return apperrors.NewStorageError("failed to prepare output directories", err)
	}

	steps := c.Steps(datasets...)
	manager := operations.NewManager(&operations.Config{Policy: operations.ContinueOnError}, c.telemetry, c.logger)
	state, err := manager.Execute(ctx, "clean", steps)
	if err != nil {
		if state != nil {
			var failed []string
			for _, s := range state.GetFailedStages() {
				failed = append(failed, s.ID)
			}
			c.logger.ErrorContext(ctx, "Datasets failed to clean",
				slog.Any("datasets", failed),
				slog.Int("failed", len(failed)),
				slog.Int("requested", len(steps)))
		}
		return err
	}

	if len(datasets) == 0 {
		fmt.Fprintf(c.out, "🎉 All datasets cleaned and saved in %s\n", c.paths.CleanDir)
	} else {
		fmt.Fprintf(c.out, "🎉 %d of %d datasets cleaned and saved in %s\n",
			len(steps), len(domain.AllDatasets()), c.paths.CleanDir)
	}
	return nil
}
