package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"vaxetl/internal/config"
	"vaxetl/internal/dataprocessing"
	"vaxetl/internal/exporter"
	"vaxetl/internal/infrastructure"
	"vaxetl/internal/operations"
	"vaxetl/internal/store"
	"vaxetl/pkg/contracts/domain"
)

// Store is the part of the destination database the loader needs
type Store interface {
	ApplySchema(ctx context.Context, schemaFile string) error
	Append(ctx context.Context, table domain.Table, rows [][]string) (int64, error)
	FetchKeys(ctx context.Context, table, keyColumn string) ([]store.KeyRow, error)
}

// droppedColumns are carried by some exports but never loaded
var droppedColumns = []string{"group"}

// Loader loads cleaned artifacts into a Store
type Loader struct {
	store     Store
	paths     *config.Paths
	telemetry *infrastructure.Telemetry
	logger    *slog.Logger
	out       io.Writer
}

// Option configures a Loader
type Option func(*Loader)

// WithTelemetry enables spans and row counters
func WithTelemetry(t *infrastructure.Telemetry) Option {
	return func(l *Loader) { l.telemetry = t }
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithOutput sets where progress lines are printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(l *Loader) { l.out = w }
}

// New creates a loader reading artifacts from paths.CleanDir
func New(st Store, paths *config.Paths, opts ...Option) *Loader {
	l := &Loader{
		store:  st,
		paths:  paths,
		logger: slog.Default(),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// run carries artifacts and key maps between the steps of one load
type run struct {
	artifacts map[domain.Dataset]*domain.Frame
	countries KeyMap
	vaccines  KeyMap
	diseases  KeyMap
}

// Run performs a full load and stops at the first failing step. Tables
// committed before the failure stay in place.
func (l *Loader) Run(ctx context.Context) error {
	manager := operations.NewManager(&operations.Config{Policy: operations.HaltOnError}, l.telemetry, l.logger)
	if _, err := manager.Execute(ctx, "load", l.Steps()); err != nil {
		return err
	}
	fmt.Fprintln(l.out, "🎉 All data loaded (normalized)")
	return nil
}

// Steps returns the load as an ordered list of operation steps
func (l *Loader) Steps() []operations.Step {
	r := &run{artifacts: make(map[domain.Dataset]*domain.Frame)}

	steps := []operations.Step{
		operations.NewStep("schema", "Create schema", func(ctx context.Context, _ *operations.OperationState) error {
			if err := l.store.ApplySchema(ctx, l.paths.SchemaFile); err != nil {
				return err
			}
			fmt.Fprintln(l.out, "✔ Database schema created")
			return nil
		}),
		operations.NewStep("artifacts", "Read cleaned artifacts", func(ctx context.Context, _ *operations.OperationState) error {
			return l.readArtifacts(ctx, r)
		}),
		l.dimensionStep(domain.CountryTable.Name, "Build country dimension", &r.countries, func() Dimension {
			return Dimension{
				Table:     domain.CountryTable,
				KeyColumn: "iso3",
				Rows:      countryRows(r.artifacts[domain.DatasetCoverage], r.artifacts[domain.DatasetVaccineIntroduction]),
			}
		}),
		l.dimensionStep(domain.VaccineTable.Name, "Build vaccine dimension", &r.vaccines, func() Dimension {
			return Dimension{
				Table:     domain.VaccineTable,
				KeyColumn: "code",
				Rows: UnionDistinct(
					DimensionSource{Frame: r.artifacts[domain.DatasetCoverage], KeyColumn: "antigen", ValueColumn: "antigen_description"},
					DimensionSource{Frame: r.artifacts[domain.DatasetVaccineSchedule], KeyColumn: "vaccinecode", ValueColumn: "vaccine_description"},
				),
			}
		}),
		l.dimensionStep(domain.DiseaseTable.Name, "Build disease dimension", &r.diseases, func() Dimension {
			return Dimension{
				Table:     domain.DiseaseTable,
				KeyColumn: "code",
				Rows: UnionDistinct(
					DimensionSource{Frame: r.artifacts[domain.DatasetIncidence], KeyColumn: "disease", ValueColumn: "disease_description"},
					DimensionSource{Frame: r.artifacts[domain.DatasetReportedCases], KeyColumn: "disease", ValueColumn: "disease_description"},
				),
			}
		}),
	}

	for _, d := range domain.AllDatasets() {
		steps = append(steps, operations.NewStep("fact."+string(d), "Load "+d.DisplayName(),
			func(ctx context.Context, state *operations.OperationState) error {
				spec := factSpec(d, r)
				written, err := l.LoadFact(ctx, r.artifacts[d], spec)
				if err != nil {
					return err
				}
				state.GetStage("fact."+string(d)).SetMetadata("rows", written)
				return nil
			}))
	}
	return steps
}

func (l *Loader) dimensionStep(id, name string, target *KeyMap, build func() Dimension) operations.Step {
	return operations.NewStep(id, name, func(ctx context.Context, state *operations.OperationState) error {
		keys, err := l.BuildDimension(ctx, build())
		if err != nil {
			return err
		}
		*target = keys
		state.GetStage(id).SetMetadata("keys", len(keys))
		return nil
	})
}

func (l *Loader) readArtifacts(ctx context.Context, r *run) error {
	for _, d := range domain.AllDatasets() {
		frame, err := exporter.ReadCSV(l.paths.CleanFile(d))
		if err != nil {
			return fmt.Errorf("read %s artifact: %w", d, err)
		}
		frame.Drop(droppedColumns...)
		r.artifacts[d] = frame

		rows, cols := frame.Shape()
		l.logger.DebugContext(ctx, "Artifact read",
			slog.String("dataset", string(d)),
			slog.Int("rows", rows),
			slog.Int("columns", cols))
	}
	return nil
}

var countryNameRenames = dataprocessing.RenameTable{{From: "countryname", To: "country"}}

// factSpec wires a dataset to its fact table and the key maps of run r
func factSpec(d domain.Dataset, r *run) FactSpec {
	country := ForeignKey{Column: "country_id", SourceColumn: "iso3", Keys: r.countries}

	switch d {
	case domain.DatasetCoverage:
		return FactSpec{
			Dataset: d,
			Table:   domain.CoverageTable,
			ForeignKeys: []ForeignKey{
				country,
				{Column: "vaccine_id", SourceColumn: "antigen", Keys: r.vaccines},
			},
		}
	case domain.DatasetIncidence:
		return FactSpec{
			Dataset: d,
			Table:   domain.IncidenceTable,
			ForeignKeys: []ForeignKey{
				country,
				{Column: "disease_id", SourceColumn: "disease", Keys: r.diseases},
			},
		}
	case domain.DatasetReportedCases:
		return FactSpec{
			Dataset: d,
			Table:   domain.ReportedCasesTable,
			ForeignKeys: []ForeignKey{
				country,
				{Column: "disease_id", SourceColumn: "disease", Keys: r.diseases},
			},
		}
	case domain.DatasetVaccineIntroduction:
		return FactSpec{
			Dataset: d,
			Table:   domain.VaccineIntroductionTable,
			Renames: countryNameRenames,
			ForeignKeys: []ForeignKey{
				country,
				// No vaccine key: the source names vaccines by description only.
				{Column: "vaccine_id"},
			},
		}
	default:
		return FactSpec{
			Dataset: d,
			Table:   domain.VaccineScheduleTable,
			Renames: countryNameRenames,
			ForeignKeys: []ForeignKey{
				country,
				{Column: "vaccine_id", SourceColumn: "vaccinecode", Keys: r.vaccines},
			},
		}
	}
}
