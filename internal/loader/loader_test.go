package loader

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxetl/internal/config"
	"vaxetl/internal/dataprocessing"
	apperrors "vaxetl/internal/errors"
	"vaxetl/internal/exporter"
	"vaxetl/internal/shared/testutil"
	"vaxetl/internal/store"
	"vaxetl/pkg/contracts/domain"
)

type fixture struct {
	paths *config.Paths
	store *store.Store
	out   *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	paths := &config.Paths{
		RawDir:   filepath.Join(dir, "raw"),
		CleanDir: filepath.Join(dir, "clean"),
	}
	require.NoError(t, os.MkdirAll(paths.RawDir, 0755))

	st, err := store.Open(context.Background(), config.StoreConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(dir, "db", "vaccination.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return &fixture{paths: paths, store: st, out: &bytes.Buffer{}}
}

func (f *fixture) writeArtifact(t *testing.T, d domain.Dataset, columns []string, rows [][]string) {
	t.Helper()
	w := exporter.NewCSVWriter(f.paths)
	require.NoError(t, w.WriteFrame(f.paths.CleanFile(d), domain.NewFrame(columns, rows)))
}

func (f *fixture) writeArtifacts(t *testing.T) {
	t.Helper()
	f.writeArtifact(t, domain.DatasetCoverage,
		[]string{"group", "iso3", "country", "antigen", "antigen_description", "year",
			"coverage_category", "coverage_category_description", "target_number",
			"doses_administered", "coverage", "coverage_percent"},
		[][]string{
			{"COUNTRIES", "USA", "United States", "DTP3", "DTP third dose", "2020", "WUENIC", "WHO/UNICEF", "", "", "95%", "95.0"},
			{"COUNTRIES", "USA", "United States", "MCV1", "Measles first dose", "2020", "WUENIC", "WHO/UNICEF", "", "", "<1", "0.5"},
			{"COUNTRIES", "FRA", "France", "DTP3", "DTP third dose", "2020", "ADMIN", "Administrative", "700000.0", "690000.0", "98.6", "98.6"},
			{"COUNTRIES", "", "Atlantis", "DTP3", "DTP third dose", "", "", "", "", "", "", ""},
		})
	f.writeArtifact(t, domain.DatasetIncidence,
		[]string{"group", "iso3", "country", "disease", "disease_description", "year", "denominator", "incidence_rate"},
		[][]string{
			{"COUNTRIES", "USA", "United States", "MEASLES", "Measles", "2020", "per 1,000,000", "0.04"},
			{"COUNTRIES", "ZZZ", "Nowhere", "POLIO", "Polio", "2020", "per 1,000,000", ""},
		})
	f.writeArtifact(t, domain.DatasetReportedCases,
		[]string{"group", "iso3", "country", "disease", "disease_description", "year", "cases"},
		[][]string{
			{"COUNTRIES", "USA", "United States", "MEASLES", "Measles", "2020", "13"},
			{"COUNTRIES", "FRA", "France", "MEASLES", "Measles", "2020", ""},
			{"COUNTRIES", "FRA", "France", "DIPHTHERIA", "Diphtheria", "2020", "2"},
		})
	f.writeArtifact(t, domain.DatasetVaccineIntroduction,
		[]string{"iso3", "country", "who_region", "year", "description", "intro", "introduced"},
		[][]string{
			{"USA", "United States", "AMR", "2005", "HepB birth dose", "Yes", "True"},
			{"FRA", "France", "EUR", "2006", "Rotavirus", "No", "False"},
		})
	f.writeArtifact(t, domain.DatasetVaccineSchedule,
		[]string{"iso3", "country", "vaccinecode", "vaccine_description", "year",
			"schedulerounds", "targetpop", "targetpop_description", "geoarea", "ageadministered", "sourcecomment"},
		[][]string{
			{"USA", "United States", "DTP3", "DTP third dose", "2021", "3", "", "General", "NATIONAL", "M6", ""},
			{"USA", "United States", "HEPB", "Hepatitis B", "2021", "1", "", "General", "NATIONAL", "B", "birth"},
		})
}

func (f *fixture) loader() *Loader {
	return New(f.store, f.paths, WithOutput(f.out))
}

func (f *fixture) count(t *testing.T, table string) int64 {
	t.Helper()
	n, err := f.store.Count(context.Background(), table)
	require.NoError(t, err)
	return n
}

// query returns every row of q as text, with NULL cells rendered as "NULL"
func (f *fixture) query(t *testing.T, q string) [][]string {
	t.Helper()
	rows, err := f.store.DB().QueryContext(context.Background(), q)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	require.NoError(t, err)
	var out [][]string
	for rows.Next() {
		cells := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range cells {
			dest[i] = &cells[i]
		}
		require.NoError(t, rows.Scan(dest...))
		row := make([]string, len(cols))
		for i, c := range cells {
			row[i] = "NULL"
			if c.Valid {
				row[i] = c.String
			}
		}
		out = append(out, row)
	}
	require.NoError(t, rows.Err())
	return out
}

func TestLoader_Run(t *testing.T) {
	f := newFixture(t)
	f.writeArtifacts(t)
	ctx := context.Background()

	require.NoError(t, f.loader().Run(ctx))

	assert.Contains(t, f.out.String(), "✔ Database schema created")
	assert.Contains(t, f.out.String(), "🎉 All data loaded")

	countries := f.query(t, `SELECT iso3, name, who_region FROM country ORDER BY id`)
	require.Len(t, countries, 3)
	assert.Equal(t, []string{"USA", "United States", "AMR"}, countries[0])
	assert.Equal(t, "NULL", countries[2][0])

	assert.Equal(t, [][]string{
		{"1", "DTP3", "DTP third dose"},
		{"2", "MCV1", "Measles first dose"},
		{"3", "HEPB", "Hepatitis B"},
	}, f.query(t, `SELECT id, code, description FROM vaccine ORDER BY id`),
		"duplicate (code, description) pairs across sources persist once")

	assert.Equal(t, int64(3), f.count(t, "disease"))

	// Fact tables keep every cleaned row.
	assert.Equal(t, int64(4), f.count(t, "coverage"))
	assert.Equal(t, int64(2), f.count(t, "incidence"))
	assert.Equal(t, int64(3), f.count(t, "reported_cases"))
	assert.Equal(t, int64(2), f.count(t, "vaccine_introduction"))
	assert.Equal(t, int64(2), f.count(t, "vaccine_schedule"))

	var unresolved int
	require.NoError(t, f.store.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM incidence WHERE country_id IS NULL`).Scan(&unresolved))
	assert.Equal(t, 1, unresolved)

	var introWithVaccine int
	require.NoError(t, f.store.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vaccine_introduction WHERE vaccine_id IS NOT NULL`).Scan(&introWithVaccine))
	assert.Zero(t, introWithVaccine)

	var scheduleVaccine int64
	require.NoError(t, f.store.DB().QueryRowContext(ctx,
		`SELECT vaccine_id FROM vaccine_schedule WHERE sourcecomment = 'birth'`).Scan(&scheduleVaccine))
	assert.Equal(t, int64(3), scheduleVaccine)
}

func TestLoader_RunTwiceStartsFresh(t *testing.T) {
	f := newFixture(t)
	f.writeArtifacts(t)
	ctx := context.Background()

	require.NoError(t, f.loader().Run(ctx))
	require.NoError(t, f.loader().Run(ctx))

	assert.Equal(t, int64(3), f.count(t, "country"))
	assert.Equal(t, int64(4), f.count(t, "coverage"))
}

func TestLoader_MissingArtifactHalts(t *testing.T) {
	f := newFixture(t)
	f.writeArtifacts(t)
	require.NoError(t, os.Remove(f.paths.CleanFile(domain.DatasetVaccineSchedule)))

	err := f.loader().Run(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	assert.NotContains(t, f.out.String(), "🎉")
	assert.Equal(t, int64(0), f.count(t, "country"), "no dimension is built after a failed read")
}

func TestLoader_BadSchemaHalts(t *testing.T) {
	f := newFixture(t)
	f.writeArtifacts(t)
	f.paths.SchemaFile = filepath.Join(t.TempDir(), "create_tables.sql")
	require.NoError(t, os.WriteFile(f.paths.SchemaFile, []byte("CREATE TABLE (;\n"), 0644))

	err := f.loader().Run(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchema))
}

// TestCleanAndLoad_USACoverage runs a workbook row through both stages.
func TestCleanAndLoad_USACoverage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	testutil.WriteWorkbook(t, f.paths.RawFile(domain.DatasetCoverage), [][]interface{}{
		{"CODE", "NAME", "ANTIGEN", "ANTIGEN_DESCRIPTION", "COVERAGE", "YEAR"},
		{"USA", "United States", "DTP3", "DTP third dose", "95%", "2020"},
	})
	testutil.WriteWorkbook(t, f.paths.RawFile(domain.DatasetIncidence), [][]interface{}{
		{"CODE", "NAME", "DISEASE", "DISEASE_DESCRIPTION", "YEAR", "INCIDENCE_RATE"},
		{"USA", "United States", "MEASLES", "Measles", 2020, 0.04},
	})
	testutil.WriteWorkbook(t, f.paths.RawFile(domain.DatasetReportedCases), [][]interface{}{
		{"CODE", "NAME", "DISEASE", "DISEASE_DESCRIPTION", "YEAR", "CASES"},
		{"USA", "United States", "MEASLES", "Measles", 2020, 13},
	})
	testutil.WriteWorkbook(t, f.paths.RawFile(domain.DatasetVaccineIntroduction), [][]interface{}{
		{"ISO_3_CODE", "COUNTRY_NAME", "WHO_REGION", "YEAR", "DESCRIPTION", "INTRO"},
		{"USA", "United States", "AMR", 2005, "HepB birth dose", "Yes"},
	})
	testutil.WriteWorkbook(t, f.paths.RawFile(domain.DatasetVaccineSchedule), [][]interface{}{
		{"ISO_3_CODE", "COUNTRY_NAME", "VACCINECODE", "VACCINE_DESCRIPTION", "YEAR"},
		{"USA", "United States", "DTP3", "DTP third dose", 2021},
	})

	cleaner := dataprocessing.NewCleaner(f.paths, dataprocessing.WithOutput(f.out))
	require.NoError(t, cleaner.CleanAll(ctx))

	artifact, err := exporter.ReadCSV(f.paths.CleanFile(domain.DatasetCoverage))
	require.NoError(t, err)
	row := artifact.Rows[0]
	assert.Equal(t, "USA", row[artifact.Index("iso3")])
	assert.Equal(t, "United States", row[artifact.Index("country")])
	assert.Equal(t, "DTP3", row[artifact.Index("antigen")])
	assert.Equal(t, "95.0", row[artifact.Index("coverage_percent")])
	assert.Equal(t, "2020", row[artifact.Index("year")])

	require.NoError(t, f.loader().Run(ctx))

	var usaID int64
	require.NoError(t, f.store.DB().QueryRowContext(ctx,
		`SELECT id FROM country WHERE iso3 = 'USA'`).Scan(&usaID))
	assert.Equal(t, int64(1), f.count(t, "country"))

	var (
		countryID, year int64
		percent         float64
	)
	require.NoError(t, f.store.DB().QueryRowContext(ctx,
		`SELECT country_id, year, coverage_percent FROM coverage`).Scan(&countryID, &year, &percent))
	assert.Equal(t, usaID, countryID)
	assert.Equal(t, int64(2020), year)
	assert.Equal(t, 95.0, percent)
}
