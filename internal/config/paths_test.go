package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxetl/pkg/contracts/domain"
)

func TestNewPaths(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	paths, err := NewPaths(PathsConfig{
		RawDir:     "data/raw",
		CleanDir:   filepath.Join(dir, "abs-clean"),
		SchemaFile: "sql/create_tables.sql",
	})
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "data", "raw"), paths.RawDir)
	assert.Equal(t, filepath.Join(dir, "abs-clean"), paths.CleanDir)
	assert.Equal(t, filepath.Join(wd, "sql", "create_tables.sql"), paths.SchemaFile)
	assert.Empty(t, paths.LogsDir)
}

func TestPaths_DatasetFiles(t *testing.T) {
	paths := &Paths{RawDir: "/in", CleanDir: "/out"}

	tests := []struct {
		dataset   domain.Dataset
		wantRaw   string
		wantClean string
	}{
		{domain.DatasetCoverage, "/in/coverage-data.xlsx", "/out/coverage_clean.csv"},
		{domain.DatasetIncidence, "/in/incidence-rate-data.xlsx", "/out/incidence_clean.csv"},
		{domain.DatasetReportedCases, "/in/reported-cases-data.xlsx", "/out/reported_cases_clean.csv"},
		{domain.DatasetVaccineIntroduction, "/in/vaccine-introduction-data.xlsx", "/out/vaccine_introduction_clean.csv"},
		{domain.DatasetVaccineSchedule, "/in/vaccine-schedule-data.xlsx", "/out/vaccine_schedule_clean.csv"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dataset), func(t *testing.T) {
			assert.Equal(t, filepath.FromSlash(tt.wantRaw), paths.RawFile(tt.dataset))
			assert.Equal(t, filepath.FromSlash(tt.wantClean), paths.CleanFile(tt.dataset))
		})
	}
}

func TestPaths_LogFile(t *testing.T) {
	paths := &Paths{LogsDir: "/var/log/vaxetl"}

	assert.Equal(t, filepath.FromSlash("/var/log/vaxetl/vaxetl.log"), paths.LogFile(LoggingConfig{}))
	assert.Equal(t, "/tmp/run.log", paths.LogFile(LoggingConfig{FilePath: "/tmp/run.log"}))
	assert.Equal(t, "vaxetl.log", (&Paths{}).LogFile(LoggingConfig{}))
}

func TestPaths_EnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	paths := &Paths{
		RawDir:   filepath.Join(dir, "raw"),
		CleanDir: filepath.Join(dir, "clean", "nested"),
		LogsDir:  filepath.Join(dir, "logs"),
	}

	require.NoError(t, paths.EnsureDirectories())
	assert.DirExists(t, paths.CleanDir)
	assert.DirExists(t, paths.LogsDir)
	assert.NoDirExists(t, paths.RawDir)
	assert.True(t, FileExists(paths.CleanDir))
	assert.False(t, FileExists(paths.RawDir))
}
