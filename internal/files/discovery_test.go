package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxetl/internal/config"
	"vaxetl/pkg/contracts/domain"
)

func setupDiscovery(t *testing.T) (*Discovery, *config.Paths) {
	t.Helper()
	dir := t.TempDir()
	paths := &config.Paths{
		RawDir:   filepath.Join(dir, "raw"),
		CleanDir: filepath.Join(dir, "clean"),
	}
	require.NoError(t, os.MkdirAll(paths.RawDir, 0755))
	require.NoError(t, os.MkdirAll(paths.CleanDir, 0755))
	return NewDiscovery(paths), paths
}

func touch(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDiscovery_RawFiles(t *testing.T) {
	d, paths := setupDiscovery(t)
	touch(t, paths.RawFile(domain.DatasetCoverage), "xlsx")
	touch(t, paths.RawFile(domain.DatasetVaccineSchedule), "xlsx!")

	files := d.RawFiles()
	require.Len(t, files, 5)

	assert.Equal(t, domain.DatasetCoverage, files[0].Dataset)
	assert.Equal(t, "coverage-data.xlsx", files[0].Name)
	assert.True(t, files[0].Exists)
	assert.Equal(t, int64(4), files[0].Size)

	assert.False(t, files[1].Exists)
	assert.True(t, files[4].Exists)

	missing := Missing(files)
	require.Len(t, missing, 3)
	assert.Equal(t, domain.DatasetIncidence, missing[0].Dataset)
}

func TestDiscovery_CleanFiles(t *testing.T) {
	d, paths := setupDiscovery(t)
	for _, ds := range domain.AllDatasets() {
		touch(t, paths.CleanFile(ds), "a\n")
	}

	assert.Empty(t, Missing(d.CleanFiles()))
}

func TestDiscovery_FindExcelFiles(t *testing.T) {
	d, paths := setupDiscovery(t)
	touch(t, filepath.Join(paths.RawDir, "b.xlsx"), "")
	touch(t, filepath.Join(paths.RawDir, "A.XLS"), "")
	touch(t, filepath.Join(paths.RawDir, "notes.txt"), "")
	touch(t, filepath.Join(paths.RawDir, "~$b.xlsx"), "")
	require.NoError(t, os.Mkdir(filepath.Join(paths.RawDir, "dir.xlsx"), 0755))

	files, err := d.FindExcelFiles(paths.RawDir)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"A.XLS", "b.xlsx"}, names)

	_, err = d.FindExcelFiles(filepath.Join(paths.RawDir, "nope"))
	assert.Error(t, err)
}

func TestDiscovery_UnknownWorkbooks(t *testing.T) {
	d, paths := setupDiscovery(t)
	touch(t, paths.RawFile(domain.DatasetCoverage), "")
	touch(t, filepath.Join(paths.RawDir, "coverage-data (1).xlsx"), "")

	unknown, err := d.UnknownWorkbooks()
	require.NoError(t, err)
	require.Len(t, unknown, 1)
	assert.Equal(t, "coverage-data (1).xlsx", unknown[0].Name)
}
