package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxetl/internal/config"
	apperrors "vaxetl/internal/errors"
	"vaxetl/pkg/contracts/domain"
)

func setupWriter(t *testing.T) (*CSVWriter, string) {
	t.Helper()
	dir := t.TempDir()
	return NewCSVWriter(&config.Paths{CleanDir: filepath.Join(dir, "clean")}), dir
}

func TestCSVWriter_WriteFrame(t *testing.T) {
	writer, dir := setupWriter(t)

	frame := domain.NewFrame(
		[]string{"iso3", "country", "coverage_percent"},
		[][]string{
			{"USA", "United States", "95.0"},
			{"CIV", "Côte d'Ivoire, Rep.", ""},
		},
	)

	require.NoError(t, writer.WriteFrame("coverage_clean.csv", frame))

	data, err := os.ReadFile(filepath.Join(dir, "clean", "coverage_clean.csv"))
	require.NoError(t, err)

	want := "iso3,country,coverage_percent\n" +
		"USA,United States,95.0\n" +
		"CIV,\"Côte d'Ivoire, Rep.\",\n"
	assert.Equal(t, want, string(data))
	assert.False(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}), "artifacts carry no BOM")
}

func TestCSVWriter_TruncatesOnRewrite(t *testing.T) {
	writer, dir := setupWriter(t)
	path := filepath.Join(dir, "out.csv")

	long := domain.NewFrame([]string{"a"}, [][]string{{"1"}, {"2"}, {"3"}})
	short := domain.NewFrame([]string{"a"}, [][]string{{"1"}})

	require.NoError(t, writer.WriteFrame(path, long))
	require.NoError(t, writer.WriteFrame(path, short))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n", string(data))
}

func TestCSVWriter_Deterministic(t *testing.T) {
	writer, dir := setupWriter(t)
	frame := domain.NewFrame([]string{"x", "y"}, [][]string{{"1", "a"}, {"", "b"}})

	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")
	require.NoError(t, writer.WriteFrame(first, frame))
	require.NoError(t, writer.WriteFrame(second, frame))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestReadCSV(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		content  string
		wantCols []string
		wantRows [][]string
		wantType apperrors.ErrorType
	}{
		{
			name:     "header and rows",
			content:  "iso3,year\nUSA,2020\nFRA,\n",
			wantCols: []string{"iso3", "year"},
			wantRows: [][]string{{"USA", "2020"}, {"FRA", ""}},
		},
		{
			name:     "short rows are padded",
			content:  "a,b,c\n1\n",
			wantCols: []string{"a", "b", "c"},
			wantRows: [][]string{{"1", "", ""}},
		},
		{
			name:     "empty file",
			content:  "",
			wantType: apperrors.ErrTypeParsing,
		},
		{
			name:     "malformed quoting",
			content:  "a,b\n\"unterminated,1\n",
			wantType: apperrors.ErrTypeParsing,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, string(rune('a'+i))+".csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			frame, err := ReadCSV(path)
			if tt.wantType != "" {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, tt.wantType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCols, frame.Columns)
			assert.Equal(t, tt.wantRows, frame.Rows)
		})
	}
}

func TestReadCSV_Missing(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}
