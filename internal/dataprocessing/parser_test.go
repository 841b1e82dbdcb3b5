package dataprocessing

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "vaxetl/internal/errors"
	"vaxetl/internal/shared/testutil"
)

func TestReadWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coverage-data.xlsx")
	testutil.WriteSheet(t, path, "Data", [][]interface{}{
		{"CODE", "NAME", "ANTIGEN", "YEAR", "COVERAGE"},
		{"USA", "United States", "DTP3", 2020, "95%"},
		{nil, nil, nil, nil, nil},
		{"FRA", "France", "MCV1", 2019},
	})

	frame, err := ReadWorkbook(path, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"CODE", "NAME", "ANTIGEN", "YEAR", "COVERAGE"}, frame.Columns)
	require.Len(t, frame.Rows, 2, "blank rows are skipped")
	assert.Equal(t, []string{"USA", "United States", "DTP3", "2020", "95%"}, frame.Rows[0])
	assert.Equal(t, []string{"FRA", "France", "MCV1", "2019", ""}, frame.Rows[1], "short rows are padded")
}

func TestReadWorkbook_NamedSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	testutil.WriteSheet(t, path, "Coverage", [][]interface{}{{"a"}, {"1"}})

	frame, err := ReadWorkbook(path, "Coverage")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, frame.Columns)

	_, err = ReadWorkbook(path, "Nope")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

func TestReadWorkbook_NotAWorkbook(t *testing.T) {
	_, err := ReadWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

func TestHeaderNames(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		width  int
		want   []string
	}{
		{
			name:   "plain",
			header: []string{"a", "b"},
			width:  2,
			want:   []string{"a", "b"},
		},
		{
			name:   "blank cells are unnamed",
			header: []string{"a", " ", "c"},
			width:  3,
			want:   []string{"a", "Unnamed: 1", "c"},
		},
		{
			name:   "wider data than header",
			header: []string{"a"},
			width:  3,
			want:   []string{"a", "Unnamed: 1", "Unnamed: 2"},
		},
		{
			name:   "duplicates are suffixed",
			header: []string{"x", "x", "y", "x"},
			width:  4,
			want:   []string{"x", "x.1", "y", "x.2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, headerNames(tt.header, tt.width))
		})
	}
}
