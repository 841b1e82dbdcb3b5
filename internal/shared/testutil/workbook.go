package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// WriteWorkbook saves rows into the first sheet of a new workbook at path.
// A nil cell leaves the spreadsheet cell empty.
func WriteWorkbook(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()
	WriteSheet(t, path, "Sheet1", rows)
}

// WriteSheet is WriteWorkbook with the first sheet renamed to sheet.
func WriteSheet(t *testing.T, path, sheet string, rows [][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	if first := f.GetSheetName(0); first != sheet {
		require.NoError(t, f.SetSheetName(first, sheet))
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		require.NoError(t, err)
		values := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}
	require.NoError(t, f.SaveAs(path))
}
