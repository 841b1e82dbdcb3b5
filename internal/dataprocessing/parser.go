package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "vaxetl/internal/errors"
	"vaxetl/pkg/contracts/domain"
)

// ReadWorkbook loads one sheet of a workbook into a frame. An empty sheet name
// selects the first sheet. The first non-empty row is the header; fully empty
// rows are skipped and short rows are padded with missing cells.
func ReadWorkbook(filePath, sheet string) (*domain.Frame, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).WithContext("path", filePath)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError("workbook has no sheets", nil).WithContext("path", filePath)
		}
		sheet = sheets[0]
	}

	// Raw values keep numbers as stored instead of as displayed, so a year
	// formatted "2,020" still reads 2020.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err).
			WithContext("path", filePath)
	}

	frame := rowsToFrame(rows)
	r, c := frame.Shape()
	slog.Debug("Workbook loaded",
		slog.String("path", filePath),
		slog.String("sheet_name", sheet),
		slog.Int("rows", r),
		slog.Int("columns", c))
	return frame, nil
}

func rowsToFrame(rows [][]string) *domain.Frame {
	var (
		header []string
		data   [][]string
		width  int
	)
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if header == nil {
			header = row
		} else {
			data = append(data, row)
		}
		if len(row) > width {
			width = len(row)
		}
	}
	return domain.NewFrame(headerNames(header, width), data)
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// headerNames names blank header cells "Unnamed: N" and suffixes repeated
// names with ".1", ".2" so every column is addressable.
func headerNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = header[i]
		}
		if strings.TrimSpace(name) == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n)
		} else {
			seen[name] = 1
		}
		names[i] = name
	}
	return names
}
