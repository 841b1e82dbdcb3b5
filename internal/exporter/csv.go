package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"vaxetl/internal/config"
	apperrors "vaxetl/internal/errors"
	"vaxetl/pkg/contracts/domain"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter creates a new CSV writer instance. paths may be nil when every
// target is absolute.
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers []string
	Records [][]string
}

// WriteCSV writes data to a CSV file, replacing any existing content
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	slog.Debug("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err)
	}

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return apperrors.NewStorageError("failed to open file", err).WithContext("path", fullPath)
	}
	defer file.Close()

	if err := writeRecords(file, options.Headers, options.Records); err != nil {
		return err
	}
	return file.Close()
}

// WriteFrame writes a frame as a cleaned artifact
func (w *CSVWriter) WriteFrame(filePath string, frame *domain.Frame) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers: frame.Columns,
		Records: frame.Rows,
	})
}

func writeRecords(out io.Writer, headers []string, records [][]string) error {
	writer := csv.NewWriter(out)

	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// resolvePath places relative paths in the clean directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.paths == nil {
		return filePath
	}
	return filepath.Join(w.paths.CleanDir, filePath)
}

// ReadCSV loads an artifact into a frame. The first record is the header and
// short records are padded with missing cells.
func ReadCSV(filePath string) (*domain.Frame, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError(filepath.Base(filePath), err).WithContext("path", filePath)
		}
		return nil, apperrors.NewStorageError("failed to open file", err).WithContext("path", filePath)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read CSV", err).WithContext("path", filePath)
	}
	if len(records) == 0 {
		return nil, apperrors.NewParsingError("CSV has no header", nil).WithContext("path", filePath)
	}

	headers := records[0]
	if len(headers) > 0 {
		headers[0] = trimBOM(headers[0])
	}
	return domain.NewFrame(headers, records[1:]), nil
}

func trimBOM(s string) string {
	const bom = "\ufeff"
	if len(s) >= len(bom) && s[:len(bom)] == bom {
		return s[len(bom):]
	}
	return s
}
