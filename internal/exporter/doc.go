// Package exporter reads and writes the cleaned CSV artifacts that connect the
// cleaner to the loader.
//
// Artifacts are written deterministically: no byte-order mark, "\n" line
// endings, a truncating write and canonical number formatting, so cleaning the
// same workbook twice yields byte-identical files. Reading an artifact yields a
// domain.Frame in which an empty cell is a missing value.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths)
//	if err := writer.WriteFrame(paths.CleanFile(domain.DatasetCoverage), frame); err != nil {
//		return err
//	}
//
//	frame, err := exporter.ReadCSV(paths.CleanFile(domain.DatasetCoverage))
package exporter
