// Package dataprocessing turns the raw WHO spreadsheet exports into cleaned
// artifacts.
//
// # Architecture
//
// Each dataset is described by a DatasetSpec, a declaration rather than code:
//
//  1. ReadWorkbook loads the first (or configured) sheet with excelize
//  2. NormalizeColumns lower-cases headers and joins words with underscores
//  3. The dataset's RenameTable maps alternate names ("code", "iso_3_code") to
//     canonical ones ("iso3")
//  4. A CountryResolver derives iso3 from the country name when the export
//     carries no code column
//  5. Year, counts, rates, coverage percentages and the introduction flag are
//     coerced; a value that does not parse becomes a missing cell
//
// The cleaned frame is written with exporter.CSVWriter. Cleaning is
// idempotent: rerunning on the same workbook rewrites a byte-identical file.
//
// # Usage
//
//	cleaner := dataprocessing.NewCleaner(paths, dataprocessing.WithTelemetry(tel))
//	if err := cleaner.CleanAll(ctx); err != nil {
//	    // one or more datasets failed; the others were still written
//	}
package dataprocessing
