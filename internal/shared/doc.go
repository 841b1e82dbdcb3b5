// Package shared holds helpers used across the vaxetl packages.
//
// The testutil subpackage provides a log-capturing slog handler and a
// workbook writer for tests that need raw spreadsheet input:
//
//	logger, logs := testutil.NewTestLogger(t)
//	testutil.WriteWorkbook(t, paths.RawFile(domain.DatasetCoverage), rows)
package shared
