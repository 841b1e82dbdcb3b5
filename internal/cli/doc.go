// Package cli implements the vaxetl command line: clean, load, run, inspect
// and version. Every command loads the configuration, applies the global
// flags on top of it, starts logging and telemetry and reports failures as
// typed errors that main maps to exit codes.
package cli
