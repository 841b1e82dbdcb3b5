package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"vaxetl/pkg/contracts/domain"
)

// Paths contains every location the pipeline reads or writes.
// It is built once from PathsConfig and passed into each stage.
type Paths struct {
	RawDir     string
	CleanDir   string
	LogsDir    string
	SchemaFile string
}

// NewPaths resolves the configured directories to absolute paths.
// Relative entries are taken from the working directory.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	resolve := func(p string) (string, error) {
		if p == "" || filepath.IsAbs(p) {
			return p, nil
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("failed to resolve path %s: %w", p, err)
		}
		return abs, nil
	}

	paths := &Paths{}
	var err error
	if paths.RawDir, err = resolve(cfg.RawDir); err != nil {
		return nil, err
	}
	if paths.CleanDir, err = resolve(cfg.CleanDir); err != nil {
		return nil, err
	}
	if paths.LogsDir, err = resolve(cfg.LogsDir); err != nil {
		return nil, err
	}
	if paths.SchemaFile, err = resolve(cfg.SchemaFile); err != nil {
		return nil, err
	}
	return paths, nil
}

// RawFile returns the spreadsheet path of a dataset
func (p *Paths) RawFile(d domain.Dataset) string {
	return filepath.Join(p.RawDir, d.RawFileName())
}

// CleanFile returns the cleaned artifact path of a dataset
func (p *Paths) CleanFile(d domain.Dataset) string {
	return filepath.Join(p.CleanDir, d.CleanFileName())
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// LogFile is the configured log file, or DefaultLogFileName inside LogsDir
func (p *Paths) LogFile(cfg LoggingConfig) string {
	if cfg.FilePath != "" {
		return cfg.FilePath
	}
	return p.GetLogPath(DefaultLogFileName)
}

// EnsureDirectories creates the output directories. The raw directory is an
// input and is never created.
func (p *Paths) EnsureDirectories() error {
	directories := []string{p.CleanDir}
	if p.LogsDir != "" {
		directories = append(directories, p.LogsDir)
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
