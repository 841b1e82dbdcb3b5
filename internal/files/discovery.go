package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"vaxetl/internal/config"
	"vaxetl/pkg/contracts/domain"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// DatasetFile is the expected location of one dataset's file
type DatasetFile struct {
	Dataset domain.Dataset
	FileInfo
	Exists bool
}

// Discovery provides file discovery operations
type Discovery struct {
	paths *config.Paths
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(paths *config.Paths) *Discovery {
	return &Discovery{paths: paths}
}

// RawFiles reports the workbook of every dataset, in run order
func (d *Discovery) RawFiles() []DatasetFile {
	return d.datasetFiles(d.paths.RawFile)
}

// CleanFiles reports the cleaned artifact of every dataset, in run order
func (d *Discovery) CleanFiles() []DatasetFile {
	return d.datasetFiles(d.paths.CleanFile)
}

func (d *Discovery) datasetFiles(locate func(domain.Dataset) string) []DatasetFile {
	datasets := domain.AllDatasets()
	out := make([]DatasetFile, 0, len(datasets))
	for _, ds := range datasets {
		path := locate(ds)
		df := DatasetFile{Dataset: ds, FileInfo: FileInfo{Path: path, Name: filepath.Base(path)}}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			df.Exists = true
			df.Size = info.Size()
			df.ModTime = info.ModTime()
		}
		out = append(out, df)
	}
	return out
}

// Missing returns the entries of files that do not exist
func Missing(files []DatasetFile) []DatasetFile {
	var missing []DatasetFile
	for _, f := range files {
		if !f.Exists {
			missing = append(missing, f)
		}
	}
	return missing
}

// FindExcelFiles finds all Excel files in dir, sorted by name
func (d *Discovery) FindExcelFiles(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		lower := strings.ToLower(name)
		if strings.HasPrefix(name, "~$") {
			// Excel lock file
			continue
		}
		if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls") {
			info, err := entry.Info()
			if err != nil {
				continue
			}

			files = append(files, FileInfo{
				Path:    filepath.Join(dir, name),
				Name:    name,
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// UnknownWorkbooks returns the workbooks in the raw directory that belong to
// no dataset
func (d *Discovery) UnknownWorkbooks() ([]FileInfo, error) {
	found, err := d.FindExcelFiles(d.paths.RawDir)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool)
	for _, ds := range domain.AllDatasets() {
		known[ds.RawFileName()] = true
	}

	var unknown []FileInfo
	for _, f := range found {
		if !known[f.Name] {
			unknown = append(unknown, f)
		}
	}
	return unknown, nil
}
