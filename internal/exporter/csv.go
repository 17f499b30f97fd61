package exporter

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xopraneet789/cycling-performance-analysis/internal/config"
	apperrors "github.com/xopraneet789/cycling-performance-analysis/internal/errors"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers []string
	Records [][]string
}

// WriteCSV writes data to a CSV file, replacing any previous content.
// Output carries no BOM or timestamps so reruns are byte-identical.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	slog.Debug("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewOutputError("failed to create directory", err).WithContext("path", dir)
	}

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return apperrors.NewOutputError("failed to open file", err).WithContext("path", fullPath)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return apperrors.NewOutputError("failed to write headers", err).WithContext("path", fullPath)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return apperrors.NewOutputError("failed to write record", err).
				WithContext("path", fullPath).
				WithContext("record", i)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewOutputError("failed to flush CSV", err).WithContext("path", fullPath)
	}
	if err := file.Sync(); err != nil {
		return apperrors.NewOutputError("failed to sync file", err).WithContext("path", fullPath)
	}
	return nil
}

// WriteTable writes t under the output directory and returns the path written
func (w *CSVWriter) WriteTable(t Table) (string, error) {
	// WriteCSV resolves t.File itself; resolving here too would nest a
	// relative output directory inside itself.
	if err := w.WriteCSV(t.File, WriteOptions{Headers: t.Headers, Records: t.Records}); err != nil {
		return "", err
	}
	return w.resolvePath(t.File), nil
}

// resolvePath places relative names in the output directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.paths == nil {
		return filePath
	}
	return w.paths.Resolve(filePath)
}
