package exporter

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ContentType returns the media type served for f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// ParseFormat accepts "csv" or "xlsx" in any case. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Exporter renders analysis tables.
type Exporter struct {
	csv    *CSVWriter
	logger *slog.Logger
}

// New creates an exporter.
func New(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &Exporter{csv: NewCSVWriter(logger), logger: logger}
}

// Filename suggests a download name derived from the uploaded file.
func Filename(a *domain.Analysis, f Format) string {
	base := strings.TrimSuffix(filepath.Base(a.Filename), filepath.Ext(a.Filename))
	if base == "" || base == "." {
		base = "spending"
	}
	return fmt.Sprintf("%s_forecast.%s", base, f)
}

// Export writes a in format f to w.
func (e *Exporter) Export(w io.Writer, a *domain.Analysis, f Format) error {
	var err error
	switch f {
	case FormatCSV:
		err = e.csv.WriteCSV(w, e.csvOptions(a))
	case FormatXLSX:
		err = writeWorkbook(w, a)
	default:
		err = fmt.Errorf("unsupported export format %q", f)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", f, err)
	}
	e.logger.Info("analysis exported",
		slog.String("run_id", a.RunID),
		slog.String("format", string(f)),
		slog.Int("daily_rows", len(a.Daily)),
		slog.Int("forecast_rows", len(a.Forecast)))
	return nil
}

// ExportFile writes a to path. The format comes from the path extension.
func (e *Exporter) ExportFile(path string, a *domain.Analysis) error {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return err
	}
	if f == FormatCSV {
		return e.csv.WriteFile(path, e.csvOptions(a))
	}
	var buf bytes.Buffer
	if err := e.Export(&buf, a, f); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func (e *Exporter) csvOptions(a *domain.Analysis) WriteOptions {
	return WriteOptions{
		Headers:   combinedHeaders,
		Records:   combinedRows(a),
		BOMPrefix: true,
	}
}
