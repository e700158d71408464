package exporter

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"footlens/internal/errors"
	"footlens/internal/infrastructure"
	"footlens/pkg/contracts/domain"
)

// Write serialises frame in the given format
func Write(w io.Writer, format Format, frame domain.Frame) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, frame, CSVOptions{BOMPrefix: true})
	case FormatXLSX:
		return WriteXLSX(w, frame)
	case FormatJSON:
		return WriteJSON(w, frame)
	default:
		_, err := ParseFormat(string(format))
		return err
	}
}

// Read parses an export of the given format
func Read(r io.Reader, format Format) (domain.Frame, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatXLSX:
		return ReadXLSX(r)
	case FormatJSON:
		return ReadJSON(r)
	default:
		_, err := ParseFormat(string(format))
		return domain.Frame{}, err
	}
}

// ReadFile reads an export, taking the format from the file extension
func ReadFile(path string) (domain.Frame, error) {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return domain.Frame{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return domain.Frame{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return Read(f, format)
}

// Exporter projects tables and writes them, recording export metrics
type Exporter struct {
	logger  *slog.Logger
	metrics *infrastructure.DataMetrics
}

// NewExporter creates an exporter. metrics may be nil.
func NewExporter(logger *slog.Logger, metrics *infrastructure.DataMetrics) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		logger:  infrastructure.WithComponent(logger, "exporter"),
		metrics: metrics,
	}
}

// Export writes the named columns of table to w. An empty column list
// exports every column.
func (e *Exporter) Export(ctx context.Context, w io.Writer, table *domain.InjuryTable, format Format, columns []string) error {
	frame, err := domain.Project(table, columns)
	if err != nil {
		return errors.NewAppValidationError(err.Error())
	}
	if err := Write(w, format, frame); err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return appErr
		}
		return errors.NewExportError(string(format), err)
	}

	e.metrics.RecordExport(ctx, string(format), len(frame.Rows))
	e.logger.InfoContext(ctx, "Export written",
		slog.String("format", string(format)),
		slog.Int("rows", len(frame.Rows)),
		slog.Int("columns", len(frame.Columns)))
	return nil
}

// ExportFile writes an export to path, creating the directory if needed
func (e *Exporter) ExportFile(ctx context.Context, table *domain.InjuryTable, format Format, columns []string, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewExportError(string(format), fmt.Errorf("failed to create directory: %w", err))
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.NewExportError(string(format), fmt.Errorf("failed to create file: %w", err))
	}

	if err := e.Export(ctx, f, table, format, columns); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return errors.NewExportError(string(format), err)
	}
	e.logger.DebugContext(ctx, "Export file closed", slog.String("path", path))
	return nil
}
