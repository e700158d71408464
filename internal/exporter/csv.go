package exporter

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"footlens/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions configures CSV writing behavior
type CSVOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes the frame as CSV with a header row
func WriteCSV(w io.Writer, frame domain.Frame, opts CSVOptions) error {
	if err := frame.Validate(); err != nil {
		return err
	}

	if opts.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(frame.Columns); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	record := make([]string, len(frame.Columns))
	for i, row := range frame.Rows {
		for j, cell := range row {
			record[j] = formatCell(cell)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadCSV reads a CSV export back into a frame. Column kinds come from the
// column registry; unknown columns are read as text.
func ReadCSV(r io.Reader) (domain.Frame, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	records, err := csv.NewReader(br).ReadAll()
	if err != nil {
		return domain.Frame{}, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return domain.Frame{}, fmt.Errorf("CSV has no header row")
	}
	return frameFromText(records[0], records[1:]), nil
}

// frameFromText types text rows by the registered kind of each header
func frameFromText(header []string, rows [][]string) domain.Frame {
	frame := domain.Frame{
		Columns: append([]string(nil), header...),
		Kinds:   domain.KindsFor(header),
		Rows:    make([][]domain.Cell, 0, len(rows)),
	}
	for _, rec := range rows {
		row := make([]domain.Cell, len(header))
		for j, kind := range frame.Kinds {
			var s string
			if j < len(rec) {
				s = rec[j]
			}
			row[j] = parseCell(kind, s)
		}
		frame.Rows = append(frame.Rows, row)
	}
	return frame
}
