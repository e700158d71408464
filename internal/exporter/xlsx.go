package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"footlens/pkg/contracts/domain"
)

// SheetName is the worksheet every XLSX export is written to
const SheetName = "Injuries"

// WriteXLSX writes the frame to a single-sheet workbook. Numbers are stored as
// numeric cells rounded to 2 decimal places; missing numbers are left blank.
func WriteXLSX(w io.Writer, frame domain.Frame) error {
	if err := frame.Validate(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(frame.Columns))
	for i, name := range frame.Columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: name}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range frame.Rows {
		values := make([]interface{}, len(row))
		for j, cell := range row {
			values[j] = xlsxValue(cell)
		}
		ref, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(ref, values); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func xlsxValue(c domain.Cell) interface{} {
	if c.Kind != domain.KindNumber {
		return c.Text
	}
	if !c.Number.Valid {
		return nil
	}
	return roundFloat(c.Number.Float64)
}

// ReadXLSX reads the first sheet of an XLSX export back into a frame
func ReadXLSX(r io.Reader) (domain.Frame, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.Frame{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.Frame{}, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return domain.Frame{}, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return domain.Frame{}, fmt.Errorf("sheet %q has no header row", sheets[0])
	}
	return frameFromText(rows[0], rows[1:]), nil
}
