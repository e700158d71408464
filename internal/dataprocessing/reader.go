package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"footlens/internal/errors"
)

// headerScanRows is how many leading rows of a sheet are searched for the header
const headerScanRows = 5

// ReadFile loads a raw injury table from a .csv or .xlsx file.
func ReadFile(path string) (*RawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readXLSX(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.NewDataLoadError(path, "cannot open input", err)
		}
		defer f.Close()
		return ReadCSV(path, f)
	}
}

// ReadCSV loads a raw injury table from CSV text. The first record is the
// header. Short records read as blank trailing cells; records longer than the
// header are rejected.
func ReadCSV(source string, r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewDataLoadError(source, "malformed CSV", err)
	}
	if len(records) == 0 {
		return nil, errors.NewDataLoadError(source, "input has no header row", nil)
	}
	header := records[0]
	for i, record := range records[1:] {
		if len(record) > len(header) {
			return nil, errors.NewDataLoadError(source,
				fmt.Sprintf("record %d has %d fields, header has %d", i+2, len(record), len(header)), nil)
		}
	}
	return NewRawTable(source, header, records[1:]), nil
}

// readXLSX takes the first sheet whose header row carries both the Name and
// Injury columns.
func readXLSX(path string) (*RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewDataLoadError(path, "cannot open workbook", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, errors.NewDataLoadError(path, fmt.Sprintf("cannot read sheet %q", sheet), err)
		}

		headerRow := findHeaderRow(rows)
		if headerRow < 0 {
			continue
		}

		var data [][]string
		for _, row := range rows[headerRow+1:] {
			if isBlankRow(row) {
				continue
			}
			data = append(data, row)
		}
		return NewRawTable(path, rows[headerRow], data), nil
	}

	return nil, errors.NewDataLoadError(path, "no sheet with an injury header row", nil)
}

func findHeaderRow(rows [][]string) int {
	for i := 0; i < len(rows) && i < headerScanRows; i++ {
		var hasName, hasInjury bool
		for _, cell := range rows[i] {
			switch strings.TrimSpace(cell) {
			case HeaderName:
				hasName = true
			case HeaderInjury:
				hasInjury = true
			}
		}
		if hasName && hasInjury {
			return i
		}
	}
	return -1
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
