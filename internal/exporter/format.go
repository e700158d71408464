package exporter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"footlens/internal/errors"
	"footlens/pkg/contracts/domain"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// Formats lists the supported formats
var Formats = []Format{FormatCSV, FormatXLSX, FormatJSON}

// ParseFormat validates a format name, accepting a leading dot and any case
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")); f {
	case FormatCSV, FormatXLSX, FormatJSON:
		return f, nil
	default:
		return "", errors.NewAppValidationError(fmt.Sprintf("unsupported export format: %s", s)).
			WithContext("format", s)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Extension returns the file extension including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// formatFloat formats a value with exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(roundFloat(f), 'f', 2, 64)
}

// roundFloat rounds to the 2 decimal places every export uses
func roundFloat(f float64) float64 {
	return math.Round(f*100) / 100
}

// formatCell renders a cell as delimited text; missing numbers are empty
func formatCell(c domain.Cell) string {
	if c.Kind != domain.KindNumber {
		return c.Text
	}
	if !c.Number.Valid {
		return ""
	}
	return formatFloat(c.Number.Float64)
}

// parseCell reads delimited text back into a cell of the given kind
func parseCell(kind domain.ColumnKind, s string) domain.Cell {
	if kind != domain.KindNumber {
		return domain.TextCell(s)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.NumberCell(domain.Missing())
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return domain.NumberCell(domain.Missing())
	}
	return domain.NumberCell(domain.Float(v))
}
