package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"footlens/pkg/contracts/domain"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"XLSX", FormatXLSX, false},
		{".json", FormatJSON, false},
		{" Json ", FormatJSON, false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{13.4, "13.40"},
		{0, "0.00"},
		{-1.005, "-1.00"},
		{7.8333333, "7.83"},
		{2.675, "2.67"},
		{1234567.891, "1234567.89"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatFloat(tt.input), "input %v", tt.input)
	}
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "Arsenal", formatCell(domain.TextCell("Arsenal")))
	assert.Equal(t, "", formatCell(domain.NumberCell(domain.Missing())))
	assert.Equal(t, "28.00", formatCell(domain.NumberCell(domain.Float(28))))
}

func TestParseCell(t *testing.T) {
	c := parseCell(domain.KindNumber, " 7.83 ")
	assert.True(t, c.Number.Valid)
	assert.Equal(t, 7.83, c.Number.Float64)

	assert.False(t, parseCell(domain.KindNumber, "").Number.Valid)
	assert.False(t, parseCell(domain.KindNumber, "n/a").Number.Valid)
	assert.Equal(t, " padded ", parseCell(domain.KindText, " padded ").Text)
}

func TestFormat_Metadata(t *testing.T) {
	assert.Equal(t, ".xlsx", FormatXLSX.Extension())
	assert.Equal(t, "application/json", FormatJSON.ContentType())
	assert.Contains(t, FormatCSV.ContentType(), "text/csv")
}
