package dataprocessing

import (
	"fmt"
	"strings"

	"footlens/pkg/contracts/domain"
)

// Raw column headers of the injury file
const (
	HeaderName       = "Name"
	HeaderTeam       = "Team Name"
	HeaderPosition   = "Position"
	HeaderAge        = "Age"
	HeaderSeason     = "Season"
	HeaderFIFARating = "FIFA rating"
	HeaderInjury     = "Injury"
	HeaderInjuryDate = "Date of Injury"
	HeaderReturnDate = "Date of return"
)

// Per-match header builders. n is 1-based.
func headerRatingBefore(n int) string { return fmt.Sprintf("Match%d_before_injury_Player_rating", n) }
func headerRatingAfter(n int) string  { return fmt.Sprintf("Match%d_after_injury_Player_rating", n) }
func headerGDBefore(n int) string     { return fmt.Sprintf("Match%d_before_injury_GD", n) }
func headerGDMissed(n int) string     { return fmt.Sprintf("Match%d_missed_match_GD", n) }
func headerGDAfter(n int) string      { return fmt.Sprintf("Match%d_after_injury_GD", n) }
func headerResultBefore(n int) string { return fmt.Sprintf("Match%d_before_injury_Result", n) }
func headerResultMissed(n int) string { return fmt.Sprintf("Match%d_missed_match_Result", n) }

// RequiredHeaders lists the columns a raw table must carry
func RequiredHeaders() []string {
	headers := []string{
		HeaderName, HeaderTeam, HeaderPosition, HeaderAge,
		HeaderInjury, HeaderInjuryDate, HeaderReturnDate,
	}
	for n := 1; n <= domain.MatchesPerWindow; n++ {
		headers = append(headers,
			headerRatingBefore(n),
			headerRatingAfter(n),
			headerGDBefore(n),
			headerGDMissed(n),
			headerResultBefore(n),
			headerResultMissed(n),
		)
	}
	return headers
}

// OptionalHeaders lists columns that are read when present and treated as
// all-missing otherwise.
func OptionalHeaders() []string {
	headers := []string{HeaderSeason, HeaderFIFARating}
	for n := 1; n <= domain.MatchesPerWindow; n++ {
		headers = append(headers, headerGDAfter(n))
	}
	return headers
}

// RawTable is the untyped content of an injury file: a header row and text
// rows addressed by header name.
type RawTable struct {
	Source  string
	Headers []string
	Rows    [][]string

	index map[string]int
}

// NewRawTable builds a RawTable. Headers are trimmed and a leading UTF-8 BOM
// is dropped.
func NewRawTable(source string, headers []string, rows [][]string) *RawTable {
	t := &RawTable{
		Source:  source,
		Headers: make([]string, len(headers)),
		Rows:    rows,
		index:   make(map[string]int, len(headers)),
	}
	for i, h := range headers {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.Headers[i] = h
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	return t
}

// Len returns the number of data rows
func (t *RawTable) Len() int {
	return len(t.Rows)
}

// Has reports whether the header is present
func (t *RawTable) Has(header string) bool {
	_, ok := t.index[header]
	return ok
}

// Value returns the cell of row under header. Absent headers and short rows
// read as "".
func (t *RawTable) Value(row int, header string) string {
	i, ok := t.index[header]
	if !ok || i >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][i]
}

// MissingHeaders returns the required headers that are absent, in order.
func (t *RawTable) MissingHeaders() []string {
	var missing []string
	for _, h := range RequiredHeaders() {
		if !t.Has(h) {
			missing = append(missing, h)
		}
	}
	return missing
}
