package domain

import (
	"fmt"
	"strings"
)

// ColumnKind tells whether a column holds text or numbers
type ColumnKind string

const (
	KindText   ColumnKind = "text"
	KindNumber ColumnKind = "number"
)

// Column describes one named column of the enriched table and how to read it
// from an InjuryRecord.
type Column struct {
	Name string
	Kind ColumnKind

	text   func(r *InjuryRecord) string
	number func(r *InjuryRecord) NullFloat
	ref    func(r *InjuryRecord) *NullFloat
}

// Text returns the value of a text column. Number columns are formatted.
func (c Column) Text(r *InjuryRecord) string {
	if c.Kind == KindText {
		return c.text(r)
	}
	n := c.number(r)
	if !n.Valid {
		return ""
	}
	return fmt.Sprintf("%g", n.Float64)
}

// Number returns the value of a number column, missing for text columns.
func (c Column) Number(r *InjuryRecord) NullFloat {
	if c.Kind != KindNumber {
		return NullFloat{}
	}
	return c.number(r)
}

// Ref returns a pointer to the column's storage in r, or nil when the column
// is text or computed on the fly (win counts).
func (c Column) Ref(r *InjuryRecord) *NullFloat {
	if c.ref == nil {
		return nil
	}
	return c.ref(r)
}

// Stored reports whether the column is backed by a NullFloat field that Ref
// can address.
func (c Column) Stored() bool {
	return c.ref != nil
}

// Cell reads the column value of r as a Cell.
func (c Column) Cell(r *InjuryRecord) Cell {
	if c.Kind == KindNumber {
		return NumberCell(c.number(r))
	}
	return TextCell(c.text(r))
}

func textColumn(name string, fn func(r *InjuryRecord) string) Column {
	return Column{Name: name, Kind: KindText, text: fn}
}

func floatColumn(name string, ref func(r *InjuryRecord) *NullFloat) Column {
	return Column{
		Name:   name,
		Kind:   KindNumber,
		number: func(r *InjuryRecord) NullFloat { return *ref(r) },
		ref:    ref,
	}
}

func intColumn(name string, fn func(r *InjuryRecord) int) Column {
	return Column{
		Name:   name,
		Kind:   KindNumber,
		number: func(r *InjuryRecord) NullFloat { return Float(float64(fn(r))) },
	}
}

var (
	columns     []Column
	columnIndex map[string]int
)

func init() {
	columns = []Column{
		textColumn("name", func(r *InjuryRecord) string { return r.Name }),
		textColumn("team_name", func(r *InjuryRecord) string { return r.TeamName }),
		textColumn("position", func(r *InjuryRecord) string { return r.Position }),
		textColumn("season", func(r *InjuryRecord) string { return r.Season }),
		floatColumn("age", func(r *InjuryRecord) *NullFloat { return &r.Age }),
		floatColumn("fifa_rating", func(r *InjuryRecord) *NullFloat { return &r.FIFARating }),
		textColumn("injury", func(r *InjuryRecord) string { return r.Injury }),
		textColumn("injury_date", func(r *InjuryRecord) string { return r.InjuryDate.String() }),
		textColumn("return_date", func(r *InjuryRecord) string { return r.ReturnDate.String() }),
	}

	for i := 0; i < MatchesPerWindow; i++ {
		i := i
		n := i + 1
		columns = append(columns,
			floatColumn(fmt.Sprintf("match%d_before_injury_player_rating", n), func(r *InjuryRecord) *NullFloat { return &r.RatingsBefore[i] }),
			floatColumn(fmt.Sprintf("match%d_after_injury_player_rating", n), func(r *InjuryRecord) *NullFloat { return &r.RatingsAfter[i] }),
			floatColumn(fmt.Sprintf("match%d_before_injury_gd", n), func(r *InjuryRecord) *NullFloat { return &r.GDBefore[i] }),
			floatColumn(fmt.Sprintf("match%d_missed_match_gd", n), func(r *InjuryRecord) *NullFloat { return &r.GDMissed[i] }),
			floatColumn(fmt.Sprintf("match%d_after_injury_gd", n), func(r *InjuryRecord) *NullFloat { return &r.GDAfter[i] }),
			textColumn(fmt.Sprintf("match%d_before_injury_result", n), func(r *InjuryRecord) string { return r.ResultsBefore[i] }),
			textColumn(fmt.Sprintf("match%d_missed_match_result", n), func(r *InjuryRecord) string { return r.ResultsMissed[i] }),
		)
	}

	columns = append(columns,
		floatColumn("injury_duration_days", func(r *InjuryRecord) *NullFloat { return &r.InjuryDurationDays }),
		floatColumn("injury_month", func(r *InjuryRecord) *NullFloat { return &r.InjuryMonth }),
		floatColumn("injury_year", func(r *InjuryRecord) *NullFloat { return &r.InjuryYear }),
		floatColumn("injury_quarter", func(r *InjuryRecord) *NullFloat { return &r.InjuryQuarter }),
		textColumn("injury_month_name", func(r *InjuryRecord) string { return r.InjuryMonthName }),
		floatColumn("avg_rating_before", func(r *InjuryRecord) *NullFloat { return &r.AvgRatingBefore }),
		floatColumn("avg_rating_after", func(r *InjuryRecord) *NullFloat { return &r.AvgRatingAfter }),
		floatColumn("performance_drop_index", func(r *InjuryRecord) *NullFloat { return &r.PerformanceDropIndex }),
		floatColumn("avg_gd_before", func(r *InjuryRecord) *NullFloat { return &r.AvgGDBefore }),
		floatColumn("team_performance_during_absence", func(r *InjuryRecord) *NullFloat { return &r.TeamPerformanceDuringAbsence }),
		floatColumn("team_performance_drop", func(r *InjuryRecord) *NullFloat { return &r.TeamPerformanceDrop }),
		floatColumn("avg_gd_after", func(r *InjuryRecord) *NullFloat { return &r.AvgGDAfter }),
		intColumn("win_count_before", func(r *InjuryRecord) int { return r.WinCountBefore }),
		intColumn("win_count_during", func(r *InjuryRecord) int { return r.WinCountDuring }),
		textColumn("injury_severity", func(r *InjuryRecord) string { return string(r.InjurySeverity) }),
		floatColumn("recovery_index", func(r *InjuryRecord) *NullFloat { return &r.RecoveryIndex }),
		floatColumn("team_impact_severity", func(r *InjuryRecord) *NullFloat { return &r.TeamImpactSeverity }),
		textColumn("age_group", func(r *InjuryRecord) string { return string(r.AgeGroup) }),
		textColumn("skill_group", func(r *InjuryRecord) string { return string(r.SkillGroup) }),
	)

	columnIndex = make(map[string]int, len(columns))
	for i, c := range columns {
		columnIndex[c.Name] = i
	}
}

// Columns returns every column of the enriched table in canonical order.
func Columns() []Column {
	out := make([]Column, len(columns))
	copy(out, columns)
	return out
}

// ColumnNames returns the canonical column names.
func ColumnNames() []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}

// NumericColumns returns the number columns in canonical order.
func NumericColumns() []Column {
	var out []Column
	for _, c := range columns {
		if c.Kind == KindNumber {
			out = append(out, c)
		}
	}
	return out
}

// LookupColumn finds a column by name. Matching ignores case and surrounding
// whitespace.
func LookupColumn(name string) (Column, bool) {
	i, ok := columnIndex[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Column{}, false
	}
	return columns[i], true
}

// ResolveColumns looks up every name, failing on the first unknown column.
// An empty list resolves to every column.
func ResolveColumns(names []string) ([]Column, error) {
	if len(names) == 0 {
		return Columns(), nil
	}
	out := make([]Column, 0, len(names))
	for _, name := range names {
		c, ok := LookupColumn(name)
		if !ok {
			return nil, fmt.Errorf("unknown column: %s", name)
		}
		out = append(out, c)
	}
	return out, nil
}
