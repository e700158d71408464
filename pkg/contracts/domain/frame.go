package domain

import "fmt"

// Cell is one value of a Frame
type Cell struct {
	Kind   ColumnKind `json:"kind"`
	Text   string     `json:"text,omitempty"`
	Number NullFloat  `json:"number"`
}

// TextCell builds a text cell
func TextCell(s string) Cell {
	return Cell{Kind: KindText, Text: s}
}

// NumberCell builds a number cell
func NumberCell(n NullFloat) Cell {
	return Cell{Kind: KindNumber, Number: n}
}

// Frame is a row-major projection of the enriched table onto a column subset.
// It is the unit the exporters write and read back.
type Frame struct {
	Columns []string     `json:"columns"`
	Kinds   []ColumnKind `json:"kinds"`
	Rows    [][]Cell     `json:"rows"`
}

// Project builds a Frame of the named columns from table. An empty name list
// projects every column.
func Project(table *InjuryTable, names []string) (Frame, error) {
	cols, err := ResolveColumns(names)
	if err != nil {
		return Frame{}, err
	}

	frame := Frame{
		Columns: make([]string, len(cols)),
		Kinds:   make([]ColumnKind, len(cols)),
	}
	for i, c := range cols {
		frame.Columns[i] = c.Name
		frame.Kinds[i] = c.Kind
	}

	rows := table.Rows()
	frame.Rows = make([][]Cell, len(rows))
	for i := range rows {
		row := make([]Cell, len(cols))
		for j, c := range cols {
			row[j] = c.Cell(&rows[i])
		}
		frame.Rows[i] = row
	}
	return frame, nil
}

// KindsFor returns the registered kinds of the named columns. Unknown names
// are treated as text.
func KindsFor(names []string) []ColumnKind {
	kinds := make([]ColumnKind, len(names))
	for i, name := range names {
		kinds[i] = KindText
		if c, ok := LookupColumn(name); ok {
			kinds[i] = c.Kind
		}
	}
	return kinds
}

// Validate checks that every row has one cell per column
func (f Frame) Validate() error {
	if len(f.Kinds) != len(f.Columns) {
		return fmt.Errorf("frame has %d columns but %d kinds", len(f.Columns), len(f.Kinds))
	}
	for i, row := range f.Rows {
		if len(row) != len(f.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(f.Columns))
		}
	}
	return nil
}
