package domain

// InjuryTable is an immutable enriched table. Every accessor hands out copies,
// so a published table can be shared by concurrent readers without locking.
type InjuryTable struct {
	rows []InjuryRecord
}

// NewInjuryTable copies rows into a new table
func NewInjuryTable(rows []InjuryRecord) *InjuryTable {
	owned := make([]InjuryRecord, len(rows))
	copy(owned, rows)
	return &InjuryTable{rows: owned}
}

// Len returns the number of rows
func (t *InjuryTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Rows returns a copy of every row
func (t *InjuryTable) Rows() []InjuryRecord {
	if t == nil {
		return nil
	}
	out := make([]InjuryRecord, len(t.rows))
	copy(out, t.rows)
	return out
}

// Row returns a copy of row i
func (t *InjuryTable) Row(i int) InjuryRecord {
	return t.rows[i]
}

// Where returns a new table holding the rows for which keep is true.
func (t *InjuryTable) Where(keep func(r *InjuryRecord) bool) *InjuryTable {
	out := &InjuryTable{}
	if t == nil {
		return out
	}
	for i := range t.rows {
		r := t.rows[i]
		if keep(&r) {
			out.rows = append(out.rows, t.rows[i])
		}
	}
	return out
}
