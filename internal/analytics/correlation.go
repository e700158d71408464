package analytics

import (
	"gonum.org/v1/gonum/stat"

	"footlens/pkg/contracts/domain"
)

// DefaultCorrelationColumns is the numeric subset shown on the dashboard heatmap
var DefaultCorrelationColumns = []string{
	"age",
	"fifa_rating",
	"injury_duration_days",
	"performance_drop_index",
	"team_performance_drop",
}

// CorrelationMatrix holds Pearson coefficients; Values[i][j] pairs
// Columns[i] with Columns[j].
type CorrelationMatrix struct {
	Columns []string             `json:"columns"`
	Values  [][]domain.NullFloat `json:"values"`
}

// At returns the coefficient of two columns
func (m *CorrelationMatrix) At(a, b string) (domain.NullFloat, bool) {
	i, j := -1, -1
	for k, c := range m.Columns {
		if c == a {
			i = k
		}
		if c == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return domain.NullFloat{}, false
	}
	return m.Values[i][j], true
}

// Correlate computes the Pearson correlation of every pair of numeric columns
// over the rows where both values are present. A pair with fewer than two such
// rows or with a constant side is missing. An empty column list uses the default set.
func Correlate(table *domain.InjuryTable, columns []string) (*CorrelationMatrix, error) {
	if len(columns) == 0 {
		columns = DefaultCorrelationColumns
	}
	cols := make([]domain.Column, len(columns))
	for i, name := range columns {
		col, err := lookupNumeric(name)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}

	rows := table.Rows()
	m := &CorrelationMatrix{
		Columns: make([]string, len(cols)),
		Values:  make([][]domain.NullFloat, len(cols)),
	}
	for i := range cols {
		m.Columns[i] = cols[i].Name
		m.Values[i] = make([]domain.NullFloat, len(cols))
	}

	for i := range cols {
		for j := i; j < len(cols); j++ {
			x, y := pairwise(rows, cols[i], cols[j])
			var r domain.NullFloat
			if len(x) >= 2 {
				r = domain.Float(stat.Correlation(x, y, nil))
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m, nil
}

func pairwise(rows []domain.InjuryRecord, a, b domain.Column) (x, y []float64) {
	for i := range rows {
		va, vb := a.Number(&rows[i]), b.Number(&rows[i])
		if va.Valid && vb.Valid {
			x = append(x, va.Float64)
			y = append(y, vb.Float64)
		}
	}
	return x, y
}
