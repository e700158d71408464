package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"footlens/pkg/contracts/domain"
)

// DefaultDescribeColumns is the numeric subset of the statistics table
var DefaultDescribeColumns = []string{
	"age",
	"injury_duration_days",
	"performance_drop_index",
	"team_performance_drop",
}

// ColumnStats summarises the present values of one numeric column
type ColumnStats struct {
	Column string           `json:"column"`
	Count  int              `json:"count"`
	Mean   domain.NullFloat `json:"mean"`
	Std    domain.NullFloat `json:"std"`
	Min    domain.NullFloat `json:"min"`
	Q25    domain.NullFloat `json:"q25"`
	Median domain.NullFloat `json:"median"`
	Q75    domain.NullFloat `json:"q75"`
	Max    domain.NullFloat `json:"max"`
}

// Describe computes count, mean, sample standard deviation, extremes and
// quartiles per column. An empty column list uses the default set.
func Describe(table *domain.InjuryTable, columns []string) ([]ColumnStats, error) {
	if len(columns) == 0 {
		columns = DefaultDescribeColumns
	}

	out := make([]ColumnStats, 0, len(columns))
	for _, name := range columns {
		col, err := lookupNumeric(name)
		if err != nil {
			return nil, err
		}
		out = append(out, describeValues(col.Name, numbers(table, col)))
	}
	return out, nil
}

func describeValues(name string, values []float64) ColumnStats {
	s := ColumnStats{Column: name, Count: len(values)}
	if len(values) == 0 {
		return s
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	s.Mean = domain.Float(mean)
	if len(sorted) > 1 {
		s.Std = domain.Float(std)
	}
	s.Min = domain.Float(floats.Min(sorted))
	s.Max = domain.Float(floats.Max(sorted))
	s.Q25 = domain.Float(quantile(sorted, 0.25))
	s.Median = domain.Float(quantile(sorted, 0.5))
	s.Q75 = domain.Float(quantile(sorted, 0.75))
	return s
}

// quantile interpolates linearly between closest ranks, h = (n-1)p, the
// definition used by spreadsheet PERCENTILE and dataframe describe output.
// sorted must be ascending and non-empty.
func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	hi := math.Ceil(h)
	return sorted[int(lo)] + (h-lo)*(sorted[int(hi)]-sorted[int(lo)])
}
