package analytics

import (
	"sort"
	"time"

	"footlens/pkg/contracts/domain"
)

// Count is the number of rows holding one value of a column
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ValueCounts counts the distinct non-empty values of column, most frequent
// first with ties ordered by value.
func ValueCounts(table *domain.InjuryTable, column string) ([]Count, error) {
	col, err := lookup(column)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	rows := table.Rows()
	for i := range rows {
		if v := col.Text(&rows[i]); v != "" {
			counts[v]++
		}
	}

	out := make([]Count, 0, len(counts))
	for v, n := range counts {
		out = append(out, Count{Value: v, Count: n})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Value < out[b].Value
	})
	return out, nil
}

// MonthlyCounts counts injuries per calendar month of the injury date, January
// to December. Months without injuries are reported with zero.
func MonthlyCounts(table *domain.InjuryTable) []Count {
	var perMonth [12]int
	rows := table.Rows()
	for i := range rows {
		if d := rows[i].InjuryDate; d.Valid {
			perMonth[d.Time.Month()-1]++
		}
	}

	out := make([]Count, 12)
	for m := range perMonth {
		out[m] = Count{Value: time.Month(m + 1).String(), Count: perMonth[m]}
	}
	return out
}
