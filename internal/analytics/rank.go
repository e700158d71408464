package analytics

import (
	"sort"

	"footlens/pkg/contracts/domain"
)

// TopN returns up to n rows with the largest values of a numeric column.
// Rows where the column is missing are skipped; equal values keep table order.
func TopN(table *domain.InjuryTable, column string, n int) ([]domain.InjuryRecord, error) {
	col, err := lookupNumeric(column)
	if err != nil {
		return nil, err
	}

	var out []domain.InjuryRecord
	for _, r := range table.Rows() {
		r := r
		if col.Number(&r).Valid {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return col.Number(&out[a]).Float64 > col.Number(&out[b]).Float64
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Players returns the distinct player names in ascending order
func Players(table *domain.InjuryTable) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, r := range table.Rows() {
		if r.Name == "" {
			continue
		}
		if _, ok := seen[r.Name]; !ok {
			seen[r.Name] = struct{}{}
			names = append(names, r.Name)
		}
	}
	sort.Strings(names)
	return names
}

// PlayerInjuries returns every row of the named player in table order
func PlayerInjuries(table *domain.InjuryTable, name string) []domain.InjuryRecord {
	return table.Where(func(r *domain.InjuryRecord) bool { return r.Name == name }).Rows()
}
