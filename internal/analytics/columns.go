package analytics

import (
	"fmt"

	"footlens/internal/errors"
	"footlens/pkg/contracts/domain"
)

func lookup(name string) (domain.Column, error) {
	col, ok := domain.LookupColumn(name)
	if !ok {
		return domain.Column{}, errors.NewAppValidationError(fmt.Sprintf("unknown column: %s", name)).
			WithContext("column", name)
	}
	return col, nil
}

func lookupNumeric(name string) (domain.Column, error) {
	col, err := lookup(name)
	if err != nil {
		return col, err
	}
	if col.Kind != domain.KindNumber {
		return domain.Column{}, errors.NewAppValidationError(fmt.Sprintf("column %s is not numeric", name)).
			WithContext("column", name)
	}
	return col, nil
}

// numbers collects the present values of col across the table
func numbers(table *domain.InjuryTable, col domain.Column) []float64 {
	rows := table.Rows()
	out := make([]float64, 0, len(rows))
	for i := range rows {
		if v := col.Number(&rows[i]); v.Valid {
			out = append(out, v.Float64)
		}
	}
	return out
}
