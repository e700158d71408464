package dataprocessing

import (
	"sort"

	"footlens/pkg/contracts/domain"
)

// Median returns the median of the present values, averaging the two middle
// values for an even count. No present values yields missing.
func Median(values []domain.NullFloat) domain.NullFloat {
	present := Present(values)
	if len(present) == 0 {
		return domain.Missing()
	}
	sort.Float64s(present)
	mid := len(present) / 2
	if len(present)%2 == 1 {
		return domain.Float(present[mid])
	}
	return domain.Float((present[mid-1] + present[mid]) / 2)
}

// Present returns the valid values in input order
func Present(values []domain.NullFloat) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v.Valid {
			out = append(out, v.Float64)
		}
	}
	return out
}
