package analytics

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"footlens/internal/errors"
	"footlens/pkg/contracts/domain"
)

// Aggregation is a reduction applied to one numeric column within a group
type Aggregation string

const (
	AggMean  Aggregation = "mean"
	AggSum   Aggregation = "sum"
	AggCount Aggregation = "count"
)

// ParseAggregation validates an aggregation name
func ParseAggregation(s string) (Aggregation, error) {
	switch a := Aggregation(strings.ToLower(strings.TrimSpace(s))); a {
	case AggMean, AggSum, AggCount:
		return a, nil
	default:
		return "", errors.NewAppValidationError(fmt.Sprintf("unsupported aggregation: %s", s)).
			WithContext("aggregation", s)
	}
}

// AggSpec names one output column of a group-by. Count with an empty Column
// counts the rows of the group.
type AggSpec struct {
	Column string      `json:"column"`
	Func   Aggregation `json:"func"`
}

// Name is the output column name, e.g. team_performance_drop_mean
func (s AggSpec) Name() string {
	if s.Column == "" {
		return string(s.Func)
	}
	return s.Column + "_" + string(s.Func)
}

// GroupOptions controls ordering and truncation of a group-by
type GroupOptions struct {
	// TopK keeps the first K groups after sorting; zero keeps all
	TopK int
	// SortBy is an output column name; empty sorts on the first aggregation
	SortBy string
}

// Group is one key of a group-by with its aggregated values, in AggSpec order
type Group struct {
	Key    string             `json:"key"`
	Size   int                `json:"size"`
	Values []domain.NullFloat `json:"values"`
}

// GroupResult is the output of GroupBy
type GroupResult struct {
	By      string   `json:"by"`
	Columns []string `json:"columns"`
	Groups  []Group  `json:"groups"`
}

// Value returns the aggregated value of the named output column for key
func (g *GroupResult) Value(key, column string) (domain.NullFloat, bool) {
	idx := -1
	for i, c := range g.Columns {
		if c == column {
			idx = i
		}
	}
	if idx < 0 {
		return domain.NullFloat{}, false
	}
	for _, grp := range g.Groups {
		if grp.Key == key {
			return grp.Values[idx], true
		}
	}
	return domain.NullFloat{}, false
}

// GroupBy groups rows by the value of column by and aggregates each spec.
// Rows with an empty key are left out. Groups are sorted descending on the
// sort column with missing values last and ties broken by key ascending.
func GroupBy(table *domain.InjuryTable, by string, aggs []AggSpec, opts GroupOptions) (*GroupResult, error) {
	byCol, err := lookup(by)
	if err != nil {
		return nil, err
	}
	if len(aggs) == 0 {
		aggs = []AggSpec{{Func: AggCount}}
	}
	aggs = append([]AggSpec(nil), aggs...)

	valueCols := make([]domain.Column, len(aggs))
	result := &GroupResult{By: byCol.Name, Columns: make([]string, len(aggs))}
	for i, spec := range aggs {
		if _, err := ParseAggregation(string(spec.Func)); err != nil {
			return nil, err
		}
		if spec.Column != "" {
			col, err := lookupNumeric(spec.Column)
			if err != nil {
				return nil, err
			}
			valueCols[i] = col
			spec.Column = col.Name
		} else if spec.Func != AggCount {
			return nil, errors.NewAppValidationError(fmt.Sprintf("aggregation %s needs a column", spec.Func))
		}
		aggs[i] = spec
		result.Columns[i] = spec.Name()
	}

	sortIdx := 0
	if opts.SortBy != "" {
		sortIdx = -1
		for i, name := range result.Columns {
			if strings.EqualFold(name, opts.SortBy) {
				sortIdx = i
			}
		}
		if sortIdx < 0 {
			return nil, errors.NewAppValidationError(fmt.Sprintf("unknown sort column: %s", opts.SortBy)).
				WithContext("column", opts.SortBy)
		}
	}

	rows := table.Rows()
	members := make(map[string][]int)
	var keys []string
	for i := range rows {
		key := byCol.Text(&rows[i])
		if key == "" {
			continue
		}
		if _, seen := members[key]; !seen {
			keys = append(keys, key)
		}
		members[key] = append(members[key], i)
	}

	for _, key := range keys {
		idx := members[key]
		grp := Group{Key: key, Size: len(idx), Values: make([]domain.NullFloat, len(aggs))}
		for j, spec := range aggs {
			grp.Values[j] = aggregate(rows, idx, valueCols[j], spec)
		}
		result.Groups = append(result.Groups, grp)
	}

	sort.SliceStable(result.Groups, func(a, b int) bool {
		va, vb := result.Groups[a].Values[sortIdx], result.Groups[b].Values[sortIdx]
		if va.Valid != vb.Valid {
			return va.Valid
		}
		if va.Valid && va.Float64 != vb.Float64 {
			return va.Float64 > vb.Float64
		}
		return result.Groups[a].Key < result.Groups[b].Key
	})

	if opts.TopK > 0 && len(result.Groups) > opts.TopK {
		result.Groups = result.Groups[:opts.TopK]
	}
	return result, nil
}

func aggregate(rows []domain.InjuryRecord, idx []int, col domain.Column, spec AggSpec) domain.NullFloat {
	if spec.Column == "" {
		return domain.Float(float64(len(idx)))
	}

	values := make([]float64, 0, len(idx))
	for _, i := range idx {
		if v := col.Number(&rows[i]); v.Valid {
			values = append(values, v.Float64)
		}
	}

	switch spec.Func {
	case AggCount:
		return domain.Float(float64(len(values)))
	case AggSum:
		return domain.Float(floats.Sum(values))
	default:
		if len(values) == 0 {
			return domain.Missing()
		}
		return domain.Float(stat.Mean(values, nil))
	}
}
