package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"footlens/internal/analytics"
	apierrors "footlens/internal/errors"
)

// Filter query parameters
const (
	paramTeam     = "team"
	paramSeason   = "season"
	paramSeverity = "severity"
	paramPosition = "position"
	paramAgeGroup = "age_group"
)

// defaultTopN is the row count of /top when n is absent
const defaultTopN = 10

type aggregateQuery struct {
	By      string   `query:"by" validate:"required,column"`
	Columns []string `query:"column" validate:"dive,numeric_column"`
	Agg     string   `query:"agg" validate:"omitempty,oneof=mean sum count"`
	Top     int      `query:"top" validate:"gte=0,lte=1000"`
	Sort    string   `query:"sort"`
}

type topQuery struct {
	Column string `query:"column" validate:"required,numeric_column"`
	N      int    `query:"n" validate:"gte=1,lte=100"`
}

type columnsQuery struct {
	Columns []string `query:"column" validate:"dive,numeric_column"`
}

type countsQuery struct {
	Column string `query:"column" validate:"required,column"`
}

type exportQuery struct {
	Format  string   `query:"format" validate:"required,export_format"`
	Columns []string `query:"column" validate:"dive,column"`
}

// listParam returns every value of key. Repeated parameters and comma
// separated lists are both accepted; blanks are dropped.
func listParam(values url.Values, key string) []string {
	var out []string
	for _, raw := range values[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// intParam parses an optional integer parameter
func intParam(values url.Values, key string, def int) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierrors.ErrValidation(key, fmt.Sprintf("%s must be a valid integer", key))
	}
	return n, nil
}

// filterFromQuery builds the row filter shared by every read endpoint
func filterFromQuery(values url.Values) analytics.Filter {
	return analytics.Filter{
		Teams:      listParam(values, paramTeam),
		Seasons:    listParam(values, paramSeason),
		Severities: listParam(values, paramSeverity),
		Positions:  listParam(values, paramPosition),
		AgeGroups:  listParam(values, paramAgeGroup),
	}
}

// aggSpecs expands the aggregate query into one spec per column. Without a
// column the groups are counted.
func (q aggregateQuery) aggSpecs() []analytics.AggSpec {
	fn := analytics.AggMean
	if q.Agg != "" {
		fn = analytics.Aggregation(q.Agg)
	}
	if len(q.Columns) == 0 {
		return []analytics.AggSpec{{Func: analytics.AggCount}}
	}
	specs := make([]analytics.AggSpec, len(q.Columns))
	for i, c := range q.Columns {
		specs[i] = analytics.AggSpec{Column: c, Func: fn}
	}
	return specs
}

func (q aggregateQuery) options() analytics.GroupOptions {
	return analytics.GroupOptions{TopK: q.Top, SortBy: q.Sort}
}
