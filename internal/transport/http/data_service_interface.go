package http

import (
	"context"
	"io"

	"footlens/internal/analytics"
	"footlens/internal/exporter"
	"footlens/internal/services"
	"footlens/pkg/contracts/domain"
)

// DataServiceInterface is the part of services.DataService the handlers use
type DataServiceInterface interface {
	Load(ctx context.Context) (*services.Snapshot, error)
	Snapshot() (*services.Snapshot, error)

	Injuries(filter analytics.Filter) ([]domain.InjuryRecord, error)
	Summary(filter analytics.Filter) (analytics.Summary, error)
	Aggregate(filter analytics.Filter, by string, aggs []analytics.AggSpec, opts analytics.GroupOptions) (*analytics.GroupResult, error)
	Counts(filter analytics.Filter, column string) ([]analytics.Count, error)
	MonthlyCounts(filter analytics.Filter) ([]analytics.Count, error)
	Top(filter analytics.Filter, column string, n int) ([]domain.InjuryRecord, error)
	Correlation(filter analytics.Filter, columns []string) (*analytics.CorrelationMatrix, error)
	Describe(filter analytics.Filter, columns []string) ([]analytics.ColumnStats, error)
	Players(filter analytics.Filter) ([]string, error)
	PlayerInjuries(name string) ([]domain.InjuryRecord, error)
	Export(ctx context.Context, w io.Writer, filter analytics.Filter, format exporter.Format, columns []string) error
}

var _ DataServiceInterface = (*services.DataService)(nil)
