package services

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"footlens/internal/analytics"
	"footlens/internal/config"
	"footlens/internal/dataprocessing"
	"footlens/internal/exporter"
	"footlens/internal/files"
	"footlens/internal/infrastructure"
	"footlens/pkg/contracts/domain"
)

// Snapshot is one published enriched table. It is never modified after Load
// returns it.
type Snapshot struct {
	ID       string              `json:"id"`
	Source   string              `json:"source"`
	LoadedAt time.Time           `json:"loaded_at"`
	Rows     int                 `json:"rows"`
	Table    *domain.InjuryTable `json:"-"`
}

// DataService owns the published injury table and answers every read against
// the current snapshot. Reads never block a reload; a reload that fails keeps
// the previous snapshot.
type DataService struct {
	cfg         config.DataConfig
	logger      *slog.Logger
	tracer      trace.Tracer
	metrics     *infrastructure.DataMetrics
	transformer *dataprocessing.Transformer
	exporter    *exporter.Exporter

	current atomic.Pointer[Snapshot]
	loads   singleflight.Group
}

// NewDataService creates a data service with nothing loaded. metrics may be nil.
func NewDataService(cfg config.DataConfig, logger *slog.Logger, metrics *infrastructure.DataMetrics) *DataService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("DataService initialized",
		slog.String("input_path", cfg.InputPath),
		slog.String("export_dir", cfg.ExportDir))

	return &DataService{
		cfg:         cfg,
		logger:      infrastructure.WithComponent(logger, "data_service"),
		tracer:      otel.Tracer(infrastructure.InstrumentationName),
		metrics:     metrics,
		transformer: dataprocessing.NewTransformer(logger, dataprocessing.OptionsFromConfig(cfg)),
		exporter:    exporter.NewExporter(logger, metrics),
	}
}

// Load reads the configured input file and publishes a new snapshot
func (s *DataService) Load(ctx context.Context) (*Snapshot, error) {
	return s.LoadFrom(ctx, s.cfg.InputPath)
}

// LoadFrom reads path, transforms it and publishes the result. Concurrent
// loads of the same path share one read.
func (s *DataService) LoadFrom(ctx context.Context, path string) (*Snapshot, error) {
	v, err, shared := s.loads.Do(path, func() (interface{}, error) {
		return s.load(ctx, path)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.DebugContext(ctx, "load shared with concurrent caller", slog.String("path", path))
	}
	return v.(*Snapshot), nil
}

func (s *DataService) load(ctx context.Context, path string) (*Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "DataService.Load", trace.WithAttributes(attribute.String("path", path)))
	defer span.End()

	start := time.Now()
	source, table, err := s.read(ctx, path)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.metrics.RecordLoad(ctx, path, 0, time.Since(start), err)
		s.logger.ErrorContext(ctx, "Injury data load failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
			slog.Bool("kept_previous", s.current.Load() != nil))
		return nil, err
	}

	snap := &Snapshot{
		ID:       uuid.New().String(),
		Source:   source,
		LoadedAt: time.Now().UTC(),
		Rows:     table.Len(),
		Table:    table,
	}
	s.current.Store(snap)
	s.metrics.RecordLoad(ctx, path, snap.Rows, time.Since(start), nil)
	s.logger.InfoContext(ctx, "Injury data loaded",
		slog.String("snapshot_id", snap.ID),
		slog.String("path", path),
		slog.String("source", source),
		slog.Int("rows", snap.Rows),
		slog.Duration("duration", time.Since(start)))
	return snap, nil
}

// read resolves path to an input file and transforms it
func (s *DataService) read(ctx context.Context, path string) (string, *domain.InjuryTable, error) {
	source, err := files.ResolveInput(path)
	if err != nil {
		return "", nil, err
	}
	raw, err := dataprocessing.ReadFile(source)
	if err != nil {
		return source, nil, err
	}
	table, err := s.transformer.Transform(ctx, raw)
	if err != nil {
		return source, nil, err
	}
	return source, table, nil
}

// Snapshot returns the current snapshot
func (s *DataService) Snapshot() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// view returns the current table narrowed by filter
func (s *DataService) view(filter analytics.Filter) (*domain.InjuryTable, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return filter.Apply(snap.Table), nil
}

// Injuries returns the rows matching filter
func (s *DataService) Injuries(filter analytics.Filter) ([]domain.InjuryRecord, error) {
	table, err := s.view(filter)
	if err != nil {
		return nil, err
	}
	return table.Rows(), nil
}

// Summary returns the KPI block of the filtered view
func (s *DataService) Summary(filter analytics.Filter) (analytics.Summary, error) {
	table, err := s.view(filter)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Summarize(table), nil
}

// Aggregate groups the filtered view
func (s *DataService) Aggregate(filter analytics.Filter, by string, aggs []analytics.AggSpec, opts analytics.GroupOptions) (*analytics.GroupResult, error) {
	table, err := s.view(filter)
	if err != nil {
		return nil, err
	}
	return analytics.GroupBy(table, by, aggs, opts)
}

// Counts returns value counts of column over the filtered view
func (s *DataService) Counts(filter analytics.Filter, column string) ([]analytics.Count, error) {
	table, err := s.view(filter)
	if err != nil {
		return nil, err
	}
	return analytics.ValueCounts(table, column)
}

// MonthlyCounts returns injuries per calendar month of the filtered view
func (s *DataService) MonthlyCounts(filter analytics.Filter) ([]analytics.Count, error) {
	table, err := s.view(filter)
	if err != nil {
		return nil, err
	}
	return analytics.MonthlyCounts(table), nil
}

// Top returns the n rows with the largest values of column
func (s *DataService) Top(filter analytics.Filter, column string, n int) ([]domain.InjuryRecord, error) {
	table, err := s.view(filter)
	if err != nil {
		return nil, err
	}
	return analytics.TopN(table, column, n)
}

// Correlation returns the correlation matrix of the filtered view
func (s *DataService) Correlation(filter analytics.Filter, columns []string) (*analytics.CorrelationMatrix, error) {
	table, err := s.view(filter)
	if err != nil {
		return nil, err
	}
	return analytics.Correlate(table, columns)
}

// Describe returns descriptive statistics of the filtered view
func (s *DataService) Describe(filter analytics.Filter, columns []string) ([]analytics.ColumnStats, error) {
	table, err := s.view(filter)
	if err != nil {
		return nil, err
	}
	return analytics.Describe(table, columns)
}

// Players returns the player names of the filtered view
func (s *DataService) Players(filter analytics.Filter) ([]string, error) {
	table, err := s.view(filter)
	if err != nil {
		return nil, err
	}
	return analytics.Players(table), nil
}

// PlayerInjuries returns every injury of one player
func (s *DataService) PlayerInjuries(name string) ([]domain.InjuryRecord, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	rows := analytics.PlayerInjuries(snap.Table, name)
	if len(rows) == 0 {
		return nil, ErrPlayerNotFound
	}
	return rows, nil
}

// Export writes the filtered view to w
func (s *DataService) Export(ctx context.Context, w io.Writer, filter analytics.Filter, format exporter.Format, columns []string) error {
	table, err := s.view(filter)
	if err != nil {
		return err
	}
	return s.exporter.Export(ctx, w, table, format, columns)
}
