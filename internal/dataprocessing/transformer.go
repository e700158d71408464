package dataprocessing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"footlens/internal/config"
	"footlens/internal/errors"
	"footlens/internal/infrastructure"
	"footlens/pkg/contracts/domain"
)

// Options configures cell cleaning and severity classification
type Options struct {
	Sentinels   []string
	DateLayouts []string
	Rules       SeverityRules
}

// DefaultOptions returns the standard cleaning rules
func DefaultOptions() Options {
	return Options{
		Sentinels:   append([]string(nil), DefaultSentinels...),
		DateLayouts: append([]string(nil), DefaultDateLayouts...),
		Rules:       DefaultSeverityRules(),
	}
}

// OptionsFromConfig builds Options from the data config. Empty lists fall
// back to the defaults.
func OptionsFromConfig(cfg config.DataConfig) Options {
	opts := DefaultOptions()
	if len(cfg.Sentinels) > 0 {
		opts.Sentinels = cfg.Sentinels
	}
	if len(cfg.DateLayouts) > 0 {
		opts.DateLayouts = cfg.DateLayouts
	}
	if len(cfg.SevereKeywords) > 0 {
		opts.Rules.Severe = cfg.SevereKeywords
	}
	if len(cfg.ModerateKeywords) > 0 {
		opts.Rules.Moderate = cfg.ModerateKeywords
	}
	return opts
}

// Transformer builds the enriched injury table from a raw table. It keeps no
// state between calls and is safe for concurrent use.
type Transformer struct {
	logger    *slog.Logger
	tracer    trace.Tracer
	opts      Options
	sentinels Sentinels
}

// NewTransformer creates a transformer
func NewTransformer(logger *slog.Logger, opts Options) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	if len(opts.DateLayouts) == 0 {
		opts.DateLayouts = DefaultDateLayouts
	}
	return &Transformer{
		logger:    infrastructure.WithComponent(logger, "transformer"),
		tracer:    otel.Tracer(infrastructure.InstrumentationName),
		opts:      opts,
		sentinels: NewSentinels(opts.Sentinels),
	}
}

// Transform runs the enrichment steps over raw and returns a new table.
// A missing required column fails the whole load with a DataLoadError.
func (t *Transformer) Transform(ctx context.Context, raw *RawTable) (*domain.InjuryTable, error) {
	ctx, span := t.tracer.Start(ctx, "dataprocessing.Transform")
	defer span.End()

	if raw == nil || len(raw.Headers) == 0 {
		err := errors.NewDataLoadError("", "input has no header row", nil)
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	if missing := raw.MissingHeaders(); len(missing) > 0 {
		err := errors.MissingColumnError(raw.Source, missing[0])
		infrastructure.RecordError(ctx, err)
		t.logger.ErrorContext(ctx, "raw input rejected",
			slog.String("source", raw.Source),
			slog.Any("missing_columns", missing))
		return nil, err
	}

	start := time.Now()
	span.SetAttributes(
		attribute.String("source", raw.Source),
		attribute.Int("rows", raw.Len()),
	)

	rows := make([]domain.InjuryRecord, raw.Len())
	stats := &parseStats{}

	// 1. dates
	for i := range rows {
		t.parseIdentity(raw, i, &rows[i], stats)
	}
	infrastructure.AddSpanEvent(ctx, "dates_parsed",
		attribute.Int("bad_injury_dates", stats.badInjuryDates),
		attribute.Int("bad_return_dates", stats.badReturnDates))

	// 2. duration, median fill, calendar parts
	durations := make([]domain.NullFloat, len(rows))
	for i := range rows {
		durations[i] = DurationDays(rows[i].InjuryDate, rows[i].ReturnDate)
	}
	medianDuration := Median(durations)
	for i := range rows {
		r := &rows[i]
		r.InjuryDurationDays = durations[i]
		if !r.InjuryDurationDays.Valid {
			r.InjuryDurationDays = medianDuration
		}
		fillCalendar(r)
	}
	infrastructure.AddSpanEvent(ctx, "durations_imputed",
		attribute.Float64("median_duration_days", medianDuration.Or(0)))

	// 3. cleaning
	for i := range rows {
		t.cleanMatches(raw, i, &rows[i], stats)
	}

	// 4 to 8. aggregates, wins, severity, impact, bins
	for i := range rows {
		t.derive(&rows[i])
	}

	// 9. per-column median imputation
	imputed := imputeNumericColumns(rows)
	infrastructure.AddSpanEvent(ctx, "numeric_imputed", attribute.Int("cells", imputed))

	t.logger.DebugContext(ctx, "injury table transformed",
		slog.String("source", raw.Source),
		slog.Int("rows", len(rows)),
		slog.Int("bad_injury_dates", stats.badInjuryDates),
		slog.Int("bad_return_dates", stats.badReturnDates),
		slog.Int("bad_numeric_cells", stats.badNumbers),
		slog.Int("imputed_cells", imputed),
		slog.Duration("duration", time.Since(start)))

	return domain.NewInjuryTable(rows), nil
}

// parseStats counts cells that were present but could not be parsed
type parseStats struct {
	badInjuryDates int
	badReturnDates int
	badNumbers     int
}

func (t *Transformer) parseIdentity(raw *RawTable, i int, r *domain.InjuryRecord, stats *parseStats) {
	r.Name = strings.TrimSpace(raw.Value(i, HeaderName))
	r.TeamName = strings.TrimSpace(raw.Value(i, HeaderTeam))
	r.Position = strings.TrimSpace(raw.Value(i, HeaderPosition))
	r.Season = strings.TrimSpace(raw.Value(i, HeaderSeason))
	r.Injury = strings.TrimSpace(raw.Value(i, HeaderInjury))
	r.Age = t.number(raw.Value(i, HeaderAge), ParseNumberCell, stats)
	r.FIFARating = t.number(raw.Value(i, HeaderFIFARating), ParseNumberCell, stats)

	rawInjury := raw.Value(i, HeaderInjuryDate)
	r.InjuryDate = ParseDate(rawInjury, t.opts.DateLayouts)
	if !r.InjuryDate.Valid && t.present(rawInjury) {
		stats.badInjuryDates++
	}
	rawReturn := raw.Value(i, HeaderReturnDate)
	r.ReturnDate = ParseDate(rawReturn, t.opts.DateLayouts)
	if !r.ReturnDate.Valid && t.present(rawReturn) {
		stats.badReturnDates++
	}
}

func (t *Transformer) cleanMatches(raw *RawTable, i int, r *domain.InjuryRecord, stats *parseStats) {
	for m := 0; m < domain.MatchesPerWindow; m++ {
		n := m + 1
		r.RatingsBefore[m] = t.number(raw.Value(i, headerRatingBefore(n)), ParseRatingCell, stats)
		r.RatingsAfter[m] = t.number(raw.Value(i, headerRatingAfter(n)), ParseRatingCell, stats)
		r.GDBefore[m] = t.number(raw.Value(i, headerGDBefore(n)), ParseGoalDifferenceCell, stats)
		r.GDMissed[m] = t.number(raw.Value(i, headerGDMissed(n)), ParseGoalDifferenceCell, stats)
		r.GDAfter[m] = t.number(raw.Value(i, headerGDAfter(n)), ParseGoalDifferenceCell, stats)
		r.ResultsBefore[m] = raw.Value(i, headerResultBefore(n))
		r.ResultsMissed[m] = raw.Value(i, headerResultMissed(n))
	}
}

func (t *Transformer) derive(r *domain.InjuryRecord) {
	r.AvgRatingBefore = MeanOf(r.RatingsBefore[:])
	r.AvgRatingAfter = MeanOf(r.RatingsAfter[:])
	r.PerformanceDropIndex = Sub(r.AvgRatingBefore, r.AvgRatingAfter)

	r.AvgGDBefore = MeanOf(r.GDBefore[:])
	r.TeamPerformanceDuringAbsence = MeanOf(r.GDMissed[:])
	r.TeamPerformanceDrop = Sub(r.AvgGDBefore, r.TeamPerformanceDuringAbsence)
	r.AvgGDAfter = MeanOf(r.GDAfter[:])

	r.WinCountBefore = CountWins(r.ResultsBefore[:])
	r.WinCountDuring = CountWins(r.ResultsMissed[:])

	r.InjurySeverity = t.opts.Rules.Classify(r.Injury)
	if r.InjuryDurationDays.Valid {
		r.RecoveryIndex = domain.Float(r.InjuryDurationDays.Float64 / 100)
	}
	r.TeamImpactSeverity = TeamImpactSeverity(r.TeamPerformanceDrop, r.InjurySeverity)

	r.AgeGroup = AgeGroupFor(r.Age)
	r.SkillGroup = SkillGroupFor(r.FIFARating)
}

// number parses a cell and counts it when text was present but unusable
func (t *Transformer) number(raw string, parse func(string, Sentinels) domain.NullFloat, stats *parseStats) domain.NullFloat {
	v := parse(raw, t.sentinels)
	if !v.Valid && t.present(raw) {
		stats.badNumbers++
	}
	return v
}

// present reports whether a cell carries real text rather than a blank or sentinel
func (t *Transformer) present(raw string) bool {
	return strings.TrimSpace(raw) != "" && !t.sentinels.Contains(raw)
}

func fillCalendar(r *domain.InjuryRecord) {
	if !r.InjuryDate.Valid {
		return
	}
	d := r.InjuryDate.Time
	month := int(d.Month())
	r.InjuryMonth = domain.Float(float64(month))
	r.InjuryYear = domain.Float(float64(d.Year()))
	r.InjuryQuarter = domain.Float(float64((month-1)/3 + 1))
	r.InjuryMonthName = d.Month().String()
}

// imputeNumericColumns fills every missing number cell with its column median
// over all rows and returns how many cells were filled. A column with no
// present value stays missing.
func imputeNumericColumns(rows []domain.InjuryRecord) int {
	filled := 0
	values := make([]domain.NullFloat, len(rows))
	for _, col := range domain.NumericColumns() {
		if !col.Stored() {
			continue
		}
		for i := range rows {
			values[i] = *col.Ref(&rows[i])
		}
		median := Median(values)
		if !median.Valid {
			continue
		}
		for i := range rows {
			ref := col.Ref(&rows[i])
			if !ref.Valid {
				*ref = median
				filled++
			}
		}
	}
	return filled
}
