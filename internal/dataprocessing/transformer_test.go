package dataprocessing

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"footlens/internal/config"
	"footlens/internal/errors"
	"footlens/internal/shared/testutil"
	"footlens/pkg/contracts/domain"
)

func transform(t *testing.T, rows ...testutil.InjuryRow) *domain.InjuryTable {
	t.Helper()
	raw, err := ReadCSV("test", strings.NewReader(testutil.InjuryCSV(rows...)))
	require.NoError(t, err)

	logger, _ := testutil.NewTestLogger(t)
	table, err := NewTransformer(logger, DefaultOptions()).Transform(context.Background(), raw)
	require.NoError(t, err)
	return table
}

func TestTransform_SingleRow(t *testing.T) {
	table := transform(t, testutil.DefaultInjuryRow())
	require.Equal(t, 1, table.Len())
	r := table.Row(0)

	assert.Equal(t, "Kevin De Bruyne", r.Name)
	assert.Equal(t, "2019/20", r.Season)
	assert.Equal(t, "2019-11-05", r.InjuryDate.String())
	assert.Equal(t, "2019-11-25", r.ReturnDate.String())

	assert.Equal(t, 20.0, r.InjuryDurationDays.Float64)
	assert.Equal(t, 11.0, r.InjuryMonth.Float64)
	assert.Equal(t, 2019.0, r.InjuryYear.Float64)
	assert.Equal(t, 4.0, r.InjuryQuarter.Float64)
	assert.Equal(t, "November", r.InjuryMonthName)

	assert.InDelta(t, 7.5, r.RatingsBefore[1].Float64, 1e-9)
	assert.False(t, r.RatingsAfter[2].Valid, "an all-missing column stays missing")
	assert.InDelta(t, 23.5/3, r.AvgRatingBefore.Float64, 1e-9)
	assert.InDelta(t, 6.9, r.AvgRatingAfter.Float64, 1e-9)
	assert.InDelta(t, 23.5/3-6.9, r.PerformanceDropIndex.Float64, 1e-9)

	assert.InDelta(t, 1.0, r.AvgGDBefore.Float64, 1e-9)
	assert.InDelta(t, 2.0/3, r.TeamPerformanceDuringAbsence.Float64, 1e-9)
	assert.InDelta(t, 1.0/3, r.TeamPerformanceDrop.Float64, 1e-9)
	assert.InDelta(t, 4.0/3, r.AvgGDAfter.Float64, 1e-9)

	assert.Equal(t, 2, r.WinCountBefore)
	assert.Equal(t, 1, r.WinCountDuring)

	assert.Equal(t, domain.SeverityModerate, r.InjurySeverity)
	assert.InDelta(t, 0.2, r.RecoveryIndex.Float64, 1e-9)
	assert.InDelta(t, 1.0/3, r.TeamImpactSeverity.Float64, 1e-9)
	assert.Equal(t, domain.AgeGroupExperienced, r.AgeGroup)
	assert.Equal(t, domain.SkillGroupElite, r.SkillGroup)
}

func TestTransform_DurationImputation(t *testing.T) {
	returns := []string{"2020-01-11", "2020-01-21", "", "2020-01-31"}
	var rows []testutil.InjuryRow
	for _, ret := range returns {
		row := testutil.DefaultInjuryRow()
		row.InjuryDate = "2020-01-01"
		row.ReturnDate = ret
		rows = append(rows, row)
	}

	table := transform(t, rows...)

	var got []float64
	for _, r := range table.Rows() {
		require.True(t, r.InjuryDurationDays.Valid)
		got = append(got, r.InjuryDurationDays.Float64)
	}
	assert.Equal(t, []float64{10, 20, 20, 30}, got)
	assert.False(t, table.Row(2).ReturnDate.Valid, "the return date itself is not invented")
	assert.InDelta(t, 0.2, table.Row(2).RecoveryIndex.Float64, 1e-9)
}

func TestTransform_UnparseableDatesAreMissing(t *testing.T) {
	row := testutil.DefaultInjuryRow()
	row.InjuryDate = "sometime in spring"
	other := testutil.DefaultInjuryRow()

	table := transform(t, row, other)
	r := table.Row(0)

	assert.False(t, r.InjuryDate.Valid)
	assert.Equal(t, "", r.InjuryMonthName)
	assert.Equal(t, 20.0, r.InjuryDurationDays.Float64, "duration imputed from the other row")
	assert.Equal(t, 11.0, r.InjuryMonth.Float64, "calendar parts imputed in the final step")
}

func TestTransform_SlashDatesAreMonthFirst(t *testing.T) {
	us := testutil.DefaultInjuryRow()
	us.InjuryDate = "03/01/2020"
	us.ReturnDate = "03/15/2020"
	other := testutil.DefaultInjuryRow()

	table := transform(t, us, other)
	r := table.Row(0)

	require.True(t, r.ReturnDate.Valid)
	assert.Equal(t, "2020-03-01", r.InjuryDate.String())
	assert.Equal(t, 14.0, r.InjuryDurationDays.Float64, "own duration, not the imputed 20")
	assert.Equal(t, 3.0, r.InjuryMonth.Float64)
	assert.Equal(t, 1.0, r.InjuryQuarter.Float64)
	assert.InDelta(t, 0.14, r.RecoveryIndex.Float64, 1e-9)
}

func TestTransform_DayFirstLayoutsFromConfig(t *testing.T) {
	row := testutil.DefaultInjuryRow()
	row.InjuryDate = "01/03/2020"
	row.ReturnDate = "15/03/2020"

	raw, err := ReadCSV("test", strings.NewReader(testutil.InjuryCSV(row)))
	require.NoError(t, err)

	opts := OptionsFromConfig(config.DataConfig{DateLayouts: []string{"02/01/2006"}})
	table, err := NewTransformer(nil, opts).Transform(context.Background(), raw)
	require.NoError(t, err)

	r := table.Row(0)
	assert.Equal(t, "2020-03-01", r.InjuryDate.String())
	assert.Equal(t, 14.0, r.InjuryDurationDays.Float64)
}

func TestTransform_Idempotent(t *testing.T) {
	second := testutil.DefaultInjuryRow()
	second.Name = "Virgil van Dijk"
	second.Injury = "ACL tear"
	second.ReturnDate = ""
	second.RatingsBefore = [3]string{"N.A.", "N.A.", "N.A."}

	raw, err := ReadCSV("test", strings.NewReader(testutil.InjuryCSV(testutil.DefaultInjuryRow(), second)))
	require.NoError(t, err)

	tr := NewTransformer(nil, DefaultOptions())
	first, err := tr.Transform(context.Background(), raw)
	require.NoError(t, err)
	again, err := tr.Transform(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, first.Rows(), again.Rows())
}

func TestTransform_MissingSafety(t *testing.T) {
	sparse := testutil.DefaultInjuryRow()
	sparse.Age = "N.A."
	sparse.FIFARating = ""
	sparse.ReturnDate = ""
	sparse.RatingsBefore = [3]string{"N.A.", "N.A.", "N.A."}
	sparse.GDMissed = [3]string{"", "N.A.", "x"}

	table := transform(t, testutil.DefaultInjuryRow(), sparse, testutil.DefaultInjuryRow())

	// Columns with at least one present value anywhere must be fully populated.
	for _, col := range domain.NumericColumns() {
		anyPresent := false
		for _, r := range table.Rows() {
			r := r
			if col.Number(&r).Valid {
				anyPresent = true
			}
		}
		if !anyPresent {
			continue
		}
		for i, r := range table.Rows() {
			r := r
			assert.True(t, col.Number(&r).Valid, "row %d column %s", i, col.Name)
		}
	}

	r := table.Row(1)
	assert.Equal(t, 28.0, r.Age.Float64)
	assert.Equal(t, domain.AgeGroup(""), r.AgeGroup, "binning runs before imputation")
}

func TestTransform_AllMissingColumnStaysMissing(t *testing.T) {
	row := testutil.DefaultInjuryRow()
	row.GDAfter = [3]string{"", "", ""}

	table := transform(t, row, row)
	for _, r := range table.Rows() {
		assert.False(t, r.AvgGDAfter.Valid)
		assert.False(t, r.GDAfter[0].Valid)
	}
}

func TestTransform_WinCountBounds(t *testing.T) {
	results := [][3]string{
		{"win", "win", "win"},
		{"lose", "draw", "lose"},
		{"win", "", "N.A."},
	}
	var rows []testutil.InjuryRow
	for _, res := range results {
		row := testutil.DefaultInjuryRow()
		row.ResultsBefore = res
		row.ResultsMissed = res
		rows = append(rows, row)
	}

	table := transform(t, rows...)
	for _, r := range table.Rows() {
		assert.GreaterOrEqual(t, r.WinCountBefore, 0)
		assert.LessOrEqual(t, r.WinCountBefore, 3)
		assert.GreaterOrEqual(t, r.WinCountDuring, 0)
		assert.LessOrEqual(t, r.WinCountDuring, 3)
	}
	assert.Equal(t, 3, table.Row(0).WinCountBefore)
	assert.Equal(t, 0, table.Row(1).WinCountDuring)
	assert.Equal(t, 1, table.Row(2).WinCountBefore)
}

func TestTransform_MissingRequiredColumn(t *testing.T) {
	header := testutil.InjuryHeader()
	cells := testutil.DefaultInjuryRow().Cells()

	var keptHeader []string
	var keptCells []string
	for i, h := range header {
		if h == HeaderInjury {
			continue
		}
		keptHeader = append(keptHeader, h)
		keptCells = append(keptCells, cells[i])
	}
	raw := NewRawTable("partial.csv", keptHeader, [][]string{keptCells})

	table, err := NewTransformer(nil, DefaultOptions()).Transform(context.Background(), raw)
	require.Error(t, err)
	assert.Nil(t, table)

	var loadErr *errors.DataLoadError
	require.True(t, stderrors.As(err, &loadErr))
	assert.Equal(t, "partial.csv", loadErr.Source)
	assert.Equal(t, HeaderInjury, loadErr.Column)
}

func TestTransform_OptionalColumnsAbsent(t *testing.T) {
	optional := map[string]bool{}
	for _, h := range OptionalHeaders() {
		optional[h] = true
	}

	header := testutil.InjuryHeader()
	cells := testutil.DefaultInjuryRow().Cells()
	var keptHeader, keptCells []string
	for i, h := range header {
		if optional[h] {
			continue
		}
		keptHeader = append(keptHeader, h)
		keptCells = append(keptCells, cells[i])
	}
	raw := NewRawTable("minimal.csv", keptHeader, [][]string{keptCells})

	table, err := NewTransformer(nil, DefaultOptions()).Transform(context.Background(), raw)
	require.NoError(t, err)

	r := table.Row(0)
	assert.Equal(t, "", r.Season)
	assert.False(t, r.FIFARating.Valid)
	assert.Equal(t, domain.SkillGroup(""), r.SkillGroup)
	assert.False(t, r.AvgGDAfter.Valid)
}

func TestTransform_NoHeader(t *testing.T) {
	_, err := NewTransformer(nil, DefaultOptions()).Transform(context.Background(), NewRawTable("x", nil, nil))
	assert.True(t, errors.IsDataLoadError(err))
}

func TestTransform_LogsCounts(t *testing.T) {
	row := testutil.DefaultInjuryRow()
	row.GDBefore[0] = "two"

	raw, err := ReadCSV("test", strings.NewReader(testutil.InjuryCSV(row)))
	require.NoError(t, err)

	logger, logs := testutil.NewTestLogger(t)
	_, err = NewTransformer(logger, DefaultOptions()).Transform(context.Background(), raw)
	require.NoError(t, err)

	var found bool
	for _, rec := range logs.Records() {
		if rec.Message == "injury table transformed" {
			found = true
			assert.EqualValues(t, 1, rec.Attrs["bad_numeric_cells"])
			assert.Equal(t, "transformer", rec.Attrs["component"])
		}
	}
	assert.True(t, found)
	testutil.AssertNoErrors(t, logs)
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.DataConfig{
		Sentinels:      []string{"-", "n/a"},
		SevereKeywords: []string{"surgery"},
	})

	assert.Equal(t, []string{"-", "n/a"}, opts.Sentinels)
	assert.Equal(t, DefaultDateLayouts, opts.DateLayouts)
	assert.Equal(t, []string{"surgery"}, opts.Rules.Severe)
	assert.Equal(t, DefaultSeverityRules().Moderate, opts.Rules.Moderate)
}

func TestTransform_DoesNotMutateRaw(t *testing.T) {
	raw, err := ReadCSV("test", strings.NewReader(testutil.InjuryCSV(testutil.DefaultInjuryRow())))
	require.NoError(t, err)
	before := append([]string(nil), raw.Rows[0]...)

	_, err = NewTransformer(nil, DefaultOptions()).Transform(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, before, raw.Rows[0])
}
