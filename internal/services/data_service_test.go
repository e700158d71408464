package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"footlens/internal/analytics"
	"footlens/internal/config"
	"footlens/internal/errors"
	"footlens/internal/exporter"
	"footlens/internal/shared/testutil"
)

func sampleRows() []testutil.InjuryRow {
	first := testutil.DefaultInjuryRow()

	second := testutil.DefaultInjuryRow()
	second.Name = "Virgil van Dijk"
	second.Team = "Liverpool"
	second.Position = "Center Back"
	second.Injury = "ACL tear"
	second.Age = "29"
	second.InjuryDate = "Oct 17, 2020"
	second.ReturnDate = "Jun 1, 2021"

	third := testutil.DefaultInjuryRow()
	third.Name = "Bukayo Saka"
	third.Team = "Arsenal"
	third.Position = "Right Winger"
	third.Injury = "Knock"
	third.Age = "21"

	return []testutil.InjuryRow{first, second, third}
}

func newService(t *testing.T, path string) (*DataService, *testutil.CaptureHandler) {
	t.Helper()
	logger, logs := testutil.NewTestLogger(t)
	cfg := config.Default().Data
	cfg.InputPath = path
	return NewDataService(cfg, logger, nil), logs
}

func TestDataService_NoSnapshot(t *testing.T) {
	svc, _ := newService(t, "unused.csv")

	_, err := svc.Snapshot()
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = svc.Injuries(analytics.Filter{})
	assert.ErrorIs(t, err, ErrNoSnapshot)
	_, err = svc.Summary(analytics.Filter{})
	assert.ErrorIs(t, err, ErrNoSnapshot)
	_, err = svc.Correlation(analytics.Filter{}, nil)
	assert.ErrorIs(t, err, ErrNoSnapshot)
	err = svc.Export(context.Background(), &bytes.Buffer{}, analytics.Filter{}, exporter.FormatCSV, nil)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestDataService_Load(t *testing.T) {
	path := testutil.WriteInjuryCSV(t, sampleRows()...)
	svc, logs := newService(t, path)

	snap, err := svc.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, snap.Rows)
	assert.Equal(t, path, snap.Source)
	assert.NotEmpty(t, snap.ID)
	assert.True(t, logs.Contains(slogInfo, "Injury data loaded"))

	current, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Same(t, snap, current)
}

func TestDataService_FailedReloadKeepsSnapshot(t *testing.T) {
	path := testutil.WriteInjuryCSV(t, sampleRows()...)
	svc, logs := newService(t, path)

	first, err := svc.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("Name,Team Name\nA,B\n"), 0644))
	_, err = svc.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsDataLoadError(err))
	assert.True(t, logs.Contains(slogError, "Injury data load failed"))

	current, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Same(t, first, current)
}

func TestDataService_LoadMissingFile(t *testing.T) {
	svc, _ := newService(t, filepath.Join(t.TempDir(), "missing.csv"))

	_, err := svc.Load(context.Background())
	assert.True(t, errors.IsDataLoadError(err))

	_, err = svc.Snapshot()
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestDataService_LoadFromDirectory(t *testing.T) {
	path := testutil.WriteInjuryCSV(t, sampleRows()...)
	dir := filepath.Dir(path)
	older := filepath.Join(dir, "2019_injuries.csv")
	require.NoError(t, os.WriteFile(older, []byte(testutil.InjuryCSV(sampleRows()[0])), 0644))
	past := time.Now().Add(-24 * time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	svc, _ := newService(t, dir)
	snap, err := svc.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, path, snap.Source, "newest input wins")
	assert.Equal(t, 3, snap.Rows)
}

func TestDataService_ConcurrentReadsAndReloads(t *testing.T) {
	path := testutil.WriteInjuryCSV(t, sampleRows()...)
	svc, _ := newService(t, path)
	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Load(context.Background())
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			rows, err := svc.Injuries(analytics.Filter{Teams: []string{"Liverpool"}})
			assert.NoError(t, err)
			assert.Len(t, rows, 1)
		}()
	}
	wg.Wait()
}

func TestDataService_Reads(t *testing.T) {
	path := testutil.WriteInjuryCSV(t, sampleRows()...)
	svc, _ := newService(t, path)
	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	rows, err := svc.Injuries(analytics.Filter{Severities: []string{"Severe"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Virgil van Dijk", rows[0].Name)

	summary, err := svc.Summary(analytics.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalInjuries)
	assert.Equal(t, 3, summary.Teams)

	groups, err := svc.Aggregate(analytics.Filter{}, "injury_severity",
		[]analytics.AggSpec{{Column: "injury_duration_days", Func: analytics.AggMean}}, analytics.GroupOptions{TopK: 1})
	require.NoError(t, err)
	require.Len(t, groups.Groups, 1)
	assert.Equal(t, "Severe", groups.Groups[0].Key)

	counts, err := svc.Counts(analytics.Filter{}, "age_group")
	require.NoError(t, err)
	assert.Len(t, counts, 2)

	months, err := svc.MonthlyCounts(analytics.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, months[10].Count)

	top, err := svc.Top(analytics.Filter{}, "injury_duration_days", 1)
	require.NoError(t, err)
	assert.Equal(t, "Virgil van Dijk", top[0].Name)

	matrix, err := svc.Correlation(analytics.Filter{}, []string{"age", "injury_duration_days"})
	require.NoError(t, err)
	assert.Len(t, matrix.Values, 2)

	stats, err := svc.Describe(analytics.Filter{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, stats[0].Count)

	players, err := svc.Players(analytics.Filter{Teams: []string{"Arsenal"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bukayo Saka"}, players)

	injuries, err := svc.PlayerInjuries("Bukayo Saka")
	require.NoError(t, err)
	assert.Len(t, injuries, 1)

	_, err = svc.PlayerInjuries("Nobody")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestDataService_Export(t *testing.T) {
	path := testutil.WriteInjuryCSV(t, sampleRows()...)
	svc, _ := newService(t, path)
	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	filter := analytics.Filter{Teams: []string{"Manchester City", "Arsenal"}}
	require.NoError(t, svc.Export(context.Background(), &buf, filter, exporter.FormatJSON, []string{"name", "injury_severity", "team_impact_severity"}))

	frame, err := exporter.ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "injury_severity", "team_impact_severity"}, frame.Columns)
	assert.Len(t, frame.Rows, 2)
}
