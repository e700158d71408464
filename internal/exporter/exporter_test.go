package exporter

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"footlens/internal/errors"
	"footlens/internal/infrastructure"
	"footlens/internal/shared/testutil"
	"footlens/pkg/contracts/domain"
)

func sampleTable() *domain.InjuryTable {
	return domain.NewInjuryTable([]domain.InjuryRecord{
		{
			Name:                 "Kevin De Bruyne",
			TeamName:             "Manchester City",
			Injury:               "Hamstring strain",
			InjuryDate:           domain.Date(time.Date(2019, 11, 5, 0, 0, 0, 0, time.UTC)),
			Age:                  domain.Float(28),
			PerformanceDropIndex: domain.Float(0.9333333),
			TeamPerformanceDrop:  domain.Float(-1.666666),
			WinCountBefore:       2,
			InjurySeverity:       domain.SeverityModerate,
		},
		{
			Name:                 `Player "Quoted", Jr.`,
			TeamName:             "Borussia Mönchengladbach",
			Injury:               "ACL tear",
			Age:                  domain.Float(31),
			PerformanceDropIndex: domain.Missing(),
			TeamPerformanceDrop:  domain.Float(2.004),
			InjurySeverity:       domain.SeveritySevere,
		},
	})
}

var exportColumns = []string{
	"name", "team_name", "injury", "injury_date", "age",
	"performance_drop_index", "team_performance_drop", "win_count_before", "injury_severity",
}

func TestRoundTrip(t *testing.T) {
	table := sampleTable()
	want, err := domain.Project(table, exportColumns)
	require.NoError(t, err)

	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, format, want))

			got, err := Read(&buf, format)
			require.NoError(t, err)

			assert.Equal(t, want.Columns, got.Columns)
			assert.Equal(t, want.Kinds, got.Kinds)
			require.Len(t, got.Rows, len(want.Rows))

			for i := range want.Rows {
				for j, cell := range want.Rows[i] {
					g := got.Rows[i][j]
					if cell.Kind == domain.KindText {
						assert.Equal(t, cell.Text, g.Text, "row %d column %s", i, want.Columns[j])
						continue
					}
					require.Equal(t, cell.Number.Valid, g.Number.Valid, "row %d column %s", i, want.Columns[j])
					if cell.Number.Valid {
						assert.InDelta(t, cell.Number.Float64, g.Number.Float64, 0.005, "row %d column %s", i, want.Columns[j])
					}
				}
			}
		})
	}
}

func TestRoundTrip_FilteredEmpty(t *testing.T) {
	empty := sampleTable().Where(func(*domain.InjuryRecord) bool { return false })
	frame, err := domain.Project(empty, []string{"name", "age"})
	require.NoError(t, err)

	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, format, frame))

			got, err := Read(&buf, format)
			require.NoError(t, err)
			assert.Empty(t, got.Rows)
		})
	}
}

func TestWriteCSV_Layout(t *testing.T) {
	frame, err := domain.Project(sampleTable(), []string{"name", "age", "performance_drop_index"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, frame, CSVOptions{}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name,age,performance_drop_index", lines[0])
	assert.Equal(t, "Kevin De Bruyne,28.00,0.93", lines[1])
	assert.Equal(t, `"Player ""Quoted"", Jr.",31.00,`, lines[2])
}

func TestWriteCSV_BOM(t *testing.T) {
	frame, err := domain.Project(sampleTable(), []string{"name"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, frame, CSVOptions{BOMPrefix: true}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), utf8BOM))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, got.Columns)
}

func TestWriteJSON_Layout(t *testing.T) {
	frame, err := domain.Project(sampleTable(), []string{"name", "performance_drop_index", "age"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, frame))

	out := buf.String()
	assert.Contains(t, out, `{"name": "Kevin De Bruyne", "performance_drop_index": 0.93, "age": 28.00}`)
	assert.Contains(t, out, `"performance_drop_index": null`)
}

func TestReadJSON_Errors(t *testing.T) {
	for _, input := range []string{``, `{"name": "x"}`, `[1, 2]`, `[{"name": "x"}`} {
		_, err := ReadJSON(strings.NewReader(input))
		assert.Error(t, err, input)
	}
}

func TestReadXLSX_NotAWorkbook(t *testing.T) {
	_, err := ReadXLSX(strings.NewReader("plain text"))
	assert.Error(t, err)
}

func TestExporter_ExportFile(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())
	metrics, err := infrastructure.NewDataMetrics(mp.Meter("test"))
	require.NoError(t, err)

	logger, logs := testutil.NewTestLogger(t)
	exp := NewExporter(logger, metrics)
	dir := t.TempDir()

	for _, format := range Formats {
		path := filepath.Join(dir, "nested", "injuries"+format.Extension())
		require.NoError(t, exp.ExportFile(context.Background(), sampleTable(), format, []string{"name", "age"}, path))

		frame, err := ReadFile(path)
		require.NoError(t, err)
		assert.Len(t, frame.Rows, 2)
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var exports int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "data_exports_total" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				exports += dp.Value
			}
		}
	}
	assert.Equal(t, int64(3), exports)
	testutil.AssertNoErrors(t, logs)
}

func TestExporter_UnknownColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	err := NewExporter(nil, nil).ExportFile(context.Background(), sampleTable(), FormatCSV, []string{"name", "shoe_size"}, path)
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrTypeValidation, appErr.Type)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no partial file is left behind")
}

func TestExporter_AllColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExporter(nil, nil).Export(context.Background(), &buf, sampleTable(), FormatCSV, nil))

	frame, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, domain.ColumnNames(), frame.Columns)
}

func TestReadFile_UnsupportedExtension(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "x.txt"))
	assert.Error(t, err)
}
