package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"footlens/pkg/contracts/domain"
)

func TestSummarize(t *testing.T) {
	table := sampleTable()
	rows := table.Rows()
	rows[0].WinCountBefore = 3
	rows[1].WinCountBefore = 2
	rows[2].WinCountDuring = 1

	s := Summarize(domain.NewInjuryTable(rows))

	assert.Equal(t, 5, s.TotalInjuries)
	assert.Equal(t, 4, s.UniquePlayers)
	assert.Equal(t, 2, s.Teams)
	assert.InDelta(t, 53.0, s.AvgRecoveryDays.Float64, 1e-9)
	assert.InDelta(t, 0.32, s.AvgPerformanceDrop.Float64, 1e-9)
	assert.InDelta(t, 1.8, s.AvgTeamPerformanceDrop.Float64, 1e-9)
	assert.Equal(t, "Hamstring strain", s.MostCommonInjury)
	assert.InDelta(t, 1.0, s.AvgWinsBefore.Float64, 1e-9)
	assert.InDelta(t, 0.2, s.AvgWinsDuring.Float64, 1e-9)
	assert.InDelta(t, 0.8, s.WinDrop.Float64, 1e-9)
	assert.Equal(t, Count{Value: "Moderate", Count: 3}, s.SeverityCounts[0])
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(domain.NewInjuryTable(nil))

	assert.Equal(t, 0, s.TotalInjuries)
	assert.False(t, s.AvgRecoveryDays.Valid)
	assert.False(t, s.WinDrop.Valid)
	assert.Equal(t, "", s.MostCommonInjury)
}
