package analytics

import (
	"footlens/internal/dataprocessing"
	"footlens/pkg/contracts/domain"
)

// Summary is the KPI block of the dashboard header
type Summary struct {
	TotalInjuries          int              `json:"total_injuries"`
	UniquePlayers          int              `json:"unique_players"`
	Teams                  int              `json:"teams"`
	AvgRecoveryDays        domain.NullFloat `json:"avg_recovery_days"`
	AvgPerformanceDrop     domain.NullFloat `json:"avg_performance_drop"`
	AvgTeamPerformanceDrop domain.NullFloat `json:"avg_team_performance_drop"`
	AvgTeamImpactSeverity  domain.NullFloat `json:"avg_team_impact_severity"`
	MostCommonInjury       string           `json:"most_common_injury"`
	AvgWinsBefore          domain.NullFloat `json:"avg_wins_before"`
	AvgWinsDuring          domain.NullFloat `json:"avg_wins_during"`
	WinDrop                domain.NullFloat `json:"win_drop"`
	SeverityCounts         []Count          `json:"severity_counts"`
}

// Summarize computes the KPI block. Means skip missing values; an empty table
// yields zero counts and missing means.
func Summarize(table *domain.InjuryTable) Summary {
	rows := table.Rows()
	s := Summary{TotalInjuries: len(rows)}

	players := make(map[string]struct{})
	teams := make(map[string]struct{})
	var duration, drop, teamDrop, impact, winsBefore, winsDuring []domain.NullFloat
	for i := range rows {
		r := &rows[i]
		if r.Name != "" {
			players[r.Name] = struct{}{}
		}
		if r.TeamName != "" {
			teams[r.TeamName] = struct{}{}
		}
		duration = append(duration, r.InjuryDurationDays)
		drop = append(drop, r.PerformanceDropIndex)
		teamDrop = append(teamDrop, r.TeamPerformanceDrop)
		impact = append(impact, r.TeamImpactSeverity)
		winsBefore = append(winsBefore, domain.Float(float64(r.WinCountBefore)))
		winsDuring = append(winsDuring, domain.Float(float64(r.WinCountDuring)))
	}

	s.UniquePlayers = len(players)
	s.Teams = len(teams)
	s.AvgRecoveryDays = dataprocessing.MeanOf(duration)
	s.AvgPerformanceDrop = dataprocessing.MeanOf(drop)
	s.AvgTeamPerformanceDrop = dataprocessing.MeanOf(teamDrop)
	s.AvgTeamImpactSeverity = dataprocessing.MeanOf(impact)
	s.AvgWinsBefore = dataprocessing.MeanOf(winsBefore)
	s.AvgWinsDuring = dataprocessing.MeanOf(winsDuring)
	if s.AvgWinsBefore.Valid && s.AvgWinsDuring.Valid {
		s.WinDrop = domain.Float(s.AvgWinsBefore.Float64 - s.AvgWinsDuring.Float64)
	}

	if counts, err := ValueCounts(table, "injury"); err == nil && len(counts) > 0 {
		s.MostCommonInjury = counts[0].Value
	}
	s.SeverityCounts, _ = ValueCounts(table, "injury_severity")
	return s
}
