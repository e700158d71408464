package domain

// MatchesPerWindow is the number of matches tracked before, during and after an injury.
const MatchesPerWindow = 3

// Severity is the injury severity bucket derived from the injury label
type Severity string

const (
	SeveritySevere   Severity = "Severe"
	SeverityModerate Severity = "Moderate"
	SeverityMinor    Severity = "Minor"
)

// Weight returns the multiplier used for the team impact severity score.
func (s Severity) Weight() float64 {
	switch s {
	case SeveritySevere:
		return 1.5
	case SeverityModerate:
		return 1.0
	default:
		return 0.7
	}
}

// AgeGroup is the age bucket of a player. The zero value means the age was
// missing or outside the binned range.
type AgeGroup string

const (
	AgeGroupYoung       AgeGroup = "Young (≤23)"
	AgeGroupPrime       AgeGroup = "Prime (24-26)"
	AgeGroupExperienced AgeGroup = "Experienced (27-29)"
	AgeGroupVeteran     AgeGroup = "Veteran (30+)"
)

// SkillGroup is the FIFA rating bucket of a player
type SkillGroup string

const (
	SkillGroupAverage  SkillGroup = "Average (≤75)"
	SkillGroupGood     SkillGroup = "Good (76-80)"
	SkillGroupVeryGood SkillGroup = "Very Good (81-85)"
	SkillGroupElite    SkillGroup = "Elite (86+)"
)

// ResultWin is the match result counted by the win counters.
const ResultWin = "win"

// InjuryRecord is one row of the enriched injury table: the cleaned raw
// fields of a player-injury event plus every derived column.
type InjuryRecord struct {
	Name       string    `json:"name"`
	TeamName   string    `json:"team_name"`
	Position   string    `json:"position"`
	Season     string    `json:"season"`
	Age        NullFloat `json:"age"`
	FIFARating NullFloat `json:"fifa_rating"`
	Injury     string    `json:"injury"`
	InjuryDate NullTime  `json:"injury_date"`
	ReturnDate NullTime  `json:"return_date"`

	RatingsBefore [MatchesPerWindow]NullFloat `json:"ratings_before"`
	RatingsAfter  [MatchesPerWindow]NullFloat `json:"ratings_after"`
	GDBefore      [MatchesPerWindow]NullFloat `json:"gd_before"`
	GDMissed      [MatchesPerWindow]NullFloat `json:"gd_missed"`
	GDAfter       [MatchesPerWindow]NullFloat `json:"gd_after"`
	ResultsBefore [MatchesPerWindow]string    `json:"results_before"`
	ResultsMissed [MatchesPerWindow]string    `json:"results_missed"`

	InjuryDurationDays NullFloat `json:"injury_duration_days"`
	InjuryMonth        NullFloat `json:"injury_month"`
	InjuryYear         NullFloat `json:"injury_year"`
	InjuryQuarter      NullFloat `json:"injury_quarter"`
	InjuryMonthName    string    `json:"injury_month_name"`

	AvgRatingBefore      NullFloat `json:"avg_rating_before"`
	AvgRatingAfter       NullFloat `json:"avg_rating_after"`
	PerformanceDropIndex NullFloat `json:"performance_drop_index"`

	AvgGDBefore                  NullFloat `json:"avg_gd_before"`
	TeamPerformanceDuringAbsence NullFloat `json:"team_performance_during_absence"`
	TeamPerformanceDrop          NullFloat `json:"team_performance_drop"`
	AvgGDAfter                   NullFloat `json:"avg_gd_after"`

	WinCountBefore int `json:"win_count_before"`
	WinCountDuring int `json:"win_count_during"`

	InjurySeverity     Severity   `json:"injury_severity"`
	RecoveryIndex      NullFloat  `json:"recovery_index"`
	TeamImpactSeverity NullFloat  `json:"team_impact_severity"`
	AgeGroup           AgeGroup   `json:"age_group"`
	SkillGroup         SkillGroup `json:"skill_group"`
}
