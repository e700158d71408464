package analytics

import (
	"time"

	"footlens/pkg/contracts/domain"
)

type rec struct {
	name     string
	team     string
	season   string
	position string
	injury   string
	severity domain.Severity
	age      float64
	fifa     float64
	duration float64
	drop     float64
	teamDrop float64
	month    time.Month
}

func (r rec) record() domain.InjuryRecord {
	out := domain.InjuryRecord{
		Name:                 r.name,
		TeamName:             r.team,
		Season:               r.season,
		Position:             r.position,
		Injury:               r.injury,
		InjurySeverity:       r.severity,
		Age:                  domain.Float(r.age),
		FIFARating:           domain.Float(r.fifa),
		InjuryDurationDays:   domain.Float(r.duration),
		PerformanceDropIndex: domain.Float(r.drop),
		TeamPerformanceDrop:  domain.Float(r.teamDrop),
		TeamImpactSeverity:   domain.Float(r.teamDrop * r.severity.Weight()),
		AgeGroup:             domain.AgeGroupPrime,
	}
	if r.month != 0 {
		out.InjuryDate = domain.Date(time.Date(2020, r.month, 10, 0, 0, 0, 0, time.UTC))
	}
	return out
}

func sampleTable() *domain.InjuryTable {
	recs := []rec{
		{name: "A", team: "Arsenal", season: "2020/21", position: "Winger", injury: "Hamstring strain", severity: domain.SeverityModerate, age: 24, fifa: 80, duration: 10, drop: 0.5, teamDrop: 1, month: time.January},
		{name: "B", team: "Arsenal", season: "2020/21", position: "Defender", injury: "Hamstring strain", severity: domain.SeverityModerate, age: 28, fifa: 82, duration: 20, drop: 0.1, teamDrop: 2, month: time.January},
		{name: "C", team: "Chelsea", season: "2021/22", position: "Defender", injury: "Hamstring strain", severity: domain.SeverityModerate, age: 31, fifa: 84, duration: 30, drop: -0.2, teamDrop: 3, month: time.March},
		{name: "D", team: "Chelsea", season: "2021/22", position: "Winger", injury: "ACL tear", severity: domain.SeveritySevere, age: 26, fifa: 88, duration: 200, drop: 1.2, teamDrop: 4, month: time.October},
		{name: "A", team: "Arsenal", season: "2021/22", position: "Winger", injury: "Knock", severity: domain.SeverityMinor, age: 25, fifa: 81, duration: 5, drop: 0, teamDrop: -1, month: time.March},
	}
	rows := make([]domain.InjuryRecord, len(recs))
	for i, r := range recs {
		rows[i] = r.record()
	}
	return domain.NewInjuryTable(rows)
}
