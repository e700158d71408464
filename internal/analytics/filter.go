package analytics

import (
	"strings"

	"footlens/pkg/contracts/domain"
)

// Filter selects rows by membership. Each non-empty set must contain the
// row's value; empty sets do not constrain. Sets combine with AND.
type Filter struct {
	Teams      []string `json:"teams,omitempty"`
	Seasons    []string `json:"seasons,omitempty"`
	Severities []string `json:"severities,omitempty"`
	Positions  []string `json:"positions,omitempty"`
	AgeGroups  []string `json:"age_groups,omitempty"`
}

// IsEmpty reports whether the filter keeps every row
func (f Filter) IsEmpty() bool {
	return len(f.Teams) == 0 && len(f.Seasons) == 0 && len(f.Severities) == 0 &&
		len(f.Positions) == 0 && len(f.AgeGroups) == 0
}

// Matches reports whether r passes every predicate
func (f Filter) Matches(r *domain.InjuryRecord) bool {
	return member(f.Teams, r.TeamName) &&
		member(f.Seasons, r.Season) &&
		member(f.Severities, string(r.InjurySeverity)) &&
		member(f.Positions, r.Position) &&
		member(f.AgeGroups, string(r.AgeGroup))
}

// Apply returns a new table with the matching rows
func (f Filter) Apply(table *domain.InjuryTable) *domain.InjuryTable {
	if f.IsEmpty() {
		return table
	}
	return table.Where(f.Matches)
}

// member compares case-insensitively so query strings need not match the
// data's capitalisation.
func member(set []string, value string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if strings.EqualFold(strings.TrimSpace(s), value) {
			return true
		}
	}
	return false
}
