package dataprocessing

import (
	"strings"

	"footlens/pkg/contracts/domain"
)

// SeverityRules holds the keyword lists used to classify injury labels.
// Severe keywords are checked before moderate ones; anything else is Minor.
type SeverityRules struct {
	Severe   []string
	Moderate []string
}

// DefaultSeverityRules returns the standard keyword lists
func DefaultSeverityRules() SeverityRules {
	return SeverityRules{
		Severe:   []string{"cruciate", "acl", "meniscus", "fracture", "rupture", "tear", "ligament"},
		Moderate: []string{"hamstring", "groin", "calf", "shoulder", "ankle", "strain"},
	}
}

// Classify maps an injury label to a severity by case-insensitive substring
// match.
func (r SeverityRules) Classify(label string) domain.Severity {
	lower := strings.ToLower(label)
	if containsAny(lower, r.Severe) {
		return domain.SeveritySevere
	}
	if containsAny(lower, r.Moderate) {
		return domain.SeverityModerate
	}
	return domain.SeverityMinor
}

// ClassifySeverity classifies label with the default rules
func ClassifySeverity(label string) domain.Severity {
	return DefaultSeverityRules().Classify(label)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// TeamImpactSeverity weighs the absolute team performance drop by severity.
func TeamImpactSeverity(drop domain.NullFloat, severity domain.Severity) domain.NullFloat {
	if !drop.Valid {
		return domain.Missing()
	}
	abs := drop.Float64
	if abs < 0 {
		abs = -abs
	}
	return domain.Float(abs * severity.Weight())
}
