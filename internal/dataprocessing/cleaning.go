package dataprocessing

import (
	"strconv"
	"strings"
	"time"

	"footlens/pkg/contracts/domain"
)

// DefaultSentinels are the cell values read as "not available"
var DefaultSentinels = []string{"N.A."}

// DefaultDateLayouts are tried in order when parsing injury and return dates.
// Slash dates are month first; day-first files set their own layouts.
var DefaultDateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"Jan 2 2006",
}

// ratingMarkers are substitution/assist annotations appended to player ratings
var ratingMarkers = []string{"(S)", "(A)"}

// Sentinels is a set of cell values that mean "missing"
type Sentinels map[string]struct{}

// NewSentinels builds a sentinel set. Values are compared after trimming.
func NewSentinels(values []string) Sentinels {
	s := make(Sentinels, len(values))
	for _, v := range values {
		s[strings.TrimSpace(v)] = struct{}{}
	}
	return s
}

// Contains reports whether raw is a sentinel
func (s Sentinels) Contains(raw string) bool {
	_, ok := s[strings.TrimSpace(raw)]
	return ok
}

// ParseRatingCell parses a player rating such as "7.4", "6.9(S)" or "8(A)".
// Sentinels, blanks and unparseable text are missing.
func ParseRatingCell(raw string, sentinels Sentinels) domain.NullFloat {
	if sentinels.Contains(raw) {
		return domain.Missing()
	}
	cleaned := raw
	for _, marker := range ratingMarkers {
		cleaned = strings.ReplaceAll(cleaned, marker, "")
	}
	return parseFloatCell(cleaned)
}

// ParseGoalDifferenceCell parses a goal difference such as "-2" or "1.0".
// Sentinels, blanks and unparseable text are missing.
func ParseGoalDifferenceCell(raw string, sentinels Sentinels) domain.NullFloat {
	if sentinels.Contains(raw) {
		return domain.Missing()
	}
	return parseFloatCell(raw)
}

// ParseNumberCell parses a plain numeric cell such as the age or FIFA rating
func ParseNumberCell(raw string, sentinels Sentinels) domain.NullFloat {
	if sentinels.Contains(raw) {
		return domain.Missing()
	}
	return parseFloatCell(raw)
}

func parseFloatCell(raw string) domain.NullFloat {
	s := strings.TrimSpace(raw)
	if s == "" {
		return domain.Missing()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return domain.Missing()
	}
	return domain.Float(v)
}

// ParseDate tries each layout in order. Blank or unparseable input is missing.
func ParseDate(raw string, layouts []string) domain.NullTime {
	s := strings.TrimSpace(raw)
	if s == "" {
		return domain.NullTime{}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.Timestamp(t)
		}
	}
	return domain.NullTime{}
}

// DurationDays returns the elapsed whole days between two timestamps, floored,
// missing unless both are present.
func DurationDays(from, to domain.NullTime) domain.NullFloat {
	if !from.Valid || !to.Valid {
		return domain.Missing()
	}
	const day = 24 * time.Hour
	d := to.Time.Sub(from.Time)
	days := d / day
	if d%day < 0 {
		days--
	}
	return domain.Float(float64(days))
}

// MeanOf averages the present values. All-missing input yields missing.
func MeanOf(values []domain.NullFloat) domain.NullFloat {
	var sum float64
	var n int
	for _, v := range values {
		if v.Valid {
			sum += v.Float64
			n++
		}
	}
	if n == 0 {
		return domain.Missing()
	}
	return domain.Float(sum / float64(n))
}

// Sub returns a - b, missing when either side is missing
func Sub(a, b domain.NullFloat) domain.NullFloat {
	if !a.Valid || !b.Valid {
		return domain.Missing()
	}
	return domain.Float(a.Float64 - b.Float64)
}

// CountWins counts results equal to "win". Comparison is exact.
func CountWins(results []string) int {
	n := 0
	for _, r := range results {
		if r == domain.ResultWin {
			n++
		}
	}
	return n
}
