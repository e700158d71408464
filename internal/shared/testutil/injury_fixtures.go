package testutil

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// InjuryRow is one raw row of the injury CSV, every cell as text
type InjuryRow struct {
	Name       string
	Team       string
	Position   string
	Age        string
	Season     string
	FIFARating string
	Injury     string
	InjuryDate string
	ReturnDate string

	ResultsBefore [3]string
	GDBefore      [3]string
	RatingsBefore [3]string
	ResultsMissed [3]string
	GDMissed      [3]string
	GDAfter       [3]string
	RatingsAfter  [3]string
}

// DefaultInjuryRow returns a fully populated row
func DefaultInjuryRow() InjuryRow {
	return InjuryRow{
		Name:          "Kevin De Bruyne",
		Team:          "Manchester City",
		Position:      "Center Midfielder",
		Age:           "28",
		Season:        "2019/20",
		FIFARating:    "91",
		Injury:        "Hamstring strain",
		InjuryDate:    "Nov 5, 2019",
		ReturnDate:    "Nov 25, 2019",
		ResultsBefore: [3]string{"win", "draw", "win"},
		GDBefore:      [3]string{"2", "0", "1"},
		RatingsBefore: [3]string{"8.1", "7.5(S)", "7.9"},
		ResultsMissed: [3]string{"lose", "win", "draw"},
		GDMissed:      [3]string{"-1", "3", "0"},
		GDAfter:       [3]string{"1", "1", "2"},
		RatingsAfter:  [3]string{"7.0", "6.8", "N.A."},
	}
}

// InjuryHeader is the header row of the raw injury CSV, in file order.
// Opposition columns are present in the real file and ignored by the reader.
func InjuryHeader() []string {
	header := []string{"Name", "Team Name", "Position", "Age", "Season", "FIFA rating", "Injury", "Date of Injury", "Date of return"}
	for i := 1; i <= 3; i++ {
		header = append(header,
			fmt.Sprintf("Match%d_before_injury_Result", i),
			fmt.Sprintf("Match%d_before_injury_Opposition", i),
			fmt.Sprintf("Match%d_before_injury_GD", i),
			fmt.Sprintf("Match%d_before_injury_Player_rating", i),
		)
	}
	for i := 1; i <= 3; i++ {
		header = append(header,
			fmt.Sprintf("Match%d_missed_match_Result", i),
			fmt.Sprintf("Match%d_missed_match_Opposition", i),
			fmt.Sprintf("Match%d_missed_match_GD", i),
		)
	}
	for i := 1; i <= 3; i++ {
		header = append(header,
			fmt.Sprintf("Match%d_after_injury_GD", i),
			fmt.Sprintf("Match%d_after_injury_Player_rating", i),
		)
	}
	return header
}

// Cells returns the row in InjuryHeader order
func (r InjuryRow) Cells() []string {
	cells := []string{r.Name, r.Team, r.Position, r.Age, r.Season, r.FIFARating, r.Injury, r.InjuryDate, r.ReturnDate}
	for i := 0; i < 3; i++ {
		cells = append(cells, r.ResultsBefore[i], "Opponent", r.GDBefore[i], r.RatingsBefore[i])
	}
	for i := 0; i < 3; i++ {
		cells = append(cells, r.ResultsMissed[i], "Opponent", r.GDMissed[i])
	}
	for i := 0; i < 3; i++ {
		cells = append(cells, r.GDAfter[i], r.RatingsAfter[i])
	}
	return cells
}

// InjuryCSV renders rows as CSV text with the standard header
func InjuryCSV(rows ...InjuryRow) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write(InjuryHeader())
	for _, r := range rows {
		_ = w.Write(r.Cells())
	}
	w.Flush()
	return sb.String()
}

// WriteInjuryCSV writes rows to a CSV file in a temp dir and returns its path
func WriteInjuryCSV(t *testing.T, rows ...InjuryRow) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "player_injuries_impact.csv")
	if err := os.WriteFile(path, []byte(InjuryCSV(rows...)), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}
