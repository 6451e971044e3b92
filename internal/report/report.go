package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/mmbracket/internal/model"
	"github.com/pable/mmbracket/internal/output"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintRunSummary prints a one-line header for a stored or finished run.
func PrintRunSummary(w io.Writer, r model.RunSummary, names output.Names) {
	fmt.Fprintf(w, "\nSeason: %d  |  Samples: %d (skipped %d)  |  CV accuracy: %.3f  |  Champion: %s  |  Run: %s\n\n",
		r.Season, r.Samples, r.Skipped, r.CVAccuracy, names.Team(r.Champion), shortID(r.ID))
}

// PrintRunTable lists stored runs.
func PrintRunTable(w io.Writer, runs []model.RunSummary, names output.Names) {
	table := newTable(w)
	table.Header("RUN", "SEASON", "CREATED", "SAMPLES", "SKIPPED", "CV_ACC", "CHAMPION")
	for _, r := range runs {
		table.Append(
			shortID(r.ID),
			strconv.Itoa(r.Season),
			r.CreatedAt,
			strconv.Itoa(r.Samples),
			strconv.Itoa(r.Skipped),
			fmt.Sprintf("%.3f", r.CVAccuracy),
			names.Team(r.Champion),
		)
	}
	table.Render()
}

// PrintBracketTable prints the slot-by-slot resolution trace.
// The winner column is marked with "*" when the pick went against the favourite seed.
func PrintBracketTable(w io.Writer, results []model.SlotResult, names output.Names) {
	table := newTable(w)
	table.Header("SLOT", "TEAM1", "TEAM2", "WINNER", "PROB")
	for _, r := range results {
		winner := names.Team(r.Winner)
		if r.Winner == r.Team2 {
			winner += " *"
		}
		table.Append(
			r.Slot,
			names.Seeded(r.Team1),
			names.Seeded(r.Team2),
			winner,
			fmt.Sprintf("%.3f", r.Prob),
		)
	}
	table.Render()
}

// PrintRatingTable prints the top n ratings; n <= 0 prints all of them.
func PrintRatingTable(w io.Writer, ratings []model.TeamRating, names output.Names, n int) {
	if n > 0 && n < len(ratings) {
		ratings = ratings[:n]
	}
	table := newTable(w)
	table.Header("#", "TEAM", "SEASON", "ELO")
	for i, r := range ratings {
		table.Append(
			strconv.Itoa(i+1),
			names.Team(r.TeamID),
			strconv.Itoa(r.Season),
			strconv.Itoa(r.Rating),
		)
	}
	table.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// PrintQueryTable prints the result of a raw query.
func PrintQueryTable(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)

	for _, row := range rows {
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		table.Append(cells...)
	}
	table.Render()
}
