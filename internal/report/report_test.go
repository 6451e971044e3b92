package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pable/mmbracket/internal/model"
	"github.com/pable/mmbracket/internal/output"
)

var names = output.Names{
	Teams:  map[int]string{1101: "Abilene Chr", 1102: "Air Force"},
	SeedOf: func(id int) string { return map[int]string{1101: "W01", 1102: "W16"}[id] },
}

func TestPrintBracketTable(t *testing.T) {
	var buf bytes.Buffer
	PrintBracketTable(&buf, []model.SlotResult{
		{Slot: "R1W1", Team1: 1101, Team2: 1102, Winner: 1102, Prob: 0.51},
	}, names)

	out := buf.String()
	for _, want := range []string{"SLOT", "R1W1", "Abilene Chr(W01)", "Air Force(W16)", "Air Force *", "0.510"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintRatingTableTop(t *testing.T) {
	var buf bytes.Buffer
	PrintRatingTable(&buf, []model.TeamRating{
		{Season: 2024, TeamID: 1101, Rating: 1712},
		{Season: 2024, TeamID: 1102, Rating: 1588},
	}, names, 1)

	out := buf.String()
	if !strings.Contains(out, "1712") {
		t.Errorf("expected top rating in output:\n%s", out)
	}
	if strings.Contains(out, "1588") {
		t.Errorf("expected table cut at one row:\n%s", out)
	}
}

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintRunSummary(&buf, model.RunSummary{
		ID: "0123456789abcdef", Season: 2024, Samples: 10, Skipped: 2, CVAccuracy: 0.7, Champion: 1101,
	}, names)
	out := buf.String()
	if !strings.Contains(out, "Champion: Abilene Chr") || !strings.Contains(out, "Run: 01234567") {
		t.Errorf("unexpected summary: %q", out)
	}
}
