package storage

import (
	"context"
	"reflect"
	"testing"

	"github.com/pable/mmbracket/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleInputs() *model.Inputs {
	return &model.Inputs{
		Teams: []model.Team{{ID: 1101, Name: "Abilene Chr"}, {ID: 1102, Name: "Air Force"}},
		Games: []model.Game{
			{
				Season: 2024, DayNum: 12, WTeamID: 1102, LTeamID: 1101, WLoc: model.LocationNeutral, NumOT: 1,
				Winner: model.BoxScore{Score: 81, FGM: 28, FGA: 60, FTA: 21, PF: 20},
				Loser:  model.BoxScore{Score: 79, FGM: 27, FGA: 61, FTA: 19, PF: 21},
			},
			{
				Season: 2024, DayNum: 10, WTeamID: 1101, LTeamID: 1102, WLoc: model.LocationHome,
				Winner: model.BoxScore{Score: 70, Ast: 13, Blk: 4},
				Loser:  model.BoxScore{Score: 60, TO: 14},
			},
			{
				Season: 2024, DayNum: 136, WTeamID: 1101, LTeamID: 1102, WLoc: model.LocationAway, Tourney: true,
				Winner: model.BoxScore{Score: 66},
				Loser:  model.BoxScore{Score: 64},
			},
		},
		Seeds: []model.Seed{{Season: 2024, Label: "W16", TeamID: 1102}, {Season: 2024, Label: "W01", TeamID: 1101}},
		Slots: []model.Slot{{Season: 2024, Label: "R1W1", StrongSeed: "W01", WeakSeed: "W16"}},
	}
}

func TestInputsRoundTripKeepsOrder(t *testing.T) {
	db := openMemDB(t)
	in := sampleInputs()

	if err := db.ReplaceInputs(in); err != nil {
		t.Fatalf("ReplaceInputs: %v", err)
	}
	got, err := db.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Errorf("loaded inputs differ:\n got %+v\nwant %+v", got, in)
	}

	seeds, err := db.SeasonSeeds(2024)
	if err != nil {
		t.Fatalf("SeasonSeeds: %v", err)
	}
	if len(seeds) != 2 || seeds[0].Label != "W16" {
		t.Errorf("SeasonSeeds(2024) = %+v", seeds)
	}
	if none, _ := db.SeasonSeeds(2023); len(none) != 0 {
		t.Errorf("expected no 2023 seeds, got %+v", none)
	}
}

func TestReplaceInputsClearsPrevious(t *testing.T) {
	db := openMemDB(t)
	if err := db.ReplaceInputs(sampleInputs()); err != nil {
		t.Fatalf("ReplaceInputs: %v", err)
	}
	small := &model.Inputs{Teams: []model.Team{{ID: 1200, Name: "Zed"}}}
	if err := db.ReplaceInputs(small); err != nil {
		t.Fatalf("ReplaceInputs: %v", err)
	}
	got, err := db.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Teams) != 1 || len(got.Games) != 0 || len(got.Seeds) != 0 || len(got.Slots) != 0 {
		t.Errorf("expected only the replacement rows, got %+v", got)
	}
}

func TestInsertAndGetRun(t *testing.T) {
	db := openMemDB(t)
	if err := db.ReplaceInputs(sampleInputs()); err != nil {
		t.Fatalf("ReplaceInputs: %v", err)
	}

	run := model.RunSummary{
		ID: "6f1c2a40-0000-4000-8000-000000000001", Season: 2024, CreatedAt: "2024-03-17T12:00:00Z",
		Samples: 120, Skipped: 4, CVAccuracy: 0.71, Champion: 1101,
	}
	preds := []model.Prediction{{Season: 2024, Low: 1101, High: 1102, Prob: 0.64}}
	results := []model.SlotResult{
		{Slot: "R1W1", Team1: 1101, Team2: 1102, Winner: 1101, Prob: 0.64},
		{Slot: "R2W1", Team1: 1101, Team2: 1103, Winner: 1103, Prob: 0.52},
	}
	ratings := []model.TeamRating{{Season: 2024, TeamID: 1102, Rating: 1590}, {Season: 2024, TeamID: 1101, Rating: 1610}}

	if err := db.InsertRun(run, preds, results, ratings); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	got, err := db.GetRunByPrefix("6f1c")
	if err != nil {
		t.Fatalf("GetRunByPrefix: %v", err)
	}
	if got == nil || *got != run {
		t.Fatalf("GetRunByPrefix = %+v, want %+v", got, run)
	}

	missing, err := db.GetRunByPrefix("ffff")
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for unknown prefix; got %+v, %v", missing, err)
	}

	gotPreds, err := db.GetPredictions(run.ID)
	if err != nil {
		t.Fatalf("GetPredictions: %v", err)
	}
	if !reflect.DeepEqual(gotPreds, preds) {
		t.Errorf("predictions = %+v, want %+v", gotPreds, preds)
	}

	gotSlots, err := db.GetBracket(run.ID)
	if err != nil {
		t.Fatalf("GetBracket: %v", err)
	}
	if !reflect.DeepEqual(gotSlots, results) {
		t.Errorf("bracket = %+v, want %+v", gotSlots, results)
	}

	gotRatings, err := db.GetRatings(run.ID)
	if err != nil {
		t.Fatalf("GetRatings: %v", err)
	}
	if len(gotRatings) != 2 || gotRatings[0].TeamID != 1101 {
		t.Errorf("expected ratings sorted highest first, got %+v", gotRatings)
	}

	names, err := db.TeamNames()
	if err != nil {
		t.Fatalf("TeamNames: %v", err)
	}
	if names[1102] != "Air Force" {
		t.Errorf("TeamNames[1102] = %q", names[1102])
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	db := openMemDB(t)
	for _, r := range []model.RunSummary{
		{ID: "a", Season: 2023, CreatedAt: "2023-03-10T00:00:00Z"},
		{ID: "b", Season: 2024, CreatedAt: "2024-03-10T00:00:00Z"},
	} {
		if err := db.InsertRun(r, nil, nil, nil); err != nil {
			t.Fatalf("InsertRun: %v", err)
		}
	}
	runs, err := db.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "b" {
		t.Errorf("expected newest first, got %+v", runs)
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	if err := db.ReplaceInputs(sampleInputs()); err != nil {
		t.Fatalf("ReplaceInputs: %v", err)
	}
	cols, rows, err := db.QueryRaw("SELECT team_id, name FROM teams ORDER BY team_id")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if !reflect.DeepEqual(cols, []string{"team_id", "name"}) {
		t.Errorf("cols = %v", cols)
	}
	want := [][]string{{"1101", "Abilene Chr"}, {"1102", "Air Force"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, want %v", rows, want)
	}

	if _, _, err := db.QueryRaw("SELECT * FROM nope"); err == nil {
		t.Error("expected error for unknown table")
	}
}
