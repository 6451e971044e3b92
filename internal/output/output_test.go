package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/mmbracket/internal/model"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

var testNames = Names{
	Teams:  map[int]string{1101: "Abilene Chr", 1102: "Air Force", 1103: "Akron"},
	SeedOf: func(id int) string { return map[int]string{1101: "W01", 1102: "W16", 1103: "X08"}[id] },
}

func TestPredictions(t *testing.T) {
	dir := t.TempDir()
	preds := []model.Prediction{
		{Season: 2024, Low: 1101, High: 1102, Prob: 0.75},
		{Season: 2024, Low: 1101, High: 1103, Prob: 0.25},
	}
	require.NoError(t, Writer{Dir: dir}.Predictions(preds, testNames))

	assert.Equal(t, [][]string{
		{"id", "pred"},
		{"2024_1101_1102", "0.75"},
		{"2024_1101_1103", "0.25"},
	}, readCSV(t, filepath.Join(dir, SubmissionFile)))

	assert.Equal(t, [][]string{
		{"Abilene Chr beats Air Force: 0.750000"},
		{"Akron beats Abilene Chr: 0.750000"},
	}, readCSV(t, filepath.Join(dir, ReadableFile)))

	assert.Equal(t, [][]string{
		{"Abilene Chr", "Air Force", "0.75"},
		{"Abilene Chr", "Akron", "0.25"},
	}, readCSV(t, filepath.Join(dir, LessReadableFile)))
}

func TestBracket(t *testing.T) {
	dir := t.TempDir()
	results := []model.SlotResult{
		{Slot: "R1W1", Team1: 1101, Team2: 1102, Winner: 1101, Prob: 0.9},
		{Slot: "R2W1", Team1: 1101, Team2: 1999, Winner: 1999, Prob: 0.55},
	}
	require.NoError(t, Writer{Dir: dir}.Bracket(results, testNames))

	assert.Equal(t, [][]string{
		{"slot", "team1", "team2", "winner", "probability"},
		{"R1W1", "Abilene Chr(W01)", "Air Force(W16)", "Abilene Chr", "0.9"},
		{"R2W1", "Abilene Chr(W01)", "1999()", "1999", "0.55"},
	}, readCSV(t, filepath.Join(dir, BracketFile)))
}

func TestCheckWritable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, CheckWritable(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file is removed")

	assert.Error(t, CheckWritable(filepath.Join(dir, "missing")))

	file := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	assert.Error(t, CheckWritable(file))
}
