// Package output writes prediction and bracket files into the data directory.
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pable/mmbracket/internal/model"
)

// Output file names.
const (
	SubmissionFile   = "submission.csv"
	ReadableFile     = "readable-predictions.csv"
	LessReadableFile = "less-readable-predictions.csv"
	BracketFile      = "tournament_results.csv"
)

// Names resolves team ids and seed labels for display.
type Names struct {
	Teams  map[int]string
	SeedOf func(team int) string
}

// Team returns the team's name, or its id when the directory has no entry.
func (n Names) Team(id int) string {
	if name, ok := n.Teams[id]; ok {
		return name
	}
	return strconv.Itoa(id)
}

// Seeded returns "Name(Seed)".
func (n Names) Seeded(id int) string {
	seed := ""
	if n.SeedOf != nil {
		seed = n.SeedOf(id)
	}
	return n.Team(id) + "(" + seed + ")"
}

// Writer writes files under Dir.
type Writer struct {
	Dir string
}

// Predictions writes the submission table and both matchup summaries.
func (w Writer) Predictions(preds []model.Prediction, names Names) error {
	sub := [][]string{{"id", "pred"}}
	readable := make([][]string, 0, len(preds))
	less := make([][]string, 0, len(preds))
	for _, p := range preds {
		sub = append(sub, []string{p.ID(), formatProb(p.Prob)})

		winner, loser, prob := p.Winner()
		readable = append(readable, []string{
			fmt.Sprintf("%s beats %s: %f", names.Team(winner), names.Team(loser), prob),
		})
		less = append(less, []string{names.Team(p.Low), names.Team(p.High), formatProb(p.Prob)})
	}

	if err := w.write(SubmissionFile, sub); err != nil {
		return err
	}
	if err := w.write(ReadableFile, readable); err != nil {
		return err
	}
	return w.write(LessReadableFile, less)
}

// Bracket writes the slot-by-slot resolution trace.
func (w Writer) Bracket(results []model.SlotResult, names Names) error {
	rows := [][]string{{"slot", "team1", "team2", "winner", "probability"}}
	for _, r := range results {
		rows = append(rows, []string{
			r.Slot,
			names.Seeded(r.Team1),
			names.Seeded(r.Team2),
			names.Team(r.Winner),
			formatProb(r.Prob),
		})
	}
	return w.write(BracketFile, rows)
}

func (w Writer) write(name string, rows [][]string) error {
	path := filepath.Join(w.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	cw := csv.NewWriter(f)
	if err := cw.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}

func formatProb(p float64) string {
	return strconv.FormatFloat(p, 'g', -1, 64)
}

// CheckWritable fails unless dir exists, is a directory and accepts new files.
func CheckWritable(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("filesystem access %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("filesystem access %s: not a directory", dir)
	}
	f, err := os.CreateTemp(dir, ".mmbracket-*")
	if err != nil {
		return fmt.Errorf("filesystem access %s: %w", dir, err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
