// Package loader reads the competition CSV files from a data directory.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pable/mmbracket/internal/model"
)

// File names inside the data directory.
const (
	TeamsFile         = "MTeams.csv"
	RegularSeasonFile = "MRegularSeasonDetailedResults.csv"
	TourneyFile       = "MNCAATourneyDetailedResults.csv"
	SeedsFile         = "MNCAATourneySeeds.csv"
	SlotsFile         = "MNCAATourneySlots.csv"
)

// Dir loads inputs from a directory of CSV files.
type Dir struct {
	Path string
}

// Load reads all five files. Regular-season games come first, then
// tournament games, each in file order.
func (d Dir) Load(ctx context.Context) (*model.Inputs, error) {
	in := &model.Inputs{}
	var err error

	if in.Teams, err = readTeams(d.file(TeamsFile)); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	regular, err := readGames(d.file(RegularSeasonFile), false)
	if err != nil {
		return nil, err
	}
	tourney, err := readGames(d.file(TourneyFile), true)
	if err != nil {
		return nil, err
	}
	in.Games = append(regular, tourney...)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.Seeds, err = readSeeds(d.file(SeedsFile)); err != nil {
		return nil, err
	}
	if in.Slots, err = readSlots(d.file(SlotsFile)); err != nil {
		return nil, err
	}
	return in, nil
}

func (d Dir) file(name string) string { return filepath.Join(d.Path, name) }

// table is a header-indexed view over one CSV file.
type table struct {
	path string
	cols map[string]int
	r    *csv.Reader
	line int
}

func openTable(path string, required ...string) (*table, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	r := csv.NewReader(f)
	r.ReuseRecord = true
	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("read header %s: %w", filepath.Base(path), err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			f.Close()
			return nil, nil, fmt.Errorf("%s: missing column %q", filepath.Base(path), c)
		}
	}
	return &table{path: path, cols: cols, r: r, line: 1}, f, nil
}

// next reads the next record; it returns io.EOF at the end.
func (t *table) next() ([]string, error) {
	rec, err := t.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%s: %w", filepath.Base(t.path), err)
	}
	t.line++
	return rec, nil
}

func (t *table) str(rec []string, col string) string {
	return strings.TrimSpace(rec[t.cols[col]])
}

func (t *table) num(rec []string, col string) (int, error) {
	v, err := strconv.Atoi(t.str(rec, col))
	if err != nil {
		return 0, fmt.Errorf("%s line %d column %s: %w", filepath.Base(t.path), t.line, col, err)
	}
	return v, nil
}

func readTeams(path string) ([]model.Team, error) {
	t, c, err := openTable(path, "TeamID", "TeamName")
	if err != nil {
		return nil, err
	}
	defer c.Close()

	var out []model.Team
	for {
		rec, err := t.next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		id, err := t.num(rec, "TeamID")
		if err != nil {
			return nil, err
		}
		out = append(out, model.Team{ID: id, Name: t.str(rec, "TeamName")})
	}
}

var boxColumns = []string{"Score", "FGM", "FGA", "FGM3", "FGA3", "FTM", "FTA", "OR", "DR", "Ast", "TO", "Stl", "Blk", "PF"}

func gameColumns() []string {
	cols := []string{"Season", "DayNum", "WTeamID", "LTeamID", "WLoc", "NumOT"}
	for _, side := range []string{"W", "L"} {
		for _, c := range boxColumns {
			cols = append(cols, side+c)
		}
	}
	return cols
}

func readGames(path string, tourney bool) ([]model.Game, error) {
	t, c, err := openTable(path, gameColumns()...)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	var out []model.Game
	for {
		rec, err := t.next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		g := model.Game{Tourney: tourney}
		ints := []intCol{
			{"Season", &g.Season}, {"DayNum", &g.DayNum},
			{"WTeamID", &g.WTeamID}, {"LTeamID", &g.LTeamID}, {"NumOT", &g.NumOT},
		}
		ints = append(ints, boxFields("W", &g.Winner)...)
		ints = append(ints, boxFields("L", &g.Loser)...)
		for _, f := range ints {
			if *f.dst, err = t.num(rec, f.col); err != nil {
				return nil, err
			}
		}
		if g.WLoc, err = model.ParseLocation(t.str(rec, "WLoc")); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filepath.Base(path), t.line, err)
		}
		out = append(out, g)
	}
}

// intCol binds a column name to the field it fills.
type intCol struct {
	col string
	dst *int
}

func boxFields(side string, b *model.BoxScore) []intCol {
	dsts := []*int{&b.Score, &b.FGM, &b.FGA, &b.FGM3, &b.FGA3, &b.FTM, &b.FTA, &b.OR, &b.DR, &b.Ast, &b.TO, &b.Stl, &b.Blk, &b.PF}
	out := make([]intCol, len(dsts))
	for i, d := range dsts {
		out[i] = intCol{col: side + boxColumns[i], dst: d}
	}
	return out
}

func readSeeds(path string) ([]model.Seed, error) {
	t, c, err := openTable(path, "Season", "Seed", "TeamID")
	if err != nil {
		return nil, err
	}
	defer c.Close()

	var out []model.Seed
	for {
		rec, err := t.next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		var s model.Seed
		if s.Season, err = t.num(rec, "Season"); err != nil {
			return nil, err
		}
		if s.TeamID, err = t.num(rec, "TeamID"); err != nil {
			return nil, err
		}
		s.Label = t.str(rec, "Seed")
		out = append(out, s)
	}
}

func readSlots(path string) ([]model.Slot, error) {
	t, c, err := openTable(path, "Season", "Slot", "StrongSeed", "WeakSeed")
	if err != nil {
		return nil, err
	}
	defer c.Close()

	var out []model.Slot
	for {
		rec, err := t.next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		var s model.Slot
		if s.Season, err = t.num(rec, "Season"); err != nil {
			return nil, err
		}
		s.Label = t.str(rec, "Slot")
		s.StrongSeed = t.str(rec, "StrongSeed")
		s.WeakSeed = t.str(rec, "WeakSeed")
		out = append(out, s)
	}
}
