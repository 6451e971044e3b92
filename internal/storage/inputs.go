package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pable/mmbracket/internal/model"
)

// ReplaceInputs swaps the stored teams, games, seeds and slots for in.
// Row order is preserved so Load returns games in their original order.
func (db *DB) ReplaceInputs(in *model.Inputs) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"teams", "games", "seeds", "slots"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := insertTeams(tx, in.Teams); err != nil {
		return err
	}
	if err := insertGames(tx, in.Games); err != nil {
		return err
	}
	if err := insertSeeds(tx, in.Seeds); err != nil {
		return err
	}
	if err := insertSlots(tx, in.Slots); err != nil {
		return err
	}
	return tx.Commit()
}

func insertTeams(tx *sql.Tx, teams []model.Team) error {
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO teams(team_id, name) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, t := range teams {
		if _, err := stmt.Exec(t.ID, t.Name); err != nil {
			return fmt.Errorf("insert team %d: %w", t.ID, err)
		}
	}
	return nil
}

func insertGames(tx *sql.Tx, games []model.Game) error {
	stmt, err := tx.Prepare(`
		INSERT INTO games(
			ord, season, day_num, w_team_id, l_team_id, w_loc, num_ot, tourney,
			w_score, w_fgm, w_fga, w_fgm3, w_fga3, w_ftm, w_fta, w_or, w_dr, w_ast, w_to, w_stl, w_blk, w_pf,
			l_score, l_fgm, l_fga, l_fgm3, l_fga3, l_ftm, l_fta, l_or, l_dr, l_ast, l_to, l_stl, l_blk, l_pf
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, g := range games {
		args := []any{i, g.Season, g.DayNum, g.WTeamID, g.LTeamID, string(g.WLoc), g.NumOT, boolInt(g.Tourney)}
		args = append(args, boxArgs(g.Winner)...)
		args = append(args, boxArgs(g.Loser)...)
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert game %d (%d vs %d): %w", g.Season, g.WTeamID, g.LTeamID, err)
		}
	}
	return nil
}

func boxArgs(b model.BoxScore) []any {
	return []any{b.Score, b.FGM, b.FGA, b.FGM3, b.FGA3, b.FTM, b.FTA, b.OR, b.DR, b.Ast, b.TO, b.Stl, b.Blk, b.PF}
}

func boxDest(b *model.BoxScore) []any {
	return []any{&b.Score, &b.FGM, &b.FGA, &b.FGM3, &b.FGA3, &b.FTM, &b.FTA, &b.OR, &b.DR, &b.Ast, &b.TO, &b.Stl, &b.Blk, &b.PF}
}

func insertSeeds(tx *sql.Tx, seeds []model.Seed) error {
	stmt, err := tx.Prepare(`INSERT INTO seeds(ord, season, seed, team_id) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, s := range seeds {
		if _, err := stmt.Exec(i, s.Season, s.Label, s.TeamID); err != nil {
			return fmt.Errorf("insert seed %d %s: %w", s.Season, s.Label, err)
		}
	}
	return nil
}

func insertSlots(tx *sql.Tx, slots []model.Slot) error {
	stmt, err := tx.Prepare(`INSERT INTO slots(ord, season, slot, strong_seed, weak_seed) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, s := range slots {
		if _, err := stmt.Exec(i, s.Season, s.Label, s.StrongSeed, s.WeakSeed); err != nil {
			return fmt.Errorf("insert slot %d %s: %w", s.Season, s.Label, err)
		}
	}
	return nil
}

// Load reads the stored inputs back in insertion order.
func (db *DB) Load(ctx context.Context) (*model.Inputs, error) {
	in := &model.Inputs{}

	rows, err := db.conn.QueryContext(ctx, `SELECT team_id, name FROM teams ORDER BY team_id`)
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			rows.Close()
			return nil, err
		}
		in.Teams = append(in.Teams, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if in.Games, err = db.loadGames(ctx); err != nil {
		return nil, fmt.Errorf("load games: %w", err)
	}

	rows, err = db.conn.QueryContext(ctx, `SELECT season, seed, team_id FROM seeds ORDER BY ord`)
	if err != nil {
		return nil, fmt.Errorf("load seeds: %w", err)
	}
	for rows.Next() {
		var s model.Seed
		if err := rows.Scan(&s.Season, &s.Label, &s.TeamID); err != nil {
			rows.Close()
			return nil, err
		}
		in.Seeds = append(in.Seeds, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.conn.QueryContext(ctx, `SELECT season, slot, strong_seed, weak_seed FROM slots ORDER BY ord`)
	if err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s model.Slot
		if err := rows.Scan(&s.Season, &s.Label, &s.StrongSeed, &s.WeakSeed); err != nil {
			return nil, err
		}
		in.Slots = append(in.Slots, s)
	}
	return in, rows.Err()
}

func (db *DB) loadGames(ctx context.Context) ([]model.Game, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT season, day_num, w_team_id, l_team_id, w_loc, num_ot, tourney,
			w_score, w_fgm, w_fga, w_fgm3, w_fga3, w_ftm, w_fta, w_or, w_dr, w_ast, w_to, w_stl, w_blk, w_pf,
			l_score, l_fgm, l_fga, l_fgm3, l_fga3, l_ftm, l_fta, l_or, l_dr, l_ast, l_to, l_stl, l_blk, l_pf
		FROM games ORDER BY ord`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Game
	for rows.Next() {
		var g model.Game
		var loc string
		var tourney int
		dest := []any{&g.Season, &g.DayNum, &g.WTeamID, &g.LTeamID, &loc, &g.NumOT, &tourney}
		dest = append(dest, boxDest(&g.Winner)...)
		dest = append(dest, boxDest(&g.Loser)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if g.WLoc, err = model.ParseLocation(loc); err != nil {
			return nil, err
		}
		g.Tourney = tourney != 0
		out = append(out, g)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SeasonSeeds returns the ingested seeds for one season.
func (db *DB) SeasonSeeds(season int) ([]model.Seed, error) {
	rows, err := db.conn.Query(`SELECT season, seed, team_id FROM seeds WHERE season = ? ORDER BY ord`, season)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Seed
	for rows.Next() {
		var s model.Seed
		if err := rows.Scan(&s.Season, &s.Label, &s.TeamID); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
