package storage

import (
	"database/sql"
	"fmt"

	"github.com/pable/mmbracket/internal/model"
)

// InsertRun stores a run together with its predictions, bracket trace and
// end-of-season ratings in one transaction.
func (db *DB) InsertRun(run model.RunSummary, preds []model.Prediction, results []model.SlotResult, ratings []model.TeamRating) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO runs(id, season, created_at, samples, skipped, cv_accuracy, champion)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Season, run.CreatedAt, run.Samples, run.Skipped, run.CVAccuracy, run.Champion,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	predStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO predictions(run_id, season, low_id, high_id, prob)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer predStmt.Close()
	for _, p := range preds {
		if _, err := predStmt.Exec(run.ID, p.Season, p.Low, p.High, p.Prob); err != nil {
			return fmt.Errorf("insert prediction %s: %w", p.ID(), err)
		}
	}

	slotStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO bracket_results(run_id, ord, slot, team1, team2, winner, prob)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer slotStmt.Close()
	for i, r := range results {
		if _, err := slotStmt.Exec(run.ID, i, r.Slot, r.Team1, r.Team2, r.Winner, r.Prob); err != nil {
			return fmt.Errorf("insert slot %s: %w", r.Slot, err)
		}
	}

	ratingStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO ratings(run_id, season, team_id, rating)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer ratingStmt.Close()
	for _, r := range ratings {
		if _, err := ratingStmt.Exec(run.ID, r.Season, r.TeamID, r.Rating); err != nil {
			return fmt.Errorf("insert rating %d: %w", r.TeamID, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns all stored runs, newest first.
func (db *DB) ListRuns() ([]model.RunSummary, error) {
	rows, err := db.conn.Query(`
		SELECT id, season, created_at, samples, skipped, cv_accuracy, champion
		FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RunSummary
	for rows.Next() {
		var r model.RunSummary
		if err := rows.Scan(&r.ID, &r.Season, &r.CreatedAt, &r.Samples, &r.Skipped, &r.CVAccuracy, &r.Champion); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRunByPrefix returns the first run whose id starts with prefix, or nil.
func (db *DB) GetRunByPrefix(prefix string) (*model.RunSummary, error) {
	row := db.conn.QueryRow(`
		SELECT id, season, created_at, samples, skipped, cv_accuracy, champion
		FROM runs WHERE id LIKE ? ORDER BY created_at DESC LIMIT 1`, prefix+"%")
	var r model.RunSummary
	err := row.Scan(&r.ID, &r.Season, &r.CreatedAt, &r.Samples, &r.Skipped, &r.CVAccuracy, &r.Champion)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetPredictions returns a run's predictions ordered by team pair.
func (db *DB) GetPredictions(runID string) ([]model.Prediction, error) {
	rows, err := db.conn.Query(`
		SELECT season, low_id, high_id, prob
		FROM predictions WHERE run_id = ? ORDER BY low_id, high_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Prediction
	for rows.Next() {
		var p model.Prediction
		if err := rows.Scan(&p.Season, &p.Low, &p.High, &p.Prob); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetBracket returns a run's slot results in resolution order.
func (db *DB) GetBracket(runID string) ([]model.SlotResult, error) {
	rows, err := db.conn.Query(`
		SELECT slot, team1, team2, winner, prob
		FROM bracket_results WHERE run_id = ? ORDER BY ord`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SlotResult
	for rows.Next() {
		var r model.SlotResult
		if err := rows.Scan(&r.Slot, &r.Team1, &r.Team2, &r.Winner, &r.Prob); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRatings returns a run's ratings, highest first.
func (db *DB) GetRatings(runID string) ([]model.TeamRating, error) {
	rows, err := db.conn.Query(`
		SELECT season, team_id, rating
		FROM ratings WHERE run_id = ? ORDER BY rating DESC, team_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TeamRating
	for rows.Next() {
		var r model.TeamRating
		if err := rows.Scan(&r.Season, &r.TeamID, &r.Rating); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TeamNames returns the stored team directory keyed by id.
func (db *DB) TeamNames() (map[int]string, error) {
	rows, err := db.conn.Query(`SELECT team_id, name FROM teams`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int]string)
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}
