package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/mmbracket/internal/report"
	"github.com/pable/mmbracket/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the database",
	Long: `Run an arbitrary SQL query against the database and print results as a table.

Schema overview:
  teams(team_id, name)
  games(ord, season, day_num, w_team_id, l_team_id, w_loc, num_ot, tourney,
    w_score, w_fgm, w_fga, ..., l_score, l_fgm, l_fga, ..., l_pf)
  seeds(ord, season, seed, team_id)
  slots(ord, season, slot, strong_seed, weak_seed)
  runs(id, season, created_at, samples, skipped, cv_accuracy, champion)
  predictions(run_id, season, low_id, high_id, prob)
  bracket_results(run_id, ord, slot, team1, team2, winner, prob)
  ratings(run_id, season, team_id, rating)

Example: SELECT slot, winner, prob FROM bracket_results WHERE run_id LIKE '3f2a%' ORDER BY ord`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	report.PrintQueryTable(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}

