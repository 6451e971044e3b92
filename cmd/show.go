package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/mmbracket/internal/output"
	"github.com/pable/mmbracket/internal/report"
	"github.com/pable/mmbracket/internal/storage"
)

var showRatings int

var showCmd = &cobra.Command{
	Use:   "show <run-prefix>",
	Short: "Show a stored run's bracket by id prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().IntVar(&showRatings, "ratings", 0, "also print the top N end-of-season ratings")
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()
	return showRun(db, args[0], showRatings)
}

// showRun prints a run's summary, bracket and optionally its top ratings.
func showRun(db *storage.DB, prefix string, topRatings int) error {
	run, err := db.GetRunByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query run: %w", err)
	}
	if run == nil {
		fmt.Fprintf(os.Stderr, "No run found with id prefix %q\n", prefix)
		return nil
	}

	teams, err := db.TeamNames()
	if err != nil {
		return fmt.Errorf("team names: %w", err)
	}
	results, err := db.GetBracket(run.ID)
	if err != nil {
		return fmt.Errorf("get bracket: %w", err)
	}
	names := output.Names{Teams: teams, SeedOf: seedLookup(db, run.Season)}

	report.PrintRunSummary(os.Stdout, *run, names)
	report.PrintBracketTable(os.Stdout, results, names)

	if topRatings > 0 {
		ratings, err := db.GetRatings(run.ID)
		if err != nil {
			return fmt.Errorf("get ratings: %w", err)
		}
		fmt.Fprintln(os.Stdout)
		report.PrintRatingTable(os.Stdout, ratings, names, topRatings)
	}
	return nil
}

// seedLookup maps teams to seed labels from the ingested seeds, if any.
func seedLookup(db *storage.DB, season int) func(int) string {
	seeds, err := db.SeasonSeeds(season)
	if err != nil || len(seeds) == 0 {
		return nil
	}
	byTeam := make(map[int]string, len(seeds))
	for _, s := range seeds {
		byTeam[s.TeamID] = s.Label
	}
	return func(team int) string { return byTeam[team] }
}
