package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/mmbracket/internal/loader"
	"github.com/pable/mmbracket/internal/output"
	"github.com/pable/mmbracket/internal/pipeline"
	"github.com/pable/mmbracket/internal/report"
)

var (
	ratingsSeason int
	ratingsTop    int
)

var ratingsCmd = &cobra.Command{
	Use:   "ratings",
	Short: "Replay the game log and print a season's Elo table",
	Args:  cobra.NoArgs,
	RunE:  runRatings,
}

func init() {
	ratingsCmd.Flags().IntVar(&ratingsSeason, "season", 0, "season to print (default: configured year)")
	ratingsCmd.Flags().IntVar(&ratingsTop, "top", 25, "number of teams to show (0: all)")
}

func runRatings(cmd *cobra.Command, args []string) error {
	season := ratingsSeason
	if season == 0 {
		season = cfg.Year
	}

	in, err := loader.Dir{Path: cfg.DataDir}.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("load csv: %w", err)
	}
	table := pipeline.ReplayRatings(in, cfg.Rating.Base, cfg.Rating.HomeAdvantage, season)
	if len(table) == 0 {
		fmt.Fprintf(os.Stdout, "No games played in season %d.\n", season)
		return nil
	}
	report.PrintRatingTable(os.Stdout, table, output.Names{Teams: in.TeamNames()}, ratingsTop)
	return nil
}
