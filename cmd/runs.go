package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/mmbracket/internal/output"
	"github.com/pable/mmbracket/internal/report"
	"github.com/pable/mmbracket/internal/storage"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored prediction runs",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func runRuns(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	runs, err := db.ListRuns()
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "No runs stored yet. Run 'mmbracket predict --data <dir>' to add one.")
		return nil
	}
	teams, err := db.TeamNames()
	if err != nil {
		return fmt.Errorf("team names: %w", err)
	}
	report.PrintRunTable(os.Stdout, runs, output.Names{Teams: teams})
	return nil
}
