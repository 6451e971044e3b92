package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/mmbracket/internal/loader"
	"github.com/pable/mmbracket/internal/storage"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load the competition CSV files into the database",
	Long:  "Read teams, games, seeds and slots from the data directory and replace whatever the database held before. Afterwards 'predict --source db' runs without the CSV files.",
	Args:  cobra.NoArgs,
	RunE:  runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	in, err := loader.Dir{Path: cfg.DataDir}.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("load csv: %w", err)
	}

	if err := ensureDBDir(); err != nil {
		return err
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if err := db.ReplaceInputs(in); err != nil {
		return fmt.Errorf("store inputs: %w", err)
	}
	log.WithField("db", cfg.DBPath).Info("ingested inputs")
	fmt.Fprintf(os.Stdout, "Stored %d teams, %d games, %d seeds, %d slots.\n",
		len(in.Teams), len(in.Games), len(in.Seeds), len(in.Slots))
	return nil
}
