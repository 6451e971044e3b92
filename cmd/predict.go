package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/mmbracket/internal/classifier"
	"github.com/pable/mmbracket/internal/loader"
	"github.com/pable/mmbracket/internal/pipeline"
	"github.com/pable/mmbracket/internal/report"
	"github.com/pable/mmbracket/internal/storage"
)

var (
	predictSource string
	predictNoSave bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Train on the game log, predict every matchup and fill the bracket",
	Long: `Run the full pipeline for one season and write submission.csv,
readable-predictions.csv, less-readable-predictions.csv, tournament_results.csv
and metrics.prom into the data directory. The run is also stored in the database
unless --no-save is given.`,
	Args: cobra.NoArgs,
	RunE: runPredict,
}

func init() {
	f := predictCmd.Flags()
	f.Int("year", 0, "tournament season to predict (default: current year)")
	f.Uint64("seed", 0, "random seed for the training coin flip (0: from clock)")
	f.StringVar(&predictSource, "source", "csv", "input source: csv (data directory) or db")
	f.BoolVar(&predictNoSave, "no-save", false, "do not store the run in the database")
	mustBind("year", f.Lookup("year"))
	mustBind("seed", f.Lookup("seed"))
}

func runPredict(cmd *cobra.Command, args []string) error {
	opts := pipeline.Options{
		Season:        cfg.Year,
		OutDir:        cfg.DataDir,
		Seed:          cfg.Seed,
		RatingBase:    cfg.Rating.Base,
		HomeAdvantage: cfg.Rating.HomeAdvantage,
		Window:        cfg.Stats.Window,
		CVFolds:       cfg.Model.CVFolds,
		Model:         classifier.Options{C: cfg.Model.C, MaxIter: cfg.Model.MaxIter},
	}

	var db *storage.DB
	if predictSource == "db" || !predictNoSave {
		if err := ensureDBDir(); err != nil {
			return err
		}
		var err error
		db, err = storage.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer db.Close()
	}

	var src pipeline.Source
	switch predictSource {
	case "csv":
		src = loader.Dir{Path: cfg.DataDir}
	case "db":
		src = db
	default:
		return fmt.Errorf("unknown source %q (want csv or db)", predictSource)
	}

	var store pipeline.RunStore
	if !predictNoSave {
		store = db
	}

	res, err := pipeline.New(src, store, opts, log).Run(cmd.Context())
	if err != nil {
		return err
	}

	report.PrintRunSummary(os.Stdout, res.Run, res.Names)
	report.PrintBracketTable(os.Stdout, res.Bracket, res.Names)
	return nil
}
