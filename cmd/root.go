package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/mmbracket/internal/config"
	"github.com/pable/mmbracket/internal/logger"
)

var (
	cfgFile string
	v       = config.New(filepath.Join(mustUserHome(), ".mmbracket", "mmbracket.db"))
	cfg     *config.Config
	log     *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mmbracket",
	Short: "March Madness bracket predictor",
	Long: "Replay historical box scores into Elo ratings and rolling averages, train a " +
		"logistic-regression model on past games and play out the tournament bracket.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "path to a YAML config file")
	pf.String("db", "", "path to SQLite database")
	pf.String("data", "", "directory holding the competition CSV files")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-format", "", "log format (text, json)")

	mustBind("db_path", pf.Lookup("db"))
	mustBind("data_dir", pf.Lookup("data"))
	mustBind("log.level", pf.Lookup("log-level"))
	mustBind("log.format", pf.Lookup("log-format"))

	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(ratingsCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(dropCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	cfg = c
	log = logger.New(cfg.Log.Level, cfg.Log.Format)
	return nil
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// ensureDBDir creates the database's parent directory.
func ensureDBDir() error {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	return nil
}
