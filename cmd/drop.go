package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/mmbracket/internal/storage"
)

var dropForce bool

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the bracket database and its journal files",
	Long: `Delete the SQLite store along with its -wal and -shm files.
Without --force, only lists the files and how many teams and runs they hold.
Run ingest and predict again to rebuild.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "delete without the preview")
}

type dbFile struct {
	path string
	size int64
}

// dbFiles returns the store file and whichever journal files exist next to it.
func dbFiles(path string) ([]dbFile, error) {
	var files []dbFile
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		info, err := os.Stat(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		files = append(files, dbFile{path: p, size: info.Size()})
	}
	return files, nil
}

func runDrop(_ *cobra.Command, _ []string) error {
	files, err := dbFiles(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("inspect database: %w", err)
	}
	if len(files) == 0 {
		cMuted.Printf("No database at %s.\n", cfg.DBPath)
		return nil
	}

	if !dropForce {
		for _, f := range files {
			fmt.Fprintf(os.Stderr, "  %s (%d bytes)\n", f.path, f.size)
		}
		if teams, runs, err := dropPreview(cfg.DBPath); err == nil {
			fmt.Fprintf(os.Stderr, "  holds %d teams and %d stored runs\n", teams, runs)
		}
		cWarn.Fprintln(os.Stderr, "Re-run with --force to delete.")
		return nil
	}

	var freed int64
	for _, f := range files {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", f.path, err)
		}
		freed += f.size
	}
	fmt.Printf("Dropped %s (%d files, %d bytes).\n", cfg.DBPath, len(files), freed)
	return nil
}

func dropPreview(path string) (teams, runs int, err error) {
	db, err := storage.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer db.Close()

	names, err := db.TeamNames()
	if err != nil {
		return 0, 0, err
	}
	stored, err := db.ListRuns()
	if err != nil {
		return 0, 0, err
	}
	return len(names), len(stored), nil
}
