package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

var dropForce bool

// dropCmd deletes the results database and its WAL sidecar files.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the results database",
	Long: `Permanently delete the SQLite results database together with its
-wal and -shm files. All imported pairings will be lost; re-run
'matchchart import' afterwards to rebuild.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	files := []string{dbPath, dbPath + "-wal", dbPath + "-shm"}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}

	removed := 0
	for _, f := range files {
		err := os.Remove(f)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("remove %s: %w", f, err)
		}
	}
	if removed == 0 {
		fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s (%d files)\n", dbPath, removed)
	return nil
}
