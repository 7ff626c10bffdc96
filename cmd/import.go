package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pable/go-matchup-chart/internal/results"
	"github.com/pable/go-matchup-chart/internal/storage"
)

var (
	importRoster string
	importGen    int
)

var importCmd = &cobra.Command{
	Use:   "import <results>",
	Short: "Store a text results log in the database",
	Long: `Read the "a b win loss tie" lines of a results log and store them in
the database, keyed by the packed teams of the roster. Pairings already
stored are overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importRoster, "roster", "", "optimiser roster (opt<gen>.json) supplying packed teams")
	importCmd.Flags().IntVar(&importGen, "gen", 1, "generation of the roster")
	_ = importCmd.MarkFlagRequired("roster")
}

func runImport(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("gen") {
		importGen = cfg.Gen
	}
	roster, err := results.LoadRoster(importRoster, importGen)
	if err != nil {
		return err
	}
	rs, skipped, err := results.ResultsFromLog(args[0], roster.TeamIndex())
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("pairings with ids outside the roster")
	}

	if err := ensureDBDir(); err != nil {
		return err
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if err := db.InsertResults(rs); err != nil {
		return fmt.Errorf("insert results: %w", err)
	}
	total, err := db.CountResults()
	if err != nil {
		return fmt.Errorf("count results: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Imported %d pairings (%d stored in %s).\n", len(rs), total, dbPath)
	return nil
}
