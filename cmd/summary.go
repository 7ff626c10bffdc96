package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-matchup-chart/internal/report"
	"github.com/pable/go-matchup-chart/internal/storage"
)

var summaryTop int

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the results database",
	Long: `Display aggregate statistics about the stored pairings: pairing and
team counts, battles, tie rate and the teams with the best overall
win-rate.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().IntVar(&summaryTop, "top", 10, "number of best teams to list")
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.Pairings == 0 {
		fmt.Fprintln(os.Stdout, "No results stored yet. Run 'matchchart import <results> --roster <opt.json>' to add some.")
		return nil
	}
	report.PrintOverview(os.Stdout, ov)

	teams, err := db.GetTopTeams(summaryTop)
	if err != nil {
		return fmt.Errorf("get top teams: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Best Teams ---\n\n")
	report.PrintTopTeams(os.Stdout, teams)
	return nil
}
