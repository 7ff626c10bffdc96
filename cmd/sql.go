package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-matchup-chart/internal/report"
	"github.com/pable/go-matchup-chart/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the results database",
	Long: `Run an arbitrary SQL query against the results database and print results as a table.

Schema overview:
  results(team_a TEXT, team_b TEXT, win, loss, tie)  PRIMARY KEY(team_a, team_b)

Teams are packed strings: nickname|species|item|ability|moves|nature|evs|gender|ivs|shiny|level|...
Example: SELECT team_a, win, loss FROM results WHERE team_a LIKE '%|Pikachu|%'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}
	report.PrintRows(os.Stdout, cols, rows)
	return nil
}
