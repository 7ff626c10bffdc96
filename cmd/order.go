package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-matchup-chart/internal/report"
)

var orderData datasetFlags

var orderCmd = &cobra.Command{
	Use:   "order [infile]",
	Short: "Print the display order without rendering",
	Long: `Load the matchup table, compute the ordering and print one row per
shown species with its tier, mean win-rate and moves.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOrder,
}

func init() {
	orderData.register(orderCmd)
}

func runOrder(cmd *cobra.Command, args []string) error {
	infile := "results"
	if len(args) > 0 {
		infile = args[0]
	}
	ds, err := orderData.loadDataset(infile)
	if err != nil {
		return err
	}
	order, err := orderData.orderDataset(cmd, ds)
	if err != nil {
		return err
	}
	report.PrintOrder(os.Stdout, ds, order)
	return nil
}
