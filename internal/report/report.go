package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-matchup-chart/internal/model"
	"github.com/pable/go-matchup-chart/internal/results"
	"github.com/pable/go-matchup-chart/internal/storage"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintOrder prints the species in display order with their mean win-rate.
// Columns: POS | ID | NAME | TIER | WIN% | KNOWN | MOVES
func PrintOrder(w io.Writer, ds *model.Dataset, order []int) {
	table := newTable(w)
	table.Header("POS", "ID", "NAME", "TIER", "WIN%", "KNOWN", "MOVES")

	for n, idx := range order {
		e := ds.Entities[idx]
		win := "-"
		if mean, ok := ds.MeanWinRate(idx); ok {
			win = fmt.Sprintf("%.1f%%", 100*mean)
		}
		known := 0
		for j := 0; j < ds.Matrix.Size(); j++ {
			if j != idx && ds.Matrix.Known(idx, j) {
				known++
			}
		}
		tier := e.Tier
		if tier == "" {
			tier = "-"
		}
		table.Append(
			strconv.Itoa(n+1),
			strconv.Itoa(e.ID),
			e.Name,
			tier,
			win,
			strconv.Itoa(known),
			strings.Join(e.Moves, ","),
		)
	}
	table.Render()
}

// PrintOverview prints the store-wide counts.
func PrintOverview(w io.Writer, ov storage.Overview) {
	fmt.Fprintf(w, "\n=== Results Store ===\n\n")
	fmt.Fprintf(w, "  Pairings stored : %d\n", ov.Pairings)
	fmt.Fprintf(w, "  Distinct teams  : %d\n", ov.Teams)
	fmt.Fprintf(w, "  Battles         : %d\n", ov.Battles)
	fmt.Fprintf(w, "  Tie rate        : %.1f%%\n", 100*ov.TieRate())
}

// PrintTopTeams prints the best teams by overall win-rate.
// Columns: # | SPECIES | MOVES | OPP | W | L | T | WIN%
func PrintTopTeams(w io.Writer, teams []storage.TeamRecord) {
	table := newTable(w)
	table.Header("#", "SPECIES", "MOVES", "OPP", "W", "L", "T", "WIN%")
	for i, t := range teams {
		p := results.UnpackTeam(t.Team)
		table.Append(
			strconv.Itoa(i+1),
			p.Name(),
			strings.Join(p.Moves, ","),
			strconv.Itoa(t.Opponents),
			strconv.Itoa(t.Win),
			strconv.Itoa(t.Loss),
			strconv.Itoa(t.Tie),
			fmt.Sprintf("%.1f%%", 100*t.WinRate()),
		)
	}
	table.Render()
}

// PrintRows prints the output of a raw query.
func PrintRows(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}
