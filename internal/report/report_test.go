package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pable/go-matchup-chart/internal/model"
	"github.com/pable/go-matchup-chart/internal/storage"
)

func TestPrintOrder(t *testing.T) {
	m := model.NewMatrix(2)
	m.RecordResult(0, 1, 3, 1, 0)
	ds := &model.Dataset{
		Start: 7,
		Entities: []model.Entity{
			{ID: 7, Name: "Squirtle", Tier: "NFE", Moves: []string{"Surf", "Bite"}},
			{ID: 8, Name: "Wartortle"},
		},
		Matrix: m,
	}

	var buf bytes.Buffer
	PrintOrder(&buf, ds, []int{1, 0})
	out := buf.String()

	for _, want := range []string{"Squirtle", "Wartortle", "75.0%", "25.0%", "Surf,Bite"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Wartortle") > strings.Index(out, "Squirtle") {
		t.Errorf("rows should follow the given order:\n%s", out)
	}
}

func TestPrintOverview(t *testing.T) {
	var buf bytes.Buffer
	PrintOverview(&buf, storage.Overview{Pairings: 3, Teams: 3, Battles: 40, Ties: 4})
	if !strings.Contains(buf.String(), "10.0%") {
		t.Errorf("tie rate missing:\n%s", buf.String())
	}
}

func TestPrintTopTeams(t *testing.T) {
	var buf bytes.Buffer
	PrintTopTeams(&buf, []storage.TeamRecord{
		{Team: "Pika|Pikachu||Static|thunderbolt,surf|Quirky|||||50|", Opponents: 2, Win: 8, Loss: 2},
	})
	out := buf.String()
	for _, want := range []string{"Pikachu", "thunderbolt,surf", "80.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintRows(t *testing.T) {
	var buf bytes.Buffer
	PrintRows(&buf, []string{"team_a", "win"}, [][]string{{"a", "3"}, {"b", "4"}})
	if !strings.Contains(buf.String(), "(2 rows)") {
		t.Errorf("row count missing:\n%s", buf.String())
	}
}
