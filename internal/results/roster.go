package results

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/pable/go-matchup-chart/internal/model"
)

// ErrBadRoster is returned for roster files without a usable "mons" array.
var ErrBadRoster = errors.New("bad roster")

// genStarts holds the first national dex number of each generation.
var genStarts = []int{1, 152, 252, 387, 494, 650}

// GenStart returns the first species id of a generation. Generations past
// the table fall back to the last entry.
func GenStart(gen int) int {
	switch {
	case gen < 1:
		return genStarts[0]
	case gen > len(genStarts):
		return genStarts[len(genStarts)-1]
	}
	return genStarts[gen-1]
}

// Roster is the optimiser state: one packed team and moveset per species.
type Roster struct {
	Start    int
	Teams    []string
	Movesets [][]string
}

// LoadRoster reads an optimiser state file.
func LoadRoster(path string, gen int) (*Roster, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return ParseRoster(string(raw), gen)
}

// ParseRoster decodes {"mons": [...], "movesets": [[...], ...]}.
func ParseRoster(doc string, gen int) (*Roster, error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrBadRoster)
	}
	mons := gjson.Get(doc, "mons")
	if !mons.IsArray() {
		return nil, fmt.Errorf("%w: missing mons array", ErrBadRoster)
	}
	r := &Roster{Start: GenStart(gen)}
	mons.ForEach(func(_, v gjson.Result) bool {
		r.Teams = append(r.Teams, v.String())
		return true
	})
	gjson.Get(doc, "movesets").ForEach(func(_, v gjson.Result) bool {
		var moves []string
		v.ForEach(func(_, m gjson.Result) bool {
			moves = append(moves, m.String())
			return true
		})
		r.Movesets = append(r.Movesets, moves)
		return true
	})
	return r, nil
}

// Entities builds entity metadata from the packed teams. Roster movesets
// take precedence over moves decoded from the team string.
func (r *Roster) Entities() []model.Entity {
	out := make([]model.Entity, len(r.Teams))
	for k, team := range r.Teams {
		p := UnpackTeam(team)
		e := model.Entity{
			ID:    r.Start + k,
			Name:  p.Name(),
			Level: p.Level,
			Moves: p.Moves,
			Team:  team,
		}
		if k < len(r.Movesets) && len(r.Movesets[k]) > 0 {
			e.Moves = r.Movesets[k]
		}
		if e.Name == "" {
			e.Name = strconv.Itoa(e.ID)
		}
		out[k] = e
	}
	return out
}

// TeamIndex maps a species id to its packed team.
func (r *Roster) TeamIndex() map[int]string {
	out := make(map[int]string, len(r.Teams))
	for k, team := range r.Teams {
		out[r.Start+k] = team
	}
	return out
}

// PackedMember is the subset of a packed team member that the chart uses.
type PackedMember struct {
	Nickname string
	Species  string
	Moves    []string
	Level    int
}

// Name returns the species, or the nickname when the species is omitted.
func (p PackedMember) Name() string {
	if p.Species != "" {
		return p.Species
	}
	return p.Nickname
}

// UnpackTeam decodes the first member of a packed team string
// "nick|species|item|ability|moves|nature|evs|gender|ivs|shiny|level|...".
func UnpackTeam(packed string) PackedMember {
	member, _, _ := strings.Cut(packed, "]")
	f := strings.Split(member, "|")
	field := func(i int) string {
		if i < len(f) {
			return f[i]
		}
		return ""
	}
	p := PackedMember{
		Nickname: field(0),
		Species:  field(1),
		Moves:    splitMoves(field(4)),
		Level:    100,
	}
	if lv := field(10); lv != "" {
		if n, err := strconv.Atoi(lv); err == nil {
			p.Level = n
		}
	}
	return p
}

// ResultSource looks up a stored tally between two packed teams.
// A nil result with a nil error means the pairing was never simulated.
type ResultSource interface {
	GetResult(teamA, teamB string) (*model.Result, error)
}

// BuildFromSource fills a dataset for the roster by querying every pairing.
// Unknown pairings stay unknown in the matrix.
func BuildFromSource(r *Roster, src ResultSource) (*model.Dataset, error) {
	ents := r.Entities()
	ds := &model.Dataset{
		Start:    r.Start,
		Entities: ents,
		Matrix:   model.NewMatrix(len(ents)),
	}
	missing := 0
	for a := 0; a < len(ents); a++ {
		for b := a + 1; b < len(ents); b++ {
			res, err := src.GetResult(ents[a].Team, ents[b].Team)
			if err != nil {
				return nil, fmt.Errorf("lookup %s vs %s: %w", ents[a].Name, ents[b].Name, err)
			}
			if res == nil || res.Total() == 0 {
				missing++
				continue
			}
			if err := ds.Matrix.RecordResult(a, b, res.Win, res.Loss, res.Tie); err != nil {
				return nil, fmt.Errorf("record %s vs %s: %w", ents[a].Name, ents[b].Name, err)
			}
		}
	}
	if missing > 0 {
		log.Warn().Int("missing", missing).Int("species", len(ents)).Msg("pairings without stored results")
	}
	return ds, nil
}

// ApplyTiers copies tier labels onto entities by id.
func ApplyTiers(ds *model.Dataset, tiers map[int]string) {
	for k := range ds.Entities {
		if t, ok := tiers[ds.Entities[k].ID]; ok {
			ds.Entities[k].Tier = t
		}
	}
}

// ResultsFromLog converts the pairings in a parsed log into stored results,
// keyed by the roster's packed teams. Pairings with an id missing from the
// roster are skipped and counted.
func ResultsFromLog(path string, teams map[int]string) ([]model.Result, int, error) {
	f, err := openLog(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var out []model.Result
	skipped := 0
	err = ScanPairings(f, func(a, b, win, loss, tie int) error {
		ta, okA := teams[a]
		tb, okB := teams[b]
		if !okA || !okB {
			skipped++
			return nil
		}
		out = append(out, model.Result{TeamA: ta, TeamB: tb, Win: win, Loss: loss, Tie: tie})
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return out, skipped, nil
}
