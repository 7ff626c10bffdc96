package results

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pable/go-matchup-chart/internal/model"
)

const sampleRoster = `{
  "mons": [
    "Chikorita|Chikorita||No Ability|tackle,growl,razorleaf,reflect|Quirky|255,255,255,255,255,255||30,30,30,30,30,30||100|",
    "Bayleef|Bayleef||No Ability|tackle,growl|Quirky|255,255,255,255,255,255||30,30,30,30,30,30||100|",
    "Meganium||||bodyslam|Quirky|||||90|"
  ],
  "movesets": [["Razor Leaf", "Reflect"], [], ["Body Slam"]]
}`

func TestGenStart(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 152, 3: 252, 4: 387, 5: 494, 6: 650, 9: 650}
	for gen, want := range cases {
		if got := GenStart(gen); got != want {
			t.Errorf("GenStart(%d): want %d, got %d", gen, want, got)
		}
	}
}

func TestParseRoster(t *testing.T) {
	r, err := ParseRoster(sampleRoster, 2)
	if err != nil {
		t.Fatalf("ParseRoster: %v", err)
	}
	if r.Start != 152 || len(r.Teams) != 3 || len(r.Movesets) != 3 {
		t.Fatalf("roster shape: start=%d teams=%d movesets=%d", r.Start, len(r.Teams), len(r.Movesets))
	}
	ents := r.Entities()
	if ents[0].ID != 152 || ents[0].Name != "Chikorita" {
		t.Errorf("first entity: %+v", ents[0])
	}
	if len(ents[0].Moves) != 2 || ents[0].Moves[0] != "Razor Leaf" {
		t.Errorf("roster moveset should override packed moves: %v", ents[0].Moves)
	}
	if len(ents[1].Moves) != 2 || ents[1].Moves[1] != "growl" {
		t.Errorf("empty moveset should fall back to packed moves: %v", ents[1].Moves)
	}
	if ents[2].Name != "Meganium" || ents[2].Level != 90 {
		t.Errorf("nickname fallback / level: %+v", ents[2])
	}
	if r.TeamIndex()[153] != r.Teams[1] {
		t.Error("TeamIndex should key teams by species id")
	}
}

func TestParseRosterErrors(t *testing.T) {
	for _, doc := range []string{`not json`, `{"movesets": []}`, `{"mons": "x"}`} {
		if _, err := ParseRoster(doc, 1); !errors.Is(err, ErrBadRoster) {
			t.Errorf("%q: want ErrBadRoster, got %v", doc, err)
		}
	}
}

func TestUnpackTeamFirstMember(t *testing.T) {
	p := UnpackTeam("Nick|Pikachu||Static|thunderbolt,surf|Quirky|||||50|]Other|Eevee|||tackle|||||||")
	if p.Name() != "Pikachu" || p.Nickname != "Nick" || p.Level != 50 {
		t.Errorf("unpack: %+v", p)
	}
	if len(p.Moves) != 2 || p.Moves[1] != "surf" {
		t.Errorf("moves: %v", p.Moves)
	}
	if UnpackTeam("").Level != 100 {
		t.Error("missing level defaults to 100")
	}
}

// fakeSource serves results from a map keyed by "a/b".
type fakeSource map[string]model.Result

func (f fakeSource) GetResult(a, b string) (*model.Result, error) {
	if r, ok := f[a+"/"+b]; ok {
		return &r, nil
	}
	if r, ok := f[b+"/"+a]; ok {
		s := r.Swap()
		return &s, nil
	}
	return nil, nil
}

func TestBuildFromSource(t *testing.T) {
	r, err := ParseRoster(sampleRoster, 2)
	if err != nil {
		t.Fatalf("ParseRoster: %v", err)
	}
	src := fakeSource{
		r.Teams[0] + "/" + r.Teams[1]: {Win: 30, Loss: 70},
		r.Teams[2] + "/" + r.Teams[0]: {Win: 90, Loss: 0, Tie: 10},
	}
	ds, err := BuildFromSource(r, src)
	if err != nil {
		t.Fatalf("BuildFromSource: %v", err)
	}
	if v, _ := ds.Matrix.At(0, 1); math.Abs(v-0.3) > 1e-9 {
		t.Errorf("m[0][1]: want 0.3, got %v", v)
	}
	if v, _ := ds.Matrix.At(0, 2); math.Abs(v-0.05) > 1e-9 {
		t.Errorf("reverse key should be swapped, m[0][2]: want 0.05, got %v", v)
	}
	if ds.Matrix.Known(1, 2) {
		t.Error("missing pairing should stay unknown")
	}
}

type failingSource struct{}

func (failingSource) GetResult(a, b string) (*model.Result, error) {
	return nil, errors.New("boom")
}

func TestBuildFromSourcePropagatesErrors(t *testing.T) {
	r, _ := ParseRoster(sampleRoster, 2)
	if _, err := BuildFromSource(r, failingSource{}); err == nil {
		t.Error("expected lookup error")
	}
}

func TestApplyTiers(t *testing.T) {
	r, _ := ParseRoster(sampleRoster, 2)
	ds, _ := BuildFromSource(r, fakeSource{})
	ApplyTiers(ds, map[int]string{152: "NFE", 154: "UU", 999: "OU"})
	if ds.Entities[0].Tier != "NFE" || ds.Entities[1].Tier != "" || ds.Entities[2].Tier != "UU" {
		t.Errorf("tiers: %q %q %q", ds.Entities[0].Tier, ds.Entities[1].Tier, ds.Entities[2].Tier)
	}
}

func TestResultsFromLogAndTiers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results")
	log := "152 Chikorita lvl90 NFE\n153 Bayleef lvl88\n152 153 7 2 1\n152 vs 153\n152 400 1 0 0\n"
	if err := os.WriteFile(path, []byte(log), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	r, _ := ParseRoster(sampleRoster, 2)
	rs, skipped, err := ResultsFromLog(path, r.TeamIndex())
	if err != nil {
		t.Fatalf("ResultsFromLog: %v", err)
	}
	if skipped != 1 {
		t.Errorf("skipped: want 1, got %d", skipped)
	}
	if len(rs) != 1 || rs[0].TeamA != r.Teams[0] || rs[0].TeamB != r.Teams[1] || rs[0].Win != 7 {
		t.Fatalf("results: %+v", rs)
	}

	tiers, err := Tiers(path)
	if err != nil {
		t.Fatalf("Tiers: %v", err)
	}
	if tiers[152] != "NFE" || tiers[153] != "NU" {
		t.Errorf("tiers: %v", tiers)
	}
}
