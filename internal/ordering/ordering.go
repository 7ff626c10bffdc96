// Package ordering computes the display order of species in a matchup
// chart so that species with similar matchup profiles sit next to each
// other.
package ordering

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pable/go-matchup-chart/internal/model"
)

// ErrUnknownStrategy is returned by ParseStrategy for unsupported names.
var ErrUnknownStrategy = errors.New("unknown ordering strategy")

// Strategy selects an ordering heuristic.
type Strategy string

const (
	// None keeps species in id order.
	None Strategy = "none"
	// Greedy chains species by cosine similarity of their matchup rows.
	Greedy Strategy = "greedy"
	// TSP searches for a short closed tour under the row distance.
	TSP Strategy = "tsp"
)

// ParseStrategy converts a flag value to a Strategy. The empty string is None.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", None:
		return None, nil
	case Greedy:
		return Greedy, nil
	case TSP:
		return TSP, nil
	}
	return "", fmt.Errorf("%w: %q (want none, greedy or tsp)", ErrUnknownStrategy, s)
}

// Options configures Compute.
type Options struct {
	Start         int
	TimeLimit     time.Duration
	SolutionLimit int
}

// DefaultOptions mirrors the search bounds used for published charts.
func DefaultOptions() Options {
	return Options{Start: 0, TimeLimit: 30 * time.Second, SolutionLimit: 10000}
}

// Compute returns a permutation of the matrix indices for the strategy.
func Compute(ctx context.Context, s Strategy, m *model.Matrix, opts Options) ([]int, error) {
	switch s {
	case None, "":
		return Identity(m.Size()), nil
	case Greedy:
		return GreedyOrder(m, opts.Start)
	case TSP:
		return Tour(ctx, m, TourOptions{
			Start:         opts.Start,
			TimeLimit:     opts.TimeLimit,
			SolutionLimit: opts.SolutionLimit,
		})
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(s))
}

// Identity returns 0..n-1.
func Identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// FilterTiers keeps the entries of order whose entity tier matches one of
// tiers, compared case-insensitively. The relative order is preserved. An
// empty tier list returns a copy of order.
func FilterTiers(order []int, entities []model.Entity, tiers []string) []int {
	if len(tiers) == 0 {
		return append([]int(nil), order...)
	}
	want := make(map[string]bool, len(tiers))
	for _, t := range tiers {
		want[strings.ToLower(strings.TrimSpace(t))] = true
	}
	out := make([]int, 0, len(order))
	for _, x := range order {
		if x < 0 || x >= len(entities) {
			continue
		}
		if want[strings.ToLower(entities[x].Tier)] {
			out = append(out, x)
		}
	}
	return out
}

// Positions maps each of n indices to its 1-based place in order.
// Indices missing from order map to 0 (not shown).
func Positions(order []int, n int) []int {
	pos := make([]int, n)
	for p, x := range order {
		if x >= 0 && x < n {
			pos[x] = p + 1
		}
	}
	return pos
}
