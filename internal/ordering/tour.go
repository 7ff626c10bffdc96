package ordering

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"

	"github.com/pable/go-matchup-chart/internal/model"
)

// Distance weights. Row-sum and per-cell differences dominate; the index
// terms keep neighbouring ids together and break ties towards id order.
const (
	rowSumWeight    = 5
	cellDiffWeight  = 500
	maxIndexPenalty = 25
	forwardPenalty  = 50
)

// TourOptions bounds the tour search.
type TourOptions struct {
	Start         int
	TimeLimit     time.Duration // 0 means no limit beyond ctx
	SolutionLimit int           // improving solutions accepted; 0 means unlimited
}

// DistanceFunc is the arc cost from node a to node b.
type DistanceFunc func(a, b int) int64

// RowDistance builds the cached arc cost used by Tour. Arcs into start are
// free, so the tour is effectively an open path that begins at start.
func RowDistance(m *model.Matrix, start int) DistanceFunc {
	n := m.Size()
	rows := make([][]float64, n)
	sums := make([]float64, n)
	for i := range rows {
		rows[i] = m.Row(i, unknownFill)
		sums[i] = floats.Sum(rows[i])
	}
	cache := make([]int64, n*n)
	for i := range cache {
		cache[i] = -1
	}
	return func(a, b int) int64 {
		if b == start {
			return 0
		}
		if d := cache[a*n+b]; d >= 0 {
			return d
		}
		d := rowSumWeight * math.Abs(sums[a]-sums[b])
		d += cellDiffWeight * floats.Distance(rows[a], rows[b], 1)
		idx := float64((a - b) * (a - b))
		d += math.Min(idx, maxIndexPenalty)
		if a < b {
			d += forwardPenalty
		}
		cost := int64(math.Round(d))
		cache[a*n+b] = cost
		return cost
	}
}

// Tour returns a visiting order of all matrix indices that begins at
// opts.Start and approximately minimises RowDistance over the closed tour.
// The search builds a nearest-neighbour tour and improves it with relocate,
// exchange and segment-reversal moves until no move helps, the time limit
// passes or the solution limit is reached.
func Tour(ctx context.Context, m *model.Matrix, opts TourOptions) ([]int, error) {
	n := m.Size()
	if n == 0 {
		return []int{}, nil
	}
	if opts.Start < 0 || opts.Start >= n {
		return nil, fmt.Errorf("start index %d outside 0..%d", opts.Start, n-1)
	}
	if opts.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.TimeLimit)
		defer cancel()
	}
	s := &tourSearch{
		dist:  RowDistance(m, opts.Start),
		limit: opts.SolutionLimit,
	}
	s.tour = s.nearestNeighbour(n, opts.Start)
	s.cost = s.tourCost(s.tour)
	log.Debug().Int("nodes", n).Int64("cost", s.cost).Msg("initial tour")

	began := time.Now()
	s.improve(ctx)
	log.Debug().
		Int64("cost", s.cost).
		Int("solutions", s.solutions).
		Dur("elapsed", time.Since(began)).
		Msg("tour search finished")
	return s.tour, nil
}

type tourSearch struct {
	dist      DistanceFunc
	tour      []int
	cost      int64
	solutions int
	limit     int
	scratch   []int
}

func (s *tourSearch) nearestNeighbour(n, start int) []int {
	visited := make([]bool, n)
	visited[start] = true
	tour := make([]int, 1, n)
	tour[0] = start
	cur := start
	for len(tour) < n {
		best, bestD := -1, int64(0)
		for x := 0; x < n; x++ {
			if visited[x] {
				continue
			}
			if d := s.dist(cur, x); best < 0 || d < bestD {
				best, bestD = x, d
			}
		}
		visited[best] = true
		tour = append(tour, best)
		cur = best
	}
	return tour
}

// tourCost includes the closing arc back to the first node.
func (s *tourSearch) tourCost(t []int) int64 {
	var c int64
	for k := 0; k+1 < len(t); k++ {
		c += s.dist(t[k], t[k+1])
	}
	if len(t) > 1 {
		c += s.dist(t[len(t)-1], t[0])
	}
	return c
}

func (s *tourSearch) done(ctx context.Context) bool {
	if s.limit > 0 && s.solutions >= s.limit {
		return true
	}
	return ctx.Err() != nil
}

// try evaluates a candidate in s.scratch and keeps it if it is cheaper.
func (s *tourSearch) try() bool {
	c := s.tourCost(s.scratch)
	if c >= s.cost {
		return false
	}
	s.tour, s.scratch = s.scratch, s.tour
	s.cost = c
	s.solutions++
	return true
}

func (s *tourSearch) improve(ctx context.Context) {
	n := len(s.tour)
	if n < 3 {
		return
	}
	s.scratch = make([]int, n)
	for !s.done(ctx) {
		improved := false
		for _, move := range []func(context.Context) bool{s.relocatePass, s.exchangePass, s.reversePass} {
			if move(ctx) {
				improved = true
			}
			if s.done(ctx) {
				return
			}
		}
		if !improved {
			return
		}
	}
}

// relocatePass moves single nodes to other positions. Position 0 is fixed.
func (s *tourSearch) relocatePass(ctx context.Context) bool {
	n := len(s.tour)
	improved := false
	for i := 1; i < n; i++ {
		for j := 1; j < n; j++ {
			if i == j {
				continue
			}
			if s.done(ctx) {
				return improved
			}
			relocate(s.scratch, s.tour, i, j)
			if s.try() {
				improved = true
			}
		}
	}
	return improved
}

// exchangePass swaps pairs of nodes.
func (s *tourSearch) exchangePass(ctx context.Context) bool {
	n := len(s.tour)
	improved := false
	for i := 1; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if s.done(ctx) {
				return improved
			}
			copy(s.scratch, s.tour)
			s.scratch[i], s.scratch[j] = s.scratch[j], s.scratch[i]
			if s.try() {
				improved = true
			}
		}
	}
	return improved
}

// reversePass reverses segments (2-opt).
func (s *tourSearch) reversePass(ctx context.Context) bool {
	n := len(s.tour)
	improved := false
	for i := 1; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if s.done(ctx) {
				return improved
			}
			copy(s.scratch, s.tour)
			for a, b := i, j; a < b; a, b = a+1, b-1 {
				s.scratch[a], s.scratch[b] = s.scratch[b], s.scratch[a]
			}
			if s.try() {
				improved = true
			}
		}
	}
	return improved
}

// relocate writes src into dst with the node at i moved to position j.
func relocate(dst, src []int, i, j int) {
	node := src[i]
	k := 0
	for p, x := range src {
		if p == i {
			continue
		}
		if k == j {
			dst[k] = node
			k++
		}
		dst[k] = x
		k++
	}
	if k == j {
		dst[k] = node
	}
}
