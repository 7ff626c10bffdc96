package ordering

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/pable/go-matchup-chart/internal/model"
)

// unknownFill stands in for unplayed matchups when comparing rows.
const unknownFill = model.SelfMatchup

// CosineSimilarity returns the cosine of the angle between a and b, or 0
// when either vector has zero length.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

// GreedyOrder starts at start and repeatedly appends the unvisited species
// whose row is most similar to the last one appended. Ties go to the
// lowest index.
func GreedyOrder(m *model.Matrix, start int) ([]int, error) {
	n := m.Size()
	if n == 0 {
		return []int{}, nil
	}
	if start < 0 || start >= n {
		return nil, fmt.Errorf("start index %d outside 0..%d", start, n-1)
	}
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = m.Row(i, unknownFill)
	}

	visited := make([]bool, n)
	visited[start] = true
	order := make([]int, 1, n)
	order[0] = start
	cur := start
	for len(order) < n {
		best, bestSim := -1, 0.0
		for x := 0; x < n; x++ {
			if visited[x] {
				continue
			}
			sim := CosineSimilarity(rows[cur], rows[x])
			if best < 0 || sim > bestSim {
				best, bestSim = x, sim
			}
		}
		visited[best] = true
		order = append(order, best)
		cur = best
	}
	return order, nil
}
