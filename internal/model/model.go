package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// SelfMatchup is the fixed win-rate on the matrix diagonal.
const SelfMatchup = 0.5

// ErrEmptyResult is returned when a pairing has no recorded battles.
var ErrEmptyResult = errors.New("result has no battles")

// Entity is one species taking part in the matchup table.
type Entity struct {
	ID    int
	Name  string
	Level int
	Tier  string
	Moves []string
	Team  string // packed team string, alternate-moveset mode only
}

// Result is the tally of battles between two packed teams, from A's side.
type Result struct {
	TeamA string
	TeamB string
	Win   int
	Loss  int
	Tie   int
}

// Total returns the number of battles in the result.
func (r Result) Total() int { return r.Win + r.Loss + r.Tie }

// Swap returns the same result seen from B's side.
func (r Result) Swap() Result {
	return Result{TeamA: r.TeamB, TeamB: r.TeamA, Win: r.Loss, Loss: r.Win, Tie: r.Tie}
}

// WinRate returns A's win fraction with ties counted as half a win.
func (r Result) WinRate() float64 {
	total := r.Total()
	if total == 0 {
		return 0
	}
	return (float64(r.Win) + float64(r.Tie)/2) / float64(total)
}

// Matrix holds pairwise win-rates. At(i, j) is the rate at which i beats j.
// Unknown cells are stored as NaN.
type Matrix struct {
	n int
	d *mat.Dense // nil when n == 0
}

// NewMatrix returns an n×n matrix with every off-diagonal cell unknown.
func NewMatrix(n int) *Matrix {
	if n <= 0 {
		return &Matrix{}
	}
	data := make([]float64, n*n)
	for i := range data {
		data[i] = math.NaN()
	}
	m := &Matrix{n: n, d: mat.NewDense(n, n, data)}
	for i := 0; i < n; i++ {
		m.d.Set(i, i, SelfMatchup)
	}
	return m
}

// Size returns the number of entities.
func (m *Matrix) Size() int { return m.n }

// Set stores the win-rate of i against j.
func (m *Matrix) Set(i, j int, v float64) {
	m.d.Set(i, j, v)
}

// At returns the win-rate of i against j and whether it is known.
func (m *Matrix) At(i, j int) (float64, bool) {
	v := m.d.At(i, j)
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Known reports whether cell (i, j) holds a value.
func (m *Matrix) Known(i, j int) bool {
	return !math.IsNaN(m.d.At(i, j))
}

// Row returns a copy of row i with unknown cells replaced by fill.
func (m *Matrix) Row(i int, fill float64) []float64 {
	row := mat.Row(nil, i, m.d)
	for k, v := range row {
		if math.IsNaN(v) {
			row[k] = fill
		}
	}
	return row
}

// RecordResult stores both directions of a tally between indices a and b.
// Ties count half towards each side.
func (m *Matrix) RecordResult(a, b, win, loss, tie int) error {
	total := win + loss + tie
	if total <= 0 {
		return ErrEmptyResult
	}
	n := m.Size()
	if a < 0 || a >= n || b < 0 || b >= n {
		return fmt.Errorf("index out of range: %d vs %d (size %d)", a, b, n)
	}
	if a == b {
		return nil
	}
	half := float64(tie) / 2
	m.d.Set(a, b, (float64(win)+half)/float64(total))
	m.d.Set(b, a, (float64(loss)+half)/float64(total))
	return nil
}

// KnownCount returns the number of known off-diagonal cells.
func (m *Matrix) KnownCount() int {
	n := m.Size()
	count := 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && m.Known(i, j) {
				count++
			}
		}
	}
	return count
}

// Dataset is a loaded matchup table with its entity metadata.
// Entities[k] has ID Start+k and matrix index k.
type Dataset struct {
	Start    int
	Entities []Entity
	Matrix   *Matrix
}

// Len returns the number of entities.
func (d *Dataset) Len() int { return len(d.Entities) }

// Index converts an entity id to its matrix index.
func (d *Dataset) Index(id int) (int, bool) {
	k := id - d.Start
	if k < 0 || k >= len(d.Entities) {
		return 0, false
	}
	return k, true
}

// ID converts a matrix index to its entity id.
func (d *Dataset) ID(index int) int { return d.Start + index }

// MeanWinRate averages the known off-diagonal cells of row i.
func (d *Dataset) MeanWinRate(i int) (float64, bool) {
	var sum float64
	var n int
	for j := 0; j < d.Matrix.Size(); j++ {
		if j == i {
			continue
		}
		if v, ok := d.Matrix.At(i, j); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
