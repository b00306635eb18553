package population

import "gonum.org/v1/gonum/mat"

// FitnessMatrix is a dense rows x k matrix of fitness values kept in
// sync with a Population: row i equals population[i].Fitness. It is
// materialized once per generation after replacement and backed by
// gonum's mat.Dense.
type FitnessMatrix struct {
	dense *mat.Dense
	rows  int
	cols  int
}

// NewFitnessMatrix builds a FitnessMatrix from a slice of candidates,
// all of which must already be evaluated with fitness vectors of
// equal length.
func NewFitnessMatrix(candidates []*Candidate) *FitnessMatrix {
	rows := len(candidates)
	if rows == 0 {
		return &FitnessMatrix{dense: mat.NewDense(0, 0, nil)}
	}
	cols := len(candidates[0].Fitness)
	data := make([]float64, rows*cols)
	for i, c := range candidates {
		copy(data[i*cols:(i+1)*cols], c.Fitness)
	}
	return &FitnessMatrix{dense: mat.NewDense(rows, cols, data), rows: rows, cols: cols}
}

// Rows returns the number of candidates represented.
func (m *FitnessMatrix) Rows() int { return m.rows }

// Cols returns the number of objectives.
func (m *FitnessMatrix) Cols() int { return m.cols }

// Row returns a copy of the fitness vector for candidate i.
func (m *FitnessMatrix) Row(i int) []float64 {
	out := make([]float64, m.cols)
	mat.Row(out, i, m.dense)
	return out
}

// RowView returns the fitness vector for row i as a freshly allocated
// slice (mat.Dense has no zero-copy row accessor for non-contiguous
// backing, so this always copies, matching Row).
func (m *FitnessMatrix) RowView(i int) []float64 { return m.Row(i) }

// Col returns a copy of objective j across every candidate.
func (m *FitnessMatrix) Col(j int) []float64 {
	out := make([]float64, m.rows)
	mat.Col(out, j, m.dense)
	return out
}

// Dense exposes the underlying gonum matrix for callers that want to
// use gonum's linear-algebra routines directly.
func (m *FitnessMatrix) Dense() *mat.Dense { return m.dense }

// Rows2D materializes the matrix as a slice of row slices, the shape
// most algorithm code in this module works with.
func (m *FitnessMatrix) Rows2D() [][]float64 {
	out := make([][]float64, m.rows)
	for i := range out {
		out[i] = m.Row(i)
	}
	return out
}
