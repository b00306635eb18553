package metrics

import (
	"github.com/aram/evokernel/gamath"
	"github.com/aram/evokernel/operator"
	"gonum.org/v1/gonum/stat"
)

// FitnessMin records, once per generation, the objective-wise minimum
// fitness in the population.
type FitnessMin struct{ history [][]float64 }

func (m *FitnessMin) Init(operator.GaInfo) { m.history = nil }

func (m *FitnessMin) Update(ga operator.GaInfo) {
	m.history = append(m.history, foldFitness(ga.FitnessMatrix().Rows2D(), gamath.ElementwiseMin))
}

// Get returns the per-generation history of objective-wise minimums.
func (m *FitnessMin) Get() any { return m.history }

// FitnessMax records, once per generation, the objective-wise maximum
// fitness in the population.
type FitnessMax struct{ history [][]float64 }

func (m *FitnessMax) Init(operator.GaInfo) { m.history = nil }

func (m *FitnessMax) Update(ga operator.GaInfo) {
	m.history = append(m.history, foldFitness(ga.FitnessMatrix().Rows2D(), gamath.ElementwiseMax))
}

func (m *FitnessMax) Get() any { return m.history }

// FitnessMean records, once per generation, the objective-wise mean
// fitness, computed with gonum/stat.Mean per objective column.
type FitnessMean struct{ history [][]float64 }

func (m *FitnessMean) Init(operator.GaInfo) { m.history = nil }

func (m *FitnessMean) Update(ga operator.GaInfo) {
	fm := ga.FitnessMatrix()
	row := make([]float64, fm.Cols())
	for j := 0; j < fm.Cols(); j++ {
		row[j] = stat.Mean(fm.Col(j), nil)
	}
	m.history = append(m.history, row)
}

func (m *FitnessMean) Get() any { return m.history }

// FitnessStdDev records, once per generation, the objective-wise
// sample standard deviation via gonum/stat.StdDev.
type FitnessStdDev struct{ history [][]float64 }

func (m *FitnessStdDev) Init(operator.GaInfo) { m.history = nil }

func (m *FitnessStdDev) Update(ga operator.GaInfo) {
	fm := ga.FitnessMatrix()
	row := make([]float64, fm.Cols())
	for j := 0; j < fm.Cols(); j++ {
		if fm.Rows() < 2 {
			row[j] = 0
			continue
		}
		row[j] = stat.StdDev(fm.Col(j), nil)
	}
	m.history = append(m.history, row)
}

func (m *FitnessStdDev) Get() any { return m.history }

// foldFitness reduces every row of fmat into a single vector with op
// (gamath.ElementwiseMin or ElementwiseMax), seeded from the first
// row.
func foldFitness(fmat [][]float64, op func(a, b []float64) []float64) []float64 {
	if len(fmat) == 0 {
		return nil
	}
	out := append([]float64(nil), fmat[0]...)
	for _, row := range fmat[1:] {
		out = op(out, row)
	}
	return out
}

// FitnessEvaluations records the number of actual fitness-function
// invocations performed in each generation (the delta of
// FitnessEvalCount between generations).
type FitnessEvaluations struct {
	history []uint64
	prev    uint64
}

func (m *FitnessEvaluations) Init(ga operator.GaInfo) {
	m.history = nil
	m.prev = ga.FitnessEvalCount()
}

func (m *FitnessEvaluations) Update(ga operator.GaInfo) {
	cur := ga.FitnessEvalCount()
	delta := cur - m.prev
	m.prev = cur
	m.history = append(m.history, delta)
}

func (m *FitnessEvaluations) Get() any { return m.history }
