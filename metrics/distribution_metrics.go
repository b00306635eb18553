package metrics

import (
	"github.com/aram/evokernel/gamath"
	"github.com/aram/evokernel/operator"
)

// NadirPoint records, once per generation, the objective-wise worst
// (minimum) point of the population's fitness values.
type NadirPoint struct{ history [][]float64 }

func (m *NadirPoint) Init(operator.GaInfo) { m.history = nil }

func (m *NadirPoint) Update(ga operator.GaInfo) {
	m.history = append(m.history, foldFitness(ga.FitnessMatrix().Rows2D(), gamath.ElementwiseMin))
}

func (m *NadirPoint) Get() any { return m.history }

// Hypervolume records, once per generation, the exact hypervolume of
// the population's fitness values relative to a fixed RefPoint,
// backed by gamath.Hypervolume's WFG implementation.
type Hypervolume struct {
	RefPoint []float64

	history []float64
}

func (m *Hypervolume) Init(operator.GaInfo) { m.history = nil }

func (m *Hypervolume) Update(ga operator.GaInfo) {
	m.history = append(m.history, gamath.Hypervolume(ga.FitnessMatrix().Rows2D(), m.RefPoint))
}

func (m *Hypervolume) Get() any { return m.history }

// AutoHypervolume records, once per generation, the hypervolume of the
// population's fitness values relative to a reference point determined
// automatically as the worst point encountered so far, with
// retroactive correction of earlier generations' recorded values when
// that point moves, backed by gamath.AutoHypervolume.
type AutoHypervolume struct {
	tracker *gamath.AutoHypervolume
}

func (m *AutoHypervolume) Init(operator.GaInfo) {
	m.tracker = gamath.NewAutoHypervolume()
}

func (m *AutoHypervolume) Update(ga operator.GaInfo) {
	m.tracker.Observe(ga.FitnessMatrix().Rows2D())
}

// Get returns the corrected hypervolume recorded for every generation
// observed so far.
func (m *AutoHypervolume) Get() any { return m.tracker.History() }
