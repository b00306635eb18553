// Package soga implements the single-objective algorithm: a composed
// Selection + Replacement pair satisfying operator.Algorithm.
package soga

import (
	"fmt"

	"github.com/aram/evokernel/gamath"
	"github.com/aram/evokernel/operator"
	"github.com/aram/evokernel/population"
	"github.com/aram/evokernel/rng"
)

// Algorithm composes one operator.Selection and one
// operator.Replacement into the single-objective algorithm. It is the
// default algorithm the engine selects once the number of objectives
// is known to be 1.
type Algorithm struct {
	Selection   operator.Selection
	Replacement operator.Replacement
}

// New builds a soga.Algorithm from a selection and a replacement
// operator.
func New(sel operator.Selection, rep operator.Replacement) *Algorithm {
	return &Algorithm{Selection: sel, Replacement: rep}
}

func (a *Algorithm) Initialize(info operator.GaInfo) error {
	if info.NumObjectives() != 1 {
		return fmt.Errorf("soga: requires exactly 1 objective, got %d", info.NumObjectives())
	}
	a.Selection.Initialize(info)
	return nil
}

func (a *Algorithm) Prepare(info operator.GaInfo, fitness *population.FitnessMatrix) {
	a.Selection.Prepare(info, fitness)
}

func (a *Algorithm) Select(info operator.GaInfo, fitness *population.FitnessMatrix, rnd *rng.Rng) int {
	return a.Selection.Select(info, fitness, rnd)
}

func (a *Algorithm) NextPopulation(info operator.GaInfo, combined *population.FitnessMatrix, parentsEnd int, rnd *rng.Rng) []int {
	return a.Replacement.NextPopulation(info, combined, parentsEnd, rnd)
}

// OptimalIndices returns every candidate whose fitness ties the
// population's maximum under the tolerant compare.
func (a *Algorithm) OptimalIndices(info operator.GaInfo) []int {
	fm := info.FitnessMatrix()
	if fm == nil || fm.Rows() == 0 {
		return nil
	}
	best := fm.Row(0)[0]
	for i := 1; i < fm.Rows(); i++ {
		if v := fm.Row(i)[0]; v > best {
			best = v
		}
	}
	var out []int
	for i := 0; i < fm.Rows(); i++ {
		if gamath.ApproxEqual(fm.Row(i)[0], best) {
			out = append(out, i)
		}
	}
	return out
}
