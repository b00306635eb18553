// Package replacement implements the single-objective survivor
// selectors: KeepChildren, Elitism(n), and KeepBest.
// Each implements operator.Replacement, choosing exactly
// PopulationSize indices out of a combined parents-then-children
// fitness matrix.
package replacement

import (
	"sort"

	"github.com/aram/evokernel/operator"
	"github.com/aram/evokernel/population"
	"github.com/aram/evokernel/rng"
)

// KeepChildren always replaces the whole population with the first
// PopulationSize children, the generational-replacement default.
type KeepChildren struct{}

func (KeepChildren) NextPopulation(info operator.GaInfo, combined *population.FitnessMatrix, parentsEnd int, _ *rng.Rng) []int {
	n := info.PopulationSize()
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = parentsEnd + i
	}
	return out
}

// Elitism keeps the N best parents unconditionally and fills the rest
// of the next generation with children.
type Elitism struct {
	N int
}

func (e Elitism) NextPopulation(info operator.GaInfo, combined *population.FitnessMatrix, parentsEnd int, _ *rng.Rng) []int {
	n := info.PopulationSize()
	elites := e.N
	if elites > parentsEnd {
		elites = parentsEnd
	}
	if elites > n {
		elites = n
	}

	parentOrder := make([]int, parentsEnd)
	for i := range parentOrder {
		parentOrder[i] = i
	}
	sort.Slice(parentOrder, func(i, j int) bool {
		return combined.Row(parentOrder[i])[0] > combined.Row(parentOrder[j])[0]
	})

	out := make([]int, 0, n)
	out = append(out, parentOrder[:elites]...)
	childrenNeeded := n - elites
	childrenAvailable := combined.Rows() - parentsEnd
	if childrenNeeded > childrenAvailable {
		childrenNeeded = childrenAvailable
	}
	for i := 0; i < childrenNeeded; i++ {
		out = append(out, parentsEnd+i)
	}
	return out
}

// KeepBest pools parents and children together and keeps the N =
// PopulationSize best by fitness, (mu+lambda)-style survivor
// selection.
type KeepBest struct{}

func (KeepBest) NextPopulation(info operator.GaInfo, combined *population.FitnessMatrix, parentsEnd int, _ *rng.Rng) []int {
	n := info.PopulationSize()
	total := combined.Rows()
	order := make([]int, total)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return combined.Row(order[i])[0] > combined.Row(order[j])[0]
	})
	if n > total {
		n = total
	}
	return order[:n]
}
