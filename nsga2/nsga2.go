// Package nsga2 implements NSGA-II: persistent per-population
// ranks and crowding distances, binary-tournament selection, and
// front-greedy + crowding-distance replacement.
package nsga2

import (
	"fmt"
	"math"
	"sort"

	"github.com/aram/evokernel/operator"
	"github.com/aram/evokernel/pareto"
	"github.com/aram/evokernel/population"
	"github.com/aram/evokernel/rng"
)

// Algorithm implements operator.Algorithm with the ranks and
// crowding distances NSGA-II persists across generations.
type Algorithm struct {
	ranks []int
	dists []float64
}

// New returns a ready-to-initialize NSGA-II algorithm instance.
func New() *Algorithm { return &Algorithm{} }

func (a *Algorithm) Initialize(info operator.GaInfo) error {
	if info.NumObjectives() < 2 {
		return fmt.Errorf("nsga2: requires at least 2 objectives, got %d", info.NumObjectives())
	}
	fm := info.FitnessMatrix()
	ranked := pareto.NonDominatedSort(fm.Rows2D())
	a.ranks = pareto.RanksOf(ranked, fm.Rows())
	a.dists = crowdingDistances(fm.Rows2D(), pareto.Fronts(ranked))
	return nil
}

func (a *Algorithm) Prepare(operator.GaInfo, *population.FitnessMatrix) {}

// Select performs binary tournament: sample two indices, prefer lower
// rank, then higher crowding distance, then the second index.
func (a *Algorithm) Select(_ operator.GaInfo, fitness *population.FitnessMatrix, rnd *rng.Rng) int {
	n := fitness.Rows()
	i1, i2 := rnd.Intn(n), rnd.Intn(n)
	switch {
	case a.ranks[i1] < a.ranks[i2]:
		return i1
	case a.ranks[i1] > a.ranks[i2]:
		return i2
	case a.dists[i1] > a.dists[i2]:
		return i1
	default:
		return i2
	}
}

// NextPopulation non-dominated-sorts the combined matrix, takes whole
// fronts greedily until the next would exceed PopulationSize, then
// fills the remainder from the splitting front by descending crowding
// distance.
func (a *Algorithm) NextPopulation(info operator.GaInfo, combined *population.FitnessMatrix, _ int, _ *rng.Rng) []int {
	n := info.PopulationSize()
	fmat := combined.Rows2D()
	ranked := pareto.NonDominatedSort(fmat)
	fronts := pareto.Fronts(ranked)

	newPop := make([]int, 0, n)
	newRanks := make([]int, 0, n)
	var splitting []int
	splitRank := 0

	for rank, front := range fronts {
		if len(newPop)+len(front) <= n {
			newPop = append(newPop, front...)
			for range front {
				newRanks = append(newRanks, rank)
			}
			continue
		}
		splitting = front
		splitRank = rank
		break
	}

	if remaining := n - len(newPop); remaining > 0 && len(splitting) > 0 {
		splitDists := crowdingDistances(fmat, [][]int{splitting})
		order := append([]int(nil), splitting...)
		sort.Slice(order, func(i, j int) bool { return splitDists[order[i]] > splitDists[order[j]] })
		if remaining > len(order) {
			remaining = len(order)
		}
		newPop = append(newPop, order[:remaining]...)
		for range order[:remaining] {
			newRanks = append(newRanks, splitRank)
		}
	}

	newFitness := make([][]float64, len(newPop))
	for i, idx := range newPop {
		newFitness[i] = fmat[idx]
	}
	a.dists = crowdingDistances(newFitness, pareto.Fronts(rankedFromAssignment(newPop, newRanks)))
	a.ranks = newRanks

	return newPop
}

// rankedFromAssignment rebuilds a RankedIndex list for the retained
// population, re-keyed to positions [0, len(pop)) so crowdingDistances
// can recompute distances within each surviving front.
func rankedFromAssignment(pop, ranks []int) []pareto.RankedIndex {
	out := make([]pareto.RankedIndex, len(pop))
	for i := range pop {
		out[i] = pareto.RankedIndex{Index: i, Rank: ranks[i]}
	}
	return out
}

// OptimalIndices returns every index whose rank is 0.
func (a *Algorithm) OptimalIndices(operator.GaInfo) []int {
	var out []int
	for i, r := range a.ranks {
		if r == 0 {
			out = append(out, i)
		}
	}
	return out
}

// crowdingDistances computes per-objective normalized distance
// contributions for each front independently, then sums across
// objectives. Front member indices index into fmat
// (the full/combined matrix), not into the front slice itself.
func crowdingDistances(fmat [][]float64, fronts [][]int) []float64 {
	if len(fmat) == 0 {
		return nil
	}
	dists := make([]float64, len(fmat))
	if len(fmat[0]) == 0 {
		return dists
	}
	numObj := len(fmat[0])

	for _, front := range fronts {
		if len(front) == 0 {
			continue
		}
		if len(front) == 1 {
			dists[front[0]] = math.Inf(1)
			continue
		}
		for obj := 0; obj < numObj; obj++ {
			order := append([]int(nil), front...)
			sort.Slice(order, func(i, j int) bool { return fmat[order[i]][obj] < fmat[order[j]][obj] })

			first, last := order[0], order[len(order)-1]
			interval := fmat[last][obj] - fmat[first][obj]
			if interval < 1e-8 {
				interval = 1e-8
			}

			dists[first] = math.Inf(1)
			dists[last] = math.Inf(1)

			for i := 1; i < len(order)-1; i++ {
				next := fmat[order[i+1]][obj]
				prev := fmat[order[i-1]][obj]
				if !math.IsInf(dists[order[i]], 1) {
					dists[order[i]] += (next - prev) / interval
				}
			}
		}
	}
	return dists
}
