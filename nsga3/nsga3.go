// Package nsga3 implements NSGA-III: quasi-random reference
// direction generation, ideal/extreme/nadir point tracking via the
// achievement scalarizing function, and niched replacement.
package nsga3

import (
	"fmt"
	"math"

	"github.com/aram/evokernel/gamath"
	"github.com/aram/evokernel/operator"
	"github.com/aram/evokernel/pareto"
	"github.com/aram/evokernel/population"
	"github.com/aram/evokernel/rng"
)

// candidateInfo is one current-population member's Pareto rank and
// closest reference direction.
type candidateInfo struct {
	rank    int
	refIdx  int
	refDist float64
}

// Algorithm implements operator.Algorithm with the state NSGA-III
// persists across generations: reference directions, per-candidate
// rank and reference association, niche counts, and the ideal/
// extreme/nadir points.
type Algorithm struct {
	// NumReferencePoints configures how many reference directions to
	// generate; if zero, a reasonable default is derived from the
	// number of objectives the first time Initialize runs.
	NumReferencePoints int
	// Seed controls the deterministic quasi-random reference-direction
	// sequence; the set is fixed for the whole run.
	Seed float64

	refDirs     [][]float64
	info        []candidateInfo
	nicheCounts []int

	ideal   []float64
	nadir   []float64
	extreme [][]float64
}

// New returns a ready-to-initialize NSGA-III algorithm instance.
func New(numReferencePoints int, seed float64) *Algorithm {
	return &Algorithm{NumReferencePoints: numReferencePoints, Seed: seed}
}

func (a *Algorithm) Initialize(info operator.GaInfo) error {
	m := info.NumObjectives()
	if m < 2 {
		return fmt.Errorf("nsga3: requires at least 2 objectives, got %d", m)
	}
	n := a.NumReferencePoints
	if n <= 0 {
		n = defaultReferencePointCount(m)
	}
	a.refDirs = generateReferenceDirections(n, m, a.Seed)
	a.nicheCounts = make([]int, len(a.refDirs))

	fm := info.FitnessMatrix()
	fmat := fm.Rows2D()
	ranked := pareto.NonDominatedSort(fmat)

	a.ideal = nil
	a.extreme = nil
	a.updateIdealAndNadir(fmat)
	a.associate(fmat, ranked)
	a.recalcNicheCounts(ranked)

	return nil
}

// defaultReferencePointCount picks the reference-direction count from
// the objective count: 20 for two objectives, 92 for three, and 12 per
// objective for four or more.
func defaultReferencePointCount(numObjectives int) int {
	switch {
	case numObjectives <= 2:
		return 20
	case numObjectives <= 3:
		return 92
	default:
		return 12 * numObjectives
	}
}

// generateReferenceDirections builds n unit-length reference
// directions in d dimensions via the quasi-random simplex sequence.
func generateReferenceDirections(n, d int, seed float64) [][]float64 {
	points := rng.QuasiSimplex(n, d, seed)
	dirs := make([][]float64, len(points))
	for i, p := range points {
		dirs[i] = gamath.Normalize(p)
	}
	return dirs
}

func (a *Algorithm) Prepare(operator.GaInfo, *population.FitnessMatrix) {}

// Select performs niched binary tournament: if the two
// sampled candidates share a reference, prefer lower rank then lower
// reference distance; otherwise pick uniformly at random.
func (a *Algorithm) Select(_ operator.GaInfo, fitness *population.FitnessMatrix, rnd *rng.Rng) int {
	n := fitness.Rows()
	i1, i2 := rnd.Intn(n), rnd.Intn(n)
	c1, c2 := a.info[i1], a.info[i2]
	if c1.refIdx != c2.refIdx {
		if rnd.Bernoulli(0.5) {
			return i1
		}
		return i2
	}
	switch {
	case c1.rank < c2.rank:
		return i1
	case c1.rank > c2.rank:
		return i2
	case c1.refDist < c2.refDist:
		return i1
	default:
		return i2
	}
}

func (a *Algorithm) updateIdealAndNadir(fmat [][]float64) {
	if len(fmat) == 0 {
		return
	}
	m := len(fmat[0])
	if a.ideal == nil {
		a.ideal = append([]float64(nil), fmat[0]...)
	}
	for _, row := range fmat {
		a.ideal = gamath.ElementwiseMax(a.ideal, row)
	}

	newExtreme := make([][]float64, m)
	for dim := 0; dim < m; dim++ {
		weights := weightVector(m, dim)
		bestVal := math.Inf(1)
		var bestPoint []float64
		for _, row := range fmat {
			v := asf(a.ideal, weights, row)
			if v < bestVal {
				bestVal = v
				bestPoint = row
			}
		}
		for _, e := range a.extreme {
			v := asf(a.ideal, weights, e)
			if v < bestVal {
				bestVal = v
				bestPoint = e
			}
		}
		newExtreme[dim] = append([]float64(nil), bestPoint...)
	}
	a.extreme = newExtreme

	nadir := append([]float64(nil), a.extreme[0]...)
	for _, e := range a.extreme[1:] {
		nadir = gamath.ElementwiseMin(nadir, e)
	}
	a.nadir = nadir
}

// asf is the achievement scalarizing function:
// max_i (ideal_i - f_i) / weight_i.
func asf(ideal, weights, f []float64) float64 {
	dmax := math.Inf(-1)
	for i := range f {
		v := (ideal[i] - f[i]) / weights[i]
		if v > dmax {
			dmax = v
		}
	}
	return dmax
}

func weightVector(dim, axis int) []float64 {
	w := make([]float64, dim)
	for i := range w {
		w[i] = 1e-6
	}
	w[axis] = 1.0
	return w
}

func normalizeFitness(f, ideal, nadir []float64) []float64 {
	out := make([]float64, len(f))
	for i := range f {
		denom := ideal[i] - nadir[i]
		if denom < 1e-6 {
			denom = 1e-6
		}
		out[i] = (ideal[i] - f[i]) / denom
	}
	return out
}

// associate records each ranked candidate's closest reference
// direction and squared perpendicular distance, filling a.info sized
// to len(fmat).
func (a *Algorithm) associate(fmat [][]float64, ranked []pareto.RankedIndex) {
	a.info = make([]candidateInfo, len(fmat))
	for _, r := range ranked {
		fnorm := normalizeFitness(fmat[r.Index], a.ideal, a.nadir)
		bestRef := 0
		bestDist := math.Inf(1)
		for refIdx, ref := range a.refDirs {
			d := gamath.PerpendicularDistanceSquared(fnorm, ref)
			if d < bestDist {
				bestDist = d
				bestRef = refIdx
			}
		}
		a.info[r.Index] = candidateInfo{rank: r.Rank, refIdx: bestRef, refDist: bestDist}
	}
}

func (a *Algorithm) recalcNicheCounts(accepted []pareto.RankedIndex) {
	for i := range a.nicheCounts {
		a.nicheCounts[i] = 0
	}
	for _, r := range accepted {
		a.nicheCounts[a.info[r.Index].refIdx]++
	}
}

// NextPopulation takes whole fronts greedily, then fills the
// remaining slots from the splitting front by niche count.
func (a *Algorithm) NextPopulation(info operator.GaInfo, combined *population.FitnessMatrix, _ int, rnd *rng.Rng) []int {
	n := info.PopulationSize()
	fmat := combined.Rows2D()
	ranked := pareto.NonDominatedSort(fmat)
	fronts := pareto.Fronts(ranked)

	var accepted []int // indices into fmat, fronts strictly before the splitting front
	var splitting []int
	splitFrontIdx := -1
	for frontIdx, front := range fronts {
		if len(accepted)+len(front) <= n {
			accepted = append(accepted, front...)
			continue
		}
		splitting = front
		splitFrontIdx = frontIdx
		break
	}

	a.updateIdealAndNadir(fmat)

	// Associate every candidate in accepted fronts and the splitting
	// front with its closest reference direction.
	toAssociate := append([]pareto.RankedIndex(nil), ranked...)
	var filtered []pareto.RankedIndex
	acceptedSet := make(map[int]bool, len(accepted))
	for _, idx := range accepted {
		acceptedSet[idx] = true
	}
	splittingSet := make(map[int]bool, len(splitting))
	for _, idx := range splitting {
		splittingSet[idx] = true
	}
	for _, r := range toAssociate {
		if acceptedSet[r.Index] || splittingSet[r.Index] {
			filtered = append(filtered, r)
		}
	}
	a.associate(fmat, filtered)

	// Niche counts only over fully accepted fronts.
	var acceptedRanked []pareto.RankedIndex
	for _, r := range filtered {
		if acceptedSet[r.Index] {
			acceptedRanked = append(acceptedRanked, r)
		}
	}
	a.recalcNicheCounts(acceptedRanked)

	selected := append([]int(nil), accepted...)
	if splitFrontIdx == -1 || len(splitting) == 0 || len(selected) >= n {
		// Fronts exactly filled N with no splitting required.
		a.finalizeState(selected)
		return selected
	}

	// The reference set: distinct references associated with the
	// splitting front.
	refSet := distinctRefs(a.info, splitting)
	pending := append([]int(nil), splitting...)

	// Repeatedly pick the reference(s) with the current smallest niche
	// count, re-scanned every iteration since counts change as
	// candidates are chosen.
	for len(selected) < n && len(refSet) > 0 {
		minCount := a.nicheCounts[refSet[0]]
		for _, r := range refSet[1:] {
			if a.nicheCounts[r] < minCount {
				minCount = a.nicheCounts[r]
			}
		}
		var tied []int
		for _, r := range refSet {
			if a.nicheCounts[r] == minCount {
				tied = append(tied, r)
			}
		}
		r := tied[rnd.Intn(len(tied))]

		var chosenPos = -1
		if minCount == 0 {
			bestDist := math.Inf(1)
			for i, idx := range pending {
				if a.info[idx].refIdx == r && a.info[idx].refDist < bestDist {
					bestDist = a.info[idx].refDist
					chosenPos = i
				}
			}
		} else {
			for i, idx := range pending {
				if a.info[idx].refIdx == r {
					chosenPos = i
					break
				}
			}
		}

		if chosenPos == -1 {
			refSet = removeRef(refSet, r)
			continue
		}

		chosen := pending[chosenPos]
		pending = append(pending[:chosenPos], pending[chosenPos+1:]...)
		selected = append(selected, chosen)
		a.nicheCounts[r]++

		stillPresent := false
		for _, idx := range pending {
			if a.info[idx].refIdx == r {
				stillPresent = true
				break
			}
		}
		if !stillPresent {
			refSet = removeRef(refSet, r)
		}
	}

	a.finalizeState(selected)
	return selected
}

func distinctRefs(info []candidateInfo, indices []int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, idx := range indices {
		r := info[idx].refIdx
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

func removeRef(refs []int, r int) []int {
	out := refs[:0]
	for _, x := range refs {
		if x != r {
			out = append(out, x)
		}
	}
	return out
}

// finalizeState rebuilds a.info keyed to the new population's own
// positions [0, len(selected)), since future Select calls index into
// the freshly materialized fitness matrix of the retained candidates.
func (a *Algorithm) finalizeState(selected []int) {
	newInfo := make([]candidateInfo, len(selected))
	for i, idx := range selected {
		newInfo[i] = a.info[idx]
	}
	a.info = newInfo
}

// OptimalIndices returns every current-population index with rank 0.
func (a *Algorithm) OptimalIndices(operator.GaInfo) []int {
	var out []int
	for i, c := range a.info {
		if c.rank == 0 {
			out = append(out, i)
		}
	}
	return out
}
