package nsga2

import (
	"testing"

	"github.com/aram/evokernel/population"
	"github.com/aram/evokernel/rng"
)

type fakeInfo struct {
	numObjectives int
	popSize       int
	fitness       *population.FitnessMatrix
}

func (f fakeInfo) Generation() int                          { return 0 }
func (f fakeInfo) MaxGenerations() int                      { return 10 }
func (f fakeInfo) PopulationSize() int                      { return f.popSize }
func (f fakeInfo) NumObjectives() int                       { return f.numObjectives }
func (f fakeInfo) FitnessEvalCount() uint64                 { return 0 }
func (f fakeInfo) Population() *population.Population       { return nil }
func (f fakeInfo) FitnessMatrix() *population.FitnessMatrix { return f.fitness }

func fitnessOf(rows ...[]float64) *population.FitnessMatrix {
	candidates := make([]*population.Candidate, len(rows))
	for i, r := range rows {
		c := population.NewCandidate(population.RealChromosome(r))
		c.SetFitness(r)
		candidates[i] = c
	}
	return population.NewFitnessMatrix(candidates)
}

func TestInitializeRejectsSingleObjective(t *testing.T) {
	alg := New()
	fm := fitnessOf([]float64{1})
	info := fakeInfo{numObjectives: 1, fitness: fm}
	if err := alg.Initialize(info); err == nil {
		t.Fatal("expected error for single-objective problem")
	}
}

func TestOptimalIndicesIsRankZero(t *testing.T) {
	alg := New()
	fm := fitnessOf([]float64{3, 3}, []float64{1, 1}, []float64{2, 2}, []float64{3, 1})
	info := fakeInfo{numObjectives: 2, fitness: fm}
	if err := alg.Initialize(info); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	optimal := alg.OptimalIndices(info)
	found := map[int]bool{}
	for _, idx := range optimal {
		found[idx] = true
	}
	if !found[0] {
		t.Fatalf("expected index 0 ({3,3}) to be rank 0, got %v", optimal)
	}
	if found[1] || found[3] {
		t.Fatalf("expected dominated indices excluded from rank 0, got %v", optimal)
	}
}

func TestNextPopulationReturnsExactlyPopulationSize(t *testing.T) {
	alg := New()
	combined := fitnessOf(
		[]float64{5, 1}, []float64{1, 5}, []float64{4, 2}, []float64{2, 4},
		[]float64{3, 3}, []float64{0, 0}, []float64{6, 6}, []float64{1, 1},
	)
	info := fakeInfo{numObjectives: 2, popSize: 4, fitness: combined}
	out := alg.NextPopulation(info, combined, 4, rng.New(1))
	if len(out) != 4 {
		t.Fatalf("expected 4 survivors, got %d", len(out))
	}
	seen := map[int]bool{}
	for _, idx := range out {
		if seen[idx] {
			t.Fatalf("duplicate index %d in survivors", idx)
		}
		seen[idx] = true
		if idx < 0 || idx >= combined.Rows() {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestSelectPrefersLowerRank(t *testing.T) {
	alg := &Algorithm{ranks: []int{0, 5}, dists: []float64{1, 1}}
	fm := fitnessOf([]float64{1, 1}, []float64{2, 2})
	info := fakeInfo{numObjectives: 2, fitness: fm}
	rnd := rng.New(1)

	// Index 1 can only win when both tournament samples draw it, so
	// the lower-rank index 0 must win the large majority of trials.
	wins := 0
	const trials = 1000
	for i := 0; i < trials; i++ {
		if alg.Select(info, fm, rnd) == 0 {
			wins++
		}
	}
	if wins < trials/2 {
		t.Fatalf("lower-rank index won only %d of %d tournaments", wins, trials)
	}
}
