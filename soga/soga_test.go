package soga

import (
	"testing"

	"github.com/aram/evokernel/operator/replacement"
	"github.com/aram/evokernel/operator/selection"
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

func fitnessOf(vals ...float64) *population.FitnessMatrix {
	candidates := make([]*population.Candidate, len(vals))
	for i, v := range vals {
		c := population.NewCandidate(population.RealChromosome{v})
		c.SetFitness([]float64{v})
		candidates[i] = c
	}
	return population.NewFitnessMatrix(candidates)
}

func TestInitializeRejectsMultiObjective(t *testing.T) {
	alg := New(&selection.Tournament{Size: 2}, replacement.KeepBest{})
	info := fakeInfo{numObjectives: 2, fitness: fitnessOf(1, 2)}
	if err := alg.Initialize(info); err == nil {
		t.Fatal("expected error for multi-objective problem")
	}
}

func TestInitializeAcceptsSingleObjective(t *testing.T) {
	alg := New(&selection.Tournament{Size: 2}, replacement.KeepBest{})
	info := fakeInfo{numObjectives: 1, fitness: fitnessOf(1, 2)}
	if err := alg.Initialize(info); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOptimalIndicesReturnsBestFitness(t *testing.T) {
	alg := New(&selection.Tournament{Size: 2}, replacement.KeepBest{})
	fm := fitnessOf(1, 5, 5, 2)
	info := fakeInfo{numObjectives: 1, fitness: fm}
	got := alg.OptimalIndices(info)
	if len(got) != 2 {
		t.Fatalf("expected 2 tied-best indices, got %v", got)
	}
	seen := map[int]bool{}
	for _, idx := range got {
		seen[idx] = true
	}
	if !seen[1] || !seen[2] {
		t.Fatalf("expected indices 1 and 2 to be optimal, got %v", got)
	}
}

func TestNextPopulationDelegatesToReplacement(t *testing.T) {
	alg := New(&selection.Tournament{Size: 2}, replacement.KeepChildren{})
	combined := fitnessOf(1, 2, 3, 4)
	info := fakeInfo{numObjectives: 1, popSize: 2, fitness: combined}
	out := alg.NextPopulation(info, combined, 2, rng.New(1))
	if len(out) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(out))
	}
}
