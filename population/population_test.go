package population

import "testing"

func TestCandidateEqualityComparesChromosome(t *testing.T) {
	a := NewCandidate(RealChromosome{1.0, 2.0})
	b := NewCandidate(RealChromosome{1.0, 2.0})
	c := NewCandidate(RealChromosome{1.0, 2.1})

	if !a.Equal(b) {
		t.Fatal("candidates with equal chromosomes should be equal")
	}
	if a.Equal(c) {
		t.Fatal("candidates with different chromosomes should not be equal")
	}
}

func TestCandidateCloneIsIndependent(t *testing.T) {
	a := NewCandidate(RealChromosome{1.0, 2.0})
	a.SetFitness([]float64{5.0})

	b := a.Clone()
	b.Fitness[0] = 99
	b.Chromosome.(RealChromosome)[0] = -1

	if a.Fitness[0] == 99 {
		t.Fatal("clone should not share the fitness backing array")
	}
	if a.Chromosome.(RealChromosome)[0] == -1 {
		t.Fatal("clone should not share the chromosome backing array")
	}
}

func TestMarkUnevaluatedClearsFitness(t *testing.T) {
	a := NewCandidate(BinaryChromosome{true, false})
	a.SetFitness([]float64{1})
	a.MarkUnevaluated()
	if a.IsEvaluated {
		t.Fatal("expected IsEvaluated false")
	}
	if a.Fitness != nil {
		t.Fatal("expected fitness cleared")
	}
}

func TestPopulationValidate(t *testing.T) {
	p := New([]*Candidate{
		func() *Candidate { c := NewCandidate(BinaryChromosome{true}); c.SetFitness([]float64{1}); return c }(),
		func() *Candidate { c := NewCandidate(BinaryChromosome{false}); c.SetFitness([]float64{0}); return c }(),
	})
	if err := p.Validate(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Validate(3); err == nil {
		t.Fatal("expected size mismatch error")
	}

	p.Candidates[0].MarkUnevaluated()
	if err := p.Validate(2); err == nil {
		t.Fatal("expected not-all-evaluated error")
	}
}

func TestFitnessMatrixTracksPopulation(t *testing.T) {
	p := New([]*Candidate{
		func() *Candidate { c := NewCandidate(RealChromosome{0}); c.SetFitness([]float64{1, 2}); return c }(),
		func() *Candidate { c := NewCandidate(RealChromosome{0}); c.SetFitness([]float64{3, 4}); return c }(),
	})
	m := p.FitnessMatrix()
	if m.Rows() != 2 || m.Cols() != 2 {
		t.Fatalf("unexpected shape %dx%d", m.Rows(), m.Cols())
	}
	row0 := m.Row(0)
	if row0[0] != 1 || row0[1] != 2 {
		t.Fatalf("unexpected row 0: %v", row0)
	}
}

func TestPermutationValidity(t *testing.T) {
	valid := PermutationChromosome{2, 0, 1}
	if !valid.IsValidPermutation() {
		t.Fatal("expected valid permutation")
	}
	invalid := PermutationChromosome{0, 0, 1}
	if invalid.IsValidPermutation() {
		t.Fatal("expected invalid (duplicate) permutation")
	}
}

func TestBoundsVecUniformAndPerGene(t *testing.T) {
	uniform := Uniform(Bounds{Lower: -1, Upper: 1})
	if uniform.At(0) != (Bounds{Lower: -1, Upper: 1}) {
		t.Fatal("unexpected uniform bounds")
	}
	if err := uniform.Validate(5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	perGene := PerGene([]Bounds{{Lower: 0, Upper: 1}, {Lower: -1, Upper: 1}})
	if err := perGene.Validate(3); err == nil {
		t.Fatal("expected length mismatch error")
	}
	if err := perGene.Validate(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMixedChromosomeEqualityDispatchesPerComponent(t *testing.T) {
	a := MixedChromosome{RealChromosome{1.0}, BinaryChromosome{true}}
	b := MixedChromosome{RealChromosome{1.0}, BinaryChromosome{true}}
	c := MixedChromosome{RealChromosome{1.1}, BinaryChromosome{true}}

	if !a.Equal(b) {
		t.Fatal("expected equal mixed chromosomes")
	}
	if a.Equal(c) {
		t.Fatal("expected unequal mixed chromosomes")
	}
}
