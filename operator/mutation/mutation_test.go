package mutation

import (
	"testing"

	"github.com/aram/evokernel/operator"
	"github.com/aram/evokernel/population"
	"github.com/aram/evokernel/rng"
)

func TestInversionKeepsValidPermutation(t *testing.T) {
	m := Inversion{MutationRate: 1}
	rnd := rng.New(1)
	for trial := 0; trial < 30; trial++ {
		pc := population.PermutationChromosome{0, 1, 2, 3, 4, 5, 6, 7}
		m.Mutate(pc, rnd)
		if !pc.IsValidPermutation() {
			t.Fatalf("expected valid permutation after inversion, got %v", pc)
		}
	}
}

func TestInversionRespectsZeroRate(t *testing.T) {
	m := Inversion{MutationRate: 0}
	pc := population.PermutationChromosome{0, 1, 2, 3}
	rnd := rng.New(2)
	if changed := m.Mutate(pc, rnd); changed {
		t.Fatal("expected no mutation at zero rate")
	}
}

func TestUniformBitFlipFlipsAtFullRate(t *testing.T) {
	m := UniformBitFlip{MutationRate: 1}
	bc := population.BinaryChromosome{false, false, false}
	rnd := rng.New(3)
	changed := m.Mutate(bc, rnd)
	if !changed {
		t.Fatal("expected mutation at full rate")
	}
	for _, v := range bc {
		if !v {
			t.Fatalf("expected every bit flipped, got %v", bc)
		}
	}
}

func TestUniformResampleStaysWithinBounds(t *testing.T) {
	bounds := population.Uniform(population.Bounds{Lower: 0, Upper: 5})
	m := UniformResample{MutationRate: 1, Bounds: bounds}
	ic := population.IntegerChromosome{0, 0, 0, 0}
	rnd := rng.New(4)
	m.Mutate(ic, rnd)
	for _, v := range ic {
		if v < 0 || v > 5 {
			t.Fatalf("gene %d out of bounds", v)
		}
	}
}

func TestGaussianStaysWithinBounds(t *testing.T) {
	bounds := population.Uniform(population.Bounds{Lower: -1, Upper: 1})
	m := Gaussian{MutationRate: 1, Sigma: 0.5, Bounds: bounds}
	rnd := rng.New(5)
	for trial := 0; trial < 30; trial++ {
		rc := population.RealChromosome{0, 0.5, -0.5}
		m.Mutate(rc, rnd)
		for _, v := range rc {
			if v < -1 || v > 1 {
				t.Fatalf("gene %v out of bounds", v)
			}
		}
	}
}

func TestCompositeMutatesEachComponentIndependently(t *testing.T) {
	bounds := population.Uniform(population.Bounds{Lower: -1, Upper: 1})
	m := Composite{Components: []operator.Mutation{
		UniformBitFlip{MutationRate: 1},
		Gaussian{MutationRate: 1, Sigma: 0.5, Bounds: bounds},
	}}
	mc := population.MixedChromosome{
		population.BinaryChromosome{false, false},
		population.RealChromosome{0, 0},
	}
	rnd := rng.New(7)

	if changed := m.Mutate(mc, rnd); !changed {
		t.Fatal("expected full-rate composite mutation to report a change")
	}
	bc := mc[0].(population.BinaryChromosome)
	if !bc[0] || !bc[1] {
		t.Fatalf("expected every bit flipped, got %v", bc)
	}
	for _, v := range mc[1].(population.RealChromosome) {
		if v < -1 || v > 1 {
			t.Fatalf("real gene %v out of bounds", v)
		}
	}
}
