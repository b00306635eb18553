package encoding

import (
	"testing"

	"github.com/aram/evokernel/population"
	"github.com/aram/evokernel/rng"
)

func TestBinaryGenerateValidates(t *testing.T) {
	enc := Binary{Length: 10}
	rnd := rng.New(1)
	c := enc.Generate(rnd)
	if err := enc.Validate(c); err != nil {
		t.Fatalf("generated chromosome failed validation: %v", err)
	}
}

func TestRealGenerateWithinBounds(t *testing.T) {
	enc := Real{Length: 5, Bounds: population.Uniform(population.Bounds{Lower: -1, Upper: 1})}
	rnd := rng.New(2)
	c := enc.Generate(rnd).(population.RealChromosome)
	for _, v := range c {
		if v < -1 || v > 1 {
			t.Fatalf("gene %v out of bounds", v)
		}
	}
	if err := enc.Validate(c); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestPermutationGenerateIsValid(t *testing.T) {
	enc := Permutation{Length: 20}
	rnd := rng.New(3)
	c := enc.Generate(rnd)
	if err := enc.Validate(c); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestIntegerValidateRejectsWrongLength(t *testing.T) {
	enc := Integer{Length: 3, Bounds: population.Uniform(population.Bounds{Lower: 0, Upper: 10})}
	if err := enc.Validate(population.IntegerChromosome{1, 2}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestMixedGenerateAndValidate(t *testing.T) {
	enc := Mixed{Components: []Encoding{
		Binary{Length: 4},
		Real{Length: 2, Bounds: population.Uniform(population.Bounds{Lower: 0, Upper: 1})},
	}}
	rnd := rng.New(4)
	c := enc.Generate(rnd)
	if err := enc.Validate(c); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
