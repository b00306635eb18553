// Package encoding provides gene-kind-specific candidate generation
// and bounds semantics: Binary, Real, Permutation, and Integer, plus
// the Mixed composite.
package encoding

import (
	"fmt"

	"github.com/aram/evokernel/population"
	"github.com/aram/evokernel/rng"
)

// Encoding generates valid, randomized chromosomes of a fixed length
// and gene kind, and validates chromosomes against that kind's bounds
// semantics.
type Encoding interface {
	Kind() population.GeneKind
	// Generate returns a freshly randomized, valid chromosome.
	Generate(rnd *rng.Rng) population.Chromosome
	// Validate reports a contract-violation error if c is not a
	// valid chromosome for this encoding (wrong size, out-of-bounds
	// gene, invalid permutation).
	Validate(c population.Chromosome) error
}

// Binary is a fixed-length 0/1 encoding.
type Binary struct {
	Length int
}

func (b Binary) Kind() population.GeneKind { return population.Binary }

func (b Binary) Generate(rnd *rng.Rng) population.Chromosome {
	genes := make(population.BinaryChromosome, b.Length)
	for i := range genes {
		genes[i] = rnd.Bernoulli(0.5)
	}
	return genes
}

func (b Binary) Validate(c population.Chromosome) error {
	bc, ok := c.(population.BinaryChromosome)
	if !ok {
		return fmt.Errorf("encoding: expected BinaryChromosome, got %T", c)
	}
	if len(bc) != b.Length {
		return fmt.Errorf("encoding: expected length %d, got %d", b.Length, len(bc))
	}
	return nil
}

// Real is a fixed-length bounded floating-point encoding.
type Real struct {
	Length int
	Bounds population.BoundsVec
}

func (r Real) Kind() population.GeneKind { return population.Real }

func (r Real) Generate(rnd *rng.Rng) population.Chromosome {
	genes := make(population.RealChromosome, r.Length)
	for i := range genes {
		b := r.Bounds.At(i)
		genes[i] = b.Lower + rnd.Float64()*(b.Upper-b.Lower)
	}
	return genes
}

func (r Real) Validate(c population.Chromosome) error {
	rc, ok := c.(population.RealChromosome)
	if !ok {
		return fmt.Errorf("encoding: expected RealChromosome, got %T", c)
	}
	if len(rc) != r.Length {
		return fmt.Errorf("encoding: expected length %d, got %d", r.Length, len(rc))
	}
	for i, v := range rc {
		if !r.Bounds.At(i).Contains(v) {
			return fmt.Errorf("encoding: gene %d value %v out of bounds %v", i, v, r.Bounds.At(i))
		}
	}
	return nil
}

// Permutation is a fixed-length encoding over a permutation of
// [0, Length).
type Permutation struct {
	Length int
}

func (p Permutation) Kind() population.GeneKind { return population.Permutation }

func (p Permutation) Generate(rnd *rng.Rng) population.Chromosome {
	perm := rnd.Perm(p.Length)
	genes := make(population.PermutationChromosome, p.Length)
	copy(genes, perm)
	return genes
}

func (p Permutation) Validate(c population.Chromosome) error {
	pc, ok := c.(population.PermutationChromosome)
	if !ok {
		return fmt.Errorf("encoding: expected PermutationChromosome, got %T", c)
	}
	if len(pc) != p.Length {
		return fmt.Errorf("encoding: expected length %d, got %d", p.Length, len(pc))
	}
	if !pc.IsValidPermutation() {
		return fmt.Errorf("encoding: chromosome is not a valid permutation: %v", pc)
	}
	return nil
}

// Integer is a fixed-length bounded integer encoding.
type Integer struct {
	Length int
	Bounds population.BoundsVec
}

func (n Integer) Kind() population.GeneKind { return population.Integer }

func (n Integer) Generate(rnd *rng.Rng) population.Chromosome {
	genes := make(population.IntegerChromosome, n.Length)
	for i := range genes {
		b := n.Bounds.At(i)
		lo, hi := int(b.Lower), int(b.Upper)
		genes[i] = lo + rnd.Intn(hi-lo+1)
	}
	return genes
}

func (n Integer) Validate(c population.Chromosome) error {
	ic, ok := c.(population.IntegerChromosome)
	if !ok {
		return fmt.Errorf("encoding: expected IntegerChromosome, got %T", c)
	}
	if len(ic) != n.Length {
		return fmt.Errorf("encoding: expected length %d, got %d", n.Length, len(ic))
	}
	for i, v := range ic {
		b := n.Bounds.At(i)
		if float64(v) < b.Lower || float64(v) > b.Upper {
			return fmt.Errorf("encoding: gene %d value %v out of bounds %v", i, v, b)
		}
	}
	return nil
}

// Mixed composes several component encodings into a single
// MixedChromosome tuple.
type Mixed struct {
	Components []Encoding
}

func (m Mixed) Kind() population.GeneKind { return population.Mixed }

func (m Mixed) Generate(rnd *rng.Rng) population.Chromosome {
	out := make(population.MixedChromosome, len(m.Components))
	for i, comp := range m.Components {
		out[i] = comp.Generate(rnd)
	}
	return out
}

func (m Mixed) Validate(c population.Chromosome) error {
	mc, ok := c.(population.MixedChromosome)
	if !ok {
		return fmt.Errorf("encoding: expected MixedChromosome, got %T", c)
	}
	if len(mc) != len(m.Components) {
		return fmt.Errorf("encoding: expected %d components, got %d", len(m.Components), len(mc))
	}
	for i, comp := range m.Components {
		if err := comp.Validate(mc[i]); err != nil {
			return fmt.Errorf("encoding: component %d: %w", i, err)
		}
	}
	return nil
}
