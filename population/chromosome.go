package population

import "github.com/aram/evokernel/gamath"

// Chromosome is an ordered sequence of genes of a single gene kind
// (or, for Mixed, an ordered tuple of per-component chromosomes).
type Chromosome interface {
	// Kind identifies the gene encoding.
	Kind() GeneKind
	// Len returns the number of genes (or, for Mixed, the number of
	// component chromosomes).
	Len() int
	// Clone returns a deep, independent copy.
	Clone() Chromosome
	// Equal compares chromosomes by value. Real-gene chromosomes use
	// the configured tolerant compare (gamath.ApproxEqual); the other
	// kinds compare exactly.
	Equal(other Chromosome) bool
}

// BinaryChromosome is a sequence of 0/1 genes.
type BinaryChromosome []bool

func (c BinaryChromosome) Kind() GeneKind { return Binary }
func (c BinaryChromosome) Len() int       { return len(c) }

func (c BinaryChromosome) Clone() Chromosome {
	out := make(BinaryChromosome, len(c))
	copy(out, c)
	return out
}

func (c BinaryChromosome) Equal(other Chromosome) bool {
	o, ok := other.(BinaryChromosome)
	if !ok || len(o) != len(c) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// RealChromosome is a sequence of bounded floating-point genes.
type RealChromosome []float64

func (c RealChromosome) Kind() GeneKind { return Real }
func (c RealChromosome) Len() int       { return len(c) }

func (c RealChromosome) Clone() Chromosome {
	out := make(RealChromosome, len(c))
	copy(out, c)
	return out
}

func (c RealChromosome) Equal(other Chromosome) bool {
	o, ok := other.(RealChromosome)
	if !ok || len(o) != len(c) {
		return false
	}
	for i := range c {
		if !gamath.ApproxEqual(c[i], o[i]) {
			return false
		}
	}
	return true
}

// PermutationChromosome is an ordered, duplicate-free sequence of
// indices in [0, len).
type PermutationChromosome []int

func (c PermutationChromosome) Kind() GeneKind { return Permutation }
func (c PermutationChromosome) Len() int       { return len(c) }

func (c PermutationChromosome) Clone() Chromosome {
	out := make(PermutationChromosome, len(c))
	copy(out, c)
	return out
}

func (c PermutationChromosome) Equal(other Chromosome) bool {
	o, ok := other.(PermutationChromosome)
	if !ok || len(o) != len(c) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// IsValidPermutation reports whether c is a permutation of [0, len(c)):
// every index appears exactly once.
func (c PermutationChromosome) IsValidPermutation() bool {
	seen := make([]bool, len(c))
	for _, v := range c {
		if v < 0 || v >= len(c) || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// IntegerChromosome is a sequence of bounded integer genes.
type IntegerChromosome []int

func (c IntegerChromosome) Kind() GeneKind { return Integer }
func (c IntegerChromosome) Len() int       { return len(c) }

func (c IntegerChromosome) Clone() Chromosome {
	out := make(IntegerChromosome, len(c))
	copy(out, c)
	return out
}

func (c IntegerChromosome) Equal(other Chromosome) bool {
	o, ok := other.(IntegerChromosome)
	if !ok || len(o) != len(c) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// MixedChromosome is an ordered tuple of per-component chromosomes,
// each of a (possibly different) gene kind. Crossover and mutation
// operators for a Mixed chromosome dispatch independently on each
// component slice.
type MixedChromosome []Chromosome

func (c MixedChromosome) Kind() GeneKind { return Mixed }
func (c MixedChromosome) Len() int       { return len(c) }

func (c MixedChromosome) Clone() Chromosome {
	out := make(MixedChromosome, len(c))
	for i, comp := range c {
		out[i] = comp.Clone()
	}
	return out
}

func (c MixedChromosome) Equal(other Chromosome) bool {
	o, ok := other.(MixedChromosome)
	if !ok || len(o) != len(c) {
		return false
	}
	for i := range c {
		if !c[i].Equal(o[i]) {
			return false
		}
	}
	return true
}
