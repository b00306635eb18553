// Package mutation provides one reference operator.Mutation
// implementation per gene kind: inversion for permutations, uniform-bit-flip for binary
// chromosomes, uniform-resample for integer chromosomes, and
// Gaussian perturbation for bounded real chromosomes.
package mutation

import (
	"fmt"
	"math"

	"github.com/aram/evokernel/operator"
	"github.com/aram/evokernel/population"
	"github.com/aram/evokernel/rng"
)

// Inversion reverses a random contiguous slice of a
// PermutationChromosome.
type Inversion struct {
	MutationRate float64
}

func (m Inversion) Rate() float64 { return m.MutationRate }

func (m Inversion) Mutate(c population.Chromosome, rnd *rng.Rng) bool {
	pc, ok := c.(population.PermutationChromosome)
	if !ok {
		panic(fmt.Sprintf("mutation: Inversion requires PermutationChromosome, got %T", c))
	}
	if len(pc) < 2 || rnd.Float64() >= m.MutationRate {
		return false
	}

	maxLen := len(pc) - 1
	if frac := int(0.75 * float64(len(pc))); frac > 2 {
		maxLen = frac
	} else {
		maxLen = 2
	}
	if maxLen >= len(pc) {
		maxLen = len(pc) - 1
	}
	if maxLen < 2 {
		maxLen = 2
	}
	length := 2 + rnd.Intn(maxLen-1)
	if length > len(pc) {
		length = len(pc)
	}
	first := rnd.Intn(len(pc) - length + 1)
	last := first + length

	for i, j := first, last-1; i < j; i, j = i+1, j-1 {
		pc[i], pc[j] = pc[j], pc[i]
	}
	return true
}

// UniformBitFlip flips each bit of a BinaryChromosome independently
// with probability MutationRate.
type UniformBitFlip struct {
	MutationRate float64
}

func (m UniformBitFlip) Rate() float64 { return m.MutationRate }

func (m UniformBitFlip) Mutate(c population.Chromosome, rnd *rng.Rng) bool {
	bc, ok := c.(population.BinaryChromosome)
	if !ok {
		panic(fmt.Sprintf("mutation: UniformBitFlip requires BinaryChromosome, got %T", c))
	}
	changed := false
	for i := range bc {
		if rnd.Float64() < m.MutationRate {
			bc[i] = !bc[i]
			changed = true
		}
	}
	return changed
}

// UniformResample redraws each gene of an IntegerChromosome
// independently within Bounds with probability MutationRate.
type UniformResample struct {
	MutationRate float64
	Bounds       population.BoundsVec
}

func (m UniformResample) Rate() float64 { return m.MutationRate }

func (m UniformResample) Mutate(c population.Chromosome, rnd *rng.Rng) bool {
	ic, ok := c.(population.IntegerChromosome)
	if !ok {
		panic(fmt.Sprintf("mutation: UniformResample requires IntegerChromosome, got %T", c))
	}
	changed := false
	for i := range ic {
		if rnd.Float64() < m.MutationRate {
			b := m.Bounds.At(i)
			lo, hi := int(b.Lower), int(b.Upper)
			v := lo + rnd.Intn(hi-lo+1)
			if v != ic[i] {
				ic[i] = v
				changed = true
			}
		}
	}
	return changed
}

// Gaussian perturbs each gene of a bounded RealChromosome
// independently with probability MutationRate, adding noise with
// standard deviation Sigma (fraction of the gene's bounded range) and
// clamping back into bounds.
type Gaussian struct {
	MutationRate float64
	Sigma        float64
	Bounds       population.BoundsVec
}

func (m Gaussian) Rate() float64 { return m.MutationRate }

func (m Gaussian) Mutate(c population.Chromosome, rnd *rng.Rng) bool {
	rc, ok := c.(population.RealChromosome)
	if !ok {
		panic(fmt.Sprintf("mutation: Gaussian requires RealChromosome, got %T", c))
	}
	sigma := m.Sigma
	if sigma <= 0 {
		sigma = 0.1
	}
	changed := false
	for i := range rc {
		if rnd.Float64() >= m.MutationRate {
			continue
		}
		b := m.Bounds.At(i)
		span := b.Upper - b.Lower
		noise := gaussianSample(rnd) * sigma * span
		v := b.Clamp(rc[i] + noise)
		if v != rc[i] {
			rc[i] = v
			changed = true
		}
	}
	return changed
}

// gaussianSample draws a standard-normal variate via Box-Muller, the
// engine's only RNG transform that needs more than one uniform draw.
func gaussianSample(rnd *rng.Rng) float64 {
	u1 := rnd.Float64()
	if u1 <= 0 {
		u1 = 1e-12
	}
	u2 := rnd.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// Composite mutates a MixedChromosome component by component:
// Components[i] is invoked on the i-th component slice, independently
// of the others, and applies its own rate. Composite's own Rate is
// reported as 1 since it never gates the dispatch itself.
type Composite struct {
	Components []operator.Mutation
}

func (c Composite) Rate() float64 { return 1 }

func (c Composite) Mutate(chrom population.Chromosome, rnd *rng.Rng) bool {
	mc, ok := chrom.(population.MixedChromosome)
	if !ok {
		panic(fmt.Sprintf("mutation: Composite requires MixedChromosome, got %T", chrom))
	}
	if len(mc) != len(c.Components) {
		panic(fmt.Sprintf("mutation: Composite has %d components, chromosome has %d", len(c.Components), len(mc)))
	}
	changed := false
	for i, op := range c.Components {
		if op.Mutate(mc[i], rnd) {
			changed = true
		}
	}
	return changed
}
