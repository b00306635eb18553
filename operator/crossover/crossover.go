// Package crossover provides one reference operator.Crossover
// implementation per gene kind: Order crossover for permutations, two-point crossover for
// fixed-length binary/integer chromosomes, and simulated-binary
// crossover (SBX) for bounded real chromosomes. These are reference-
// quality operators that make the engine testable end-to-end, not an
// exhaustive operator catalogue.
package crossover

import (
	"fmt"
	"math"

	"github.com/aram/evokernel/operator"
	"github.com/aram/evokernel/population"
	"github.com/aram/evokernel/rng"
)

// Order implements OX1 order crossover for PermutationChromosome
// parents: a contiguous slice is copied verbatim from one parent, and
// the remaining genes are filled in the order they appear in the
// other parent, skipping genes already placed.
type Order struct {
	CrossoverRate float64
}

func (o Order) Rate() float64          { return o.CrossoverRate }
func (o Order) VariableLength() bool    { return false }

func (o Order) Crossover(p1, p2 population.Chromosome, rnd *rng.Rng) (population.Chromosome, population.Chromosome) {
	a, ok1 := p1.(population.PermutationChromosome)
	b, ok2 := p2.(population.PermutationChromosome)
	if !ok1 || !ok2 {
		panic(fmt.Sprintf("crossover: Order requires PermutationChromosome parents, got %T and %T", p1, p2))
	}
	if len(a) != len(b) {
		panic("crossover: Order requires equal-length parents")
	}
	if len(a) < 2 {
		return p1.Clone(), p2.Clone()
	}
	if rnd.Float64() >= o.CrossoverRate {
		return p1.Clone(), p2.Clone()
	}

	n := len(a)
	rangeLen := 1 + rnd.Intn(n-1)
	first := rnd.Intn(n - rangeLen + 1)
	last := first + rangeLen

	return order1(a, b, first, last), order1(b, a, first, last)
}

func order1(donor, filler population.PermutationChromosome, first, last int) population.PermutationChromosome {
	n := len(donor)
	child := make(population.PermutationChromosome, n)
	used := make([]bool, n)
	for i := first; i < last; i++ {
		child[i] = donor[i]
		used[donor[i]] = true
	}
	pos := last % n
	for _, gene := range filler {
		if used[gene] {
			continue
		}
		child[pos] = gene
		used[gene] = true
		pos = (pos + 1) % n
	}
	return child
}

// TwoPoint implements classic two-point crossover for fixed-length
// BinaryChromosome and IntegerChromosome parents: two cut points
// split the chromosome into three segments, and the middle segment is
// swapped between parents.
type TwoPoint struct {
	CrossoverRate float64
}

func (t TwoPoint) Rate() float64       { return t.CrossoverRate }
func (t TwoPoint) VariableLength() bool { return false }

func (t TwoPoint) Crossover(p1, p2 population.Chromosome, rnd *rng.Rng) (population.Chromosome, population.Chromosome) {
	if rnd.Float64() >= t.CrossoverRate {
		return p1.Clone(), p2.Clone()
	}
	switch a := p1.(type) {
	case population.BinaryChromosome:
		b := p2.(population.BinaryChromosome)
		c1, c2 := twoPointSwap(a, b, rnd)
		return population.BinaryChromosome(c1), population.BinaryChromosome(c2)
	case population.IntegerChromosome:
		b := p2.(population.IntegerChromosome)
		c1, c2 := twoPointSwapInt(a, b, rnd)
		return population.IntegerChromosome(c1), population.IntegerChromosome(c2)
	default:
		panic(fmt.Sprintf("crossover: TwoPoint does not support %T", p1))
	}
}

func cutPoints(n int, rnd *rng.Rng) (int, int) {
	if n < 2 {
		return 0, n
	}
	i, j := rnd.Intn(n), rnd.Intn(n)
	if i > j {
		i, j = j, i
	}
	return i, j
}

func twoPointSwap(a, b population.BinaryChromosome, rnd *rng.Rng) ([]bool, []bool) {
	n := len(a)
	i, j := cutPoints(n, rnd)
	c1 := append([]bool(nil), a...)
	c2 := append([]bool(nil), b...)
	for k := i; k < j; k++ {
		c1[k], c2[k] = c2[k], c1[k]
	}
	return c1, c2
}

func twoPointSwapInt(a, b population.IntegerChromosome, rnd *rng.Rng) ([]int, []int) {
	n := len(a)
	i, j := cutPoints(n, rnd)
	c1 := append([]int(nil), a...)
	c2 := append([]int(nil), b...)
	for k := i; k < j; k++ {
		c1[k], c2[k] = c2[k], c1[k]
	}
	return c1, c2
}

// SimulatedBinary implements SBX for bounded RealChromosome parents,
// with Eta controlling how close children stay to
// their parents (higher Eta = closer).
type SimulatedBinary struct {
	CrossoverRate float64
	Eta           float64
	Bounds        population.BoundsVec
}

func (s SimulatedBinary) Rate() float64       { return s.CrossoverRate }
func (s SimulatedBinary) VariableLength() bool { return false }

func (s SimulatedBinary) Crossover(p1, p2 population.Chromosome, rnd *rng.Rng) (population.Chromosome, population.Chromosome) {
	a, ok1 := p1.(population.RealChromosome)
	b, ok2 := p2.(population.RealChromosome)
	if !ok1 || !ok2 {
		panic(fmt.Sprintf("crossover: SimulatedBinary requires RealChromosome parents, got %T and %T", p1, p2))
	}
	if rnd.Float64() >= s.CrossoverRate {
		return p1.Clone(), p2.Clone()
	}

	n := len(a)
	c1 := make(population.RealChromosome, n)
	c2 := make(population.RealChromosome, n)
	eta := s.Eta
	if eta <= 0 {
		eta = 2
	}

	for i := 0; i < n; i++ {
		lo, hi := a[i], b[i]
		if lo > hi {
			lo, hi = hi, lo
		}
		bnd := s.Bounds.At(i)

		if hi-lo < 1e-14 {
			c1[i], c2[i] = a[i], b[i]
			continue
		}

		beta1 := 1.0 + 2.0*(lo-bnd.Lower)/(hi-lo)
		beta2 := 1.0 + 2.0*(bnd.Upper-hi)/(hi-lo)
		alpha1 := 2.0 - math.Pow(beta1, -(eta+1))
		alpha2 := 2.0 - math.Pow(beta2, -(eta+1))

		betaPrime := func(alpha float64) float64 {
			u := rnd.Float64()
			if u <= 1.0/alpha {
				return math.Pow(u*alpha, 1.0/(eta+1))
			}
			return math.Pow(1.0/(2.0-u*alpha), 1.0/(eta+1))
		}

		b1 := betaPrime(alpha1)
		b2 := betaPrime(alpha2)

		c1[i] = 0.5 * (a[i] + b[i] - b1*math.Abs(a[i]-b[i]))
		c2[i] = 0.5 * (a[i] + b[i] + b2*math.Abs(a[i]-b[i]))

		c1[i] = clamp(c1[i], bnd.Lower, bnd.Upper)
		c2[i] = clamp(c2[i], bnd.Lower, bnd.Upper)
	}

	return c1, c2
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Composite crosses MixedChromosome parents component by component:
// Components[i] is invoked on the i-th component slice of both
// parents, independently of the others. Each component operator draws
// its own uniform against its own rate, so Composite itself never
// gates; its Rate is reported as 1.
type Composite struct {
	Components []operator.Crossover
}

func (c Composite) Rate() float64        { return 1 }
func (c Composite) VariableLength() bool { return false }

func (c Composite) Crossover(p1, p2 population.Chromosome, rnd *rng.Rng) (population.Chromosome, population.Chromosome) {
	a, ok1 := p1.(population.MixedChromosome)
	b, ok2 := p2.(population.MixedChromosome)
	if !ok1 || !ok2 {
		panic(fmt.Sprintf("crossover: Composite requires MixedChromosome parents, got %T and %T", p1, p2))
	}
	if len(a) != len(c.Components) || len(b) != len(c.Components) {
		panic(fmt.Sprintf("crossover: Composite has %d components, parents have %d and %d", len(c.Components), len(a), len(b)))
	}
	c1 := make(population.MixedChromosome, len(a))
	c2 := make(population.MixedChromosome, len(a))
	for i, op := range c.Components {
		c1[i], c2[i] = op.Crossover(a[i], b[i], rnd)
	}
	return c1, c2
}
