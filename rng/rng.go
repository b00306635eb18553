// Package rng provides the seeded random-number facade used across
// evokernel: uniform draws, sampling without replacement,
// Bernoulli/binomial trials, and a quasi-random simplex-point
// generator for NSGA-III reference directions.
//
// A single process-wide generator is seeded with Seed; every goroutine
// that needs its own independent stream derives one with Fork, which
// draws a child seed from the process-wide generator under lock.
// Reseeding is safe to call between (not during) runs.
package rng

import (
	"math"
	"math/rand"
	"sync"
)

// global is the process-wide seed source. Reseeding is only safe
// between runs, never while a Solve is in flight.
var global = struct {
	mu  sync.Mutex
	src *rand.Rand
}{src: rand.New(rand.NewSource(1))}

// Seed reseeds the process-wide generator. Must not be called
// concurrently with an in-flight Engine.Solve.
func Seed(seed int64) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.src = rand.New(rand.NewSource(seed))
}

// Rng is a single goroutine's private random stream.
type Rng struct {
	r *rand.Rand
}

// New wraps an explicit seed. Useful for tests that want bit-identical
// reproducibility independent of the process-wide generator's state.
func New(seed int64) *Rng {
	return &Rng{r: rand.New(rand.NewSource(seed))}
}

// Fork derives a new, independent stream from the process-wide
// generator. Safe to call concurrently; the derivation itself is
// serialized under a lock, but the returned *Rng needs no further
// synchronization as long as it isn't shared across goroutines.
func Fork() *Rng {
	global.mu.Lock()
	seed := global.src.Int63()
	global.mu.Unlock()
	return New(seed)
}

// ForkChild derives a new, independent stream from this *Rng,
// deterministically advancing the receiver's own state. Callers that
// need N reproducible per-worker streams (e.g. the engine's per-child
// mutation/repair/evaluation phase) call ForkChild N times in
// sequential, deterministic order before dispatching work to a
// parallel-for, so the result is reproducible given a fixed seed and
// single-thread execution regardless of how the resulting streams are
// later scheduled across goroutines.
func (g *Rng) ForkChild() *Rng {
	return New(g.r.Int63())
}

// Float64 returns a uniform draw in [0, 1).
func (g *Rng) Float64() float64 { return g.r.Float64() }

// Intn returns a uniform draw in [0, n).
func (g *Rng) Intn(n int) int { return g.r.Intn(n) }

// Perm returns a random permutation of [0, n).
func (g *Rng) Perm(n int) []int { return g.r.Perm(n) }

// Shuffle randomly permutes n elements in place via swap.
func (g *Rng) Shuffle(n int, swap func(i, j int)) { g.r.Shuffle(n, swap) }

// Choose draws k distinct indices from [0, n) without replacement, in
// no particular order. Panics if k > n.
func (g *Rng) Choose(n, k int) []int {
	if k > n {
		panic("rng: Choose: k > n")
	}
	perm := g.r.Perm(n)
	out := make([]int, k)
	copy(out, perm[:k])
	return out
}

// Bernoulli returns true with probability p (clamped to [0, 1]).
func (g *Rng) Bernoulli(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return g.r.Float64() < p
}

// Binomial draws a sample from Binomial(n, p) via n independent
// Bernoulli trials. n is expected to be small (gene-count scale); for
// large n a normal approximation would be preferable, but the core
// only ever calls this at per-chromosome granularity.
func (g *Rng) Binomial(n int, p float64) int {
	count := 0
	for i := 0; i < n; i++ {
		if g.Bernoulli(p) {
			count++
		}
	}
	return count
}

// QuasiSimplex generates n points in the d-dimensional unit simplex
// using a Golden-Ratio-seeded low-discrepancy (Weyl / R_d) sequence.
// Each returned point sums to 1 and has
// non-negative components; it is the caller's job (reference
// direction generation in nsga3) to normalize these further if a unit
// vector rather than a simplex point is wanted.
//
// The sequence is deterministic given (n, d, seed) and independent of
// any goroutine-local state, so reference-direction sets are
// reproducible across runs with the same configuration.
func QuasiSimplex(n, d int, seed float64) [][]float64 {
	if d < 1 {
		return nil
	}
	alphas := make([]float64, d)
	// Generalized golden ratio for dimension d: the positive root of
	// x^(d+1) = x + 1.
	g := generalizedGoldenRatio(d + 1)
	for i := range alphas {
		alphas[i] = math.Mod(1.0/math.Pow(g, float64(i+1)), 1.0)
	}

	points := make([][]float64, n)
	for i := 0; i < n; i++ {
		raw := make([]float64, d)
		sum := 0.0
		for j := 0; j < d; j++ {
			v := math.Mod(seed+alphas[j]*float64(i+1), 1.0)
			raw[j] = v
			sum += v
		}
		// Project the unit-hypercube sample onto the simplex by
		// normalizing to sum 1; this keeps the low-discrepancy
		// spread of the underlying sequence while guaranteeing a
		// valid simplex point.
		p := make([]float64, d)
		if sum == 0 {
			for j := range p {
				p[j] = 1.0 / float64(d)
			}
		} else {
			for j := range p {
				p[j] = raw[j] / sum
			}
		}
		points[i] = p
	}
	return points
}

// generalizedGoldenRatio finds the positive root of x^m = x + 1 via
// fixed-point iteration, converging quickly for the small m (<= a
// handful of objectives) the core ever calls this with.
func generalizedGoldenRatio(m int) float64 {
	x := 1.5
	for i := 0; i < 40; i++ {
		x = math.Pow(1.0+x, 1.0/float64(m))
	}
	return x
}
