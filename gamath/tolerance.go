// Package gamath is the math kernel shared by the Pareto, NSGA-II and
// NSGA-III packages: Pareto dominance, a scale-dependent tolerant
// float compare, Euclidean/perpendicular distance, and exact
// hypervolume.
package gamath

import (
	"math"
	"sync/atomic"
)

// tolerance holds the process-wide comparison tolerances as an atomic
// pair so concurrent readers never observe a torn update.
var tolerance struct {
	absTol atomic.Uint64 // math.Float64bits
	epsN   atomic.Uint64
}

func init() {
	tolerance.absTol.Store(math.Float64bits(1e-12))
	tolerance.epsN.Store(4)
}

// AbsoluteTolerance returns the current process-wide absolute
// tolerance floor.
func AbsoluteTolerance() float64 {
	return math.Float64frombits(tolerance.absTol.Load())
}

// RelativeToleranceEpsilons returns the current epsilon multiplier
// used to scale the relative tolerance.
func RelativeToleranceEpsilons() uint64 {
	return tolerance.epsN.Load()
}

// SetTolerances atomically updates both process-wide tolerances.
func SetTolerances(absTol float64, epsilons uint64) {
	tolerance.absTol.Store(math.Float64bits(absTol))
	tolerance.epsN.Store(epsilons)
}

// ScopedTolerance temporarily overrides the process-wide tolerances,
// restoring the prior values when Restore is called (typically via
// defer).
type ScopedTolerance struct {
	prevAbsTol float64
	prevEpsN   uint64
}

// WithTolerances installs new tolerances and returns a guard that
// restores the previous ones.
//
//	guard := gamath.WithTolerances(1e-6, 8)
//	defer guard.Restore()
func WithTolerances(absTol float64, epsilons uint64) *ScopedTolerance {
	guard := &ScopedTolerance{
		prevAbsTol: AbsoluteTolerance(),
		prevEpsN:   RelativeToleranceEpsilons(),
	}
	SetTolerances(absTol, epsilons)
	return guard
}

// Restore reinstates the tolerances that were active before the
// ScopedTolerance was created.
func (s *ScopedTolerance) Restore() {
	SetTolerances(s.prevAbsTol, s.prevEpsN)
}

// machineEpsilon is the float64 unit roundoff.
const machineEpsilon = 2.220446049250313e-16

// tolerantEquals reports whether a and b are equal within
// max(scale*eps*n_epsilons, abs_tol), where scale = max(|a|, |b|).
// Infinities compare by raw ordering, never by tolerance.
func tolerantEquals(a, b float64) bool {
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return a == b
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	tol := math.Max(scale*machineEpsilon*float64(RelativeToleranceEpsilons()), AbsoluteTolerance())
	return math.Abs(a-b) <= tol
}

// ApproxEqual is the exported tolerant-equality predicate.
func ApproxEqual(a, b float64) bool { return tolerantEquals(a, b) }

// ApproxLess reports a < b outside tolerance (i.e. not ApproxEqual and
// a is numerically smaller). Infinities are compared directly.
func ApproxLess(a, b float64) bool {
	if tolerantEquals(a, b) {
		return false
	}
	return a < b
}

// ApproxLessEqual reports a <= b under the tolerant compare: either
// ApproxEqual, or a is strictly (outside tolerance) smaller.
func ApproxLessEqual(a, b float64) bool {
	return tolerantEquals(a, b) || a < b
}

// ApproxGreater reports a > b outside tolerance.
func ApproxGreater(a, b float64) bool { return ApproxLess(b, a) }

// ApproxGreaterEqual reports a >= b under the tolerant compare.
func ApproxGreaterEqual(a, b float64) bool { return ApproxLessEqual(b, a) }
