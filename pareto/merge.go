package pareto

import (
	"context"
	"sync/atomic"

	"github.com/aram/evokernel/concurrent"
	"github.com/aram/evokernel/gamath"
)

// state is a per-candidate merge state. Every transition is monotone
// (Unknown -> Optimal or Unknown -> Dominated, and Optimal ->
// Dominated is one-way), which is what makes the relaxed-atomic
// concurrent writes in Merge correct even under torn/interleaved
// reads: no transition ever needs to be undone.
type state int32

const (
	stateUnknown state = iota
	stateOptimal
	stateDominated
)

// Merge returns the Pareto front of the union of two already-Pareto
// sets left and right: every candidate in either input
// is assumed non-dominated within its own set, so only cross-set pairs
// need comparison. Candidates still Optimal or Unknown at the end are
// kept; this also gives Merge(P, nil) == P == Merge(nil, P), since an
// empty other side leaves every state at its initial Unknown.
func Merge(ctx context.Context, pool *concurrent.Pool, left, right [][]float64) [][]float64 {
	keepLeft, keepRight := MergeIndices(ctx, pool, left, right)
	out := make([][]float64, 0, len(keepLeft)+len(keepRight))
	for _, i := range keepLeft {
		out = append(out, left[i])
	}
	for _, j := range keepRight {
		out = append(out, right[j])
	}
	return out
}

// MergeIndices is Merge's index-level core: it reports which members
// of each already-Pareto input survive in the Pareto front of the
// union, as ascending indices into left and right respectively.
// Callers that track richer per-candidate data (the engine's
// solutions archive) use this to carry the survivors over without
// rebuilding them from fitness rows.
//
// The outer loop runs over whichever side is larger, dispatched
// through a concurrent.Pool; per-candidate states are plain atomics
// updated with relaxed semantics, safe here because every transition
// is one-way (see state's doc comment).
func MergeIndices(ctx context.Context, pool *concurrent.Pool, left, right [][]float64) (keepLeft, keepRight []int) {
	leftStates := make([]atomic.Int32, len(left))
	rightStates := make([]atomic.Int32, len(right))

	compare := func(i, j int) {
		switch gamath.Compare(left[i], right[j]) {
		case gamath.FirstDominates:
			rightStates[j].Store(int32(stateDominated))
		case gamath.SecondDominates:
			leftStates[i].Store(int32(stateDominated))
		}
	}

	if len(left) >= len(right) {
		_ = pool.ParallelFor(ctx, len(left), 1, func(i int) error {
			for j := range right {
				compare(i, j)
			}
			return nil
		})
	} else {
		_ = pool.ParallelFor(ctx, len(right), 1, func(j int) error {
			for i := range left {
				compare(i, j)
			}
			return nil
		})
	}

	for i := range left {
		if state(leftStates[i].Load()) != stateDominated {
			keepLeft = append(keepLeft, i)
		}
	}
	for j := range right {
		if state(rightStates[j].Load()) != stateDominated {
			keepRight = append(keepRight, j)
		}
	}
	return keepLeft, keepRight
}
