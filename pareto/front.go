package pareto

import "github.com/aram/evokernel/gamath"

// Front extracts the Pareto-optimal subset of fitness, returning the
// indices of non-dominated rows with no duplicates.
//
// For single-objective input (k == 1) a 1-D fast path runs a single
// linear pass keeping indices whose value equals the maximum under
// tolerant compare. The general case runs the O(n^2) pairwise
// comparison: the engine already needs NonDominatedSort's O(n^2) pass
// for rank 0 on every replacement step, so a separate O(n log n)
// front-only algorithm buys nothing the hot path doesn't already pay
// for.
func Front(fitness [][]float64) []int {
	n := len(fitness)
	if n == 0 {
		return nil
	}
	if len(fitness[0]) == 1 {
		return front1D(fitness)
	}

	keep := make([]bool, n)
	for i := range fitness {
		keep[i] = true
	}
	for i := 0; i < n; i++ {
		if !keep[i] {
			continue
		}
		for j := 0; j < n; j++ {
			if i == j || !keep[j] {
				continue
			}
			if gamath.Dominates(fitness[j], fitness[i]) {
				keep[i] = false
				break
			}
		}
	}
	out := make([]int, 0, n)
	for i, k := range keep {
		if k {
			out = append(out, i)
		}
	}
	return out
}

func front1D(fitness [][]float64) []int {
	best := fitness[0][0]
	for _, f := range fitness[1:] {
		if f[0] > best {
			best = f[0]
		}
	}
	var out []int
	for i, f := range fitness {
		if gamath.ApproxEqual(f[0], best) {
			out = append(out, i)
		}
	}
	return out
}
