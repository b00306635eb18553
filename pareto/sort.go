// Package pareto implements non-dominated sorting, Pareto-front
// extraction, and Pareto-set merging over fitness matrices, shared
// by the NSGA-II and NSGA-III algorithms.
package pareto

import (
	"sort"

	"github.com/aram/evokernel/gamath"
)

// RankedIndex pairs a fitness-matrix row index with its assigned
// Pareto rank (rank 0 is the non-dominated set).
type RankedIndex struct {
	Index int
	Rank  int
}

// NonDominatedSort assigns every row of fitness a Pareto rank: rank 0
// is the non-dominated set; removing it and recomputing gives rank 1;
// and so on. The classic Fast-Non-Dominated-Sort
// (Deb et al.) is used: an O(n^2 * k) two-pass algorithm tracking, for
// each candidate, how many others dominate it and which it dominates.
// Every unordered pair is compared exactly once (j starts at i+1,
// testing domination in both directions), so no pair is skipped.
func NonDominatedSort(fitness [][]float64) []RankedIndex {
	n := len(fitness)
	dominatedBy := make([][]int, n) // dominatedBy[i] = indices that i dominates
	dominationCount := make([]int, n)
	rank := make([]int, n)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			switch gamath.Compare(fitness[i], fitness[j]) {
			case gamath.FirstDominates:
				dominatedBy[i] = append(dominatedBy[i], j)
				dominationCount[j]++
			case gamath.SecondDominates:
				dominatedBy[j] = append(dominatedBy[j], i)
				dominationCount[i]++
			}
		}
	}

	var front []int
	for i := 0; i < n; i++ {
		if dominationCount[i] == 0 {
			rank[i] = 0
			front = append(front, i)
		}
	}

	results := make([]RankedIndex, 0, n)
	currentRank := 0
	for len(front) > 0 {
		for _, i := range front {
			results = append(results, RankedIndex{Index: i, Rank: currentRank})
		}
		var next []int
		for _, i := range front {
			for _, j := range dominatedBy[i] {
				dominationCount[j]--
				if dominationCount[j] == 0 {
					rank[j] = currentRank + 1
					next = append(next, j)
				}
			}
		}
		front = next
		currentRank++
	}

	// Any leftover (should not occur for well-formed input, but
	// guards against NaNs/mutually-incomparable cycles from
	// non-finite fitness values) get appended at the final rank so
	// every index is represented exactly once.
	seen := make([]bool, n)
	for _, r := range results {
		seen[r.Index] = true
	}
	for i, ok := range seen {
		if !ok {
			results = append(results, RankedIndex{Index: i, Rank: currentRank})
		}
	}

	sort.SliceStable(results, func(a, b int) bool { return results[a].Rank < results[b].Rank })
	return results
}

// Fronts groups NonDominatedSort's flat result back into one index
// slice per rank, ordered by increasing rank.
func Fronts(ranked []RankedIndex) [][]int {
	if len(ranked) == 0 {
		return nil
	}
	maxRank := 0
	for _, r := range ranked {
		if r.Rank > maxRank {
			maxRank = r.Rank
		}
	}
	fronts := make([][]int, maxRank+1)
	for _, r := range ranked {
		fronts[r.Rank] = append(fronts[r.Rank], r.Index)
	}
	return fronts
}

// RanksOf returns rank[i] for every original index 0..n-1, rather than
// the (index, rank) pair list NonDominatedSort returns directly.
func RanksOf(ranked []RankedIndex, n int) []int {
	ranks := make([]int, n)
	for _, r := range ranked {
		ranks[r.Index] = r.Rank
	}
	return ranks
}
