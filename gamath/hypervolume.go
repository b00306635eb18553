package gamath

import (
	"context"
	"math"
	"sort"

	"github.com/aram/evokernel/concurrent"
)

// boxVolume is the volume of the axis-aligned box between p and ref,
// requiring p to dominate-or-equal ref component-wise (p[i] >= ref[i]
// for every i, since evokernel always maximizes). Infinite coordinates
// make the box volume infinite.
func boxVolume(p, ref []float64) float64 {
	vol := 1.0
	for i := range p {
		side := p[i] - ref[i]
		if side <= 0 {
			return 0
		}
		if math.IsInf(side, 1) {
			return math.Inf(1)
		}
		vol *= side
	}
	return vol
}

// limitSet component-wise mins every point in rest against p.
func limitSet(rest [][]float64, p []float64) [][]float64 {
	out := make([][]float64, len(rest))
	for i, q := range rest {
		out[i] = ElementwiseMin(q, p)
	}
	return out
}

// nonDominatedOnly keeps the points in pts that are not dominated by
// any other point in pts, using tolerant compare. Equal points do not
// dominate each other, so duplicates are all kept; the WFG recursion
// counts their shared volume once.
// This is the preprocessing step the WFG recursion assumes: adding a
// dominated point never changes the non-dominated subset fed to the
// recursion, so Hypervolume is monotone under dominated-point
// addition.
func nonDominatedOnly(pts [][]float64) [][]float64 {
	keep := make([]bool, len(pts))
	for i := range pts {
		keep[i] = true
	}
	for i := range pts {
		if !keep[i] {
			continue
		}
		for j := range pts {
			if i == j || !keep[j] {
				continue
			}
			if Dominates(pts[j], pts[i]) {
				keep[i] = false
				break
			}
		}
	}
	out := make([][]float64, 0, len(pts))
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

// Hypervolume computes the exact hypervolume of points relative to
// ref, where ref must be strictly dominated by every point in the
// resulting Pareto front. Implements the WFG recursion:
// sort the non-dominated front, then for each point p sum
// volume(p, ref) - hypervolume(limit_set(rest, p), ref), where rest is
// the points ordered after p and limit_set component-wise mins them
// against p.
func Hypervolume(points [][]float64, ref []float64) float64 {
	front := nonDominatedOnly(points)
	return hypervolumeRecursive(sortFront(front), ref)
}

// sortFront orders a front by its last objective descending, giving a
// stable traversal order for the WFG recursion's "rest" slices.
func sortFront(front [][]float64) [][]float64 {
	out := make([][]float64, len(front))
	copy(out, front)
	if len(out) == 0 {
		return out
	}
	last := len(out[0]) - 1
	sort.Slice(out, func(i, j int) bool { return out[i][last] > out[j][last] })
	return out
}

func hypervolumeRecursive(front [][]float64, ref []float64) float64 {
	if len(front) == 0 {
		return 0
	}
	if len(front) == 1 {
		return boxVolume(front[0], ref)
	}
	total := 0.0
	for i, p := range front {
		rest := front[i+1:]
		if len(rest) == 0 {
			total += boxVolume(p, ref)
			continue
		}
		limited := nonDominatedOnly(limitSet(rest, p))
		total += boxVolume(p, ref) - hypervolumeRecursive(sortFront(limited), ref)
	}
	return total
}

// HypervolumeParallel computes the same quantity as Hypervolume, but
// dispatches each point's exclusive-hypervolume contribution to pool
// at the top level. Recursive calls run sequentially within each
// worker.
func HypervolumeParallel(ctx context.Context, pool *concurrent.Pool, points [][]float64, ref []float64) (float64, error) {
	front := sortFront(nonDominatedOnly(points))
	if len(front) == 0 {
		return 0, nil
	}
	contributions, err := concurrent.ParallelMap(ctx, pool, len(front), 1, func(i int) (float64, error) {
		p := front[i]
		rest := front[i+1:]
		if len(rest) == 0 {
			return boxVolume(p, ref), nil
		}
		limited := nonDominatedOnly(limitSet(rest, p))
		return boxVolume(p, ref) - hypervolumeRecursive(sortFront(limited), ref), nil
	})
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, c := range contributions {
		total += c
	}
	return total, nil
}

// AutoHypervolume tracks a run-global worst point as the
// component-wise minimum of every fitness vector observed, and
// retroactively corrects prior generations' recorded hypervolumes
// when that worst point shifts.
type AutoHypervolume struct {
	worst   []float64
	history []hvRecord
}

type hvRecord struct {
	ideal []float64
	value float64
}

// NewAutoHypervolume constructs an empty tracker.
func NewAutoHypervolume() *AutoHypervolume {
	return &AutoHypervolume{}
}

// Observe folds a generation's fitness matrix into the tracker,
// returning the hypervolume recorded for this generation (corrected
// retroactively in prior entries if the worst point moved).
func (a *AutoHypervolume) Observe(points [][]float64) float64 {
	ideal := componentwiseMax(points)
	newWorst := componentwiseMinAll(points)

	if a.worst == nil {
		a.worst = newWorst
	} else {
		shifted := componentwiseMinPair(a.worst, newWorst)
		if !vecEqual(shifted, a.worst) {
			a.correctHistory(a.worst, shifted)
			a.worst = shifted
		}
	}

	value := Hypervolume(points, a.worst)
	a.history = append(a.history, hvRecord{ideal: ideal, value: value})
	return value
}

// History returns the corrected hypervolume value recorded for each
// generation observed so far, in order.
func (a *AutoHypervolume) History() []float64 {
	out := make([]float64, len(a.history))
	for i, r := range a.history {
		out[i] = r.value
	}
	return out
}

func (a *AutoHypervolume) correctHistory(oldWorst, newWorst []float64) {
	for i := range a.history {
		a.history[i].value -= boxVolume(a.history[i].ideal, oldWorst)
		a.history[i].value += boxVolume(a.history[i].ideal, newWorst)
	}
}

func componentwiseMax(points [][]float64) []float64 {
	if len(points) == 0 {
		return nil
	}
	out := append([]float64(nil), points[0]...)
	for _, p := range points[1:] {
		out = ElementwiseMax(out, p)
	}
	return out
}

func componentwiseMinAll(points [][]float64) []float64 {
	if len(points) == 0 {
		return nil
	}
	out := append([]float64(nil), points[0]...)
	for _, p := range points[1:] {
		out = ElementwiseMin(out, p)
	}
	return out
}

func componentwiseMinPair(a, b []float64) []float64 {
	return ElementwiseMin(a, b)
}

func vecEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
