// Package selection implements the single-objective selection
// operators: Roulette, Tournament, Rank, Sigma scaling, and
// Boltzmann. Each is safe to call concurrently once
// Prepare has run for the generation, per operator.Selection's
// contract.
package selection

import (
	"math"
	"sync"

	"github.com/aram/evokernel/operator"
	"github.com/aram/evokernel/population"
	"github.com/aram/evokernel/rng"
	"gonum.org/v1/gonum/stat"
)

// cumulative holds a precomputed cumulative-probability table built
// once per generation in Prepare and read concurrently by Select;
// the roulette/rank/sigma/Boltzmann operators all share it.
type cumulative struct {
	mu   sync.RWMutex
	cums []float64
}

func (c *cumulative) set(cums []float64) {
	c.mu.Lock()
	c.cums = cums
	c.mu.Unlock()
}

func (c *cumulative) pick(u float64) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i, m := range c.cums {
		if u < m {
			return i
		}
	}
	return len(c.cums) - 1
}

func cumSumFromWeights(weights []float64) []float64 {
	cums := make([]float64, len(weights))
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		// Degenerate (all-zero or negative) weights: fall back to a
		// uniform distribution so Select never panics.
		for i := range cums {
			cums[i] = float64(i+1) / float64(len(weights))
		}
		return cums
	}
	running := 0.0
	for i, w := range weights {
		running += w / total
		cums[i] = running
	}
	cums[len(cums)-1] = 1.0 // guard against floating-point drift
	return cums
}

// Roulette selects with probability proportional to fitness, shifted
// so the worst candidate still has positive probability.
type Roulette struct {
	cumulative
}

func (s *Roulette) Initialize(operator.GaInfo) {}

func (s *Roulette) Prepare(_ operator.GaInfo, fitness *population.FitnessMatrix) {
	col := fitness.Col(0)
	minV := col[0]
	for _, v := range col {
		if v < minV {
			minV = v
		}
	}
	shift := 0.0
	if minV <= 0 {
		shift = -minV + 1e-9
	}
	weights := make([]float64, len(col))
	for i, v := range col {
		weights[i] = v + shift
	}
	s.set(cumSumFromWeights(weights))
}

func (s *Roulette) Select(_ operator.GaInfo, _ *population.FitnessMatrix, rnd *rng.Rng) int {
	return s.pick(rnd.Float64())
}

// Tournament samples k >= 2 indices uniformly with replacement and
// returns the best.
type Tournament struct {
	Size int
}

func (s *Tournament) Initialize(operator.GaInfo)                        {}
func (s *Tournament) Prepare(operator.GaInfo, *population.FitnessMatrix) {}

func (s *Tournament) Select(_ operator.GaInfo, fitness *population.FitnessMatrix, rnd *rng.Rng) int {
	k := s.Size
	if k < 2 {
		k = 2
	}
	n := fitness.Rows()
	if k > n {
		k = n
	}
	best := rnd.Intn(n)
	bestFitness := fitness.Row(best)[0]
	for i := 1; i < k; i++ {
		c := rnd.Intn(n)
		cf := fitness.Row(c)[0]
		if cf > bestFitness {
			best, bestFitness = c, cf
		}
	}
	return best
}

// Rank assigns probability linear in rank between Min and Max
// weights, 0 <= Min <= Max.
type Rank struct {
	Min, Max float64
	cumulative
	order []int // indices sorted ascending by fitness, set in Prepare
}

func (s *Rank) Initialize(operator.GaInfo) {}

func (s *Rank) Prepare(_ operator.GaInfo, fitness *population.FitnessMatrix) {
	n := fitness.Rows()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	col := fitness.Col(0)
	// Ascending sort by fitness: rank 0 is worst, rank n-1 is best.
	sortByKey(order, func(i, j int) bool { return col[order[i]] < col[order[j]] })

	weights := make([]float64, n)
	for pos, idx := range order {
		t := 0.0
		if n > 1 {
			t = float64(pos) / float64(n-1)
		}
		weights[idx] = s.Min + t*(s.Max-s.Min)
	}
	s.order = order
	s.set(cumSumFromWeights(weights))
}

func (s *Rank) Select(_ operator.GaInfo, _ *population.FitnessMatrix, rnd *rng.Rng) int {
	return s.pick(rnd.Float64())
}

func sortByKey(idx []int, less func(i, j int) bool) {
	// Insertion sort is adequate: population sizes in this core are
	// modest (hundreds, not millions) and Prepare runs once per
	// generation.
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
}

// Sigma scales probability proportional to
// max(0, 1 + (f-mean)/(scale*stdev)), scale >= 1.
type Sigma struct {
	Scale float64
	cumulative
}

func (s *Sigma) Initialize(operator.GaInfo) {}

func (s *Sigma) Prepare(_ operator.GaInfo, fitness *population.FitnessMatrix) {
	col := fitness.Col(0)
	mean, std := stat.MeanStdDev(col, nil)
	scale := s.Scale
	if scale < 1 {
		scale = 1
	}
	weights := make([]float64, len(col))
	for i, f := range col {
		w := 1.0
		if std > 0 {
			w = 1.0 + (f-mean)/(scale*std)
		}
		if w < 0 {
			w = 0
		}
		weights[i] = w
	}
	s.set(cumSumFromWeights(weights))
}

func (s *Sigma) Select(_ operator.GaInfo, _ *population.FitnessMatrix, rnd *rng.Rng) int {
	return s.pick(rnd.Float64())
}

// Boltzmann scales probability proportional to
// exp((f - f_min)/T(gen, maxGen)) over normalized fitness. The
// default temperature schedule is a smooth sigmoid from
// ~0.25 to ~4.25 across the run.
type Boltzmann struct {
	Temperature func(gen, maxGen int) float64
	cumulative
}

// DefaultTemperature is a sigmoid schedule: low temperature (sharp selection pressure) early, high temperature
// (near-uniform selection) late.
func DefaultTemperature(gen, maxGen int) float64 {
	if maxGen <= 1 {
		return 0.25
	}
	t := float64(gen) / float64(maxGen-1)
	sigmoid := 1.0 / (1.0 + math.Exp(-10*(t-0.5)))
	return 0.25 + sigmoid*4.0
}

func (s *Boltzmann) Initialize(operator.GaInfo) {}

func (s *Boltzmann) Prepare(info operator.GaInfo, fitness *population.FitnessMatrix) {
	temp := s.Temperature
	if temp == nil {
		temp = DefaultTemperature
	}
	T := temp(info.Generation(), info.MaxGenerations())
	if T <= 0 {
		T = 1e-6
	}
	col := fitness.Col(0)
	minV, maxV := col[0], col[0]
	for _, v := range col {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	span := maxV - minV
	if span <= 0 {
		span = 1
	}
	weights := make([]float64, len(col))
	for i, f := range col {
		weights[i] = math.Exp((f - minV) / span / T)
	}
	s.set(cumSumFromWeights(weights))
}

func (s *Boltzmann) Select(_ operator.GaInfo, _ *population.FitnessMatrix, rnd *rng.Rng) int {
	return s.pick(rnd.Float64())
}
