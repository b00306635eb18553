// Package stopcond implements the engine's stop conditions:
// FitnessEvals, FitnessValue, FitnessMeanStall, FitnessBestStall,
// and a short-circuiting Composite. MaxGenerations is implicit and
// always active in the engine's own loop condition, so it has no
// corresponding type here.
package stopcond

import (
	"github.com/aram/evokernel/gamath"
	"github.com/aram/evokernel/operator"
)

// FitnessEvals stops once the engine's fitness-evaluation counter
// reaches Max.
type FitnessEvals struct {
	Max uint64
}

func (s *FitnessEvals) Initialize(operator.GaInfo) {}

func (s *FitnessEvals) ShouldStop(info operator.GaInfo) bool {
	return info.FitnessEvalCount() >= s.Max
}

// FitnessValue stops once any candidate's fitness dominates Threshold
// under Pareto compare.
type FitnessValue struct {
	Threshold []float64
}

func (s *FitnessValue) Initialize(operator.GaInfo) {}

func (s *FitnessValue) ShouldStop(info operator.GaInfo) bool {
	fm := info.FitnessMatrix()
	if fm == nil {
		return false
	}
	for i := 0; i < fm.Rows(); i++ {
		if gamath.Dominates(fm.Row(i), s.Threshold) {
			return true
		}
	}
	return false
}

// FitnessMeanStall stops when the best-seen per-objective mean has
// not improved by at least Delta in Patience consecutive
// generations.
type FitnessMeanStall struct {
	Patience int
	Delta    float64

	best  []float64
	stall int
}

func (s *FitnessMeanStall) Initialize(operator.GaInfo) {
	s.best = nil
	s.stall = 0
}

func (s *FitnessMeanStall) ShouldStop(info operator.GaInfo) bool {
	fm := info.FitnessMatrix()
	if fm == nil || fm.Rows() == 0 {
		return false
	}
	mean := make([]float64, fm.Cols())
	for i := 0; i < fm.Rows(); i++ {
		row := fm.Row(i)
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(fm.Rows())
	}

	if s.best == nil {
		s.best = mean
		s.stall = 0
		return false
	}

	improved := false
	for j := range mean {
		if mean[j] > s.best[j]+s.Delta {
			improved = true
		}
		if mean[j] > s.best[j] {
			s.best[j] = mean[j]
		}
	}
	if improved {
		s.stall = 0
	} else {
		s.stall++
	}
	return s.stall >= s.Patience
}

// FitnessBestStall is identical to FitnessMeanStall but tracks the
// per-objective maximum of the current population instead of its
// mean.
type FitnessBestStall struct {
	Patience int
	Delta    float64

	best  []float64
	stall int
}

func (s *FitnessBestStall) Initialize(operator.GaInfo) {
	s.best = nil
	s.stall = 0
}

func (s *FitnessBestStall) ShouldStop(info operator.GaInfo) bool {
	fm := info.FitnessMatrix()
	if fm == nil || fm.Rows() == 0 {
		return false
	}
	current := make([]float64, fm.Cols())
	for j := range current {
		current[j] = fm.Row(0)[j]
	}
	for i := 1; i < fm.Rows(); i++ {
		row := fm.Row(i)
		for j, v := range row {
			if v > current[j] {
				current[j] = v
			}
		}
	}

	if s.best == nil {
		s.best = current
		s.stall = 0
		return false
	}

	improved := false
	for j := range current {
		if current[j] > s.best[j]+s.Delta {
			improved = true
		}
		if current[j] > s.best[j] {
			s.best[j] = current[j]
		}
	}
	if improved {
		s.stall = 0
	} else {
		s.stall++
	}
	return s.stall >= s.Patience
}

// CompositeMode selects AND or OR combination for Composite.
type CompositeMode int

const (
	All CompositeMode = iota
	Any
)

// Composite short-circuits over a list of conditions, combined with
// either AND (All) or OR (Any) semantics.
type Composite struct {
	Mode       CompositeMode
	Conditions []operator.StopCondition
}

func (c *Composite) Initialize(info operator.GaInfo) {
	for _, cond := range c.Conditions {
		cond.Initialize(info)
	}
}

func (c *Composite) ShouldStop(info operator.GaInfo) bool {
	if len(c.Conditions) == 0 {
		return false
	}
	switch c.Mode {
	case Any:
		for _, cond := range c.Conditions {
			if cond.ShouldStop(info) {
				return true
			}
		}
		return false
	default: // All
		for _, cond := range c.Conditions {
			if !cond.ShouldStop(info) {
				return false
			}
		}
		return true
	}
}
