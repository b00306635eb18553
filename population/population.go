package population

import "fmt"

// Population is an ordered sequence of candidates. Its size N is
// fixed for the duration of a run: after initialization and after
// every replacement step, it must hold exactly N evaluated,
// chromosome-valid candidates.
type Population struct {
	Candidates []*Candidate
}

// New wraps a slice of candidates as a Population.
func New(candidates []*Candidate) *Population {
	return &Population{Candidates: candidates}
}

// Size returns the number of candidates.
func (p *Population) Size() int { return len(p.Candidates) }

// AllEvaluated reports whether every candidate has IsEvaluated set.
func (p *Population) AllEvaluated() bool {
	for _, c := range p.Candidates {
		if !c.IsEvaluated {
			return false
		}
	}
	return true
}

// Validate checks the size invariant against the expected population
// size n and that every candidate is evaluated.
func (p *Population) Validate(n int) error {
	if p.Size() != n {
		return fmt.Errorf("population: expected size %d, got %d", n, p.Size())
	}
	if !p.AllEvaluated() {
		return fmt.Errorf("population: not all candidates are evaluated")
	}
	return nil
}

// FitnessMatrix materializes the current FitnessMatrix from the
// population's candidates.
func (p *Population) FitnessMatrix() *FitnessMatrix {
	return NewFitnessMatrix(p.Candidates)
}

// Clone returns a population whose candidates are deep copies of the
// receiver's.
func (p *Population) Clone() *Population {
	out := make([]*Candidate, len(p.Candidates))
	for i, c := range p.Candidates {
		out[i] = c.Clone()
	}
	return &Population{Candidates: out}
}
