package metrics

import (
	"github.com/aram/evokernel/gamath"
	"github.com/aram/evokernel/operator"
	"github.com/aram/evokernel/population"
)

// PopulationSnapshot is one generation's worth of population
// diversity statistics.
type PopulationSnapshot struct {
	// UniqueChromosomes is the number of candidates whose chromosome is
	// not Candidate.Equal to any earlier candidate in the population.
	UniqueChromosomes int
	// MeanPairwiseDistance is the average Euclidean distance between
	// every pair of fitness vectors in the population, a proxy for
	// phenotypic diversity that works uniformly across gene kinds.
	MeanPairwiseDistance float64
}

// PopulationStats tracks per-generation population diversity: the
// count of chromosome-distinct candidates (via population.Candidate's
// value-equality) and the mean pairwise fitness distance. The
// fitness-matrix reductions (min/max/mean/stddev) are covered by
// FitnessMin/FitnessMax/FitnessMean/FitnessStdDev; this adds the
// chromosome-level diversity view.
type PopulationStats struct {
	history []PopulationSnapshot
}

func (m *PopulationStats) Init(operator.GaInfo) { m.history = nil }

func (m *PopulationStats) Update(ga operator.GaInfo) {
	pop := ga.Population()
	m.history = append(m.history, PopulationSnapshot{
		UniqueChromosomes:    countUnique(pop.Candidates),
		MeanPairwiseDistance: meanPairwiseDistance(ga.FitnessMatrix().Rows2D()),
	})
}

func (m *PopulationStats) Get() any { return m.history }

func countUnique(candidates []*population.Candidate) int {
	unique := make([]*population.Candidate, 0, len(candidates))
	for _, c := range candidates {
		seen := false
		for _, u := range unique {
			if c.Equal(u) {
				seen = true
				break
			}
		}
		if !seen {
			unique = append(unique, c)
		}
	}
	return len(unique)
}

func meanPairwiseDistance(fmat [][]float64) float64 {
	n := len(fmat)
	if n < 2 {
		return 0
	}
	sum := 0.0
	pairs := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum += gamath.EuclideanDistance(fmat[i], fmat[j])
			pairs++
		}
	}
	return sum / float64(pairs)
}
