// Package operator defines the capability-set interfaces that make
// encoding, selection, replacement, and stopping interchangeable:
// Crossover, Mutation, Selection, Replacement, StopCondition, and
// Repair, plus the read-only GaInfo view the generational loop
// exposes to all of them.
//
// GaInfo is declared here rather than in package engine so that
// operator implementations (package operator/selection, .../
// replacement, .../crossover, .../mutation, .../stopcond, and the
// soga/nsga2/nsga3 algorithms) can depend on operator without
// importing engine, which itself depends on all of them.
package operator

import (
	"github.com/aram/evokernel/population"
	"github.com/aram/evokernel/rng"
)

// GaInfo is the read-only view of the running engine passed to every
// operator and stop condition hook.
type GaInfo interface {
	// Generation returns the current generation counter (0 at the
	// start of a run, before any replacement step).
	Generation() int
	// MaxGenerations returns the configured hard upper bound.
	MaxGenerations() int
	// PopulationSize returns the fixed population size N.
	PopulationSize() int
	// NumObjectives returns the number of objectives, known only
	// after the first evaluation.
	NumObjectives() int
	// FitnessEvalCount returns the number of actual fitness-function
	// invocations performed so far.
	FitnessEvalCount() uint64
	// Population returns the current population.
	Population() *population.Population
	// FitnessMatrix returns the fitness matrix materialized after the
	// most recent replacement step.
	FitnessMatrix() *population.FitnessMatrix
}

// Selection chooses parent candidates for reproduction. Select is
// called PopulationSize (or PopulationSize+1) times per generation and
// must be safe to call concurrently from multiple goroutines.
type Selection interface {
	// Initialize runs once at run start.
	Initialize(info GaInfo)
	// Prepare runs once per generation before any Select calls.
	Prepare(info GaInfo, fitness *population.FitnessMatrix)
	// Select returns the index (into the current population) of one
	// chosen parent. Must be goroutine-safe.
	Select(info GaInfo, fitness *population.FitnessMatrix, rnd *rng.Rng) int
}

// Replacement chooses which PopulationSize indices, out of a combined
// parents-then-children fitness matrix, survive into the next
// generation.
type Replacement interface {
	// NextPopulation returns exactly PopulationSize indices into
	// combined, where rows [0, parentsEnd) are parents and
	// [parentsEnd, combined.Rows()) are children.
	NextPopulation(info GaInfo, combined *population.FitnessMatrix, parentsEnd int, rnd *rng.Rng) []int
}

// Crossover combines two parent chromosomes into two children.
// Implementations must be deterministic given the
// Rand's state, and must return the parents unchanged if the drawn
// uniform exceeds Rate.
type Crossover interface {
	Crossover(p1, p2 population.Chromosome, rnd *rng.Rng) (population.Chromosome, population.Chromosome)
	// Rate returns the crossover probability in [0, 1].
	Rate() float64
	// VariableLength reports whether this operator supports parents
	// of differing chromosome length, letting the engine skip
	// same-length preconditions for it.
	VariableLength() bool
}

// Mutation mutates a single child chromosome in place, applied to
// every child produced in a generation. Changed
// reports whether any gene actually changed, so the caller can clear
// the candidate's IsEvaluated flag.
type Mutation interface {
	Mutate(c population.Chromosome, rnd *rng.Rng) (changed bool)
	// Rate returns the mutation probability in [0, 1].
	Rate() float64
}

// Repair optionally inspects and fixes a candidate's chromosome after
// mutation, for example flipping the sign of a
// constraint-violating gene. Changed reports whether the chromosome
// was modified; a Repair that reports no change must leave
// IsEvaluated untouched.
type Repair interface {
	Repair(c *population.Candidate, rnd *rng.Rng) (changed bool)
}

// StopCondition is a predicate over the running GaInfo.
type StopCondition interface {
	Initialize(info GaInfo)
	ShouldStop(info GaInfo) bool
}

// Algorithm is the engine's polymorphic algorithm slot: a composed
// Selection+Replacement pair for
// soga, or a self-contained NSGA-II/NSGA-III implementation holding
// its own persistent per-generation state (ranks, crowding distances,
// reference directions). The engine calls these hooks in the order
// Initialize, then once per generation Prepare/Select.../
// NextPopulation. OptimalIndices is called at the end of the run, and
// also after Initialize and after every generation when optima
// archiving is enabled.
type Algorithm interface {
	// Initialize runs once at run start, after the initial population
	// has been evaluated. Returning an error (e.g. an algorithm that
	// requires more than one objective, given a single-objective
	// problem) aborts the run before any generation executes.
	Initialize(info GaInfo) error
	// Prepare runs once per generation before Select is called.
	Prepare(info GaInfo, fitness *population.FitnessMatrix)
	// Select returns the index of one chosen parent; must be
	// goroutine-safe.
	Select(info GaInfo, fitness *population.FitnessMatrix, rnd *rng.Rng) int
	// NextPopulation returns exactly PopulationSize indices into
	// combined, where rows [0, parentsEnd) are parents and
	// [parentsEnd, combined.Rows()) are children.
	NextPopulation(info GaInfo, combined *population.FitnessMatrix, parentsEnd int, rnd *rng.Rng) []int
	// OptimalIndices returns the indices of the current population
	// considered Pareto/fitness-optimal (rank 0 for NSGA-II/III; the
	// best-fitness candidate(s) for soga).
	OptimalIndices(info GaInfo) []int
}
