// Package evokernel is a generation-driven evolutionary-computation
// engine: population initialization, parent selection, variation
// (crossover + mutation + optional repair), evaluation, replacement
// and termination, composed generically over user-supplied operators.
// Single-objective and many-objective (NSGA-II / NSGA-III) search are
// both first-class; fitness is always maximized, so callers encode
// minimization by negating objectives.
//
// This root package is a thin facade re-exporting the engine,
// encoding, population and algorithm names a minimal caller needs, so
// those packages need no import of their own. The concrete operators
// are not re-exported; they come from operator/crossover and
// operator/mutation:
//
//	package main
//
//	import (
//		"context"
//		"math"
//
//		"github.com/aram/evokernel"
//		"github.com/aram/evokernel/operator/crossover"
//		"github.com/aram/evokernel/operator/mutation"
//	)
//
//	func main() {
//		bounds := evokernel.UniformBounds(evokernel.Bounds{Lower: 0, Upper: math.Pi})
//		eng := evokernel.New(
//			evokernel.WithEncoding(evokernel.Real{Length: 1, Bounds: bounds}),
//			evokernel.WithFitnessFunc(func(_ context.Context, c evokernel.Chromosome) ([]float64, error) {
//				x := c.(evokernel.RealChromosome)[0]
//				return []float64{math.Sin(x)}, nil
//			}, false),
//			evokernel.WithCrossover(crossover.SimulatedBinary{CrossoverRate: 0.9, Eta: 15, Bounds: bounds}),
//			evokernel.WithMutation(mutation.Gaussian{MutationRate: 0.1, Sigma: 0.1, Bounds: bounds}),
//			evokernel.WithPopulationSize(100),
//			evokernel.WithMaxGenerations(500),
//		)
//		result, err := eng.Solve(context.Background())
//		...
//	}
package evokernel

import (
	"github.com/aram/evokernel/encoding"
	"github.com/aram/evokernel/engine"
	"github.com/aram/evokernel/nsga2"
	"github.com/aram/evokernel/nsga3"
	"github.com/aram/evokernel/population"
	"github.com/aram/evokernel/soga"
)

// Re-exported population primitives.
type (
	Chromosome            = population.Chromosome
	Candidate             = population.Candidate
	BinaryChromosome      = population.BinaryChromosome
	RealChromosome        = population.RealChromosome
	PermutationChromosome = population.PermutationChromosome
	IntegerChromosome     = population.IntegerChromosome
	MixedChromosome       = population.MixedChromosome
	Bounds                = population.Bounds
	BoundsVec             = population.BoundsVec
	FitnessMatrix         = population.FitnessMatrix
)

// UniformBounds and PerGeneBounds re-export population's BoundsVec
// constructors under names that read naturally at the call site.
func UniformBounds(b Bounds) BoundsVec { return population.Uniform(b) }
func PerGeneBounds(bounds []Bounds) BoundsVec { return population.PerGene(bounds) }

// Re-exported encodings.
type (
	Binary      = encoding.Binary
	Real        = encoding.Real
	Permutation = encoding.Permutation
	Integer     = encoding.Integer
	Mixed       = encoding.Mixed
)

// Re-exported algorithm constructors; soga.New composes a caller-chosen selection and
// replacement pair, so it is re-exported as a function rather than a
// type alias.
var (
	NewNSGA2 = nsga2.New
	NewNSGA3 = nsga3.New
	NewSOGA  = soga.New
)

// Engine is the generational loop; New, its With*
// options, Result, FitnessFunc and ConstraintFunc are re-exported
// directly from package engine so a caller never has to import it.
type (
	Engine         = engine.Engine
	Result         = engine.Result
	FitnessFunc    = engine.FitnessFunc
	ConstraintFunc = engine.ConstraintFunc
)

var (
	New                   = engine.New
	WithEncoding          = engine.WithEncoding
	WithFitnessFunc       = engine.WithFitnessFunc
	WithConstraintFunc    = engine.WithConstraintFunc
	WithRepair            = engine.WithRepair
	WithCrossover         = engine.WithCrossover
	WithMutation          = engine.WithMutation
	WithAlgorithm         = engine.WithAlgorithm
	WithStopCondition     = engine.WithStopCondition
	WithPopulationSize    = engine.WithPopulationSize
	WithMaxGenerations    = engine.WithMaxGenerations
	WithArchiveAllOptima  = engine.WithArchiveAllOptima
	WithSeed              = engine.WithSeed
	WithExecutionThreads  = engine.WithExecutionThreads
	WithInitialCandidates = engine.WithInitialCandidates
	WithEndOfGeneration   = engine.WithEndOfGeneration
	WithMetrics           = engine.WithMetrics
)
