// Package engine composes the other packages into the generational
// loop: population initialization, parent selection, variation
// (crossover + mutation + optional repair), evaluation, replacement,
// and termination. It owns the population, the fitness matrix, the
// generation counter, and the metric collector for one Solve call.
package engine

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/aram/evokernel/concurrent"
	"github.com/aram/evokernel/encoding"
	"github.com/aram/evokernel/metrics"
	"github.com/aram/evokernel/nsga3"
	"github.com/aram/evokernel/operator"
	"github.com/aram/evokernel/operator/replacement"
	"github.com/aram/evokernel/operator/selection"
	"github.com/aram/evokernel/pareto"
	"github.com/aram/evokernel/population"
	"github.com/aram/evokernel/rng"
	"github.com/aram/evokernel/soga"
)

// FitnessFunc evaluates one chromosome, returning a fitness vector
// whose length must match the arity observed on the first evaluation.
// Fitness is always maximized; callers encode minimization by
// negating objectives.
type FitnessFunc func(ctx context.Context, c population.Chromosome) ([]float64, error)

// ConstraintFunc returns a vector of non-negative violation
// magnitudes for a chromosome; zero means satisfied.
type ConstraintFunc func(c population.Chromosome) []float64

// Result is what Solve returns: the final population, the archived
// (or final-generation) optimal solutions, and run counters.
type Result struct {
	Population       *population.Population
	Solutions        []*population.Candidate
	Generations      int
	FitnessEvalCount uint64
}

// Engine is the generational loop. Build one with New and its With*
// options, then call Solve. The Engine itself, its operators, and its
// stop condition outlive any single run and may be reused across
// Solve calls; the population, fitness matrix, solutions set and
// metrics are recreated at the start of each Solve.
type Engine struct {
	// Required configuration.
	encoding       encoding.Encoding
	fitnessFn      FitnessFunc
	dynamicFit     bool
	populationSize int

	// Further configuration. Crossover and mutation must be set
	// (Validate rejects nil); the rest is optional.
	constraintFn     ConstraintFunc
	repair           operator.Repair
	crossover        operator.Crossover
	mutation         operator.Mutation
	algorithm        operator.Algorithm
	stopCond         operator.StopCondition
	maxGen           int
	archiveAllOptima bool
	seed             int64
	executionThreads int
	initial          []population.Chromosome
	endOfGeneration  func(operator.GaInfo)
	metricsCollector *metrics.Collector

	// Run state, reset at the start of every Solve.
	pop           *population.Population
	fmat          *population.FitnessMatrix
	generation    int
	numObjectives int
	evalCount     atomic.Uint64
	pool          *concurrent.Pool
}

// New builds an Engine from functional options, defaulting
// MaxGenerations to 100 and PopulationSize to 0 (a configuration
// error, caught by Validate).
//
//	eng := engine.New(
//		engine.WithEncoding(encoding.Real{Length: 1, Bounds: b}),
//		engine.WithFitnessFunc(fn, false),
//		engine.WithPopulationSize(100),
//	)
func New(options ...func(*Engine)) *Engine {
	e := &Engine{
		maxGen: 100,
		seed:   1,
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// WithEncoding sets the gene-kind-specific candidate generator.
func WithEncoding(enc encoding.Encoding) func(*Engine) {
	return func(e *Engine) { e.encoding = enc }
}

// WithFitnessFunc sets the fitness function. dynamic reports whether
// fitness must be recomputed even for a candidate whose IsEvaluated
// flag is already set.
func WithFitnessFunc(fn FitnessFunc, dynamic bool) func(*Engine) {
	return func(e *Engine) {
		e.fitnessFn = fn
		e.dynamicFit = dynamic
	}
}

// WithConstraintFunc sets the optional constraint-violation function.
func WithConstraintFunc(fn ConstraintFunc) func(*Engine) {
	return func(e *Engine) { e.constraintFn = fn }
}

// WithRepair sets the optional post-mutation chromosome repair hook.
func WithRepair(r operator.Repair) func(*Engine) {
	return func(e *Engine) { e.repair = r }
}

// WithCrossover sets the crossover operator used to combine selected
// parents.
func WithCrossover(c operator.Crossover) func(*Engine) {
	return func(e *Engine) { e.crossover = c }
}

// WithMutation sets the mutation operator applied to every child.
func WithMutation(m operator.Mutation) func(*Engine) {
	return func(e *Engine) { e.mutation = m }
}

// WithAlgorithm overrides the default algorithm selection. If unset,
// Solve chooses Tournament+KeepBest for a single objective or
// NSGA-III otherwise, once the objective count is known.
func WithAlgorithm(alg operator.Algorithm) func(*Engine) {
	return func(e *Engine) { e.algorithm = alg }
}

// WithStopCondition sets the user stop condition, evaluated in
// addition to the implicit MaxGenerations bound.
func WithStopCondition(sc operator.StopCondition) func(*Engine) {
	return func(e *Engine) { e.stopCond = sc }
}

// WithPopulationSize sets the fixed population size N.
func WithPopulationSize(n int) func(*Engine) {
	return func(e *Engine) { e.populationSize = n }
}

// WithMaxGenerations sets the hard upper bound on generations.
func WithMaxGenerations(n int) func(*Engine) {
	return func(e *Engine) { e.maxGen = n }
}

// WithArchiveAllOptima enables retaining every Pareto-optimal
// candidate ever seen across the run, merged with duplicate removal
// after every generation. When disabled (the default), only the final
// population's optima are returned.
func WithArchiveAllOptima(v bool) func(*Engine) {
	return func(e *Engine) { e.archiveAllOptima = v }
}

// WithSeed sets the RNG seed for this Engine's runs.
func WithSeed(seed int64) func(*Engine) {
	return func(e *Engine) { e.seed = seed }
}

// WithExecutionThreads sets the concurrency pool size. <= 0 selects
// max(1, NumCPU-1).
func WithExecutionThreads(n int) func(*Engine) {
	return func(e *Engine) { e.executionThreads = n }
}

// WithInitialCandidates seeds the initial population with up to N
// user-supplied chromosomes; Solve fills any remaining slots via the
// encoding's Generate.
func WithInitialCandidates(chromosomes []population.Chromosome) func(*Engine) {
	return func(e *Engine) { e.initial = chromosomes }
}

// WithEndOfGeneration sets the callback invoked after each
// generation's metric update.
func WithEndOfGeneration(fn func(operator.GaInfo)) func(*Engine) {
	return func(e *Engine) { e.endOfGeneration = fn }
}

// WithMetrics attaches a metrics.Collector, initialized once at run
// start and updated once per generation.
func WithMetrics(c *metrics.Collector) func(*Engine) {
	return func(e *Engine) { e.metricsCollector = c }
}

// Sentinel configuration errors.
var (
	ErrNoEncoding      = fmt.Errorf("evokernel: no encoding configured")
	ErrNoFitnessFunc   = fmt.Errorf("evokernel: no fitness function configured")
	ErrEmptyPopulation = fmt.Errorf("evokernel: population_size must be positive")
	ErrInvalidMaxGen   = fmt.Errorf("evokernel: max_gen must be positive")
	ErrNoCrossover     = fmt.Errorf("evokernel: no crossover operator configured")
	ErrNoMutation      = fmt.Errorf("evokernel: no mutation operator configured")
)

// Validate checks the Engine's configuration: required fields present,
// rates and sizes in range. Called first thing inside Solve.
func (e *Engine) Validate() error {
	if e.encoding == nil {
		return ErrNoEncoding
	}
	if e.fitnessFn == nil {
		return ErrNoFitnessFunc
	}
	if e.populationSize <= 0 {
		return ErrEmptyPopulation
	}
	if e.maxGen <= 0 {
		return ErrInvalidMaxGen
	}
	if e.crossover == nil {
		return ErrNoCrossover
	}
	if e.mutation == nil {
		return ErrNoMutation
	}
	if rate := e.crossover.Rate(); rate < 0 || rate > 1 {
		return fmt.Errorf("evokernel: crossover_rate must be in [0,1], got %v", rate)
	}
	if rate := e.mutation.Rate(); rate < 0 || rate > 1 {
		return fmt.Errorf("evokernel: mutation_rate must be in [0,1], got %v", rate)
	}
	return nil
}

// operator.GaInfo implementation, the read-only view every operator
// and stop condition receives.

func (e *Engine) Generation() int                          { return e.generation }
func (e *Engine) MaxGenerations() int                      { return e.maxGen }
func (e *Engine) PopulationSize() int                      { return e.populationSize }
func (e *Engine) NumObjectives() int                       { return e.numObjectives }
func (e *Engine) FitnessEvalCount() uint64                 { return e.evalCount.Load() }
func (e *Engine) Population() *population.Population       { return e.pop }
func (e *Engine) FitnessMatrix() *population.FitnessMatrix { return e.fmat }

var _ operator.GaInfo = (*Engine)(nil)

// Solve runs the generational loop from scratch, replacing the
// population, fitness matrix, solutions set and metrics this call
// creates. The Engine itself and its operators may be reused for a
// subsequent Solve call.
func (e *Engine) Solve(ctx context.Context) (*Result, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	e.generation = 0
	e.numObjectives = 0
	e.evalCount.Store(0)
	e.pool = concurrent.NewPool(e.executionThreads)
	rngSeed := rng.New(e.seed)

	var solutions []*population.Candidate

	// The number of objectives is only knowable by evaluating one
	// generated candidate: a throwaway probe, discarded once its
	// arity is known.
	probeFitness, err := e.fitnessFn(ctx, e.encoding.Generate(rngSeed))
	if err != nil {
		return nil, fmt.Errorf("evokernel: initial probe evaluation: %w", err)
	}
	if len(probeFitness) == 0 {
		return nil, fmt.Errorf("evokernel: fitness function returned an empty vector")
	}
	e.numObjectives = len(probeFitness)
	e.evalCount.Add(1)

	// Build the initial population of exactly N: the first
	// min(|initial|, N) user-supplied chromosomes, the rest freshly
	// generated.
	candidates := make([]*population.Candidate, e.populationSize)
	numSeeded := len(e.initial)
	if numSeeded > e.populationSize {
		numSeeded = e.populationSize
	}
	for i := 0; i < numSeeded; i++ {
		if err := e.encoding.Validate(e.initial[i]); err != nil {
			return nil, fmt.Errorf("evokernel: initial candidate %d: %w", i, err)
		}
		candidates[i] = population.NewCandidate(e.initial[i].Clone())
	}
	for i := numSeeded; i < e.populationSize; i++ {
		c := e.encoding.Generate(rngSeed)
		if err := e.encoding.Validate(c); err != nil {
			return nil, fmt.Errorf("evokernel: generated candidate %d: %w", i, err)
		}
		candidates[i] = population.NewCandidate(c)
	}

	e.pop = population.New(candidates)

	// Evaluate every remaining (unevaluated) candidate in parallel,
	// then materialize the fitness matrix.
	if err := e.evaluateAll(ctx, e.pop.Candidates); err != nil {
		return nil, err
	}
	e.fmat = e.pop.FitnessMatrix()

	// Choose a default algorithm if none was supplied, now that the
	// objective count is known, then initialize algorithm, stop
	// condition and metrics.
	if e.algorithm == nil {
		e.algorithm = e.defaultAlgorithm()
	}
	if err := e.algorithm.Initialize(e); err != nil {
		return nil, fmt.Errorf("evokernel: algorithm initialize: %w", err)
	}
	if e.stopCond != nil {
		e.stopCond.Initialize(e)
	}
	if e.metricsCollector != nil {
		e.metricsCollector.Init(e)
	}

	// Record generation 0's optima if archiving.
	if e.archiveAllOptima {
		solutions = e.mergeOptima(ctx, solutions, e.algorithm.OptimalIndices(e))
	}

	for e.generation < e.maxGen && !e.shouldStop() {
		e.algorithm.Prepare(e, e.fmat)

		children, err := e.produceChildren(ctx, rngSeed)
		if err != nil {
			return nil, err
		}

		combinedCandidates := append(append([]*population.Candidate(nil), e.pop.Candidates...), children...)
		combinedFitness := population.NewFitnessMatrix(combinedCandidates)
		parentsEnd := e.pop.Size()

		indices := e.algorithm.NextPopulation(e, combinedFitness, parentsEnd, rngSeed)
		if len(indices) != e.populationSize {
			return nil, fmt.Errorf("evokernel: algorithm returned %d indices, want %d", len(indices), e.populationSize)
		}
		next := make([]*population.Candidate, e.populationSize)
		for i, idx := range indices {
			next[i] = combinedCandidates[idx]
		}
		e.pop = population.New(next)
		e.fmat = e.pop.FitnessMatrix()

		if e.archiveAllOptima {
			solutions = e.mergeOptima(ctx, solutions, e.algorithm.OptimalIndices(e))
		}

		if e.metricsCollector != nil {
			e.metricsCollector.Update(e)
		}
		if e.endOfGeneration != nil {
			e.endOfGeneration(e)
		}

		e.generation++
	}

	// If archiving was disabled, compute final optima from the final
	// population only.
	if !e.archiveAllOptima {
		optIdx := e.algorithm.OptimalIndices(e)
		solutions = make([]*population.Candidate, len(optIdx))
		for i, idx := range optIdx {
			solutions[i] = e.pop.Candidates[idx]
		}
	}

	return &Result{
		Population:       e.pop,
		Solutions:        solutions,
		Generations:      e.generation,
		FitnessEvalCount: e.evalCount.Load(),
	}, nil
}

// shouldStop polls the user stop condition, if any. The implicit
// MaxGenerations bound is checked by the loop condition itself.
func (e *Engine) shouldStop() bool {
	if e.stopCond == nil {
		return false
	}
	return e.stopCond.ShouldStop(e)
}

// defaultAlgorithm picks Tournament+KeepBest for a single objective or
// NSGA-III otherwise.
func (e *Engine) defaultAlgorithm() operator.Algorithm {
	if e.numObjectives == 1 {
		return soga.New(&selection.Tournament{Size: 2}, replacement.KeepBest{})
	}
	return nsga3.New(0, 0.5)
}

// produceChildren runs one generation's variation phase: select and
// pair parents to fill ceil(N/2) crossover pairs, flatten to at most
// N children, then mutate/repair/evaluate every child in parallel.
func (e *Engine) produceChildren(ctx context.Context, rngSeed *rng.Rng) ([]*population.Candidate, error) {
	numPairs := (e.populationSize + 1) / 2
	children := make([]*population.Candidate, 0, numPairs*2)

	for p := 0; p < numPairs; p++ {
		i1 := e.algorithm.Select(e, e.fmat, rngSeed)
		i2 := e.algorithm.Select(e, e.fmat, rngSeed)
		p1 := e.pop.Candidates[i1].Chromosome
		p2 := e.pop.Candidates[i2].Chromosome

		c1, c2 := e.crossover.Crossover(p1, p2, rngSeed)
		child1 := population.NewCandidate(c1)
		child2 := population.NewCandidate(c2)
		if !c1.Equal(p1) {
			child1.MarkUnevaluated()
		} else {
			child1.Fitness = append([]float64(nil), e.pop.Candidates[i1].Fitness...)
			child1.IsEvaluated = e.pop.Candidates[i1].IsEvaluated
		}
		if !c2.Equal(p2) {
			child2.MarkUnevaluated()
		} else {
			child2.Fitness = append([]float64(nil), e.pop.Candidates[i2].Fitness...)
			child2.IsEvaluated = e.pop.Candidates[i2].IsEvaluated
		}
		children = append(children, child1, child2)
	}

	// Odd N produces one child too many; drop the last.
	if len(children) > e.populationSize {
		children = children[:e.populationSize]
	}

	// Each child gets its own forked RNG stream, assigned in index
	// order before dispatch, so a fixed seed reproduces the run
	// regardless of goroutine scheduling.
	streams := make([]*rng.Rng, len(children))
	for i := range streams {
		streams[i] = rngSeed.ForkChild()
	}
	err := e.pool.ParallelFor(ctx, len(children), 1, func(i int) error {
		child := children[i]
		stream := streams[i]
		if e.mutation.Mutate(child.Chromosome, stream) {
			child.MarkUnevaluated()
		}
		if e.repair != nil {
			if e.repair.Repair(child, stream) {
				child.MarkUnevaluated()
			}
		}
		return e.evaluateOne(ctx, child)
	})
	if err != nil {
		return nil, err
	}
	return children, nil
}

// evaluateAll evaluates every not-yet-evaluated candidate in
// candidates in parallel.
func (e *Engine) evaluateAll(ctx context.Context, candidates []*population.Candidate) error {
	return e.pool.ParallelFor(ctx, len(candidates), 1, func(i int) error {
		return e.evaluateOne(ctx, candidates[i])
	})
}

// evaluateOne evaluates a single candidate. A static fitness function
// is not re-invoked for an already-evaluated candidate; a dynamic one
// always is. The eval counter is incremented once per actual
// invocation via atomic fetch-add.
func (e *Engine) evaluateOne(ctx context.Context, c *population.Candidate) error {
	if c.IsEvaluated && !e.dynamicFit {
		return nil
	}
	fitness, err := e.fitnessFn(ctx, c.Chromosome)
	if err != nil {
		return fmt.Errorf("evokernel: fitness evaluation: %w", err)
	}
	if len(fitness) != e.numObjectives {
		return fmt.Errorf("evokernel: fitness function returned %d objectives, want %d", len(fitness), e.numObjectives)
	}
	e.evalCount.Add(1)
	if e.constraintFn != nil {
		c.Violations = e.constraintFn(c.Chromosome)
	}
	c.SetFitness(fitness)
	return nil
}

// mergeOptima merges the candidates at optIdx (indices into the
// current population) into the running solutions archive: incoming
// candidates already present in the archive (by chromosome equality)
// are dropped, then pareto.MergeIndices prunes the union to its
// Pareto front. Both sides are already Pareto within themselves (the
// archive by construction, the incoming set as a rank-0 front), which
// is MergeIndices' precondition.
func (e *Engine) mergeOptima(ctx context.Context, solutions []*population.Candidate, optIdx []int) []*population.Candidate {
	incoming := make([]*population.Candidate, 0, len(optIdx))
	for _, idx := range optIdx {
		c := e.pop.Candidates[idx]
		dup := false
		for _, existing := range solutions {
			if existing.Equal(c) {
				dup = true
				break
			}
		}
		for _, existing := range incoming {
			if existing.Equal(c) {
				dup = true
				break
			}
		}
		if !dup {
			incoming = append(incoming, c)
		}
	}
	if len(incoming) == 0 {
		return solutions
	}

	archiveFitness := make([][]float64, len(solutions))
	for i, c := range solutions {
		archiveFitness[i] = c.Fitness
	}
	incomingFitness := make([][]float64, len(incoming))
	for i, c := range incoming {
		incomingFitness[i] = c.Fitness
	}

	keepArchive, keepIncoming := pareto.MergeIndices(ctx, e.pool, archiveFitness, incomingFitness)
	out := make([]*population.Candidate, 0, len(keepArchive)+len(keepIncoming))
	for _, i := range keepArchive {
		out = append(out, solutions[i])
	}
	for _, j := range keepIncoming {
		out = append(out, incoming[j])
	}
	return out
}
