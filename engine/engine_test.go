package engine

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aram/evokernel/encoding"
	"github.com/aram/evokernel/operator"
	"github.com/aram/evokernel/operator/crossover"
	"github.com/aram/evokernel/operator/mutation"
	"github.com/aram/evokernel/operator/replacement"
	"github.com/aram/evokernel/operator/selection"
	"github.com/aram/evokernel/operator/stopcond"
	"github.com/aram/evokernel/population"
	"github.com/aram/evokernel/rng"
	"github.com/aram/evokernel/soga"
)

func realBounds(lo, hi float64) population.BoundsVec {
	return population.Uniform(population.Bounds{Lower: lo, Upper: hi})
}

// TestSolveMaximizesSin maximizes sin(x) on [0, pi] with a real-coded
// GA; the best candidate should land near pi/2 with fitness near 1.0.
func TestSolveMaximizesSin(t *testing.T) {
	bounds := realBounds(0, math.Pi)
	eng := New(
		WithEncoding(encoding.Real{Length: 1, Bounds: bounds}),
		WithFitnessFunc(func(_ context.Context, c population.Chromosome) ([]float64, error) {
			x := c.(population.RealChromosome)[0]
			return []float64{math.Sin(x)}, nil
		}, false),
		WithCrossover(crossover.SimulatedBinary{CrossoverRate: 0.9, Eta: 15, Bounds: bounds}),
		WithMutation(mutation.Gaussian{MutationRate: 0.1, Sigma: 0.1, Bounds: bounds}),
		WithPopulationSize(100),
		WithMaxGenerations(300),
		WithSeed(42),
	)

	result, err := eng.Solve(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, result.Solutions)

	best := result.Solutions[0]
	for _, s := range result.Solutions {
		if s.Fitness[0] > best.Fitness[0] {
			best = s
		}
	}
	assert.InDelta(t, math.Pi/2, best.Chromosome.(population.RealChromosome)[0], 1e-2)
	assert.InDelta(t, 1.0, best.Fitness[0], 1e-4)
}

// TestSolveInvariants checks the invariants that must hold
// after any Solve call: population size fixed at N, every candidate
// evaluated, and fitness matrix rows matching population fitness.
func TestSolveInvariants(t *testing.T) {
	bounds := realBounds(-1, 1)
	eng := New(
		WithEncoding(encoding.Real{Length: 3, Bounds: bounds}),
		WithFitnessFunc(func(_ context.Context, c population.Chromosome) ([]float64, error) {
			rc := c.(population.RealChromosome)
			sum := 0.0
			for _, v := range rc {
				sum += v * v
			}
			return []float64{sum}, nil
		}, false),
		WithCrossover(crossover.SimulatedBinary{CrossoverRate: 0.8, Eta: 10, Bounds: bounds}),
		WithMutation(mutation.Gaussian{MutationRate: 0.2, Sigma: 0.2, Bounds: bounds}),
		WithPopulationSize(17),
		WithMaxGenerations(10),
		WithSeed(7),
	)

	result, err := eng.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, 17, result.Population.Size())
	assert.True(t, result.Population.AllEvaluated())

	fm := result.Population.FitnessMatrix()
	for i, c := range result.Population.Candidates {
		assert.Equal(t, c.Fitness, fm.Row(i))
	}
}

// TestSolveDeterministicWithFixedSeed checks the reproducibility
// invariant: identical configuration and a fixed seed
// produce bit-identical populations across two independent runs.
func TestSolveDeterministicWithFixedSeed(t *testing.T) {
	build := func() *Engine {
		bounds := realBounds(0, 1)
		return New(
			WithEncoding(encoding.Real{Length: 2, Bounds: bounds}),
			WithFitnessFunc(func(_ context.Context, c population.Chromosome) ([]float64, error) {
				rc := c.(population.RealChromosome)
				return []float64{rc[0] + rc[1]}, nil
			}, false),
			WithCrossover(crossover.SimulatedBinary{CrossoverRate: 0.9, Eta: 15, Bounds: bounds}),
			WithMutation(mutation.Gaussian{MutationRate: 0.1, Sigma: 0.1, Bounds: bounds}),
			WithPopulationSize(12),
			WithMaxGenerations(8),
			WithSeed(123),
			WithExecutionThreads(1),
		)
	}

	r1, err := build().Solve(context.Background())
	require.NoError(t, err)
	r2, err := build().Solve(context.Background())
	require.NoError(t, err)

	require.Equal(t, r1.Population.Size(), r2.Population.Size())
	for i := range r1.Population.Candidates {
		assert.Equal(t, r1.Population.Candidates[i].Fitness, r2.Population.Candidates[i].Fitness)
		assert.Equal(t,
			r1.Population.Candidates[i].Chromosome.(population.RealChromosome),
			r2.Population.Candidates[i].Chromosome.(population.RealChromosome))
	}
}

// TestSolveRejectsInvalidConfiguration checks that configuration
// errors are reported synchronously, before any evaluation runs.
func TestSolveRejectsInvalidConfiguration(t *testing.T) {
	eng := New(WithPopulationSize(10))
	_, err := eng.Solve(context.Background())
	assert.ErrorIs(t, err, ErrNoEncoding)
}

func TestSolveRejectsZeroPopulation(t *testing.T) {
	bounds := realBounds(0, 1)
	eng := New(
		WithEncoding(encoding.Real{Length: 1, Bounds: bounds}),
		WithFitnessFunc(func(_ context.Context, c population.Chromosome) ([]float64, error) {
			return []float64{0}, nil
		}, false),
		WithCrossover(crossover.SimulatedBinary{CrossoverRate: 0.9, Bounds: bounds}),
		WithMutation(mutation.Gaussian{MutationRate: 0.1, Bounds: bounds}),
	)
	_, err := eng.Solve(context.Background())
	assert.ErrorIs(t, err, ErrEmptyPopulation)
}

// TestSolveHonorsStopCondition checks that a configured stop condition
// can end a run before max_gen generations elapse.
func TestSolveHonorsStopCondition(t *testing.T) {
	bounds := realBounds(0, 1)
	eng := New(
		WithEncoding(encoding.Real{Length: 1, Bounds: bounds}),
		WithFitnessFunc(func(_ context.Context, c population.Chromosome) ([]float64, error) {
			return []float64{c.(population.RealChromosome)[0]}, nil
		}, false),
		WithCrossover(crossover.SimulatedBinary{CrossoverRate: 0.9, Bounds: bounds}),
		WithMutation(mutation.Gaussian{MutationRate: 0.1, Bounds: bounds}),
		WithPopulationSize(10),
		WithMaxGenerations(1000),
		WithStopCondition(&stopcond.FitnessEvals{Max: 50}),
		WithSeed(3),
	)
	result, err := eng.Solve(context.Background())
	require.NoError(t, err)
	assert.Less(t, result.Generations, 1000)
}

// TestSolveArchivesAllOptima exercises optima archiving, checking the
// returned solutions set is never empty and every member is
// chromosome-distinct.
func TestSolveArchivesAllOptima(t *testing.T) {
	bounds := realBounds(0, math.Pi)
	eng := New(
		WithEncoding(encoding.Real{Length: 2, Bounds: bounds}),
		WithFitnessFunc(func(_ context.Context, c population.Chromosome) ([]float64, error) {
			rc := c.(population.RealChromosome)
			return []float64{math.Sin(rc[0]), math.Cos(rc[1])}, nil
		}, false),
		WithCrossover(crossover.SimulatedBinary{CrossoverRate: 0.9, Eta: 15, Bounds: bounds}),
		WithMutation(mutation.Gaussian{MutationRate: 0.1, Sigma: 0.2, Bounds: bounds}),
		WithPopulationSize(20),
		WithMaxGenerations(15),
		WithArchiveAllOptima(true),
		WithSeed(9),
	)
	result, err := eng.Solve(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, result.Solutions)

	for i := range result.Solutions {
		for j := range result.Solutions {
			if i == j {
				continue
			}
			assert.False(t, result.Solutions[i].Equal(result.Solutions[j]))
		}
	}
}

type signFlipRepair struct{}

func (signFlipRepair) Repair(c *population.Candidate, _ *rng.Rng) bool {
	rc := c.Chromosome.(population.RealChromosome)
	changed := false
	for i, v := range rc {
		if v < 0 {
			rc[i] = -v
			changed = true
		}
	}
	return changed
}

// TestSolveConstrainedWithRepair maximizes x^2+y^2 on [-1,1]^2 under
// the constraints x > 0, y > 0, with a repair hook flipping the sign
// of violating genes. The best solution should land near (1, 1).
func TestSolveConstrainedWithRepair(t *testing.T) {
	bounds := realBounds(-1, 1)
	eng := New(
		WithEncoding(encoding.Real{Length: 2, Bounds: bounds}),
		WithFitnessFunc(func(_ context.Context, c population.Chromosome) ([]float64, error) {
			rc := c.(population.RealChromosome)
			return []float64{rc[0]*rc[0] + rc[1]*rc[1]}, nil
		}, false),
		WithConstraintFunc(func(c population.Chromosome) []float64 {
			rc := c.(population.RealChromosome)
			return []float64{-rc[0], -rc[1]}
		}),
		WithRepair(signFlipRepair{}),
		WithCrossover(crossover.SimulatedBinary{CrossoverRate: 0.9, Eta: 15, Bounds: bounds}),
		WithMutation(mutation.Gaussian{MutationRate: 0.1, Sigma: 0.1, Bounds: bounds}),
		WithPopulationSize(50),
		WithMaxGenerations(200),
		WithSeed(11),
	)

	result, err := eng.Solve(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, result.Solutions)

	best := result.Solutions[0]
	for _, s := range result.Solutions {
		if s.Fitness[0] > best.Fitness[0] {
			best = s
		}
	}
	rc := best.Chromosome.(population.RealChromosome)
	assert.Greater(t, rc[0], 0.9)
	assert.Greater(t, rc[1], 0.9)
	assert.False(t, best.HasConstraintViolation())
}

// TestSolveStringMatchInteger evolves the target string
// "HELLO WORLD!" with an integer-coded GA: genes in [0, 94] decoded
// as ASCII with offset 32, tournament selection, two-point crossover
// and uniform resampling mutation. The run stops as soon as any
// candidate matches every character.
func TestSolveStringMatchInteger(t *testing.T) {
	const target = "HELLO WORLD!"
	bounds := realBounds(0, 94)
	eng := New(
		WithEncoding(encoding.Integer{Length: len(target), Bounds: bounds}),
		WithFitnessFunc(func(_ context.Context, c population.Chromosome) ([]float64, error) {
			ic := c.(population.IntegerChromosome)
			matches := 0.0
			for i, v := range ic {
				if byte(v+32) == target[i] {
					matches++
				}
			}
			return []float64{matches}, nil
		}, false),
		WithAlgorithm(soga.New(&selection.Tournament{Size: 2}, replacement.KeepBest{})),
		WithCrossover(crossover.TwoPoint{CrossoverRate: 0.9}),
		WithMutation(mutation.UniformResample{MutationRate: 0.01, Bounds: bounds}),
		WithPopulationSize(100),
		WithMaxGenerations(1500),
		WithStopCondition(&stopcond.FitnessValue{Threshold: []float64{float64(len(target)) - 0.5}}),
		WithSeed(17),
	)

	result, err := eng.Solve(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, result.Solutions)

	best := result.Solutions[0]
	for _, s := range result.Solutions {
		if s.Fitness[0] > best.Fitness[0] {
			best = s
		}
	}
	decoded := make([]byte, len(target))
	for i, v := range best.Chromosome.(population.IntegerChromosome) {
		decoded[i] = byte(v + 32)
	}
	assert.Equal(t, target, string(decoded))
}

type testCity struct{ x, y float64 }

func testCities(n int, seed int64) []testCity {
	rnd := rng.New(seed)
	cities := make([]testCity, n)
	for i := range cities {
		cities[i] = testCity{x: rnd.Float64() * 1000, y: rnd.Float64() * 1000}
	}
	return cities
}

func testTourLength(cities []testCity, route population.PermutationChromosome) float64 {
	total := 0.0
	for i := range route {
		a := cities[route[i]]
		b := cities[route[(i+1)%len(route)]]
		dx, dy := a.x-b.x, a.y-b.y
		total += math.Sqrt(dx*dx + dy*dy)
	}
	return total
}

// TestSolveTSPPermutation drives a 52-city Euclidean TSP through the
// full engine with a permutation-coded GA: Order crossover and
// Inversion mutation. A random tour over these synthetic cities is
// around 27000 long and the optimum around 5100, so the asserted
// bound checks real convergence, not just a finished run.
func TestSolveTSPPermutation(t *testing.T) {
	cities := testCities(52, 5)
	eng := New(
		WithEncoding(encoding.Permutation{Length: len(cities)}),
		WithFitnessFunc(func(_ context.Context, c population.Chromosome) ([]float64, error) {
			return []float64{-testTourLength(cities, c.(population.PermutationChromosome))}, nil
		}, false),
		WithCrossover(crossover.Order{CrossoverRate: 0.9}),
		WithMutation(mutation.Inversion{MutationRate: 0.3}),
		WithPopulationSize(300),
		WithMaxGenerations(800),
		WithSeed(29),
	)

	result, err := eng.Solve(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, result.Solutions)

	best := result.Solutions[0]
	for _, s := range result.Solutions {
		if s.Fitness[0] > best.Fitness[0] {
			best = s
		}
	}
	route := best.Chromosome.(population.PermutationChromosome)
	require.True(t, route.IsValidPermutation())
	require.LessOrEqual(t, testTourLength(cities, route), 9000.0)
}

// TestSolveBinaryOneMax evolves an all-ones binary chromosome,
// stopping as soon as every bit is set.
func TestSolveBinaryOneMax(t *testing.T) {
	const length = 30
	eng := New(
		WithEncoding(encoding.Binary{Length: length}),
		WithFitnessFunc(func(_ context.Context, c population.Chromosome) ([]float64, error) {
			ones := 0.0
			for _, v := range c.(population.BinaryChromosome) {
				if v {
					ones++
				}
			}
			return []float64{ones}, nil
		}, false),
		WithCrossover(crossover.TwoPoint{CrossoverRate: 0.9}),
		WithMutation(mutation.UniformBitFlip{MutationRate: 0.02}),
		WithPopulationSize(60),
		WithMaxGenerations(500),
		WithStopCondition(&stopcond.FitnessValue{Threshold: []float64{length - 0.5}}),
		WithSeed(13),
	)

	result, err := eng.Solve(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, result.Solutions)

	best := result.Solutions[0]
	for _, s := range result.Solutions {
		if s.Fitness[0] > best.Fitness[0] {
			best = s
		}
	}
	assert.Equal(t, float64(length), best.Fitness[0])
}

// TestSolveMixedEncoding drives a Mixed (binary + real) chromosome
// through the full loop with per-component Composite operators.
func TestSolveMixedEncoding(t *testing.T) {
	realPart := realBounds(0, 1)
	eng := New(
		WithEncoding(encoding.Mixed{Components: []encoding.Encoding{
			encoding.Binary{Length: 6},
			encoding.Real{Length: 2, Bounds: realPart},
		}}),
		WithFitnessFunc(func(_ context.Context, c population.Chromosome) ([]float64, error) {
			mc := c.(population.MixedChromosome)
			sum := 0.0
			for _, v := range mc[0].(population.BinaryChromosome) {
				if v {
					sum++
				}
			}
			for _, v := range mc[1].(population.RealChromosome) {
				sum += v
			}
			return []float64{sum}, nil
		}, false),
		WithCrossover(crossover.Composite{Components: []operator.Crossover{
			crossover.TwoPoint{CrossoverRate: 0.9},
			crossover.SimulatedBinary{CrossoverRate: 0.9, Eta: 15, Bounds: realPart},
		}}),
		WithMutation(mutation.Composite{Components: []operator.Mutation{
			mutation.UniformBitFlip{MutationRate: 0.05},
			mutation.Gaussian{MutationRate: 0.2, Sigma: 0.1, Bounds: realPart},
		}}),
		WithPopulationSize(40),
		WithMaxGenerations(200),
		WithSeed(23),
	)

	result, err := eng.Solve(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, result.Solutions)

	best := result.Solutions[0]
	for _, s := range result.Solutions {
		if s.Fitness[0] > best.Fitness[0] {
			best = s
		}
	}
	mc := best.Chromosome.(population.MixedChromosome)
	require.Len(t, mc, 2)
	require.Len(t, mc[0].(population.BinaryChromosome), 6)
	require.Len(t, mc[1].(population.RealChromosome), 2)
	// 6 ones plus two reals near 1.0: anything below 7.5 means the
	// mixed variation path failed to optimize both components.
	assert.GreaterOrEqual(t, best.Fitness[0], 7.5)
}
