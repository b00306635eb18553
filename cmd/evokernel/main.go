// Command evokernel runs four demo scenarios against the evokernel
// engine: sin(x) maximization with a real-coded GA, a 2-D Kursawe
// multi-objective run under NSGA-III, a synthetic 52-city TSP tour
// under a permutation-coded GA, and an integer-coded GA evolving the
// string "HELLO WORLD!".
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"

	"github.com/aram/evokernel"
	"github.com/aram/evokernel/operator/crossover"
	"github.com/aram/evokernel/operator/mutation"
	"github.com/aram/evokernel/operator/replacement"
	"github.com/aram/evokernel/operator/selection"
	"github.com/aram/evokernel/operator/stopcond"
	"github.com/aram/evokernel/population"
	"github.com/aram/evokernel/visualize"
)

func main() {
	example := flag.String("example", "sin", "demo scenario to run: sin, kursawe, tsp, or stringmatch")
	seed := flag.Int64("seed", 1, "RNG seed")
	flag.Parse()

	var err error
	switch *example {
	case "sin":
		err = runSin(*seed)
	case "kursawe":
		err = runKursawe(*seed)
	case "tsp":
		err = runTSP(*seed)
	case "stringmatch":
		err = runStringMatch(*seed)
	default:
		log.Fatalf("unknown -example %q: want sin, kursawe, tsp, or stringmatch", *example)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// runSin maximizes sin(x) on [0, pi] with a real-coded GA:
// population 100, 500 generations, fixed seed. The best
// chromosome should land within 1e-3 of pi/2 and fitness within 1e-6
// of 1.0.
func runSin(seed int64) error {
	bounds := evokernel.UniformBounds(evokernel.Bounds{Lower: 0, Upper: math.Pi})
	eng := evokernel.New(
		evokernel.WithEncoding(evokernel.Real{Length: 1, Bounds: bounds}),
		evokernel.WithFitnessFunc(func(_ context.Context, c evokernel.Chromosome) ([]float64, error) {
			x := c.(evokernel.RealChromosome)[0]
			return []float64{math.Sin(x)}, nil
		}, false),
		evokernel.WithCrossover(crossover.SimulatedBinary{CrossoverRate: 0.9, Eta: 15, Bounds: bounds}),
		evokernel.WithMutation(mutation.Gaussian{MutationRate: 0.1, Sigma: 0.1, Bounds: bounds}),
		evokernel.WithPopulationSize(100),
		evokernel.WithMaxGenerations(500),
		evokernel.WithSeed(seed),
	)

	result, err := eng.Solve(context.Background())
	if err != nil {
		return fmt.Errorf("sin: %w", err)
	}
	best := bestSingleObjective(result)
	fmt.Printf("sin(x): best x=%.6f fitness=%.6f (pi/2=%.6f)\n", best.Chromosome.(evokernel.RealChromosome)[0], best.Fitness[0], math.Pi/2)
	return nil
}

// runKursawe runs the 2-D Kursawe multi-objective function on
// [0, pi]^2 under NSGA-III: population 20,
// stopping after a 5-generation mean stall. Expects at least two
// rank-0 solutions, none dominated by (10, 10).
func runKursawe(seed int64) error {
	bounds := evokernel.UniformBounds(evokernel.Bounds{Lower: 0, Upper: math.Pi})
	eng := evokernel.New(
		evokernel.WithEncoding(evokernel.Real{Length: 2, Bounds: bounds}),
		evokernel.WithFitnessFunc(func(_ context.Context, c evokernel.Chromosome) ([]float64, error) {
			return kursawe(c.(evokernel.RealChromosome)), nil
		}, false),
		evokernel.WithCrossover(crossover.SimulatedBinary{CrossoverRate: 0.9, Eta: 15, Bounds: bounds}),
		evokernel.WithMutation(mutation.Gaussian{MutationRate: 0.1, Sigma: 0.2, Bounds: bounds}),
		evokernel.WithPopulationSize(20),
		evokernel.WithMaxGenerations(2000),
		evokernel.WithStopCondition(&stopcond.FitnessMeanStall{Patience: 5, Delta: 0}),
		evokernel.WithSeed(seed),
	)

	result, err := eng.Solve(context.Background())
	if err != nil {
		return fmt.Errorf("kursawe: %w", err)
	}
	fmt.Printf("kursawe: %d non-dominated solutions after %d generations\n", len(result.Solutions), result.Generations)
	for _, s := range result.Solutions {
		fmt.Printf("  f=%v\n", s.Fitness)
	}
	return nil
}

// kursawe evaluates the (negated, since evokernel always maximizes)
// two-objective Kursawe function over a 2-gene real chromosome.
func kursawe(x evokernel.RealChromosome) []float64 {
	f1 := 0.0
	for i := 0; i < len(x)-1; i++ {
		f1 += -10 * math.Exp(-0.2*math.Sqrt(x[i]*x[i]+x[i+1]*x[i+1]))
	}
	f2 := 0.0
	for i := range x {
		f2 += math.Pow(math.Abs(x[i]), 0.8) + 5*math.Sin(x[i]*x[i]*x[i])
	}
	return []float64{-f1, -f2}
}

// runTSP runs a synthetic 52-city Euclidean TSP under a permutation-
// coded GA: population 500, Order crossover
// rate 0.9, Inversion mutation rate 0.05, 1250 generations. Writes an
// SVG of the best tour found.
func runTSP(seed int64) error {
	cities := syntheticCities(52, seed)

	eng := evokernel.New(
		evokernel.WithEncoding(evokernel.Permutation{Length: len(cities)}),
		evokernel.WithFitnessFunc(func(_ context.Context, c evokernel.Chromosome) ([]float64, error) {
			return []float64{-tourLength(cities, c.(evokernel.PermutationChromosome))}, nil
		}, false),
		evokernel.WithCrossover(crossover.Order{CrossoverRate: 0.9}),
		evokernel.WithMutation(mutation.Inversion{MutationRate: 0.05}),
		evokernel.WithPopulationSize(500),
		evokernel.WithMaxGenerations(1250),
		evokernel.WithSeed(seed),
	)

	result, err := eng.Solve(context.Background())
	if err != nil {
		return fmt.Errorf("tsp: %w", err)
	}
	best := bestSingleObjective(result)
	route := best.Chromosome.(evokernel.PermutationChromosome)
	fmt.Printf("tsp-52: best tour length=%.2f\n", tourLength(cities, route))
	return visualize.TSPRoute(toVisualizeCities(cities), route, "tsp-best.svg")
}

type city struct {
	name string
	x, y float64
}

func syntheticCities(n int, seed int64) []city {
	rnd := rand.New(rand.NewSource(seed))
	cities := make([]city, n)
	for i := range cities {
		cities[i] = city{name: fmt.Sprintf("C%d", i), x: rnd.Float64() * 1000, y: rnd.Float64() * 1000}
	}
	return cities
}

func toVisualizeCities(cities []city) []visualize.City {
	out := make([]visualize.City, len(cities))
	for i, c := range cities {
		out[i] = visualize.City{Name: c.name, X: c.x, Y: c.y}
	}
	return out
}

func tourLength(cities []city, route population.PermutationChromosome) float64 {
	total := 0.0
	for i := range route {
		a := cities[route[i]]
		b := cities[route[(i+1)%len(route)]]
		dx, dy := a.x-b.x, a.y-b.y
		total += math.Sqrt(dx*dx + dy*dy)
	}
	return total
}

func bestSingleObjective(result *evokernel.Result) *evokernel.Candidate {
	best := result.Solutions[0]
	for _, s := range result.Solutions[1:] {
		if s.Fitness[0] > best.Fitness[0] {
			best = s
		}
	}
	return best
}

// runStringMatch evolves the target string "HELLO WORLD!" with an
// integer-coded GA: genes in [0, 94] decoded as ASCII with offset 32,
// population 100, tournament selection, two-point crossover and
// uniform resampling mutation at rate 0.01 over 500 generations.
func runStringMatch(seed int64) error {
	const target = "HELLO WORLD!"
	bounds := evokernel.UniformBounds(evokernel.Bounds{Lower: 0, Upper: 94})
	eng := evokernel.New(
		evokernel.WithEncoding(evokernel.Integer{Length: len(target), Bounds: bounds}),
		evokernel.WithFitnessFunc(func(_ context.Context, c evokernel.Chromosome) ([]float64, error) {
			ic := c.(evokernel.IntegerChromosome)
			matches := 0.0
			for i, v := range ic {
				if byte(v+32) == target[i] {
					matches++
				}
			}
			return []float64{matches}, nil
		}, false),
		evokernel.WithAlgorithm(evokernel.NewSOGA(&selection.Tournament{Size: 2}, replacement.KeepBest{})),
		evokernel.WithCrossover(crossover.TwoPoint{CrossoverRate: 0.9}),
		evokernel.WithMutation(mutation.UniformResample{MutationRate: 0.01, Bounds: bounds}),
		evokernel.WithPopulationSize(100),
		evokernel.WithMaxGenerations(500),
		evokernel.WithStopCondition(&stopcond.FitnessValue{Threshold: []float64{float64(len(target)) - 0.5}}),
		evokernel.WithSeed(seed),
	)

	result, err := eng.Solve(context.Background())
	if err != nil {
		return fmt.Errorf("stringmatch: %w", err)
	}
	best := bestSingleObjective(result)
	decoded := make([]byte, len(target))
	for i, v := range best.Chromosome.(evokernel.IntegerChromosome) {
		decoded[i] = byte(v + 32)
	}
	fmt.Printf("stringmatch: best %q (%v/%d matches after %d generations)\n",
		string(decoded), best.Fitness[0], len(target), result.Generations)
	return nil
}
