package visualize

import (
	"os"
	"testing"

	"github.com/aram/evokernel/population"
)

func TestTSPRouteWritesSVGFile(t *testing.T) {
	cities := []City{
		{Name: "A", X: 0, Y: 0},
		{Name: "B", X: 1, Y: 1},
		{Name: "C", X: 2, Y: 0},
	}
	route := population.PermutationChromosome{2, 0, 1}

	f, err := os.CreateTemp("", "tsp-*.svg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	name := f.Name()
	f.Close()
	defer os.Remove(name)

	if err := TSPRoute(cities, route, name); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty SVG output")
	}
}

func TestTSPRouteRejectsMismatchedLength(t *testing.T) {
	cities := []City{{Name: "A", X: 0, Y: 0}}
	route := population.PermutationChromosome{0, 1}
	if err := TSPRoute(cities, route, os.DevNull); err == nil {
		t.Fatal("expected error for mismatched route length")
	}
}

func TestTSPRouteRejectsEmptyCities(t *testing.T) {
	if err := TSPRoute(nil, population.PermutationChromosome{}, os.DevNull); err == nil {
		t.Fatal("expected error for empty city list")
	}
}
