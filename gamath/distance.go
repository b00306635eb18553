package gamath

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// EuclideanDistance returns the Euclidean distance between two
// equal-length vectors.
func EuclideanDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Norm returns the Euclidean (L2) norm of v, via gonum/floats rather
// than a hand-rolled sum-of-squares loop.
func Norm(v []float64) float64 {
	return floats.Norm(v, 2)
}

// Dot returns the inner product of a and b, via gonum/floats.
func Dot(a, b []float64) float64 {
	return floats.Dot(a, b)
}

// PerpendicularDistanceSquared returns the squared distance from the
// point p to the line through the origin in the direction of the unit
// vector ref, used by NSGA-III to associate candidates with reference
// directions: ||p||^2 - <p, ref>^2 for a unit ref.
func PerpendicularDistanceSquared(p, ref []float64) float64 {
	proj := Dot(p, ref)
	normSq := Dot(p, p)
	d := normSq - proj*proj
	if d < 0 {
		// Rounding can push this very slightly negative for points
		// nearly collinear with ref.
		d = 0
	}
	return d
}

// Normalize returns a unit-length copy of v, or a zero vector if v is
// the zero vector.
func Normalize(v []float64) []float64 {
	n := Norm(v)
	out := make([]float64, len(v))
	if n == 0 {
		return out
	}
	for i, x := range v {
		out[i] = x / n
	}
	return out
}
