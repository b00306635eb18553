// Package visualize renders an evolved TSP tour as an SVG: stops
// labelled with city name and coordinates, directional edges, and the
// total tour distance.
package visualize

import (
	"fmt"
	"math"
	"os"

	"github.com/aram/evokernel/population"
)

// City is a named 2-D point a TSP tour visits.
type City struct {
	Name string
	X    float64
	Y    float64
}

// TSPRoute renders route (a permutation over indices into cities) as
// an SVG file at filename: stops labelled with city name and
// coordinates, directional edges back to the start, and the total tour
// distance.
func TSPRoute(cities []City, route population.PermutationChromosome, filename string) error {
	if len(cities) == 0 {
		return fmt.Errorf("visualize: empty city list")
	}
	if len(route) != len(cities) {
		return fmt.Errorf("visualize: route length %d does not match %d cities", len(route), len(cities))
	}

	ordered := make([]City, len(route))
	for i, idx := range route {
		if idx < 0 || idx >= len(cities) {
			return fmt.Errorf("visualize: route index %d out of range for %d cities", idx, len(cities))
		}
		ordered[i] = cities[idx]
	}

	minX, maxX := ordered[0].X, ordered[0].X
	minY, maxY := ordered[0].Y, ordered[0].Y
	for _, city := range ordered {
		if city.X < minX {
			minX = city.X
		}
		if city.X > maxX {
			maxX = city.X
		}
		if city.Y < minY {
			minY = city.Y
		}
		if city.Y > maxY {
			maxY = city.Y
		}
	}

	padding := 80.0
	canvasWidth := 800.0
	canvasHeight := 600.0

	spanX, spanY := maxX-minX, maxY-minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}
	scaleX := (canvasWidth - 2*padding) / spanX
	scaleY := (canvasHeight - 2*padding) / spanY
	scale := math.Min(scaleX, scaleY)

	transformX := func(x float64) float64 { return padding + (x-minX)*scale }
	transformY := func(y float64) float64 { return padding + (y-minY)*scale }

	svg := fmt.Sprintf(`<svg width="%.0f" height="%.0f" xmlns="http://www.w3.org/2000/svg">`, canvasWidth, canvasHeight)
	svg += `<defs>`
	svg += `<marker id="arrowhead" markerWidth="10" markerHeight="7" refX="9" refY="3.5" orient="auto">`
	svg += `<polygon points="0 0, 10 3.5, 0 7" fill="blue" />`
	svg += `</marker>`
	svg += `</defs>`

	for i := range ordered {
		current := ordered[i]
		next := ordered[(i+1)%len(ordered)]

		x1, y1 := transformX(current.X), transformY(current.Y)
		x2, y2 := transformX(next.X), transformY(next.Y)

		dx, dy := x2-x1, y2-y1
		length := math.Sqrt(dx*dx + dy*dy)
		if length > 0 {
			circleRadius := 6.0
			offsetX := dx / length * circleRadius
			offsetY := dy / length * circleRadius
			svg += fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="blue" stroke-width="2" marker-end="url(#arrowhead)" />`,
				x1+offsetX, y1+offsetY, x2-offsetX, y2-offsetY)
		}
	}

	for _, city := range ordered {
		x, y := transformX(city.X), transformY(city.Y)
		svg += fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="6" fill="red" stroke="black" stroke-width="1" />`, x, y)
	}

	for _, city := range ordered {
		x, y := transformX(city.X), transformY(city.Y)
		textY := y - 12
		svg += fmt.Sprintf(`<text x="%.2f" y="%.2f" text-anchor="middle" font-family="Arial, sans-serif" font-size="12" font-weight="bold" fill="black">%s</text>`,
			x, textY, city.Name)
		coordY := textY - 14
		svg += fmt.Sprintf(`<text x="%.2f" y="%.2f" text-anchor="middle" font-family="Arial, sans-serif" font-size="10" fill="gray">(%.1f,%.1f)</text>`,
			x, coordY, city.X, city.Y)
	}

	titleY := 25.0
	svg += fmt.Sprintf(`<text x="%.2f" y="%.2f" text-anchor="middle" font-family="Arial, sans-serif" font-size="18" font-weight="bold" fill="black">TSP Route Visualization</text>`,
		canvasWidth/2, titleY)

	totalDistance := 0.0
	for i := range ordered {
		current := ordered[i]
		next := ordered[(i+1)%len(ordered)]
		dx, dy := current.X-next.X, current.Y-next.Y
		totalDistance += math.Sqrt(dx*dx + dy*dy)
	}
	distanceY := canvasHeight - 15
	svg += fmt.Sprintf(`<text x="%.2f" y="%.2f" text-anchor="middle" font-family="Arial, sans-serif" font-size="14" fill="black">Total Distance: %.2f</text>`,
		canvasWidth/2, distanceY, totalDistance)

	svg += `</svg>`

	return os.WriteFile(filename, []byte(svg), 0644)
}
