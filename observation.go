package dominant

import "github.com/muesli/clusters"

// Coordinates makes Sample a clusters.Observation so grids can be handed to muesli/kmeans.
func (s Sample) Coordinates() clusters.Coordinates {
	return clusters.Coordinates{s.Color.L, s.Color.A, s.Color.B}
}

// Distance is the squared deltaE76 distance to point, matching clusters.Coordinates.Distance.
func (s Sample) Distance(point clusters.Coordinates) float64 {
	return DistanceSquared(s.Color, colorFrom(point))
}

func colorFrom(point clusters.Coordinates) Color {
	if len(point) < 3 {
		return Color{Alpha: 1}
	}
	return Color{L: point[0], A: point[1], B: point[2], Alpha: 1}
}

// ColorFromCoordinates converts a muesli cluster centre back to a Color.
func ColorFromCoordinates(point clusters.Coordinates) Color {
	return colorFrom(point)
}

// Observations returns the lattice samples of g accepted by opts.
func Observations(g *Grid, opts RefineOptions) clusters.Observations {
	var out clusters.Observations
	for _, s := range g.Samples() {
		if opts.accepts(s) {
			out = append(out, s)
		}
	}
	return out
}
