package dominant

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Seed picks k initial centroids from g with k-means++.
//
// The first centroid is a uniformly random opaque pixel of the whole region, found by rejection.
// Each further centroid is drawn from the opaque lattice samples with probability proportional
// to the squared distance to the nearest centroid chosen so far. Uniform regions produce
// duplicate centroids; that is not an error.
func Seed(g *Grid, k int, rng Source) ([]Color, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1, got %d", ErrInvalidArgument, k)
	}
	if g == nil || rng == nil {
		return nil, fmt.Errorf("%w: grid and random source are required", ErrInvalidArgument)
	}
	if !g.HasOpaque() {
		return nil, ErrEmptyInput
	}

	w, h := g.Width(), g.Height()
	first := g.At(uniformIndex(rng, w), uniformIndex(rng, h))
	for !first.Color.Opaque() {
		first = g.At(uniformIndex(rng, w), uniformIndex(rng, h))
	}

	centroids := make([]Color, 1, k)
	centroids[0] = first.Color

	candidates := g.OpaqueSamples()
	if len(candidates) == 0 {
		// The only opaque pixels sit between lattice points.
		for len(centroids) < k {
			centroids = append(centroids, first.Color)
		}
		return centroids, nil
	}

	// nearest[i] tracks the squared distance of candidate i to its closest centroid;
	// only the newest centroid can lower it.
	nearest := make([]float64, len(candidates))
	for i := range nearest {
		nearest[i] = math.MaxFloat64
	}
	cumulative := make([]float64, len(candidates))

	for len(centroids) < k {
		last := centroids[len(centroids)-1]
		for i, s := range candidates {
			nearest[i] = min(nearest[i], DistanceSquared(s.Color, last))
		}
		floats.CumSum(cumulative, nearest)
		total := cumulative[len(cumulative)-1]

		target := rng.Float64() * total
		idx := sort.SearchFloat64s(cumulative, target)
		if idx >= len(candidates) {
			idx = len(candidates) - 1
		}
		centroids = append(centroids, candidates[idx].Color)
	}
	return centroids, nil
}
