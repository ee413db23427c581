package dominant

import (
	"fmt"
	"math"
	"slices"
)

// Cluster pairs a centroid with the samples assigned to it.
type Cluster struct {
	Centroid Color
	Samples  []Sample
}

type RefineOptions struct {
	// Rounds of assignment and update. Always run in full, there is no convergence check,
	// which keeps the cost per call fixed.
	// Typical: 15-150.
	MaxIterations int
	// Drop near-black samples before assignment. Off by default.
	SkipDark bool
	// Relative luminance at or below which samples are dropped when SkipDark is set.
	// Range [0,1], usually 0.1.
	DarkThreshold float64
}

func DefaultRefineOptions() RefineOptions {
	return RefineOptions{
		MaxIterations: 15,
		DarkThreshold: 0.1,
	}
}

func (o RefineOptions) accepts(s Sample) bool {
	if !s.Color.Opaque() {
		return false
	}
	return !o.SkipDark || s.Luminance > o.DarkThreshold
}

// Refine runs Lloyd's algorithm over g for exactly opts.MaxIterations rounds.
//
// The returned clusters hold the assignment of the last round. Each Centroid is the mean of
// its Samples, or the previous centroid when the cluster ended up empty. The input slice is
// not modified.
func Refine(g *Grid, centroids []Color, opts RefineOptions) ([]Cluster, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: grid is required", ErrInvalidArgument)
	}
	if len(centroids) == 0 {
		return nil, fmt.Errorf("%w: centroid list is empty", ErrInvalidArgument)
	}
	if opts.MaxIterations < 1 {
		return nil, fmt.Errorf("%w: max iterations must be at least 1, got %d", ErrInvalidArgument, opts.MaxIterations)
	}

	centers := slices.Clone(centroids)
	var clusters []Cluster
	for range opts.MaxIterations {
		clusters = Assign(g, centers, opts)
		centers = Update(clusters)
		for i := range clusters {
			clusters[i].Centroid = centers[i]
		}
	}
	return clusters, nil
}

// Assign partitions the accepted lattice samples of g by nearest centroid.
// Cluster i starts with centroids[i] as its centroid.
func Assign(g *Grid, centroids []Color, opts RefineOptions) []Cluster {
	clusters := make([]Cluster, len(centroids))
	for i, c := range centroids {
		clusters[i].Centroid = c
	}
	if len(centroids) == 0 {
		return clusters
	}
	for _, s := range g.Samples() {
		if !opts.accepts(s) {
			continue
		}
		i := Nearest(s.Color, centroids)
		clusters[i].Samples = append(clusters[i].Samples, s)
	}
	return clusters
}

type accumulator struct {
	l, a, b, alpha float64
	count          int
}

// Update returns a new centroid list: the per-coordinate mean of every non-empty cluster,
// and the unchanged centroid of every empty one.
func Update(clusters []Cluster) []Color {
	out := make([]Color, len(clusters))
	for i, c := range clusters {
		if len(c.Samples) == 0 {
			out[i] = c.Centroid
			continue
		}
		out[i] = Mean(c.Samples)
	}
	return out
}

// Mean is the plain arithmetic mean of the samples' colours, alpha included.
// It returns the zero Color for no samples.
func Mean(samples []Sample) Color {
	var acc accumulator
	for _, s := range samples {
		acc.l += s.Color.L
		acc.a += s.Color.A
		acc.b += s.Color.B
		acc.alpha += s.Color.Alpha
		acc.count++
	}
	if acc.count == 0 {
		return Color{}
	}
	n := float64(acc.count)
	return Color{L: acc.l / n, A: acc.a / n, B: acc.b / n, Alpha: acc.alpha / n}
}

// Inertia is the within-cluster sum of squared distances to each cluster's centroid.
func Inertia(clusters []Cluster) float64 {
	total := 0.0
	for _, c := range clusters {
		for _, s := range c.Samples {
			total += DistanceSquared(s.Color, c.Centroid)
		}
	}
	return total
}

// Centroids lists the cluster centroids in order.
func Centroids(clusters []Cluster) []Color {
	out := make([]Color, len(clusters))
	for i, c := range clusters {
		out[i] = c.Centroid
	}
	return out
}

// NearestSample returns the sample whose colour is closest to c, ties going to the earlier one.
// It reports false for no samples.
func NearestSample(samples []Sample, c Color) (Sample, bool) {
	best, bestD := -1, math.MaxFloat64
	for i, s := range samples {
		if d := DistanceSquared(s.Color, c); d < bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return Sample{}, false
	}
	return samples[best], true
}

// Exemplar is the member closest to the centroid, a real pixel with its position.
func (c Cluster) Exemplar() (Sample, bool) {
	return NearestSample(c.Samples, c.Centroid)
}
