package dominant

import (
	"fmt"
	"image"
	"math"
	"slices"
)

type Options struct {
	// Number of clusters.
	// Typical: 5-15. Zero makes Extract return no clusters.
	K int
	// Sampling stride in pixels on both axes.
	// Typical: 5. Higher is faster and coarser; 1 visits every pixel.
	Stride int
	// Lloyd rounds, always run in full.
	// Ideal start: 15 for per-frame strips, up to 150 for single stills.
	MaxIterations int
	// Drop samples with relative luminance <= DarkThreshold during refinement.
	SkipDark      bool
	DarkThreshold float64
	// Histogram resolution per axis when picking representative colours.
	// Ideal start: 16. Must be at least 2.
	BinCount int
}

func DefaultOptions() Options {
	return Options{
		K:             5,
		Stride:        5,
		MaxIterations: 15,
		DarkThreshold: 0.1,
		BinCount:      16,
	}
}

// OptionsFromSize picks a stride that keeps the lattice near 12000 samples.
func OptionsFromSize(size image.Point) Options {
	opt := DefaultOptions()
	if size.X <= 0 || size.Y <= 0 {
		return opt
	}
	const targetSamples = 12000.0
	pixels := float64(size.X * size.Y)
	opt.Stride = max(1, int(math.Ceil(math.Sqrt(pixels/targetSamples))))
	return opt
}

func (o Options) Validate() error {
	if o.K < 0 {
		return fmt.Errorf("%w: k must not be negative, got %d", ErrInvalidArgument, o.K)
	}
	if o.Stride < 1 {
		return fmt.Errorf("%w: stride must be at least 1, got %d", ErrInvalidArgument, o.Stride)
	}
	if o.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations must be at least 1, got %d", ErrInvalidArgument, o.MaxIterations)
	}
	if o.DarkThreshold < 0 || o.DarkThreshold > 1 {
		return fmt.Errorf("%w: dark threshold must be in [0,1], got %g", ErrInvalidArgument, o.DarkThreshold)
	}
	if o.BinCount < 2 {
		return fmt.Errorf("%w: bin count must be at least 2, got %d", ErrInvalidArgument, o.BinCount)
	}
	return nil
}

func (o Options) RefineOptions() RefineOptions {
	return RefineOptions{
		MaxIterations: o.MaxIterations,
		SkipDark:      o.SkipDark,
		DarkThreshold: o.DarkThreshold,
	}
}

// Extract seeds and refines clusters for the region r of img.
func Extract(img image.Image, r image.Rectangle, opts Options, rng Source) ([]Cluster, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.K == 0 {
		return nil, nil
	}
	g, err := NewGrid(img, r, opts.Stride)
	if err != nil {
		return nil, err
	}
	return ExtractGrid(g, nil, opts, rng)
}

// ExtractGrid refines clusters over g. When prev holds centroids (for example from the previous
// video frame) they replace k-means++ seeding.
func ExtractGrid(g *Grid, prev []Color, opts Options, rng Source) ([]Cluster, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.K == 0 && len(prev) == 0 {
		return nil, nil
	}
	seeds := prev
	if len(seeds) == 0 {
		var err error
		seeds, err = Seed(g, opts.K, rng)
		if err != nil {
			return nil, err
		}
	}
	return Refine(g, seeds, opts.RefineOptions())
}

// Swatch summarises one cluster.
type Swatch struct {
	Centroid Color
	// Top histogram bin of the cluster's members.
	Representative LCh
	// Fraction of all clustered samples in this cluster.
	Share float64
	// Member closest to the centroid. X and Y are relative to the grid region.
	Exemplar Sample
}

// Dominant picks the most frequent histogram bin of every non-empty cluster and orders the
// result from darkest to lightest centroid.
func Dominant(clusters []Cluster, binCount int, weight WeightFunc) ([]Swatch, error) {
	total := 0
	for _, c := range clusters {
		total += len(c.Samples)
	}
	out := make([]Swatch, 0, len(clusters))
	for _, c := range clusters {
		if len(c.Samples) == 0 {
			continue
		}
		h, err := HistogramFromSamples(c.Samples, binCount, weight)
		if err != nil {
			return nil, err
		}
		exemplar, _ := c.Exemplar()
		out = append(out, Swatch{
			Centroid:       c.Centroid,
			Representative: h.Top().Color,
			Share:          float64(len(c.Samples)) / float64(total),
			Exemplar:       exemplar,
		})
	}
	slices.SortStableFunc(out, func(a, b Swatch) int {
		la, lb := a.Centroid.Luminance(), b.Centroid.Luminance()
		switch {
		case la < lb:
			return -1
		case la > lb:
			return 1
		}
		return 0
	})
	return out, nil
}

// SortByHue orders colours by CIELAB hue angle, the slot order used for warm starts.
func SortByHue(colors []Color) {
	slices.SortStableFunc(colors, func(a, b Color) int {
		ha, hb := a.Hue(), b.Hue()
		switch {
		case ha < hb:
			return -1
		case ha > hb:
			return 1
		}
		return 0
	})
}
