package dominant

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// WeightFunc scores how much a colour contributes to its bin. Negative scores count as zero.
type WeightFunc func(LCh) float64

// LightnessWeight emphasises light colours: L^gamma.
func LightnessWeight(gamma float64) WeightFunc {
	return func(c LCh) float64 {
		return math.Pow(max(c.L, 0), gamma)
	}
}

// Bin is one cell of a Histogram.
type Bin struct {
	Chroma, Hue int
	// Representative colour at fixed mid lightness.
	Color LCh
	Mass  float64
}

// Histogram is a chroma × hue frequency grid over OkLCh.
// Masses sum to 1 unless nothing was accumulated, in which case every bin is zero.
type Histogram struct {
	bins     *mat.Dense // rows: chroma bins, cols: hue bins
	binCount int
}

// NewHistogram bins colours into a binCount × binCount grid. A nil weight counts every colour as 1.
func NewHistogram(colors []Color, binCount int, weight WeightFunc) (*Histogram, error) {
	h, err := newHistogram(binCount)
	if err != nil {
		return nil, err
	}
	for _, c := range colors {
		h.add(c.LCh(), weight)
	}
	h.normalize()
	return h, nil
}

// HistogramFromGrid bins the opaque lattice samples of g.
func HistogramFromGrid(g *Grid, binCount int, weight WeightFunc) (*Histogram, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: grid is required", ErrInvalidArgument)
	}
	h, err := newHistogram(binCount)
	if err != nil {
		return nil, err
	}
	for _, s := range g.Samples() {
		if s.Color.Opaque() {
			h.add(s.Color.LCh(), weight)
		}
	}
	h.normalize()
	return h, nil
}

// HistogramFromSamples bins the colours of samples, typically one cluster's members.
func HistogramFromSamples(samples []Sample, binCount int, weight WeightFunc) (*Histogram, error) {
	colors := make([]Color, len(samples))
	for i, s := range samples {
		colors[i] = s.Color
	}
	return NewHistogram(colors, binCount, weight)
}

func newHistogram(binCount int) (*Histogram, error) {
	if binCount < 2 {
		return nil, fmt.Errorf("%w: bin count must be at least 2, got %d", ErrInvalidArgument, binCount)
	}
	return &Histogram{bins: mat.NewDense(binCount, binCount, nil), binCount: binCount}, nil
}

func (h *Histogram) add(c LCh, weight WeightFunc) {
	w := 1.0
	if weight != nil {
		w = max(weight(c), 0)
	}
	if w == 0 || math.IsNaN(w) {
		return
	}
	cb, hb := h.binIndex(c)
	h.bins.Set(cb, hb, h.bins.At(cb, hb)+w)
}

func (h *Histogram) normalize() {
	total := mat.Sum(h.bins)
	if total > 0 {
		h.bins.Scale(1/total, h.bins)
	}
}

func (h *Histogram) binIndex(c LCh) (int, int) {
	n := h.binCount
	cb := clampInt(int(math.Floor(c.C*float64(n))), 0, n-1)
	hb := clampInt(int(math.Floor(c.H/360*float64(n))), 0, n-1)
	return cb, hb
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (h *Histogram) BinCount() int { return h.binCount }

// Frequency is the normalised mass of the bin c falls into.
func (h *Histogram) Frequency(c Color) float64 {
	return h.FrequencyLCh(c.LCh())
}

func (h *Histogram) FrequencyLCh(c LCh) float64 {
	cb, hb := h.binIndex(c)
	return h.bins.At(cb, hb)
}

// Mass of bin (chroma, hue).
func (h *Histogram) Mass(chroma, hue int) float64 {
	return h.bins.At(chroma, hue)
}

// Total is the summed mass: 1 for a populated histogram, 0 for an empty one.
func (h *Histogram) Total() float64 {
	return mat.Sum(h.bins)
}

// BinColor is the representative colour of bin (chroma, hue).
func (h *Histogram) BinColor(chroma, hue int) LCh {
	d := float64(h.binCount - 1)
	return LCh{L: 0.5, C: float64(chroma) / d, H: float64(hue) / d * 360}
}

func (h *Histogram) bin(chroma, hue int) Bin {
	return Bin{Chroma: chroma, Hue: hue, Color: h.BinColor(chroma, hue), Mass: h.bins.At(chroma, hue)}
}

// SortedColors lists every bin by descending mass. Equal masses keep chroma-major, hue-minor order.
func (h *Histogram) SortedColors() []Bin {
	out := make([]Bin, 0, h.binCount*h.binCount)
	for c := range h.binCount {
		for hu := range h.binCount {
			out = append(out, h.bin(c, hu))
		}
	}
	slices.SortStableFunc(out, func(a, b Bin) int {
		switch {
		case a.Mass > b.Mass:
			return -1
		case a.Mass < b.Mass:
			return 1
		}
		return 0
	})
	return out
}

// Top is the first entry SortedColors would return.
func (h *Histogram) Top() Bin {
	best := h.bin(0, 0)
	for c := range h.binCount {
		for hu := range h.binCount {
			if m := h.bins.At(c, hu); m > best.Mass {
				best = h.bin(c, hu)
			}
		}
	}
	return best
}

// Sample draws a bin with probability equal to its mass, walking bins chroma-major.
// Empty bins are never drawn, not even by a draw of exactly 0. If rounding leaves the cumulative
// sum short of the draw, the last bin with mass is returned, or the last bin of an empty histogram.
func (h *Histogram) Sample(rng Source) LCh {
	return h.SampleBin(rng).Color
}

func (h *Histogram) SampleBin(rng Source) Bin {
	x := rng.Float64()
	sum := 0.0
	last := [2]int{h.binCount - 1, h.binCount - 1}
	for c := range h.binCount {
		row := h.bins.RawRowView(c)
		for hu, m := range row {
			if m <= 0 {
				continue
			}
			sum += m
			last = [2]int{c, hu}
			if sum >= x {
				return h.bin(c, hu)
			}
		}
	}
	return h.bin(last[0], last[1])
}
