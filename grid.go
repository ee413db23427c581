package dominant

import (
	"fmt"
	"image"
	"sync"
)

// Sample is one pixel of a grid in clustering space. X and Y are relative to the grid's region.
type Sample struct {
	X, Y      int
	Color     Color
	Luminance float64
}

// Grid is a strided view over a rectangular region of an image.
// Only every Stride-th pixel on each axis is visited when iterating; At reaches every pixel.
// Grids are immutable once built and safe for concurrent readers.
// Off-lattice pixels are only read when a query needs them.
type Grid struct {
	img           image.Image
	rect          image.Rectangle
	stride        int
	samples       []Sample // strided lattice, row-major
	latticeOpaque int

	opaqueOnce sync.Once
	opaque     int // opaque pixels in the whole region

	anyOnce   sync.Once
	anyOpaque bool
}

// NewGrid converts the strided lattice of img inside r. The region is clipped to the image bounds.
func NewGrid(img image.Image, r image.Rectangle, stride int) (*Grid, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: image cannot be nil", ErrInvalidArgument)
	}
	if stride < 1 {
		return nil, fmt.Errorf("%w: stride must be at least 1, got %d", ErrInvalidArgument, stride)
	}
	r = r.Intersect(img.Bounds())
	g := &Grid{img: img, rect: r, stride: stride}

	w, h := r.Dx(), r.Dy()
	g.samples = make([]Sample, 0, ((w+stride-1)/stride)*((h+stride-1)/stride))
	for y := 0; y < h; y += stride {
		for x := 0; x < w; x += stride {
			s := g.At(x, y)
			if s.Color.Opaque() {
				g.latticeOpaque++
			}
			g.samples = append(g.samples, s)
		}
	}
	return g, nil
}

// NewImageGrid covers the whole image.
func NewImageGrid(img image.Image, stride int) (*Grid, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: image cannot be nil", ErrInvalidArgument)
	}
	return NewGrid(img, img.Bounds(), stride)
}

// At converts the pixel at region-relative (x, y).
func (g *Grid) At(x, y int) Sample {
	col, alpha := straight(g.img.At(g.rect.Min.X+x, g.rect.Min.Y+y))
	s := Sample{X: x, Y: y}
	if alpha == 0 {
		return s
	}
	s.Color = FromColorful(col)
	s.Color.Alpha = alpha
	s.Luminance = luminance(col)
	return s
}

func (g *Grid) Width() int  { return g.rect.Dx() }
func (g *Grid) Height() int { return g.rect.Dy() }
func (g *Grid) Stride() int { return g.stride }

// Rect is the region in source image coordinates.
func (g *Grid) Rect() image.Rectangle { return g.rect }

// Opaque counts pixels with alpha == 1 in the whole region, not only on the lattice.
// The first call scans every off-lattice pixel; prefer HasOpaque when only emptiness matters.
func (g *Grid) Opaque() int {
	g.opaqueOnce.Do(func() {
		g.opaque = g.latticeOpaque
		g.eachOffLattice(func(a uint32) bool {
			if a == 0xffff {
				g.opaque++
			}
			return true
		})
	})
	return g.opaque
}

// HasOpaque reports whether any pixel of the region has alpha == 1.
// Off-lattice pixels are scanned only when the lattice has none, stopping at the first hit.
func (g *Grid) HasOpaque() bool {
	if g.latticeOpaque > 0 {
		return true
	}
	g.anyOnce.Do(func() {
		g.eachOffLattice(func(a uint32) bool {
			if a == 0xffff {
				g.anyOpaque = true
				return false
			}
			return true
		})
	})
	return g.anyOpaque
}

// eachOffLattice calls fn with the alpha of every pixel between lattice points until fn returns false.
func (g *Grid) eachOffLattice(fn func(a uint32) bool) {
	r := g.rect
	for y := range r.Dy() {
		for x := range r.Dx() {
			if x%g.stride == 0 && y%g.stride == 0 {
				continue
			}
			_, _, _, a := g.img.At(r.Min.X+x, r.Min.Y+y).RGBA()
			if !fn(a) {
				return
			}
		}
	}
}

// Samples returns the strided lattice in row-major order, transparent samples included.
// The slice is shared; callers must not modify it.
func (g *Grid) Samples() []Sample { return g.samples }

// OpaqueSamples returns the lattice samples with alpha == 1.
func (g *Grid) OpaqueSamples() []Sample {
	out := make([]Sample, 0, len(g.samples))
	for _, s := range g.samples {
		if s.Color.Opaque() {
			out = append(out, s)
		}
	}
	return out
}
