package dominant

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a CIE L*a*b* colour (go-colorful scale: L in [0,1], a and b roughly in [-1,1])
// with straight alpha in [0,1]. It is the space clustering happens in.
type Color struct {
	L, A, B float64
	Alpha   float64
}

// LCh is an OkLCh colour. L and C are in [0,1], H is in degrees [0,360).
// Histograms bin colours in this space.
type LCh struct {
	L, C, H float64
}

// FromColorful converts an opaque go-colorful colour.
func FromColorful(c colorful.Color) Color {
	l, a, b := c.Lab()
	return Color{L: l, A: a, B: b, Alpha: 1}
}

// FromRGBA converts any color.Color, un-premultiplying its channels.
// Fully transparent colours come back as transparent black.
func FromRGBA(c color.Color) Color {
	col, alpha := straight(c)
	if alpha == 0 {
		return Color{}
	}
	out := FromColorful(col)
	out.Alpha = alpha
	return out
}

// straight returns the un-premultiplied colour and alpha of c.
func straight(c color.Color) (colorful.Color, float64) {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return colorful.Color{}, 0
	}
	fa := float64(a)
	return colorful.Color{
		R: float64(r) / fa,
		G: float64(g) / fa,
		B: float64(b) / fa,
	}, fa / 0xffff
}

// RGB returns the colour as a gamut-clamped go-colorful colour.
func (c Color) RGB() colorful.Color {
	return colorful.Lab(c.L, c.A, c.B).Clamped()
}

func (c Color) Hex() string {
	return c.RGB().Hex()
}

// Opaque reports whether alpha is exactly 1.
func (c Color) Opaque() bool {
	return c.Alpha == 1
}

// Hue is the CIELAB hue angle in degrees [0,360).
func (c Color) Hue() float64 {
	h := math.Atan2(c.B, c.A) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return h
}

// Chroma is the CIELAB chroma.
func (c Color) Chroma() float64 {
	return math.Hypot(c.A, c.B)
}

// Luminance is the relative luminance of the (clamped) sRGB colour.
func (c Color) Luminance() float64 {
	return luminance(c.RGB())
}

func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// LCh converts to OkLCh.
func (c Color) LCh() LCh {
	l, ch, h := colorful.Lab(c.L, c.A, c.B).OkLch()
	return LCh{L: l, C: ch, H: h}
}

// Mix linearly interpolates towards o; t=0 yields c, t=1 yields o.
func (c Color) Mix(o Color, t float64) Color {
	return Color{
		L:     c.L + (o.L-c.L)*t,
		A:     c.A + (o.A-c.A)*t,
		B:     c.B + (o.B-c.B)*t,
		Alpha: c.Alpha + (o.Alpha-c.Alpha)*t,
	}
}

// Color converts back to the clustering space as an opaque colour.
func (c LCh) Color() Color {
	return FromColorful(colorful.OkLch(c.L, c.C, c.H))
}

func (c LCh) Hex() string {
	return colorful.OkLch(c.L, c.C, c.H).Clamped().Hex()
}

// ============ DISTANCE ============

// Distance is the deltaE76 difference: Euclidean distance over L, a and b.
// Alpha does not take part.
func Distance(a, b Color) float64 {
	return math.Sqrt(DistanceSquared(a, b))
}

func DistanceSquared(a, b Color) float64 {
	dL := a.L - b.L
	dA := a.A - b.A
	dB := a.B - b.B
	return dL*dL + dA*dA + dB*dB
}

// Nearest returns the index of the centroid closest to c. Ties go to the lower index.
// It returns -1 for an empty centroid list.
func Nearest(c Color, centroids []Color) int {
	best := -1
	bestD := math.MaxFloat64
	for i, ct := range centroids {
		d := DistanceSquared(c, ct)
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}
