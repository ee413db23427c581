package dominant

import (
	"image"
	"image/color"
	"math"
)

var (
	red         = color.NRGBA{R: 255, A: 255}
	blue        = color.NRGBA{B: 255, A: 255}
	transparent = color.NRGBA{}
)

// splitImage returns a w×h image whose left half is left and right half is right.
func splitImage(w, h int, left, right color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if x < w/2 {
				img.Set(x, y, left)
			} else {
				img.Set(x, y, right)
			}
		}
	}
	return img
}

func uniformImage(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func mustGrid(t interface{ Fatalf(string, ...any) }, img image.Image, stride int) *Grid {
	g, err := NewImageGrid(img, stride)
	if err != nil {
		t.Fatalf("NewImageGrid() error = %v", err)
	}
	return g
}

func near(a, b Color, tol float64) bool {
	return Distance(a, b) <= tol && math.Abs(a.Alpha-b.Alpha) <= tol
}

var (
	labRed  = FromRGBA(red)
	labBlue = FromRGBA(blue)
)
