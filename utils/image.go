package utils

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Resize scales img to width×height with Catmull-Rom.
func Resize(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// MaskFromImage turns a silhouette image into a binary alpha mask: pixels that are opaque and
// brighter than mid grey are kept. Silhouettes come from an external contour step.
func MaskFromImage(m image.Image) *image.Alpha {
	b := m.Bounds()
	out := image.NewAlpha(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.Gray16Model.Convert(m.At(x, y)).(color.Gray16)
			_, _, _, a := m.At(x, y).RGBA()
			if a == 0xffff && g.Y > 0x7fff {
				out.SetAlpha(x, y, color.Alpha{A: 0xff})
			}
		}
	}
	return out
}

// ApplyMask copies img, making every pixel outside mask fully transparent.
func ApplyMask(img image.Image, mask *image.Alpha) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.DrawMask(dst, b, img, b.Min, mask, b.Min, draw.Src)
	return dst
}
