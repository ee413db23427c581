package utils

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	"image/png"
	"os"

	_ "github.com/gen2brain/avif" // Register AVIF format
	"github.com/setanarut/dominant"
	_ "golang.org/x/image/webp" // Register WebP format
)

// ReadImage decodes PNG, JPEG, GIF, WebP or AVIF.
func ReadImage(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}
	file, err := os.Open(path) // #nosec G304 - user supplied frame path
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()
	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}
	return img, nil
}

func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// SavePalette writes one square tile per colour, left to right.
func SavePalette(palette []dominant.Color, tileSize int, filename string) error {
	if len(palette) == 0 {
		return fmt.Errorf("empty palette")
	}
	return SaveStrips([][]dominant.Color{palette}, tileSize, tileSize, filename)
}

// SaveStrips writes a slit-scan image: one row per frame, one column per strip.
// Short rows and fully transparent colours leave their tiles transparent.
func SaveStrips(rows [][]dominant.Color, tileW, tileH int, filename string) error {
	if len(rows) == 0 {
		return fmt.Errorf("no rows to save")
	}
	if tileW <= 0 {
		tileW = 64
	}
	if tileH <= 0 {
		tileH = 64
	}
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	if cols == 0 {
		return fmt.Errorf("no colours to save")
	}

	img := image.NewRGBA(image.Rect(0, 0, tileW*cols, tileH*len(rows)))
	for ri, row := range rows {
		for ci, c := range row {
			if c.Alpha == 0 {
				continue
			}
			r, g, b := c.RGB().RGB255()
			fill := color.RGBA{R: r, G: g, B: b, A: 255}
			x0, y0 := ci*tileW, ri*tileH
			for y := y0; y < y0+tileH; y++ {
				for x := x0; x < x0+tileW; x++ {
					img.SetRGBA(x, y, fill)
				}
			}
		}
	}
	return SaveImage(img, filename)
}
