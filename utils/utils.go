package utils

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/hashicorp/go-hclog"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/kmeans"
	"github.com/setanarut/dominant"
)

type PaletteMethod int

const (
	PaletteMethodKMeansPP PaletteMethod = iota
	PaletteMethodKMeans
	PaletteMethodDominantColor
)

// WeightedColor is a palette candidate with its pixel share or weight.
type WeightedColor struct {
	Color  dominant.Color
	Weight float64
}

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	case PaletteMethodDominantColor:
		return "dominantcolor"
	default:
		return "kmeanspp"
	}
}

func ParsePaletteMethod(s string) (PaletteMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "kmeanspp", "kmeans++":
		return PaletteMethodKMeansPP, nil
	case "kmeans":
		return PaletteMethodKMeans, nil
	case "dominantcolor", "dominant":
		return PaletteMethodDominantColor, nil
	}
	return 0, fmt.Errorf("unknown palette method %q (valid: kmeanspp, kmeans, dominantcolor)", s)
}

// SortByLuminance orders colors from darkest to brightest.
func SortByLuminance(palette []dominant.Color) {
	slices.SortStableFunc(palette, func(a, b dominant.Color) int {
		yi := a.Luminance()
		yj := b.Luminance()
		if yi < yj {
			return -1
		}
		if yi > yj {
			return 1
		}
		return 0
	})
}

// SortByHue orders colors by hue angle.
func SortByHue(palette []dominant.Color) {
	dominant.SortByHue(palette)
}

// ExtractKMeansPPPalette clusters img with k-means++ seeding and Lloyd refinement.
// Colours come back ordered by cluster population, largest first.
func ExtractKMeansPPPalette(img image.Image, k int, rng dominant.Source) ([]WeightedColor, error) {
	if k <= 0 {
		return nil, nil
	}
	opts := dominant.OptionsFromSize(img.Bounds().Size())
	opts.K = k
	clusters, err := dominant.Extract(img, img.Bounds(), opts, rng)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, c := range clusters {
		total += len(c.Samples)
	}
	out := make([]WeightedColor, 0, len(clusters))
	for _, c := range clusters {
		if len(c.Samples) == 0 {
			continue
		}
		out = append(out, WeightedColor{
			Color:  c.Centroid,
			Weight: float64(len(c.Samples)) / float64(total),
		})
	}
	sortByWeight(out)
	return out, nil
}

func ExtractDominantPalette(img image.Image, k int) []WeightedColor {
	if k <= 0 {
		return nil
	}

	nCandidates := max(24, k*8)
	candidates := dominantcolor.FindWeight(img, nCandidates)
	if len(candidates) == 0 {
		// Last resort: avoid empty palette that would break downstream consumers.
		candidates = append(candidates, dominantcolor.Color{
			RGBA:   color.RGBA{R: 128, G: 128, B: 128, A: 255},
			Weight: 1.0,
		})
	}

	weighted := make([]WeightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		w := c.Weight
		if w <= 0 {
			w = 1e-6
		}
		weighted = append(weighted, WeightedColor{Color: dominant.FromColorful(col.Clamped()), Weight: w})
	}
	return SelectDiverseWeightedColors(weighted, k)
}

// SelectDiverseWeightedColors greedily picks k candidates that are far apart in Lab while
// favouring heavy ones. The heaviest candidate always comes first.
func SelectDiverseWeightedColors(cands []WeightedColor, k int) []WeightedColor {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	k = min(k, len(cands))
	maxW := 0.0
	for _, c := range cands {
		maxW = max(maxW, c.Weight)
	}
	if maxW <= 0 {
		maxW = 1.0
	}

	selectedIdx := make([]int, 0, k)
	selected := make([]bool, len(cands))

	bestSeed := 0
	for i := 1; i < len(cands); i++ {
		if cands[i].Weight > cands[bestSeed].Weight {
			bestSeed = i
		}
	}
	selectedIdx = append(selectedIdx, bestSeed)
	selected[bestSeed] = true

	for len(selectedIdx) < k {
		bestIdx := -1
		bestScore := -1.0
		for i := range cands {
			if selected[i] {
				continue
			}
			minD2 := math.MaxFloat64
			for _, s := range selectedIdx {
				minD2 = min(minD2, dominant.DistanceSquared(cands[i].Color, cands[s].Color))
			}
			normW := max(cands[i].Weight, 1e-6) / maxW
			score := math.Sqrt(minD2) * (0.55 + 0.45*math.Sqrt(normW))
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		selected[bestIdx] = true
		selectedIdx = append(selectedIdx, bestIdx)
	}

	out := make([]WeightedColor, 0, len(selectedIdx))
	for _, idx := range selectedIdx {
		out = append(out, cands[idx])
	}
	return out
}

// ExtractKMeansPalette runs muesli/kmeans over the grid samples with an oversized k and keeps
// the k most diverse cluster centres.
func ExtractKMeansPalette(img image.Image, k int) ([]WeightedColor, error) {
	if k <= 0 {
		return nil, nil
	}
	opts := dominant.OptionsFromSize(img.Bounds().Size())
	g, err := dominant.NewImageGrid(img, opts.Stride)
	if err != nil {
		return nil, err
	}
	dataset := dominant.Observations(g, opts.RefineOptions())
	if len(dataset) == 0 {
		return nil, dominant.ErrEmptyInput
	}

	workK := min(max(k*4, k+2), len(dataset))
	cc, err := kmeans.New().Partition(dataset, workK)
	if err != nil {
		return nil, fmt.Errorf("kmeans partition: %w", err)
	}

	weighted := make([]WeightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		weighted = append(weighted, WeightedColor{
			Color:  dominant.ColorFromCoordinates(c.Center),
			Weight: float64(len(c.Observations)) / float64(len(dataset)),
		})
	}
	sortByWeight(weighted)
	return SelectDiverseWeightedColors(weighted, k), nil
}

// ExtractPalette dispatches on method. A failing k-means run falls back to dominantcolor.
func ExtractPalette(img image.Image, k int, method PaletteMethod, rng dominant.Source) ([]WeightedColor, error) {
	switch method {
	case PaletteMethodKMeansPP:
		return ExtractKMeansPPPalette(img, k, rng)
	case PaletteMethodKMeans:
		p, err := ExtractKMeansPalette(img, k)
		if err == nil && len(p) != 0 {
			return p, nil
		}
		hclog.L().Warn("kmeans returned empty palette, falling back to dominantcolor", "error", err)
		return ExtractDominantPalette(img, k), nil
	default:
		return ExtractDominantPalette(img, k), nil
	}
}

// Colors strips the weights.
func Colors(palette []WeightedColor) []dominant.Color {
	out := make([]dominant.Color, len(palette))
	for i, c := range palette {
		out[i] = c.Color
	}
	return out
}

func sortByWeight(palette []WeightedColor) {
	slices.SortStableFunc(palette, func(a, b WeightedColor) int {
		if a.Weight > b.Weight {
			return -1
		}
		if a.Weight < b.Weight {
			return 1
		}
		return 0
	})
}
