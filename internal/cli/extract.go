package cli

import (
	"fmt"

	"github.com/setanarut/dominant"
	"github.com/setanarut/dominant/utils"
	"github.com/spf13/cobra"
)

type extractFlags struct {
	opts    dominant.Options
	method  string
	seed    int64
	format  string
	swatch  string
	preview bool
}

func newExtractCmd() *cobra.Command {
	f := &extractFlags{opts: dominant.DefaultOptions()}
	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Extract dominant colours from an image",
		Long: `Extract the dominant colours of an image.

The default kmeanspp method seeds k-means++ over the sampling grid, refines the
centroids with Lloyd iterations in CIELAB and reports each cluster's centroid,
its share of the samples and the top chroma/hue bin of its members, darkest first.
The kmeans and dominantcolor methods are alternative back-ends ordered by weight.

Supported image formats: PNG, JPEG, GIF, WebP, AVIF

Examples:
  # Five colours with a reproducible seed
  dominant extract --seed 1 photo.jpg

  # Eight colours as JSON, ignoring dark pixels
  dominant extract -k 8 --skip-dark --format json photo.jpg

  # Write a palette image next to the output
  dominant extract --swatch palette.png photo.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, f, args[0])
		},
	}
	addEngineFlags(cmd.Flags(), &f.opts)
	cmd.Flags().StringVarP(&f.method, "method", "m", "kmeanspp", "extraction method (kmeanspp, kmeans, dominantcolor)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "random seed (default: random)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "hex", "output format (hex, json)")
	cmd.Flags().StringVar(&f.swatch, "swatch", "", "write the palette as a PNG swatch to this file")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "show colour previews in terminal")
	return cmd
}

func runExtract(cmd *cobra.Command, f *extractFlags, path string) error {
	logger := loggerFor(cmd)

	method, err := utils.ParsePaletteMethod(f.method)
	if err != nil {
		return err
	}
	if f.format != "hex" && f.format != "json" {
		return fmt.Errorf("unsupported format: %s (supported: hex, json)", f.format)
	}

	img, err := utils.ReadImage(path)
	if err != nil {
		return err
	}
	bounds := img.Bounds()
	logger.Debug("image loaded", "path", path, "width", bounds.Dx(), "height", bounds.Dy())

	opts := f.opts
	resolveStride(cmd, &opts, bounds.Size())
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	rng := sourceFor(cmd, f.seed)

	var entries []paletteEntry
	if method == utils.PaletteMethodKMeansPP {
		logger.Debug("clustering", "k", opts.K, "stride", opts.Stride, "iterations", opts.MaxIterations)
		clusters, err := dominant.Extract(img, bounds, opts, rng)
		if err != nil {
			return fmt.Errorf("failed to extract colours: %w", err)
		}
		logger.Debug("refinement finished", "inertia", dominant.Inertia(clusters))
		swatches, err := dominant.Dominant(clusters, opts.BinCount, nil)
		if err != nil {
			return fmt.Errorf("failed to summarise clusters: %w", err)
		}
		for _, s := range swatches {
			e := newPaletteEntry(s.Centroid, s.Share)
			e.Representative = s.Representative.Hex()
			// exemplar coordinates are grid-relative
			x, y := bounds.Min.X+s.Exemplar.X, bounds.Min.Y+s.Exemplar.Y
			e.X, e.Y = &x, &y
			entries = append(entries, e)
		}
	} else {
		logger.Debug("extracting palette", "method", method, "k", opts.K)
		palette, err := utils.ExtractPalette(img, opts.K, method, rng)
		if err != nil {
			return fmt.Errorf("failed to extract colours: %w", err)
		}
		for _, c := range palette {
			entries = append(entries, newPaletteEntry(c.Color, c.Weight))
		}
	}

	if f.swatch != "" {
		colours := make([]dominant.Color, len(entries))
		for i, e := range entries {
			colours[i] = e.colour
		}
		if err := utils.SavePalette(colours, 64, f.swatch); err != nil {
			return fmt.Errorf("failed to write swatch: %w", err)
		}
		logger.Info("swatch written", "path", f.swatch, "colours", len(colours))
	}

	return writePalette(cmd.OutOrStdout(), entries, f.format, f.preview)
}
