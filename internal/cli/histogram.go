package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/setanarut/dominant"
	"github.com/setanarut/dominant/utils"
	"github.com/spf13/cobra"
)

type histogramFlags struct {
	bins    int
	top     int
	stride  int
	gamma   float64
	format  string
	preview bool
}

type binEntry struct {
	Chroma int     `json:"chroma"`
	Hue    int     `json:"hue"`
	Hex    string  `json:"hex"`
	Mass   float64 `json:"mass"`
}

func newHistogramCmd() *cobra.Command {
	f := &histogramFlags{}
	cmd := &cobra.Command{
		Use:   "histogram <image>",
		Short: "Print the chroma/hue histogram of an image",
		Long: `Bin the opaque pixels of an image by OkLCh chroma and hue and print the
heaviest bins with their representative colour and normalised mass.

Examples:
  # Ten heaviest of 16x16 bins
  dominant histogram photo.jpg

  # Favour bright pixels
  dominant histogram --luminance-weight 2 --top 5 photo.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistogram(cmd, f, args[0])
		},
	}
	cmd.Flags().IntVar(&f.bins, "bins", dominant.DefaultOptions().BinCount, "bins per axis")
	cmd.Flags().IntVar(&f.top, "top", 10, "number of bins to print (0 for all)")
	cmd.Flags().IntVar(&f.stride, "stride", 0, "sampling stride in pixels (default: derived from image size)")
	cmd.Flags().Float64Var(&f.gamma, "luminance-weight", 0, "weight samples by lightness raised to this power (0 disables)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "hex", "output format (hex, json)")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "show colour previews in terminal")
	return cmd
}

func runHistogram(cmd *cobra.Command, f *histogramFlags, path string) error {
	logger := loggerFor(cmd)

	if f.top < 0 {
		return fmt.Errorf("top must not be negative, got %d", f.top)
	}
	if f.gamma < 0 {
		return fmt.Errorf("luminance weight must not be negative, got %g", f.gamma)
	}
	img, err := utils.ReadImage(path)
	if err != nil {
		return err
	}

	stride := f.stride
	if !cmd.Flags().Changed("stride") {
		stride = dominant.OptionsFromSize(img.Bounds().Size()).Stride
	}
	g, err := dominant.NewImageGrid(img, stride)
	if err != nil {
		return err
	}
	var weight dominant.WeightFunc
	if f.gamma > 0 {
		weight = dominant.LightnessWeight(f.gamma)
	}
	h, err := dominant.HistogramFromGrid(g, f.bins, weight)
	if err != nil {
		return err
	}
	logger.Debug("histogram built", "bins", f.bins, "stride", stride, "samples", len(g.Samples()), "total", h.Total())
	if h.Total() == 0 {
		logger.Warn("image has no opaque pixels", "path", path)
	}

	bins := h.SortedColors()
	if f.top > 0 && f.top < len(bins) {
		bins = bins[:f.top]
	}

	out := cmd.OutOrStdout()
	switch f.format {
	case "hex":
		preview := f.preview && isTerminal(out)
		var sb strings.Builder
		for _, b := range bins {
			if preview {
				sb.WriteString(colourPreview(b.Color.Color(), previewWidth))
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%s %.4f (%d,%d)\n", b.Color.Hex(), b.Mass, b.Chroma, b.Hue)
		}
		_, err = fmt.Fprint(out, sb.String())
		return err
	case "json":
		entries := make([]binEntry, len(bins))
		for i, b := range bins {
			entries[i] = binEntry{Chroma: b.Chroma, Hue: b.Hue, Hex: b.Color.Hex(), Mass: b.Mass}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to convert to JSON: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	default:
		return fmt.Errorf("unsupported format: %s (supported: hex, json)", f.format)
	}
}
