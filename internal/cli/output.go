package cli

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/setanarut/dominant"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// ANSI escape codes for terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiBgPrefix = "\033[48;2;"
	previewWidth = 8
)

// addEngineFlags binds the clustering options shared by extract, strips and watch.
func addEngineFlags(fs *pflag.FlagSet, o *dominant.Options) {
	fs.IntVarP(&o.K, "colours", "k", o.K, "number of clusters")
	fs.IntVar(&o.Stride, "stride", o.Stride, "sampling stride in pixels (default: derived from image size)")
	fs.IntVar(&o.MaxIterations, "iterations", o.MaxIterations, "Lloyd refinement rounds")
	fs.BoolVar(&o.SkipDark, "skip-dark", o.SkipDark, "exclude dark samples from refinement")
	fs.Float64Var(&o.DarkThreshold, "dark-threshold", o.DarkThreshold, "luminance floor in [0,1] used by --skip-dark")
	fs.IntVar(&o.BinCount, "bins", o.BinCount, "histogram bins per axis")
}

// resolveStride replaces the stride with one derived from the image size unless --stride was given.
func resolveStride(cmd *cobra.Command, o *dominant.Options, size image.Point) {
	if !cmd.Flags().Changed("stride") {
		o.Stride = dominant.OptionsFromSize(size).Stride
	}
}

// sourceFor returns a seeded source when --seed was given, otherwise a random one.
func sourceFor(cmd *cobra.Command, seed int64) dominant.Source {
	if cmd.Flags().Changed("seed") {
		return dominant.NewSource(seed)
	}
	return dominant.RandomSource()
}

type paletteEntry struct {
	Hex            string  `json:"hex"`
	Share          float64 `json:"share"`
	Representative string  `json:"representative,omitempty"`
	// Pixel of the image closest to the centroid.
	X *int `json:"x,omitempty"`
	Y *int `json:"y,omitempty"`

	colour dominant.Color
}

func newPaletteEntry(c dominant.Color, share float64) paletteEntry {
	return paletteEntry{Hex: c.Hex(), Share: share, colour: c}
}

// writePalette prints entries as hex lines or JSON. Previews are only drawn on a terminal.
func writePalette(w io.Writer, entries []paletteEntry, format string, preview bool) error {
	switch format {
	case "hex", "":
		preview = preview && isTerminal(w)
		var sb strings.Builder
		for _, e := range entries {
			if preview {
				sb.WriteString(colourPreview(e.colour, previewWidth))
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%s %6.2f%%", e.Hex, e.Share*100)
			if e.Representative != "" {
				fmt.Fprintf(&sb, " %s", e.Representative)
			}
			sb.WriteByte('\n')
		}
		_, err := io.WriteString(w, sb.String())
		return err
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to convert to JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		return fmt.Errorf("unsupported format: %s (supported: hex, json)", format)
	}
}

// writeRow prints one line of colours, used for strip frames.
func writeRow(w io.Writer, label string, colours []dominant.Color, preview bool) error {
	preview = preview && isTerminal(w)
	var sb strings.Builder
	sb.WriteString(label)
	for _, c := range colours {
		sb.WriteByte(' ')
		switch {
		case c.Alpha == 0:
			// strip without colours
			sb.WriteByte('-')
		case preview:
			sb.WriteString(colourPreview(c, 2))
		default:
			sb.WriteString(c.Hex())
		}
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}

// colourPreview returns a solid truecolor block of width cells.
func colourPreview(c dominant.Color, width int) string {
	r, g, b := c.RGB().RGB255()
	return fmt.Sprintf("%s%d;%d;%dm%s%s", ansiBgPrefix, r, g, b, strings.Repeat(" ", width), ansiReset)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
