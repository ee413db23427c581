package cli

import (
	"fmt"
	"image"

	"github.com/setanarut/dominant"
	"github.com/setanarut/dominant/strips"
	"github.com/setanarut/dominant/utils"
	"github.com/spf13/cobra"
)

func newStripsCmd() *cobra.Command {
	f := &stripFlags{settings: strips.DefaultSettings()}
	var across bool
	cmd := &cobra.Command{
		Use:   "strips <frame>...",
		Short: "Track dominant colours of vertical strips across frames",
		Long: `Split a band of every frame into vertical strips and track each strip's
dominant colours over time. The first frame is seeded with k-means++, later frames
start from the previous centroids. One line of lead colours is printed per frame.

Examples:
  # Eight strips over the whole frame, smoothed
  dominant strips --smoothing 0.3 frames/*.png

  # Twelve strips of the bottom band with a slit-scan image
  dominant strips --count 12 --band 0,600,1920,1080 --out scan.png frames/*.jpg

  # Only the weighted dominant colour of the band over all frames
  dominant strips --across frames/*.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.autoStride = !cmd.Flags().Changed("stride")
			if across {
				return runAcross(cmd, f, args)
			}
			return runStrips(cmd, f, args)
		},
	}
	addStripFlags(cmd.Flags(), f)
	cmd.Flags().BoolVar(&across, "across", false, "print the dominant colour of the band weighted towards later frames")
	return cmd
}

func runStrips(cmd *cobra.Command, f *stripFlags, paths []string) error {
	logger := loggerFor(cmd)
	runner := newFrameRunner(f, logger, cmd.OutOrStdout())
	for _, p := range paths {
		if err := runner.process(cmd.Context(), p); err != nil {
			return err
		}
	}
	return runner.save()
}

func runAcross(cmd *cobra.Command, f *stripFlags, paths []string) error {
	logger := loggerFor(cmd)
	frames := make([]image.Image, 0, len(paths))
	var band image.Rectangle
	for i, p := range paths {
		img, err := utils.ReadImage(p)
		if err != nil {
			return err
		}
		if i == 0 {
			if band, err = parseBand(f.band, img.Bounds()); err != nil {
				return err
			}
		}
		frames = append(frames, img)
	}

	opts := f.settings.Options
	if f.autoStride {
		opts.Stride = dominant.OptionsFromSize(band.Size()).Stride
	}
	c, err := strips.DominantAcross(frames, band, opts.Stride, opts.BinCount)
	if err != nil {
		return fmt.Errorf("failed to compute dominant colour: %w", err)
	}
	logger.Debug("dominant across frames", "frames", len(frames), "band", band)
	return writeRow(cmd.OutOrStdout(), "across", []dominant.Color{c}, f.preview)
}
