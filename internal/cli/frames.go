package cli

import (
	"context"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/setanarut/dominant"
	"github.com/setanarut/dominant/strips"
	"github.com/setanarut/dominant/utils"
	"github.com/spf13/pflag"
)

type stripFlags struct {
	settings strips.Settings
	count    int
	band     string
	out      string
	tileW    int
	tileH    int
	preview  bool

	// derive the stride from the strip size; set when --stride is not given
	autoStride bool
}

func addStripFlags(fs *pflag.FlagSet, f *stripFlags) {
	addEngineFlags(fs, &f.settings.Options)
	fs.IntVar(&f.count, "count", 8, "number of vertical strips")
	fs.StringVar(&f.band, "band", "", "band to split as x0,y0,x1,y1 (default: whole frame)")
	fs.Float64Var(&f.settings.Smoothing, "smoothing", 0.2, "temporal smoothing in [0,1]")
	fs.Float64Var(&f.settings.SideBlending, "side-blending", 0, "neighbour blending of lead colours in [0,1]")
	fs.IntVar(&f.settings.Workers, "workers", 0, "concurrent strips (default: GOMAXPROCS)")
	fs.Int64Var(&f.settings.Seed, "seed", 0, "base random seed")
	fs.StringVarP(&f.out, "out", "o", "", "write a slit-scan PNG of the lead colours to this file")
	fs.IntVar(&f.tileW, "tile-width", 16, "slit-scan tile width")
	fs.IntVar(&f.tileH, "tile-height", 4, "slit-scan tile height")
	fs.BoolVar(&f.preview, "preview", false, "show colour previews in terminal")
}

// parseBand reads "x0,y0,x1,y1" and clips it to bounds. An empty string selects bounds.
func parseBand(s string, bounds image.Rectangle) (image.Rectangle, error) {
	if strings.TrimSpace(s) == "" {
		return bounds, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("invalid band %q: want x0,y0,x1,y1", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("invalid band %q: %w", s, err)
		}
		v[i] = n
	}
	r := image.Rect(v[0], v[1], v[2], v[3]).Intersect(bounds)
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("band %q does not overlap the frame %v", s, bounds)
	}
	return r, nil
}

// frameRunner feeds frame files through a strip tracker. The tracker is created from the
// first frame's bounds.
type frameRunner struct {
	flags   *stripFlags
	logger  hclog.Logger
	out     io.Writer
	tracker *strips.Tracker
	rows    [][]dominant.Color
}

func newFrameRunner(flags *stripFlags, logger hclog.Logger, out io.Writer) *frameRunner {
	return &frameRunner{flags: flags, logger: logger, out: out}
}

func (r *frameRunner) process(ctx context.Context, path string) error {
	img, err := utils.ReadImage(path)
	if err != nil {
		return err
	}
	return r.processImage(ctx, path, img)
}

func (r *frameRunner) processImage(ctx context.Context, path string, img image.Image) error {
	if r.tracker == nil {
		if err := r.start(img.Bounds()); err != nil {
			return err
		}
	}
	frame, err := r.tracker.Process(ctx, img)
	if err != nil {
		return fmt.Errorf("frame %s: %w", path, err)
	}
	leads := frame.Leads()
	r.rows = append(r.rows, leads)
	r.logger.Debug("frame processed", "path", path, "index", frame.Index)
	return writeRow(r.out, strconv.Itoa(frame.Index), leads, r.flags.preview)
}

func (r *frameRunner) start(bounds image.Rectangle) error {
	band, err := parseBand(r.flags.band, bounds)
	if err != nil {
		return err
	}
	settings := r.flags.settings
	if r.flags.autoStride {
		settings.Options.Stride = dominant.OptionsFromSize(image.Pt(band.Dx()/max(r.flags.count, 1), band.Dy())).Stride
	}
	layout := strips.Layout{Count: r.flags.count, Band: band}
	tracker, err := strips.NewTracker(layout, settings, r.logger.Named("tracker"))
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	r.logger.Debug("tracker started", "band", band, "strips", r.flags.count, "stride", settings.Options.Stride)
	r.tracker = tracker
	return nil
}

// save writes the slit-scan image when --out was given.
func (r *frameRunner) save() error {
	if r.flags.out == "" || len(r.rows) == 0 {
		return nil
	}
	if err := utils.SaveStrips(r.rows, r.flags.tileW, r.flags.tileH, r.flags.out); err != nil {
		return fmt.Errorf("failed to write slit-scan: %w", err)
	}
	r.logger.Info("slit-scan written", "path", r.flags.out, "frames", len(r.rows))
	return nil
}
