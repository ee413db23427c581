// Package strips tracks dominant colours of vertical strips across video frames.
//
// A horizontal band of each frame is cut into narrow strips. Every strip is clustered on its
// own, warm-started from the previous frame's centroids so colours keep their slots, then
// smoothed over time and optionally blended with the neighbouring strips.
package strips

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/setanarut/dominant"
)

// Layout places Count equal-width strips side by side inside Band.
type Layout struct {
	Count int
	Band  image.Rectangle
}

// Rects splits the band; widths differ by at most one pixel.
func (l Layout) Rects() ([]image.Rectangle, error) {
	if l.Count < 1 {
		return nil, fmt.Errorf("%w: strip count must be at least 1, got %d", dominant.ErrInvalidArgument, l.Count)
	}
	if l.Band.Empty() {
		return nil, fmt.Errorf("%w: band %v is empty", dominant.ErrInvalidArgument, l.Band)
	}
	w := l.Band.Dx()
	if l.Count > w {
		return nil, fmt.Errorf("%w: %d strips do not fit a %dpx band", dominant.ErrInvalidArgument, l.Count, w)
	}
	out := make([]image.Rectangle, l.Count)
	for i := range l.Count {
		x0 := l.Band.Min.X + i*w/l.Count
		x1 := l.Band.Min.X + (i+1)*w/l.Count
		out[i] = image.Rect(x0, l.Band.Min.Y, x1, l.Band.Max.Y)
	}
	return out, nil
}

type Settings struct {
	// Per-strip clustering parameters.
	// Ideal start: K 5, Stride 5, MaxIterations 15.
	Options dominant.Options
	// Temporal smoothing in [0,1]. 0 shows every frame as is; values near 1 barely move.
	// Ideal start: 0.05-0.3.
	Smoothing float64
	// Neighbour mixing of each strip's lead colour in [0,1].
	// Inner strips mix a quarter of this with each side, edge strips half with their one neighbour.
	SideBlending float64
	// Concurrent strips. Zero means GOMAXPROCS.
	Workers int
	// Base seed for the per-strip random sources.
	Seed int64
}

func DefaultSettings() Settings {
	return Settings{
		Options: dominant.DefaultOptions(),
	}
}

func (s Settings) Validate() error {
	if err := s.Options.Validate(); err != nil {
		return err
	}
	if s.Options.K < 1 {
		return fmt.Errorf("%w: k must be at least 1, got %d", dominant.ErrInvalidArgument, s.Options.K)
	}
	if s.Smoothing < 0 || s.Smoothing > 1 {
		return fmt.Errorf("%w: smoothing must be in [0,1], got %g", dominant.ErrInvalidArgument, s.Smoothing)
	}
	if s.SideBlending < 0 || s.SideBlending > 1 {
		return fmt.Errorf("%w: side blending must be in [0,1], got %g", dominant.ErrInvalidArgument, s.SideBlending)
	}
	if s.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", dominant.ErrInvalidArgument, s.Workers)
	}
	return nil
}

// Strip is one strip's output for a frame.
type Strip struct {
	Rect image.Rectangle
	// Smoothed centroids in hue order.
	Colors []dominant.Color
	// First colour after side blending. Zero, with Alpha 0, while the strip has no colours.
	Lead dominant.Color
	// Stale is set when the strip had no opaque pixel this frame and kept its previous colours.
	Stale bool
}

type Frame struct {
	Index  int
	Strips []Strip
}

// Leads lists the lead colour of every strip.
func (f Frame) Leads() []dominant.Color {
	out := make([]dominant.Color, len(f.Strips))
	for i, s := range f.Strips {
		out[i] = s.Lead
	}
	return out
}

// Tracker carries per-strip state from frame to frame. It is not safe for concurrent use;
// strips of a single frame are processed in parallel internally.
type Tracker struct {
	rects    []image.Rectangle
	settings Settings
	logger   hclog.Logger

	prev  [][]dominant.Color // refined centroids, hue order, used as next seeds
	out   [][]dominant.Color // smoothed output
	frame int
}

func NewTracker(layout Layout, settings Settings, logger hclog.Logger) (*Tracker, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	rects, err := layout.Rects()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if settings.Workers == 0 {
		settings.Workers = runtime.GOMAXPROCS(0)
	}
	return &Tracker{
		rects:    rects,
		settings: settings,
		logger:   logger,
		prev:     make([][]dominant.Color, len(rects)),
		out:      make([][]dominant.Color, len(rects)),
	}, nil
}

// Reset forgets all previous frames; the next frame is seeded with k-means++ again.
func (t *Tracker) Reset() {
	clear(t.prev)
	clear(t.out)
	t.frame = 0
}

type stripResult struct {
	centroids []dominant.Color
	stale     bool
	err       error
}

// Process clusters every strip of img and returns the smoothed, blended result.
func (t *Tracker) Process(ctx context.Context, img image.Image) (Frame, error) {
	if img == nil {
		return Frame{}, fmt.Errorf("%w: frame image is nil", dominant.ErrInvalidArgument)
	}
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	results := make([]stripResult, len(t.rects))
	sem := make(chan struct{}, t.settings.Workers)
	var wg sync.WaitGroup
	for i := range t.rects {
		wg.Go(func() {
			sem <- struct{}{}
			defer func() { <-sem }()
			if ctx.Err() != nil {
				return
			}
			results[i] = t.processStrip(img, i)
		})
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	return t.commit(results)
}

// commit applies the strip results of one frame. State changes only when every strip succeeded.
func (t *Tracker) commit(results []stripResult) (Frame, error) {
	for i, r := range results {
		if r.err != nil {
			return Frame{}, fmt.Errorf("strip %d: %w", i, r.err)
		}
	}

	frame := Frame{Index: t.frame, Strips: make([]Strip, len(t.rects))}
	for i, r := range results {
		strip := Strip{Rect: t.rects[i], Stale: r.stale}
		if r.stale {
			t.logger.Debug("strip has no opaque pixels, keeping previous colours", "frame", t.frame, "strip", i)
		} else {
			t.prev[i] = r.centroids
			t.out[i] = Smooth(t.out[i], r.centroids, t.settings.Smoothing)
		}
		strip.Colors = t.out[i]
		frame.Strips[i] = strip
	}

	// strips without colours keep a zero, transparent lead
	leads := make([]dominant.Color, len(frame.Strips))
	for i, s := range frame.Strips {
		if len(s.Colors) > 0 {
			leads[i] = s.Colors[0]
		}
	}
	for i, c := range BlendNeighbours(leads, t.settings.SideBlending) {
		frame.Strips[i].Lead = c
	}

	t.logger.Trace("frame processed", "frame", t.frame, "strips", len(frame.Strips))
	t.frame++
	return frame, nil
}

func (t *Tracker) processStrip(img image.Image, i int) stripResult {
	g, err := dominant.NewGrid(img, t.rects[i], t.settings.Options.Stride)
	if err != nil {
		return stripResult{err: err}
	}
	if !g.HasOpaque() {
		return stripResult{stale: true}
	}
	rng := dominant.NewSource(t.settings.Seed + int64(t.frame)<<16 + int64(i))
	clusters, err := dominant.ExtractGrid(g, t.prev[i], t.settings.Options, rng)
	if errors.Is(err, dominant.ErrEmptyInput) {
		return stripResult{stale: true}
	}
	if err != nil {
		return stripResult{err: err}
	}
	centroids := dominant.Centroids(clusters)
	dominant.SortByHue(centroids)
	return stripResult{centroids: centroids}
}

// Smooth moves prev towards cur: amount 0 returns cur, amount 1 returns prev.
// Lists of different length are not blended; cur is returned as is.
func Smooth(prev, cur []dominant.Color, amount float64) []dominant.Color {
	if len(prev) != len(cur) || amount == 0 {
		return cur
	}
	out := make([]dominant.Color, len(cur))
	for i := range cur {
		out[i] = prev[i].Mix(cur[i], 1-amount)
	}
	return out
}

// BlendNeighbours mixes each colour with its neighbours: a colour between two others takes
// amount/4 of the left and then of the right one, a colour with a single neighbour amount/2 of it.
// Fully transparent entries mark strips without a colour; they are neither blended nor blended in.
func BlendNeighbours(colors []dominant.Color, amount float64) []dominant.Color {
	out := make([]dominant.Color, len(colors))
	copy(out, colors)
	if amount == 0 {
		return out
	}
	valid := func(i int) bool {
		return i >= 0 && i < len(colors) && colors[i].Alpha > 0
	}
	for i, c := range colors {
		if !valid(i) {
			continue
		}
		left, right := valid(i-1), valid(i+1)
		switch {
		case left && right:
			c = c.Mix(colors[i-1], amount*0.25)
			c = c.Mix(colors[i+1], amount*0.25)
		case left:
			c = c.Mix(colors[i-1], amount*0.5)
		case right:
			c = c.Mix(colors[i+1], amount*0.5)
		}
		out[i] = c
	}
	return out
}

// DominantAcross averages the top histogram colour of rect over several frames, weighting
// frame i by (i+1)/(n+1) so later frames count more. Frames with no opaque pixel are skipped.
func DominantAcross(frames []image.Image, rect image.Rectangle, stride, binCount int) (dominant.Color, error) {
	var sum dominant.Color
	total := 0.0
	n := float64(len(frames))
	for i, img := range frames {
		g, err := dominant.NewGrid(img, rect, stride)
		if err != nil {
			return dominant.Color{}, err
		}
		h, err := dominant.HistogramFromGrid(g, binCount, nil)
		if err != nil {
			return dominant.Color{}, err
		}
		if h.Total() == 0 {
			continue
		}
		w := float64(i+1) / (n + 1)
		top := h.Top().Color.Color()
		sum.L += top.L * w
		sum.A += top.A * w
		sum.B += top.B * w
		total += w
	}
	if total == 0 {
		return dominant.Color{}, dominant.ErrEmptyInput
	}
	return dominant.Color{L: sum.L / total, A: sum.A / total, B: sum.B / total, Alpha: 1}, nil
}
