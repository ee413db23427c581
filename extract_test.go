package dominant

import (
	"errors"
	"image"
	"math"
	"testing"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"defaults", func(*Options) {}, false},
		{"k zero allowed", func(o *Options) { o.K = 0 }, false},
		{"negative k", func(o *Options) { o.K = -1 }, true},
		{"zero stride", func(o *Options) { o.Stride = 0 }, true},
		{"zero iterations", func(o *Options) { o.MaxIterations = 0 }, true},
		{"threshold above 1", func(o *Options) { o.DarkThreshold = 1.5 }, true},
		{"single bin", func(o *Options) { o.BinCount = 1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Validate() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestOptionsFromSize(t *testing.T) {
	tests := []struct {
		size image.Point
		want int
	}{
		{image.Pt(0, 0), 5},
		{image.Pt(100, 100), 1},
		{image.Pt(640, 640), 6},
		{image.Pt(1920, 1080), 14},
	}
	for _, tt := range tests {
		if got := OptionsFromSize(tt.size).Stride; got != tt.want {
			t.Errorf("OptionsFromSize(%v).Stride = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestExtractZeroK(t *testing.T) {
	img := splitImage(10, 10, red, blue)
	opts := DefaultOptions()
	opts.K = 0

	clusters, err := Extract(img, img.Bounds(), opts, NewSource(1))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(clusters) != 0 {
		t.Errorf("Extract(k=0) returned %d clusters, want none", len(clusters))
	}
}

func TestExtractEmptyRegion(t *testing.T) {
	img := uniformImage(10, 10, transparent)

	_, err := Extract(img, img.Bounds(), DefaultOptions(), NewSource(1))
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Extract() error = %v, want ErrEmptyInput", err)
	}
}

func TestExtractGridWarmStart(t *testing.T) {
	g := mustGrid(t, splitImage(10, 10, red, blue), 1)
	opts := DefaultOptions()
	opts.K = 7 // ignored when previous centroids are supplied
	opts.MaxIterations = 1

	prev := []Color{labBlue.Mix(labRed, 0.2), labRed.Mix(labBlue, 0.2)}
	clusters, err := ExtractGrid(g, prev, opts, nil)
	if err != nil {
		t.Fatalf("ExtractGrid() error = %v", err)
	}
	if len(clusters) != 2 {
		t.Fatalf("len(clusters) = %d, want 2", len(clusters))
	}
	if !near(clusters[0].Centroid, labBlue, 1e-9) || !near(clusters[1].Centroid, labRed, 1e-9) {
		t.Errorf("warm start lost slot order: %v", Centroids(clusters))
	}
}

func TestDominant(t *testing.T) {
	img := uniformImage(10, 10, blue)
	for y := range 10 {
		for x := range 3 {
			img.Set(x, y, red)
		}
	}
	g := mustGrid(t, img, 1)

	clusters, err := Refine(g, []Color{labBlue, labRed, {L: 0.9, Alpha: 1}}, RefineOptions{MaxIterations: 2})
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	swatches, err := Dominant(clusters, 16, nil)
	if err != nil {
		t.Fatalf("Dominant() error = %v", err)
	}

	if len(swatches) != 2 {
		t.Fatalf("len(Dominant()) = %d, want 2 (empty cluster skipped)", len(swatches))
	}
	// Blue is darker than red.
	if !near(swatches[0].Centroid, labBlue, 1e-9) {
		t.Errorf("first swatch = %+v, want blue", swatches[0].Centroid)
	}
	if math.Abs(swatches[0].Share-0.7) > 1e-12 || math.Abs(swatches[1].Share-0.3) > 1e-12 {
		t.Errorf("shares = %v, %v, want 0.7, 0.3", swatches[0].Share, swatches[1].Share)
	}

	h, err := NewHistogram([]Color{labRed}, 16, nil)
	if err != nil {
		t.Fatalf("NewHistogram() error = %v", err)
	}
	if swatches[1].Representative != h.Top().Color {
		t.Errorf("red representative = %+v, want %+v", swatches[1].Representative, h.Top().Color)
	}
}

func TestSortByHue(t *testing.T) {
	colors := []Color{{B: -1}, {A: 1}, {B: 1}}
	SortByHue(colors)

	for i, want := range []float64{0, 90, 270} {
		if got := colors[i].Hue(); math.Abs(got-want) > 1e-9 {
			t.Errorf("colors[%d].Hue() = %v, want %v", i, got, want)
		}
	}
}

func TestDominantExemplar(t *testing.T) {
	g := mustGrid(t, splitImage(10, 4, red, blue), 1)
	clusters, err := Refine(g, []Color{labRed, labBlue}, RefineOptions{MaxIterations: 3})
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	swatches, err := Dominant(clusters, 16, nil)
	if err != nil {
		t.Fatalf("Dominant() error = %v", err)
	}
	if len(swatches) != 2 {
		t.Fatalf("len(Dominant()) = %d, want 2", len(swatches))
	}

	blueEx, redEx := swatches[0].Exemplar, swatches[1].Exemplar
	if blueEx.X < 5 || !near(blueEx.Color, labBlue, 1e-9) {
		t.Errorf("blue exemplar = %+v, want a blue pixel in the right half", blueEx)
	}
	if redEx.X >= 5 || !near(redEx.Color, labRed, 1e-9) {
		t.Errorf("red exemplar = %+v, want a red pixel in the left half", redEx)
	}
}

func TestNearestSample(t *testing.T) {
	samples := []Sample{
		{X: 0, Y: 0, Color: Color{L: 0.1, Alpha: 1}},
		{X: 1, Y: 0, Color: Color{L: 0.6, Alpha: 1}},
		{X: 2, Y: 0, Color: Color{L: 0.4, Alpha: 1}},
		{X: 3, Y: 0, Color: Color{L: 0.6, Alpha: 1}},
	}

	tests := []struct {
		name   string
		target Color
		wantX  int
	}{
		{"exact match", Color{L: 0.4, Alpha: 1}, 2},
		{"closest", Color{L: 0.2, Alpha: 1}, 0},
		{"tie goes to the earlier sample", Color{L: 0.6, Alpha: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NearestSample(samples, tt.target)
			if !ok || got.X != tt.wantX {
				t.Errorf("NearestSample() = %+v, %v, want X %d", got, ok, tt.wantX)
			}
		})
	}

	if _, ok := (Cluster{Centroid: labRed}).Exemplar(); ok {
		t.Error("Exemplar() of an empty cluster reported a sample")
	}
}
