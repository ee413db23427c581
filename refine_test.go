package dominant

import (
	"errors"
	"image/color"
	"slices"
	"testing"
)

func TestRefineRoundTrip(t *testing.T) {
	g := mustGrid(t, splitImage(10, 10, red, blue), 1)
	if got := len(g.Samples()); got != 100 {
		t.Fatalf("grid has %d samples, want 100", got)
	}

	seeds, err := Seed(g, 2, NewSource(9))
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	clusters, err := Refine(g, seeds, RefineOptions{MaxIterations: 5})
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}

	if len(clusters) != 2 {
		t.Fatalf("len(clusters) = %d, want 2", len(clusters))
	}
	var gotRed, gotBlue bool
	for _, c := range clusters {
		if len(c.Samples) != 50 {
			t.Errorf("cluster %+v has %d samples, want 50", c.Centroid, len(c.Samples))
		}
		switch {
		case near(c.Centroid, labRed, 1e-9):
			gotRed = true
		case near(c.Centroid, labBlue, 1e-9):
			gotBlue = true
		}
	}
	if !gotRed || !gotBlue {
		t.Errorf("centroids = %v, want pure red and pure blue", Centroids(clusters))
	}
}

func TestUpdateDoesNotWorsen(t *testing.T) {
	g := mustGrid(t, noisyClusters(16, 16), 1)

	starts := [][]Color{
		{labRed, labBlue},
		{labRed, labRed.Mix(labBlue, 0.4), labBlue},
		{FromRGBA(color.NRGBA{R: 128, G: 128, B: 128, A: 255}), labBlue},
	}

	for i, centroids := range starts {
		clusters := Assign(g, centroids, DefaultRefineOptions())
		before := Inertia(clusters)

		updated := Update(clusters)
		for j := range clusters {
			clusters[j].Centroid = updated[j]
		}
		after := Inertia(clusters)

		if after > before+1e-9 {
			t.Errorf("start %d: inertia rose from %v to %v", i, before, after)
		}
	}
}

func TestRefineFixedPoint(t *testing.T) {
	g := mustGrid(t, noisyClusters(12, 12), 2)

	clusters, err := Refine(g, []Color{labRed, labBlue}, RefineOptions{MaxIterations: 20})
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	settled := Centroids(clusters)

	again, err := Refine(g, settled, RefineOptions{MaxIterations: 1})
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	for i, c := range Centroids(again) {
		if !near(c, settled[i], 1e-9) {
			t.Errorf("centroid %d moved from %+v to %+v", i, settled[i], c)
		}
	}
}

func TestRefineEmptyClusterKept(t *testing.T) {
	g := mustGrid(t, uniformImage(6, 6, red), 1)
	far := Color{L: 0.1, A: -0.5, B: 0.5, Alpha: 1}

	clusters, err := Refine(g, []Color{labRed, far}, RefineOptions{MaxIterations: 3})
	if err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if len(clusters[1].Samples) != 0 {
		t.Fatalf("far cluster got %d samples, want 0", len(clusters[1].Samples))
	}
	if clusters[1].Centroid != far {
		t.Errorf("empty cluster centroid = %+v, want unchanged %+v", clusters[1].Centroid, far)
	}
	if len(clusters[0].Samples) != 36 {
		t.Errorf("red cluster got %d samples, want 36", len(clusters[0].Samples))
	}
}

func TestRefineFilters(t *testing.T) {
	img := uniformImage(4, 4, red)
	img.Set(0, 0, transparent)
	img.Set(1, 0, color.NRGBA{R: 10, G: 10, B: 10, A: 255})
	img.Set(2, 0, color.NRGBA{R: 255, A: 100})
	g := mustGrid(t, img, 1)

	tests := []struct {
		name string
		opts RefineOptions
		want int
	}{
		{"opaque only", RefineOptions{MaxIterations: 1}, 14},
		{"skip dark", RefineOptions{MaxIterations: 1, SkipDark: true, DarkThreshold: 0.1}, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clusters, err := Refine(g, []Color{labRed}, tt.opts)
			if err != nil {
				t.Fatalf("Refine() error = %v", err)
			}
			if got := len(clusters[0].Samples); got != tt.want {
				t.Errorf("assigned %d samples, want %d", got, tt.want)
			}
			if !clusters[0].Centroid.Opaque() {
				t.Errorf("centroid alpha = %v, want 1", clusters[0].Centroid.Alpha)
			}
		})
	}
}

func TestRefineInputUntouched(t *testing.T) {
	g := mustGrid(t, splitImage(8, 8, red, blue), 1)
	in := []Color{labRed.Mix(labBlue, 0.1), labBlue.Mix(labRed, 0.1)}
	orig := slices.Clone(in)

	if _, err := Refine(g, in, DefaultRefineOptions()); err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if !slices.Equal(in, orig) {
		t.Errorf("Refine() modified its input: %v, want %v", in, orig)
	}
}

func TestRefineErrors(t *testing.T) {
	g := mustGrid(t, uniformImage(2, 2, red), 1)

	tests := []struct {
		name      string
		g         *Grid
		centroids []Color
		opts      RefineOptions
	}{
		{"empty centroids", g, nil, DefaultRefineOptions()},
		{"zero iterations", g, []Color{labRed}, RefineOptions{}},
		{"nil grid", nil, []Color{labRed}, DefaultRefineOptions()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Refine(tt.g, tt.centroids, tt.opts); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Refine() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}
