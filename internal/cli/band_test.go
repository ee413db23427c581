package cli

import (
	"image"
	"testing"
)

func TestParseBand(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 50)
	tests := []struct {
		in      string
		want    image.Rectangle
		wantErr bool
	}{
		{"", bounds, false},
		{"0,40,100,50", image.Rect(0, 40, 100, 50), false},
		{" 10, 0, 20 ,10", image.Rect(10, 0, 20, 10), false},
		{"-10,-10,200,200", bounds, false},
		{"1,2,3", image.Rectangle{}, true},
		{"a,b,c,d", image.Rectangle{}, true},
		{"200,200,300,300", image.Rectangle{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseBand(tt.in, bounds)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseBand(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseBand(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsFrameFile(t *testing.T) {
	tests := map[string]bool{
		"frame_0001.png": true,
		"clip/f.JPG":     true,
		"a.webp":         true,
		"b.avif":         true,
		"notes.txt":      false,
		"frame.png.part": false,
		"noext":          false,
	}
	for path, want := range tests {
		if got := isFrameFile(path); got != want {
			t.Errorf("isFrameFile(%q) = %v, want %v", path, got, want)
		}
	}
}
