package dominant

import (
	"math"
	"testing"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

func TestSampleObservation(t *testing.T) {
	s := Sample{Color: labRed}
	var obs clusters.Observation = s

	if got := obs.Distance(obs.Coordinates()); got != 0 {
		t.Errorf("Distance(self) = %v, want 0", got)
	}
	blue := Sample{Color: labBlue}
	if got, want := obs.Distance(blue.Coordinates()), DistanceSquared(labRed, labBlue); math.Abs(got-want) > 1e-12 {
		t.Errorf("Distance(blue) = %v, want %v", got, want)
	}
	if got := ColorFromCoordinates(s.Coordinates()); got != labRed {
		t.Errorf("ColorFromCoordinates() = %+v, want %+v", got, labRed)
	}
}

func TestObservationsPartition(t *testing.T) {
	img := splitImage(6, 6, red, blue)
	img.Set(0, 0, transparent)
	g := mustGrid(t, img, 1)

	data := Observations(g, DefaultRefineOptions())
	if len(data) != 35 {
		t.Fatalf("len(Observations()) = %d, want 35", len(data))
	}

	cc, err := kmeans.New().Partition(data, 1)
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}
	if got := len(cc[0].Observations); got != 35 {
		t.Errorf("single cluster holds %d observations, want 35", got)
	}
}
