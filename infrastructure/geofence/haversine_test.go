package geofence

import (
	"math"
	"testing"
)

func TestHaversineDistanceIdenticalPoints(t *testing.T) {
	if d := HaversineDistance(12.824940, 80.045784, 12.824940, 80.045784); d != 0 {
		t.Errorf("expected zero distance for identical coordinates, got %f", d)
	}
}

func TestHaversineDistanceOneDegreeLatitude(t *testing.T) {
	// 1° of latitude along a meridian is ~111.32km.
	d := HaversineDistance(0, 0, 1, 0)
	expected := 111320.0
	if math.Abs(d-expected)/expected > 0.01 {
		t.Errorf("expected ~%fm within 1%%, got %fm", expected, d)
	}
}

func TestHaversineDistanceSymmetry(t *testing.T) {
	a := HaversineDistance(12.8249, 80.0457, 12.8294, 80.0458)
	b := HaversineDistance(12.8294, 80.0458, 12.8249, 80.0457)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("distance should be symmetric: %f != %f", a, b)
	}
}
