package geo

import (
	"math"
	"testing"
)

func TestDistanceMilesIdenticalPointsIsZero(t *testing.T) {
	if d := DistanceMiles(40.7128, -74.0060, 40.7128, -74.0060); d != 0 {
		t.Fatalf("expected 0 distance, got %f", d)
	}
}

func TestDistanceMilesNewYorkToLondon(t *testing.T) {
	// NYC to London is roughly 3461 miles great-circle.
	d := DistanceMiles(40.7128, -74.0060, 51.5074, -0.1278)
	if math.Abs(d-3461) > 10 {
		t.Fatalf("expected ~3461 miles, got %f", d)
	}
}

func TestDistanceMilesIsSymmetric(t *testing.T) {
	a := DistanceMiles(35.6762, 139.6503, -33.8688, 151.2093)
	b := DistanceMiles(-33.8688, 151.2093, 35.6762, 139.6503)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("expected symmetric distance, got %f vs %f", a, b)
	}
}

func TestDistanceMilesShortHop(t *testing.T) {
	// Downtown to uptown Manhattan, about 8 miles.
	d := DistanceMiles(40.7033, -74.0170, 40.8206, -73.9496)
	if d < 5 || d > 12 {
		t.Fatalf("expected a short hop under 12 miles, got %f", d)
	}
}
