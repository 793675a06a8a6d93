package geo

import (
	"math"
	"testing"

	"carpool/internal/domain"
)

func TestHaversineZero(t *testing.T) {
	if d := Haversine(0, 0, 0, 0); d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestHaversineOneDegreeAtEquator(t *testing.T) {
	d := Haversine(0, 0, 0, 1)
	want := 111190.0
	if math.Abs(d-want)/want > 0.005 {
		t.Fatalf("distance outside tolerance: got %f want ~%f", d, want)
	}
}

func TestFallbackRouteIdenticalPoints(t *testing.T) {
	p := domain.Coord{Lat: 41.0, Lng: 28.9}
	r := FallbackRoute(p, p)
	if r.DistanceMeters != 0 {
		t.Fatalf("distance should be 0, got %f", r.DistanceMeters)
	}
	if r.DurationSeconds != 0 {
		t.Fatalf("duration should be 0, got %f", r.DurationSeconds)
	}
	if !r.Fallback {
		t.Fatalf("route should be marked as fallback")
	}
}

func TestFallbackRouteGeometry(t *testing.T) {
	r := FallbackRoute(domain.Coord{Lat: 0, Lng: 0}, domain.Coord{Lat: 0, Lng: 1})
	if len(r.Geometry.Coordinates) != 2 {
		t.Fatalf("expected exactly 2 coordinate pairs, got %d", len(r.Geometry.Coordinates))
	}
	if r.Geometry.Type != "LineString" {
		t.Fatalf("unexpected geometry type %q", r.Geometry.Type)
	}
	if r.Geometry.Coordinates[0] != [2]float64{0, 0} || r.Geometry.Coordinates[1] != [2]float64{1, 0} {
		t.Fatalf("coordinates not in [lon, lat] order: %v", r.Geometry.Coordinates)
	}
	wantBBox := domain.BBox{0, 0, 1, 0}
	if r.BBox != wantBBox {
		t.Fatalf("bbox mismatch: got %v want %v", r.BBox, wantBBox)
	}
	// ~111.19 km at 50 km/h is a bit over 2.2 hours
	if r.DurationSeconds < 7900 || r.DurationSeconds > 8100 {
		t.Fatalf("duration outside expected range: %f", r.DurationSeconds)
	}
}

func TestValidCoord(t *testing.T) {
	if !ValidCoord(domain.Coord{Lat: -90, Lng: 180}) {
		t.Fatalf("boundary coord should be valid")
	}
	if ValidCoord(domain.Coord{Lat: 91, Lng: 0}) {
		t.Fatalf("lat out of range should be invalid")
	}
	if ValidCoord(domain.Coord{Lat: 0, Lng: -181}) {
		t.Fatalf("lng out of range should be invalid")
	}
}

func TestValidAPIKey(t *testing.T) {
	if ValidAPIKey("short") {
		t.Fatalf("short key should fail the format check")
	}
	if ValidAPIKey("has spaces but is long enough!!") {
		t.Fatalf("key with bad charset should fail")
	}
	if !ValidAPIKey("5b3ce3597851110001cf6248abcDEF-_") {
		t.Fatalf("well-formed key should pass")
	}
}
