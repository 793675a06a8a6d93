package geo

import (
	"math"

	"carpool/internal/domain"
)

const (
	earthRadiusMeters = 6371000.0
	// Assumed average driving speed for straight-line estimates.
	fallbackSpeedMps = 50.0 * 1000.0 / 3600.0
)

// Haversine returns the great-circle distance in meters.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180.0 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// Route is a driving route, provider-computed or straight-line estimated.
type Route struct {
	DistanceMeters  float64           `json:"distance"`
	DurationSeconds float64           `json:"duration"`
	Geometry        domain.LineString `json:"geometry"`
	BBox            domain.BBox       `json:"bbox"`
	Fallback        bool              `json:"fallback"`
}

// FallbackRoute estimates a route as the great-circle segment between the two
// points, with duration derived from a fixed average speed.
func FallbackRoute(origin, dest domain.Coord) Route {
	dist := Haversine(origin.Lat, origin.Lng, dest.Lat, dest.Lng)
	return Route{
		DistanceMeters:  dist,
		DurationSeconds: dist / fallbackSpeedMps,
		Geometry: domain.NewLineString(
			[2]float64{origin.Lng, origin.Lat},
			[2]float64{dest.Lng, dest.Lat},
		),
		BBox:     bboxOf(origin, dest),
		Fallback: true,
	}
}

func bboxOf(a, b domain.Coord) domain.BBox {
	return domain.BBox{
		math.Min(a.Lng, b.Lng),
		math.Min(a.Lat, b.Lat),
		math.Max(a.Lng, b.Lng),
		math.Max(a.Lat, b.Lat),
	}
}

// ValidCoord rejects out-of-range WGS84 values.
func ValidCoord(c domain.Coord) bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}
