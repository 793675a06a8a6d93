package domain

// Pagination carries paging params and computed totals.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Coord is a WGS84 point.
type Coord struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LineString is a GeoJSON-style polyline of [lon, lat] pairs.
type LineString struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// NewLineString builds a LineString from coords in [lon, lat] order.
func NewLineString(coords ...[2]float64) LineString {
	return LineString{Type: "LineString", Coordinates: coords}
}

// BBox is an axis-aligned bounding box: [minLon, minLat, maxLon, maxLat].
type BBox [4]float64

// RouteGeometry is the stored/derived shape of a trip, a LineString plus the
// endpoints it was built from.
type RouteGeometry struct {
	Line        LineString `json:"line"`
	Origin      Coord      `json:"origin"`
	Destination Coord      `json:"destination"`
}
