// Package geo holds the great-circle helpers used to annotate rows with distances.
package geo

import (
	"math"
	"strconv"
	"strings"
)

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Point is a parsed latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Distance returns the haversine distance in kilometers between two coordinates.
// Callers must pass finite values; see ParsePoint.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Between is Distance over two points.
func Between(a, b Point) float64 {
	return Distance(a.Lat, a.Lon, b.Lat, b.Lon)
}

// ParsePoint parses optional numeric coordinate strings.
// ok is false when either value is empty, unparseable or not finite.
func ParsePoint(lat, lon string) (Point, bool) {
	la, ok := parseCoordinate(lat)
	if !ok {
		return Point{}, false
	}
	lo, ok := parseCoordinate(lon)
	if !ok {
		return Point{}, false
	}
	return Point{Lat: la, Lon: lo}, true
}

func parseCoordinate(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
