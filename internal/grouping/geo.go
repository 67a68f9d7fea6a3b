package grouping

import (
	"math"
	"time"

	"github.com/bwise1/travelog/internal/model"
)

const earthRadiusKm = 6371.0

// Placement is where a photo was taken. It is either Coordinates or NoLocation.
type Placement interface {
	isPlacement()
}

// Coordinates is a validated decimal-degree pair.
type Coordinates struct {
	Lat float64
	Lon float64
}

// NoLocation marks a photo whose coordinates are missing, partial or malformed.
type NoLocation struct{}

func (Coordinates) isPlacement() {}
func (NoLocation) isPlacement()  {}

// PlacementOf maps a photo's raw coordinate pair to a Placement. A pair with one
// side missing, a non-finite value, or a value outside the valid degree range is
// NoLocation.
func PlacementOf(p model.PhotoRecord) Placement {
	if p.Latitude == nil || p.Longitude == nil {
		return NoLocation{}
	}
	lat, lon := *p.Latitude, *p.Longitude
	if !finite(lat) || !finite(lon) {
		return NoLocation{}
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return NoLocation{}
	}
	return Coordinates{Lat: lat, Lon: lon}
}

// DistanceKm is the haversine great-circle distance between a and b.
func DistanceKm(a, b Coordinates) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// HoursBetween is the absolute difference between a and b in hours.
func HoursBetween(a, b time.Time) float64 {
	return math.Abs(a.Sub(b).Hours())
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
