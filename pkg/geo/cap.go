// Package geo answers "is this point inside the spherical cap of radius r
// meters around a center" on a sphere of radius EarthRadiusMeters.
package geo

import (
	"math"

	"github.com/tranhuy105/ITSS-CongAn-sub000/domain"
)

// EarthRadiusMeters is the equatorial radius used for every distance
// conversion in the catalog.
const EarthRadiusMeters = 6378100.0

type Point struct {
	Longitude float64
	Latitude  float64
}

func FromLocation(l domain.Location) Point {
	return Point{Longitude: l.Longitude, Latitude: l.Latitude}
}

// ValidatePoint rejects coordinates outside lon [-180, 180] and lat [-90, 90].
func ValidatePoint(p Point) error {
	if math.IsNaN(p.Longitude) || math.IsNaN(p.Latitude) {
		return domain.ErrInvalidLocation
	}
	if p.Longitude < -180 || p.Longitude > 180 || p.Latitude < -90 || p.Latitude > 90 {
		return domain.ErrInvalidLocation
	}
	return nil
}

func ValidateRadius(meters float64) error {
	if math.IsNaN(meters) || math.IsInf(meters, 0) || meters <= 0 {
		return domain.ErrInvalidRadius
	}
	return nil
}

// AngularRadius converts a surface distance to radians.
func AngularRadius(meters float64) float64 {
	return meters / EarthRadiusMeters
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
func toDeg(rad float64) float64 { return rad * 180 / math.Pi }

// CentralAngle is the great-circle angle between a and b in radians.
func CentralAngle(a, b Point) float64 {
	lat1, lat2 := toRad(a.Latitude), toRad(b.Latitude)
	dLat := lat2 - lat1
	dLon := toRad(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	if h > 1 {
		h = 1
	}
	return 2 * math.Asin(math.Sqrt(h))
}

// DistanceMeters is the great-circle distance between a and b.
func DistanceMeters(a, b Point) float64 {
	return CentralAngle(a, b) * EarthRadiusMeters
}

// Within reports whether p lies in the closed cap of radiusMeters around center.
func Within(center, p Point, radiusMeters float64) bool {
	return CentralAngle(center, p) <= AngularRadius(radiusMeters)
}

// Box is an axis-aligned lon/lat rectangle that contains a cap. When the cap
// crosses the antimeridian or reaches a pole the longitude span is the full
// [-180, 180] range.
type Box struct {
	MinLatitude  float64
	MaxLatitude  float64
	MinLongitude float64
	MaxLongitude float64
}

func (b Box) FullLongitude() bool {
	return b.MinLongitude <= -180 && b.MaxLongitude >= 180
}

// BoundingBox returns a box that contains every point of the cap. It is only a
// prefilter; Within is the exact test.
func BoundingBox(center Point, radiusMeters float64) Box {
	ang := AngularRadius(radiusMeters)
	if ang >= math.Pi {
		return Box{MinLatitude: -90, MaxLatitude: 90, MinLongitude: -180, MaxLongitude: 180}
	}

	lat := toRad(center.Latitude)
	minLat := lat - ang
	maxLat := lat + ang

	box := Box{MinLongitude: -180, MaxLongitude: 180}
	if minLat <= -math.Pi/2 || maxLat >= math.Pi/2 {
		box.MinLatitude = toDeg(math.Max(minLat, -math.Pi/2))
		box.MaxLatitude = toDeg(math.Min(maxLat, math.Pi/2))
		return box
	}

	box.MinLatitude = toDeg(minLat)
	box.MaxLatitude = toDeg(maxLat)

	dLon := math.Asin(math.Min(1, math.Sin(ang)/math.Cos(lat)))
	minLon := center.Longitude - toDeg(dLon)
	maxLon := center.Longitude + toDeg(dLon)
	if minLon < -180 || maxLon > 180 {
		return box
	}
	box.MinLongitude = minLon
	box.MaxLongitude = maxLon
	return box
}
