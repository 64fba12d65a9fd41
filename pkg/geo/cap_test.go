package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranhuy105/ITSS-CongAn-sub000/domain"
)

var hanoi = Point{Longitude: 105.8342, Latitude: 21.0278}

func TestWithin_SamePointIsInside(t *testing.T) {
	assert.True(t, Within(hanoi, hanoi, 500))
}

func TestWithin_FarPointWithTinyRadius(t *testing.T) {
	// roughly 10 km east
	far := Point{Longitude: hanoi.Longitude + 0.0963, Latitude: hanoi.Latitude}
	d := DistanceMeters(hanoi, far)
	require.InDelta(t, 10000, d, 200)

	assert.False(t, Within(hanoi, far, 0.5))
	assert.True(t, Within(hanoi, far, 10500))
	assert.False(t, Within(hanoi, far, 9500))
}

func TestAngularRadius(t *testing.T) {
	assert.InDelta(t, 1.0, AngularRadius(EarthRadiusMeters), 1e-12)
	assert.InDelta(t, 500/6378100.0, AngularRadius(500), 1e-15)
}

func TestDistanceMeters_Quadrant(t *testing.T) {
	a := Point{Longitude: 0, Latitude: 0}
	b := Point{Longitude: 90, Latitude: 0}
	assert.InDelta(t, math.Pi/2*EarthRadiusMeters, DistanceMeters(a, b), 1e-6)
}

func TestValidatePoint(t *testing.T) {
	assert.NoError(t, ValidatePoint(Point{Longitude: 180, Latitude: -90}))
	assert.NoError(t, ValidatePoint(hanoi))
	assert.ErrorIs(t, ValidatePoint(Point{Longitude: 181, Latitude: 0}), domain.ErrInvalidLocation)
	assert.ErrorIs(t, ValidatePoint(Point{Longitude: 0, Latitude: 91}), domain.ErrValidation)
	assert.ErrorIs(t, ValidatePoint(Point{Longitude: math.NaN(), Latitude: 0}), domain.ErrInvalidLocation)
}

func TestValidateRadius(t *testing.T) {
	assert.NoError(t, ValidateRadius(1))
	assert.ErrorIs(t, ValidateRadius(0), domain.ErrInvalidRadius)
	assert.ErrorIs(t, ValidateRadius(-5), domain.ErrInvalidRadius)
}

func TestBoundingBox_ContainsCap(t *testing.T) {
	box := BoundingBox(hanoi, 5000)
	assert.False(t, box.FullLongitude())
	assert.Less(t, box.MinLatitude, hanoi.Latitude)
	assert.Greater(t, box.MaxLatitude, hanoi.Latitude)

	// points on the cap boundary in each cardinal direction stay inside the box
	for _, bearing := range []float64{0, 90, 180, 270} {
		p := destination(hanoi, bearing, 4999)
		require.True(t, Within(hanoi, p, 5000))
		assert.GreaterOrEqual(t, p.Latitude, box.MinLatitude)
		assert.LessOrEqual(t, p.Latitude, box.MaxLatitude)
		assert.GreaterOrEqual(t, p.Longitude, box.MinLongitude)
		assert.LessOrEqual(t, p.Longitude, box.MaxLongitude)
	}
}

func TestBoundingBox_Antimeridian(t *testing.T) {
	box := BoundingBox(Point{Longitude: 179.99, Latitude: 0}, 5000)
	assert.True(t, box.FullLongitude())
	assert.True(t, Within(Point{Longitude: 179.99, Latitude: 0}, Point{Longitude: -179.99, Latitude: 0}, 5000))
}

func TestBoundingBox_Pole(t *testing.T) {
	box := BoundingBox(Point{Longitude: 10, Latitude: 89.99}, 5000)
	assert.True(t, box.FullLongitude())
	assert.Equal(t, 90.0, box.MaxLatitude)
}

func TestBoundingBox_HugeRadius(t *testing.T) {
	box := BoundingBox(hanoi, 4*EarthRadiusMeters)
	assert.Equal(t, Box{MinLatitude: -90, MaxLatitude: 90, MinLongitude: -180, MaxLongitude: 180}, box)
}

// destination walks meters from p along bearing degrees.
func destination(p Point, bearing, meters float64) Point {
	ang := meters / EarthRadiusMeters
	br := toRad(bearing)
	lat1, lon1 := toRad(p.Latitude), toRad(p.Longitude)
	lat2 := math.Asin(math.Sin(lat1)*math.Cos(ang) + math.Cos(lat1)*math.Sin(ang)*math.Cos(br))
	lon2 := lon1 + math.Atan2(math.Sin(br)*math.Sin(ang)*math.Cos(lat1), math.Cos(ang)-math.Sin(lat1)*math.Sin(lat2))
	return Point{Longitude: toDeg(lon2), Latitude: toDeg(lat2)}
}
