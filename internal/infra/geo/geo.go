package geo

import (
	"errors"
	"math"
)

var ErrMissingCoordinate = errors.New("missing coordinate")

const earthRadiusKm = 6371.0

type Coord struct {
	Latitude  float64
	Longitude float64
}

// NewCoord nil-safe建構，任一座標缺漏回傳nil
func NewCoord(lat, lng *float64) *Coord {
	if lat == nil || lng == nil {
		return nil
	}
	return &Coord{Latitude: *lat, Longitude: *lng}
}

// Distance 兩點間大圓距離(km)，haversine
func Distance(a, b *Coord) (float64, error) {
	if a == nil || b == nil {
		return 0, ErrMissingCoordinate
	}

	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c, nil
}
