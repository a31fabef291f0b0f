package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCoord(t *testing.T) {
	lat, lng := 25.0330, 121.5654

	c := NewCoord(&lat, &lng)
	require.NotNil(t, c)
	require.Equal(t, lat, c.Latitude)
	require.Equal(t, lng, c.Longitude)

	require.Nil(t, NewCoord(nil, &lng))
	require.Nil(t, NewCoord(&lat, nil))
	require.Nil(t, NewCoord(nil, nil))
}

func TestDistance(t *testing.T) {
	// 同一點距離為0
	a := &Coord{Latitude: 25.0330, Longitude: 121.5654}
	d, err := Distance(a, a)
	require.NoError(t, err)
	require.InDelta(t, 0, d, 0.001)

	// 緯度差1度約111.19km
	b := &Coord{Latitude: 0, Longitude: 0}
	c := &Coord{Latitude: 1, Longitude: 0}
	d, err = Distance(b, c)
	require.NoError(t, err)
	require.InDelta(t, 111.19, d, 0.5)

	// 台北到高雄約300km
	taipei := &Coord{Latitude: 25.0330, Longitude: 121.5654}
	kaohsiung := &Coord{Latitude: 22.6273, Longitude: 120.3014}
	d, err = Distance(taipei, kaohsiung)
	require.NoError(t, err)
	require.InDelta(t, 300, d, 10)
}

func TestDistance_MissingCoordinate(t *testing.T) {
	a := &Coord{Latitude: 25.0330, Longitude: 121.5654}

	_, err := Distance(a, nil)
	require.ErrorIs(t, err, ErrMissingCoordinate)

	_, err = Distance(nil, a)
	require.ErrorIs(t, err, ErrMissingCoordinate)
}
