package weather

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlaceID(t *testing.T) {
	cases := []struct {
		lat, lon float64
		want     string
	}{
		{40.7128, -74.006, "40.7128--74.006"},
		{40.7, -74.0, "40.7--74"},
		{51.5073219, -0.1276474, "51.5073219--0.1276474"},
		{math.Copysign(0, -1), 0, "0-0"},
		{-33.8688, 151.2093, "-33.8688-151.2093"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, PlaceID(tc.lat, tc.lon))
	}
}

func TestPlaceIdentityIgnoresName(t *testing.T) {
	a := Place{Name: "NYC", Country: "US", Lat: 40.7, Lon: -74.0}
	b := Place{Name: "anything", Lat: 40.7, Lon: -74.0}
	require.Equal(t, a.ID(), b.ID())
}
