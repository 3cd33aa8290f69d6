package providers

import (
	"context"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weatherview/internal/weather"
)

// GeocodeFunc resolves a free-text place name to a single place.
type GeocodeFunc func(query string) (weather.Place, error)

// GeocoderFallback answers place searches from the wrapped provider and, when
// that finds nothing, from a secondary geocoder.
type GeocoderFallback struct {
	weather.Provider
	geocode GeocodeFunc
}

// NewGeocoderFallback wraps provider with the given secondary geocoder.
func NewGeocoderFallback(provider weather.Provider, geocode GeocodeFunc) *GeocoderFallback {
	return &GeocoderFallback{Provider: provider, geocode: geocode}
}

// NewGoogleGeocoderFallback wraps provider with the Google Maps geocoding API.
func NewGoogleGeocoderFallback(provider weather.Provider, apiKey string) *GeocoderFallback {
	geocoder.ApiKey = apiKey
	return NewGeocoderFallback(provider, googleGeocode)
}

func (g *GeocoderFallback) SearchPlaces(ctx context.Context, query string) ([]weather.Place, error) {
	places, err := g.Provider.SearchPlaces(ctx, query)
	if err != nil || len(places) > 0 {
		return places, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	place, gerr := g.geocode(query)
	if gerr != nil {
		// The primary provider answered; an empty result is still a valid answer.
		return places, nil
	}
	return []weather.Place{place}, nil
}

func googleGeocode(query string) (weather.Place, error) {
	loc, err := geocoder.Geocoding(geocoder.Address{City: query})
	if err != nil {
		return weather.Place{}, &weather.ProviderError{Provider: "google-geocoder", Op: "search", Err: err}
	}

	place := weather.Place{
		Name: query,
		Lat:  loc.Latitude,
		Lon:  loc.Longitude,
	}
	if addrs, err := geocoder.GeocodingReverse(loc); err == nil && len(addrs) > 0 {
		if addrs[0].City != "" {
			place.Name = addrs[0].City
		}
		place.Country = addrs[0].Country
	}
	return place, nil
}

var _ weather.Provider = (*GeocoderFallback)(nil)
