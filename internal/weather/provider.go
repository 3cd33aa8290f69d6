package weather

import (
	"context"
)

// Provider abstracts the remote weather/geocoding source (e.g. OpenWeatherMap).
// Implementations return *ProviderError on failure.
type Provider interface {
	Name() string

	// SearchPlaces resolves a free-text place name into candidate places (typically <= 5).
	SearchPlaces(ctx context.Context, query string) ([]Place, error)

	// FetchConditions returns the place the provider resolved for the coordinates,
	// its current conditions and the raw 3-hour forecast feed.
	FetchConditions(ctx context.Context, lat, lon float64) (Conditions, error)
}

// Conditions is a provider response before forecast aggregation.
type Conditions struct {
	Place     Place
	Current   CurrentConditions
	Intervals []RawForecastInterval
}
