package weather

import (
	"strconv"
)

// Condition is the provider-supplied weather condition for a reading.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Place is a named geographic point.
// Two places with the same coordinates are the same place, whatever their name.
type Place struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// ID returns the identity of the place derived from its coordinates, e.g. "40.7128--74.006".
func (p Place) ID() string {
	return PlaceID(p.Lat, p.Lon)
}

// PlaceID formats a coordinate pair the same way ids were always written:
// shortest round-trip decimal, no exponent, negative zero printed as "0".
func PlaceID(lat, lon float64) string {
	return formatCoord(lat) + "-" + formatCoord(lon)
}

func formatCoord(v float64) string {
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RawForecastInterval is one provider sample; the provider emits one every 3 hours.
type RawForecastInterval struct {
	Timestamp int64     `json:"dt"` // unix seconds
	TempMin   float64   `json:"tempMin"`
	TempMax   float64   `json:"tempMax"`
	Condition Condition `json:"weather"`
}

// DailyForecast summarizes one UTC calendar day.
type DailyForecast struct {
	Timestamp int64     `json:"dt"` // first interval seen for the day
	TempMin   float64   `json:"tempMin"`
	TempMax   float64   `json:"tempMax"`
	Condition Condition `json:"weather"`
}

// CurrentConditions is the provider's current reading for a place.
type CurrentConditions struct {
	Temp      float64   `json:"temp"`
	FeelsLike float64   `json:"feelsLike"`
	Humidity  float64   `json:"humidity"`
	WindSpeed float64   `json:"windSpeed"`
	Condition Condition `json:"weather"`
	Timestamp int64     `json:"dt"`
}

// WeatherSnapshot is what gets displayed for a resolved place.
type WeatherSnapshot struct {
	Place    Place             `json:"location"`
	Current  CurrentConditions `json:"current"`
	Forecast []DailyForecast   `json:"forecast"`
}
