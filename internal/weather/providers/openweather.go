package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/i474232898/weatherview/internal/weather"
	"github.com/sony/gobreaker"
)

const (
	openWeatherDataURL = "https://api.openweathermap.org/data/2.5"
	openWeatherGeoURL  = "https://api.openweathermap.org/geo/1.0"

	searchLimit = 5
)

var errNoCondition = errors.New("response carries no weather condition")

// OpenWeatherProvider implements weather.Provider for OpenWeatherMap: direct
// geocoding, current weather and the 5 day / 3 hour forecast, all in metric units.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	dataURL string
	geoURL  string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		dataURL: openWeatherDataURL,
		geoURL:  openWeatherGeoURL,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: newCircuitBreaker("openweather"),
	}
}

// WithEndpoints points the provider at different data and geocoding roots.
func (p *OpenWeatherProvider) WithEndpoints(dataURL, geoURL string) *OpenWeatherProvider {
	p.dataURL = dataURL
	p.geoURL = geoURL
	return p
}

// WithBackoff overrides the retry policy.
func (p *OpenWeatherProvider) WithBackoff(b BackoffConfig) *OpenWeatherProvider {
	p.httpCfg.Backoff = b
	return p
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type owCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func firstCondition(items []owCondition) (weather.Condition, error) {
	if len(items) == 0 {
		return weather.Condition{}, errNoCondition
	}
	c := items[0]
	return weather.Condition{ID: c.ID, Main: c.Main, Description: c.Description, Icon: c.Icon}, nil
}

func (p *OpenWeatherProvider) SearchPlaces(ctx context.Context, query string) ([]weather.Place, error) {
	var payload []struct {
		Name    string  `json:"name"`
		Country string  `json:"country"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", strconv.Itoa(searchLimit))
	if err := p.getJSON(ctx, "search", p.geoURL+"/direct", values, &payload); err != nil {
		return nil, err
	}

	places := make([]weather.Place, 0, len(payload))
	for _, item := range payload {
		places = append(places, weather.Place{
			Name:    item.Name,
			Country: item.Country,
			Lat:     item.Lat,
			Lon:     item.Lon,
		})
	}
	return places, nil
}

func (p *OpenWeatherProvider) FetchConditions(ctx context.Context, lat, lon float64) (weather.Conditions, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("units", "metric")

	var current struct {
		Dt   int64  `json:"dt"`
		Name string `json:"name"`
		Sys  struct {
			Country string `json:"country"`
		} `json:"sys"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  float64 `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []owCondition `json:"weather"`
	}
	if err := p.getJSON(ctx, "current weather", p.dataURL+"/weather", values, &current); err != nil {
		return weather.Conditions{}, err
	}
	currentCond, err := firstCondition(current.Weather)
	if err != nil {
		return weather.Conditions{}, p.wrap("current weather", err)
	}

	var forecast struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				TempMin float64 `json:"temp_min"`
				TempMax float64 `json:"temp_max"`
			} `json:"main"`
			Weather []owCondition `json:"weather"`
		} `json:"list"`
	}
	if err := p.getJSON(ctx, "forecast", p.dataURL+"/forecast", values, &forecast); err != nil {
		return weather.Conditions{}, err
	}

	intervals := make([]weather.RawForecastInterval, 0, len(forecast.List))
	for _, item := range forecast.List {
		cond, err := firstCondition(item.Weather)
		if err != nil {
			return weather.Conditions{}, p.wrap("forecast", fmt.Errorf("interval %d: %w", item.Dt, err))
		}
		intervals = append(intervals, weather.RawForecastInterval{
			Timestamp: item.Dt,
			TempMin:   item.Main.TempMin,
			TempMax:   item.Main.TempMax,
			Condition: cond,
		})
	}

	return weather.Conditions{
		Place: weather.Place{
			Name:    current.Name,
			Country: current.Sys.Country,
			Lat:     lat,
			Lon:     lon,
		},
		Current: weather.CurrentConditions{
			Temp:      weather.RoundTemp(current.Main.Temp),
			FeelsLike: weather.RoundTemp(current.Main.FeelsLike),
			Humidity:  current.Main.Humidity,
			WindSpeed: current.Wind.Speed,
			Condition: currentCond,
			Timestamp: current.Dt,
		},
		Intervals: intervals,
	}, nil
}

func (p *OpenWeatherProvider) getJSON(ctx context.Context, op, endpoint string, values url.Values, out any) error {
	if p.apiKey == "" {
		return p.wrap(op, weather.ErrNoAPIKey)
	}
	values.Set("appid", p.apiKey)

	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, endpoint+"?"+values.Encode(), nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return p.wrap(op, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return p.wrap(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (p *OpenWeatherProvider) wrap(op string, err error) error {
	return &weather.ProviderError{
		Provider:   p.name,
		Op:         op,
		StatusCode: statusCode(err),
		Err:        err,
	}
}

var _ weather.Provider = (*OpenWeatherProvider)(nil)
