package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weatherview/internal/favorites"
	"github.com/i474232898/weatherview/internal/store"
	"github.com/i474232898/weatherview/internal/weather"
)

type stubProvider struct {
	err error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) SearchPlaces(_ context.Context, query string) ([]weather.Place, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []weather.Place{{Name: query, Country: "FR", Lat: 48.8566, Lon: 2.3522}}, nil
}

func (s *stubProvider) FetchConditions(_ context.Context, lat, lon float64) (weather.Conditions, error) {
	if s.err != nil {
		return weather.Conditions{}, s.err
	}
	return weather.Conditions{
		Place:   weather.Place{Name: "Paris", Country: "FR", Lat: lat, Lon: lon},
		Current: weather.CurrentConditions{Temp: 21},
		Intervals: []weather.RawForecastInterval{
			{Timestamp: 1719824400, TempMin: 14.2, TempMax: 16.8},
			{Timestamp: 1719835200, TempMin: 17.1, TempMax: 23.4},
		},
	}, nil
}

func newTestApp(t *testing.T, p weather.Provider) (*fiber.App, *favorites.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	favs := favorites.NewStore(store.NewMemoryKV(), logger)
	favs.Load(context.Background())
	RegisterRoutes(app, weather.NewSession(p, logger), favs)
	return app, favs
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestWeatherQueryValidation(t *testing.T) {
	app, _ := newTestApp(t, &stubProvider{})

	for _, target := range []string{
		"/api/v1/weather",
		"/api/v1/weather?lat=48.8",
		"/api/v1/weather?lat=abc&lon=2",
		"/api/v1/weather?lat=91&lon=2",
		"/api/v1/weather?lat=10&lon=-181",
	} {
		resp, _ := do(t, app, http.MethodGet, target, "")
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
	}

	resp, _ := do(t, app, http.MethodGet, "/api/v1/places", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWeatherLookupAndFavoriteFlag(t *testing.T) {
	app, favs := newTestApp(t, &stubProvider{})

	resp, _ := do(t, app, http.MethodGet, "/api/v1/weather/current", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := do(t, app, http.MethodGet, "/api/v1/weather?lat=48.8566&lon=2.3522&name=Paris", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Location   weather.Place           `json:"location"`
		Forecast   []weather.DailyForecast `json:"forecast"`
		IsFavorite bool                    `json:"isFavorite"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	require.Equal(t, "Paris", got.Location.Name)
	require.Len(t, got.Forecast, 1)
	require.Equal(t, 23.0, got.Forecast[0].TempMax)
	require.False(t, got.IsFavorite)

	favs.Add(context.Background(), weather.Place{Name: "other label", Lat: 48.8566, Lon: 2.3522})

	resp, body = do(t, app, http.MethodGet, "/api/v1/weather/current", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &got))
	require.True(t, got.IsFavorite)

	resp, _ = do(t, app, http.MethodPost, "/api/v1/weather/retry", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProviderFailureIsBadGateway(t *testing.T) {
	app, _ := newTestApp(t, &stubProvider{err: &weather.ProviderError{Provider: "stub", Op: "search", StatusCode: 401, Err: errors.New("Invalid API key.")}})

	resp, body := do(t, app, http.MethodGet, "/api/v1/places?q=Paris", "")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.Contains(t, string(body), `"error":true`)

	resp, _ = do(t, app, http.MethodPost, "/api/v1/weather/retry", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFavoritesEndpoints(t *testing.T) {
	app, favs := newTestApp(t, &stubProvider{})

	resp, _ := do(t, app, http.MethodPost, "/api/v1/favorites", `{"name":"NYC","country":"US","lat":40.7,"lon":-74.0}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPost, "/api/v1/favorites", `{"name":"anything","lat":40.7,"lon":-74.0}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPost, "/api/v1/favorites", `{"name":"no coords"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := do(t, app, http.MethodGet, "/api/v1/favorites", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []favorites.Favorite
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	require.Equal(t, "NYC", list[0].Name)
	require.Equal(t, "40.7--74", list[0].ID)

	resp, body = do(t, app, http.MethodPost, "/api/v1/favorites/toggle", `{"name":"London","country":"GB","lat":51.5,"lon":-0.12}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"id":"51.5--0.12","isFavorite":true}`, string(body))
	require.Len(t, favs.List(), 2)

	resp, _ = do(t, app, http.MethodDelete, "/api/v1/favorites/40.7--74", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, app, http.MethodDelete, "/api/v1/favorites/does-not-exist", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.Len(t, favs.List(), 1)
	require.Equal(t, "London", favs.List()[0].Name)
}
