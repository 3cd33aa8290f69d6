package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weatherview/internal/weather"
)

// Favorites storage backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendValkey = "valkey"
)

type AppConfig struct {
	OpenWeatherAPIKey string
	GeocoderAPIKey    string // optional Google geocoding fallback

	HTTPTimeout time.Duration

	// Outbound quota for the weather provider.
	ProviderRPS   float64
	ProviderBurst int

	// RefreshInterval controls how often the selected place is re-fetched (0 = never).
	RefreshInterval time.Duration

	// DefaultPlace is loaded on startup.
	DefaultPlace weather.Place

	FavoritesBackend string
	FavoritesDBPath  string
	ValkeyAddr       string

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "15m"); err != nil {
		return nil, err
	}

	// OpenWeatherMap free tier allows 60 calls per minute.
	if cfg.ProviderRPS, err = getenvFloat("PROVIDER_RPS", 1); err != nil {
		return nil, err
	}
	cfg.ProviderBurst = getenvInt("PROVIDER_BURST", 5)

	if cfg.DefaultPlace, err = loadDefaultPlace(); err != nil {
		return nil, err
	}

	cfg.FavoritesBackend = strings.ToLower(getenvDefault("FAVORITES_BACKEND", BackendSQLite))
	switch cfg.FavoritesBackend {
	case BackendMemory, BackendSQLite, BackendValkey:
	default:
		return nil, fmt.Errorf("invalid FAVORITES_BACKEND %q", cfg.FavoritesBackend)
	}
	cfg.FavoritesDBPath = getenvDefault("FAVORITES_DB_PATH", "data/weatherview.db")
	cfg.ValkeyAddr = getenvDefault("VALKEY_ADDR", "localhost:6379")

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func loadDefaultPlace() (weather.Place, error) {
	lat, err := getenvFloat("DEFAULT_LOCATION_LAT", 40.7128)
	if err != nil {
		return weather.Place{}, err
	}
	lon, err := getenvFloat("DEFAULT_LOCATION_LON", -74.0060)
	if err != nil {
		return weather.Place{}, err
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return weather.Place{}, fmt.Errorf("default location out of range: %v,%v", lat, lon)
	}
	return weather.Place{
		Name:    getenvDefault("DEFAULT_LOCATION_NAME", "New York"),
		Country: getenvDefault("DEFAULT_LOCATION_COUNTRY", "US"),
		Lat:     lat,
		Lon:     lon,
	}, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
