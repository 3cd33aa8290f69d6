package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir()) // no .env
	for _, k := range []string{"FAVORITES_BACKEND", "REFRESH_INTERVAL", "DEFAULT_LOCATION_LAT", "DEFAULT_LOCATION_LON", "DEFAULT_LOCATION_NAME", "PROVIDER_RPS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendSQLite, cfg.FavoritesBackend)
	require.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	require.Equal(t, "New York", cfg.DefaultPlace.Name)
	require.Equal(t, 40.7128, cfg.DefaultPlace.Lat)
	require.Equal(t, -74.006, cfg.DefaultPlace.Lon)
	require.Equal(t, 1.0, cfg.ProviderRPS)
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("FAVORITES_BACKEND", "Valkey")
	t.Setenv("VALKEY_ADDR", "redis://cache:6379/0")
	t.Setenv("DEFAULT_LOCATION_NAME", "Tokyo")
	t.Setenv("DEFAULT_LOCATION_LAT", "35.6762")
	t.Setenv("DEFAULT_LOCATION_LON", "139.6503")
	t.Setenv("REFRESH_INTERVAL", "0s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendValkey, cfg.FavoritesBackend)
	require.Equal(t, "redis://cache:6379/0", cfg.ValkeyAddr)
	require.Equal(t, "Tokyo", cfg.DefaultPlace.Name)
	require.Equal(t, 139.6503, cfg.DefaultPlace.Lon)
	require.Zero(t, cfg.RefreshInterval)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("FAVORITES_BACKEND", "localstorage")
	_, err := Load()
	require.Error(t, err)
	t.Setenv("FAVORITES_BACKEND", "")

	t.Setenv("DEFAULT_LOCATION_LAT", "95")
	_, err = Load()
	require.Error(t, err)
	t.Setenv("DEFAULT_LOCATION_LAT", "")

	t.Setenv("REFRESH_INTERVAL", "soon")
	_, err = Load()
	require.Error(t, err)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
