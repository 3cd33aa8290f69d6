package providers

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/i474232898/weatherview/internal/weather"
)

// RateLimited wraps a weather.Provider so that calls respect the provider's quota.
// FetchConditions issues two upstream requests and waits for two tokens.
type RateLimited struct {
	provider weather.Provider
	limiter  *rate.Limiter
}

// NewRateLimited creates a rate limited provider.
// rps is the maximum requests per second allowed (can be fractional), burst the maximum burst size.
func NewRateLimited(provider weather.Provider, rps float64, burst int) *RateLimited {
	if burst < 2 {
		burst = 2
	}
	return &RateLimited{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimited) Name() string {
	return r.provider.Name()
}

func (r *RateLimited) SearchPlaces(ctx context.Context, query string) ([]weather.Place, error) {
	if err := r.wait(ctx, "search", 1); err != nil {
		return nil, err
	}
	return r.provider.SearchPlaces(ctx, query)
}

func (r *RateLimited) FetchConditions(ctx context.Context, lat, lon float64) (weather.Conditions, error) {
	if err := r.wait(ctx, "conditions", 2); err != nil {
		return weather.Conditions{}, err
	}
	return r.provider.FetchConditions(ctx, lat, lon)
}

func (r *RateLimited) wait(ctx context.Context, op string, n int) error {
	if err := r.limiter.WaitN(ctx, n); err != nil {
		return &weather.ProviderError{
			Provider: r.provider.Name(),
			Op:       op,
			Err:      fmt.Errorf("rate limit wait canceled: %w", err),
		}
	}
	return nil
}

var _ weather.Provider = (*RateLimited)(nil)
