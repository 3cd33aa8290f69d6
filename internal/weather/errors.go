package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAPIKey is returned when a provider needs credentials that are not configured.
	ErrNoAPIKey = errors.New("provider api key is not configured")
	// ErrEmptyQuery is returned for blank place searches.
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrNoPlace is returned by Session when nothing has been selected yet.
	ErrNoPlace = errors.New("no place selected")
)

// ProviderError describes a failed call to the weather provider: transport,
// authentication, non-2xx status or an undecodable response.
type ProviderError struct {
	Provider   string
	Op         string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Provider, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError reports whether err carries a *ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
