package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrPlaceNotFound is returned when a name lookup yields no candidates.
var ErrPlaceNotFound = errors.New("no place matches the query")

// Session orchestrates provider lookups for a single viewer: it remembers the
// selected place and the last snapshot that was applied for it.
//
// Lookups may overlap. Only the result of the most recently requested place is
// applied; results of superseded lookups are returned to their caller and dropped.
type Session struct {
	provider Provider
	logger   *slog.Logger

	mu       sync.Mutex
	seq      uint64
	selected *Place
	snapshot *WeatherSnapshot
}

// NewSession creates a new Session.
func NewSession(provider Provider, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		provider: provider,
		logger:   logger,
	}
}

// Search resolves a place name into candidate places.
func (s *Session) Search(ctx context.Context, query string) ([]Place, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	places, err := s.provider.SearchPlaces(ctx, q)
	if err != nil {
		s.logger.Error("place search failed", "query", q, "provider", s.provider.Name(), "error", err)
		return nil, err
	}
	return places, nil
}

// SelectByName resolves query and selects the first candidate.
func (s *Session) SelectByName(ctx context.Context, query string) (WeatherSnapshot, error) {
	places, err := s.Search(ctx, query)
	if err != nil {
		return WeatherSnapshot{}, err
	}
	if len(places) == 0 {
		return WeatherSnapshot{}, fmt.Errorf("%w: %q", ErrPlaceNotFound, query)
	}
	return s.Select(ctx, places[0])
}

// Select makes place the current place and fetches its weather.
func (s *Session) Select(ctx context.Context, place Place) (WeatherSnapshot, error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	p := place
	s.selected = &p
	s.mu.Unlock()

	return s.fetch(ctx, seq, place)
}

// Retry re-fetches the currently selected place.
func (s *Session) Retry(ctx context.Context) (WeatherSnapshot, error) {
	s.mu.Lock()
	if s.selected == nil {
		s.mu.Unlock()
		return WeatherSnapshot{}, ErrNoPlace
	}
	place := *s.selected
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	return s.fetch(ctx, seq, place)
}

// Selected returns the currently selected place, if any.
func (s *Session) Selected() (Place, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return Place{}, false
	}
	return *s.selected, true
}

// Current returns the last applied snapshot.
func (s *Session) Current() (WeatherSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return WeatherSnapshot{}, false
	}
	return *s.snapshot, true
}

func (s *Session) fetch(ctx context.Context, seq uint64, place Place) (WeatherSnapshot, error) {
	reqID := uuid.NewString()
	log := s.logger.With("request_id", reqID, "place", place.ID(), "provider", s.provider.Name())
	log.Debug("weather lookup started")

	cond, err := s.provider.FetchConditions(ctx, place.Lat, place.Lon)
	if err != nil {
		log.Error("weather lookup failed", "error", err)
		return WeatherSnapshot{}, err
	}

	snap := WeatherSnapshot{
		Place:    cond.Place,
		Current:  cond.Current,
		Forecast: AggregateDaily(cond.Intervals),
	}
	// Identity follows the requested coordinates, not the provider's.
	snap.Place.Lat = place.Lat
	snap.Place.Lon = place.Lon
	if snap.Place.Name == "" {
		snap.Place.Name = place.Name
	}
	if snap.Place.Country == "" {
		snap.Place.Country = place.Country
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		log.Info("discarding superseded weather lookup", "seq", seq, "latest", s.seq)
		return snap, nil
	}
	s.snapshot = &snap
	log.Debug("weather lookup applied", "days", len(snap.Forecast))
	return snap, nil
}

// Refresh re-fetches the selected place; with nothing selected it does nothing.
func (s *Session) Refresh(ctx context.Context) error {
	_, err := s.Retry(ctx)
	if errors.Is(err, ErrNoPlace) {
		return nil
	}
	return err
}
