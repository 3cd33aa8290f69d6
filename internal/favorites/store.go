package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/i474232898/weatherview/internal/weather"
)

// Key is the storage key holding the serialized favorites.
const Key = "weather-app-favorites"

// ErrPersistence marks a failed read or write of the favorites value.
var ErrPersistence = errors.New("favorites persistence failed")

// KV is the durable key-value storage the Store persists into.
type KV interface {
	// Get returns ok=false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Favorite is a bookmarked place.
type Favorite struct {
	weather.Place
	ID      string `json:"id"`
	AddedAt int64  `json:"addedAt"` // unix millis
}

// Store owns the favorites collection and its persisted copy. The whole
// collection is rewritten on every mutation. Persistence failures are logged
// and swallowed: the in-memory state stays authoritative for the session.
type Store struct {
	kv     KV
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	items []Favorite
}

// NewStore creates an empty store; call Load to read persisted favorites.
func NewStore(kv KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		kv:     kv,
		logger: logger,
		now:    time.Now,
	}
}

// Load replaces the in-memory collection with the persisted one.
// A missing, unreadable or malformed value loads as empty.
func (s *Store) Load(ctx context.Context) []Favorite {
	items, err := s.read(ctx)
	if err != nil {
		s.logger.Error("error loading favorites", "key", Key, "error", err)
		items = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	return s.snapshot()
}

func (s *Store) read(ctx context.Context) ([]Favorite, error) {
	raw, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrPersistence, err)
	}
	if !ok {
		return nil, nil
	}
	var items []Favorite
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrPersistence, err)
	}
	return items, nil
}

// List returns the favorites in the order they were added.
func (s *Store) List() []Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// IsFavorite reports whether a place with the same coordinates is bookmarked.
func (s *Store) IsFavorite(place weather.Place) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(place.ID()) >= 0
}

// Add bookmarks place. Re-adding an existing place is a no-op; the first
// entry (and its name) wins. Reports whether the collection changed.
func (s *Store) Add(ctx context.Context, place weather.Place) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(ctx, place)
}

// Remove drops the favorite with the given id; unknown ids are ignored.
// Reports whether the collection changed.
func (s *Store) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(ctx, id)
}

// Toggle removes place if it is a favorite and adds it otherwise.
// It reports whether place is a favorite afterwards.
func (s *Store) Toggle(ctx context.Context, place weather.Place) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := place.ID()
	if s.indexOf(id) >= 0 {
		s.remove(ctx, id)
		return false
	}
	s.add(ctx, place)
	return true
}

func (s *Store) add(ctx context.Context, place weather.Place) bool {
	id := place.ID()
	if s.indexOf(id) >= 0 {
		return false
	}
	s.items = append(s.items, Favorite{
		Place:   place,
		ID:      id,
		AddedAt: s.now().UnixMilli(),
	})
	s.persist(ctx)
	return true
}

func (s *Store) remove(ctx context.Context, id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	s.persist(ctx)
	return true
}

// persist writes the full collection. Callers hold s.mu.
func (s *Store) persist(ctx context.Context) {
	items := s.items
	if items == nil {
		items = []Favorite{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		s.logger.Error("error saving favorites", "key", Key, "error", fmt.Errorf("%w: encode: %v", ErrPersistence, err))
		return
	}
	if err := s.kv.Set(ctx, Key, string(payload)); err != nil {
		s.logger.Error("error saving favorites", "key", Key, "error", fmt.Errorf("%w: write: %v", ErrPersistence, err))
	}
}

func (s *Store) indexOf(id string) int {
	for i, f := range s.items {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshot() []Favorite {
	out := make([]Favorite, len(s.items))
	copy(out, s.items)
	return out
}
