package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/store"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/transit"
)

// StoreKey is where the favorites list lives in the key-value store
const StoreKey = "nextup-favorites"

// Store is the user's list of favorite stations, kept in insertion order and keyed by station ID.
// Every mutation is written through to the backing key-value store before it returns.
type Store struct {
	kv store.Store

	mu       sync.RWMutex
	stations []transit.Station
}

// New wraps kv. Call Load before use to pick up favorites from a previous session.
func New(kv store.Store) *Store {
	return &Store{kv: kv}
}

// Load replaces the in-memory list with the persisted one. A missing key means no favorites yet.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, StoreKey)
	if errors.Is(err, store.ErrNotFound) {
		s.mu.Lock()
		s.stations = nil
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	var stations []transit.Station
	if err := json.Unmarshal(raw, &stations); err != nil {
		return fmt.Errorf("failed to parse favorites: %w", err)
	}

	s.mu.Lock()
	s.stations = stations
	s.mu.Unlock()
	return nil
}

// List returns a copy of the favorites in the order they were added
func (s *Store) List() []transit.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]transit.Station(nil), s.stations...)
}

// IsFavorite reports whether a station with this ID is in the list
func (s *Store) IsFavorite(stationID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(stationID) >= 0
}

// Add appends station unless one with the same ID is already present, in which case it is a no-op.
func (s *Store) Add(ctx context.Context, station transit.Station) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(ctx, station)
}

// Remove drops the station with this ID. Removing an unknown ID is not an error.
func (s *Store) Remove(ctx context.Context, stationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(ctx, stationID)
}

// Toggle removes the station if it is a favorite and adds it otherwise.
// It returns whether the station is a favorite afterwards.
func (s *Store) Toggle(ctx context.Context, station transit.Station) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(station.ID) >= 0 {
		return false, s.remove(ctx, station.ID)
	}
	return true, s.add(ctx, station)
}

func (s *Store) add(ctx context.Context, station transit.Station) error {
	if s.indexOf(station.ID) >= 0 {
		return nil
	}

	station.IsFavorite = true
	// Distance is relative to wherever the user was when they starred it
	station.Distance = nil

	next := append(append([]transit.Station(nil), s.stations...), station)
	if err := s.save(ctx, next); err != nil {
		return err
	}
	s.stations = next

	log.Debug().Str("station_id", station.ID).Str("station", station.Name).Msg("favorite added")
	return nil
}

func (s *Store) remove(ctx context.Context, stationID string) error {
	i := s.indexOf(stationID)
	if i < 0 {
		return nil
	}

	next := make([]transit.Station, 0, len(s.stations)-1)
	next = append(next, s.stations[:i]...)
	next = append(next, s.stations[i+1:]...)
	if err := s.save(ctx, next); err != nil {
		return err
	}
	s.stations = next

	log.Debug().Str("station_id", stationID).Msg("favorite removed")
	return nil
}

// save flushes stations to the key-value store. The in-memory list only changes once this succeeds.
func (s *Store) save(ctx context.Context, stations []transit.Station) error {
	if stations == nil {
		stations = []transit.Station{}
	}
	raw, err := json.Marshal(stations)
	if err != nil {
		return fmt.Errorf("failed to serialize favorites: %w", err)
	}
	if err := s.kv.Put(ctx, StoreKey, raw); err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	return nil
}

func (s *Store) indexOf(stationID string) int {
	for i, st := range s.stations {
		if st.ID == stationID {
			return i
		}
	}
	return -1
}

// Merge builds the station list shown on the home screen: favorites first, flagged as such,
// followed by the nearby stations that are not favorites, in their ranked order.
func Merge(favs []transit.Station, nearby []transit.Station) []transit.Station {
	seen := make(map[string]bool, len(favs))
	out := make([]transit.Station, 0, len(favs)+len(nearby))

	for _, f := range favs {
		f.IsFavorite = true
		seen[f.ID] = true
		out = append(out, f)
	}
	for _, n := range nearby {
		if seen[n.ID] {
			continue
		}
		out = append(out, n)
	}
	return out
}
