package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/task"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/transit"
)

// DefaultDelay is the quiet period after the last keystroke before a search hits the network
const DefaultDelay = 300 * time.Millisecond

// StationSearcher is the part of the transit client the searcher needs
type StationSearcher interface {
	SearchStations(ctx context.Context, query string) ([]transit.Station, error)
}

// Searcher debounces free-text station lookups. Each call supersedes the previous one.
type Searcher struct {
	api      StationSearcher
	debounce *task.Debouncer[[]transit.Station]
}

func New(api StationSearcher, delay time.Duration, onSuperseded func()) *Searcher {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Searcher{
		api:      api,
		debounce: task.NewDebouncer[[]transit.Station](delay, onSuperseded),
	}
}

// Search returns stations matching query once the user stopped typing.
// A blank query clears any pending lookup and returns no stations immediately, without a request.
// Callers that were overtaken by newer input get task.ErrSuperseded and should discard the result.
func (s *Searcher) Search(ctx context.Context, query string) ([]transit.Station, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		s.debounce.Cancel()
		return nil, nil
	}

	stations, err := s.debounce.Do(ctx, func(ctx context.Context) ([]transit.Station, error) {
		return s.api.SearchStations(ctx, query)
	})
	if err != nil && !errors.Is(err, task.ErrSuperseded) {
		log.Warn().Err(err).Str("query", query).Msg("station search failed")
	}
	return stations, err
}

// IsSuperseded reports whether err only means newer input replaced the search
func IsSuperseded(err error) bool {
	return errors.Is(err, task.ErrSuperseded)
}

// Cancel drops any pending or in-flight search
func (s *Searcher) Cancel() {
	s.debounce.Cancel()
}
