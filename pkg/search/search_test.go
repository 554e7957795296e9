package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/transit"
)

type fakeAPI struct {
	mu      sync.Mutex
	queries []string
	err     error
}

func (f *fakeAPI) SearchStations(_ context.Context, query string) ([]transit.Station, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return []transit.Station{{ID: "1", Name: query}}, nil
}

func (f *fakeAPI) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func TestSearch_BlankQueryNoRequest(t *testing.T) {
	api := &fakeAPI{}
	s := New(api, 10*time.Millisecond, nil)

	for _, q := range []string{"", "  ", "\t"} {
		stations, err := s.Search(context.Background(), q)
		require.NoError(t, err)
		assert.Empty(t, stations)
	}
	assert.Empty(t, api.calls())
}

func TestSearch_TrimsAndSearches(t *testing.T) {
	api := &fakeAPI{}
	s := New(api, 10*time.Millisecond, nil)

	stations, err := s.Search(context.Background(), "  Bern ")
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, []string{"Bern"}, api.calls())
}

func TestSearch_TypingOnlyFiresOnce(t *testing.T) {
	api := &fakeAPI{}
	superseded := 0
	var mu sync.Mutex
	s := New(api, 60*time.Millisecond, func() {
		mu.Lock()
		superseded++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i, q := range []string{"Lu", "Luz", "Luzern"} {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			_, errs[i] = s.Search(context.Background(), q)
		}(i, q)
		time.Sleep(5 * time.Millisecond)
	}
	wg.Wait()

	assert.Equal(t, []string{"Luzern"}, api.calls())
	assert.True(t, IsSuperseded(errs[0]))
	assert.True(t, IsSuperseded(errs[1]))
	assert.NoError(t, errs[2])

	mu.Lock()
	assert.Equal(t, 2, superseded)
	mu.Unlock()
}

func TestSearch_ClearingCancelsPending(t *testing.T) {
	api := &fakeAPI{}
	s := New(api, 50*time.Millisecond, nil)

	done := make(chan error, 1)
	go func() {
		_, err := s.Search(context.Background(), "Basel")
		done <- err
	}()
	time.Sleep(5 * time.Millisecond)

	stations, err := s.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, stations)

	assert.True(t, IsSuperseded(<-done))
	assert.Empty(t, api.calls())
}

func TestSearch_Error(t *testing.T) {
	api := &fakeAPI{err: transit.ErrNetwork}
	s := New(api, time.Millisecond, nil)

	_, err := s.Search(context.Background(), "Chur")
	assert.True(t, errors.Is(err, transit.ErrNetwork))
	assert.False(t, IsSuperseded(err))
}
