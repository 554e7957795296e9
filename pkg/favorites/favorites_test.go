package favorites

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/geo"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/store"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/transit"
)

var (
	hb          = transit.Station{ID: "8503000", Name: "Zürich HB", Coordinate: geo.Coordinate{Latitude: 47.3769, Longitude: 8.5417}}
	stadelhofen = transit.Station{ID: "8503003", Name: "Zürich Stadelhofen", Coordinate: geo.Coordinate{Latitude: 47.3667, Longitude: 8.5485}}
	central     = transit.Station{ID: "8591105", Name: "Zürich, Central", Coordinate: geo.Coordinate{Latitude: 47.3770, Longitude: 8.5440}}
)

func newLoaded(t *testing.T, kv store.Store) *Store {
	t.Helper()
	s := New(kv)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestFavorites_AddRemove(t *testing.T) {
	ctx := context.Background()
	s := newLoaded(t, store.NewMemory())

	assert.False(t, s.IsFavorite(hb.ID))
	require.NoError(t, s.Add(ctx, hb))
	require.NoError(t, s.Add(ctx, stadelhofen))
	assert.True(t, s.IsFavorite(hb.ID))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, hb.ID, list[0].ID, "insertion order kept")
	assert.True(t, list[0].IsFavorite)

	require.NoError(t, s.Remove(ctx, hb.ID))
	assert.False(t, s.IsFavorite(hb.ID))
	assert.Len(t, s.List(), 1)

	// Unknown id is a no-op
	require.NoError(t, s.Remove(ctx, "nope"))
	assert.Len(t, s.List(), 1)
}

func TestFavorites_DoubleAddKeepsOneEntry(t *testing.T) {
	ctx := context.Background()
	s := newLoaded(t, store.NewMemory())

	require.NoError(t, s.Add(ctx, hb))
	require.NoError(t, s.Add(ctx, hb))

	assert.Len(t, s.List(), 1, "favorites behave as a set keyed by station id")
}

func TestFavorites_ToggleSequence(t *testing.T) {
	ctx := context.Background()
	s := newLoaded(t, store.NewMemory())

	on, err := s.Toggle(ctx, central)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = s.Toggle(ctx, central)
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, s.IsFavorite(central.ID))

	on, err = s.Toggle(ctx, central)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, s.IsFavorite(central.ID))
	assert.Len(t, s.List(), 1)
}

func TestFavorites_PersistAcrossSessions(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	kv, err := store.OpenFile(path)
	require.NoError(t, err)
	s := newLoaded(t, kv)

	withDistance := hb
	d := 42.0
	withDistance.Distance = &d
	require.NoError(t, s.Add(ctx, withDistance))
	require.NoError(t, s.Add(ctx, central))

	reopened, err := store.OpenFile(path)
	require.NoError(t, err)
	next := newLoaded(t, reopened)

	list := next.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Zürich HB", list[0].Name)
	assert.Equal(t, hb.Coordinate, list[0].Coordinate)
	assert.Nil(t, list[0].Distance, "distance is not persisted")
	assert.True(t, next.IsFavorite(central.ID))
}

type failingStore struct {
	store.Store
}

func (failingStore) Put(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestFavorites_FailedSaveLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	s := newLoaded(t, failingStore{store.NewMemory()})

	err := s.Add(ctx, hb)
	require.Error(t, err)
	assert.False(t, s.IsFavorite(hb.ID))
	assert.Empty(t, s.List())
}

func TestFavorites_LoadCorrupt(t *testing.T) {
	kv := store.NewMemory()
	require.NoError(t, kv.Put(context.Background(), StoreKey, []byte(`{"not":"a list"}`)))

	assert.Error(t, New(kv).Load(context.Background()))
}

func TestMerge(t *testing.T) {
	d1, d2 := 10.0, 300.0
	nearHB := hb
	nearHB.Distance = &d1
	nearCentral := central
	nearCentral.Distance = &d2

	merged := Merge([]transit.Station{stadelhofen, hb}, []transit.Station{nearHB, nearCentral})

	require.Len(t, merged, 3)
	assert.Equal(t, []string{stadelhofen.ID, hb.ID, central.ID}, []string{merged[0].ID, merged[1].ID, merged[2].ID})
	assert.True(t, merged[0].IsFavorite)
	assert.True(t, merged[1].IsFavorite)
	assert.False(t, merged[2].IsFavorite)
}
