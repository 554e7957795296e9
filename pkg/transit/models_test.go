package transit

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/geo"
)

func intPtr(v int) *int { return &v }

func TestStop_Delay(t *testing.T) {
	assert.False(t, Stop{}.HasDelay(), "absent delay")
	assert.False(t, Stop{Delay: intPtr(0)}.HasDelay(), "zero delay")
	assert.False(t, Stop{Delay: intPtr(-2)}.HasDelay(), "negative delay")
	assert.Equal(t, 0, Stop{Delay: intPtr(-2)}.DelayMinutes())

	delayed := Stop{Delay: intPtr(5)}
	assert.True(t, delayed.HasDelay())
	assert.Equal(t, 5, delayed.DelayMinutes())
}

func TestStop_ExpectedDeparture(t *testing.T) {
	scheduled := time.Date(2026, 2, 25, 8, 15, 0, 0, time.UTC)
	s := Stop{Departure: Timestamp{scheduled}, Delay: intPtr(5)}
	assert.Equal(t, scheduled.Add(5*time.Minute), s.ExpectedDeparture())
}

func TestTimestamp_Formats(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2026-02-25T08:15:00+0100"`), &ts))
	assert.Equal(t, 7, ts.UTC().Hour())

	require.NoError(t, json.Unmarshal([]byte(`"2026-02-25T08:15:00+01:00"`), &ts))
	assert.Equal(t, 7, ts.UTC().Hour())

	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))

	out, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestStation_JSONShapes(t *testing.T) {
	var fromAPI Station
	require.NoError(t, json.Unmarshal([]byte(`{"id":"8503000","name":"Zürich HB","coordinate":{"type":"WGS84","x":47.3769,"y":8.5417},"distance":4}`), &fromAPI))
	assert.Equal(t, geo.Coordinate{Latitude: 47.3769, Longitude: 8.5417}, fromAPI.Coordinate)
	require.NotNil(t, fromAPI.Distance)
	assert.Equal(t, 4.0, *fromAPI.Distance)

	// Stored shape round trips through the same decoder
	d := 12.5
	fromAPI.Distance = &d
	fromAPI.IsFavorite = true
	raw, err := json.Marshal(fromAPI)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"8503000","name":"Zürich HB","coordinate":{"latitude":47.3769,"longitude":8.5417},"distance":12.5,"isFavorite":true}`, string(raw))

	var stored Station
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, fromAPI.Coordinate, stored.Coordinate)
	assert.True(t, stored.IsFavorite)
	require.NotNil(t, stored.Distance, "ranked distance survives a round trip")
	assert.Equal(t, 12.5, *stored.Distance)
}

func TestWithoutAPIDistance(t *testing.T) {
	d := 4.0
	in := []Station{{ID: "8503000", Distance: &d}}

	out := withoutAPIDistance(in)
	assert.Nil(t, out[0].Distance)
	require.NotNil(t, in[0].Distance, "input is left untouched")
}

func TestStation_MissingCoordinate(t *testing.T) {
	var s Station
	require.NoError(t, json.Unmarshal([]byte(`{"id":null,"name":"Somewhere","coordinate":{"type":"WGS84","x":null,"y":null}}`), &s))
	assert.True(t, math.IsNaN(s.Coordinate.Latitude))

	raw, err := json.Marshal(s)
	require.NoError(t, err, "NaN coordinates must not break encoding")
	assert.JSONEq(t, `{"id":"","name":"Somewhere","coordinate":null}`, string(raw))
}

func TestRankStations_DoesNotMutateInput(t *testing.T) {
	user := geo.Coordinate{Latitude: 47.3769, Longitude: 8.5417}
	in := []Station{
		{ID: "b", Coordinate: geo.Coordinate{Latitude: 47.3790, Longitude: 8.5417}},
		{ID: "a", Coordinate: user},
	}

	out := RankStations(user, in, 1000)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Nil(t, in[0].Distance)
	assert.Nil(t, in[1].Distance)
	require.NotNil(t, out[1].Distance)
	assert.InDelta(t, 233, *out[1].Distance, 2)
}

func TestDeparture_LineLabel(t *testing.T) {
	assert.Equal(t, "T 11", Departure{Category: "T", Number: "11"}.LineLabel())
	assert.Equal(t, "ICE", Departure{Category: "ICE"}.LineLabel())
}
