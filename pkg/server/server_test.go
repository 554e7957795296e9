package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/favorites"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/geo"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/metrics"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/store"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/transit"
)

type fakeTransit struct {
	stations   []transit.Station
	departures []transit.Departure
	err        error

	gotCoord  geo.Coordinate
	gotRadius float64
	gotLimit  int
	searches  int
}

func (f *fakeTransit) FetchNearbyStations(_ context.Context, coord geo.Coordinate, radius float64) ([]transit.Station, error) {
	f.gotCoord, f.gotRadius = coord, radius
	return f.stations, f.err
}

func (f *fakeTransit) SearchStations(_ context.Context, text string) ([]transit.Station, error) {
	f.searches++
	return f.stations, f.err
}

func (f *fakeTransit) FetchStationboard(_ context.Context, name string, limit int) ([]transit.Departure, error) {
	f.gotLimit = limit
	return f.departures, f.err
}

func newTestServer(t *testing.T, api *fakeTransit) (*httptest.Server, *favorites.Store, *metrics.Collector) {
	t.Helper()
	favs := favorites.New(store.NewMemory())
	require.NoError(t, favs.Load(context.Background()))

	m := metrics.NewCollector()
	srv := httptest.NewServer(New(api, favs, Options{Metrics: m, CORSOrigins: []string{"http://localhost:5173"}}).Router())
	t.Cleanup(srv.Close)
	return srv, favs, m
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestNearby(t *testing.T) {
	d := 120.0
	api := &fakeTransit{stations: []transit.Station{
		{ID: "8503000", Name: "Zürich HB", Distance: &d},
		{ID: "8591105", Name: "Zürich, Central"},
	}}
	srv, favs, _ := newTestServer(t, api)
	require.NoError(t, favs.Add(context.Background(), transit.Station{ID: "8591105", Name: "Zürich, Central"}))

	var got []transit.Station
	status := getJSON(t, srv.URL+"/api/nearby?lat=47.3769&lon=8.5417&radius=500", &got)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, geo.Coordinate{Latitude: 47.3769, Longitude: 8.5417}, api.gotCoord)
	assert.Equal(t, 500.0, api.gotRadius)
	require.Len(t, got, 2)
	assert.False(t, got[0].IsFavorite)
	assert.True(t, got[1].IsFavorite)
	require.NotNil(t, got[0].Distance)
	assert.Equal(t, 120.0, *got[0].Distance)
}

func TestNearby_BadParams(t *testing.T) {
	srv, _, _ := newTestServer(t, &fakeTransit{})

	for _, query := range []string{"", "lat=abc&lon=8", "lat=95&lon=8", "lat=47&lon=8&radius=-1"} {
		var body ErrorResponse
		status := getJSON(t, srv.URL+"/api/nearby?"+query, &body)
		assert.Equal(t, http.StatusBadRequest, status, query)
		assert.NotEmpty(t, body.Error, query)
	}
}

func TestUpstreamFailure(t *testing.T) {
	api := &fakeTransit{err: fmt.Errorf("failed to fetch locations: %w", transit.ErrNetwork)}
	srv, _, _ := newTestServer(t, api)

	var body ErrorResponse
	status := getJSON(t, srv.URL+"/api/stationboard?station=Bern", &body)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "transit API unavailable", body.Error)
}

func TestSearch_EmptyQuery(t *testing.T) {
	api := &fakeTransit{}
	srv, _, _ := newTestServer(t, api)

	var got []transit.Station
	status := getJSON(t, srv.URL+"/api/search?q=%20%20", &got)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, got)
	assert.Zero(t, api.searches, "blank queries never reach the transit API")
}

func TestStationboard(t *testing.T) {
	api := &fakeTransit{departures: []transit.Departure{{ID: "x", Category: "T", Number: "4", To: "Tiefenbrunnen"}}}
	srv, _, _ := newTestServer(t, api)

	var got []transit.Departure
	status := getJSON(t, srv.URL+"/api/stationboard?station=Bellevue", &got)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, transit.DefaultStationboardSize, api.gotLimit)
	require.Len(t, got, 1)
	assert.Equal(t, "Tiefenbrunnen", got[0].To)

	status = getJSON(t, srv.URL+"/api/stationboard?station=Bellevue&limit=5", &got)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 5, api.gotLimit)

	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/api/stationboard", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/api/stationboard?station=Bern&limit=zero", nil))
}

func TestFavoritesLifecycle(t *testing.T) {
	srv, favs, _ := newTestServer(t, &fakeTransit{})
	body := `{"id":"8507000","name":"Bern","coordinate":{"latitude":46.948,"longitude":7.4394}}`

	resp, err := http.Post(srv.URL+"/api/favorites", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, favs.IsFavorite("8507000"))

	var list []transit.Station
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/favorites", &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Bern", list[0].Name)

	resp, err = http.Post(srv.URL+"/api/favorites/toggle", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	var toggled struct {
		IsFavorite bool `json:"isFavorite"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&toggled))
	resp.Body.Close()
	assert.False(t, toggled.IsFavorite)
	assert.False(t, favs.IsFavorite("8507000"))

	require.NoError(t, favs.Add(context.Background(), transit.Station{ID: "8507000", Name: "Bern"}))
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/favorites/8507000", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, favs.List())
}

func TestFavorites_InvalidBody(t *testing.T) {
	srv, _, _ := newTestServer(t, &fakeTransit{})

	for _, body := range []string{"not json", `{"id":"1"}`} {
		resp, err := http.Post(srv.URL+"/api/favorites", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _, _ := newTestServer(t, &fakeTransit{})

	var health map[string]interface{}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/health", &health))
	assert.Equal(t, "ok", health["status"])

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `nextup_http_requests_total{code="OK",route="/health"} 1`)
}

func TestCORS(t *testing.T) {
	srv, _, _ := newTestServer(t, &fakeTransit{})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}
