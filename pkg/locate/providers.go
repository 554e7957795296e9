package locate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/geo"
)

// ErrNotSet is returned by a StaticProvider without a coordinate
var ErrNotSet = errors.New("no fixed coordinate set")

// StaticProvider returns a fixed position, e.g. from --lat/--lon or the saved home location
type StaticProvider struct {
	Coordinate *geo.Coordinate
}

func (StaticProvider) Name() string { return "static" }

func (s StaticProvider) Locate(ctx context.Context) (geo.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return geo.Coordinate{}, err
	}
	if s.Coordinate == nil {
		return geo.Coordinate{}, ErrNotSet
	}
	return *s.Coordinate, nil
}

const DefaultIPURL = "http://ip-api.com/json"

// IPProvider estimates the position from the public IP address
type IPProvider struct {
	URL        string
	HTTPClient *http.Client
}

func (IPProvider) Name() string { return "ip" }

type ipResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (p IPProvider) Locate(ctx context.Context) (geo.Coordinate, error) {
	url := p.URL
	if url == "" {
		url = DefaultIPURL
	}
	client := p.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return geo.Coordinate{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("failed to reach geolocation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Coordinate{}, fmt.Errorf("geolocation service returned %d", resp.StatusCode)
	}

	var out ipResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return geo.Coordinate{}, fmt.Errorf("failed to decode geolocation response: %w", err)
	}
	if out.Status != "success" {
		return geo.Coordinate{}, fmt.Errorf("geolocation lookup failed: %s", out.Message)
	}
	return geo.Coordinate{Latitude: out.Lat, Longitude: out.Lon}, nil
}
