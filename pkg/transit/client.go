package transit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/geo"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/metrics"
)

const (
	DefaultBaseURL          = "https://transport.opendata.ch/v1"
	DefaultStationboardSize = 20

	userAgent = "nextup/1.0 (+https://github.com/bhavya-srm/swisstraffic-buddy)"
)

var (
	// ErrNetwork wraps transport-level failures (DNS, refused connection, timeout)
	ErrNetwork = errors.New("transit API unreachable")
	// ErrUnexpectedStatus is matched by every *StatusError
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrMalformedResponse wraps bodies that do not decode into the expected shape
	ErrMalformedResponse = errors.New("malformed transit API response")
)

// StatusError reports a non-2xx answer from the API
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status code: %d", e.Endpoint, e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// Options configures a Client. Zero values fall back to the defaults used by the CLI.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// MaxAttempts of 1 means every request is tried exactly once
	MaxAttempts int
	// RetryBackoff is multiplied by the attempt number between retries
	RetryBackoff time.Duration

	SearchCacheSize int
	SearchCacheTTL  time.Duration

	Metrics    *metrics.Collector
	HTTPClient *http.Client
}

// Client talks to the transport.opendata.ch REST API
type Client struct {
	baseURL      string
	httpClient   *http.Client
	maxAttempts  int
	retryBackoff time.Duration

	searchCache *expirable.LRU[string, []Station]
	metrics     *metrics.Collector
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.RetryBackoff == 0 {
		opts.RetryBackoff = time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	c := &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		httpClient:   opts.HTTPClient,
		maxAttempts:  opts.MaxAttempts,
		retryBackoff: opts.RetryBackoff,
		metrics:      opts.Metrics,
	}

	if opts.SearchCacheSize > 0 {
		ttl := opts.SearchCacheTTL
		if ttl <= 0 {
			ttl = time.Minute
		}
		c.searchCache = expirable.NewLRU[string, []Station](opts.SearchCacheSize, nil, ttl)
	}

	return c
}

// getWithRetries performs a GET and retries 502/503/504 answers while attempts remain.
// Context cancellation stops immediately and is never retried.
func (c *Client) getWithRetries(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		// Public APIs often block default Go user agents
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")
		requestID := uuid.NewString()
		req.Header.Set("X-Request-ID", requestID)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%w: %v", ErrNetwork, err)
		} else if resp.StatusCode == http.StatusBadGateway || resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusGatewayTimeout {
			// Transient answer, also worth another attempt
			if attempt == c.maxAttempts-1 {
				return resp, nil
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("transient status code: %d", resp.StatusCode)
		} else {
			return resp, nil
		}

		if attempt < c.maxAttempts-1 {
			log.Warn().
				Str("request_id", requestID).
				Int("attempt", attempt+1).
				Int("max_attempts", c.maxAttempts).
				Err(lastErr).
				Msg("transit API congested, retrying")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt+1) * c.retryBackoff):
			}
		}
	}

	if c.maxAttempts > 1 {
		return nil, fmt.Errorf("failed after %d attempts: %w", c.maxAttempts, lastErr)
	}
	return nil, lastErr
}

// getJSON requests path with query and decodes the body into out
func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, query.Encode())
	started := time.Now()

	resp, err := c.getWithRetries(ctx, reqURL)
	if err != nil {
		c.observe(endpoint, "network", started, err)
		return fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
		c.observe(endpoint, "status", started, err)
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(endpoint, "network", started, err)
		return fmt.Errorf("failed to read %s response body: %w: %v", endpoint, ErrNetwork, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.observe(endpoint, "decode", started, err)
		return fmt.Errorf("failed to decode %s JSON: %w: %v", endpoint, ErrMalformedResponse, err)
	}

	c.observe(endpoint, "ok", started, nil)
	return nil
}

func (c *Client) observe(endpoint, outcome string, started time.Time, err error) {
	took := time.Since(started)
	c.metrics.ObserveAPI(endpoint, outcome, took)

	event := log.Debug()
	if err != nil && !errors.Is(err, context.Canceled) {
		event = log.Warn().Err(err)
	}
	event.Str("endpoint", endpoint).Str("outcome", outcome).Dur("took", took).Msg("transit request")
}

// FetchNearbyStations asks the API for stations around coord and ranks them by distance,
// keeping only those within radiusMeters.
func (c *Client) FetchNearbyStations(ctx context.Context, coord geo.Coordinate, radiusMeters float64) ([]Station, error) {
	// The API documents x as latitude and y as longitude
	query := url.Values{}
	query.Set("x", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	query.Set("y", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	query.Set("type", "station")

	var stationResp StationResponse
	if err := c.getJSON(ctx, "locations", query, &stationResp); err != nil {
		return nil, err
	}

	return RankStations(coord, withoutAPIDistance(stationResp.Stations), radiusMeters), nil
}

// SearchStations looks up stations matching free text. A blank query returns no stations
// without touching the network.
func (c *Client) SearchStations(ctx context.Context, text string) ([]Station, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	key := strings.ToLower(text)
	if c.searchCache != nil {
		if cached, ok := c.searchCache.Get(key); ok {
			c.metrics.CacheLookup(true)
			return append([]Station(nil), cached...), nil
		}
		c.metrics.CacheLookup(false)
	}

	query := url.Values{}
	query.Set("query", text)
	query.Set("type", "station")

	var stationResp StationResponse
	if err := c.getJSON(ctx, "locations", query, &stationResp); err != nil {
		return nil, err
	}

	stations := withoutAPIDistance(stationResp.Stations)
	if c.searchCache != nil {
		c.searchCache.Add(key, stations)
	}
	return append([]Station(nil), stations...), nil
}

// FetchStationboard gets the next departures for a station by name. A limit <= 0 uses the default of 20.
func (c *Client) FetchStationboard(ctx context.Context, stationName string, limit int) ([]Departure, error) {
	if limit <= 0 {
		limit = DefaultStationboardSize
	}

	query := url.Values{}
	query.Set("station", stationName)
	query.Set("limit", strconv.Itoa(limit))

	var depResp DepartureResponse
	if err := c.getJSON(ctx, "stationboard", query, &depResp); err != nil {
		return nil, err
	}

	deps := depResp.Stationboard
	for i := range deps {
		deps[i].ID = departureID(deps[i])
	}
	return deps, nil
}
