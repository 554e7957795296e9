package transit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/geo"
)

// apiTimeLayout is what transport.opendata.ch sends, e.g. 2025-03-04T08:15:00+0100
const apiTimeLayout = "2006-01-02T15:04:05-0700"

// Timestamp accepts the API's offset-without-colon format as well as RFC 3339 and null.
// It always marshals back to RFC 3339 (or null when zero).
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range []string{apiTimeLayout, time.RFC3339} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// StationResponse represents the object returned by /locations
type StationResponse struct {
	Stations []Station `json:"stations"`
}

// Station is a stop or station as returned by /locations. Distance is the distance to the user,
// set by the ranker; the client clears the API's own distance field on receipt.
type Station struct {
	ID         string
	Name       string
	Coordinate geo.Coordinate
	Distance   *float64
	IsFavorite bool
}

// stationJSON is the wire shape. The API reports coordinates as x (latitude) and y (longitude);
// stored favorites use latitude/longitude. Both are accepted.
type stationJSON struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Coordinate *coordinateJSON `json:"coordinate"`
	Distance   *float64        `json:"distance,omitempty"`
	IsFavorite bool            `json:"isFavorite,omitempty"`
}

type coordinateJSON struct {
	Type      string   `json:"type,omitempty"`
	X         *float64 `json:"x,omitempty"`
	Y         *float64 `json:"y,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (s *Station) UnmarshalJSON(data []byte) error {
	var raw stationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.ID = raw.ID
	s.Name = raw.Name
	s.IsFavorite = raw.IsFavorite
	s.Distance = raw.Distance
	s.Coordinate = geo.Coordinate{Latitude: math.NaN(), Longitude: math.NaN()}

	if c := raw.Coordinate; c != nil {
		lat, lon := firstOf(c.Latitude, c.X), firstOf(c.Longitude, c.Y)
		if lat != nil && lon != nil {
			s.Coordinate = geo.Coordinate{Latitude: *lat, Longitude: *lon}
		}
	}
	return nil
}

// MarshalJSON writes the station in the stored shape. Unknown coordinates are written as null
// because JSON cannot carry NaN.
func (s Station) MarshalJSON() ([]byte, error) {
	out := stationJSON{
		ID:         s.ID,
		Name:       s.Name,
		IsFavorite: s.IsFavorite,
	}
	if s.Distance != nil && !math.IsNaN(*s.Distance) {
		out.Distance = s.Distance
	}
	if s.Coordinate.Valid() {
		lat, lon := s.Coordinate.Latitude, s.Coordinate.Longitude
		out.Coordinate = &coordinateJSON{Latitude: &lat, Longitude: &lon}
	}
	return json.Marshal(out)
}

// Position returns the station's coordinate, used by the ranker
func (s Station) Position() geo.Coordinate {
	return s.Coordinate
}

// withoutAPIDistance clears the API's distance, which is relative to its search point
func withoutAPIDistance(stations []Station) []Station {
	out := make([]Station, len(stations))
	for i, s := range stations {
		s.Distance = nil
		out[i] = s
	}
	return out
}

func firstOf(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// DepartureResponse represents the object returned by /stationboard
type DepartureResponse struct {
	Stationboard []Departure `json:"stationboard"`
}

// Departure represents a single transport leaving a station
type Departure struct {
	// ID is derived from departure time, category and number. It is not unique across days.
	ID       string      `json:"id"`
	Category string      `json:"category"`
	Number   string      `json:"number"`
	To       string      `json:"to"`
	Operator string      `json:"operator,omitempty"`
	Stop     Stop        `json:"stop"`
	PassList []RouteStop `json:"passList,omitempty"`
}

// Stop holds the departure details at the queried station
type Stop struct {
	Departure Timestamp `json:"departure"`
	Platform  string    `json:"platform,omitempty"`
	// Delay is in minutes. Absent when the API has no prognosis.
	Delay *int `json:"delay,omitempty"`
}

// RouteStop is one entry of a departure's pass list
type RouteStop struct {
	Name      string    `json:"name"`
	Arrival   Timestamp `json:"arrival"`
	Departure Timestamp `json:"departure"`
	Platform  string    `json:"platform,omitempty"`
	Delay     *int      `json:"delay,omitempty"`
}

// The API nests the stop name in station.name
func (r *RouteStop) UnmarshalJSON(data []byte) error {
	type plain RouteStop
	var raw struct {
		plain
		Station *struct {
			Name string `json:"name"`
		} `json:"station"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = RouteStop(raw.plain)
	if r.Name == "" && raw.Station != nil {
		r.Name = raw.Station.Name
	}
	return nil
}

// LineLabel is the badge text, e.g. "T 11" or "IC 5"
func (d Departure) LineLabel() string {
	if d.Number == "" {
		return d.Category
	}
	return d.Category + " " + d.Number
}

// HasDelay reports whether the stop carries a positive delay
func (s Stop) HasDelay() bool {
	return s.Delay != nil && *s.Delay > 0
}

// DelayMinutes returns the delay in minutes, 0 when absent or not positive
func (s Stop) DelayMinutes() int {
	if !s.HasDelay() {
		return 0
	}
	return *s.Delay
}

// ExpectedDeparture is the scheduled departure shifted by any positive delay
func (s Stop) ExpectedDeparture() time.Time {
	return s.Departure.Add(time.Duration(s.DelayMinutes()) * time.Minute)
}

// HasDelay reports whether the pass list stop carries a positive delay
func (r RouteStop) HasDelay() bool {
	return r.Delay != nil && *r.Delay > 0
}

// Time is the best known time for the stop: departure, or arrival at the terminus
func (r RouteStop) Time() time.Time {
	if !r.Departure.IsZero() {
		return r.Departure.Time
	}
	return r.Arrival.Time
}

func departureID(d Departure) string {
	return fmt.Sprintf("%s-%s-%s", d.Stop.Departure.Format(apiTimeLayout), d.Category, d.Number)
}
