package geo

import (
	"fmt"
	"math"
	"sort"
)

// EarthRadiusMeters is the mean earth radius used for all distance calculations.
const EarthRadiusMeters = 6371e3

// Coordinate is a WGS-84 position in decimal degrees
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate lies within the usual latitude/longitude ranges.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.5f,%.5f", c.Latitude, c.Longitude)
}

// Distance returns the great-circle distance in meters between a and b using the haversine formula.
// Out of range or NaN inputs are not guarded and propagate as NaN.
func Distance(a, b Coordinate) float64 {
	phi1 := a.Latitude * math.Pi / 180
	phi2 := b.Latitude * math.Pi / 180
	deltaPhi := (b.Latitude - a.Latitude) * math.Pi / 180
	deltaLambda := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// Ranked pairs an item with its distance from the reference point.
type Ranked[T any] struct {
	Item     T
	Distance float64
}

// Rank computes the distance from origin to every item, drops items farther than radiusMeters
// and returns the rest sorted nearest first. Items at equal distance keep their input order.
//
// Items whose distance is NaN never satisfy the radius check and are dropped.
func Rank[T any](origin Coordinate, items []T, position func(T) Coordinate, radiusMeters float64) []Ranked[T] {
	ranked := make([]Ranked[T], 0, len(items))
	for _, item := range items {
		d := Distance(origin, position(item))
		if d <= radiusMeters {
			ranked = append(ranked, Ranked[T]{Item: item, Distance: d})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Distance < ranked[j].Distance
	})

	return ranked
}

// FormatDistance renders a distance for display: whole meters below one kilometer, otherwise kilometers
// with one decimal. A zero distance renders as an empty string.
func FormatDistance(meters float64) string {
	if meters == 0 || math.IsNaN(meters) {
		return ""
	}
	if meters < 1000 {
		return fmt.Sprintf("%dm", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1fkm", meters/1000)
}
