package transit

import (
	"math"
	"sort"
	"time"
)

// SummarizedRoute holds the next few departures for a unique line and destination.
type SummarizedRoute struct {
	Category   string
	Number     string
	To         string
	Departures []Departure
}

// LineLabel mirrors Departure.LineLabel for the grouped route
func (r SummarizedRoute) LineLabel() string {
	return Departure{Category: r.Category, Number: r.Number}.LineLabel()
}

// SummarizeDepartures sorts departures by scheduled time and groups them by line and destination,
// limiting the output to maxPerRoute departures per unique route.
// This keeps high-frequency trams from pushing everything else off the screen.
func SummarizeDepartures(deps []Departure, maxPerRoute int) []SummarizedRoute {
	// Filter out any invalid times just in case
	var valid []Departure
	for _, d := range deps {
		if !d.Stop.Departure.IsZero() {
			valid = append(valid, d)
		}
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Stop.Departure.Before(valid[j].Stop.Departure.Time)
	})

	routeMap := make(map[string]*SummarizedRoute)
	var routeKeys []string // order of first appearance, which is chronological now

	for _, d := range valid {
		key := d.Category + "|" + d.Number + "|" + d.To
		if _, exists := routeMap[key]; !exists {
			routeMap[key] = &SummarizedRoute{
				Category: d.Category,
				Number:   d.Number,
				To:       d.To,
			}
			routeKeys = append(routeKeys, key)
		}

		if len(routeMap[key].Departures) < maxPerRoute {
			routeMap[key].Departures = append(routeMap[key].Departures, d)
		}
	}

	var result []SummarizedRoute
	for _, key := range routeKeys {
		result = append(result, *routeMap[key])
	}

	return result
}

// MinutesFromNow returns whole minutes until t, rounded, never negative
func MinutesFromNow(t, now time.Time) int {
	minutes := math.Round(t.Sub(now).Minutes())
	if minutes < 0 {
		return 0
	}
	return int(minutes)
}
