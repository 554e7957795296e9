package transit

import "github.com/bhavya-srm/swisstraffic-buddy/pkg/geo"

// RankStations keeps the stations within radiusMeters of user, nearest first, and records the
// computed distance on each returned copy. The input slice is left untouched.
func RankStations(user geo.Coordinate, stations []Station, radiusMeters float64) []Station {
	ranked := geo.Rank(user, stations, Station.Position, radiusMeters)

	out := make([]Station, len(ranked))
	for i, r := range ranked {
		s := r.Item
		d := r.Distance
		s.Distance = &d
		out[i] = s
	}
	return out
}
