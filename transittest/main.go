// Command transittest prints a live stationboard straight from the API, bypassing the
// CLI's store and preferences. Handy for checking connectivity and the response shape.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/transit"
)

func main() {
	station := flag.String("station", "Zürich HB", "station name to query")
	limit := flag.Int("limit", 5, "number of departures")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := transit.NewClient(transit.Options{})

	fmt.Printf("Fetching live stationboard for %s...\n", *station)

	deps, err := client.FetchStationboard(ctx, *station, *limit)
	if err != nil {
		log.Error().Err(err).Msg("stationboard request failed")
		os.Exit(1)
	}

	fmt.Printf("\n--- 🚆 Next Departures: %s ---\n", *station)
	for _, d := range deps {
		delayStr := ""
		if d.Stop.HasDelay() {
			delayStr = fmt.Sprintf(" (+%d min delay)", d.Stop.DelayMinutes())
		}

		platform := ""
		if d.Stop.Platform != "" {
			platform = " [" + d.Stop.Platform + "]"
		}

		fmt.Printf("[%s] %s -> %s%s%s\n",
			d.Stop.Departure.Local().Format("15:04"),
			d.LineLabel(),
			d.To,
			platform,
			delayStr)
	}
}
