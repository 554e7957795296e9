package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/favorites"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/geo"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/i18n"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/locate"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/transit"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/tui"
)

var nearbyCmd = &cobra.Command{
	Use:   "nearby",
	Short: "List stations around you, closest first",
	Long: `Finds the stations within the search radius of your position and lists them by distance,
with your favorite stations on top. Pass --lat and --lon to skip the location lookup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		tr := app.T()
		radius, _ := cmd.Flags().GetFloat64("radius")

		coord, err := coordinateFromFlags(cmd)
		if err != nil {
			return err
		}

		var stations []transit.Station
		_ = spinner.New().
			Title(tr.T("finding.stations")).
			Action(func() {
				if coord == nil {
					var located geo.Coordinate
					located, err = app.Locate(ctx)
					if err != nil {
						return
					}
					coord = &located
				}
				stations, err = app.NearbyFrom(ctx, *coord, radius)
			}).
			Run()

		switch {
		case errors.Is(err, locate.ErrPermissionDenied):
			fmt.Println(tui.Notice(tr.T("location.required"), "Run 'nextup settings --consent' or pass --lat and --lon."))
			return nil
		case err != nil:
			log.Error().Err(err).Msg("nearby stations failed")
			return fmt.Errorf("could not find nearby stations: %w", err)
		}

		if radius <= 0 {
			radius = app.RadiusMeters
		}
		printNearby(os.Stdout, tr, app.Favorites.List(), stations, radius)
		return nil
	},
}

// printNearby writes favorites first and then the nearby stations that are not favorites
func printNearby(w io.Writer, tr *i18n.Translator, favs, stations []transit.Station, radius float64) {
	merged := favorites.Merge(favs, stations)

	if len(favs) > 0 {
		fmt.Fprintln(w, tui.Heading(tr.T("favorite.stations")))
		for _, st := range merged[:len(favs)] {
			fmt.Fprintf(w, "  %s\n", tui.StationLine(st))
		}
	}

	fmt.Fprintln(w, tui.Heading(tr.T("nearby.stations")))
	if len(stations) == 0 {
		fmt.Fprintln(w, tr.Tf("no.stations.description", geo.FormatDistance(radius)))
		return
	}
	for _, st := range merged[len(favs):] {
		fmt.Fprintf(w, "  %s\n", tui.StationLine(st))
	}
	fmt.Fprintln(w)
}

// coordinateFromFlags returns nil when neither --lat nor --lon was given
func coordinateFromFlags(cmd *cobra.Command) (*geo.Coordinate, error) {
	latSet, lonSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lon")
	if !latSet && !lonSet {
		return nil, nil
	}
	if latSet != lonSet {
		return nil, fmt.Errorf("--lat and --lon must be given together")
	}

	lat, _ := cmd.Flags().GetFloat64("lat")
	lon, _ := cmd.Flags().GetFloat64("lon")
	coord := geo.Coordinate{Latitude: lat, Longitude: lon}
	if !coord.Valid() {
		return nil, fmt.Errorf("coordinate %s is out of range", coord)
	}
	return &coord, nil
}

func init() {
	rootCmd.AddCommand(nearbyCmd)
	nearbyCmd.Flags().Float64("lat", 0, "Latitude to search from instead of your current location")
	nearbyCmd.Flags().Float64("lon", 0, "Longitude to search from instead of your current location")
	nearbyCmd.Flags().Float64P("radius", "r", 0, "Search radius in meters (default from NEXTUP_RADIUS, 1000)")
}
