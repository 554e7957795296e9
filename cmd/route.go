package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/tui"
)

var routeCmd = &cobra.Command{
	Use:   "route <station> <number>",
	Short: "Show the stops of a departure",
	Long:  "Prints the remaining stops of the n-th departure (as numbered by 'nextup departures') from a station.",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[len(args)-1])
		if err != nil || n < 1 {
			return fmt.Errorf("departure number must be a positive integer, got %q", args[len(args)-1])
		}
		station := strings.Join(args[:len(args)-1], " ")

		if n > app.StationboardSize {
			app.StationboardSize = n
		}
		deps, err := fetchDepartures(cmd, station)
		if err != nil {
			return err
		}
		if n > len(deps) {
			return fmt.Errorf("%s has only %d upcoming departures", station, len(deps))
		}

		fmt.Println()
		fmt.Print(tui.RouteView(deps[n-1], time.Now(), app.T(), app.Colors))
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(routeCmd)
}
