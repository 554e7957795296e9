package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/exporter"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/transit"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/tui"
)

var departuresCmd = &cobra.Command{
	Use:   "departures <station>",
	Short: "Show the next departures of a station",
	Long:  "Fetches the live stationboard of a station with delays and platforms, optionally grouped by line or exported to an .ics calendar file.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		station := strings.Join(args, " ")
		limit, _ := cmd.Flags().GetInt("limit")
		grouped, _ := cmd.Flags().GetBool("grouped")
		exportPath, _ := cmd.Flags().GetString("export")

		if limit > 0 {
			app.StationboardSize = limit
		}

		deps, err := fetchDepartures(cmd, station)
		if err != nil {
			return err
		}

		if exportPath != "" {
			return exportDepartures(station, deps, exportPath)
		}

		printDepartures(station, deps, grouped)
		return nil
	},
}

func fetchDepartures(cmd *cobra.Command, station string) ([]transit.Departure, error) {
	var deps []transit.Departure
	var err error

	_ = spinner.New().
		Title(fmt.Sprintf("%s %s", app.T().T("loading.departures"), station)).
		Action(func() {
			deps, err = app.Departures(cmd.Context(), station)
		}).
		Run()

	if err != nil {
		return nil, fmt.Errorf("could not fetch departures for %s: %w", station, err)
	}
	return deps, nil
}

func printDepartures(station string, deps []transit.Departure, grouped bool) {
	tr := app.T()
	now := time.Now()

	fmt.Println(tui.Heading(fmt.Sprintf("%s %s", tr.T("departures.for"), station)))

	if len(deps) == 0 {
		fmt.Println(tr.T("no.departures.description"))
		return
	}

	if !grouped {
		for i, d := range deps {
			fmt.Printf("%3d. %s\n", i+1, tui.DepartureLine(d, now, tr, app.Colors))
		}
		fmt.Println()
		return
	}

	for _, route := range transit.SummarizeDepartures(deps, 2) {
		fmt.Printf("\n%s → %s\n", tui.Badge(app.Colors, route.Category, route.Number), route.To)
		for _, d := range route.Departures {
			delay := tui.DelayLabel(d.Stop.Delay)
			if delay != "" {
				delay = " " + delay
			}
			fmt.Printf("  • [%s] %s%s\n",
				d.Stop.Departure.Local().Format("15:04"),
				tui.FormatMinutes(transit.MinutesFromNow(d.Stop.ExpectedDeparture(), now), tr),
				delay,
			)
		}
	}
	fmt.Println()
}

func exportDepartures(station string, deps []transit.Departure, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create ics file: %w", err)
	}
	defer f.Close()

	if err := exporter.DeparturesICS(station, deps, f); err != nil {
		return fmt.Errorf("could not write ics file: %w", err)
	}

	fmt.Println(tui.Success(fmt.Sprintf("Exported %d departures to: %s", len(deps), path)))
	return nil
}

func init() {
	rootCmd.AddCommand(departuresCmd)
	departuresCmd.Flags().IntP("limit", "l", 0, "Number of departures to fetch (default 20)")
	departuresCmd.Flags().BoolP("grouped", "g", false, "Group departures by line and destination")
	departuresCmd.Flags().StringP("export", "e", "", "Write the departures to an .ics calendar file instead of printing them")
}
