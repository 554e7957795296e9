package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/transit"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/tui"
)

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Search stations by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		tr := app.T()
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			fmt.Println(tr.T("search.no.results"))
			return nil
		}

		var stations []transit.Station
		var err error

		_ = spinner.New().
			Title(tr.T("searching")).
			Action(func() {
				stations, err = app.Client.SearchStations(cmd.Context(), query)
			}).
			Run()

		if err != nil {
			return fmt.Errorf("%s: %w", tr.T("search.failed"), err)
		}

		if len(stations) == 0 {
			fmt.Println(tui.Notice(tr.T("search.no.results"), tr.T("search.try.different")))
			return nil
		}

		fmt.Println(tui.Heading(tr.T("search.stations.title")))
		for _, st := range stations {
			st.IsFavorite = app.Favorites.IsFavorite(st.ID)
			fmt.Printf("  %s  (%s)\n", tui.StationLine(st), st.ID)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
