package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"github.com/bhavya-srm/swisstraffic-buddy/pkg/transit"
	"github.com/bhavya-srm/swisstraffic-buddy/pkg/tui"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage your favorite stations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listFavorites()
	},
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your favorite stations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listFavorites()
	},
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <station>",
	Short: "Add the best matching station to your favorites",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		station, err := resolveStation(cmd, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if err := app.Favorites.Add(cmd.Context(), station); err != nil {
			return err
		}
		fmt.Println(tui.Success(app.T().Tf("favorite.added", station.Name)))
		return nil
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <station-id>",
	Short: "Remove a station from your favorites by its ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		name := id
		for _, st := range app.Favorites.List() {
			if st.ID == id {
				name = st.Name
			}
		}
		if !app.Favorites.IsFavorite(id) {
			return fmt.Errorf("%s is not a favorite", id)
		}
		if err := app.Favorites.Remove(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println(tui.Success(app.T().Tf("favorite.removed", name)))
		return nil
	},
}

var favoritesToggleCmd = &cobra.Command{
	Use:   "toggle <station>",
	Short: "Add the best matching station, or remove it if it already is a favorite",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		station, err := resolveStation(cmd, strings.Join(args, " "))
		if err != nil {
			return err
		}
		on, err := app.Favorites.Toggle(cmd.Context(), station)
		if err != nil {
			return err
		}
		if on {
			fmt.Println(tui.Success(app.T().Tf("favorite.added", station.Name)))
		} else {
			fmt.Println(tui.Success(app.T().Tf("favorite.removed", station.Name)))
		}
		return nil
	},
}

func listFavorites() error {
	tr := app.T()
	favs := app.Favorites.List()

	fmt.Println(tui.Heading(tr.T("favorite.stations")))
	if len(favs) == 0 {
		fmt.Println("No favorites yet. Add one with 'nextup favorites add <station>'.")
		return nil
	}
	for _, st := range favs {
		fmt.Printf("  %s  (%s)\n", tui.StationLine(st), st.ID)
	}
	fmt.Println()
	return nil
}

// resolveStation looks the text up and takes the best match, like the API's own ranking
func resolveStation(cmd *cobra.Command, text string) (transit.Station, error) {
	var stations []transit.Station
	var err error

	_ = spinner.New().
		Title(fmt.Sprintf("Searching stations for '%s'...", text)).
		Action(func() {
			stations, err = app.Client.SearchStations(cmd.Context(), text)
		}).
		Run()

	if err != nil {
		return transit.Station{}, fmt.Errorf("could not look up station: %w", err)
	}
	if len(stations) == 0 {
		return transit.Station{}, fmt.Errorf("no matching stations found for '%s'", text)
	}
	return stations[0], nil
}

func init() {
	rootCmd.AddCommand(favoritesCmd)
	favoritesCmd.AddCommand(favoritesListCmd, favoritesAddCmd, favoritesRemoveCmd, favoritesToggleCmd)
}
